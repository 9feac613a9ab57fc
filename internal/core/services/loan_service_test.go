package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/bibliotech/library-service/internal/core/domain"
	"github.com/bibliotech/library-service/internal/core/ports"
	"github.com/bibliotech/library-service/internal/core/services"
)

type openCall struct {
	Loan      domain.Loan
	EventType string
	Payload   []byte
}

type closeCall struct {
	LoanID     string
	BookID     string
	ReturnDate string
	Fee        float64
	EventType  string
	Payload    []byte
}

// mockLoanRepository implements ports.LoanRepository with call tracking
// and error injection.
type mockLoanRepository struct {
	OpenCalls  []openCall
	CloseCalls []closeCall

	Loan *domain.Loan

	OverdueTodayArg string
	ByStudentArg    string

	OpenError     error
	CloseError    error
	FindByIDError error
}

var _ ports.LoanRepository = (*mockLoanRepository)(nil)

func (m *mockLoanRepository) Open(ctx context.Context, loan domain.Loan, eventType string, payload []byte) error {
	m.OpenCalls = append(m.OpenCalls, openCall{Loan: loan, EventType: eventType, Payload: payload})
	return m.OpenError
}

func (m *mockLoanRepository) Close(ctx context.Context, loanID, bookID, returnDate string, fee float64, eventType string, payload []byte) error {
	m.CloseCalls = append(m.CloseCalls, closeCall{
		LoanID:     loanID,
		BookID:     bookID,
		ReturnDate: returnDate,
		Fee:        fee,
		EventType:  eventType,
		Payload:    payload,
	})
	return m.CloseError
}

func (m *mockLoanRepository) FindByID(ctx context.Context, id string) (*domain.Loan, error) {
	if m.FindByIDError != nil {
		return nil, m.FindByIDError
	}
	return m.Loan, nil
}

func (m *mockLoanRepository) List(ctx context.Context) ([]domain.LoanRecord, error) {
	return nil, nil
}

func (m *mockLoanRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.LoanRecord, error) {
	m.ByStudentArg = studentID
	return nil, nil
}

func (m *mockLoanRepository) ListOverdue(ctx context.Context, today string) ([]domain.LoanRecord, error) {
	m.OverdueTodayArg = today
	return nil, nil
}

func fixedClock(date string) func() time.Time {
	t, _ := time.ParseInLocation(domain.DateLayout, date, time.UTC)
	return func() time.Time { return t.Add(10 * time.Hour) } // mid-day
}

func TestLoanService_Open(t *testing.T) {
	repo := &mockLoanRepository{}
	svc := services.NewLoanService(repo, 7, 2.00)
	svc.Now = fixedClock("2024-11-01")

	loan, err := svc.Open(context.Background(), "student-1", "book-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loan.LoanDate != "2024-11-01" {
		t.Errorf("expected loan date 2024-11-01, got %s", loan.LoanDate)
	}
	if loan.DueDate != "2024-11-08" {
		t.Errorf("expected due date 2024-11-08, got %s", loan.DueDate)
	}
	if loan.ReturnDate != nil || loan.Fee != nil {
		t.Error("new loan must be open with no fee")
	}
	if loan.ID == "" {
		t.Error("expected a generated loan id")
	}

	if len(repo.OpenCalls) != 1 {
		t.Fatalf("expected 1 Open call, got %d", len(repo.OpenCalls))
	}
	call := repo.OpenCalls[0]
	if call.EventType != ports.EventLoanOpened {
		t.Errorf("expected event type %q, got %q", ports.EventLoanOpened, call.EventType)
	}

	var evt ports.LoanOpenedEvent
	if err := json.Unmarshal(call.Payload, &evt); err != nil {
		t.Fatalf("failed to decode event payload: %v", err)
	}
	if evt.LoanID != loan.ID || evt.BookID != "book-1" || evt.DueDate != "2024-11-08" {
		t.Errorf("unexpected event payload: %+v", evt)
	}
}

func TestLoanService_Open_Unavailable(t *testing.T) {
	repo := &mockLoanRepository{OpenError: domain.ErrBookUnavailable}
	svc := services.NewLoanService(repo, 7, 2.00)
	svc.Now = fixedClock("2024-11-01")

	_, err := svc.Open(context.Background(), "student-1", "book-1")
	if !errors.Is(err, domain.ErrBookUnavailable) {
		t.Errorf("expected ErrBookUnavailable, got %v", err)
	}
}

func TestLoanService_Close_Fee(t *testing.T) {
	tests := []struct {
		name        string
		dueDate     string
		today       string
		expectedFee float64
	}{
		{"returned early", "2024-11-08", "2024-11-05", 0},
		{"returned on due date", "2024-11-08", "2024-11-08", 0},
		{"one day late", "2024-11-08", "2024-11-09", 2.00},
		{"three days late", "2024-11-08", "2024-11-11", 6.00},
		{"seven days late", "2024-11-08", "2024-11-15", 14.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockLoanRepository{
				Loan: &domain.Loan{
					ID:       "loan-1",
					BookID:   "book-1",
					LoanDate: "2024-11-01",
					DueDate:  tt.dueDate,
				},
			}
			svc := services.NewLoanService(repo, 7, 2.00)
			svc.Now = fixedClock(tt.today)

			fee, err := svc.Close(context.Background(), "loan-1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fee != tt.expectedFee {
				t.Errorf("expected fee %.2f, got %.2f", tt.expectedFee, fee)
			}

			if len(repo.CloseCalls) != 1 {
				t.Fatalf("expected 1 Close call, got %d", len(repo.CloseCalls))
			}
			call := repo.CloseCalls[0]
			if call.ReturnDate != tt.today {
				t.Errorf("expected return date %s, got %s", tt.today, call.ReturnDate)
			}
			if call.Fee != tt.expectedFee {
				t.Errorf("expected stored fee %.2f, got %.2f", tt.expectedFee, call.Fee)
			}
			if call.BookID != "book-1" {
				t.Errorf("expected book-1 availability restore, got %s", call.BookID)
			}
			if call.EventType != ports.EventLoanReturned {
				t.Errorf("expected event type %q, got %q", ports.EventLoanReturned, call.EventType)
			}
		})
	}
}

func TestLoanService_Close_AlreadyReturned(t *testing.T) {
	returned := "2024-11-10"
	repo := &mockLoanRepository{
		Loan: &domain.Loan{
			ID:         "loan-1",
			BookID:     "book-1",
			DueDate:    "2024-11-08",
			ReturnDate: &returned,
		},
	}
	svc := services.NewLoanService(repo, 7, 2.00)
	svc.Now = fixedClock("2024-11-20")

	_, err := svc.Close(context.Background(), "loan-1")
	if !errors.Is(err, domain.ErrLoanAlreadyReturned) {
		t.Errorf("expected ErrLoanAlreadyReturned, got %v", err)
	}
	if len(repo.CloseCalls) != 0 {
		t.Errorf("expected no Close call on an already returned loan, got %d", len(repo.CloseCalls))
	}
}

func TestLoanService_Close_NotFound(t *testing.T) {
	repo := &mockLoanRepository{FindByIDError: domain.ErrLoanNotFound}
	svc := services.NewLoanService(repo, 7, 2.00)

	_, err := svc.Close(context.Background(), "missing")
	if !errors.Is(err, domain.ErrLoanNotFound) {
		t.Errorf("expected ErrLoanNotFound, got %v", err)
	}
}

func TestLoanService_ListOverdue_PassesToday(t *testing.T) {
	repo := &mockLoanRepository{}
	svc := services.NewLoanService(repo, 7, 2.00)
	svc.Now = fixedClock("2024-12-01")

	if _, err := svc.ListOverdue(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.OverdueTodayArg != "2024-12-01" {
		t.Errorf("expected overdue cutoff 2024-12-01, got %s", repo.OverdueTodayArg)
	}
}
