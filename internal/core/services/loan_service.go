package services

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/bibliotech/library-service/internal/core/domain"
	"github.com/bibliotech/library-service/internal/core/ports"
)

const (
	DefaultLoanTermDays = 7
	DefaultFeePerDay    = 2.00
)

// LoanService implements the loan lifecycle: opening loans against book
// availability, closing them with late-fee computation, and answering
// report queries. Both compound mutations are delegated to the
// repository as single transactions.
type LoanService struct {
	loans        ports.LoanRepository
	loanTermDays int
	feePerDay    float64

	// Now is the clock used for loan, due and return dates. Tests
	// override it; production wiring leaves it at time.Now.
	Now func() time.Time
}

var _ ports.LoanService = (*LoanService)(nil)

func NewLoanService(loans ports.LoanRepository, loanTermDays int, feePerDay float64) *LoanService {
	if loanTermDays <= 0 {
		loanTermDays = DefaultLoanTermDays
	}
	if feePerDay <= 0 {
		feePerDay = DefaultFeePerDay
	}
	return &LoanService{
		loans:        loans,
		loanTermDays: loanTermDays,
		feePerDay:    feePerDay,
		Now:          time.Now,
	}
}

// Open creates a loan dated today with a fixed term, decrementing the
// book's availability in the same transaction. The availability check
// and decrement are a single conditional update, so two concurrent
// requests cannot both take the last copy.
func (s *LoanService) Open(ctx context.Context, studentID, bookID string) (*domain.Loan, error) {
	today := s.today()

	loan := domain.Loan{
		ID:        uuid.NewString(),
		StudentID: studentID,
		BookID:    bookID,
		LoanDate:  today.Format(domain.DateLayout),
		DueDate:   today.AddDate(0, 0, s.loanTermDays).Format(domain.DateLayout),
	}

	payload, err := json.Marshal(ports.LoanOpenedEvent{
		LoanID:    loan.ID,
		StudentID: loan.StudentID,
		BookID:    loan.BookID,
		LoanDate:  loan.LoanDate,
		DueDate:   loan.DueDate,
	})
	if err != nil {
		return nil, err
	}

	if err := s.loans.Open(ctx, loan, ports.EventLoanOpened, payload); err != nil {
		return nil, err
	}
	return &loan, nil
}

// Close stamps the return date, computes the fee exactly once and
// restores the book's availability. The repository's conditional update
// guards against a concurrent double close.
func (s *LoanService) Close(ctx context.Context, loanID string) (float64, error) {
	loan, err := s.loans.FindByID(ctx, loanID)
	if err != nil {
		return 0, err
	}
	if loan.ReturnDate != nil {
		return 0, domain.ErrLoanAlreadyReturned
	}

	today := s.today()
	fee := s.lateFee(loan.DueDate, today)

	returnDate := today.Format(domain.DateLayout)
	payload, err := json.Marshal(ports.LoanReturnedEvent{
		LoanID:     loan.ID,
		BookID:     loan.BookID,
		ReturnDate: returnDate,
		Fee:        fee,
	})
	if err != nil {
		return 0, err
	}

	if err := s.loans.Close(ctx, loan.ID, loan.BookID, returnDate, fee, ports.EventLoanReturned, payload); err != nil {
		return 0, err
	}
	return fee, nil
}

func (s *LoanService) List(ctx context.Context) ([]domain.LoanRecord, error) {
	return s.loans.List(ctx)
}

func (s *LoanService) ListByStudent(ctx context.Context, studentID string) ([]domain.LoanRecord, error) {
	return s.loans.ListByStudent(ctx, studentID)
}

func (s *LoanService) ListOverdue(ctx context.Context) ([]domain.LoanRecord, error) {
	return s.loans.ListOverdue(ctx, s.today().Format(domain.DateLayout))
}

// today truncates the clock to a calendar date. Fees are charged per
// whole day late; returning on the due date costs nothing.
func (s *LoanService) today() time.Time {
	now := s.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *LoanService) lateFee(dueDate string, today time.Time) float64 {
	due, err := time.ParseInLocation(domain.DateLayout, dueDate, time.UTC)
	if err != nil {
		return 0
	}
	overdueDays := int(math.Ceil(today.Sub(due).Hours() / 24))
	if overdueDays <= 0 {
		return 0
	}
	return float64(overdueDays) * s.feePerDay
}
