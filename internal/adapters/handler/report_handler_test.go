package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bibliotech/library-service/internal/adapters/handler"
	"github.com/bibliotech/library-service/internal/core/domain"
)

func TestReportHandler_LoansByStudent_StaffFilter(t *testing.T) {
	svc := &mockLoanService{}
	h := handler.NewReportHandler(svc)

	req := httptest.NewRequest("GET", "/reports/loans-by-student?studentId=student-7", nil)
	req = withIdentity(req, domain.Identity{ID: "staff-1", Role: domain.RoleLibrarian})
	rec := httptest.NewRecorder()

	h.LoansByStudent(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.ByStudentIDs) != 1 || svc.ByStudentIDs[0] != "student-7" {
		t.Errorf("expected filter student-7, got %v", svc.ByStudentIDs)
	}
}

func TestReportHandler_LoansByStudent_StaffUnfiltered(t *testing.T) {
	svc := &mockLoanService{}
	h := handler.NewReportHandler(svc)

	req := httptest.NewRequest("GET", "/reports/loans-by-student", nil)
	req = withIdentity(req, domain.Identity{ID: "staff-1", Role: domain.RoleAdmin})
	rec := httptest.NewRecorder()

	h.LoansByStudent(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.ByStudentIDs) != 1 || svc.ByStudentIDs[0] != "" {
		t.Errorf("expected unfiltered report, got %v", svc.ByStudentIDs)
	}
}

func TestReportHandler_LoansByStudent_StudentForcedToSelf(t *testing.T) {
	svc := &mockLoanService{}
	h := handler.NewReportHandler(svc)

	// A student asking for another student's loans gets their own.
	req := httptest.NewRequest("GET", "/reports/loans-by-student?studentId=student-7", nil)
	req = withIdentity(req, domain.Identity{ID: "student-1", Role: domain.RoleStudent})
	rec := httptest.NewRecorder()

	h.LoansByStudent(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.ByStudentIDs) != 1 || svc.ByStudentIDs[0] != "student-1" {
		t.Errorf("expected scoping to student-1, got %v", svc.ByStudentIDs)
	}
}

func TestReportHandler_OverdueLoans(t *testing.T) {
	svc := &mockLoanService{
		Records: []domain.LoanRecord{
			{
				ID:       "loan-1",
				LoanDate: "2024-10-01",
				DueDate:  "2024-10-08",
				Student:  domain.Identity{ID: "student-1", Name: "Ana Santos", Role: domain.RoleStudent},
				Book:     domain.Book{ID: "book-1", Title: "Vidas Secas"},
			},
		},
	}
	h := handler.NewReportHandler(svc)

	req := httptest.NewRequest("GET", "/reports/overdue", nil)
	rec := httptest.NewRecorder()

	h.OverdueLoans(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.OverdueCalls != 1 {
		t.Errorf("expected 1 overdue query, got %d", svc.OverdueCalls)
	}
}
