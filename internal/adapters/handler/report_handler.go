package handler

import (
	"net/http"

	"github.com/bibliotech/library-service/internal/adapters/middleware"
	"github.com/bibliotech/library-service/internal/core/domain"
	"github.com/bibliotech/library-service/internal/core/ports"
)

type ReportHandler struct {
	loanService ports.LoanService
}

func NewReportHandler(loans ports.LoanService) *ReportHandler {
	return &ReportHandler{loanService: loans}
}

// LoansByStudent reports loans filtered by the studentId query
// parameter; without one it returns every loan grouped by student.
// Students are always scoped to themselves regardless of the parameter.
func (h *ReportHandler) LoansByStudent(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	studentID := r.URL.Query().Get("studentId")
	if identity.Role == domain.RoleStudent {
		studentID = identity.ID
	}

	loans, err := h.loanService.ListByStudent(r.Context(), studentID)
	if err != nil {
		internalError(w, "failed to build loans-by-student report", err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}

// OverdueLoans reports open loans past their due date. Overdue status is
// derived at query time; returned loans never show up however late they
// came back.
func (h *ReportHandler) OverdueLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loanService.ListOverdue(r.Context())
	if err != nil {
		internalError(w, "failed to build overdue report", err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}
