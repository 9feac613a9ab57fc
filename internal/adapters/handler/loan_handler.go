package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bibliotech/library-service/internal/adapters/metrics"
	"github.com/bibliotech/library-service/internal/adapters/middleware"
	"github.com/bibliotech/library-service/internal/core/domain"
	"github.com/bibliotech/library-service/internal/core/ports"
)

type LoanHandler struct {
	loanService ports.LoanService
}

func NewLoanHandler(loans ports.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loans}
}

type CreateLoanRequest struct {
	StudentID string `json:"studentId"`
	BookID    string `json:"bookId"`
}

func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.StudentID == "" || req.BookID == "" {
		writeError(w, http.StatusBadRequest, "studentId and bookId are required")
		return
	}

	loan, err := h.loanService.Open(r.Context(), req.StudentID, req.BookID)
	if err != nil {
		if errors.Is(err, domain.ErrBookUnavailable) {
			writeError(w, http.StatusBadRequest, "book unavailable")
			return
		}
		internalError(w, "failed to open loan", err)
		return
	}

	metrics.LoansOpened.Inc()
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      loan.ID,
		"success": true,
	})
}

// Return closes the loan identified by the path and reports the fee the
// lifecycle engine computed for it.
func (h *LoanHandler) Return(w http.ResponseWriter, r *http.Request) {
	loanID := r.PathValue("id")

	fee, err := h.loanService.Close(r.Context(), loanID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			writeError(w, http.StatusNotFound, "loan not found")
		case errors.Is(err, domain.ErrLoanAlreadyReturned):
			writeError(w, http.StatusBadRequest, "loan already returned")
		default:
			internalError(w, "failed to close loan", err)
		}
		return
	}

	metrics.LoansReturned.Inc()
	metrics.LateFees.Observe(fee)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"fee":     fee,
	})
}

// List returns all loans for staff; students only see their own.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var (
		loans []domain.LoanRecord
		err   error
	)
	if identity.Role == domain.RoleStudent {
		loans, err = h.loanService.ListByStudent(r.Context(), identity.ID)
	} else {
		loans, err = h.loanService.List(r.Context())
	}
	if err != nil {
		internalError(w, "failed to list loans", err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}
