package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bibliotech/library-service/internal/core/domain"
	"github.com/bibliotech/library-service/internal/core/ports"
)

type UserHandler struct {
	registrationService ports.RegistrationService
}

func NewUserHandler(registration ports.RegistrationService) *UserHandler {
	return &UserHandler{registrationService: registration}
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	var role domain.Role
	if req.Role != "" {
		parsed, ok := domain.ParseRole(req.Role)
		if !ok {
			writeError(w, http.StatusBadRequest, "unsupported role")
			return
		}
		role = parsed
	}

	user, err := h.registrationService.RegisterUser(r.Context(), req.Name, req.Email, req.Password, role)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		internalError(w, "failed to create user", err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.registrationService.ListUsers(r.Context())
	if err != nil {
		internalError(w, "failed to list users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
