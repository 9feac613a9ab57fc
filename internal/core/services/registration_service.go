package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bibliotech/library-service/internal/core/domain"
	"github.com/bibliotech/library-service/internal/core/ports"
)

type RegistrationService struct {
	users ports.UserRepository
}

var _ ports.RegistrationService = (*RegistrationService)(nil)

func NewRegistrationService(users ports.UserRepository) *RegistrationService {
	return &RegistrationService{users: users}
}

// RegisterUser creates a user with the given role, defaulting to STUDENT
// when none is supplied. Email uniqueness is enforced by the store and
// surfaces as domain.ErrDuplicateEmail.
func (s *RegistrationService) RegisterUser(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	if role == "" {
		role = domain.RoleStudent
	}

	user := domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		Password:  password,
		CreatedAt: time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *RegistrationService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}
