package services

import (
	"context"

	"github.com/bibliotech/library-service/internal/core/domain"
	"github.com/bibliotech/library-service/internal/core/ports"
)

type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
	}
}

// Login performs an exact-match credential lookup and opens a session.
// Unknown email and wrong password both come back as
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Identity, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if user.Password != password {
		return "", nil, domain.ErrInvalidCredentials
	}

	identity := domain.Identity{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}

	token, err := s.sessions.Create(ctx, identity)
	if err != nil {
		return "", nil, err
	}
	return token, &identity, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}
