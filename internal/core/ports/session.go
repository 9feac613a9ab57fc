package ports

import (
	"context"

	"github.com/bibliotech/library-service/internal/core/domain"
)

// SessionStore maps opaque bearer tokens to authenticated identities.
// Sessions have no expiry; a process restart of the backing store logs
// everyone out.
type SessionStore interface {
	Create(ctx context.Context, identity domain.Identity) (string, error)
	// Resolve returns domain.ErrSessionNotFound for unknown tokens.
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
	// Destroy is idempotent.
	Destroy(ctx context.Context, token string) error
}
