package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/bibliotech/library-service/internal/core/domain"
	"github.com/bibliotech/library-service/internal/core/ports"
)

// AuthMiddleware guards protected routes: it resolves the bearer token
// through the session store and attaches the identity to the request
// context before business logic runs.
type AuthMiddleware struct {
	sessions ports.SessionStore
}

func NewAuthMiddleware(sessions ports.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

type contextKey string

const identityKey contextKey = "identity"

// IdentityFromContext returns the identity the middleware attached to
// the request, if any.
func IdentityFromContext(ctx context.Context) (*domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*domain.Identity)
	return identity, ok
}

// ContextWithIdentity attaches an identity the way the middleware does.
func ContextWithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// Authenticate rejects requests without a resolvable session token.
func (m *AuthMiddleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := m.resolve(w, r)
		if !ok {
			return
		}
		next(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
	}
}

// RequireRole layers a role check on top of Authenticate. Authenticated
// callers outside the allowed set get 403, distinct from 401.
func (m *AuthMiddleware) RequireRole(roles []domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := m.resolve(w, r)
		if !ok {
			return
		}

		allowed := false
		for _, role := range roles {
			if identity.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			log.Printf("Role mismatch: required one of %v, got %s", roles, identity.Role)
			unauthorized(w, http.StatusForbidden, "forbidden")
			return
		}

		next(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
	}
}

func (m *AuthMiddleware) resolve(w http.ResponseWriter, r *http.Request) (*domain.Identity, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		unauthorized(w, http.StatusUnauthorized, "missing authorization header")
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		unauthorized(w, http.StatusUnauthorized, "invalid authorization header")
		return nil, false
	}

	identity, err := m.sessions.Resolve(r.Context(), parts[1])
	if err != nil {
		unauthorized(w, http.StatusUnauthorized, "invalid session token")
		return nil, false
	}
	return identity, true
}

func unauthorized(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
