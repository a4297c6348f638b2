package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"labkit/internal/token"
	"labkit/pkg/config"
)

// IdentityLoader resolves a token subject to an authenticated identity.
// Implementations must reject users that are not approved or not active.
type IdentityLoader interface {
	FindIdentity(ctx context.Context, userID string) (*Identity, error)
}

// Authenticate validates the Authorization bearer token, loads the user and
// attaches it to the request context.
//
// Expected header:
// - Authorization: Bearer <JWT>
func Authenticate(cfg config.Config, users IdentityLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "missing bearer token")
				return
			}

			v, err := token.Verify(strings.TrimSpace(authz[7:]), cfg.JWTSecret, time.Now())
			if err != nil {
				WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid token")
				return
			}

			id, err := users.FindIdentity(r.Context(), v.UserID)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "unknown or inactive user")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAdmin gates a route group to administrators. It must run after
// Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromContext(r.Context())
		if id == nil {
			WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "missing identity")
			return
		}
		if !id.IsAdmin() {
			WriteError(w, http.StatusForbidden, CodeForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
