package providers

import (
	"context"
	"net/http"
	"strings"
	"vibes/internal/models"
)

const (
	HeaderUserID   = "X-User-Id"
	HeaderUserName = "X-User-Name"
)

type identityKey struct{}

// IdentityMiddleware places the caller reported by the upstream auth proxy
// into the request context. Requests without a user id stay anonymous.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}
		identity := &models.Identity{
			UserID:      userID,
			DisplayName: strings.TrimSpace(r.Header.Get(HeaderUserName)),
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the caller or nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *models.Identity {
	identity, _ := ctx.Value(identityKey{}).(*models.Identity)
	return identity
}
