package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dentalcenter/practice-api/internal/api/respond"
	"github.com/dentalcenter/practice-api/internal/auth"
)

type contextKey string

const sessionProfileKey contextKey = "sessionProfile"

// SessionAuth resolves the bearer token to a session profile and stores it
// on the request context. Requests without a valid session get 401.
func SessionAuth(sessions *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				respond.Error(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			token := strings.TrimPrefix(header, "Bearer ")

			profile, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "invalid or expired session")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithProfile(r.Context(), &profile)))
		})
	}
}

// WithProfile stores a session profile on the context, as SessionAuth does.
func WithProfile(ctx context.Context, profile *auth.Profile) context.Context {
	return context.WithValue(ctx, sessionProfileKey, profile)
}

// RequireRole gates a subtree to one role. It must run after SessionAuth.
func RequireRole(role auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, ok := ProfileFromContext(r.Context())
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if profile.Role != role {
				respond.Error(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ProfileFromContext returns the session profile if present.
func ProfileFromContext(ctx context.Context) (*auth.Profile, bool) {
	profile, ok := ctx.Value(sessionProfileKey).(*auth.Profile)
	return profile, ok
}
