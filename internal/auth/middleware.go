package auth

import (
	"context"
	"log"
	"net/http"
)

// SessionCookie carries the signed session token.
const SessionCookie = "blog_session"

type contextKey string

const sessionContextKey contextKey = "session"

// SessionFromContext returns the verified session, if any.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(*Session)
	return s, ok && s != nil
}

// WithSession verifies the session cookie when present and stores the result
// in the request context. Requests without a valid cookie pass through
// anonymously.
func WithSession(m *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			session, err := m.Verify(cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects anonymous requests.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WhitelistChecker reports whether an email may use the admin console.
type WhitelistChecker interface {
	IsWhitelisted(ctx context.Context, email string) (bool, error)
}

// RequireAdmin rejects sessions whose email is not on the admin whitelist.
func RequireAdmin(checker WhitelistChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			allowed, err := checker.IsWhitelisted(r.Context(), session.Email)
			if err != nil {
				log.Printf("whitelist check failed: %v", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if !allowed {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
