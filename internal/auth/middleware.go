package auth

import (
	"context"
	"net/http"

	"github.com/sakif/flashcard/internal/model"
)

// CookieName is the HttpOnly cookie holding the session JWT.
const CookieName = "token"

// contextKey is unexported so no other package can read or overwrite the
// value stored under it.
type contextKey string

const currentUserKey contextKey = "currentUser"

// RequireAuth rejects requests without a valid session with 401 and stores
// the caller in the context otherwise.
//
// Only /auth/me uses it. The study set and flashcard routes use OptionalAuth
// and let the services decide, so that "must be logged in" stays a rule of
// the core rather than of the router.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := userFromCookie(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCurrentUser(r.Context(), user)))
		})
	}
}

// OptionalAuth stores the caller in the context when a valid cookie is
// present and lets anonymous requests through untouched.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, err := userFromCookie(r, tokens); err == nil {
				r = r.WithContext(WithCurrentUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithCurrentUser returns a copy of ctx carrying user. Exported for handler
// tests, which build authenticated requests without minting a cookie.
func WithCurrentUser(ctx context.Context, user *model.CurrentUser) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

// CurrentUserFromContext returns the authenticated caller, or nil for an
// anonymous request. The nil is meaningful: services turn it into
// Unauthorized when an operation needs a user.
func CurrentUserFromContext(ctx context.Context) *model.CurrentUser {
	user, _ := ctx.Value(currentUserKey).(*model.CurrentUser)
	return user
}

func userFromCookie(r *http.Request, tokens *TokenService) (*model.CurrentUser, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, err
	}
	return tokens.Validate(cookie.Value)
}
