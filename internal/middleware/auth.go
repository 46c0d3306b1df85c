package middleware

import (
	"context"
	"net/http"

	"github.com/asistio/asistio/internal/ctxkeys"
	"github.com/asistio/asistio/internal/guard"
	"github.com/asistio/asistio/internal/model"
	"github.com/asistio/asistio/internal/service"
)

// AccountReader is the slice of the auth directory this middleware needs.
type AccountReader interface {
	ByID(ctx context.Context, accountID string) (*model.Account, error)
}

// Auth checks for a JWT cookie and, when valid, loads the account and its
// profile into the request context. Requests without a valid session pass
// through unauthenticated; the Require* guards decide what to do then.
func Auth(authService *service.AuthService, profileService *service.ProfileService, dir AccountReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("auth_token")
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authService.VerifyJWT(cookie.Value)
			if err != nil {
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			accountID, ok := claims["user_id"].(string)
			if !ok {
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			account, err := dir.ByID(r.Context(), accountID)
			if err != nil {
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			// The credential never travels in the context
			account.PasswordHash = ""

			profile, err := profileService.ByID(r.Context(), accountID)
			if err != nil {
				// Trigger guarantees a profile per account; a miss means
				// the account is gone or the row was never created
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithAccount(r.Context(), account)
			ctx = ctxkeys.WithProfile(ctx, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth admits any authenticated caller.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return RequireRole(next)
}

// RequireRole admits authenticated callers whose profile role is in the
// allowed set (any role when the set is empty). The decision comes from
// guard.Evaluate; API callers get JSON status codes rather than redirects.
func RequireRole(next http.HandlerFunc, allowed ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := ctxkeys.Account(r.Context())
		profile := ctxkeys.Profile(r.Context())

		role := ""
		if profile != nil {
			role = profile.RoleName()
		}

		switch d := guard.Evaluate(account != nil, role, allowed); d {
		case guard.DecisionRedirectSignIn:
			denyJSON(w, guard.RedirectPath(d), "authentication required", http.StatusUnauthorized)
		case guard.DecisionRedirectHome:
			denyJSON(w, guard.RedirectPath(d), "forbidden", http.StatusForbidden)
		default:
			next.ServeHTTP(w, r)
		}
	}
}

// denyJSON rejects the request with a JSON error body. The Location
// header carries the page the SPA should navigate to.
func denyJSON(w http.ResponseWriter, location, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Location", location)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
