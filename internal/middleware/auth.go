// Package middleware provides HTTP middleware for the blog API server.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"blogapi/internal/identity"
)

// Resolver turns a bearer token into a caller. Implemented by the
// identity service.
type Resolver interface {
	Resolve(ctx context.Context, token string) (identity.Caller, error)
}

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// CallerKey is the context key for the resolved caller.
	CallerKey contextKey = "caller"
)

// LoadCaller resolves the Authorization bearer token into a caller and
// stores it in the request context. Downstream handlers access it via
// CallerFromCtx. This middleware does NOT enforce authentication; a
// missing or unknown token yields the anonymous caller.
func LoadCaller(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := resolver.Resolve(r.Context(), BearerToken(r))
			if err != nil {
				// Token store unreachable. Log and treat as anonymous
				// rather than failing public reads.
				slog.Warn("resolve caller", "error", err)
				caller = identity.Anonymous
			}

			ctx := context.WithValue(r.Context(), CallerKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401. Must be applied
// after LoadCaller in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFromCtx(r.Context())
		if !caller.Authenticated {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireVerified rejects callers who enabled TOTP but have not verified
// the current token with 403. Must be applied after RequireAuth.
func RequireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFromCtx(r.Context())
		if caller.Authenticated && !caller.Verified {
			writeJSONError(w, http.StatusForbidden, "two-factor verification required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns 403 if the caller is not a verified admin.
// Must be applied after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFromCtx(r.Context())
		if !caller.Admin || !caller.Verified {
			writeJSONError(w, http.StatusForbidden, "admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CallerFromCtx extracts the caller from the request context. Returns
// the anonymous caller if LoadCaller did not run.
func CallerFromCtx(ctx context.Context) identity.Caller {
	caller, ok := ctx.Value(CallerKey).(identity.Caller)
	if !ok {
		return identity.Anonymous
	}
	return caller
}

// BearerToken extracts the token from the Authorization header. Returns
// "" if the header is absent or not a Bearer scheme.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return auth[len(prefix):]
	}
	return ""
}
