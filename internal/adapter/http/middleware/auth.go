package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/voyago/tripledger/internal/infrastructure/auth"
)

// ContextKey is the type for context keys.
type ContextKey string

const (
	// ActorContextKey is the context key for the acting member's ID.
	ActorContextKey ContextKey = "actor"

	// ActorHeader carries the acting member's ID when token auth is
	// disabled. Trusted only behind the gateway.
	ActorHeader = "X-Member-ID"
)

// AuthMiddleware verifies the bearer token and stores the acting member's
// ID in the request context.
func AuthMiddleware(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ActorContextKey, claims.MemberID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HeaderActor resolves the acting member from the X-Member-ID header. Used
// when token auth is disabled and identity is asserted upstream.
func HeaderActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		memberID := r.Header.Get(ActorHeader)
		if memberID == "" {
			http.Error(w, "missing "+ActorHeader+" header", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ActorContextKey, memberID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActorFromContext extracts the acting member's ID from context.
func GetActorFromContext(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(ActorContextKey).(string)
	return actor, ok && actor != ""
}
