package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/firstmoments/first-moments-api/pkg/httputil"
	jwtutil "github.com/firstmoments/first-moments-api/pkg/jwt"
	"github.com/sirupsen/logrus"
)

type contextKey string

const userContextKey contextKey = "user"

// AuthMiddleware validates the bearer token and stores the claims in the
// request context. Refresh tokens are rejected here; they are only valid
// on the refresh endpoint.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "Missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				httputil.RespondError(w, http.StatusUnauthorized, "Invalid authorization header")
				return
			}

			claims, err := jwtutil.ParseToken(parts[1], jwtSecret)
			if err != nil {
				logrus.WithError(err).Warn("Token validation failed")
				httputil.RespondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			if claims.TokenType != jwtutil.TokenTypeAccess {
				httputil.RespondError(w, http.StatusUnauthorized, "Access token required")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the authenticated user's claims, or nil when
// the request was not authenticated.
func GetUserFromContext(ctx context.Context) *jwtutil.Claims {
	claims, ok := ctx.Value(userContextKey).(*jwtutil.Claims)
	if !ok {
		return nil
	}
	return claims
}

// WithUser injects claims into a context. Used by tests.
func WithUser(ctx context.Context, claims *jwtutil.Claims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}
