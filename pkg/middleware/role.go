package middleware

import (
	"net/http"

	"github.com/firstmoments/first-moments-api/pkg/httputil"
	"github.com/sirupsen/logrus"
)

// RequireRole blocks requests whose authenticated user lacks the given role.
// Must run after AuthMiddleware.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserFromContext(r.Context())
			if claims == nil {
				httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if claims.Role != role {
				logrus.WithFields(logrus.Fields{
					"userID":   claims.UserID,
					"required": role,
					"actual":   claims.Role,
				}).Warn("Role check failed")
				httputil.RespondError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
