package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/churn_guard/backend/internal/auth"
)

const IdentityKey = "identity"

// RequireAuth rejects requests without a valid session cookie. A nil
// authenticator leaves the routes open.
func RequireAuth(a *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if a == nil {
			c.Next()
			return
		}
		id := a.Check(c.Request)
		if id.Status != auth.StatusAuthenticated {
			message := "Please log in"
			if id.Status == auth.StatusRejected {
				message = "Session is invalid or expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": message,
				},
			})
			return
		}
		c.Set(IdentityKey, id)
		c.Next()
	}
}
