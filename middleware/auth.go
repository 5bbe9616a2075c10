package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/storefront/session"
)

// RequireAuth guards routes that need a live session. Unauthenticated
// requests are told where to log in.
func RequireAuth(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessions.IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":    "authentication required",
				"redirect": "/login",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
