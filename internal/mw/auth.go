package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gateway-data-backend/internal/auth"
)

// UserKey is the gin context key holding the authenticated identity.
const UserKey = "user"

// BasicAuth rejects requests whose HTTP Basic credentials the verifier does
// not accept.
func BasicAuth(v auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if username, password, ok := c.Request.BasicAuth(); ok {
			if identity, ok := v.Verify(username, password); ok {
				c.Set(UserKey, identity)
				c.Next()
				return
			}
		}

		c.Header("WWW-Authenticate", `Basic realm="Authentication Required"`)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized access"})
	}
}
