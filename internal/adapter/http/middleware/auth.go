package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"noteflow/internal/core/port"
	"noteflow/pkg/auth"
)

const (
	UserUIDKey   = "x-user-uid"
	UserEmailKey = "x-user-email"
	RawTokenKey  = "x-raw-token"
)

// JwtAuth verifies the bearer token, rejects revoked sessions, and
// exposes the owner identity on the gin context. All record routes sit
// behind it; the owner is never read from the request body.
func JwtAuth(revoker port.TokenRevoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := c.GetHeader("Authorization")

		if bearer == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"errors": []string{"Unauthorized request"},
			})

			c.Abort()
			return
		}

		if !strings.HasPrefix(bearer, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"errors": []string{"Invalid authorization format"},
			})

			c.Abort()
			return
		}

		tokenString := bearer[len("Bearer "):]

		claims, err := auth.VerifyJwtToken(tokenString)

		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"errors": []string{"Unauthorized request", err.Error()},
			})
			c.Abort()
			return
		}

		if revoker != nil {
			revoked, err := revoker.IsRevoked(c.Request.Context(), tokenString)

			if err == nil && revoked {
				c.JSON(http.StatusUnauthorized, gin.H{
					"errors": []string{"Session has been revoked"},
				})
				c.Abort()
				return
			}
		}

		uid, _ := claims["uid"].(string)
		email, _ := claims["email"].(string)

		if uid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"errors": []string{"Unauthorized request"},
			})
			c.Abort()
			return
		}

		c.Set(UserUIDKey, uid)
		c.Set(UserEmailKey, email)
		c.Set(RawTokenKey, tokenString)

		c.Next()
	}
}

// CurrentUID returns the authenticated owner, or "" outside JwtAuth.
func CurrentUID(c *gin.Context) string {
	return c.GetString(UserUIDKey)
}
