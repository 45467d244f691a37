package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIKeyHeader is the header storefront clients authenticate with
const APIKeyHeader = "X-API-Key"

// APIKey returns a middleware that checks the request's API key against the
// configured key set. With no keys configured the check is disabled, so local
// development works without credentials.
func APIKey(keys []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(keys) == 0 {
			c.Next()
			return
		}

		provided := c.GetHeader(APIKeyHeader)
		if provided != "" {
			for _, key := range keys {
				if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) == 1 {
					c.Next()
					return
				}
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Missing or invalid API key",
			},
		})
	}
}
