package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders marks every API response as not to be framed, sniffed or
// cached. Responses carry patient data.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
