package middlewares

import (
	"github.com/gin-gonic/gin"
)

// The API only ever returns JSON, so nothing may be framed or loaded from it.
const apiCSP = "default-src 'none'; frame-ancestors 'none'"

// SecurityHeaders sets the response hardening headers. hsts should only be on
// when the service is reached over TLS.
func SecurityHeaders(hsts bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cross-Origin-Resource-Policy", "same-site")
		h.Set("Content-Security-Policy", apiCSP)
		if hsts {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
