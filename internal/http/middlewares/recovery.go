package middlewares

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a 500 with the usual error envelope and logs
// the stack.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			reqID, _ := c.Get(CtxRequestID)
			log.ErrorContext(c.Request.Context(), "panic recovered",
				"panic", rec,
				"request_id", reqID,
				"route", c.FullPath(),
				"stack", string(debug.Stack()),
			)

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"msg":     "Something went wrong!",
				"message": "Something went wrong!",
				"error": gin.H{
					"code":      "internal_error",
					"message":   "Something went wrong!",
					"requestId": reqID,
				},
			})
		}()

		c.Next()
	}
}
