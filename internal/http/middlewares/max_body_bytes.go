package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes rejects a declared oversize body up front and caps the rest
// while they are read.
func MaxBodyBytes(max int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.ContentLength > max {
			reqID, _ := ctx.Get(CtxRequestID)
			ctx.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"msg": "Request body too large",
				"error": gin.H{
					"code":      "body_too_large",
					"message":   "Request body too large",
					"details":   gin.H{"limit": max},
					"requestId": reqID,
				},
			})
			return
		}

		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, max)

		ctx.Next()
	}
}
