package middlewares

import (
	"net/http"
	"strings"

	"github.com/geocoder89/recipehub/internal/actorctx"
	"github.com/geocoder89/recipehub/internal/auth"
	"github.com/geocoder89/recipehub/internal/observability"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt  TokenVerifier
	prom *observability.Prom
}

func NewAuthMiddleware(jwt TokenVerifier, prom *observability.Prom) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, prom: prom}
}

const tokenHeader = "x-auth-token"

// RequireAuth accepts the token from x-auth-token or an Authorization bearer
// header. Missing and bad tokens get the same response.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFrom(c)
		if raw == "" {
			m.deny(c, "missing")
			return
		}

		claims, err := m.jwt.Verify(raw)
		if err != nil {
			m.deny(c, "invalid")
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Request = c.Request.WithContext(actorctx.WithUserID(c.Request.Context(), claims.UserID))

		c.Next()
	}
}

func tokenFrom(c *gin.Context) string {
	if raw := strings.TrimSpace(c.GetHeader(tokenHeader)); raw != "" {
		return raw
	}

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

func (m *AuthMiddleware) deny(c *gin.Context, reason string) {
	if m.prom != nil {
		m.prom.AuthFailuresTotal.WithLabelValues(reason).Inc()
	}

	reqID, _ := c.Get(CtxRequestID)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"msg": "Authorization denied",
		"error": gin.H{
			"code":      "unauthorized",
			"message":   "Authorization denied",
			"requestId": reqID,
		},
	})
}

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
