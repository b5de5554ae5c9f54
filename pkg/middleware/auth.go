package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// PrincipalKey gin context key for the authenticated principal
const PrincipalKey = "principal"

// Principal 已认证的请求主体
type Principal struct {
	UserID   uint
	Username string
}

// TokenParser 解析 Bearer token 并返回主体
type TokenParser interface {
	Parse(token string) (*Principal, error)
}

// GinAuthMiddleware Gin 鉴权中间件，校验 Bearer token 并注入主体
func GinAuthMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		principal, err := parser.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// CurrentPrincipal 从 gin context 中取出已认证主体
func CurrentPrincipal(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok
}
