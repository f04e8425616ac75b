package middleware

import (
	"Opsboard/internal/pkg/security"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：解析成功注入 UID，失败或缺失则 UID 为 0
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextUserID, uint64(0))

		token, ok := bearerToken(c)
		if ok {
			if claims, err := security.ValidateToken(token); err == nil {
				setIdentity(c, claims)
			}
		}

		c.Next()
	}
}
