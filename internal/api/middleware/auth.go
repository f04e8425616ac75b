package middleware

import (
	"Opsboard/internal/pkg/consts"
	"Opsboard/internal/pkg/logger"
	"Opsboard/internal/pkg/redis"
	"Opsboard/internal/pkg/response"
	"Opsboard/internal/pkg/security"
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	goRedis "github.com/redis/go-redis/v9"
)

const (
	ContextUserID = "user_id"
	ContextRoles  = "roles"
)

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		signature, err := security.ExtractSignature(tokenString)
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		revoked, err := isRevoked(c.Request.Context(), signature)
		if err != nil {
			response.Fail(c, response.InternalServerError, "未知错误")
			c.Abort()
			return
		}
		if revoked {
			response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		claims, err := security.ValidateToken(tokenString)
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(authHeader, "Bearer "), true
}

// isRevoked 账号系统登出时把签名写入黑名单
func isRevoked(ctx context.Context, signature string) (bool, error) {
	if redis.Rdb == nil {
		return false, nil
	}
	err := redis.Rdb.Get(ctx, consts.TokenBlacklistKey+signature).Err()
	if errors.Is(err, goRedis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func setIdentity(c *gin.Context, claims *security.UserClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRoles, claims.Roles)

	newCtx := context.WithValue(c.Request.Context(), logger.UserIDKey, claims.UserID)
	c.Request = c.Request.WithContext(newCtx)
}
