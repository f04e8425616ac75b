package middleware

import (
	"Opsboard/internal/pkg/response"
	"Opsboard/internal/service"
	"context"
	"errors"
	"slices"

	"github.com/gin-gonic/gin"
)

// Policy 路由注册时声明的访问要求
type Policy struct {
	Roles         []string // 为空表示任意已登录用户
	AllowInactive bool     // 被封禁的用户是否可访问
}

// ActiveChecker 校验用户状态
type ActiveChecker interface {
	CheckActive(ctx context.Context, userID uint64) error
}

// Guard 必须挂在 AuthMiddleware 之后
func Guard(policy Policy, users ActiveChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint64(ContextUserID)
		if userID == 0 {
			response.Fail(c, response.Unauthorized, "未登录")
			c.Abort()
			return
		}

		if len(policy.Roles) > 0 && !hasAnyRole(c.GetStringSlice(ContextRoles), policy.Roles) {
			response.Fail(c, response.Forbidden, "权限不足：无权访问该资源")
			c.Abort()
			return
		}

		if !policy.AllowInactive {
			if err := users.CheckActive(c.Request.Context(), userID); err != nil {
				if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrUserInactive) {
					response.Fail(c, response.Forbidden, err.Error())
				} else {
					response.Error(c, err)
				}
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

func hasAnyRole(userRoles, required []string) bool {
	for _, r := range required {
		if slices.Contains(userRoles, r) {
			return true
		}
	}
	return false
}
