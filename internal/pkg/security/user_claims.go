package security

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserClaims 令牌由账号系统签发，这里只关心用户 ID 与角色
type UserClaims struct {
	UserID uint64   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}
