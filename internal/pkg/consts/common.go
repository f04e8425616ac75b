package consts

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// 系统消息类型
const (
	SysBoxTypeRating   = 1
	SysBoxTypeFavorite = 2
)
