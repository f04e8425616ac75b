package api

import (
	"Opsboard/internal/api/handler"
	"Opsboard/internal/api/middleware"
)

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	OperationHandler *handler.OperationHandler
	RatingHandler    *handler.RatingHandler
	FavoriteHandler  *handler.FavoriteHandler
	SysBoxHandler    *handler.SysBoxHandler

	// Users Guard 用来校验用户状态
	Users middleware.ActiveChecker
}
