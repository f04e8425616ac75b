package api

import (
	"Opsboard/internal/api/config"
	"Opsboard/internal/api/middleware"
	"Opsboard/internal/pkg/consts"
	"Opsboard/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

const pingPath = "/api/ping"

func SetupRouter(group *HandlersGroup, serverCfg config.ServerConfig, logCfg config.LogConfig) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware(pingPath))
	r.Use(middleware.CORSMiddleware(serverCfg.AllowOrigins))
	logger.SetupGin(r, logCfg.LogstashToken, logCfg.LogstashIndex)

	member := middleware.Guard(middleware.Policy{}, group.Users)
	reader := middleware.Guard(middleware.Policy{AllowInactive: true}, group.Users)
	admin := middleware.Guard(middleware.Policy{Roles: []string{consts.RoleAdmin}}, group.Users)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		opGroup := apiGroup.Group("/operations")
		{
			opGroup.GET("/hot", group.OperationHandler.ListHotOperations)
			opGroup.GET("/search", group.OperationHandler.SearchOperations)

			authOptGroup := opGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/:id", group.OperationHandler.GetOperation)
			}

			authGroup := opGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", member, group.OperationHandler.CreateOperation)
				authGroup.DELETE("/:id", member, group.OperationHandler.DeleteOperation)
				authGroup.POST("/:id/rating", member, group.RatingHandler.RateOperation)
				authGroup.GET("/:id/rating", reader, group.RatingHandler.GetRatingState)
				authGroup.GET("/:id/favorited-by", reader, group.FavoriteHandler.GetOperationFavoriters)
			}

			// 运营后台入口，只对管理员开放
			adminGroup := opGroup.Group("/admin")
			adminGroup.Use(middleware.AuthMiddleware(), admin)
			{
				adminGroup.DELETE("/:id", group.OperationHandler.DeleteOperation)
			}
		}

		favGroup := apiGroup.Group("/favorites")
		favGroup.Use(middleware.AuthMiddleware())
		{
			favGroup.GET("", reader, group.FavoriteHandler.GetUserLists)
			favGroup.POST("", member, group.FavoriteHandler.CreateList)
			favGroup.DELETE("/:list_id", member, group.FavoriteHandler.DeleteList)
			favGroup.GET("/:list_id/operations", reader, group.FavoriteHandler.GetListOperations)
			favGroup.PUT("/:list_id/operations/:id", member, group.FavoriteHandler.AddFavorite)
			favGroup.DELETE("/:list_id/operations/:id", member, group.FavoriteHandler.RemoveFavorite)
		}

		sysbox := apiGroup.Group("/sysbox")
		sysbox.Use(middleware.AuthMiddleware(), reader)
		{
			sysbox.GET("/list", group.SysBoxHandler.GetNotificationList)
			sysbox.GET("/unread", group.SysBoxHandler.GetUnreadCount)
			sysbox.POST("/read", group.SysBoxHandler.MarkRead)
			sysbox.POST("/read/all", group.SysBoxHandler.MarkAllRead)
		}
	}

	return r
}
