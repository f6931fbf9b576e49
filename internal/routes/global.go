package routes

import (
	"github.com/alexuswingz/Clutched/internal/handlers"
	"github.com/alexuswingz/Clutched/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterGlobalRoutes(r gin.IRouter) {
	global := r.Group("/global")
	{
		global.GET("/messages", middleware.OptionalIdentityMiddleware(), handlers.GetGlobalMessages)
		global.GET("/stats", handlers.GetGlobalStats)

		global.POST("/messages", middleware.IdentityMiddleware(), middleware.ChatRateLimit(), handlers.SendGlobalMessage)
		global.POST("/messages/:messageId/reactions", middleware.IdentityMiddleware(), handlers.ToggleReaction)
	}
}
