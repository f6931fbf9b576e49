package routes

import (
	"github.com/alexuswingz/Clutched/internal/handlers"
	"github.com/alexuswingz/Clutched/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterChatRoutes(r gin.IRouter) {
	chats := r.Group("/chats")
	chats.Use(middleware.IdentityMiddleware())
	{
		chats.GET("/channel-id", handlers.GetChannelID) // ?userId=...
		chats.GET("/unread", handlers.GetUnreadCounts)
		chats.GET("/:channelId/messages", handlers.GetMessages)
		chats.POST("/:channelId/messages", middleware.ChatRateLimit(), handlers.SendMessage)
		chats.POST("/:channelId/read", handlers.MarkRead)
	}
}
