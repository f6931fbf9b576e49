package routes

import (
	"github.com/alexuswingz/Clutched/internal/handlers"
	"github.com/alexuswingz/Clutched/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterUserRoutes(r gin.IRouter) {
	users := r.Group("/users")
	{
		users.POST("", handlers.CreateProfile)

		// Specific paths first, wildcard last
		users.GET("/me", middleware.IdentityMiddleware(), handlers.GetMe)
		users.GET("/online", handlers.GetOnlineUsers)
		users.GET("/discovery", middleware.OptionalIdentityMiddleware(), handlers.ListDiscovery)

		users.GET("/:id", handlers.GetUser)
		users.PUT("/:id", middleware.IdentityMiddleware(), handlers.UpdateUser)
		users.DELETE("/:id", middleware.IdentityMiddleware(), handlers.DeleteUser)
	}

	me := r.Group("/me")
	me.Use(middleware.IdentityMiddleware())
	{
		me.POST("/active-channel", handlers.SetActiveChannel)
		me.POST("/push-token", handlers.RegisterPushToken)
	}
}
