package routes

import (
	"github.com/alexuswingz/Clutched/internal/handlers"
	"github.com/alexuswingz/Clutched/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterMatchRoutes(r gin.IRouter) {
	swipes := r.Group("/swipes")
	swipes.Use(middleware.IdentityMiddleware())
	{
		swipes.POST("", middleware.SwipeRateLimit(), handlers.RecordSwipe)
	}

	matches := r.Group("/matches")
	matches.Use(middleware.IdentityMiddleware())
	{
		matches.GET("", handlers.ListMatches)
		matches.DELETE("/:matchId", handlers.Unmatch)
	}
}
