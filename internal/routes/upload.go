package routes

import (
	"github.com/alexuswingz/Clutched/internal/handlers"
	"github.com/alexuswingz/Clutched/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterUploadRoutes(r gin.IRouter) {
	upload := r.Group("/upload")
	upload.Use(middleware.IdentityMiddleware(), middleware.UploadRateLimit())
	{
		upload.POST("/avatar", handlers.UploadAvatar)
		upload.POST("/avatar-data", handlers.SaveAvatarData)
	}
}
