package routes

import (
	"github.com/alexuswingz/Clutched/internal/handlers"
	"github.com/alexuswingz/Clutched/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterAdminRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.IdentityMiddleware(), middleware.DeveloperOnly())

	admin.GET("/stats", handlers.AdminStats)
	admin.GET("/sync-status", handlers.AdminSyncStatus)

	admin.GET("/users", handlers.AdminListUsers)
	admin.PUT("/users/:id/role", handlers.AdminSetRole)
	admin.DELETE("/users/:id", handlers.AdminDeleteUser)

	admin.DELETE("/global/messages", handlers.AdminClearGlobalChat)
}
