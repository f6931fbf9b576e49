package middleware

import (
	"net/http"

	"github.com/alexuswingz/Clutched/internal/database"
	"github.com/alexuswingz/Clutched/internal/models"
	"github.com/gin-gonic/gin"
)

// Identity is header-based: the client sends its profile ID in X-User-ID.
// There are no accounts or passwords, the profile object the client caches
// locally IS the identity.

// IdentityMiddleware requires the X-User-ID header and verifies the profile
// exists and is not soft-deleted.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header required"})
			c.Abort()
			return
		}

		var user models.User
		if err := database.DB.Select("id").First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Profile not found"})
			c.Abort()
			return
		}

		c.Set("userId", userID)
		c.Next()
	}
}

// OptionalIdentityMiddleware sets "userId" if the header is present and
// valid, but never aborts.
func OptionalIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.Next()
			return
		}

		var user models.User
		if err := database.DB.Select("id").First(&user, "id = ?", userID).Error; err != nil {
			c.Next()
			return
		}

		c.Set("userId", userID)
		c.Next()
	}
}

// DeveloperOnly restricts access to developer profiles. Developers are the
// app's admins.
func DeveloperOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userId")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", userID.(string)).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Profile not found"})
			c.Abort()
			return
		}

		if !user.IsDeveloper() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Developer access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// StaffOnly allows developers and moderators.
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userId")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", userID.(string)).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Profile not found"})
			c.Abort()
			return
		}

		if user.IsDeveloper() || user.Role == models.RoleModerator {
			c.Next()
			return
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		c.Abort()
	}
}
