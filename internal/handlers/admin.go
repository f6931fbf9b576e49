package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/alexuswingz/Clutched/internal/database"
	"github.com/alexuswingz/Clutched/internal/models"
	"github.com/alexuswingz/Clutched/pkg/logger"
	"github.com/alexuswingz/Clutched/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Admin endpoints are developer-only, enforced by middleware.

// AdminListUsers returns a paginated user listing with optional username
// search.
func AdminListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("perPage", "25"))
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}

	q := database.DB.Model(&models.User{})

	if search := c.Query("search"); search != "" {
		q = q.Where("username LIKE ? ESCAPE '\\'", utils.SanitizeSearchQuery(search))
	}
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}

	var total int64
	q.Count(&total)

	var users []models.User
	err := q.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&users).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	out := make([]gin.H, 0, len(users))
	for i := range users {
		u := userResponse(&users[i])
		u["hasPushToken"] = users[i].PushToken != ""
		out = append(out, u)
	}

	c.JSON(http.StatusOK, gin.H{
		"users":   out,
		"total":   total,
		"page":    page,
		"perPage": perPage,
	})
}

// AdminSetRole changes a user's role.
func AdminSetRole(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Role models.Role `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	switch req.Role {
	case models.RoleUser, models.RoleModerator, models.RoleTester, models.RoleDeveloper:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}

	result := database.DB.Model(&models.User{}).Where("id = ?", id).Update("role", req.Role)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	EventBus.PublishRosterChanged()
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// AdminDeleteUser removes a profile and its data on behalf of a moderator.
func AdminDeleteUser(c *gin.Context) {
	adminID := c.MustGet("userId").(string)
	id := c.Param("id")

	var user models.User
	if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if user.IsDeveloper() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot delete a developer account"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("channel_id LIKE ? ESCAPE '\\'", "%"+utils.EscapeSQLWildcards(id)+"%").Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("swiper_id = ? OR target_id = ?", id, id).Delete(&models.Swipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user1_id = ? OR user2_id = ?", id, id).Delete(&models.Match{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sender_id = ?", id).Delete(&models.GlobalMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	if SyncRegistry != nil {
		SyncRegistry.Stop(id)
	}
	EventBus.PublishRosterChanged()

	logger.Warn().Str("adminId", adminID).Str("userId", id).Msg("User removed by admin")
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// AdminClearGlobalChat wipes the community chat feed and its reactions.
func AdminClearGlobalChat(c *gin.Context) {
	adminID := c.MustGet("userId").(string)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.GlobalMessage{}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear chat"})
		return
	}

	if database.Redis != nil {
		database.CacheInvalidate("clutched:global:*")
	}

	logger.Warn().Str("adminId", adminID).Msg("Global chat cleared by admin")
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// AdminStats returns the dashboard counters.
func AdminStats(c *gin.Context) {
	var users, messages, globalMessages, swipes, matches int64
	database.DB.Model(&models.User{}).Count(&users)
	database.DB.Model(&models.Message{}).Count(&messages)
	database.DB.Model(&models.GlobalMessage{}).Count(&globalMessages)
	database.DB.Model(&models.Swipe{}).Count(&swipes)
	database.DB.Model(&models.Match{}).Count(&matches)

	var activeToday int64
	database.DB.Model(&models.User{}).
		Where("last_active_at > ?", time.Now().Add(-24*time.Hour)).
		Count(&activeToday)

	c.JSON(http.StatusOK, gin.H{
		"users":          users,
		"messages":       messages,
		"globalMessages": globalMessages,
		"swipes":         swipes,
		"matches":        matches,
		"activeToday":    activeToday,
	})
}

// AdminSyncStatus exposes the live sync sessions for debugging delivery
// problems.
func AdminSyncStatus(c *gin.Context) {
	if SyncRegistry == nil {
		c.JSON(http.StatusOK, gin.H{"sessions": gin.H{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": SyncRegistry.Status()})
}
