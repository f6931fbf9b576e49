package handlers

import (
	"net/http"
	"time"

	"github.com/alexuswingz/Clutched/internal/database"
	"github.com/alexuswingz/Clutched/internal/models"
	"github.com/alexuswingz/Clutched/internal/realtime"
	"github.com/alexuswingz/Clutched/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// -- Inputs -- //

type CreateProfileInput struct {
	Username      string `json:"username" binding:"required"`
	Age           int    `json:"age" binding:"required"`
	Gender        string `json:"gender" binding:"required"`
	Bio           string `json:"bio"`
	FavoriteAgent string `json:"favoriteAgent"`
	Rank          string `json:"rank"`
	Avatar        string `json:"avatar"`
	AvatarData    string `json:"avatarData"`
}

type UpdateProfileInput struct {
	Username      *string `json:"username"`
	Age           *int    `json:"age"`
	Gender        *string `json:"gender"`
	Bio           *string `json:"bio"`
	FavoriteAgent *string `json:"favoriteAgent"`
	Rank          *string `json:"rank"`
	Avatar        *string `json:"avatar"`
	AvatarData    *string `json:"avatarData"`
}

// userResponse flattens a profile for the client with the avatar already
// resolved through the fallback chain.
func userResponse(u *models.User) gin.H {
	return gin.H{
		"id":            u.ID,
		"username":      u.Username,
		"age":           u.Age,
		"gender":        u.Gender,
		"bio":           u.Bio,
		"favoriteAgent": u.FavoriteAgent,
		"rank":          u.Rank,
		"avatar":        u.ResolveAvatar(),
		"role":          u.Role,
		"createdAt":     u.CreatedAt,
		"lastActiveAt":  u.LastActiveAt,
	}
}

// -- Handlers -- //

// CreateProfile creates a new profile. The client caches the returned object
// and sends its ID in X-User-ID from then on.
func CreateProfile(c *gin.Context) {
	var input CreateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Age < 18 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You must be 18 or older"})
		return
	}

	if utils.ContainsProfanity(input.Username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username contains inappropriate language"})
		return
	}

	var count int64
	database.DB.Model(&models.User{}).Where("username = ?", input.Username).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}

	user := models.User{
		ID:            utils.GenerateID(),
		Username:      input.Username,
		Age:           input.Age,
		Gender:        input.Gender,
		Bio:           utils.SanitizeHTML(input.Bio),
		FavoriteAgent: input.FavoriteAgent,
		Rank:          input.Rank,
		Avatar:        input.Avatar,
		AvatarData:    input.AvatarData,
		Role:          models.RoleUser,
		LastActiveAt:  time.Now(),
	}

	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
		return
	}

	// New profile means a new candidate channel for every watcher
	EventBus.PublishRosterChanged()

	c.JSON(http.StatusCreated, gin.H{"user": userResponse(&user)})
}

// GetUser returns a single profile by ID.
func GetUser(c *gin.Context) {
	id := c.Param("id")

	var user models.User
	if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(&user)})
}

// GetMe returns the caller's own profile, including the push token flag.
func GetMe(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	resp := userResponse(&user)
	resp["hasPushToken"] = user.PushToken != ""
	c.JSON(http.StatusOK, gin.H{"user": resp})
}

// ListDiscovery returns the profile deck: developer accounts pinned first,
// then newest profiles. The caller's own profile is excluded.
func ListDiscovery(c *gin.Context) {
	var users []models.User
	q := database.DB.Order("CASE WHEN role = 'developer' THEN 0 ELSE 1 END, created_at DESC")

	if userID, exists := c.Get("userId"); exists {
		q = q.Where("id != ?", userID.(string))
	}

	if err := q.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profiles"})
		return
	}

	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, userResponse(&users[i]))
	}

	c.JSON(http.StatusOK, gin.H{"users": out})
}

// UpdateUser applies a partial profile update.
func UpdateUser(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	id := c.Param("id")

	if id != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot update another user's profile"})
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if input.Username != nil && *input.Username != user.Username {
		if utils.ContainsProfanity(*input.Username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username contains inappropriate language"})
			return
		}
		var count int64
		database.DB.Model(&models.User{}).Where("username = ? AND id != ?", *input.Username, id).Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
			return
		}
		user.Username = *input.Username
	}
	if input.Age != nil {
		if *input.Age < 18 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You must be 18 or older"})
			return
		}
		user.Age = *input.Age
	}
	if input.Gender != nil {
		user.Gender = *input.Gender
	}
	if input.Bio != nil {
		user.Bio = utils.SanitizeHTML(*input.Bio)
	}
	if input.FavoriteAgent != nil {
		user.FavoriteAgent = *input.FavoriteAgent
	}
	if input.Rank != nil {
		user.Rank = *input.Rank
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	if input.AvatarData != nil {
		user.AvatarData = *input.AvatarData
	}
	user.LastActiveAt = time.Now()

	if err := database.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	// Username and avatar changes must reach sender resolution
	EventBus.PublishRosterChanged()

	c.JSON(http.StatusOK, gin.H{"user": userResponse(&user)})
}

// DeleteUser removes a profile and everything attached to it: messages,
// swipes in both directions and matches.
func DeleteUser(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	id := c.Param("id")

	if id != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot delete another user's profile"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sender_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
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
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete profile"})
		return
	}

	if SyncRegistry != nil {
		SyncRegistry.Stop(id)
	}
	EventBus.PublishRosterChanged()

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// SetActiveChannel is the HTTP variant of the socket active_channel event,
// used when the page regains focus before the socket reconnects. Opening a
// channel clears its dispatched notification keys.
func SetActiveChannel(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var req struct {
		ChannelID string `json:"channelId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ActiveChannels.Set(userID, req.ChannelID)
	if req.ChannelID != "" && SyncRegistry != nil {
		SyncRegistry.ClearChannel(userID, req.ChannelID)
	}

	c.JSON(http.StatusOK, gin.H{"activeChannel": req.ChannelID})
}

// RegisterPushToken stores the FCM token for the web push fallback surface.
// An empty token unregisters.
func RegisterPushToken(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := database.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("push_token", req.Token).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register push token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"registered": req.Token != ""})
}

// GetOnlineUsers exposes the socket presence list over HTTP.
func GetOnlineUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"online": realtime.GetOnlineUsers()})
}
