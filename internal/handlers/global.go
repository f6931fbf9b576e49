package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/alexuswingz/Clutched/internal/database"
	"github.com/alexuswingz/Clutched/internal/models"
	"github.com/alexuswingz/Clutched/internal/realtime"
	"github.com/alexuswingz/Clutched/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const globalFeedLimit = 50

// globalRoom is the socket room every connected client joins for the
// community chat.
const globalRoom = "global_chat"

func globalMessageResponse(m *models.GlobalMessage, reactions map[string]int64, mine string) gin.H {
	return gin.H{
		"id":           m.ID,
		"senderId":     m.SenderID,
		"senderName":   m.SenderName,
		"senderAvatar": m.SenderAvatar,
		"senderAge":    m.SenderAge,
		"senderGender": m.SenderGender,
		"content":      m.Content,
		"createdAt":    m.CreatedAt,
		"reactions":    reactions,
		"myReaction":   mine,
	}
}

// GetGlobalMessages returns the community chat feed, newest last, capped at
// the feed limit, with reaction tallies attached.
func GetGlobalMessages(c *gin.Context) {
	var messages []models.GlobalMessage
	err := database.DB.Order("created_at DESC").Limit(globalFeedLimit).Find(&messages).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	// Reverse to oldest-first for rendering
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	userID := ""
	if v, exists := c.Get("userId"); exists {
		userID = v.(string)
	}

	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}

	tallies := make(map[string]map[string]int64)
	mine := make(map[string]string)
	if len(ids) > 0 {
		var reactions []models.Reaction
		database.DB.Where("message_id IN ?", ids).Find(&reactions)
		for _, r := range reactions {
			if tallies[r.MessageID] == nil {
				tallies[r.MessageID] = make(map[string]int64)
			}
			tallies[r.MessageID][r.Emoji]++
			if r.UserID == userID {
				mine[r.MessageID] = r.Emoji
			}
		}
	}

	out := make([]gin.H, 0, len(messages))
	for i := range messages {
		m := &messages[i]
		t := tallies[m.ID]
		if t == nil {
			t = map[string]int64{}
		}
		out = append(out, globalMessageResponse(m, t, mine[m.ID]))
	}

	c.JSON(http.StatusOK, gin.H{"messages": out})
}

// SendGlobalMessage posts to the community chat. Sender display fields are
// denormalized at write time, so later profile edits do not rewrite history.
func SendGlobalMessage(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		return
	}
	if len(content) > 1000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message too long"})
		return
	}
	if utils.ContainsProfanity(content) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message contains inappropriate language"})
		return
	}

	var sender models.User
	if err := database.DB.First(&sender, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	msg := models.GlobalMessage{
		SenderID:     sender.ID,
		SenderName:   sender.Username,
		SenderAvatar: sender.ResolveAvatar(),
		SenderAge:    sender.Age,
		SenderGender: sender.Gender,
		Content:      content,
		CreatedAt:    time.Now(),
	}

	if err := database.DB.Create(&msg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	resp := globalMessageResponse(&msg, map[string]int64{}, "")
	realtime.BroadcastToChannel(globalRoom, "global_message", resp)

	c.JSON(http.StatusOK, gin.H{"message": resp})
}

// ToggleReaction applies the one-reaction-per-user rule: same emoji removes,
// different emoji replaces, none adds.
func ToggleReaction(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	messageID := c.Param("messageId")

	var req struct {
		Emoji string `json:"emoji" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !models.IsValidReactionEmoji(req.Emoji) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown reaction"})
		return
	}

	var msg models.GlobalMessage
	if err := database.DB.First(&msg, "id = ?", messageID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}

	var existing models.Reaction
	err := database.DB.Where("message_id = ? AND user_id = ?", messageID, userID).First(&existing).Error

	action := ""
	switch {
	case err == nil && existing.Emoji == req.Emoji:
		if err := database.DB.Delete(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reaction"})
			return
		}
		action = "removed"
	case err == nil:
		if err := database.DB.Model(&existing).Update("emoji", req.Emoji).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reaction"})
			return
		}
		action = "replaced"
	case err == gorm.ErrRecordNotFound:
		reaction := models.Reaction{MessageID: messageID, UserID: userID, Emoji: req.Emoji, CreatedAt: time.Now()}
		if err := database.DB.Create(&reaction).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reaction"})
			return
		}
		action = "added"
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reaction"})
		return
	}

	realtime.BroadcastToChannel(globalRoom, "reaction_update", gin.H{
		"messageId": messageID,
		"userId":    userID,
		"emoji":     req.Emoji,
		"action":    action,
	})

	c.JSON(http.StatusOK, gin.H{"action": action})
}

const statsCacheKey = "clutched:global:stats"

// GetGlobalStats returns headline numbers for the community chat header.
// Counts are cached briefly; online count is always live.
func GetGlobalStats(c *gin.Context) {
	if database.Redis != nil {
		var cached map[string]interface{}
		if err := database.CacheGet(statsCacheKey, &cached); err == nil {
			cached["onlineNow"] = len(realtime.GetOnlineUsers())
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	var totalMessages, totalUsers int64
	database.DB.Model(&models.GlobalMessage{}).Count(&totalMessages)
	database.DB.Model(&models.User{}).Count(&totalUsers)

	var activeToday int64
	database.DB.Model(&models.User{}).
		Where("last_active_at > ?", time.Now().Add(-24*time.Hour)).
		Count(&activeToday)

	stats := gin.H{
		"totalMessages": totalMessages,
		"totalUsers":    totalUsers,
		"activeToday":   activeToday,
	}
	if database.Redis != nil {
		database.CacheSet(statsCacheKey, stats, 30*time.Second)
	}

	stats["onlineNow"] = len(realtime.GetOnlineUsers())
	c.JSON(http.StatusOK, stats)
}
