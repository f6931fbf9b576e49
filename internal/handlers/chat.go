package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexuswingz/Clutched/internal/database"
	"github.com/alexuswingz/Clutched/internal/models"
	"github.com/alexuswingz/Clutched/internal/realtime"
	"github.com/alexuswingz/Clutched/internal/sync"
	"github.com/alexuswingz/Clutched/pkg/utils"
	"github.com/gin-gonic/gin"
)

// channelMember reports whether the user is one of the channel's two
// participants. Channel IDs embed both participant IDs, so a containment
// check is enough.
func channelMember(channelID, userID string) bool {
	return strings.HasPrefix(channelID, sync.ChannelIDPrefix) && strings.Contains(channelID, userID)
}

// GetChannelID derives the DM channel ID for the caller and another user.
func GetChannelID(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	otherID := c.Query("userId")
	if otherID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"channelId": sync.ChannelID(userID, otherID)})
}

// GetMessages returns a channel's messages oldest-first.
func GetMessages(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	channelID := c.Param("channelId")

	if !channelMember(channelID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this channel"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var messages []models.Message
	err := database.DB.Where("channel_id = ?", channelID).
		Order("created_at asc").
		Limit(limit).
		Preload("Sender").
		Find(&messages).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// SendMessage persists a message and fans it out: a change event on the
// channel topic for the sync pipeline, plus a direct socket emission to the
// chat room for clients that have it open.
func SendMessage(c *gin.Context) {
	senderID := c.MustGet("userId").(string)
	channelID := c.Param("channelId")

	if !channelMember(channelID, senderID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this channel"})
		return
	}

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
	if len(content) > 2000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message too long"})
		return
	}
	if utils.ContainsProfanity(content) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message contains inappropriate language"})
		return
	}

	msg := models.Message{
		ChannelID: channelID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := database.DB.Create(&msg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	database.DB.Preload("Sender").First(&msg, "id = ?", msg.ID)

	EventBus.PublishMessage(sync.MessageEvent{
		Type:      sync.ChangeAdded,
		ID:        msg.ID,
		ChannelID: msg.ChannelID,
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
		Read:      msg.IsRead,
	})
	realtime.BroadcastToChannel(channelID, "receive_message", gin.H{"message": msg})

	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// MarkRead flips the unread flag on every message in the channel not sent by
// the caller. The resulting events are modifications, not new messages, so
// they never re-notify.
func MarkRead(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	channelID := c.Param("channelId")

	if !channelMember(channelID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this channel"})
		return
	}

	var unread []models.Message
	if err := database.DB.Where("channel_id = ? AND sender_id != ? AND is_read = ?", channelID, userID, false).
		Find(&unread).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark read"})
		return
	}

	now := time.Now()
	result := database.DB.Model(&models.Message{}).
		Where("channel_id = ? AND sender_id != ? AND is_read = ?", channelID, userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark read"})
		return
	}

	for _, m := range unread {
		EventBus.PublishMessage(sync.MessageEvent{
			Type:      sync.ChangeModified,
			ID:        m.ID,
			ChannelID: m.ChannelID,
			SenderID:  m.SenderID,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
			Read:      true,
		})
	}

	if result.RowsAffected > 0 {
		realtime.BroadcastToChannel(channelID, "message_read", gin.H{
			"channelId": channelID,
			"readerId":  userID,
		})
	}

	c.JSON(http.StatusOK, gin.H{"markedRead": result.RowsAffected})
}

// GetUnreadCounts returns per-channel unread totals for the caller.
func GetUnreadCounts(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	type row struct {
		ChannelID string `json:"channelId"`
		Count     int64  `json:"count"`
	}
	var rows []row
	err := database.DB.Model(&models.Message{}).
		Select("channel_id, count(*) as count").
		Where("channel_id LIKE ? ESCAPE '\\' AND sender_id != ? AND is_read = ?",
			"%"+utils.EscapeSQLWildcards(userID)+"%", userID, false).
		Group("channel_id").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch unread counts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": rows})
}
