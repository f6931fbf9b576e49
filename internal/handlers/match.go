package handlers

import (
	"net/http"

	"github.com/alexuswingz/Clutched/internal/database"
	"github.com/alexuswingz/Clutched/internal/models"
	"github.com/alexuswingz/Clutched/internal/realtime"
	"github.com/alexuswingz/Clutched/internal/sync"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// RecordSwipe stores a discovery decision. A like that meets an existing
// like back creates the match and hot-registers the pair's channel with both
// users' sync sessions so the first message can notify without waiting for a
// roster refresh.
func RecordSwipe(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var req struct {
		TargetID string `json:"targetId" binding:"required"`
		Liked    *bool  `json:"liked" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.TargetID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot swipe on yourself"})
		return
	}

	var target models.User
	if err := database.DB.Select("id").First(&target, "id = ?", req.TargetID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Target user not found"})
		return
	}

	swipe := models.Swipe{
		SwiperID: userID,
		TargetID: req.TargetID,
		Liked:    *req.Liked,
	}
	// Re-swiping the same target overwrites the previous decision
	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "swiper_id"}, {Name: "target_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"liked", "created_at"}),
	}).Create(&swipe).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record swipe"})
		return
	}

	if !*req.Liked {
		c.JSON(http.StatusOK, gin.H{"matched": false})
		return
	}

	var reciprocal models.Swipe
	err = database.DB.Where("swiper_id = ? AND target_id = ? AND liked = ?", req.TargetID, userID, true).
		First(&reciprocal).Error
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"matched": false})
		return
	}

	match := models.Match{
		ID:      models.MatchID(userID, req.TargetID),
		User1ID: userID,
		User2ID: req.TargetID,
		Status:  models.MatchStatusActive,
	}
	if match.User2ID < match.User1ID {
		match.User1ID, match.User2ID = match.User2ID, match.User1ID
	}
	// Pair already matched once before, e.g. after an unlike/relike cycle
	if err := database.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&match).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create match"})
		return
	}

	channelID := sync.ChannelID(userID, req.TargetID)
	if SyncRegistry != nil {
		SyncRegistry.WatchChannel(userID, channelID)
		SyncRegistry.WatchChannel(req.TargetID, channelID)
	}

	realtime.SendToUser(userID, "new_match", gin.H{"matchId": match.ID, "userId": req.TargetID, "channelId": channelID})
	realtime.SendToUser(req.TargetID, "new_match", gin.H{"matchId": match.ID, "userId": userID, "channelId": channelID})

	c.JSON(http.StatusOK, gin.H{"matched": true, "matchId": match.ID, "channelId": channelID})
}

// ListMatches returns the caller's matches with the other user's profile and
// the DM channel ID attached.
func ListMatches(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var matches []models.Match
	err := database.DB.Where("(user1_id = ? OR user2_id = ?) AND status = ?", userID, userID, models.MatchStatusActive).
		Order("created_at DESC").
		Find(&matches).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch matches"})
		return
	}

	out := make([]gin.H, 0, len(matches))
	for _, m := range matches {
		otherID := m.User1ID
		if otherID == userID {
			otherID = m.User2ID
		}

		var other models.User
		if err := database.DB.First(&other, "id = ?", otherID).Error; err != nil {
			continue
		}

		out = append(out, gin.H{
			"matchId":   m.ID,
			"channelId": sync.ChannelID(userID, otherID),
			"user":      userResponse(&other),
			"createdAt": m.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"matches": out})
}

// Unmatch closes a match. Messages stay; the channel just drops off the
// matches list.
func Unmatch(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	matchID := c.Param("matchId")

	var match models.Match
	if err := database.DB.First(&match, "id = ?", matchID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
		return
	}

	if match.User1ID != userID && match.User2ID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your match"})
		return
	}

	if err := database.DB.Model(&match).Update("status", "closed").Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unmatch"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unmatched": true})
}
