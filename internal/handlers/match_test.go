package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/alexuswingz/Clutched/internal/database"
	"github.com/alexuswingz/Clutched/internal/models"
	"github.com/alexuswingz/Clutched/internal/sync"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRecordSwipe_NoMatchOnFirstLike(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)
	createTestUser("sw_a", "swiper_a")
	createTestUser("sw_b", "swiper_b")

	c, w := testContext("POST", "/api/swipes", map[string]interface{}{
		"targetId": "sw_b",
		"liked":    true,
	}, "sw_a")

	RecordSwipe(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Matched bool `json:"matched"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.False(t, resp.Matched)

	var matchCount int64
	database.DB.Model(&models.Match{}).Count(&matchCount)
	assert.Equal(t, int64(0), matchCount)
}

func TestRecordSwipe_MutualLikeCreatesMatch(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)
	createTestUser("sw_a", "swiper_a")
	createTestUser("sw_b", "swiper_b")

	database.DB.Create(&models.Swipe{SwiperID: "sw_b", TargetID: "sw_a", Liked: true})

	c, w := testContext("POST", "/api/swipes", map[string]interface{}{
		"targetId": "sw_b",
		"liked":    true,
	}, "sw_a")

	RecordSwipe(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Matched   bool   `json:"matched"`
		MatchID   string `json:"matchId"`
		ChannelID string `json:"channelId"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.True(t, resp.Matched)
	assert.Equal(t, models.MatchID("sw_a", "sw_b"), resp.MatchID)
	assert.Equal(t, sync.ChannelID("sw_a", "sw_b"), resp.ChannelID)

	var match models.Match
	err := database.DB.First(&match, "id = ?", resp.MatchID).Error
	assert.NoError(t, err)
	assert.Equal(t, models.MatchStatusActive, match.Status)
}

func TestRecordSwipe_PassNeverMatches(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)
	createTestUser("sw_a", "swiper_a")
	createTestUser("sw_b", "swiper_b")

	database.DB.Create(&models.Swipe{SwiperID: "sw_b", TargetID: "sw_a", Liked: true})

	c, w := testContext("POST", "/api/swipes", map[string]interface{}{
		"targetId": "sw_b",
		"liked":    false,
	}, "sw_a")

	RecordSwipe(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var matchCount int64
	database.DB.Model(&models.Match{}).Count(&matchCount)
	assert.Equal(t, int64(0), matchCount)
}

func TestRecordSwipe_SelfSwipeRejected(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)
	createTestUser("sw_a", "swiper_a")

	c, w := testContext("POST", "/api/swipes", map[string]interface{}{
		"targetId": "sw_a",
		"liked":    true,
	}, "sw_a")

	RecordSwipe(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMatches(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)
	createTestUser("sw_a", "swiper_a")
	createTestUser("sw_b", "swiper_b")

	database.DB.Create(&models.Match{
		ID:      models.MatchID("sw_a", "sw_b"),
		User1ID: "sw_a",
		User2ID: "sw_b",
		Status:  models.MatchStatusActive,
	})

	c, w := testContext("GET", "/api/matches", nil, "sw_a")
	ListMatches(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Matches []struct {
			MatchID   string `json:"matchId"`
			ChannelID string `json:"channelId"`
			User      struct {
				ID string `json:"id"`
			} `json:"user"`
		} `json:"matches"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	assert.Len(t, resp.Matches, 1)
	if len(resp.Matches) == 1 {
		assert.Equal(t, "sw_b", resp.Matches[0].User.ID)
		assert.Equal(t, sync.ChannelID("sw_a", "sw_b"), resp.Matches[0].ChannelID)
	}
}

func TestUnmatch(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)
	createTestUser("sw_a", "swiper_a")
	createTestUser("sw_b", "swiper_b")

	matchID := models.MatchID("sw_a", "sw_b")
	database.DB.Create(&models.Match{ID: matchID, User1ID: "sw_a", User2ID: "sw_b", Status: models.MatchStatusActive})

	c, w := testContext("DELETE", "/api/matches/"+matchID, nil, "sw_a")
	c.Params = gin.Params{{Key: "matchId", Value: matchID}}

	Unmatch(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var match models.Match
	database.DB.First(&match, "id = ?", matchID)
	assert.Equal(t, "closed", match.Status)

	// Closed matches drop off the list
	c2, w2 := testContext("GET", "/api/matches", nil, "sw_a")
	ListMatches(c2)
	var resp struct {
		Matches []interface{} `json:"matches"`
	}
	json.Unmarshal(w2.Body.Bytes(), &resp)
	assert.Len(t, resp.Matches, 0)
}
