package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/alexuswingz/Clutched/internal/database"
	"github.com/alexuswingz/Clutched/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSendGlobalMessage_DenormalizesSender(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	user := models.User{ID: "gl_u1", Username: "global_user", Age: 23, Gender: "female", FavoriteAgent: "Sage"}
	database.DB.Create(&user)

	c, w := testContext("POST", "/api/global/messages", map[string]interface{}{
		"content": "anyone up for comp?",
	}, "gl_u1")

	SendGlobalMessage(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var msg models.GlobalMessage
	err := database.DB.First(&msg, "sender_id = ?", "gl_u1").Error
	assert.NoError(t, err)
	assert.Equal(t, "global_user", msg.SenderName)
	assert.Equal(t, 23, msg.SenderAge)
	assert.Equal(t, "/images/sage.jpg", msg.SenderAvatar)
}

func TestSendGlobalMessage_ProfanityBlocked(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)
	createTestUser("gl_u1", "global_user")

	c, w := testContext("POST", "/api/global/messages", map[string]interface{}{
		"content": "fuck this team",
	}, "gl_u1")

	SendGlobalMessage(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	database.DB.Model(&models.GlobalMessage{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGetGlobalMessages_CappedAndOldestFirst(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)
	createTestUser("gl_u1", "global_user")

	for i := 0; i < 55; i++ {
		database.DB.Create(&models.GlobalMessage{
			SenderID:   "gl_u1",
			SenderName: "global_user",
			Content:    "msg",
			CreatedAt:  time.Now().Add(time.Duration(i) * time.Second),
		})
	}

	c, w := testContext("GET", "/api/global/messages", nil, "")
	GetGlobalMessages(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Messages []struct {
			CreatedAt time.Time `json:"createdAt"`
		} `json:"messages"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	assert.Len(t, resp.Messages, 50)
	if len(resp.Messages) >= 2 {
		first := resp.Messages[0].CreatedAt
		last := resp.Messages[len(resp.Messages)-1].CreatedAt
		assert.True(t, first.Before(last))
	}
}

func TestToggleReaction_AddReplaceRemove(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)
	createTestUser("gl_u1", "global_user")

	msg := models.GlobalMessage{ID: "gm1", SenderID: "gl_u1", SenderName: "global_user", Content: "react to me"}
	database.DB.Create(&msg)

	toggle := func(emoji string) string {
		c, w := testContext("POST", "/api/global/messages/gm1/reactions", map[string]interface{}{
			"emoji": emoji,
		}, "gl_u1")
		c.Params = gin.Params{{Key: "messageId", Value: "gm1"}}
		ToggleReaction(c)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Action string `json:"action"`
		}
		json.Unmarshal(w.Body.Bytes(), &resp)
		return resp.Action
	}

	assert.Equal(t, "added", toggle("heart"))
	assert.Equal(t, "replaced", toggle("laugh"))
	assert.Equal(t, "removed", toggle("laugh"))

	var count int64
	database.DB.Model(&models.Reaction{}).Where("message_id = ?", "gm1").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestToggleReaction_UnknownEmojiRejected(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)
	createTestUser("gl_u1", "global_user")

	msg := models.GlobalMessage{ID: "gm2", SenderID: "gl_u1", Content: "react to me"}
	database.DB.Create(&msg)

	c, w := testContext("POST", "/api/global/messages/gm2/reactions", map[string]interface{}{
		"emoji": "fire",
	}, "gl_u1")
	c.Params = gin.Params{{Key: "messageId", Value: "gm2"}}

	ToggleReaction(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
