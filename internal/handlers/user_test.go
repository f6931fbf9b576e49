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

func TestCreateProfile(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	c, w := testContext("POST", "/api/users", map[string]interface{}{
		"username": "jett_main",
		"age":      22,
		"gender":   "female",
		"bio":      "duelist or nothing",
	}, "")

	CreateProfile(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		User struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			Avatar   string `json:"avatar"`
		} `json:"user"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NotEmpty(t, resp.User.ID)
	assert.Equal(t, "jett_main", resp.User.Username)
	// No image set, so the resolver falls back to the default
	assert.Equal(t, models.DefaultAvatar, resp.User.Avatar)
}

func TestCreateProfile_UsernameTaken(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)
	createTestUser("u1", "taken_name")

	c, w := testContext("POST", "/api/users", map[string]interface{}{
		"username": "taken_name",
		"age":      25,
		"gender":   "male",
	}, "")

	CreateProfile(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateProfile_Underage(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	c, w := testContext("POST", "/api/users", map[string]interface{}{
		"username": "too_young",
		"age":      16,
		"gender":   "male",
	}, "")

	CreateProfile(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListDiscovery_DevelopersPinnedFirst(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	createTestUser("me", "me_user")
	createTestUser("u_old", "old_user")
	dev := models.User{ID: "dev_1", Username: "the_dev", Age: 30, Gender: "other", Role: models.RoleDeveloper}
	database.DB.Create(&dev)
	createTestUser("u_new", "new_user")

	c, w := testContext("GET", "/api/users/discovery", nil, "me")
	ListDiscovery(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Users []struct {
			ID     string `json:"id"`
			Avatar string `json:"avatar"`
		} `json:"users"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	assert.Len(t, resp.Users, 3)
	assert.Equal(t, "dev_1", resp.Users[0].ID)
	// Developer always renders with the admin avatar
	assert.Equal(t, models.AdminAvatar, resp.Users[0].Avatar)
	for _, u := range resp.Users {
		assert.NotEqual(t, "me", u.ID)
	}
}

func TestUpdateUser_OtherProfileForbidden(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)
	createTestUser("u1", "user_one")
	createTestUser("u2", "user_two")

	c, w := testContext("PUT", "/api/users/u2", map[string]interface{}{"bio": "hacked"}, "u1")
	c.Params = gin.Params{{Key: "id", Value: "u2"}}

	UpdateUser(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteUser_PurgesEverything(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	createTestUser("del_u1", "delete_me")
	createTestUser("del_u2", "keep_me")

	channelID := sync.ChannelID("del_u1", "del_u2")
	database.DB.Create(&models.Message{ChannelID: channelID, SenderID: "del_u1", Content: "hello"})
	database.DB.Create(&models.Swipe{SwiperID: "del_u1", TargetID: "del_u2", Liked: true})
	database.DB.Create(&models.Swipe{SwiperID: "del_u2", TargetID: "del_u1", Liked: true})
	database.DB.Create(&models.Match{ID: models.MatchID("del_u1", "del_u2"), User1ID: "del_u1", User2ID: "del_u2"})

	c, w := testContext("DELETE", "/api/users/del_u1", nil, "del_u1")
	c.Params = gin.Params{{Key: "id", Value: "del_u1"}}

	DeleteUser(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var msgCount, swipeCount, matchCount int64
	database.DB.Model(&models.Message{}).Where("channel_id = ?", channelID).Count(&msgCount)
	database.DB.Model(&models.Swipe{}).Where("swiper_id = ? OR target_id = ?", "del_u1", "del_u1").Count(&swipeCount)
	database.DB.Model(&models.Match{}).Where("user1_id = ? OR user2_id = ?", "del_u1", "del_u1").Count(&matchCount)

	assert.Equal(t, int64(0), msgCount)
	assert.Equal(t, int64(0), swipeCount)
	assert.Equal(t, int64(0), matchCount)

	var user models.User
	err := database.DB.First(&user, "id = ?", "del_u1").Error
	assert.Error(t, err)
}

func TestRegisterPushToken(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)
	createTestUser("push_u", "push_user")

	c, w := testContext("POST", "/api/me/push-token", map[string]interface{}{"token": "fcm-token-123"}, "push_u")
	RegisterPushToken(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var user models.User
	database.DB.First(&user, "id = ?", "push_u")
	assert.Equal(t, "fcm-token-123", user.PushToken)
}
