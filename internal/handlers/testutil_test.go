package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/alexuswingz/Clutched/internal/database"
	"github.com/alexuswingz/Clutched/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB initializes an in-memory SQLite DB for testing
func SetupTestDB() {
	db, _ := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	database.DB = db
	database.DB.AutoMigrate(
		&models.User{},
		&models.Message{},
		&models.Swipe{},
		&models.Match{},
		&models.GlobalMessage{},
		&models.Reaction{},
	)

	// Fresh tables per test, the shared cache keeps the schema across
	// connections within one test binary
	database.DB.Where("1 = 1").Unscoped().Delete(&models.Reaction{})
	database.DB.Where("1 = 1").Unscoped().Delete(&models.GlobalMessage{})
	database.DB.Where("1 = 1").Unscoped().Delete(&models.Match{})
	database.DB.Where("1 = 1").Unscoped().Delete(&models.Swipe{})
	database.DB.Where("1 = 1").Unscoped().Delete(&models.Message{})
	database.DB.Where("1 = 1").Unscoped().Delete(&models.User{})
}

// testContext builds a gin test context with an optional JSON body and the
// caller identity already set.
func testContext(method, path string, body interface{}, userID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var buf *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		buf = bytes.NewBuffer(b)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	c.Request, _ = http.NewRequest(method, path, buf)
	c.Request.Header.Set("Content-Type", "application/json")
	if userID != "" {
		c.Set("userId", userID)
	}
	return c, w
}

func createTestUser(id, username string) models.User {
	user := models.User{
		ID:       id,
		Username: username,
		Age:      21,
		Gender:   "female",
		Role:     models.RoleUser,
	}
	database.DB.Create(&user)
	return user
}
