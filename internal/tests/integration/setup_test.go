package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/alexuswingz/Clutched/internal/database"
	"github.com/alexuswingz/Clutched/internal/models"
	"github.com/alexuswingz/Clutched/internal/routes"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB() {
	db, _ := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	database.DB = db
	database.DB.AutoMigrate(
		&models.User{},
		&models.Message{},
		&models.Swipe{},
		&models.Match{},
		&models.GlobalMessage{},
		&models.Reaction{},
	)

	database.DB.Where("1 = 1").Unscoped().Delete(&models.Reaction{})
	database.DB.Where("1 = 1").Unscoped().Delete(&models.GlobalMessage{})
	database.DB.Where("1 = 1").Unscoped().Delete(&models.Match{})
	database.DB.Where("1 = 1").Unscoped().Delete(&models.Swipe{})
	database.DB.Where("1 = 1").Unscoped().Delete(&models.Message{})
	database.DB.Where("1 = 1").Unscoped().Delete(&models.User{})
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	api := r.Group("/api")
	routes.RegisterUserRoutes(api)
	routes.RegisterChatRoutes(api)
	routes.RegisterMatchRoutes(api)
	routes.RegisterGlobalRoutes(api)
	routes.RegisterAdminRoutes(api)

	return r
}

// performRequest runs a request through the full router with the header
// identity set.
func performRequest(r *gin.Engine, method, path string, body interface{}, userID string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		buf = bytes.NewBuffer(b)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
