package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alexuswingz/Clutched/internal/config"
	"github.com/alexuswingz/Clutched/internal/database"
	"github.com/alexuswingz/Clutched/internal/handlers"
	"github.com/alexuswingz/Clutched/internal/middleware"
	"github.com/alexuswingz/Clutched/internal/migrations"
	"github.com/alexuswingz/Clutched/internal/models"
	"github.com/alexuswingz/Clutched/internal/realtime"
	"github.com/alexuswingz/Clutched/internal/routes"
	"github.com/alexuswingz/Clutched/internal/seeds"
	syncpkg "github.com/alexuswingz/Clutched/internal/sync"
	"github.com/alexuswingz/Clutched/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// 0. Load Config & Initialize Logger
	config.LoadConfig()

	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	logger.Info().Str("environment", env).Msg("Starting Clutched Backend...")

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Connect Database & Redis
	database.Connect()
	database.InitRedis()

	// 2. Migrations
	logger.Info().Msg("Running database migrations...")
	tableModels := []interface{}{
		&models.User{},
		&models.Message{},
		&models.Swipe{},
		&models.Match{},
		&models.GlobalMessage{},
		&models.Reaction{},
	}
	if err := database.DB.AutoMigrate(tableModels...); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run database migrations")
	}
	if err := migrations.NewMigrator(database.DB).Run(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run versioned migrations")
	}
	logger.Info().Msg("Database migrations complete")

	if err := seeds.SeedDevelopers(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed developer profiles")
	}

	// 3. Build the message sync stack: Redis event bus feeding per-user
	// sync sessions, active-channel suppression and the presentation chain.
	store := realtime.UserStore{}
	bus := realtime.NewBus(database.Redis, store.LoadRoster)
	active := realtime.NewActiveChannelStore(database.Redis)

	registry := syncpkg.NewRegistry(syncpkg.SessionDeps{
		Roster:       bus,
		Messages:     bus,
		Users:        store,
		Active:       active,
		NewProviders: realtime.SessionProviders(active),
	})
	defer registry.StopAll()

	handlers.Wire(bus, registry, active)

	// 4. Setup Router
	r := gin.New()

	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityHeaders())

	// Exempt /socket.io from rate limiting
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/socket.io/") {
			c.Next()
			return
		}
		middleware.GeneralRateLimit()(c)
	})

	// 5. Register Routes
	api := r.Group("/api")
	{
		routes.RegisterUserRoutes(api)
		routes.RegisterChatRoutes(api)
		routes.RegisterMatchRoutes(api)
		routes.RegisterGlobalRoutes(api)
		routes.RegisterUploadRoutes(api)
		routes.RegisterAdminRoutes(api)
	}

	// Health check with DB and Redis status
	r.GET("/health", func(c *gin.Context) {
		dbStatus := "ok"
		redisStatus := "ok"

		sqlDB, err := database.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			dbStatus = "error"
		}

		if database.Redis != nil {
			if _, err := database.Redis.Ping(context.Background()).Result(); err != nil {
				redisStatus = "error"
			}
		} else {
			redisStatus = "not configured"
		}

		status := "ok"
		if dbStatus != "ok" || (redisStatus != "ok" && redisStatus != "not configured") {
			status = "degraded"
		}

		c.JSON(200, gin.H{
			"status":  status,
			"message": "Clutched Backend is running",
			"checks": gin.H{
				"database": dbStatus,
				"redis":    redisStatus,
			},
		})
	})

	// Init Socket.io
	socketServer := realtime.InitSocketServer(registry, active)
	defer socketServer.Close()

	r.GET("/socket.io/*any", realtime.SocketHandler(socketServer))
	r.POST("/socket.io/*any", realtime.SocketHandler(socketServer))

	// 6. Start Server with graceful shutdown
	port := config.AppConfig.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", port).Str("env", env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}
