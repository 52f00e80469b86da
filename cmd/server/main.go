package main

import (
	"athleteiq/coaching-api/internal/api"
	"athleteiq/coaching-api/internal/config"
	"athleteiq/coaching-api/internal/logging"
	"athleteiq/coaching-api/internal/notify"
	"athleteiq/coaching-api/internal/repository"
	"athleteiq/coaching-api/internal/repository/memory"
	"athleteiq/coaching-api/internal/repository/mongo"
	"athleteiq/coaching-api/internal/service"
	"athleteiq/coaching-api/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title AthleteIQ Coaching API
// @version 1.0
// @description API for athletes, coaches and admins: training plans, workouts, performance tracking, feedback and injuries.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("Starting AthleteIQ server...", zap.String("driver", cfg.Database.Driver))

	// --- Repositories ---
	repos, closeDB := openRepositories(cfg.Database, logger)
	defer closeDB()

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3, logger)
		if err != nil {
			logger.Warn("S3 storage unavailable, training reports are disabled", zap.Error(err))
		}
	}

	// --- Notifications ---
	var sender notify.Sender = notify.LogSender{Logger: logger}
	if cfg.Email.Enabled {
		ses, err := notify.NewSESSender(context.Background(), cfg.Email.Region, cfg.Email.Sender, logger)
		if err != nil {
			logger.Fatal("Could not initialize SES sender", zap.Error(err))
		}
		sender = ses
	}
	notifier := notify.NewMailer(sender)

	// --- Initialize Services ---
	tokens, err := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiration)
	if err != nil {
		logger.Fatal("Could not initialize token service", zap.Error(err))
	}
	credentials := service.NewCredentialStore(repos.Users)
	authService := service.NewAuthService(repos.Users, credentials, tokens)
	athleteService := service.NewAthleteService(repos)
	coachService := service.NewCoachService(repos, notifier, logger)
	adminService := service.NewAdminService(repos)
	analyticsService := service.NewAnalyticsService(repos.Workouts, repos.Performance)
	reportService := service.NewReportService(repos, fileStorage, logger)

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(api.Recovery(logger), api.RequestLogger(logger))

	api.SetupRoutes(router, authService, athleteService, coachService, adminService, analyticsService, reportService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("ListenAndServe error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// In-flight requests get 5 seconds to finish.
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exiting.")
}

// openRepositories connects the configured backend. The returned func releases it.
func openRepositories(cfg config.DatabaseConfig, logger *zap.Logger) (repository.Repositories, func()) {
	if cfg.Driver == config.DriverMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		return memory.NewRepositories(), func() {}
	}

	dbClient, err := mongo.ConnectDB(cfg.URI)
	if err != nil {
		logger.Fatal("Could not connect to MongoDB", zap.Error(err))
	}
	appDB := dbClient.Database(cfg.Name)
	logger.Info("Database connection established", zap.String("database", cfg.Name))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
			logger.Error("Index creation failed", zap.Error(err))
			return
		}
		logger.Info("Index creation process completed")
	}()

	return mongo.NewRepositories(appDB), func() {
		logger.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}
}
