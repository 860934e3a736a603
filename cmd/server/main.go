package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kiganyamburu/quiz-application/internal/cache"
	"github.com/kiganyamburu/quiz-application/internal/config"
	"github.com/kiganyamburu/quiz-application/internal/handlers"
	"github.com/kiganyamburu/quiz-application/internal/repositories/postgres"
	"github.com/kiganyamburu/quiz-application/internal/services"
	"github.com/kiganyamburu/quiz-application/internal/utils"
	"github.com/kiganyamburu/quiz-application/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := postgres.AutoMigrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Redis is optional; without it leaderboard reads go straight to Postgres.
	var cacheService cache.CacheService
	if redisClient, err := pkg.NewRedisClient(cfg); err != nil {
		logger.Warn("Redis unavailable, leaderboard caching disabled", "error", err)
	} else {
		cacheService = cache.NewRedisCache(redisClient, slogger)
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	repo := postgres.NewRepository(db)
	validator := utils.NewValidator()

	quizService := services.NewQuizService(repo, slogger)
	gradingService := services.NewGradingService()
	leaderboardService := services.NewLeaderboardService(repo, cacheService, slogger, services.LeaderboardOptions{
		QuizSize:   cfg.QuizLeaderboardSize,
		GlobalSize: cfg.GlobalLeaderboardSize,
		CacheTTL:   cfg.LeaderboardCacheTTL,
	})
	attemptService := services.NewAttemptService(repo, gradingService, leaderboardService, publisher, slogger, validator)
	exportService := services.NewExportService(repo, leaderboardService, slogger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(
		quizService,
		attemptService,
		leaderboardService,
		exportService,
		validator,
		logger,
	)
	handlerManager.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting quiz service", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	if err := repo.Close(); err != nil {
		logger.Warn("Failed to close database", "error", err)
	}
}
