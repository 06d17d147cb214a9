package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vLorente/exam-scan/internal/cache"
	"github.com/vLorente/exam-scan/internal/config"
	"github.com/vLorente/exam-scan/internal/handlers"
	"github.com/vLorente/exam-scan/internal/repositories/postgres"
	"github.com/vLorente/exam-scan/internal/services"
	"github.com/vLorente/exam-scan/internal/utils"
	"github.com/vLorente/exam-scan/internal/validator"
	"github.com/vLorente/exam-scan/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var slogger *slog.Logger
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		slogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	} else {
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	slog.SetDefault(slogger)
	logger := utils.NewSlogLogger(slogger)

	logger.Info("Starting exam-scan service",
		"port", cfg.Port,
		"environment", cfg.Environment)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	var cacheService cache.CacheService
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		// The exam cache is an optimization, not a dependency.
		logger.Warn("Redis unavailable, running without exam cache", "error", err)
	} else {
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, slogger)
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	v := validator.New()
	repo := postgres.NewRepository(db)

	examService := services.NewExamService(repo, slogger, v, cacheService, publisher)
	questionService := services.NewQuestionService(repo, slogger, v)
	sessionService := services.NewSessionService(repo, slogger, v, publisher)
	exportService := services.NewExportService(repo, slogger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(utils.ContextLogger(logger))

	handlerManager := handlers.NewHandlerManager(
		examService,
		questionService,
		sessionService,
		exportService,
		v,
		logger,
	)
	handlerManager.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("Shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Shutdown complete")
}
