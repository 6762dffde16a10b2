package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/adapter/client"
	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/adapter/http/router"
	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/infrastructure/cache"
	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/infrastructure/config"
	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/infrastructure/database"
	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/infrastructure/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Connected to database")

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database migrations completed")

	// Initialize Redis (optional, continue without it)
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn("Failed to connect to Redis, continuing without cache", zap.Error(err))
		redisClient = nil
	} else {
		log.Info("Connected to Redis")
	}

	// Initialize model runner client. The runner may still be loading models
	// at startup; /ready keeps answering 503 until it comes up.
	modelClient := client.NewModelClient(cfg.Model.BaseURL, time.Duration(cfg.Model.TimeoutSeconds)*time.Second)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := modelClient.Ready(ctx); err != nil {
			log.Warn("Model runner not ready yet", zap.String("base_url", cfg.Model.BaseURL), zap.Error(err))
		} else {
			log.Info("Model runner ready", zap.String("base_url", cfg.Model.BaseURL))
		}
		cancel()
	}

	// Setup router
	r := router.Setup(db, redisClient, modelClient, log, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Starting server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close database connection
	if sqlDB, err := db.DB(); err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}

	// Close Redis connection
	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("Server exited")
	return nil
}
