package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/adapter/client"
	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/adapter/http/handler"
	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/adapter/http/middleware"
	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/adapter/repository/postgres"
	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/infrastructure/cache"
	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/infrastructure/config"
	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/usecase"
)

// Setup creates and configures the Gin router
func Setup(db *gorm.DB, redisClient *redis.Client, modelClient *client.ModelClient, logger *zap.Logger, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Health endpoints
	healthHandler := handler.NewHealthHandler(db, redisClient, modelClient)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Initialize repositories
	scanRepo := postgres.NewScanRepository(db)

	// Report cache is optional; without Redis every request runs full
	// inference. The interface value must stay nil when there is no cache.
	var scanCache usecase.ScanCache
	if redisClient != nil {
		ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
		scanCache = cache.NewReportCache(redisClient, ttl)
	}

	// Initialize usecases
	classifier := client.NewModelClassifier(modelClient)
	inferenceUC := usecase.NewInferenceUsecase(scanRepo, classifier, scanCache, cfg.Model.MaxFrames)

	// Initialize handlers
	inferenceHandler := handler.NewInferenceHandler(inferenceUC, logger)
	scanHandler := handler.NewScanHandler(inferenceUC, logger)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/inference", inferenceHandler.Analyze)

		scans := v1.Group("/scans")
		{
			scans.GET("", scanHandler.List)
			scans.GET("/:id", scanHandler.Get)
			scans.DELETE("/:id", scanHandler.Delete)
		}
	}

	return router
}
