package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/usecase"
)

// InferenceHandler handles inference requests
type InferenceHandler struct {
	inferenceUsecase usecase.InferenceUsecase
	logger           *zap.Logger
}

// NewInferenceHandler creates a new inference handler
func NewInferenceHandler(inferenceUsecase usecase.InferenceUsecase, logger *zap.Logger) *InferenceHandler {
	return &InferenceHandler{
		inferenceUsecase: inferenceUsecase,
		logger:           logger,
	}
}

// Analyze handles POST /api/v1/inference.
//
// Unlike the rest of the API this endpoint answers with a flat JSON object
// instead of the success/data envelope: the score field names and shape are
// consumed by existing upstream services and must stay as they are.
func (h *InferenceHandler) Analyze(c *gin.Context) {
	var input usecase.AnalyzeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid inference request", zap.Error(err))
		HandleInvalidRequest(c, "invalid request body")
		return
	}

	output, err := h.inferenceUsecase.Analyze(c.Request.Context(), &input)
	if err != nil {
		h.logger.Error("inference failed",
			zap.String("media_type", input.MediaType),
			zap.String("hash", input.Hash),
			zap.Error(err),
		)
		HandleUsecaseError(c, err)
		return
	}

	h.logger.Info("inference completed",
		zap.String("scan_id", output.ScanID.String()),
		zap.String("media_type", input.MediaType),
		zap.Float64("risk_score", output.RiskScore),
		zap.Int64("inference_time_ms", output.InferenceTime),
		zap.Bool("cached", output.Cached),
	)

	c.JSON(http.StatusOK, output)
}
