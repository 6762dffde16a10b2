package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/usecase"
)

// ScanHandler handles scan history requests
type ScanHandler struct {
	inferenceUsecase usecase.InferenceUsecase
	logger           *zap.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(inferenceUsecase usecase.InferenceUsecase, logger *zap.Logger) *ScanHandler {
	return &ScanHandler{
		inferenceUsecase: inferenceUsecase,
		logger:           logger,
	}
}

// List handles GET /api/v1/scans with optional ?media_type= filter
func (h *ScanHandler) List(c *gin.Context) {
	pagination := ParsePagination(c)

	mediaType := c.Query("media_type")
	if mediaType != "" && !IsValidMediaType(mediaType) {
		HandleInvalidRequest(c, "media_type must be IMAGE, VIDEO or AUDIO")
		return
	}

	output, err := h.inferenceUsecase.ListScans(c.Request.Context(), mediaType, pagination.Limit, pagination.Offset)
	if err != nil {
		h.logger.Error("failed to list scans", zap.Error(err))
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// Get handles GET /api/v1/scans/:id
func (h *ScanHandler) Get(c *gin.Context) {
	id, err := ExtractUUIDParam(c, "id")
	if err != nil {
		HandleInvalidUUID(c, "scan id")
		return
	}

	output, err := h.inferenceUsecase.GetScan(c.Request.Context(), id)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// Delete handles DELETE /api/v1/scans/:id
func (h *ScanHandler) Delete(c *gin.Context) {
	id, err := ExtractUUIDParam(c, "id")
	if err != nil {
		HandleInvalidUUID(c, "scan id")
		return
	}

	if err := h.inferenceUsecase.DeleteScan(c.Request.Context(), id); err != nil {
		HandleUsecaseError(c, err)
		return
	}

	h.logger.Info("scan deleted", zap.String("scan_id", id.String()))
	c.Status(http.StatusNoContent)
}
