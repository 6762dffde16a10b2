package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/domain/scoring"
	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/usecase"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
}

// MapUsecaseError maps usecase errors to HTTP error responses.
// It provides consistent error handling across all handlers.
func MapUsecaseError(err error) ErrorResponse {
	switch {
	case errors.Is(err, usecase.ErrScanNotFound):
		return ErrorResponse{
			StatusCode: http.StatusNotFound,
			Code:       "NOT_FOUND",
			Message:    "scan not found",
		}
	case errors.Is(err, usecase.ErrInvalidMediaType):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "INVALID_REQUEST",
			Message:    "media type must be IMAGE, VIDEO or AUDIO",
		}
	case errors.Is(err, usecase.ErrNoFrames):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "INVALID_REQUEST",
			Message:    "no extracted frames provided",
		}
	case errors.Is(err, usecase.ErrNoAudio):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "INVALID_REQUEST",
			Message:    "no extracted audio provided",
		}
	case errors.Is(err, scoring.ErrInvalidInput):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "INVALID_REQUEST",
			Message:    "inconsistent frame counts",
		}
	case errors.Is(err, usecase.ErrModelUnavailable):
		return ErrorResponse{
			StatusCode: http.StatusServiceUnavailable,
			Code:       "MODEL_UNAVAILABLE",
			Message:    "model runner unavailable",
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "INTERNAL_ERROR",
			Message:    "internal server error",
		}
	}
}

// HandleUsecaseError handles a usecase error by sending an appropriate HTTP response.
// It maps the error to an HTTP status and sends a JSON error response.
func HandleUsecaseError(c *gin.Context, err error) {
	errResp := MapUsecaseError(err)
	respondError(c, errResp.StatusCode, errResp.Code, errResp.Message)
}

// HandleInvalidUUID handles an invalid UUID parameter error.
func HandleInvalidUUID(c *gin.Context, paramName string) {
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid "+paramName)
}

// HandleInvalidRequest handles a generic invalid request error.
func HandleInvalidRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", message)
}
