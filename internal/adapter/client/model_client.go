package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PredictRequest represents a per-unit prediction request to the model runner
type PredictRequest struct {
	Path      string `json:"path"`
	RequestID string `json:"request_id,omitempty"`
}

// PredictResponse represents the model runner's response for one unit.
// Predictions is kept raw because model families disagree on shape: a single
// {label, score} object, a flat list of them, or a list-of-lists.
type PredictResponse struct {
	Predictions  json.RawMessage `json:"predictions"`
	ModelVersion string          `json:"model_version"`
	RequestID    string          `json:"request_id,omitempty"`
}

// ModelInfo describes the loaded models as reported by the runner
type ModelInfo struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	Accuracy     string `json:"accuracy"`
	Architecture string `json:"architecture"`
	Device       string `json:"device"`
}

// RunnerHealthResponse represents the model runner health check response
type RunnerHealthResponse struct {
	Status      string     `json:"status"`
	ModelLoaded bool       `json:"model_loaded"`
	Model       *ModelInfo `json:"model,omitempty"`
}

// StatusError is returned when the model runner answers with a non-200
// status. Callers use the code to decide whether a retry makes sense.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("model runner returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("model runner returned status %d: %s", e.StatusCode, e.Body)
}

// ModelClient is an HTTP client for the model runner sidecar, which owns
// model loading, device selection and media decoding.
type ModelClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewModelClient creates a new model runner client
func NewModelClient(baseURL string, timeout time.Duration) *ModelClient {
	return &ModelClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// PredictImage runs the visual model on one extracted frame
func (c *ModelClient) PredictImage(ctx context.Context, imagePath, requestID string) (*PredictResponse, error) {
	return c.predict(ctx, "/predict/image", imagePath, requestID)
}

// PredictAudio runs the audio model on one extracted clip
func (c *ModelClient) PredictAudio(ctx context.Context, audioPath, requestID string) (*PredictResponse, error) {
	return c.predict(ctx, "/predict/audio", audioPath, requestID)
}

func (c *ModelClient) predict(ctx context.Context, endpoint, path, requestID string) (*PredictResponse, error) {
	reqBody := PredictRequest{
		Path:      path,
		RequestID: requestID,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Health checks the model runner health and returns model metadata
func (c *ModelClient) Health(ctx context.Context) (*RunnerHealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var result RunnerHealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Ready checks if the model runner has its models loaded
func (c *ModelClient) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ready", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model runner not ready: status %d", resp.StatusCode)
	}

	return nil
}

// IsRetryable reports whether an error from the client is worth retrying:
// transport failures and 5xx/429 answers are transient, everything else is
// permanent.
func IsRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError ||
			statusErr.StatusCode == http.StatusTooManyRequests
	}
	return true
}
