package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/domain/service"
)

// ModelClassifier adapts ModelClient to the Classifier interface. It retries
// transient runner failures with fibonacci backoff and resolves the runner's
// polymorphic prediction shapes into the canonical ordered pair list once,
// at this boundary, so nothing downstream sees raw JSON.
type ModelClassifier struct {
	client      *ModelClient
	baseBackoff time.Duration
	maxRetries  uint64
}

// NewModelClassifier creates a new ModelClassifier
func NewModelClassifier(client *ModelClient) service.Classifier {
	return &ModelClassifier{
		client:      client,
		baseBackoff: 200 * time.Millisecond,
		maxRetries:  3,
	}
}

// ClassifyImage runs the visual model on one extracted frame
func (c *ModelClassifier) ClassifyImage(ctx context.Context, imagePath, requestID string) (service.ClassifierOutput, error) {
	return c.classify(ctx, imagePath, requestID, c.client.PredictImage)
}

// ClassifyAudio runs the audio model on one extracted clip
func (c *ModelClassifier) ClassifyAudio(ctx context.Context, audioPath, requestID string) (service.ClassifierOutput, error) {
	return c.classify(ctx, audioPath, requestID, c.client.PredictAudio)
}

func (c *ModelClassifier) classify(
	ctx context.Context,
	path, requestID string,
	predict func(context.Context, string, string) (*PredictResponse, error),
) (service.ClassifierOutput, error) {
	var output service.ClassifierOutput

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewFibonacci(c.baseBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := predict(ctx, path, requestID)
		if err != nil {
			if IsRetryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}

		output, err = decodePredictions(resp.Predictions)
		return err
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

// decodePredictions resolves the runner's polymorphic prediction payload:
// a flat list of {label, score} pairs, a batched list-of-lists (first entry
// taken, one unit per call), or a bare single pair. Valid JSON in an unknown
// shape yields an empty output, which normalization degrades to 0.5 instead
// of failing the request.
func decodePredictions(raw json.RawMessage) (service.ClassifierOutput, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var flat []service.LabelScore
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat, nil
	}

	var nested [][]service.LabelScore
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return nested[0], nil
	}

	var single service.LabelScore
	if err := json.Unmarshal(raw, &single); err == nil {
		return service.ClassifierOutput{single}, nil
	}

	if json.Valid(raw) {
		return nil, nil
	}
	return nil, fmt.Errorf("invalid predictions payload: %s", truncate(string(raw), 120))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
