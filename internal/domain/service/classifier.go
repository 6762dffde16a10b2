package service

import "context"

// LabelScore is one label/score pair emitted by a classifier head.
// Scores are in [0,1] and need not sum to 1 across pairs.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ClassifierOutput is the ordered sequence of label/score pairs a model
// produces for a single unit (one frame, image or audio clip). Label
// vocabularies vary by model family; scoring.Normalize collapses them
// into a canonical fake probability.
type ClassifierOutput []LabelScore

// Classifier defines per-unit model inference. Implementations own the
// model lifecycle and must be safe for concurrent use.
type Classifier interface {
	// ClassifyImage runs the visual model on one extracted frame
	ClassifyImage(ctx context.Context, imagePath, requestID string) (ClassifierOutput, error)

	// ClassifyAudio runs the audio model on one extracted clip
	ClassifyAudio(ctx context.Context, audioPath, requestID string) (ClassifierOutput, error)
}
