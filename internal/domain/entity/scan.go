package entity

import (
	"time"

	"github.com/google/uuid"
)

// ScanStatus represents the current state of a scan
type ScanStatus string

const (
	ScanStatusPending   ScanStatus = "pending"
	ScanStatusCompleted ScanStatus = "completed"
	ScanStatusFailed    ScanStatus = "failed"
)

// Verdict labels derived from the final risk score
const (
	VerdictLikelyFake      = "likely_fake"
	VerdictSuspicious      = "suspicious"
	VerdictLikelyAuthentic = "likely_authentic"
)

// Scan represents one deepfake detection request and its scored result
type Scan struct {
	ID              uuid.UUID   `json:"id" gorm:"type:uuid;primary_key"`
	MediaHash       string      `json:"media_hash" gorm:"type:varchar(128);index"`
	MediaType       MediaType   `json:"media_type" gorm:"type:varchar(10);not null"`
	ModelVersion    string      `json:"model_version" gorm:"type:varchar(50);not null"`
	Status          ScanStatus  `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	Report          ScoreReport `json:"report" gorm:"embedded"`
	Warning         string      `json:"warning,omitempty" gorm:"type:varchar(255)"`
	InferenceTimeMs int64       `json:"inference_time_ms" gorm:"default:0"`
	CreatedAt       time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (Scan) TableName() string {
	return "scans"
}

// NewScan creates a new pending Scan
func NewScan(mediaHash string, mediaType MediaType, modelVersion string) *Scan {
	return &Scan{
		ID:           uuid.New(),
		MediaHash:    mediaHash,
		MediaType:    mediaType,
		ModelVersion: modelVersion,
		Status:       ScanStatusPending,
	}
}

// Complete records the aggregated report on the scan
func (s *Scan) Complete(report ScoreReport, inferenceTimeMs int64, warning string) {
	s.Report = report
	s.InferenceTimeMs = inferenceTimeMs
	s.Warning = warning
	s.Status = ScanStatusCompleted
}

// Fail marks the scan as failed with a human-readable reason
func (s *Scan) Fail(reason string) {
	s.Status = ScanStatusFailed
	s.Warning = reason
}

// IsCompleted returns true if the scan has a final report
func (s *Scan) IsCompleted() bool {
	return s.Status == ScanStatusCompleted
}

// FaceDetectionRate returns the fraction of frames with a detected face
func (s *Scan) FaceDetectionRate() float64 {
	if s.Report.TotalFrames == 0 {
		return 0
	}
	return float64(s.Report.FacesDetected) / float64(s.Report.TotalFrames)
}

// Verdict maps the final risk score onto a coarse human-readable label
func (s *Scan) Verdict() string {
	switch {
	case s.Report.RiskScore >= 70:
		return VerdictLikelyFake
	case s.Report.RiskScore >= 40:
		return VerdictSuspicious
	default:
		return VerdictLikelyAuthentic
	}
}
