package entity

// ScoreReport is the calibrated multi-modal risk assessment for one scan.
// All score fields are percentages in [0,100], rounded to 2 decimals.
// The JSON field names and the 0-100 scale are a compatibility contract
// with existing API consumers and must not change.
type ScoreReport struct {
	VideoScore          float64 `json:"video_score" gorm:"type:decimal(5,2);default:0"`
	PeakRisk            float64 `json:"peak_risk" gorm:"type:decimal(5,2);default:0"`
	MeanRisk            float64 `json:"mean_risk" gorm:"type:decimal(5,2);default:0"`
	AudioScore          float64 `json:"audio_score" gorm:"type:decimal(5,2);default:0"`
	GanFingerprint      float64 `json:"gan_fingerprint" gorm:"type:decimal(5,2);default:0"`
	TemporalConsistency float64 `json:"temporal_consistency" gorm:"type:decimal(5,2);default:0"`
	RiskScore           float64 `json:"risk_score" gorm:"type:decimal(5,2);default:0"`
	Confidence          float64 `json:"confidence" gorm:"type:decimal(5,2);default:0"`
	FacesDetected       int     `json:"faces_detected" gorm:"default:0"`
	TotalFrames         int     `json:"total_frames" gorm:"default:0"`
}
