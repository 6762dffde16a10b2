package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/domain/entity"
)

func floatPtr(v float64) *float64 { return &v }

func TestAggregate_VideoScores(t *testing.T) {
	t.Run("P90 is robust to a single low-probability frame", func(t *testing.T) {
		report, err := Aggregate(Input{
			VisualProbs:   []float64{0.9, 0.9, 0.9, 0.9, 0.1},
			MediaType:     entity.MediaTypeVideo,
			TotalFrames:   5,
			FacesDetected: 5,
		})

		require.NoError(t, err)
		assert.InDelta(t, 90.0, report.VideoScore, 0.01)
		assert.Equal(t, 90.0, report.PeakRisk)
		assert.InDelta(t, 74.0, report.MeanRisk, 0.01)
		assert.Equal(t, report.VideoScore, report.GanFingerprint)
		assert.Less(t, report.TemporalConsistency, 100.0)
		assert.Equal(t, 80.0, report.Confidence)
		assert.Equal(t, 90.0, report.RiskScore)
	})

	t.Run("uniform probabilities give full temporal consistency", func(t *testing.T) {
		report, err := Aggregate(Input{
			VisualProbs:   []float64{0.3, 0.3, 0.3},
			MediaType:     entity.MediaTypeVideo,
			TotalFrames:   3,
			FacesDetected: 3,
		})

		require.NoError(t, err)
		assert.Equal(t, 100.0, report.TemporalConsistency)
		assert.Equal(t, 30.0, report.VideoScore)
	})

	t.Run("single frame video keeps temporal consistency at 100", func(t *testing.T) {
		report, err := Aggregate(Input{
			VisualProbs:   []float64{0.8},
			MediaType:     entity.MediaTypeVideo,
			TotalFrames:   1,
			FacesDetected: 1,
		})

		require.NoError(t, err)
		assert.Equal(t, 100.0, report.TemporalConsistency)
	})

	t.Run("images never get a temporal penalty", func(t *testing.T) {
		report, err := Aggregate(Input{
			VisualProbs:   []float64{0.1, 0.9},
			MediaType:     entity.MediaTypeImage,
			TotalFrames:   2,
			FacesDetected: 2,
		})

		require.NoError(t, err)
		assert.Equal(t, 100.0, report.TemporalConsistency)
	})

	t.Run("empty visual sequence yields zero scores not NaN", func(t *testing.T) {
		report, err := Aggregate(Input{
			VisualProbs: nil,
			MediaType:   entity.MediaTypeAudio,
		})

		require.NoError(t, err)
		assert.Equal(t, 0.0, report.VideoScore)
		assert.Equal(t, 0.0, report.PeakRisk)
		assert.Equal(t, 0.0, report.MeanRisk)
	})

	t.Run("all-zero probabilities hit the degenerate branch", func(t *testing.T) {
		report, err := Aggregate(Input{
			VisualProbs:   []float64{0, 0, 0},
			MediaType:     entity.MediaTypeVideo,
			TotalFrames:   3,
			FacesDetected: 3,
		})

		require.NoError(t, err)
		assert.Equal(t, 0.0, report.VideoScore)
		assert.Equal(t, 0.0, report.RiskScore)
		// The model is maximally certain every frame is real.
		assert.Equal(t, 100.0, report.Confidence)
	})
}

func TestAggregate_PeakRiskGuard(t *testing.T) {
	t.Run("extreme frame pulls the verdict upward", func(t *testing.T) {
		// Nine calm frames and one spike: P90 smooths the spike away,
		// the guard blends it back in.
		probs := []float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.95}
		report, err := Aggregate(Input{
			VisualProbs:   probs,
			MediaType:     entity.MediaTypeVideo,
			TotalFrames:   10,
			FacesDetected: 10,
		})

		require.NoError(t, err)
		assert.Equal(t, 95.0, report.PeakRisk)
		assert.Greater(t, report.RiskScore, report.VideoScore)
		expected := round2(report.VideoScore*0.7 + 95.0*0.3)
		assert.InDelta(t, expected, report.RiskScore, 0.011)
	})

	t.Run("no blend when peak is within the margin", func(t *testing.T) {
		report, err := Aggregate(Input{
			VisualProbs:   []float64{0.8, 0.85, 0.82},
			MediaType:     entity.MediaTypeVideo,
			TotalFrames:   3,
			FacesDetected: 3,
		})

		require.NoError(t, err)
		assert.Equal(t, report.VideoScore, report.RiskScore)
	})
}

func TestAggregate_ModalityBlend(t *testing.T) {
	t.Run("audio only request scores from the audio track", func(t *testing.T) {
		report, err := Aggregate(Input{
			VisualProbs: nil,
			AudioProb:   floatPtr(0.8),
			MediaType:   entity.MediaTypeAudio,
		})

		require.NoError(t, err)
		assert.Equal(t, 0.0, report.VideoScore)
		assert.Equal(t, 80.0, report.AudioScore)
		assert.Equal(t, 80.0, report.RiskScore)
		assert.Equal(t, 60.0, report.Confidence)
		assert.Equal(t, 100.0, report.TemporalConsistency)
	})

	t.Run("partial deepfake override beats the weighted average", func(t *testing.T) {
		report, err := Aggregate(Input{
			VisualProbs:   []float64{0.2, 0.2, 0.2},
			AudioProb:     floatPtr(0.9),
			MediaType:     entity.MediaTypeVideo,
			TotalFrames:   3,
			FacesDetected: 3,
		})

		require.NoError(t, err)
		assert.Equal(t, 20.0, report.VideoScore)
		assert.Equal(t, 90.0, report.AudioScore)
		// weighted = 20*0.6 + 90*0.4 = 48; max(48, 20, 81) = 81
		assert.Equal(t, 81.0, report.RiskScore)
	})

	t.Run("video without audio uses the visual score", func(t *testing.T) {
		report, err := Aggregate(Input{
			VisualProbs:   []float64{0.6, 0.6},
			MediaType:     entity.MediaTypeVideo,
			TotalFrames:   2,
			FacesDetected: 2,
		})

		require.NoError(t, err)
		assert.Equal(t, 0.0, report.AudioScore)
		assert.Equal(t, report.VideoScore, report.RiskScore)
	})

	t.Run("strong video not diluted by clean audio", func(t *testing.T) {
		report, err := Aggregate(Input{
			VisualProbs:   []float64{0.9, 0.9, 0.9},
			AudioProb:     floatPtr(0.1),
			MediaType:     entity.MediaTypeVideo,
			TotalFrames:   3,
			FacesDetected: 3,
		})

		require.NoError(t, err)
		// weighted = 90*0.6 + 10*0.4 = 58; max picks the video track
		assert.Equal(t, 90.0, report.RiskScore)
	})
}

func TestAggregate_FacePenalty(t *testing.T) {
	base := func(faces, total int) Input {
		return Input{
			VisualProbs:   []float64{0.9, 0.9},
			MediaType:     entity.MediaTypeVideo,
			TotalFrames:   total,
			FacesDetected: faces,
		}
	}

	tests := []struct {
		name       string
		faces      int
		total      int
		confidence float64
	}{
		{name: "rate below 0.3 applies 20 percent penalty", faces: 2, total: 10, confidence: 64.0},
		{name: "rate below 0.5 applies 10 percent penalty", faces: 4, total: 10, confidence: 72.0},
		{name: "rate below 0.7 applies 5 percent penalty", faces: 6, total: 10, confidence: 76.0},
		{name: "rate at 0.7 applies no penalty", faces: 7, total: 10, confidence: 80.0},
		{name: "full detection applies no penalty", faces: 10, total: 10, confidence: 80.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := Aggregate(base(tt.faces, tt.total))
			require.NoError(t, err)
			assert.Equal(t, tt.confidence, report.Confidence)
		})
	}

	t.Run("zero total frames skips the penalty", func(t *testing.T) {
		report, err := Aggregate(Input{
			AudioProb: floatPtr(0.9),
			MediaType: entity.MediaTypeAudio,
		})
		require.NoError(t, err)
		assert.Equal(t, 80.0, report.Confidence)
	})
}

func TestAggregate_InvalidInput(t *testing.T) {
	t.Run("faces exceeding total frames is a contract violation", func(t *testing.T) {
		_, err := Aggregate(Input{
			VisualProbs:   []float64{0.5},
			MediaType:     entity.MediaTypeVideo,
			TotalFrames:   1,
			FacesDetected: 2,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("negative counts are a contract violation", func(t *testing.T) {
		_, err := Aggregate(Input{
			MediaType:   entity.MediaTypeVideo,
			TotalFrames: -1,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestAggregate_RangesAndIdempotence(t *testing.T) {
	inputs := []Input{
		{VisualProbs: []float64{0.0, 1.0, 0.5, 0.25}, MediaType: entity.MediaTypeVideo, TotalFrames: 4, FacesDetected: 1},
		{VisualProbs: []float64{1, 1, 1, 1}, AudioProb: floatPtr(1), MediaType: entity.MediaTypeVideo, TotalFrames: 4, FacesDetected: 4},
		{AudioProb: floatPtr(0.5), MediaType: entity.MediaTypeAudio},
		{VisualProbs: []float64{0.42}, MediaType: entity.MediaTypeImage, TotalFrames: 1, FacesDetected: 0},
		{MediaType: entity.MediaTypeAudio},
	}

	for _, in := range inputs {
		first, err := Aggregate(in)
		require.NoError(t, err)

		for _, v := range []float64{
			first.VideoScore, first.PeakRisk, first.MeanRisk, first.AudioScore,
			first.GanFingerprint, first.TemporalConsistency, first.RiskScore, first.Confidence,
		} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		}
		assert.Equal(t, first.VideoScore, first.GanFingerprint)

		second, err := Aggregate(in)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name     string
		vals     []float64
		q        float64
		expected float64
	}{
		{name: "single value", vals: []float64{0.7}, q: 90, expected: 0.7},
		{name: "interpolates between ranks", vals: []float64{0.0, 1.0}, q: 90, expected: 0.9},
		{name: "p90 of five values", vals: []float64{0.1, 0.9, 0.9, 0.9, 0.9}, q: 90, expected: 0.9},
		{name: "median", vals: []float64{0.2, 0.4, 0.6}, q: 50, expected: 0.4},
		{name: "p0 is the minimum", vals: []float64{0.3, 0.1, 0.2}, q: 0, expected: 0.1},
		{name: "p100 is the maximum", vals: []float64{0.3, 0.1, 0.2}, q: 100, expected: 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, percentile(tt.vals, tt.q), 1e-9)
		})
	}
}
