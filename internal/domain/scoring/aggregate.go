package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/domain/entity"
)

// ErrInvalidInput is returned when the caller-supplied frame/face counts are
// inconsistent. That indicates an upstream bookkeeping bug and must surface
// rather than be silently clamped.
var ErrInvalidInput = errors.New("invalid aggregation input")

// Calibration constants. Empirically chosen; preserved exactly for
// compatibility with existing score consumers.
const (
	videoPercentile    = 90
	variancePenalty    = 1000
	peakGuardMargin    = 10
	peakBlendBase      = 0.7
	peakBlendPeak      = 0.3
	blendWeightVideo   = 0.6
	blendWeightAudio   = 0.4
	audioOverrideScale = 0.9
)

// Input bundles everything the Aggregator needs for one request.
type Input struct {
	// VisualProbs are canonical per-frame fake probabilities, in frame
	// order. Empty for audio-only requests.
	VisualProbs []float64

	// AudioProb is the canonical fake probability of the audio track,
	// nil when the request carried no audio.
	AudioProb *float64

	MediaType entity.MediaType

	// TotalFrames and FacesDetected describe the same frame universe as
	// VisualProbs: total frames processed and how many of them had a face
	// reported by the upstream detector.
	TotalFrames   int
	FacesDetected int
}

// Aggregate combines canonical per-unit probabilities into the final score
// report. It is a single deterministic pass: identical inputs yield an
// identical report.
//
// The visual track is summarized by its 90th percentile rather than the
// mean, so one noisy low-probability frame cannot drag the score down while
// majority-fake sequences still register. A max-based cross-modal blend
// keeps a strong single-modality signal (a partial deepfake) from being
// diluted by a weighted average.
func Aggregate(in Input) (entity.ScoreReport, error) {
	if err := in.validate(); err != nil {
		return entity.ScoreReport{}, err
	}

	var videoScore, peakRisk, meanRisk float64
	if len(in.VisualProbs) > 0 {
		if max, _ := stats.Max(in.VisualProbs); max > 0 {
			mean, _ := stats.Mean(in.VisualProbs)
			videoScore = percentile(in.VisualProbs, videoPercentile) * 100
			peakRisk = max * 100
			meanRisk = mean * 100
		}
	}

	// Single-model design: the same classifier serves both roles.
	ganFingerprint := videoScore

	temporalConsistency := 100.0
	if in.MediaType == entity.MediaTypeVideo && len(in.VisualProbs) > 1 {
		// High frame-to-frame variance in fake probability reads as
		// visual inconsistency, a proxy for splicing.
		variance, _ := stats.PopulationVariance(in.VisualProbs)
		temporalConsistency = clamp(100-variance*variancePenalty, 0, 100)
	}

	var audioScore float64
	if in.AudioProb != nil {
		audioScore = *in.AudioProb * 100
	}

	confidence := in.confidence() * (1 - facePenalty(in.FacesDetected, in.TotalFrames))

	var riskScore float64
	switch {
	case in.MediaType == entity.MediaTypeVideo && in.AudioProb != nil:
		weighted := videoScore*blendWeightVideo + audioScore*blendWeightAudio
		riskScore = math.Max(weighted, math.Max(videoScore, audioScore*audioOverrideScale))
	case in.MediaType == entity.MediaTypeAudio:
		riskScore = audioScore
	default:
		riskScore = videoScore
	}

	// A single extreme frame must still pull the verdict upward even when
	// percentile smoothing suppressed it.
	if peakRisk > riskScore+peakGuardMargin {
		riskScore = riskScore*peakBlendBase + peakRisk*peakBlendPeak
	}
	riskScore = clamp(riskScore, 0, 100)

	return entity.ScoreReport{
		VideoScore:          round2(videoScore),
		PeakRisk:            round2(peakRisk),
		MeanRisk:            round2(meanRisk),
		AudioScore:          round2(audioScore),
		GanFingerprint:      round2(ganFingerprint),
		TemporalConsistency: round2(temporalConsistency),
		RiskScore:           round2(riskScore),
		Confidence:          round2(confidence),
		FacesDetected:       in.FacesDetected,
		TotalFrames:         in.TotalFrames,
	}, nil
}

func (in Input) validate() error {
	if in.TotalFrames < 0 || in.FacesDetected < 0 {
		return fmt.Errorf("%w: negative frame counts (faces=%d, total=%d)", ErrInvalidInput, in.FacesDetected, in.TotalFrames)
	}
	if in.FacesDetected > in.TotalFrames {
		return fmt.Errorf("%w: faces_detected %d exceeds total_frames %d", ErrInvalidInput, in.FacesDetected, in.TotalFrames)
	}
	return nil
}

// confidence measures how far, on average, the classifier verdicts sit from
// the undecided midpoint, as a percentage.
func (in Input) confidence() float64 {
	if len(in.VisualProbs) > 0 {
		sum := 0.0
		for _, p := range in.VisualProbs {
			sum += math.Abs(p-0.5) * 2
		}
		return sum / float64(len(in.VisualProbs)) * 100
	}
	if in.AudioProb != nil {
		return math.Abs(*in.AudioProb-0.5) * 2 * 100
	}
	return 0
}

// facePenalty discounts confidence when most frames lacked a clear face:
// predictions on background or occluded crops are less trustworthy, but the
// score itself is kept.
func facePenalty(faces, total int) float64 {
	if total == 0 {
		return 0
	}
	rate := float64(faces) / float64(total)
	switch {
	case rate < 0.30:
		return 0.20
	case rate < 0.50:
		return 0.10
	case rate < 0.70:
		return 0.05
	default:
		return 0
	}
}

// percentile interpolates linearly between closest ranks. stats.Percentile
// rounds to the nearest rank, which shifts P90 on short frame sequences, so
// the interpolating variant the calibration constants were tuned against is
// implemented here.
func percentile(vals []float64, q float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := q / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
