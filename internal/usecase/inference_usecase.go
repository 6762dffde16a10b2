package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/domain/entity"
	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/domain/repository"
	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/domain/scoring"
	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/domain/service"
	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/infrastructure/metrics"
)

// Error definitions for inference usecase
var (
	ErrScanNotFound     = errors.New("scan not found")
	ErrInvalidMediaType = errors.New("invalid media type")
	ErrNoFrames         = errors.New("no frame paths provided")
	ErrNoAudio          = errors.New("no audio path provided")
	ErrModelUnavailable = errors.New("model runner unavailable")
)

const (
	defaultModelVersion = "v4"
	defaultMaxFrames    = 30

	// Frames are classified in parallel; the runner batches internally,
	// so a small fan-out is enough to hide round-trip latency.
	classifyConcurrency = 4

	noFaceWarning = "No faces detected - results may be less accurate"
)

// FrameArtifact is one extracted frame plus the upstream face detector's
// verdict for it. The detector reports faces explicitly; nothing is
// reconstructed from image geometry here.
type FrameArtifact struct {
	Path         string `json:"path" binding:"required"`
	FaceDetected bool   `json:"faceDetected"`
}

// AnalyzeInput represents an inference request with already-extracted
// media artifacts
type AnalyzeInput struct {
	Hash            string          `json:"hash"`
	MediaType       string          `json:"mediaType" binding:"required"`
	ModelVersion    string          `json:"modelVersion"`
	ExtractedFrames []FrameArtifact `json:"extractedFrames"`
	ExtractedAudio  string          `json:"extractedAudio"`
}

// AnalyzeOutput is the flat inference response. The ten score fields, their
// names and the 0-100 scale are a wire compatibility contract.
type AnalyzeOutput struct {
	VideoScore          float64 `json:"video_score"`
	PeakRisk            float64 `json:"peak_risk"`
	MeanRisk            float64 `json:"mean_risk"`
	AudioScore          float64 `json:"audio_score"`
	GanFingerprint      float64 `json:"gan_fingerprint"`
	TemporalConsistency float64 `json:"temporal_consistency"`
	RiskScore           float64 `json:"risk_score"`
	Confidence          float64 `json:"confidence"`
	FacesDetected       int     `json:"faces_detected"`
	TotalFrames         int     `json:"total_frames"`

	ModelVersion  string    `json:"model_version"`
	InferenceTime int64     `json:"inference_time"`
	Warning       string    `json:"warning,omitempty"`
	ScanID        uuid.UUID `json:"scan_id"`
	Cached        bool      `json:"cached,omitempty"`
}

// ScanOutput represents a stored scan for the history endpoints
type ScanOutput struct {
	ScanID          uuid.UUID          `json:"scan_id"`
	MediaHash       string             `json:"media_hash"`
	MediaType       string             `json:"media_type"`
	ModelVersion    string             `json:"model_version"`
	Status          string             `json:"status"`
	Verdict         string             `json:"verdict"`
	Report          entity.ScoreReport `json:"report"`
	Warning         string             `json:"warning,omitempty"`
	InferenceTimeMs int64              `json:"inference_time_ms"`
	CreatedAt       string             `json:"created_at"`
}

// ScanListOutput represents a paginated scan list
type ScanListOutput struct {
	Scans   []*ScanOutput `json:"scans"`
	Total   int64         `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
	HasMore bool          `json:"has_more"`
}

// ScanCache caches completed scans by request key
type ScanCache interface {
	Get(ctx context.Context, key string) (*entity.Scan, error)
	Set(ctx context.Context, key string, scan *entity.Scan) error
}

// InferenceUsecase defines the interface for inference business logic
type InferenceUsecase interface {
	Analyze(ctx context.Context, input *AnalyzeInput) (*AnalyzeOutput, error)
	GetScan(ctx context.Context, id uuid.UUID) (*ScanOutput, error)
	ListScans(ctx context.Context, mediaType string, limit, offset int) (*ScanListOutput, error)
	DeleteScan(ctx context.Context, id uuid.UUID) error
}

type inferenceUsecase struct {
	scanRepo   repository.ScanRepository
	classifier service.Classifier
	cache      ScanCache
	maxFrames  int
}

// NewInferenceUsecase creates a new inference usecase. cache may be nil,
// in which case every request runs full inference.
func NewInferenceUsecase(scanRepo repository.ScanRepository, classifier service.Classifier, cache ScanCache, maxFrames int) InferenceUsecase {
	if maxFrames <= 0 {
		maxFrames = defaultMaxFrames
	}
	return &inferenceUsecase{
		scanRepo:   scanRepo,
		classifier: classifier,
		cache:      cache,
		maxFrames:  maxFrames,
	}
}

func (u *inferenceUsecase) Analyze(ctx context.Context, input *AnalyzeInput) (*AnalyzeOutput, error) {
	start := time.Now()

	mediaType := entity.MediaType(input.MediaType)
	if !mediaType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMediaType, input.MediaType)
	}
	if err := validateArtifacts(mediaType, input); err != nil {
		return nil, err
	}

	modelVersion := input.ModelVersion
	if modelVersion == "" {
		modelVersion = defaultModelVersion
	}

	if cached := u.dedup(ctx, input.Hash, mediaType, modelVersion); cached != nil {
		return toAnalyzeOutput(cached, true, time.Since(start).Milliseconds()), nil
	}

	// The scan is persisted up front as pending so failed requests leave an
	// inspectable trace instead of vanishing.
	scan := entity.NewScan(input.Hash, mediaType, modelVersion)
	if err := u.scanRepo.Create(ctx, scan); err != nil {
		return nil, err
	}

	visualProbs, frames, err := u.classifyFrames(ctx, mediaType, input.ExtractedFrames, scan.ID.String())
	if err != nil {
		u.failScan(ctx, scan, mediaType, err)
		return nil, err
	}

	audioProb, err := u.classifyAudio(ctx, mediaType, input.ExtractedAudio, scan.ID.String())
	if err != nil {
		u.failScan(ctx, scan, mediaType, err)
		return nil, err
	}

	facesDetected := 0
	for _, frame := range frames {
		if frame.FaceDetected {
			facesDetected++
		}
	}

	report, err := scoring.Aggregate(scoring.Input{
		VisualProbs:   visualProbs,
		AudioProb:     audioProb,
		MediaType:     mediaType,
		TotalFrames:   len(frames),
		FacesDetected: facesDetected,
	})
	if err != nil {
		u.failScan(ctx, scan, mediaType, err)
		return nil, err
	}

	warning := ""
	if mediaType != entity.MediaTypeAudio && facesDetected == 0 {
		warning = noFaceWarning
	}

	scan.Complete(report, time.Since(start).Milliseconds(), warning)

	if err := u.scanRepo.Update(ctx, scan); err != nil {
		return nil, err
	}
	u.storeScan(ctx, input.Hash, mediaType, modelVersion, scan)

	metrics.InferenceRequests.WithLabelValues(string(mediaType), "success").Inc()
	metrics.InferenceDuration.WithLabelValues(string(mediaType)).Observe(time.Since(start).Seconds())
	metrics.FramesProcessed.Add(float64(len(frames)))

	return toAnalyzeOutput(scan, false, scan.InferenceTimeMs), nil
}

// validateArtifacts checks that the request carries the artifacts its media
// type requires, before anything is persisted or classified.
func validateArtifacts(mediaType entity.MediaType, input *AnalyzeInput) error {
	switch mediaType {
	case entity.MediaTypeAudio:
		if input.ExtractedAudio == "" {
			return fmt.Errorf("%w for AUDIO", ErrNoAudio)
		}
	default:
		if len(input.ExtractedFrames) == 0 {
			return fmt.Errorf("%w for %s", ErrNoFrames, mediaType)
		}
	}
	return nil
}

func (u *inferenceUsecase) failScan(ctx context.Context, scan *entity.Scan, mediaType entity.MediaType, cause error) {
	// The reason lands in a varchar(255) column.
	reason := cause.Error()
	if len(reason) > 255 {
		reason = reason[:255]
	}
	scan.Fail(reason)
	// The request already failed; losing the failure record is acceptable.
	_ = u.scanRepo.Update(ctx, scan)
	metrics.InferenceRequests.WithLabelValues(string(mediaType), "error").Inc()
}

// classifyFrames resolves the visual track: it samples videos down to
// maxFrames, classifies every kept frame and normalizes each output to a
// canonical fake probability. All probabilities are fully materialized
// before aggregation begins.
func (u *inferenceUsecase) classifyFrames(ctx context.Context, mediaType entity.MediaType, frames []FrameArtifact, requestID string) ([]float64, []FrameArtifact, error) {
	switch mediaType {
	case entity.MediaTypeAudio:
		return nil, nil, nil
	case entity.MediaTypeImage:
		frames = frames[:1]
	case entity.MediaTypeVideo:
		frames = sampleFrames(frames, u.maxFrames)
	}

	probs := make([]float64, len(frames))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(classifyConcurrency)

	for i, frame := range frames {
		i, frame := i, frame
		g.Go(func() error {
			output, err := u.classifier.ClassifyImage(gCtx, frame.Path, requestID)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
			}
			probs[i] = scoring.Normalize(output, scoring.ImageFakeMarkers, scoring.ImageRealMarkers)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return probs, frames, nil
}

func (u *inferenceUsecase) classifyAudio(ctx context.Context, mediaType entity.MediaType, audioPath, requestID string) (*float64, error) {
	if audioPath == "" || mediaType == entity.MediaTypeImage {
		return nil, nil
	}

	output, err := u.classifier.ClassifyAudio(ctx, audioPath, requestID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	prob := scoring.Normalize(output, scoring.AudioFakeMarkers, scoring.AudioRealMarkers)
	return &prob, nil
}

func (u *inferenceUsecase) GetScan(ctx context.Context, id uuid.UUID) (*ScanOutput, error) {
	scan, err := u.scanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if scan == nil {
		return nil, ErrScanNotFound
	}

	return toScanOutput(scan), nil
}

func (u *inferenceUsecase) ListScans(ctx context.Context, mediaType string, limit, offset int) (*ScanListOutput, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var (
		scans []*entity.Scan
		total int64
		err   error
	)
	if mediaType == "" {
		scans, total, err = u.scanRepo.List(ctx, limit, offset)
	} else {
		mt := entity.MediaType(mediaType)
		if !mt.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMediaType, mediaType)
		}
		scans, total, err = u.scanRepo.ListByMediaType(ctx, mt, limit, offset)
	}
	if err != nil {
		return nil, err
	}

	outputs := make([]*ScanOutput, len(scans))
	for i, s := range scans {
		outputs[i] = toScanOutput(s)
	}

	return &ScanListOutput{
		Scans:   outputs,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+limit) < total,
	}, nil
}

func (u *inferenceUsecase) DeleteScan(ctx context.Context, id uuid.UUID) error {
	scan, err := u.scanRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if scan == nil {
		return ErrScanNotFound
	}

	return u.scanRepo.Delete(ctx, id)
}

// dedup returns an earlier completed scan of the same media, if one exists.
// Redis is consulted first; on a miss the database serves as a slower
// fallback so identical media is still not re-scored when the cache is cold
// or absent.
func (u *inferenceUsecase) dedup(ctx context.Context, hash string, mediaType entity.MediaType, modelVersion string) *entity.Scan {
	if hash == "" {
		return nil
	}

	if u.cache != nil {
		scan, err := u.cache.Get(ctx, cacheKey(hash, mediaType, modelVersion))
		if err == nil && scan != nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return scan
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	scan, err := u.scanRepo.GetLatestByHash(ctx, hash)
	if err != nil || scan == nil {
		return nil
	}
	if !scan.IsCompleted() || scan.MediaType != mediaType || scan.ModelVersion != modelVersion {
		return nil
	}
	return scan
}

func (u *inferenceUsecase) storeScan(ctx context.Context, hash string, mediaType entity.MediaType, modelVersion string, scan *entity.Scan) {
	if u.cache == nil || hash == "" {
		return
	}
	// Cache write failures are not worth failing the request over.
	_ = u.cache.Set(ctx, cacheKey(hash, mediaType, modelVersion), scan)
}

func cacheKey(hash string, mediaType entity.MediaType, modelVersion string) string {
	return fmt.Sprintf("scan:%s:%s:%s", hash, mediaType, modelVersion)
}

// sampleFrames picks at most max frames, evenly spaced across the sequence,
// preserving order.
func sampleFrames(frames []FrameArtifact, max int) []FrameArtifact {
	if len(frames) <= max {
		return frames
	}

	step := float64(len(frames)) / float64(max)
	sampled := make([]FrameArtifact, 0, max)
	for i := 0; i < max; i++ {
		sampled = append(sampled, frames[int(float64(i)*step)])
	}
	return sampled
}

func toAnalyzeOutput(scan *entity.Scan, cached bool, inferenceTimeMs int64) *AnalyzeOutput {
	return &AnalyzeOutput{
		VideoScore:          scan.Report.VideoScore,
		PeakRisk:            scan.Report.PeakRisk,
		MeanRisk:            scan.Report.MeanRisk,
		AudioScore:          scan.Report.AudioScore,
		GanFingerprint:      scan.Report.GanFingerprint,
		TemporalConsistency: scan.Report.TemporalConsistency,
		RiskScore:           scan.Report.RiskScore,
		Confidence:          scan.Report.Confidence,
		FacesDetected:       scan.Report.FacesDetected,
		TotalFrames:         scan.Report.TotalFrames,
		ModelVersion:        scan.ModelVersion,
		InferenceTime:       inferenceTimeMs,
		Warning:             scan.Warning,
		ScanID:              scan.ID,
		Cached:              cached,
	}
}

func toScanOutput(s *entity.Scan) *ScanOutput {
	return &ScanOutput{
		ScanID:          s.ID,
		MediaHash:       s.MediaHash,
		MediaType:       string(s.MediaType),
		ModelVersion:    s.ModelVersion,
		Status:          string(s.Status),
		Verdict:         s.Verdict(),
		Report:          s.Report,
		Warning:         s.Warning,
		InferenceTimeMs: s.InferenceTimeMs,
		CreatedAt:       s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
