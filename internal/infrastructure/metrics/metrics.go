package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Inference metrics, exported on /metrics via the default registry.
var (
	InferenceRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deepfake_inference_requests_total",
		Help: "Inference requests by media type and outcome",
	}, []string{"media_type", "status"})

	InferenceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "deepfake_inference_duration_seconds",
		Help:    "End-to-end inference latency by media type",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"media_type"})

	FramesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "deepfake_frames_processed_total",
		Help: "Total frames classified by the visual model",
	})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deepfake_report_cache_lookups_total",
		Help: "Report cache lookups by result",
	}, []string{"result"})
)
