// Package scoring turns heterogeneous per-unit classifier outputs into a
// single calibrated multi-modal risk report. It has two halves: Normalize
// collapses one raw classifier output into a canonical fake probability in
// [0,1], and Aggregate combines canonical probabilities from the visual and
// audio tracks into a ScoreReport. Both are pure and stateless and may be
// called from any number of goroutines.
package scoring

import (
	"strings"

	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/domain/service"
)

// MarkerSet is a list of lowercase substrings that identify one side of a
// classifier's label vocabulary ("fake", "spoof", the positional "label_0").
type MarkerSet []string

// Matches reports whether the lower-cased label contains any marker.
func (m MarkerSet) Matches(label string) bool {
	label = strings.ToLower(label)
	for _, marker := range m {
		if strings.Contains(label, marker) {
			return true
		}
	}
	return false
}

// Marker vocabularies per modality. The image model emits fake/real or the
// LABEL_0/LABEL_1 placeholders (class 0 = fake); anti-spoofing audio models
// additionally use spoof/bonafide.
var (
	ImageFakeMarkers = MarkerSet{"fake", "label_0"}
	ImageRealMarkers = MarkerSet{"real", "label_1"}
	AudioFakeMarkers = MarkerSet{"fake", "spoof", "label_0"}
	AudioRealMarkers = MarkerSet{"bonafide", "real", "label_1"}
)

// Normalize collapses one raw classifier output into the canonical
// probability that the unit is fake.
//
// The first pair matching a fake marker wins and its score is returned
// directly; otherwise the first pair matching a real marker wins and its
// score is inverted. Anything unmatched resolves to 0.5: maximal
// uncertainty, never an error, so a single bad label cannot abort a request.
func Normalize(output service.ClassifierOutput, fake, real MarkerSet) float64 {
	for _, pair := range output {
		if fake.Matches(pair.Label) {
			return pair.Score
		}
	}
	for _, pair := range output {
		if real.Matches(pair.Label) {
			return 1.0 - pair.Score
		}
	}

	return 0.5
}
