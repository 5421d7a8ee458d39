// Package detection implements the placeholder flame/smoke heuristic. A frame
// is scored by the share of its pixels that fall inside fixed "fire" and
// "smoke" colour boxes; the boxes and thresholds are part of the observable
// behaviour and must not be tuned.
package detection

import (
	"flaresentinel/internal/imaging"
	"flaresentinel/internal/types"
)

// ColorBox is an inclusive per-channel RGB range.
type ColorBox struct {
	Lower [3]uint8
	Upper [3]uint8
}

// Contains reports whether every channel lies within its bounds.
func (c ColorBox) Contains(r, g, b uint8) bool {
	return r >= c.Lower[0] && r <= c.Upper[0] &&
		g >= c.Lower[1] && g <= c.Upper[1] &&
		b >= c.Lower[2] && b <= c.Upper[2]
}

var (
	// FireBox approximates red/orange flame pixels.
	FireBox = ColorBox{Lower: [3]uint8{200, 0, 0}, Upper: [3]uint8{255, 150, 0}}
	// SmokeBox approximates grey smoke pixels.
	SmokeBox = ColorBox{Lower: [3]uint8{100, 100, 100}, Upper: [3]uint8{220, 220, 220}}
)

const (
	// FireThreshold is the fire-pixel fraction above which a frame is unsafe.
	FireThreshold = 0.005
	// SmokeThreshold is the smoke-pixel fraction above which a frame is unsafe.
	SmokeThreshold = 0.02

	fireGain  = 10.0
	smokeGain = 2.0
)

// Analysis holds the pixel counts behind a classification.
type Analysis struct {
	TotalPixels   int     `json:"total_pixels"`
	FirePixels    int     `json:"fire_pixels"`
	SmokePixels   int     `json:"smoke_pixels"`
	FireFraction  float64 `json:"fire_fraction"`
	SmokeFraction float64 `json:"smoke_fraction"`
}

// Analyze counts fire and smoke pixels in bm. An empty or nil bitmap yields
// zero fractions.
func Analyze(bm *imaging.Bitmap) Analysis {
	var a Analysis
	a.TotalPixels = bm.Len()
	if a.TotalPixels == 0 {
		return a
	}

	pix := bm.Pix
	for i := 0; i+2 < len(pix); i += 3 {
		r, g, b := pix[i], pix[i+1], pix[i+2]
		if FireBox.Contains(r, g, b) {
			a.FirePixels++
		}
		if SmokeBox.Contains(r, g, b) {
			a.SmokePixels++
		}
	}

	a.FireFraction = float64(a.FirePixels) / float64(a.TotalPixels)
	a.SmokeFraction = float64(a.SmokePixels) / float64(a.TotalPixels)
	return a
}

// Result derives the status and confidence from the fractions.
func (a Analysis) Result() types.ClassificationResult {
	var (
		status     types.SafetyStatus
		confidence float64
	)
	if a.FireFraction > FireThreshold || a.SmokeFraction > SmokeThreshold {
		status = types.StatusUnsafe
		confidence = max(a.FireFraction*fireGain, a.SmokeFraction*smokeGain)
	} else {
		status = types.StatusSafe
		confidence = max(a.FireFraction, a.SmokeFraction)
	}

	return types.ClassificationResult{
		Status:     status,
		Confidence: min(max(confidence, 0), 1),
	}
}

// Classify analyses bm and returns its classification.
func Classify(bm *imaging.Bitmap) types.ClassificationResult {
	return Analyze(bm).Result()
}

// Classifier exposes Classify behind a value so callers can depend on an
// interface and substitute it in tests.
type Classifier struct{}

// NewClassifier returns the colour-threshold classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify implements the handler-facing classifier contract.
func (c *Classifier) Classify(bm *imaging.Bitmap) types.ClassificationResult {
	return Classify(bm)
}

// Analyze returns the raw counts for bm.
func (c *Classifier) Analyze(bm *imaging.Bitmap) Analysis {
	return Analyze(bm)
}
