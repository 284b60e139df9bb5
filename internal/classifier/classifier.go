// Package classifier decides whether each matched bar is dark (reported
// actual) or light (forward estimate) by sampling pixel intensity in the bar
// region between the value label and the quarter label. A single thresholding
// heuristic is unreliable against JPEG artifacts and anti-aliased chart
// fills, so three independent methods vote.
package classifier

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/seung-gu/factset-data-collector/internal/matcher"
)

// Method names recorded per bar for auditability.
const (
	MethodAdaptive = "adaptive"
	MethodClosing  = "closing"
	MethodOtsuInv  = "otsu_inv"
)

// Config holds the bar sampling and binarization parameters.
type Config struct {
	// BarWidth is the fixed horizontal extent of the sampled bar region.
	BarWidth int
	// AdaptiveWindow is the local-mean window size for adaptive binarization.
	AdaptiveWindow int
	// AdaptiveBias is subtracted from the local mean before comparison.
	AdaptiveBias float64
	// KernelSize is the structuring-element size for morphological closing.
	KernelSize int
	// ForegroundThreshold is the ink fraction above which a method calls dark.
	ForegroundThreshold float64
	// SingleMethod restricts classification to the closing method only.
	// Agreement of one method is weak evidence, so confidence caps at medium.
	SingleMethod bool
}

// DefaultConfig returns the sampling parameters tuned for FactSet charts.
func DefaultConfig() Config {
	return Config{
		BarWidth:            30,
		AdaptiveWindow:      11,
		AdaptiveBias:        2,
		KernelSize:          3,
		ForegroundThreshold: 0.5,
		SingleMethod:        false,
	}
}

// Bar is a matched pair extended with its shade classification. Values are
// derived once per image and never mutated afterwards.
type Bar struct {
	matcher.Pair

	Shade      Shade
	Confidence Confidence
	Votes      map[Shade]int
	Methods    map[string]Shade
}

// BarRegion computes the sampled rectangle for a pair: horizontally centered
// between the quarter and number label centers with fixed width, vertically
// spanning from just below the value label to just above the quarter label
// (the bar body sits between the two). The result is clamped to the image
// bounds; degenerate label geometry yields an empty rectangle.
func BarRegion(bounds image.Rectangle, p matcher.Pair, barWidth int) image.Rectangle {
	centerX := (p.QuarterBox.CenterX() + p.NumberBox.CenterX()) / 2
	x0 := int(centerX) - barWidth/2

	region := image.Rectangle{
		Min: image.Pt(x0, int(p.NumberBox.Bottom())),
		Max: image.Pt(x0+barWidth, int(p.QuarterBox.Top)),
	}
	return region.Intersect(bounds)
}

// ClassifyBars classifies every matched pair against the chart image. Pairs
// whose bar region crops to nothing are skipped, not errored: degenerate or
// overlapping label boxes are a per-pair condition and must not abort the
// image.
func ClassifyBars(img image.Image, pairs []matcher.Pair, cfg Config) []Bar {
	bars := make([]Bar, 0, len(pairs))
	for _, pair := range pairs {
		bar, ok := classifyBar(img, pair, cfg)
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}
	return bars
}

func classifyBar(img image.Image, pair matcher.Pair, cfg Config) (Bar, bool) {
	region := BarRegion(img.Bounds(), pair, cfg.BarWidth)
	if region.Empty() {
		return Bar{}, false
	}

	crop := imaging.Crop(img, region)
	pix, width, height := grayBytes(crop)
	if len(pix) == 0 {
		return Bar{}, false
	}

	calls := map[string]Shade{
		MethodClosing: shadeFromFraction(inkFraction(closeMask(otsuInkMask(pix), width, height, cfg.KernelSize)), cfg),
	}
	if !cfg.SingleMethod {
		calls[MethodAdaptive] = shadeFromFraction(
			inkFraction(adaptiveInkMask(pix, width, height, cfg.AdaptiveWindow, cfg.AdaptiveBias)), cfg)
		calls[MethodOtsuInv] = shadeFromFraction(1-inkFraction(invertedOtsuInkMask(pix)), cfg)
	}

	shade, confidence, votes := MajorityVote(calls)
	if cfg.SingleMethod && confidence == ConfidenceHigh {
		confidence = ConfidenceMedium
	}

	return Bar{
		Pair:       pair,
		Shade:      shade,
		Confidence: confidence,
		Votes:      votes,
		Methods:    calls,
	}, true
}

// shadeFromFraction maps an ink fraction to a shade call.
func shadeFromFraction(fraction float64, cfg Config) Shade {
	if fraction > cfg.ForegroundThreshold {
		return ShadeDark
	}
	return ShadeLight
}
