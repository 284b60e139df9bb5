// Package matcher pairs fiscal-quarter axis labels with their nearest numeric
// EPS labels using box geometry from OCR output.
package matcher

import (
	"math"
	"strconv"
	"strings"

	"github.com/seung-gu/factset-data-collector/internal/ocr"
)

// Config holds the geometric tolerances for quarter/number pairing. The
// defaults are tuned against the FactSet earnings chart layout; other chart
// formats can recalibrate through configuration instead of code changes.
type Config struct {
	// BottomFraction is the fraction of the chart's vertical box extent,
	// measured from the bottom, in which quarter axis labels are expected.
	BottomFraction float64
	// YTolerance is the vertical window around a quarter label within which
	// numeric candidates are considered. Generous on purpose: the value
	// label sits well above the label row, at the top of the bar.
	YTolerance float64
	// XTolerance is the horizontal band around the quarter label's center;
	// a bar's value label is printed in the same column as its axis label.
	XTolerance float64
}

// DefaultConfig returns the pairing tolerances for the FactSet chart layout.
func DefaultConfig() Config {
	return Config{
		BottomFraction: 0.3,
		YTolerance:     1000,
		XTolerance:     10,
	}
}

// Label is a text box recognized as a quarter axis label.
type Label struct {
	Quarter string
	Box     ocr.TextBox
}

// Pair links one quarter axis label with its nearest numeric label. Each
// quarter box maps to exactly one number box; the same number box may be
// claimed by several quarters (resolved downstream by first-wins pivoting).
type Pair struct {
	Quarter    string
	EPS        float64
	QuarterBox ocr.TextBox
	NumberBox  ocr.TextBox
	Distance   float64
}

// FindQuarterLabels returns the boxes whose text matches the quarter pattern
// and which sit in the bottom region of the chart, where the axis labels
// live. The restriction avoids false positives from in-chart text.
func FindQuarterLabels(boxes []ocr.TextBox, bottomFraction float64) []Label {
	threshold := boxExtentBottom(boxes) * (1 - bottomFraction)

	var labels []Label
	for _, b := range boxes {
		quarter, ok := ExtractQuarter(b.Text)
		if !ok {
			continue
		}
		if b.Top < threshold {
			continue
		}
		labels = append(labels, Label{Quarter: quarter, Box: b})
	}
	return labels
}

// Match pairs every quarter label in the bottom region with its nearest
// numeric box. Quarter boxes without any candidate in range are dropped.
// The scan is deterministic: for a fixed input, the output is identical
// across runs, and distance ties keep the earliest candidate.
func Match(boxes []ocr.TextBox, cfg Config) []Pair {
	labels := FindQuarterLabels(boxes, cfg.BottomFraction)

	pairs := make([]Pair, 0, len(labels))
	for _, label := range labels {
		number, ok := nearestNumber(label.Box, boxes, cfg)
		if !ok {
			continue
		}
		pairs = append(pairs, Pair{
			Quarter:    label.Quarter,
			EPS:        number.value,
			QuarterBox: label.Box,
			NumberBox:  number.box,
			Distance:   number.distance,
		})
	}
	return pairs
}

type numberCandidate struct {
	box      ocr.TextBox
	value    float64
	distance float64
}

// nearestNumber scans all boxes for the numeric candidate closest to the
// quarter box by Euclidean center distance, restricted to the configured
// vertical window and horizontal band. Per-image box counts are small (tens,
// not thousands), so a linear scan beats any spatial index here.
func nearestNumber(quarterBox ocr.TextBox, boxes []ocr.TextBox, cfg Config) (numberCandidate, bool) {
	var best numberCandidate
	found := false

	for _, b := range boxes {
		if b == quarterBox {
			continue
		}
		if _, isQuarter := ExtractQuarter(b.Text); isQuarter {
			continue
		}
		value, ok := ExtractNumber(b.Text)
		if !ok {
			continue
		}
		if math.Abs(b.Top-quarterBox.Top) > cfg.YTolerance {
			continue
		}
		if math.Abs(b.CenterX()-quarterBox.CenterX()) > cfg.XTolerance {
			continue
		}

		distance := centerDistance(quarterBox, b)
		if !found || distance < best.distance {
			best = numberCandidate{box: b, value: value, distance: distance}
			found = true
		}
	}

	return best, found
}

// centerDistance is the Euclidean distance between two box centers.
func centerDistance(a, b ocr.TextBox) float64 {
	dx := a.CenterX() - b.CenterX()
	dy := a.CenterY() - b.CenterY()
	return math.Sqrt(dx*dx + dy*dy)
}

// numberNoise strips symbols OCR commonly attaches to numeric labels.
var numberNoise = strings.NewReplacer(
	"$", "", "€", "", "£", "", "¥", "",
	"%", "", ",", "", "(", "", ")", "", " ", "", " ", "",
)

// ExtractNumber reports whether the text parses as a real number after
// stripping stray symbols. Quarter-looking text is rejected outright, and a
// parse failure means "not a candidate", never an error: header text and
// other non-numeric labels simply fall out of the candidate set.
func ExtractNumber(text string) (float64, bool) {
	if _, isQuarter := ExtractQuarter(text); isQuarter {
		return 0, false
	}

	cleaned := numberNoise.Replace(strings.TrimSpace(text))
	cleaned = strings.TrimRight(cleaned, ".:;")
	if cleaned == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// boxExtentBottom returns the lowest edge across all boxes, which stands in
// for the chart height when only OCR geometry is available.
func boxExtentBottom(boxes []ocr.TextBox) float64 {
	var maxY float64
	for _, b := range boxes {
		if bottom := b.Bottom(); bottom > maxY {
			maxY = bottom
		}
	}
	return maxY
}
