package reconcile

import (
	"math"

	"github.com/seung-gu/factset-data-collector/internal/classifier"
	"github.com/seung-gu/factset-data-collector/internal/snapshot"
)

// Per-bar confidence tiers translate to scores out of 100; bars that were
// never classified contribute 0.
const (
	scoreHigh   = 100.0
	scoreMedium = 67.0
	scoreLow    = 33.0
)

const (
	// consistencyTolerance is the relative EPS deviation accepted as a
	// week-over-week match for actuals.
	consistencyTolerance = 0.2
	// consistencyFloor bounds the comparison denominator away from zero.
	consistencyFloor = 0.01
)

// rowConfidence blends classification agreement with week-over-week
// consistency, equally weighted, rounded to one decimal.
func rowConfidence(current, previous []snapshot.Record, earliest bool) float64 {
	bar := barScore(current)

	var consistency float64
	if earliest {
		// Absence of history is not inconsistency.
		consistency = 100
	} else {
		consistency = consistencyScore(current, previous)
	}

	return math.Round((0.5*bar+0.5*consistency)*10) / 10
}

// barScore averages the per-bar classification confidence over a snapshot.
func barScore(records []snapshot.Record) float64 {
	if len(records) == 0 {
		return 0
	}

	var sum float64
	for _, r := range records {
		switch classifier.Confidence(r.BarConfidence) {
		case classifier.ConfidenceHigh:
			sum += scoreHigh
		case classifier.ConfidenceMedium:
			sum += scoreMedium
		case classifier.ConfidenceLow:
			sum += scoreLow
		}
	}
	return sum / float64(len(records))
}

// consistencyScore compares a snapshot's actual (dark) bars against the
// chronologically previous snapshot's actuals for matching quarters. With
// history present but no comparable quarters the data is untestable and the
// score is 0, unlike the earliest-date case.
func consistencyScore(current, previous []snapshot.Record) float64 {
	previousActuals := make(map[string]float64)
	for _, r := range previous {
		if r.BarColor != string(classifier.ShadeDark) {
			continue
		}
		if _, exists := previousActuals[r.Quarter]; !exists {
			previousActuals[r.Quarter] = r.EPS
		}
	}

	matches, comparisons := 0, 0
	for _, r := range current {
		if r.BarColor != string(classifier.ShadeDark) {
			continue
		}
		previousEPS, ok := previousActuals[r.Quarter]
		if !ok {
			continue
		}
		comparisons++

		denominator := math.Max(math.Abs(previousEPS), consistencyFloor)
		if math.Abs(r.EPS-previousEPS)/denominator <= consistencyTolerance {
			matches++
		}
	}

	if comparisons == 0 {
		return 0
	}
	return 100 * float64(matches) / float64(comparisons)
}
