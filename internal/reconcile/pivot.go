// Package reconcile folds dated long-format snapshots into one wide table:
// one row per report date, one column per fiscal quarter, plus a composite
// confidence score per row.
package reconcile

import (
	"sort"
	"strconv"
	"strings"

	"github.com/seung-gu/factset-data-collector/internal/classifier"
	"github.com/seung-gu/factset-data-collector/internal/matcher"
	"github.com/seung-gu/factset-data-collector/internal/snapshot"
)

// WideRow is one report date's pivoted readings. Cells map quarter column
// names to rendered EPS strings; missing quarters have no entry and render
// as empty cells.
type WideRow struct {
	ReportDate string
	Cells      map[string]string
	Confidence float64
}

// WideTable is the pivoted snapshot table. Quarters holds the column names
// in chronological order; Rows are sorted by report date.
type WideTable struct {
	Quarters []string
	Rows     []WideRow
}

// Pivot converts long-format records into the wide table. Estimate marking
// happens first: a value whose bar was classified light carries a trailing
// "*". Cell collisions (duplicate quarters within one snapshot) resolve to
// the first occurring value, matching the matcher's no-dedup policy; the
// incoming row order therefore decides precedence.
func Pivot(records []snapshot.Record) *WideTable {
	cells := make(map[string]map[string]string)
	quarterSet := make(map[string]struct{})
	byDate := make(map[string][]snapshot.Record)
	var dates []string

	for _, r := range records {
		row, ok := cells[r.ReportDate]
		if !ok {
			row = make(map[string]string)
			cells[r.ReportDate] = row
			dates = append(dates, r.ReportDate)
		}
		if _, exists := row[r.Quarter]; !exists { // first value wins
			row[r.Quarter] = MarkEPS(r.EPS, r.BarColor)
		}
		quarterSet[r.Quarter] = struct{}{}
		byDate[r.ReportDate] = append(byDate[r.ReportDate], r)
	}

	// ISO dates sort chronologically as strings.
	sort.Strings(dates)

	quarters := make([]string, 0, len(quarterSet))
	for q := range quarterSet {
		quarters = append(quarters, q)
	}
	sort.Slice(quarters, func(i, j int) bool {
		return matcher.LessQuarter(quarters[i], quarters[j])
	})

	rows := make([]WideRow, 0, len(dates))
	for i, date := range dates {
		var previous []snapshot.Record
		if i > 0 {
			previous = byDate[dates[i-1]]
		}
		rows = append(rows, WideRow{
			ReportDate: date,
			Cells:      cells[date],
			Confidence: rowConfidence(byDate[date], previous, i == 0),
		})
	}

	return &WideTable{Quarters: quarters, Rows: rows}
}

// MarkEPS renders an EPS value as a cell string. Light bars are forward
// estimates and carry the "*" suffix, the sole persisted marker of
// estimate-vs-actual once pivoted.
func MarkEPS(eps float64, barColor string) string {
	s := formatEPS(eps)
	if barColor == string(classifier.ShadeLight) {
		return s + "*"
	}
	return s
}

// formatEPS renders a value with at least one decimal place, so whole
// numbers read "4.0" rather than "4" and week-over-week CSV diffs stay
// stable.
func formatEPS(eps float64) string {
	s := strconv.FormatFloat(eps, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// ParseCell parses a wide-table cell back into its EPS value and estimate
// flag. Empty or malformed cells return ok=false.
func ParseCell(cell string) (eps float64, estimate, ok bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false, false
	}
	estimate = strings.HasSuffix(s, "*")
	s = strings.TrimSuffix(s, "*")

	eps, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, false
	}
	return eps, estimate, true
}
