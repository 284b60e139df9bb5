// Package snapshot turns a single chart image into long-format EPS records
// tagged with the report date, and drives directories of weekly snapshots.
package snapshot

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
)

// Record is one extracted bar in long format: one row per (report date,
// quarter) reading. Values extracted from chart images are estimates by
// definition; BarColor refines that to actual (dark) vs estimate (light)
// when classification ran.
type Record struct {
	ReportDate    string  `csv:"report_date" json:"report_date"`
	Quarter       string  `csv:"quarter" json:"quarter"`
	EPS           float64 `csv:"eps" json:"eps"`
	IsEstimate    bool    `csv:"is_estimate" json:"is_estimate"`
	BarColor      string  `csv:"bar_color" json:"bar_color,omitempty"`
	BarConfidence string  `csv:"bar_confidence" json:"bar_confidence,omitempty"`
}

// WriteLongCSV writes records in long format, one bar per row. This is the
// audit trail kept alongside the pivoted wide table.
func WriteLongCSV(w io.Writer, records []Record) error {
	return gocsv.Marshal(&records, w)
}

// SaveLongCSV writes the long-format records to a file.
func SaveLongCSV(path string, records []Record) error {
	f, err := os.Create(path) //nolint:gosec // G304: user-provided output path is expected
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := WriteLongCSV(f, records); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadLongCSV reads a long-format record file written by WriteLongCSV.
func ReadLongCSV(r io.Reader, records *[]Record) error {
	return gocsv.Unmarshal(r, records)
}
