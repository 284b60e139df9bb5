package reconcile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// WriteCSV renders the wide table in the persisted CSV contract: a
// Report_Date column, quarter columns in chronological order, and a trailing
// Confidence column. Missing cells render as empty strings and confidence is
// printed with one decimal. Output is byte-identical for identical input.
func (t *WideTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(t.Quarters)+2)
	header = append(header, "Report_Date")
	header = append(header, t.Quarters...)
	header = append(header, "Confidence")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range t.Rows {
		record := make([]string, 0, len(header))
		record = append(record, row.ReportDate)
		for _, q := range t.Quarters {
			record = append(record, row.Cells[q])
		}
		record = append(record, strconv.FormatFloat(row.Confidence, 'f', 1, 64))
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the table to a file.
func (t *WideTable) SaveCSV(path string) error {
	var buf strings.Builder
	if err := t.WriteCSV(&buf); err != nil {
		return fmt.Errorf("formatting wide table: %w", err)
	}
	if err := os.WriteFile(path, []byte(buf.String()), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
