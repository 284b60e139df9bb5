package snapshot

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"
)

// Report image filenames start with the date as YYYYMMDD, optionally followed
// by a page suffix (e.g. 20161209-6.png).
var reportDatePattern = regexp.MustCompile(`^(\d{8})`)

// ReportDateFromFilename derives the ISO report date from an image filename.
// A parse failure is fatal for that image only; callers log and skip.
func ReportDateFromFilename(name string) (string, error) {
	base := filepath.Base(name)
	m := reportDatePattern.FindStringSubmatch(base)
	if m == nil {
		return "", fmt.Errorf("no report date in filename %q", base)
	}

	t, err := time.Parse("20060102", m[1])
	if err != nil {
		return "", fmt.Errorf("invalid report date in filename %q: %w", base, err)
	}
	return t.Format("2006-01-02"), nil
}
