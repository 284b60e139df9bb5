package matcher

import (
	"regexp"
	"strconv"
	"strings"
)

// Quarter label patterns after noise stripping. The apostrophe-less variant
// (Q114) shows up when OCR drops the tick mark.
var (
	quarterPattern      = regexp.MustCompile(`Q([1-4])'(\d{2})`)
	quarterShortPattern = regexp.MustCompile(`^Q([1-4])(\d{2})$`)
)

// ExtractQuarter reports whether the text is a fiscal quarter label and
// returns the normalized form Q{n}'{yy}. OCR noise (stray punctuation,
// lowercase) is stripped before matching.
func ExtractQuarter(text string) (string, bool) {
	cleaned := stripQuarterNoise(text)
	if m := quarterPattern.FindStringSubmatch(cleaned); m != nil {
		return "Q" + m[1] + "'" + m[2], true
	}
	if m := quarterShortPattern.FindStringSubmatch(cleaned); m != nil {
		return "Q" + m[1] + "'" + m[2], true
	}
	return "", false
}

// stripQuarterNoise uppercases the text and drops everything that cannot be
// part of a quarter label.
func stripQuarterNoise(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - ('a' - 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '\'':
			return r
		default:
			return -1
		}
	}, text)
}

// QuarterSortKey converts a quarter column name into a (year, quarter) pair
// for chronological ordering. Two-digit years map to 2000+yy; this dataset
// never spans pre-2000 report dates. Unparsable names return the (0, 0)
// sentinel so they sort first.
func QuarterSortKey(quarter string) (int, int) {
	m := quarterPattern.FindStringSubmatch(quarter)
	if m == nil {
		m = quarterShortPattern.FindStringSubmatch(strings.TrimSpace(quarter))
	}
	if m == nil {
		return 0, 0
	}
	q, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0
	}
	yy, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0
	}
	return 2000 + yy, q
}

// LessQuarter orders quarter column names chronologically, falling back to
// lexical order for equal keys so the result is deterministic.
func LessQuarter(a, b string) bool {
	ay, aq := QuarterSortKey(a)
	by, bq := QuarterSortKey(b)
	if ay != by {
		return ay < by
	}
	if aq != bq {
		return aq < bq
	}
	return a < b
}
