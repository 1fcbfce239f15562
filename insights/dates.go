package insights

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Literal date patterns tried in priority order; the first pattern that
// matches and parses wins. Slash dates are read month-first with a
// day-first retry, dash dates the other way around.
var datePatterns = []struct {
	re      *regexp.Regexp
	layouts []string
}{
	{regexp.MustCompile(`\d{4}-\d{2}-\d{2}`), []string{"2006-01-02"}},
	{regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`), []string{"1/2/2006", "2/1/2006"}},
	{regexp.MustCompile(`\d{1,2}-\d{1,2}-\d{4}`), []string{"2-1-2006", "1-2-2006"}},
}

// ExtractDate pulls an explicit literal date out of free text.
func ExtractDate(q string) (time.Time, bool) {
	for _, p := range datePatterns {
		m := p.re.FindString(q)
		if m == "" {
			continue
		}
		for _, layout := range p.layouts {
			if d, err := time.ParseInLocation(layout, m, time.UTC); err == nil {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

var monthRe = regexp.MustCompile(`(january|february|march|april|may|june|july|august|september|october|november|december)(?:\s+(?:month|sales|payments))?(?:\s+in)?\s*(\d{4})?`)

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// ExtractMonth finds a month name plus an optional year. year is 0 when
// the query names no year; the caller picks a default.
func ExtractMonth(q string) (time.Month, int, bool) {
	m := monthRe.FindStringSubmatch(strings.ToLower(q))
	if m == nil {
		return 0, 0, false
	}
	month := monthsByName[m[1]]
	year := 0
	if m[2] != "" {
		if y, err := strconv.Atoi(m[2]); err == nil {
			year = y
		}
	}
	return month, year, true
}
