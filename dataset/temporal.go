package dataset

import "time"

// Layouts tried per value during the inference pass. These cover the
// formats a well-behaved export would use.
var inferLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Explicit ladder applied only when inference resolves nothing at all.
// Order matters: a value matching several layouts resolves to the first.
var fallbackLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 3:04 PM",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"2-1-2006 15:04:05",
	"1/2/2006",
	"2-1-2006",
	"2006/1/2 15:04:05",
	"2006/1/2",
	"2/1/2006",
}

func parseAny(v string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if ts, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// ResolveTimestamps parses the temporal anchor column: inference first,
// then, only if every single row failed inference, the explicit ladder is
// walked format by format over the rows still unresolved, stopping early
// once all rows resolve. Rows that never resolve are dropped; the table is
// mutated to the survivors and the aligned timestamps are returned.
func ResolveTimestamps(t *Table, col string) []time.Time {
	parsed := make([]time.Time, len(t.Rows))
	resolved := make([]bool, len(t.Rows))
	anyResolved := false
	for i, row := range t.Rows {
		if ts, ok := parseAny(row[col], inferLayouts); ok {
			parsed[i] = ts
			resolved[i] = true
			anyResolved = true
		}
	}

	if !anyResolved {
		for _, layout := range fallbackLayouts {
			remaining := false
			for i, row := range t.Rows {
				if resolved[i] {
					continue
				}
				if ts, err := time.ParseInLocation(layout, row[col], time.UTC); err == nil {
					parsed[i] = ts
					resolved[i] = true
				} else {
					remaining = true
				}
			}
			if !remaining {
				break
			}
		}
	}

	keptRows := t.Rows[:0]
	times := make([]time.Time, 0, len(t.Rows))
	for i, row := range t.Rows {
		if !resolved[i] {
			continue
		}
		keptRows = append(keptRows, row)
		times = append(times, parsed[i])
	}
	t.Rows = keptRows
	return times
}

// DateOf truncates a timestamp to its UTC calendar day.
func DateOf(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}
