package dataset

import (
	"testing"
	"time"
)

func tableWithDates(vals ...string) *Table {
	rows := make([]map[string]string, len(vals))
	for i, v := range vals {
		rows[i] = map[string]string{"transaction_time": v, "id": string(rune('a' + i))}
	}
	return &Table{Headers: []string{"id", "transaction_time"}, Rows: rows}
}

func TestResolveTimestampsInference(t *testing.T) {
	tb := tableWithDates("2024-05-31 14:05:00", "2024-06-01")
	times := ResolveTimestamps(tb, "transaction_time")
	if len(times) != 2 {
		t.Fatalf("want 2 resolved, got %d", len(times))
	}
	want := time.Date(2024, 5, 31, 14, 5, 0, 0, time.UTC)
	if !times[0].Equal(want) {
		t.Errorf("got %v, want %v", times[0], want)
	}
}

func TestResolveTimestampsFallbackLadder(t *testing.T) {
	// None of these match the inference layouts, so the explicit ladder
	// runs. Slash dates read month-first per ladder order.
	tb := tableWithDates("1/5/2024", "12/25/2024")
	times := ResolveTimestamps(tb, "transaction_time")
	if len(times) != 2 {
		t.Fatalf("want 2 resolved, got %d", len(times))
	}
	if times[0].Month() != time.January || times[0].Day() != 5 {
		t.Errorf("1/5/2024 should parse month-first, got %v", times[0])
	}
	if times[1].Month() != time.December {
		t.Errorf("12/25/2024: got %v", times[1])
	}
}

func TestResolveTimestampsInferenceDisablesLadder(t *testing.T) {
	// One row resolves via inference, so the ladder never runs and the
	// slash-format row is dropped.
	tb := tableWithDates("2024-05-31", "1/5/2024")
	times := ResolveTimestamps(tb, "transaction_time")
	if len(times) != 1 {
		t.Fatalf("want 1 resolved, got %d", len(times))
	}
	if len(tb.Rows) != 1 {
		t.Errorf("unresolved rows must be dropped from the table, have %d", len(tb.Rows))
	}
}

func TestResolveTimestampsDropsGarbage(t *testing.T) {
	tb := tableWithDates("not a date", "2024-02-10", "also garbage")
	times := ResolveTimestamps(tb, "transaction_time")
	if len(times) != 1 || len(tb.Rows) != 1 {
		t.Fatalf("want 1 surviving row, got %d times / %d rows", len(times), len(tb.Rows))
	}
	if tb.Rows[0]["transaction_time"] != "2024-02-10" {
		t.Errorf("wrong row survived: %v", tb.Rows[0])
	}
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2024, 5, 31, 23, 45, 12, 0, time.UTC)
	want := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	if got := DateOf(ts); !got.Equal(want) {
		t.Errorf("DateOf = %v, want %v", got, want)
	}
}
