package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadTableMissingFile(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}

func TestReadTableEmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.csv", []byte("   \n"))
	_, err := ReadTable(path)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}

func TestReadTableUTF8(t *testing.T) {
	path := writeFile(t, t.TempDir(), "data.csv", []byte("id,amount\nTXN1, 100 \nTXN2,200\n"))
	tb, err := ReadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(tb.Rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(tb.Rows))
	}
	if tb.Rows[0]["amount"] != "100" {
		t.Errorf("cells must be trimmed, got %q", tb.Rows[0]["amount"])
	}
}

func TestReadTableLatin1Fallback(t *testing.T) {
	// 0xE9 is é in latin-1 and invalid as a standalone UTF-8 byte.
	content := []byte("id,city\nTXN1,Montr\xe9al\n")
	path := writeFile(t, t.TempDir(), "latin.csv", content)
	tb, err := ReadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := tb.Rows[0]["city"]; got != "Montréal" {
		t.Errorf("latin-1 decode: got %q", got)
	}
}

func TestReadTableBlankHeadersAndRows(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ragged.csv", []byte("id,,amount\nTXN1,x,5\n,,\nTXN2,y\n"))
	tb, err := ReadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if !tb.HasColumn("Col1") {
		t.Errorf("blank header should become positional name, headers=%v", tb.Headers)
	}
	if len(tb.Rows) != 2 {
		t.Errorf("fully blank rows must be dropped, got %d rows", len(tb.Rows))
	}
	if tb.Rows[1]["amount"] != "" {
		t.Errorf("short row should pad missing cells with empty string")
	}
}

func TestTableColumn(t *testing.T) {
	tb := &Table{
		Headers: []string{"a"},
		Rows:    []map[string]string{{"a": "1"}, {"a": "2"}},
	}
	got := tb.Column("a")
	if len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Errorf("Column = %v", got)
	}
	if missing := tb.Column("b"); missing[0] != "" {
		t.Errorf("missing column should yield empty strings")
	}
}
