package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnavailable marks a source that is absent, unreadable or empty. It is
// distinct from a table that loaded fine but matched zero rows.
var ErrUnavailable = errors.New("source unavailable")

// Table is a raw, untyped tabular source: the header row plus one
// map[column]value per data row. Fully blank rows are dropped at read time.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Column values in row order; missing cells come back as "".
func (t *Table) Column(name string) []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[name]
	}
	return out
}

type sourceEncoding struct {
	name string
	dec  *encoding.Decoder
}

// Tried in priority order. UTF-8 first, then the single-byte encodings
// legacy gateway exports tend to arrive in.
func sourceEncodings() []sourceEncoding {
	return []sourceEncoding{
		{"utf-8", unicode.UTF8.NewDecoder()},
		{"latin-1", charmap.ISO8859_1.NewDecoder()},
		{"windows-1252", charmap.Windows1252.NewDecoder()},
	}
}

// ReadTable reads one tabular export. CSV content goes through the encoding
// ladder; XLSX is parsed directly since the container is encoding-neutral.
// Absent, unreadable and empty files all come back as ErrUnavailable so the
// caller can substitute synthetic data.
func ReadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, path)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrUnavailable, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" || ext == ".xls" {
		rows, err := readExcelRows(raw)
		if err != nil || len(rows) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, path)
		}
		return tableFromRows(rows), nil
	}

	for _, enc := range sourceEncodings() {
		content := raw
		if enc.name == "utf-8" {
			if !utf8.Valid(raw) {
				continue
			}
		} else {
			decoded, _, err := transform.Bytes(enc.dec, raw)
			if err != nil {
				continue
			}
			content = decoded
		}
		rows, err := readCSVRows(content)
		if err != nil || len(rows) == 0 {
			continue
		}
		return tableFromRows(rows), nil
	}
	return nil, fmt.Errorf("%w: %s not parseable with known encodings", ErrUnavailable, path)
}

func readCSVRows(content []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1 // allow ragged rows
	r.LazyQuotes = true
	return r.ReadAll()
}

func readExcelRows(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rs, err := f.Rows(sheets[0])
	if err != nil {
		return nil, err
	}
	rows := [][]string{}
	for rs.Next() {
		r, err := rs.Columns()
		if err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// tableFromRows treats the first row as the header. Blank header cells get a
// positional name so downstream renames stay well-defined.
func tableFromRows(rows [][]string) *Table {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = "Col" + strconv.Itoa(i)
		}
		headers[i] = h
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		m := make(map[string]string, len(headers))
		blank := true
		for j, h := range headers {
			var v string
			if j < len(row) {
				v = strings.TrimSpace(row[j])
			}
			if v != "" {
				blank = false
			}
			m[h] = v
		}
		if blank {
			continue
		}
		records = append(records, m)
	}
	return &Table{Headers: headers, Rows: records}
}
