package dataset

import "fmt"

// Reconcile renames source columns to their canonical names in place.
// Unmatched source columns are left alone; extra columns are tolerated.
// A table whose temporal anchor is still missing afterwards is unusable as
// a whole: without it none of the time-series analytics mean anything, so
// the caller falls back to synthetic data rather than ingesting partially.
func Reconcile(t *Table, em EntityMapping) error {
	for i, h := range t.Headers {
		if canonical, ok := em.Renames[h]; ok {
			t.Headers[i] = canonical
		}
	}
	for _, row := range t.Rows {
		for src, canonical := range em.Renames {
			if src == canonical {
				continue
			}
			if v, ok := row[src]; ok {
				if _, taken := row[canonical]; !taken {
					row[canonical] = v
				}
				delete(row, src)
			}
		}
	}
	if !t.HasColumn(em.DateColumn) {
		return fmt.Errorf("%w: temporal anchor %q absent after reconciliation", ErrUnavailable, em.DateColumn)
	}
	return nil
}
