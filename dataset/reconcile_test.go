package dataset

import (
	"errors"
	"testing"
)

func TestReconcileRenames(t *testing.T) {
	tb := &Table{
		Headers: []string{"axis_payout_created", "txn_status_name", "amount"},
		Rows: []map[string]string{
			{"axis_payout_created": "2024-05-31", "txn_status_name": "SETTLED", "amount": "10"},
		},
	}
	em := EntityMapping{
		DateColumn: "transaction_time",
		Renames: map[string]string{
			"axis_payout_created": "transaction_time",
			"txn_status_name":     "status",
		},
	}
	if err := Reconcile(tb, em); err != nil {
		t.Fatal(err)
	}
	if !tb.HasColumn("transaction_time") || !tb.HasColumn("status") {
		t.Fatalf("headers not renamed: %v", tb.Headers)
	}
	row := tb.Rows[0]
	if row["transaction_time"] != "2024-05-31" || row["status"] != "SETTLED" {
		t.Errorf("row keys not renamed: %v", row)
	}
	if _, ok := row["axis_payout_created"]; ok {
		t.Errorf("source key should be removed after rename")
	}
	if row["amount"] != "10" {
		t.Errorf("untouched column lost: %v", row)
	}
}

func TestReconcileDoesNotClobberExisting(t *testing.T) {
	tb := &Table{
		Headers: []string{"status", "txn_status_name"},
		Rows: []map[string]string{
			{"status": "Success", "txn_status_name": "FAILED"},
		},
	}
	em := EntityMapping{
		DateColumn: "status",
		Renames:    map[string]string{"txn_status_name": "status"},
	}
	if err := Reconcile(tb, em); err != nil {
		t.Fatal(err)
	}
	if tb.Rows[0]["status"] != "Success" {
		t.Errorf("existing canonical value overwritten: %v", tb.Rows[0])
	}
}

func TestReconcileMissingAnchor(t *testing.T) {
	tb := &Table{Headers: []string{"amount"}, Rows: []map[string]string{{"amount": "5"}}}
	em := EntityMapping{DateColumn: "transaction_time"}
	err := Reconcile(tb, em)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}
