package models

import "testing"

func TestClassifyTxnStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want TxnStatus
	}{
		{"SUCCESS", TxnSuccess},
		{"success", TxnSuccess},
		{"SETTLED", TxnSuccess},
		{"Payment Completed", TxnSuccess},
		{"CAPTURED", TxnSuccess},
		{"AUTH_CAPTURED_OK", TxnSuccess},
		{"FAILED", TxnFailed},
		{"Txn Declined by bank", TxnFailed},
		{"IN_PROGRESS", TxnPending},
		{"", TxnPending},
		{"garbage", TxnPending},
	}
	for _, c := range cases {
		if got := ClassifyTxnStatus(c.raw); got != c.want {
			t.Errorf("ClassifyTxnStatus(%q) = %s, want %s", c.raw, got, c.want)
		}
	}
}

func TestClassifyRefundStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want RefundStatus
	}{
		{"COMPLETED", RefundCompleted},
		{"refund success", RefundCompleted},
		{"REFUNDED", RefundCompleted},
		{"FAILED", RefundFailed},
		{"DECLINED", RefundFailed},
		{"processing", RefundPending},
		{"", RefundPending},
	}
	for _, c := range cases {
		if got := ClassifyRefundStatus(c.raw); got != c.want {
			t.Errorf("ClassifyRefundStatus(%q) = %s, want %s", c.raw, got, c.want)
		}
	}
}
