package analytics

import (
	"strings"
	"testing"
	"time"

	"merchantpulse/backend/dataset"
	"merchantpulse/backend/models"
)

var day = time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)

func txn(id string, amount float64, status models.TxnStatus, date time.Time, method string) models.Transaction {
	return models.Transaction{
		TransactionID:   id,
		CustomerID:      "CUST" + id,
		Amount:          amount,
		PaymentMethod:   method,
		Status:          status,
		TransactionTime: date.Add(12 * time.Hour),
		TransactionDate: date,
	}
}

func TestTotalReceivedOn(t *testing.T) {
	s := &dataset.Snapshot{Transactions: []models.Transaction{
		txn("1", 100, models.TxnSuccess, day, "UPI"),
		txn("2", 250.50, models.TxnSuccess, day, "UPI"),
		txn("3", 999, models.TxnFailed, day, "UPI"),
		txn("4", 500, models.TxnSuccess, day.AddDate(0, 0, -1), "UPI"),
	}}
	if got := TotalReceivedOn(s, day); got != 350.50 {
		t.Errorf("TotalReceivedOn = %v, want 350.50", got)
	}
	if got := TotalReceivedOn(s, day.AddDate(0, 0, 5)); got != 0 {
		t.Errorf("no matches must be zero, got %v", got)
	}
}

func TestTotalReceivedBetween(t *testing.T) {
	s := &dataset.Snapshot{Transactions: []models.Transaction{
		txn("1", 100, models.TxnSuccess, day.AddDate(0, 0, -3), "UPI"),
		txn("2", 200, models.TxnSuccess, day, "UPI"),
		txn("3", 400, models.TxnSuccess, day.AddDate(0, 0, 2), "UPI"),
	}}
	got := TotalReceivedBetween(s, day.AddDate(0, 0, -3), day)
	if got != 300 {
		t.Errorf("TotalReceivedBetween = %v, want 300", got)
	}
}

func TestRefundsOn(t *testing.T) {
	s := &dataset.Snapshot{Refunds: []models.Refund{
		{RefundID: "R1", Amount: 100, RefundDate: day, Status: models.RefundCompleted},
		{RefundID: "R2", Amount: 50, RefundDate: day, Status: models.RefundFailed},
		{RefundID: "R3", Amount: 75, RefundDate: day, Status: models.RefundCompleted},
	}}
	count, amount := RefundsOn(s, day)
	if count != 2 || amount != 175 {
		t.Errorf("RefundsOn = (%d, %v), want (2, 175)", count, amount)
	}
}

func TestPaymentMethodPerformance(t *testing.T) {
	s := &dataset.Snapshot{Transactions: []models.Transaction{
		txn("1", 100, models.TxnSuccess, day, "UPI"),
		txn("2", 900, models.TxnSuccess, day, "Credit Card"),
		txn("3", 300, models.TxnSuccess, day.AddDate(0, 0, -2), "UPI"),
		txn("4", 5000, models.TxnFailed, day, "Wallet"),
	}}
	perf := PaymentMethodPerformance(s, PeriodWeek, day)
	if len(perf) != 2 {
		t.Fatalf("want 2 methods, got %d", len(perf))
	}
	if perf[0].Method != "Credit Card" || perf[0].TotalAmount != 900 {
		t.Errorf("top method = %+v", perf[0])
	}
	if perf[1].Method != "UPI" || perf[1].Count != 2 || perf[1].AvgValue != 200 {
		t.Errorf("second method = %+v", perf[1])
	}
}

func TestPaymentMethodPerformanceEmpty(t *testing.T) {
	perf := PaymentMethodPerformance(&dataset.Snapshot{}, PeriodWeek, day)
	if len(perf) != 0 {
		t.Errorf("empty snapshot must yield empty slice, got %v", perf)
	}
}

func TestSuccessRate(t *testing.T) {
	if _, ok := SuccessRate(&dataset.Snapshot{}); ok {
		t.Error("empty snapshot must report ok=false")
	}
	s := &dataset.Snapshot{Transactions: []models.Transaction{
		txn("1", 1, models.TxnSuccess, day, "UPI"),
		txn("2", 1, models.TxnSuccess, day, "UPI"),
		txn("3", 1, models.TxnSuccess, day, "UPI"),
		txn("4", 1, models.TxnFailed, day, "UPI"),
	}}
	rate, ok := SuccessRate(s)
	if !ok || rate != 75 {
		t.Errorf("SuccessRate = (%v, %v), want (75, true)", rate, ok)
	}
}

func TestRefundSpikeRootCauseGatewayTimeouts(t *testing.T) {
	gatewayTxn := txn("G1", 1000, models.TxnFailed, day.AddDate(0, 0, -2), "UPI")
	gatewayTxn.GatewayTimeout = true
	gatewayTxn.TransactionTime = day.AddDate(0, 0, -2).Add(15 * time.Hour)

	s := &dataset.Snapshot{
		Transactions: []models.Transaction{gatewayTxn},
		Refunds: []models.Refund{
			{RefundID: "R1", TransactionID: "G1", Amount: 100, RefundDate: day,
				Reason: "Technical error - previous gateway issue", Status: models.RefundCompleted},
			{RefundID: "R2", TransactionID: "G1", Amount: 100, RefundDate: day,
				Reason: "Technical error - previous gateway issue", Status: models.RefundCompleted},
			{RefundID: "R3", TransactionID: "X", Amount: 50, RefundDate: day,
				Reason: "Customer request", Status: models.RefundCompleted},
		},
	}
	msg := RefundSpikeRootCause(s, day)
	if !strings.Contains(msg, "**'Technical error - previous gateway issue'**") {
		t.Errorf("modal reason missing: %s", msg)
	}
	if !strings.Contains(msg, "**payment gateway timeouts**") {
		t.Errorf("gateway linkage missing: %s", msg)
	}
	if !strings.Contains(msg, "**15:00** (24-hour format)") {
		t.Errorf("peak hour missing: %s", msg)
	}
}

func TestRefundSpikeRootCauseNoActivity(t *testing.T) {
	s := &dataset.Snapshot{Refunds: []models.Refund{
		{RefundID: "R1", Amount: 10, RefundDate: day.AddDate(0, 0, -5), Status: models.RefundCompleted},
	}}
	msg := RefundSpikeRootCause(s, day)
	if !strings.Contains(msg, "No significant completed refund activity") {
		t.Errorf("got %s", msg)
	}
}

func TestRefundSpikeRootCauseNoData(t *testing.T) {
	msg := RefundSpikeRootCause(&dataset.Snapshot{}, day)
	if !strings.Contains(msg, "No refund data available") {
		t.Errorf("got %s", msg)
	}
}

func TestMoneyFormatting(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{999.5, "999.50"},
		{1234.56, "1,234.56"},
		{1234567.89, "1,234,567.89"},
	}
	for _, c := range cases {
		if got := Money(c.in); got != c.want {
			t.Errorf("Money(%v) = %q, want %q", c.in, got, c.want)
		}
	}
	if got := Count(1234567); got != "1,234,567" {
		t.Errorf("Count = %q", got)
	}
}
