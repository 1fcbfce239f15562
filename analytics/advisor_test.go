package analytics

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"merchantpulse/backend/dataset"
	"merchantpulse/backend/models"
)

func fixedRng() *rand.Rand { return rand.New(rand.NewSource(1)) }

func TestEMIRecommendation(t *testing.T) {
	s := &dataset.Snapshot{Transactions: []models.Transaction{
		txn("1", 8000, models.TxnSuccess, day, "Credit Card"),
		txn("2", 12000, models.TxnSuccess, day, "Credit Card"),
		txn("3", 300, models.TxnSuccess, day, "UPI"),
	}}
	s.Transactions[0].ProductCategory = "Electronics"
	s.Transactions[1].ProductCategory = "Electronics"

	msg := EMIRecommendation(s, 5000, fixedRng())
	if !strings.Contains(msg, "EMI (Equated Monthly Installment) options for orders above ₹5,000.00") {
		t.Errorf("got %s", msg)
	}
	if !strings.Contains(msg, "Electronics") {
		t.Errorf("top category missing: %s", msg)
	}
}

func TestEMIRecommendationNoQualifying(t *testing.T) {
	s := &dataset.Snapshot{Transactions: []models.Transaction{
		txn("1", 300, models.TxnSuccess, day, "UPI"),
	}}
	msg := EMIRecommendation(s, 5000, fixedRng())
	if !strings.Contains(msg, "No high-value successful transactions") {
		t.Errorf("got %s", msg)
	}
}

func TestWeekendForecast(t *testing.T) {
	// 2024-06-14 is a Friday; the prior Saturdays carry volume.
	friday := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	lastSat := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	s := &dataset.Snapshot{Transactions: []models.Transaction{
		txn("1", 100, models.TxnSuccess, lastSat, "UPI"),
		txn("2", 100, models.TxnSuccess, lastSat.AddDate(0, 0, 1), "UPI"),
		txn("3", 100, models.TxnSuccess, lastSat.AddDate(0, 0, -7), "UPI"),
	}}
	msg := WeekendForecast(s, friday, fixedRng())
	if !strings.Contains(msg, "increase in transactions") {
		t.Errorf("got %s", msg)
	}
	if !strings.Contains(msg, "Jun 15 - Jun 16") {
		t.Errorf("upcoming weekend dates wrong: %s", msg)
	}
}

func TestWeekendForecastNoHistory(t *testing.T) {
	msg := WeekendForecast(&dataset.Snapshot{}, day, fixedRng())
	if !strings.Contains(msg, "Not enough historical weekend data") {
		t.Errorf("got %s", msg)
	}
}

func TestSuccessRateBenchmark(t *testing.T) {
	s := &dataset.Snapshot{Transactions: []models.Transaction{
		txn("1", 1, models.TxnSuccess, day, "UPI"),
	}}
	msg := SuccessRateBenchmark(s, fixedRng())
	// 100% is always above the 82-88 industry band
	if !strings.Contains(msg, "**100.00%**") || !strings.Contains(msg, "above the industry average") {
		t.Errorf("got %s", msg)
	}

	allFailed := &dataset.Snapshot{Transactions: []models.Transaction{
		txn("1", 1, models.TxnFailed, day, "UPI"),
	}}
	msg = SuccessRateBenchmark(allFailed, fixedRng())
	if !strings.Contains(msg, "below the industry average") {
		t.Errorf("got %s", msg)
	}
}

func TestVolumeDeviation(t *testing.T) {
	// 30-day average of 10/day, today far above it
	txns := []models.Transaction{}
	for i := 1; i <= 5; i++ {
		d := day.AddDate(0, 0, -i)
		for j := 0; j < 10; j++ {
			txns = append(txns, txn(d.Format("02")+string(rune('a'+j)), 100, models.TxnSuccess, d, "UPI"))
		}
	}
	for j := 0; j < 20; j++ {
		txns = append(txns, txn("today"+string(rune('a'+j)), 100, models.TxnSuccess, day, "UPI"))
	}
	s := &dataset.Snapshot{Transactions: txns}

	alert := VolumeDeviation(s, day)
	if alert == nil || alert.Title != "Unusual High Transaction Volume Today!" {
		t.Fatalf("got %+v", alert)
	}
	if !strings.Contains(alert.Description, "**100.00% higher**") {
		t.Errorf("got %s", alert.Description)
	}
}

func TestVolumeDeviationDrop(t *testing.T) {
	txns := []models.Transaction{}
	for i := 1; i <= 5; i++ {
		d := day.AddDate(0, 0, -i)
		for j := 0; j < 10; j++ {
			txns = append(txns, txn(d.Format("02")+string(rune('a'+j)), 100, models.TxnSuccess, d, "UPI"))
		}
	}
	txns = append(txns, txn("only", 100, models.TxnSuccess, day, "UPI"))
	s := &dataset.Snapshot{Transactions: txns}

	alert := VolumeDeviation(s, day)
	if alert == nil || alert.Title != "Significant Drop in Transaction Volume Today!" {
		t.Fatalf("got %+v", alert)
	}
}

func TestVolumeDeviationQuiet(t *testing.T) {
	if alert := VolumeDeviation(&dataset.Snapshot{}, day); alert != nil {
		t.Errorf("empty snapshot must be nil, got %+v", alert)
	}

	txns := []models.Transaction{}
	for i := 0; i <= 5; i++ {
		d := day.AddDate(0, 0, -i)
		for j := 0; j < 10; j++ {
			txns = append(txns, txn(d.Format("02")+string(rune('a'+j)), 100, models.TxnSuccess, d, "UPI"))
		}
	}
	s := &dataset.Snapshot{Transactions: txns}
	if alert := VolumeDeviation(s, day); alert != nil {
		t.Errorf("today matching the average must be nil, got %+v", alert)
	}
}

func TestVolumeDeviationNewActivity(t *testing.T) {
	s := &dataset.Snapshot{Transactions: []models.Transaction{
		txn("1", 100, models.TxnSuccess, day, "UPI"),
	}}
	alert := VolumeDeviation(s, day)
	if alert == nil || alert.Title != "New Transaction Activity Detected!" {
		t.Fatalf("got %+v", alert)
	}
}
