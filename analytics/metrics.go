package analytics

import (
	"fmt"
	"sort"
	"time"

	"merchantpulse/backend/dataset"
	"merchantpulse/backend/models"
)

// TotalReceivedOn sums successful transaction amounts for one calendar
// day. No matches is a plain zero, never an error.
func TotalReceivedOn(s *dataset.Snapshot, day time.Time) float64 {
	day = dataset.DateOf(day)
	var total float64
	for _, t := range s.Transactions {
		if t.Status == models.TxnSuccess && t.TransactionDate.Equal(day) {
			total += t.Amount
		}
	}
	return total
}

// TotalReceivedBetween sums successful amounts over [start, end] inclusive.
func TotalReceivedBetween(s *dataset.Snapshot, start, end time.Time) float64 {
	start, end = dataset.DateOf(start), dataset.DateOf(end)
	var total float64
	for _, t := range s.Transactions {
		if t.Status != models.TxnSuccess {
			continue
		}
		if t.TransactionDate.Before(start) || t.TransactionDate.After(end) {
			continue
		}
		total += t.Amount
	}
	return total
}

// RefundsOn counts and sums completed refunds for one calendar day.
func RefundsOn(s *dataset.Snapshot, day time.Time) (int, float64) {
	day = dataset.DateOf(day)
	count := 0
	var amount float64
	for _, r := range s.Refunds {
		if r.Status == models.RefundCompleted && r.RefundDate.Equal(day) {
			count++
			amount += r.Amount
		}
	}
	return count, amount
}

// PaymentMethodPerformance groups successful transactions in the trailing
// period by method, descending by total amount. An empty period yields an
// empty slice.
func PaymentMethodPerformance(s *dataset.Snapshot, period Period, today time.Time) []MethodPerformance {
	start := dataset.DateOf(periodStart(period, today))
	end := dataset.DateOf(today)

	type agg struct {
		sum   float64
		count int
	}
	sums := map[string]*agg{}
	order := []string{}
	for _, t := range s.Transactions {
		if t.Status != models.TxnSuccess {
			continue
		}
		if t.TransactionDate.Before(start) || t.TransactionDate.After(end) {
			continue
		}
		a, ok := sums[t.PaymentMethod]
		if !ok {
			a = &agg{}
			sums[t.PaymentMethod] = a
			order = append(order, t.PaymentMethod)
		}
		a.sum += t.Amount
		a.count++
	}

	out := make([]MethodPerformance, 0, len(order))
	for _, m := range order {
		a := sums[m]
		out = append(out, MethodPerformance{
			Method:      m,
			TotalAmount: a.sum,
			Count:       a.count,
			AvgValue:    a.sum / float64(a.count),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalAmount > out[j].TotalAmount })
	return out
}

// SuccessRate is the overall Success/total ratio in percent. ok is false
// when there are no transactions at all.
func SuccessRate(s *dataset.Snapshot) (float64, bool) {
	if len(s.Transactions) == 0 {
		return 0, false
	}
	succ := 0
	for _, t := range s.Transactions {
		if t.Status == models.TxnSuccess {
			succ++
		}
	}
	return float64(succ) / float64(len(s.Transactions)) * 100, true
}

// RefundSpikeRootCause explains a day's completed-refund spike: the modal
// refund reason, and, when refunds link back to gateway-timeout
// transactions, the modal hour those transactions happened.
func RefundSpikeRootCause(s *dataset.Snapshot, day time.Time) string {
	day = dataset.DateOf(day)
	if len(s.Refunds) == 0 {
		return fmt.Sprintf("No refund data available to analyze spike on %s.", day.Format("2006-01-02"))
	}

	daily := []models.Refund{}
	for _, r := range s.Refunds {
		if r.Status == models.RefundCompleted && r.RefundDate.Equal(day) {
			daily = append(daily, r)
		}
	}
	if len(daily) == 0 {
		return fmt.Sprintf("No significant completed refund activity found on %s to analyze for spikes.", day.Format("2006-01-02"))
	}

	reason := modalString(daily, func(r models.Refund) string { return r.Reason })
	if reason == "" {
		reason = "various reasons"
	}

	byID := map[string]models.Transaction{}
	for _, t := range s.Transactions {
		byID[t.TransactionID] = t
	}

	linked := []models.Transaction{}
	for _, r := range daily {
		if t, ok := byID[r.TransactionID]; ok && t.GatewayTimeout && !t.TransactionTime.IsZero() {
			linked = append(linked, t)
		}
	}

	if len(linked) > 0 {
		peakHour := modalHour(linked)
		return fmt.Sprintf(
			"The completed refund spike on %s was primarily caused by **'%s'**. "+
				"A significant portion of these refunds (%d linked transactions) are associated with "+
				"**payment gateway timeouts** that occurred around **%d:00** (24-hour format) on the original transaction date. "+
				"You should investigate Payment Gateway provider logs for that time to understand the root cause.",
			day.Format("2006-01-02"), reason, len(linked), peakHour)
	}
	return fmt.Sprintf(
		"The completed refund spike on %s was primarily caused by **'%s'**. "+
			"There are no immediate indications of a specific widespread technical issue (like gateway timeouts) "+
			"directly linked to these refunds in the transaction data. "+
			"Consider reviewing customer feedback or product/service quality for the affected period.",
		day.Format("2006-01-02"), reason)
}

// modalString returns the most frequent value, first-seen on ties.
func modalString(refunds []models.Refund, key func(models.Refund) string) string {
	counts := map[string]int{}
	order := []string{}
	for _, r := range refunds {
		k := key(r)
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}
	best, bestN := "", 0
	for _, k := range order {
		if counts[k] > bestN {
			best, bestN = k, counts[k]
		}
	}
	return best
}

// modalHour returns the most frequent hour-of-day, smallest hour on ties.
func modalHour(txns []models.Transaction) int {
	var counts [24]int
	for _, t := range txns {
		counts[t.TransactionTime.Hour()]++
	}
	best, bestN := 0, -1
	for h, n := range counts {
		if n > bestN {
			best, bestN = h, n
		}
	}
	return best
}
