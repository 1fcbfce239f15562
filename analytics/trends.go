package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"merchantpulse/backend/dataset"
	"merchantpulse/backend/models"
)

// methodMatcher builds the payment-method predicate for a query keyword.
// "mobile" is a special case meaning UPI or Wallet; everything else is a
// case-insensitive substring match. The same predicate is used for both
// the current and the previous comparison period.
func methodMatcher(keyword string) (func(string) bool, string) {
	if strings.EqualFold(keyword, "mobile") {
		return func(pm string) bool {
			l := strings.ToLower(pm)
			return strings.Contains(l, "upi") || strings.Contains(l, "wallet")
		}, "mobile payments (UPI and Wallets)"
	}
	lk := strings.ToLower(keyword)
	return func(pm string) bool {
		return strings.Contains(strings.ToLower(pm), lk)
	}, keyword + " payments"
}

// MethodTrend computes the daily successful-amount series for one payment
// method over the trailing period, plus the percent change against the
// immediately preceding period of equal length.
func MethodTrend(s *dataset.Snapshot, keyword string, period Period, today time.Time) TrendResult {
	if len(s.Transactions) == 0 {
		return TrendResult{
			Answer: "No transaction data available to analyze payment method trend.",
			Chart:  emptyLineChart(),
			NoData: true,
		}
	}

	match, methodName := methodMatcher(keyword)
	end := dataset.DateOf(today)
	start := dataset.DateOf(periodStart(period, today))

	daily := map[time.Time]float64{}
	var currentSum float64
	for _, t := range s.Transactions {
		if t.Status != models.TxnSuccess || !match(t.PaymentMethod) {
			continue
		}
		if t.TransactionDate.Before(start) || t.TransactionDate.After(end) {
			continue
		}
		daily[t.TransactionDate] += t.Amount
		currentSum += t.Amount
	}
	if len(daily) == 0 {
		return TrendResult{
			Answer: fmt.Sprintf("No successful %s found for the selected period (%s to %s).",
				methodName, start.Format("2006-01-02"), end.Format("2006-01-02")),
			Chart:  emptyLineChart(),
			NoData: true,
		}
	}

	prevEnd := start.AddDate(0, 0, -1)
	prevStart := start.AddDate(0, 0, -int(end.Sub(start).Hours()/24)-1)
	var prevSum float64
	for _, t := range s.Transactions {
		if t.Status != models.TxnSuccess || !match(t.PaymentMethod) {
			continue
		}
		if t.TransactionDate.Before(prevStart) || t.TransactionDate.After(prevEnd) {
			continue
		}
		prevSum += t.Amount
	}

	var changePercent float64
	hasPrev := prevSum > 0
	if hasPrev {
		changePercent = (currentSum - prevSum) / prevSum * 100
	}

	var trendMsg string
	switch {
	case changePercent > 0:
		trendMsg = fmt.Sprintf("Your %s are **up by %.2f%%** this %s compared to the previous %s.",
			methodName, changePercent, period, period)
	case changePercent < 0:
		trendMsg = fmt.Sprintf("Your %s have **dropped by %.2f%%** this %s compared to the previous %s. This requires investigation.",
			methodName, math.Abs(changePercent), period, period)
	default:
		trendMsg = fmt.Sprintf("Your %s remained stable this %s.", methodName, period)
	}

	dates := make([]time.Time, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	labels := make([]string, len(dates))
	data := make([]float64, len(dates))
	for i, d := range dates {
		labels[i] = d.Format("2006-01-02")
		data[i] = daily[d]
	}

	return TrendResult{
		Answer: trendMsg + "<br>" + fmt.Sprintf(
			"Here's a breakdown of daily successful transactions for %s over the last %s:", methodName, period),
		Chart:         ChartData{Labels: labels, Data: data, Type: "line"},
		ChangePercent: changePercent,
		HasPrevious:   hasPrev,
	}
}

// CustomerBehavior compares repeat rate and average order value for one
// payment method's customers against the overall base.
func CustomerBehavior(s *dataset.Snapshot, method string) string {
	relevant := []models.TransactionWithCustomer{}
	for _, t := range s.TxnsWithCustomers {
		if t.Status == models.TxnSuccess && t.CustomerID != "" && t.PaymentMethod != "" {
			relevant = append(relevant, t)
		}
	}
	if len(relevant) == 0 {
		return "No successful transactions found to analyze customer behavior."
	}

	lm := strings.ToLower(method)
	methodTxns := []models.TransactionWithCustomer{}
	for _, t := range relevant {
		if strings.Contains(strings.ToLower(t.PaymentMethod), lm) {
			methodTxns = append(methodTxns, t)
		}
	}
	if len(methodTxns) == 0 {
		return fmt.Sprintf("No successful transactions found for %s to analyze customer behavior.", method)
	}

	methodRepeat, methodCustomers := repeatRate(methodTxns)
	if methodCustomers == 0 {
		return fmt.Sprintf("No distinct customers using %s found for repeat rate analysis.", method)
	}
	avgOrder := meanAmount(methodTxns)

	overallRepeat, _ := repeatRate(relevant)
	overallAvg := meanAmount(relevant)

	aovComparison := ""
	if overallAvg > 0 {
		diff := (avgOrder - overallAvg) / overallAvg * 100
		if diff > 0 {
			aovComparison = fmt.Sprintf("This is **%.2f%% higher** than your overall average order value.", diff)
		} else {
			aovComparison = fmt.Sprintf("This is **%.2f%% lower** than your overall average order value.", math.Abs(diff))
		}
	}
	repeatComparison := ""
	if overallRepeat > 0 {
		diff := (methodRepeat - overallRepeat) / overallRepeat * 100
		if diff > 0 {
			repeatComparison = fmt.Sprintf("This is **%.2f%% higher** than your overall repeat rate.", diff)
		} else {
			repeatComparison = fmt.Sprintf("This is **%.2f%% lower** than your overall repeat rate.", math.Abs(diff))
		}
	}

	return fmt.Sprintf(
		"Customers who pay via **%s** have a repeat rate of **%.2f%%** (%s). "+
			"Their average order value is **₹%s** (%s). "+
			"This suggests %s users are often valuable customers.",
		method, methodRepeat, repeatComparison, Money(avgOrder), aovComparison, method)
}

// repeatRate is customers with more than one transaction over distinct
// customers, in percent.
func repeatRate(txns []models.TransactionWithCustomer) (float64, int) {
	perCustomer := map[string]int{}
	for _, t := range txns {
		perCustomer[t.CustomerID]++
	}
	if len(perCustomer) == 0 {
		return 0, 0
	}
	repeats := 0
	for _, n := range perCustomer {
		if n > 1 {
			repeats++
		}
	}
	return float64(repeats) / float64(len(perCustomer)) * 100, len(perCustomer)
}

func meanAmount(txns []models.TransactionWithCustomer) float64 {
	if len(txns) == 0 {
		return 0
	}
	var sum float64
	for _, t := range txns {
		sum += t.Amount
	}
	return sum / float64(len(txns))
}
