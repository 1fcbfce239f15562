package analytics

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"merchantpulse/backend/dataset"
	"merchantpulse/backend/models"
)

// EMIRecommendation suggests enabling installments for orders at or above
// minOrderValue. The uplift figure is a randomized heuristic, presented as
// a suggestion rather than a forecast.
func EMIRecommendation(s *dataset.Snapshot, minOrderValue float64, rng *rand.Rand) string {
	qualifying := []models.Transaction{}
	var total float64
	for _, t := range s.Transactions {
		if t.Status == models.TxnSuccess && t.Amount >= minOrderValue {
			qualifying = append(qualifying, t)
			total += t.Amount
		}
	}
	if len(qualifying) == 0 {
		return fmt.Sprintf(
			"No high-value successful transactions (above ₹%s) to analyze for EMI recommendations. "+
				"Consider lowering the minimum order value for analysis.", Money(minOrderValue))
	}

	topCategories := topCategoriesByCount(qualifying, 3)
	categoriesStr := "various categories"
	if len(topCategories) > 0 {
		categoriesStr = joinComma(topCategories)
	}

	upliftPercent := 5 + rng.Float64()*10
	estimatedBoost := total * upliftPercent / 100

	return fmt.Sprintf(
		"Consider enabling **EMI (Equated Monthly Installment) options for orders above ₹%s**. "+
			"This can significantly boost conversions for high-value purchases, especially in categories like **%s**. "+
			"We estimate this could lead to a **%.2f%% increase in conversions** for eligible orders, "+
			"potentially unlocking **₹%s** in additional sales annually. "+
			"Many customers prefer flexible payment options for larger purchases.",
		Money(minOrderValue), categoriesStr, upliftPercent, Money(estimatedBoost))
}

// WeekendForecast averages successful counts over the last four weekends
// and scales by a randomized growth factor. A heuristic extrapolation, not
// a statistical forecast.
func WeekendForecast(s *dataset.Snapshot, today time.Time, rng *rand.Rand) string {
	today = dataset.DateOf(today)
	nextSaturday := today.AddDate(0, 0, daysUntilSaturday(today))
	nextSunday := nextSaturday.AddDate(0, 0, 1)

	counts := []int{}
	lastSaturday := today.AddDate(0, 0, -daysSinceSaturday(today))
	for i := 0; i < 4; i++ {
		sat := lastSaturday.AddDate(0, 0, -7*i)
		sun := sat.AddDate(0, 0, 1)
		satCount := successCountOn(s, sat)
		sunCount := successCountOn(s, sun)
		if satCount > 0 || sunCount > 0 {
			counts = append(counts, satCount, sunCount)
		}
	}
	if len(counts) == 0 {
		return "Not enough historical weekend data to make a reliable prediction."
	}

	var sum int
	for _, c := range counts {
		sum += c
	}
	avgPerDay := float64(sum) / float64(len(counts))
	growth := 1.15 + rng.Float64()*0.10

	predictedIncrease := (growth - 1) * 100
	predictedTotal := int(avgPerDay * 2 * growth)

	return fmt.Sprintf(
		"Based on historical patterns, we predict a **%.0f%% increase in transactions** this upcoming weekend (%s - %s). "+
			"You can expect around **%s successful transactions** in total. "+
			"Consider optimizing your stock and staffing for potential higher demand!",
		predictedIncrease, nextSaturday.Format("Jan 02"), nextSunday.Format("Jan 02"), Count(predictedTotal))
}

// SuccessRateBenchmark compares the overall success rate against a
// randomized industry-average band.
func SuccessRateBenchmark(s *dataset.Snapshot, rng *rand.Rand) string {
	rate, ok := SuccessRate(s)
	if !ok {
		return "No transactions found to calculate success rate."
	}
	industry := 82 + rng.Float64()*6

	var comparison string
	if rate > industry {
		comparison = fmt.Sprintf("This is **%.2f%% above the industry average** for your category, which is excellent!", rate-industry)
	} else {
		comparison = fmt.Sprintf("This is **%.2f%% below the industry average**. There might be opportunities to improve your payment success rate.", math.Abs(industry-rate))
	}
	return fmt.Sprintf("Your current payment success rate is **%.2f%%**. %s", rate, comparison)
}

// VolumeDeviation compares today's successful count against the trailing
// 30-day daily average. Returns nil when nothing is noteworthy.
func VolumeDeviation(s *dataset.Snapshot, today time.Time) *Alert {
	if len(s.Transactions) == 0 {
		return nil
	}
	today = dataset.DateOf(today)
	todayCount := successCountOn(s, today)

	windowStart := today.AddDate(0, 0, -30)
	perDay := map[time.Time]int{}
	for _, t := range s.Transactions {
		if t.Status != models.TxnSuccess {
			continue
		}
		if t.TransactionDate.Before(windowStart) || !t.TransactionDate.Before(today) {
			continue
		}
		perDay[t.TransactionDate]++
	}
	var avg float64
	if len(perDay) > 0 {
		sum := 0
		for _, n := range perDay {
			sum += n
		}
		avg = float64(sum) / float64(len(perDay))
	}

	switch {
	case avg == 0 && todayCount == 0:
		return nil
	case avg == 0 && todayCount > 0:
		return &Alert{
			Type:  "alert",
			Title: "New Transaction Activity Detected!",
			Description: fmt.Sprintf("You have **%s** successful transactions today. "+
				"This is a great start! We'll begin tracking trends as more data comes in.", Count(todayCount)),
		}
	}

	deviation := (float64(todayCount) - avg) / avg * 100
	if deviation > 20 {
		return &Alert{
			Type:  "alert",
			Title: "Unusual High Transaction Volume Today!",
			Description: fmt.Sprintf("Your successful transaction count today is **%s**, "+
				"which is **%.2f%% higher** than your average daily volume of %.0f over the last 30 days. "+
				"This could be a positive trend or a result of a successful campaign!", Count(todayCount), deviation, avg),
		}
	}
	if deviation < -15 {
		return &Alert{
			Type:  "alert",
			Title: "Significant Drop in Transaction Volume Today!",
			Description: fmt.Sprintf("Your successful transaction count today is **%s**, "+
				"which is **%.2f%% lower** than your average daily volume of %.0f over the last 30 days. "+
				"Investigate potential issues or campaigns affecting sales.", Count(todayCount), math.Abs(deviation), avg),
		}
	}
	return nil
}

func successCountOn(s *dataset.Snapshot, day time.Time) int {
	n := 0
	for _, t := range s.Transactions {
		if t.Status == models.TxnSuccess && t.TransactionDate.Equal(day) {
			n++
		}
	}
	return n
}

// topCategoriesByCount ranks product categories by frequency, first-seen
// on ties.
func topCategoriesByCount(txns []models.Transaction, n int) []string {
	counts := map[string]int{}
	order := []string{}
	for _, t := range txns {
		if t.ProductCategory == "" {
			continue
		}
		if _, ok := counts[t.ProductCategory]; !ok {
			order = append(order, t.ProductCategory)
		}
		counts[t.ProductCategory]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > n {
		order = order[:n]
	}
	return order
}

func joinComma(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

// daysUntilSaturday uses Monday-based weekday arithmetic; a Saturday today
// maps to the Saturday a week out.
func daysUntilSaturday(today time.Time) int {
	wd := (int(today.Weekday()) + 6) % 7 // Monday=0
	d := (5 - wd + 7) % 7
	if d == 0 {
		d = 7
	}
	return d
}

func daysSinceSaturday(today time.Time) int {
	wd := (int(today.Weekday()) + 6) % 7
	return (wd + 2) % 7
}
