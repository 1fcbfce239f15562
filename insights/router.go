package insights

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"merchantpulse/backend/analytics"
	"merchantpulse/backend/dataset"
)

const apologyAnswer = "I'm sorry, I couldn't process that request right now. Please try again or rephrase your question."

// FallbackAnswer is what the LLM bridge returns for a query no
// deterministic route matched.
type FallbackAnswer struct {
	Answer string
	Chart  *analytics.ChartData
}

// Fallback is the external language-model bridge, invoked only as a last
// resort with a digest of precomputed aggregates.
type Fallback interface {
	Answer(ctx context.Context, query string, digest map[string]any) (FallbackAnswer, error)
}

// Response is the query-interface payload. ChartData is either a populated
// chart or an empty JSON object.
type Response struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	ChartData any    `json:"chartData"`
}

// Router maps free-text queries onto the deterministic analytic library.
// Routes are evaluated in declaration order; the first match wins.
type Router struct {
	Fallback Fallback
	Now      func() time.Time // defaults to time.Now
	Seed     int64            // fixed heuristics seed for tests; 0 seeds per call
}

type routeCtx struct {
	raw        string
	q          string // lowercased
	snap       *dataset.Snapshot
	today      time.Time
	date       time.Time
	hasDate    bool
	monthQuery bool
	rng        *rand.Rand
}

type route struct {
	keywords []string
	handle   func(r *Router, rc *routeCtx) (string, any)
}

var routes = []route{
	{[]string{"how much did i receive", "total sales", "total revenue", "earnings", "transactions"}, (*Router).handleTotals},
	{[]string{"refunds spike", "why refunds increased", "refund issue", "root cause refund"}, (*Router).handleRefundSpike},
	{[]string{"payment method performing best", "best payment method", "payment method trend", "mobile payments", "upi payments", "credit card payments", "debit card payments", "net banking payments", "wallet payments"}, (*Router).handleMethodPerformance},
	{[]string{"customer behavior", "repeat rates", "upi customer", "credit card customer"}, (*Router).handleCustomerBehavior},
	{[]string{"enable emi", "emi for orders", "boost conversions", "flexible payments"}, (*Router).handleEMI},
	{[]string{"expect more transactions this weekend", "weekend prediction", "sales forecast weekend"}, (*Router).handleWeekendForecast},
	{[]string{"success rate", "industry average", "benchmarking"}, (*Router).handleSuccessRate},
	{[]string{"transaction volume today", "sales dip today", "sales surge today"}, (*Router).handleVolumeDeviation},
}

func (r *Router) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Today is the current date per the router's clock, truncated to midnight.
func (r *Router) Today() time.Time {
	return dataset.DateOf(r.now())
}

func (r *Router) rng() *rand.Rand {
	seed := r.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Rand hands out a fresh source per call; rand.Rand is not safe for
// concurrent use across requests.
func (r *Router) Rand() *rand.Rand {
	return r.rng()
}

// Route resolves one query: date extraction, out-of-range short-circuit,
// ordered keyword dispatch, then LLM fallback with an aggregate digest.
func (r *Router) Route(ctx context.Context, query string, snap *dataset.Snapshot) Response {
	rc := &routeCtx{
		raw:   query,
		q:     strings.ToLower(strings.TrimSpace(query)),
		snap:  snap,
		today: dataset.DateOf(r.now()),
		rng:   r.rng(),
	}

	if d, ok := ExtractDate(rc.q); ok {
		rc.date, rc.hasDate = d, true
	}
	if month, year, ok := ExtractMonth(rc.q); ok {
		if year == 0 {
			if snap.TxnRange.Valid {
				year = snap.TxnRange.Max.Year()
			} else {
				year = rc.today.Year()
			}
		}
		rc.date = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		rc.hasDate = true
		rc.monthQuery = true
	}

	if rc.hasDate && snap.TxnRange.Valid {
		if rc.date.After(snap.TxnRange.Max) {
			return Response{
				Question: query,
				Answer: fmt.Sprintf("I currently only have transaction data up to %s. I cannot provide insights for %s as it's outside the available data range.",
					snap.TxnRange.Max.Format("2006-01-02"), rc.date.Format("2006-01-02")),
				ChartData: map[string]any{},
			}
		}
		if rc.date.Before(snap.TxnRange.Min) {
			return Response{
				Question: query,
				Answer: fmt.Sprintf("I currently only have transaction data from %s. I cannot provide insights for %s as it's before the available data range.",
					snap.TxnRange.Min.Format("2006-01-02"), rc.date.Format("2006-01-02")),
				ChartData: map[string]any{},
			}
		}
	}

	for _, rt := range routes {
		if !matchAny(rc.q, rt.keywords) {
			continue
		}
		answer, chart := rt.handle(r, rc)
		if chart == nil {
			chart = analytics.ChartData{Labels: []string{}, Data: []float64{}, Type: "line"}
		}
		return Response{Question: query, Answer: answer, ChartData: chart}
	}

	return r.escalate(ctx, rc)
}

func matchAny(q string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}

func (r *Router) handleTotals(rc *routeCtx) (string, any) {
	var target time.Time
	switch {
	case strings.Contains(rc.q, "yesterday"):
		target = rc.today.AddDate(0, 0, -1)
	case strings.Contains(rc.q, "today"):
		target = rc.today
	case rc.hasDate:
		target = rc.date
	default:
		return "Please specify a date or month (e.g., 'yesterday', 'today', 'on 2024-05-31', 'January 2025 sales') for the total amount.", nil
	}

	if strings.Contains(rc.q, "month") || rc.monthQuery {
		start := time.Date(target.Year(), target.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, -1)
		amount := analytics.TotalReceivedBetween(rc.snap, start, end)
		if amount > 0 {
			return fmt.Sprintf("For **%s**, you received a total of **₹%s** in successful payments.",
				target.Format("January 2006"), analytics.Money(amount)), nil
		}
		return fmt.Sprintf("No successful payments recorded for **%s**. This could be due to no activity or data not yet updated for this period.%s",
			target.Format("January 2006"), rangeHint(rc.snap.TxnRange)), nil
	}

	amount := analytics.TotalReceivedOn(rc.snap, target)
	if amount > 0 {
		return fmt.Sprintf("You received a total of **₹%s** in successful payments on **%s**.",
			analytics.Money(amount), target.Format("2006-01-02")), nil
	}
	return fmt.Sprintf("No successful payments recorded for **%s**. This could be due to no activity or data not yet updated for this period.%s",
		target.Format("2006-01-02"), rangeHint(rc.snap.TxnRange)), nil
}

func rangeHint(r dataset.DateRange) string {
	if !r.Valid {
		return ""
	}
	return fmt.Sprintf(" Please check the available data range: %s to %s.",
		r.Min.Format("2006-01-02"), r.Max.Format("2006-01-02"))
}

func (r *Router) handleRefundSpike(rc *routeCtx) (string, any) {
	target := rc.today.AddDate(0, 0, -1)
	if rc.hasDate {
		target = rc.date
	}
	answer := analytics.RefundSpikeRootCause(rc.snap, target)
	if strings.Contains(answer, "No significant completed refund activity") && rc.snap.RefundRange.Valid {
		answer += fmt.Sprintf(" Current refund data available from %s to %s.",
			rc.snap.RefundRange.Min.Format("2006-01-02"), rc.snap.RefundRange.Max.Format("2006-01-02"))
	}
	return answer, nil
}

// Method keywords checked in a fixed order; "mobile" wins over the
// concrete methods so the UPI+Wallet union applies.
var methodKeywords = []struct{ needle, keyword string }{
	{"mobile", "Mobile"},
	{"upi", "UPI"},
	{"credit card", "Credit Card"},
	{"debit card", "Debit Card"},
	{"net banking", "Net Banking"},
	{"wallet", "Wallet"},
}

func (r *Router) handleMethodPerformance(rc *routeCtx) (string, any) {
	period := analytics.PeriodWeek
	if strings.Contains(rc.q, "month") {
		period = analytics.PeriodMonth
	}

	for _, mk := range methodKeywords {
		if strings.Contains(rc.q, mk.needle) {
			trend := analytics.MethodTrend(rc.snap, mk.keyword, period, rc.today)
			return trend.Answer, trend.Chart
		}
	}

	perf := analytics.PaymentMethodPerformance(rc.snap, period, rc.today)
	if len(perf) == 0 {
		return fmt.Sprintf("No payment method data available for the last %s.%s", period, rangeHint(rc.snap.TxnRange)), nil
	}
	top := perf[0]
	answer := fmt.Sprintf("The best performing payment method this %s by total amount is **%s** with **₹%s** from **%d transactions**. Average transaction value for %s is ₹%s.",
		period, top.Method, analytics.Money(top.TotalAmount), top.Count, top.Method, analytics.Money(top.AvgValue))
	labels := make([]string, len(perf))
	data := make([]float64, len(perf))
	for i, p := range perf {
		labels[i] = p.Method
		data[i] = p.TotalAmount
	}
	return answer, analytics.ChartData{Labels: labels, Data: data, Type: "bar"}
}

func (r *Router) handleCustomerBehavior(rc *routeCtx) (string, any) {
	method := "UPI"
	if strings.Contains(rc.q, "credit card") {
		method = "Credit Card"
	}
	return analytics.CustomerBehavior(rc.snap, method), nil
}

var (
	rupeeAmountRe = regexp.MustCompile(`₹(\d+)`)
	aboveAmountRe = regexp.MustCompile(`above (\d+)`)
)

func (r *Router) handleEMI(rc *routeCtx) (string, any) {
	minValue := 5000.0
	m := rupeeAmountRe.FindStringSubmatch(rc.q)
	if m == nil {
		m = aboveAmountRe.FindStringSubmatch(rc.q)
	}
	if m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			minValue = float64(v)
		}
	}
	return analytics.EMIRecommendation(rc.snap, minValue, rc.rng), nil
}

func (r *Router) handleWeekendForecast(rc *routeCtx) (string, any) {
	return analytics.WeekendForecast(rc.snap, rc.today, rc.rng), nil
}

func (r *Router) handleSuccessRate(rc *routeCtx) (string, any) {
	return analytics.SuccessRateBenchmark(rc.snap, rc.rng), nil
}

func (r *Router) handleVolumeDeviation(rc *routeCtx) (string, any) {
	if alert := analytics.VolumeDeviation(rc.snap, rc.today); alert != nil {
		return alert.Description, nil
	}
	return "Could not analyze today's transaction volume deviation. Please check the available data range for transactions.", nil
}

// escalate hands the query to the LLM bridge with precomputed aggregates
// for context. Any bridge failure degrades to a fixed apology; the caller
// never sees a system error.
func (r *Router) escalate(ctx context.Context, rc *routeCtx) Response {
	if r.Fallback == nil {
		return Response{Question: rc.raw, Answer: apologyAnswer, ChartData: map[string]any{}}
	}

	refundCount, refundAmount := analytics.RefundsOn(rc.snap, rc.today.AddDate(0, 0, -1))
	digest := map[string]any{
		"Total successful payments today":        "₹" + analytics.Money(analytics.TotalReceivedOn(rc.snap, rc.today)),
		"Refunds yesterday (count, amount)":      fmt.Sprintf("%d refunds, ₹%s total", refundCount, analytics.Money(refundAmount)),
		"Payment method performance (last week)": analytics.PaymentMethodPerformance(rc.snap, analytics.PeriodWeek, rc.today),
		"Overall success rate":                   analytics.SuccessRateBenchmark(rc.snap, rc.rng),
		"Available transaction data":             rangeHint(rc.snap.TxnRange),
	}

	fa, err := r.Fallback.Answer(ctx, rc.raw, digest)
	if err != nil || strings.TrimSpace(fa.Answer) == "" {
		if err != nil {
			log.Printf("llm fallback failed: %v", err)
		}
		return Response{Question: rc.raw, Answer: apologyAnswer, ChartData: map[string]any{}}
	}
	var chart any = map[string]any{}
	if fa.Chart != nil {
		chart = *fa.Chart
	}
	return Response{Question: rc.raw, Answer: fa.Answer, ChartData: chart}
}
