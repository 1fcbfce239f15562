package analytics

import (
	"strconv"
	"strings"
	"time"
)

type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// periodStart anchors a trailing window at today: 7 days for a week,
// 30 days for a month, week otherwise.
func periodStart(p Period, today time.Time) time.Time {
	switch p {
	case PeriodMonth:
		return today.AddDate(0, 0, -30)
	default:
		return today.AddDate(0, 0, -7)
	}
}

// ChartData is the chart payload shape the query interface returns.
type ChartData struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
	Type   string    `json:"type"`
}

func emptyLineChart() ChartData {
	return ChartData{Labels: []string{}, Data: []float64{}, Type: "line"}
}

// MethodPerformance is one payment method's aggregate over a period.
type MethodPerformance struct {
	Method      string  `json:"payment_method"`
	TotalAmount float64 `json:"total_amount"`
	Count       int     `json:"num_transactions"`
	AvgValue    float64 `json:"avg_transaction_value"`
}

// TrendResult carries the rendered trend answer plus the raw comparison so
// alerting can apply thresholds without re-parsing message text.
type TrendResult struct {
	Answer        string
	Chart         ChartData
	ChangePercent float64
	HasPrevious   bool
	NoData        bool
}

type Alert struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Money renders an amount with thousands grouping and two decimals.
func Money(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	dot := strings.Index(s, ".")
	return groupDigits(s[:dot]) + s[dot:]
}

// Count renders an integer with thousands grouping.
func Count(n int) string {
	return groupDigits(strconv.Itoa(n))
}

func groupDigits(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
