package insights

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"merchantpulse/backend/analytics"
	"merchantpulse/backend/dataset"
)

// Refund-spike thresholds: count and amount must both trip.
const (
	refundSpikeCountThreshold  = 50
	refundSpikeAmountThreshold = 15000.0
	mobileDropThreshold        = 10.0
	mobileGrowthThreshold      = 20.0
)

// BuildAlerts re-runs a fixed subset of the analytic library against
// thresholds and returns the resulting alert/recommendation feed, ordered.
func BuildAlerts(s *dataset.Snapshot, today time.Time, rng *rand.Rand) []analytics.Alert {
	today = dataset.DateOf(today)
	yesterday := today.AddDate(0, 0, -1)
	alerts := []analytics.Alert{}

	refundCount, refundAmount := analytics.RefundsOn(s, yesterday)
	if refundCount > refundSpikeCountThreshold && refundAmount > refundSpikeAmountThreshold {
		alerts = append(alerts, analytics.Alert{
			Type:  "alert",
			Title: "High Refund Activity Detected!",
			Description: fmt.Sprintf("Your refunds spiked to **%d** yesterday, totaling **₹%s**. %s",
				refundCount, analytics.Money(refundAmount), analytics.RefundSpikeRootCause(s, yesterday)),
		})
	}

	mobile := analytics.MethodTrend(s, "Mobile", analytics.PeriodWeek, today)
	if mobile.HasPrevious && !mobile.NoData {
		if mobile.ChangePercent < -mobileDropThreshold {
			alerts = append(alerts, analytics.Alert{
				Type:  "alert",
				Title: "Mobile Payments Decline Detected",
				Description: fmt.Sprintf("Your mobile payments (UPI & Wallets) have declined by **%.2f%%** this week. "+
					"This could impact your overall revenue. Investigate potential issues, changes in user preference, "+
					"or competitor activities. A chart of this trend is available in your insights.", -mobile.ChangePercent),
			})
		} else if mobile.ChangePercent > mobileGrowthThreshold {
			alerts = append(alerts, analytics.Alert{
				Type:  "recommendation",
				Title: "Strong Mobile Payment Growth!",
				Description: fmt.Sprintf("Great news! Your mobile payments are up by **%.2f%%** this week. "+
					"Consider running targeted campaigns or offers to further capitalize on this positive trend.", mobile.ChangePercent),
			})
		}
	}

	alerts = append(alerts, analytics.Alert{
		Type:        "recommendation",
		Title:       "Boost Conversions with EMI Options!",
		Description: analytics.EMIRecommendation(s, 5000, rng),
	})

	if wd := today.Weekday(); wd == time.Thursday || wd == time.Friday {
		alerts = append(alerts, analytics.Alert{
			Type:        "alert",
			Title:       "Upcoming Weekend Transaction Forecast",
			Description: analytics.WeekendForecast(s, today, rng),
		})
	}

	benchmark := analytics.SuccessRateBenchmark(s, rng)
	if strings.Contains(benchmark, "below the industry average") {
		alerts = append(alerts, analytics.Alert{
			Type:  "alert",
			Title: "Improve Payment Success Rate!",
			Description: fmt.Sprintf("Heads up: %s Consider optimizing your checkout flow or working with your payment gateway for better performance.",
				benchmark),
		})
	} else if strings.Contains(benchmark, "above the industry average") {
		alerts = append(alerts, analytics.Alert{
			Type:        "recommendation",
			Title:       "Excellent Payment Success Rate!",
			Description: fmt.Sprintf("Great job! %s Keep up the good work!", benchmark),
		})
	}

	if deviation := analytics.VolumeDeviation(s, today); deviation != nil {
		alerts = append(alerts, *deviation)
	}

	if len(alerts) == 0 {
		alerts = append(alerts, analytics.Alert{
			Type:        "alert",
			Title:       "No New Alerts",
			Description: "Everything looks good! No unusual patterns or specific recommendations at this time.",
		})
	}
	return alerts
}
