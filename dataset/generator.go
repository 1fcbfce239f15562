package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"merchantpulse/backend/models"
)

var (
	paymentMethods    = []string{"UPI", "Credit Card", "Debit Card", "Net Banking", "Wallet"}
	productCategories = []string{"Electronics", "Fashion", "Groceries", "Home Goods", "Books", "Services"}
	cities            = []string{"Bengaluru", "Mumbai", "Delhi", "Chennai", "Hyderabad"}
	refundReasons     = []string{"Customer request", "Product return", "Service issue", "Technical error"}
	ticketCategories  = []string{"Payment Failure", "Refund Request", "Technical Issue", "Account Query", "Others"}
	ticketResolutions = []string{"Resolved", "Pending", "Escalated"}
	ticketModes       = []string{"UPI", "Credit Card", "Debit Card", "Net Banking", "Wallet", "N/A"}
	ticketTopics      = []string{"payment", "refund", "login"}
)

// Generator produces statistically plausible substitute data, both whole
// tables when a source is unusable and single values for per-column
// backfill. All randomness flows through one seeded source so rebuilds with
// the same seed are reproducible.
type Generator struct {
	rng  *rand.Rand
	used map[string]struct{}
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng:  rand.New(rand.NewSource(seed)),
		used: make(map[string]struct{}),
	}
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *Generator) pick(vals []string) string {
	return vals[g.rng.Intn(len(vals))]
}

// uniqueToken draws until it finds an id not handed out before. The value
// ranges are orders of magnitude larger than any generated volume.
func (g *Generator) uniqueToken(prefix string, lo, hi int) string {
	for {
		t := fmt.Sprintf("%s%d", prefix, lo+g.rng.Intn(hi-lo+1))
		if _, dup := g.used[t]; !dup {
			g.used[t] = struct{}{}
			return t
		}
	}
}

func (g *Generator) TransactionID() string { return g.uniqueToken("TXN", 100000, 999999) }
func (g *Generator) RefundID() string      { return g.uniqueToken("REF", 10000, 99999) }
func (g *Generator) SettlementID() string  { return g.uniqueToken("SETL", 1000, 9999) }
func (g *Generator) CaseNumber() string    { return g.uniqueToken("CASE", 10000, 99999) }

func (g *Generator) CustomerID() string {
	return fmt.Sprintf("CUST%d", 1000+g.rng.Intn(9000))
}

func (g *Generator) MerchantName() string {
	return fmt.Sprintf("Merchant%d", 1+g.rng.Intn(100))
}

func (g *Generator) CorporateName() string {
	return fmt.Sprintf("Corp%d", 1+g.rng.Intn(10))
}

func (g *Generator) BankReference() string {
	// uuid drawn from the seeded source so rebuilds stay reproducible
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		id = uuid.New()
	}
	return "BANK-" + strings.ToUpper(id.String()[:8])
}

func (g *Generator) PaymentMethod() string   { return g.pick(paymentMethods) }
func (g *Generator) ProductCategory() string { return g.pick(productCategories) }
func (g *Generator) City() string            { return g.pick(cities) }
func (g *Generator) RefundReason() string    { return g.pick(refundReasons) }
func (g *Generator) TicketCategory() string  { return g.pick(ticketCategories) }
func (g *Generator) Resolution() string      { return g.pick(ticketResolutions) }
func (g *Generator) TicketMode() string      { return g.pick(ticketModes) }

func (g *Generator) TicketSubject() string {
	return "Issue regarding " + g.pick(ticketTopics)
}

// SignupDate backdates a synthetic customer 30 to 365 days.
func (g *Generator) SignupDate(today time.Time) time.Time {
	return DateOf(today).AddDate(0, 0, -(30 + g.rng.Intn(336)))
}

func (g *Generator) weightedTxnStatus() models.TxnStatus {
	r := g.rng.Float64()
	switch {
	case r < 0.95:
		return models.TxnSuccess
	case r < 0.98:
		return models.TxnFailed
	default:
		return models.TxnPending
	}
}

// Transactions simulates numDays of history ending today. The great
// majority succeed; failures cluster in the 14:00-16:00 gateway-issue
// window, and yesterday occasionally carries a volume spike.
func (g *Generator) Transactions(today time.Time, numDays, basePerDay int) []models.Transaction {
	today = DateOf(today)
	start := today.AddDate(0, 0, -numDays)
	yesterday := today.AddDate(0, 0, -1)

	out := []models.Transaction{}
	for i := 0; i <= numDays; i++ {
		date := start.AddDate(0, 0, i)
		n := int(float64(basePerDay) * (1 + g.uniform(-0.2, 0.2)))
		if date.Equal(yesterday) && g.rng.Float64() < 0.3 {
			n = int(float64(n) * g.uniform(1.5, 2.5))
		}
		for j := 0; j < n; j++ {
			status := g.weightedTxnStatus()
			ts := date.Add(time.Duration(g.rng.Intn(24))*time.Hour +
				time.Duration(g.rng.Intn(60))*time.Minute +
				time.Duration(g.rng.Intn(60))*time.Second)

			gatewayIssue := false
			if status == models.TxnFailed && g.rng.Float64() < 0.4 && ts.Hour() >= 14 && ts.Hour() <= 16 {
				gatewayIssue = true
			}

			out = append(out, models.Transaction{
				TransactionID:       g.TransactionID(),
				MerchantDisplayName: g.MerchantName(),
				CustomerID:          g.CustomerID(),
				Amount:              round2(g.uniform(100, 50000)),
				PaymentMethod:       g.PaymentMethod(),
				Status:              status,
				TransactionTime:     ts,
				TransactionDate:     date,
				ProductCategory:     g.ProductCategory(),
				City:                g.City(),
				GatewayTimeout:      gatewayIssue,
				IsAggregator:        g.rng.Intn(2) == 0,
				IsReversal:          g.rng.Intn(2) == 0,
			})
		}
	}
	return out
}

// Refunds draws against the pool of successful transactions when one
// exists, which keeps transaction_id references plausible. Refunds linked
// to gateway timeouts are pinned to yesterday to model a spike.
func (g *Generator) Refunds(today time.Time, txns []models.Transaction) []models.Refund {
	today = DateOf(today)
	yesterday := today.AddDate(0, 0, -1)
	n := 50 + g.rng.Intn(101)

	successes := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.Status == models.TxnSuccess {
			successes = append(successes, t)
		}
	}

	out := make([]models.Refund, 0, n)
	if len(successes) == 0 {
		for i := 0; i < n; i++ {
			out = append(out, models.Refund{
				RefundID:            g.RefundID(),
				TransactionID:       g.TransactionID(),
				MerchantDisplayName: g.MerchantName(),
				Amount:              round2(g.uniform(50, 5000)),
				RefundDate:          today.AddDate(0, 0, -(1 + g.rng.Intn(10))),
				Reason:              g.RefundReason(),
				IsSpikeRelated:      g.rng.Intn(2) == 0,
				Status:              models.RefundCompleted,
			})
		}
		return out
	}

	reasons := append([]string{}, refundReasons[:3]...)
	reasons = append(reasons, "Technical error - previous gateway issue")
	for i := 0; i < n; i++ {
		txn := successes[g.rng.Intn(len(successes))]
		amount := txn.Amount
		if amount > 50 {
			amount = round2(g.uniform(50, txn.Amount))
		}
		date := DateOf(txn.TransactionTime).AddDate(0, 0, 1+g.rng.Intn(7))
		spike := false
		if txn.GatewayTimeout {
			spike = true
			date = yesterday
		}
		out = append(out, models.Refund{
			RefundID:            g.RefundID(),
			TransactionID:       txn.TransactionID,
			MerchantDisplayName: txn.MerchantDisplayName,
			Amount:              amount,
			RefundDate:          date,
			Reason:              g.pick(reasons),
			IsSpikeRelated:      spike,
			Status:              models.RefundCompleted,
		})
	}
	return out
}

// Settlements derives one payout per simulated day from that day's
// successful volume, at a randomized 0.5%-2.5% fee rate.
func (g *Generator) Settlements(today time.Time, txns []models.Transaction, numDays int) []models.Settlement {
	today = DateOf(today)
	start := today.AddDate(0, 0, -numDays)

	byDay := map[time.Time]float64{}
	for _, t := range txns {
		if t.Status == models.TxnSuccess {
			byDay[t.TransactionDate] += t.Amount
		}
	}

	out := []models.Settlement{}
	for i := 0; i <= numDays; i++ {
		date := start.AddDate(0, 0, i)
		gross, ok := byDay[date]
		if len(txns) == 0 {
			gross, ok = round2(g.uniform(10000, 1000000)), true
		}
		if !ok || gross <= 0 {
			continue
		}
		fees := round2(gross * g.uniform(0.005, 0.025))
		out = append(out, models.Settlement{
			SettlementID:   g.SettlementID(),
			SettlementDate: date,
			GrossAmount:    round2(gross),
			Fees:           fees,
			NetAmount:      round2(gross - fees),
			BankReference:  g.BankReference(),
		})
	}
	return out
}

func (g *Generator) SupportTickets(today time.Time, numDays int) []models.SupportTicket {
	today = DateOf(today)
	start := today.AddDate(0, 0, -numDays)

	out := []models.SupportTicket{}
	for i := 0; i <= numDays; i++ {
		date := start.AddDate(0, 0, i)
		n := 10 + g.rng.Intn(41)
		for j := 0; j < n; j++ {
			ts := date.Add(time.Duration(g.rng.Intn(24))*time.Hour +
				time.Duration(g.rng.Intn(60))*time.Minute)
			out = append(out, models.SupportTicket{
				CaseNumber:        g.CaseNumber(),
				TicketCreatedTime: ts,
				TicketCreatedDate: date,
				Category:          g.TicketCategory(),
				Subject:           g.TicketSubject(),
				CorporateName:     g.CorporateName(),
				ModeOfPayment:     g.TicketMode(),
				ResolutionStatus:  g.Resolution(),
			})
		}
	}
	return out
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
