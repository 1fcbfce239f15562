package dataset

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"merchantpulse/backend/models"
)

// DateRange is the observed min/max of a required date column. Valid is
// false for an empty table.
type DateRange struct {
	Min   time.Time
	Max   time.Time
	Valid bool
}

func (r DateRange) Contains(d time.Time) bool {
	return r.Valid && !d.Before(r.Min) && !d.After(r.Max)
}

func rangeOf(dates []time.Time) DateRange {
	if len(dates) == 0 {
		return DateRange{}
	}
	r := DateRange{Min: dates[0], Max: dates[0], Valid: true}
	for _, d := range dates[1:] {
		if d.Before(r.Min) {
			r.Min = d
		}
		if d.After(r.Max) {
			r.Max = d
		}
	}
	return r
}

// Snapshot is the canonical dataset: every table fully typed and schema
// complete, built once and never mutated. Readers hold a *Snapshot and are
// unaffected by reloads.
type Snapshot struct {
	ID                string
	BuiltAt           time.Time
	Transactions      []models.Transaction
	Refunds           []models.Refund
	Settlements       []models.Settlement
	SupportTickets    []models.SupportTicket
	Customers         []models.Customer
	TxnsWithCustomers []models.TransactionWithCustomer
	TxnRange          DateRange
	RefundRange       DateRange
}

// Build runs the full ingestion pipeline: load, reconcile, parse dates,
// backfill, fall back to synthetic tables where a source is unusable, then
// derive the customer table and the transaction-customer join.
func Build(m Mappings, dir string, gen *Generator, today time.Time) *Snapshot {
	txns := buildTransactions(filepath.Join(dir, m.Transactions.File), m.Transactions, gen, today)
	refunds := buildRefunds(filepath.Join(dir, m.Refunds.File), m.Refunds, gen, today, txns)
	settlements := buildSettlements(filepath.Join(dir, m.Settlements.File), m.Settlements, gen, today, txns)
	tickets := buildSupportTickets(filepath.Join(dir, m.SupportTickets.File), m.SupportTickets, gen, today)
	customers, joined := deriveCustomers(txns, gen, today)

	snap := &Snapshot{
		ID:                uuid.NewString(),
		BuiltAt:           time.Now(),
		Transactions:      txns,
		Refunds:           refunds,
		Settlements:       settlements,
		SupportTickets:    tickets,
		Customers:         customers,
		TxnsWithCustomers: joined,
	}
	txnDates := make([]time.Time, len(txns))
	for i, t := range txns {
		txnDates[i] = t.TransactionDate
	}
	refundDates := make([]time.Time, len(refunds))
	for i, r := range refunds {
		refundDates[i] = r.RefundDate
	}
	snap.TxnRange = rangeOf(txnDates)
	snap.RefundRange = rangeOf(refundDates)
	return snap
}

// loadUsable runs the load/reconcile/parse ladder shared by every entity.
func loadUsable(path string, em EntityMapping) (*Table, []time.Time, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, nil, err
	}
	if err := Reconcile(t, em); err != nil {
		return nil, nil, err
	}
	times := ResolveTimestamps(t, em.DateColumn)
	if len(times) == 0 {
		return nil, nil, fmt.Errorf("%w: %s has no parseable %s values", ErrUnavailable, path, em.DateColumn)
	}
	return t, times, nil
}

func buildTransactions(path string, em EntityMapping, gen *Generator, today time.Time) []models.Transaction {
	t, times, err := loadUsable(path, em)
	if err != nil {
		log.Printf("transactions: %v; substituting synthetic table", err)
		return gen.Transactions(today, 60, 500)
	}
	logMissing("transactions", t, transactionColumns)

	seen := map[string]struct{}{}
	out := make([]models.Transaction, 0, len(t.Rows))
	for i, row := range t.Rows {
		id := keyField(t, row, "transaction_id", gen.TransactionID)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		status := models.TxnUnknown
		if t.HasColumn("status") {
			status = models.ClassifyTxnStatus(row["status"])
		}
		out = append(out, models.Transaction{
			TransactionID:       id,
			MerchantDisplayName: stringField(t, row, "merchant_display_name", gen.MerchantName),
			CustomerID:          stringField(t, row, "customer_id", gen.CustomerID),
			Amount:              toAmount(row["amount"]),
			PaymentMethod:       stringField(t, row, "payment_method", gen.PaymentMethod),
			Status:              status,
			TransactionTime:     times[i],
			TransactionDate:     DateOf(times[i]),
			ProductCategory:     stringField(t, row, "product_category", gen.ProductCategory),
			City:                stringField(t, row, "city", gen.City),
			GatewayTimeout:      boolField(t, row, "gateway_timeout"),
			IsAggregator:        boolField(t, row, "is_aggregator"),
			IsReversal:          boolField(t, row, "is_reversal"),
		})
	}
	return out
}

func buildRefunds(path string, em EntityMapping, gen *Generator, today time.Time, txns []models.Transaction) []models.Refund {
	t, times, err := loadUsable(path, em)
	if err != nil {
		log.Printf("refunds: %v; substituting synthetic table", err)
		return gen.Refunds(today, txns)
	}
	logMissing("refunds", t, refundColumns)

	seen := map[string]struct{}{}
	out := make([]models.Refund, 0, len(t.Rows))
	for i, row := range t.Rows {
		id := keyField(t, row, "refund_id", gen.RefundID)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		status := models.RefundUnknown
		if t.HasColumn("status") {
			status = models.ClassifyRefundStatus(row["status"])
		}
		out = append(out, models.Refund{
			RefundID:            id,
			TransactionID:       stringField(t, row, "transaction_id", gen.TransactionID),
			MerchantDisplayName: stringField(t, row, "merchant_display_name", gen.MerchantName),
			Amount:              toAmount(row["amount"]),
			RefundDate:          DateOf(times[i]),
			Reason:              stringField(t, row, "reason", gen.RefundReason),
			IsSpikeRelated:      boolField(t, row, "is_spike_related"),
			Status:              status,
		})
	}
	return out
}

func buildSettlements(path string, em EntityMapping, gen *Generator, today time.Time, txns []models.Transaction) []models.Settlement {
	t, times, err := loadUsable(path, em)
	if err != nil {
		log.Printf("settlements: %v; substituting synthetic table", err)
		return gen.Settlements(today, txns, 60)
	}
	logMissing("settlements", t, settlementColumns)

	hasGross := t.HasColumn("gross_amount")
	hasFees := t.HasColumn("fees")
	hasNet := t.HasColumn("net_amount")

	seen := map[string]struct{}{}
	out := make([]models.Settlement, 0, len(t.Rows))
	for i, row := range t.Rows {
		id := keyField(t, row, "settlement_id", gen.SettlementID)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		var gross, fees, net float64
		if hasNet {
			net = toAmount(row["net_amount"])
		}
		if hasGross {
			gross = toAmount(row["gross_amount"])
		} else {
			// estimate gross from net at a plausible markup
			gross = round2(net * gen.uniform(1.01, 1.05))
		}
		if hasFees {
			fees = toAmount(row["fees"])
		} else if hasGross && hasNet && gross >= net {
			fees = round2(gross - net)
		} else {
			fees = round2(net * gen.uniform(0.005, 0.025))
		}
		if !hasNet && gross >= fees {
			net = round2(gross - fees)
		}

		out = append(out, models.Settlement{
			SettlementID:   id,
			SettlementDate: DateOf(times[i]),
			GrossAmount:    gross,
			Fees:           fees,
			NetAmount:      net,
			BankReference:  stringField(t, row, "bank_reference", gen.BankReference),
		})
	}
	return out
}

func buildSupportTickets(path string, em EntityMapping, gen *Generator, today time.Time) []models.SupportTicket {
	t, times, err := loadUsable(path, em)
	if err != nil {
		log.Printf("support tickets: %v; substituting synthetic table", err)
		return gen.SupportTickets(today, 60)
	}
	logMissing("support tickets", t, supportColumns)

	seen := map[string]struct{}{}
	out := make([]models.SupportTicket, 0, len(t.Rows))
	for i, row := range t.Rows {
		id := keyField(t, row, "case_number", gen.CaseNumber)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		out = append(out, models.SupportTicket{
			CaseNumber:        id,
			TicketCreatedTime: times[i],
			TicketCreatedDate: DateOf(times[i]),
			Category:          stringField(t, row, "category", gen.TicketCategory),
			Subject:           stringField(t, row, "subject", gen.TicketSubject),
			CorporateName:     stringField(t, row, "corporate_name", gen.CorporateName),
			ModeOfPayment:     stringField(t, row, "mode_of_payment_for_ticket", gen.TicketMode),
			ResolutionStatus:  stringField(t, row, "resolution_status", gen.Resolution),
		})
	}
	return out
}

// deriveCustomers builds the distinct-customer table (synthetic signup
// dates) and the transaction-customer left join, preserving first-seen
// order for reproducibility.
func deriveCustomers(txns []models.Transaction, gen *Generator, today time.Time) ([]models.Customer, []models.TransactionWithCustomer) {
	signup := map[string]time.Time{}
	customers := []models.Customer{}
	for _, t := range txns {
		if _, ok := signup[t.CustomerID]; ok {
			continue
		}
		d := gen.SignupDate(today)
		signup[t.CustomerID] = d
		customers = append(customers, models.Customer{CustomerID: t.CustomerID, SignupDate: d})
	}
	joined := make([]models.TransactionWithCustomer, len(txns))
	for i, t := range txns {
		joined[i] = models.TransactionWithCustomer{Transaction: t, SignupDate: signup[t.CustomerID]}
	}
	return customers, joined
}

// stringField reads a value from a column that survived reconciliation, or
// backfills when the whole column is absent. Present columns are never
// overwritten, even when their values look suspicious.
func stringField(t *Table, row map[string]string, col string, fill func() string) string {
	if t.HasColumn(col) {
		return row[col]
	}
	return fill()
}

// keyField is stringField for primary keys: blank key cells are also
// filled so the uniqueness invariant can hold.
func keyField(t *Table, row map[string]string, col string, fill func() string) string {
	if t.HasColumn(col) {
		if v := strings.TrimSpace(row[col]); v != "" {
			return v
		}
	}
	return fill()
}

func boolField(t *Table, row map[string]string, col string) bool {
	if !t.HasColumn(col) {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(row[col])) {
	case "true", "t", "1", "yes", "y":
		return true
	}
	return false
}

// toAmount coerces free-form money text to a non-negative float. Currency
// symbols and grouping separators are stripped; failures and negatives
// become 0, never null.
func toAmount(s string) float64 {
	cleaned := make([]rune, 0, len(s))
	for _, ch := range s {
		if (ch >= '0' && ch <= '9') || ch == '.' || ch == '-' {
			cleaned = append(cleaned, ch)
		}
	}
	if len(cleaned) == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(string(cleaned), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func logMissing(entity string, t *Table, canonical []string) {
	for _, col := range canonical {
		if !t.HasColumn(col) {
			log.Printf("%s: column %q absent, backfilling", entity, col)
		}
	}
}
