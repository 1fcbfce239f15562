package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EntityMapping is the declared contract between one export file and the
// canonical schema: which file to read, which canonical column anchors the
// time series, and how source column names map onto canonical ones.
type EntityMapping struct {
	File       string            `yaml:"file"`
	DateColumn string            `yaml:"date_column"`
	Renames    map[string]string `yaml:"renames"`
}

type Mappings struct {
	Version        int           `yaml:"version"`
	Transactions   EntityMapping `yaml:"transactions"`
	Refunds        EntityMapping `yaml:"refunds"`
	Settlements    EntityMapping `yaml:"settlements"`
	SupportTickets EntityMapping `yaml:"support_tickets"`
}

// Canonical column sets per entity. Rename targets are validated against
// these, and anything listed here but absent after reconciliation gets
// backfilled.
var (
	transactionColumns = []string{
		"transaction_id", "merchant_display_name", "customer_id", "amount",
		"payment_method", "status", "transaction_time", "product_category",
		"city", "gateway_timeout", "is_aggregator", "is_reversal",
	}
	refundColumns = []string{
		"refund_id", "transaction_id", "merchant_display_name", "amount",
		"refund_date", "reason", "is_spike_related", "status",
	}
	settlementColumns = []string{
		"settlement_id", "settlement_date", "gross_amount", "fees",
		"net_amount", "bank_reference",
	}
	supportColumns = []string{
		"case_number", "ticket_created_time", "category", "subject",
		"corporate_name", "mode_of_payment_for_ticket", "resolution_status",
	}
)

// DefaultMappings mirrors the column layout of the reference gateway export
// (settlement_data.csv doubles as the transaction source).
func DefaultMappings() Mappings {
	return Mappings{
		Version: 1,
		Transactions: EntityMapping{
			File:       "settlement_data.csv",
			DateColumn: "transaction_time",
			Renames: map[string]string{
				"axis_payout_created": "transaction_time",
				"txn_status_name":     "status",
				"payment_mode_name":   "payment_method",
			},
		},
		Refunds: EntityMapping{
			File:       "txn_refunds.csv",
			DateColumn: "refund_date",
			Renames: map[string]string{
				"txn_completion_date_time": "refund_date",
				"txn_status_name":          "status",
			},
		},
		Settlements: EntityMapping{
			File:       "settlement_data.csv",
			DateColumn: "settlement_date",
			Renames: map[string]string{
				"axis_payout_created":   "settlement_date",
				"settlement_amount":     "net_amount",
				"amount":                "gross_amount",
				"mdr_charge":            "fees",
				"bank_reference_number": "bank_reference",
				"transaction_id":        "settlement_id",
			},
		},
		SupportTickets: EntityMapping{
			File:       "support_data.csv",
			DateColumn: "ticket_created_time",
			Renames: map[string]string{
				"Date/Time":       "ticket_created_time",
				"Case Number":     "case_number",
				"Category":        "category",
				"Subject":         "subject",
				"Corporate Name":  "corporate_name",
				"Mode of Payment": "mode_of_payment_for_ticket",
				"Resolution":      "resolution_status",
			},
		},
	}
}

// LoadMappings reads a YAML override, or returns the defaults when path is
// empty. The result is validated against the canonical schema either way.
func LoadMappings(path string) (Mappings, error) {
	if path == "" {
		return DefaultMappings(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Mappings{}, fmt.Errorf("read schema mappings: %w", err)
	}
	var m Mappings
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return Mappings{}, fmt.Errorf("parse schema mappings: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Mappings{}, err
	}
	return m, nil
}

func (m Mappings) Validate() error {
	if m.Version != 1 {
		return fmt.Errorf("unsupported schema mapping version %d", m.Version)
	}
	checks := []struct {
		name      string
		em        EntityMapping
		canonical []string
	}{
		{"transactions", m.Transactions, transactionColumns},
		{"refunds", m.Refunds, refundColumns},
		{"settlements", m.Settlements, settlementColumns},
		{"support_tickets", m.SupportTickets, supportColumns},
	}
	for _, c := range checks {
		if c.em.File == "" {
			return fmt.Errorf("%s: missing file", c.name)
		}
		if c.em.DateColumn == "" {
			return fmt.Errorf("%s: missing date_column", c.name)
		}
		if !contains(c.canonical, c.em.DateColumn) {
			return fmt.Errorf("%s: date_column %q is not a canonical column", c.name, c.em.DateColumn)
		}
		for src, dst := range c.em.Renames {
			if !contains(c.canonical, dst) {
				return fmt.Errorf("%s: rename %q -> %q targets a non-canonical column", c.name, src, dst)
			}
		}
	}
	return nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
