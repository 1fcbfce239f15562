package models

import "time"

// Transaction is one canonical payment attempt. TransactionDate is the
// midnight-truncated TransactionTime.
type Transaction struct {
	TransactionID       string    `json:"transaction_id"`
	MerchantDisplayName string    `json:"merchant_display_name"`
	CustomerID          string    `json:"customer_id"`
	Amount              float64   `json:"amount"`
	PaymentMethod       string    `json:"payment_method"`
	Status              TxnStatus `json:"status"`
	TransactionTime     time.Time `json:"transaction_time"`
	TransactionDate     time.Time `json:"transaction_date"`
	ProductCategory     string    `json:"product_category"`
	City                string    `json:"city"`
	GatewayTimeout      bool      `json:"gateway_timeout"`
	IsAggregator        bool      `json:"is_aggregator"`
	IsReversal          bool      `json:"is_reversal"`
}

type Refund struct {
	RefundID            string       `json:"refund_id"`
	TransactionID       string       `json:"transaction_id"`
	MerchantDisplayName string       `json:"merchant_display_name"`
	Amount              float64      `json:"amount"`
	RefundDate          time.Time    `json:"refund_date"`
	Reason              string       `json:"reason"`
	IsSpikeRelated      bool         `json:"is_spike_related"`
	Status              RefundStatus `json:"status"`
}

type Settlement struct {
	SettlementID   string    `json:"settlement_id"`
	SettlementDate time.Time `json:"settlement_date"`
	GrossAmount    float64   `json:"gross_amount"`
	Fees           float64   `json:"fees"`
	NetAmount      float64   `json:"net_amount"`
	BankReference  string    `json:"bank_reference"`
}

type SupportTicket struct {
	CaseNumber         string    `json:"case_number"`
	TicketCreatedTime  time.Time `json:"ticket_created_time"`
	TicketCreatedDate  time.Time `json:"ticket_created_date"`
	Category           string    `json:"category"`
	Subject            string    `json:"subject"`
	CorporateName      string    `json:"corporate_name"`
	ModeOfPayment      string    `json:"mode_of_payment_for_ticket"`
	ResolutionStatus   string    `json:"resolution_status"`
}

// Customer is derived from the distinct customer ids seen in transactions.
// SignupDate is synthesized; the exports carry no signup information.
type Customer struct {
	CustomerID string    `json:"customer_id"`
	SignupDate time.Time `json:"signup_date"`
}

// TransactionWithCustomer is the left join of Transaction with Customer.
type TransactionWithCustomer struct {
	Transaction
	SignupDate time.Time `json:"signup_date"`
}
