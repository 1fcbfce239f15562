package models

import "strings"

type TxnStatus string

const (
	TxnSuccess TxnStatus = "Success"
	TxnFailed  TxnStatus = "Failed"
	TxnPending TxnStatus = "Pending"
	TxnUnknown TxnStatus = "Unknown"
)

type RefundStatus string

const (
	RefundCompleted RefundStatus = "Completed"
	RefundFailed    RefundStatus = "Failed"
	RefundPending   RefundStatus = "Pending"
	RefundUnknown   RefundStatus = "Unknown"
)

var txnSuccessKeywords = []string{"SUCCESS", "SETTLED", "COMPLETED", "CAPTURED"}

var refundCompletedKeywords = []string{"COMPLETED", "SUCCESS", "REFUNDED"}

// ClassifyTxnStatus maps whatever status text a gateway export carries onto
// the canonical transaction statuses. Raw text never leaks through.
func ClassifyTxnStatus(raw string) TxnStatus {
	u := strings.ToUpper(raw)
	for _, k := range txnSuccessKeywords {
		if strings.Contains(u, k) {
			return TxnSuccess
		}
	}
	if strings.Contains(u, "FAILED") || strings.Contains(u, "DECLINED") {
		return TxnFailed
	}
	return TxnPending
}

// ClassifyRefundStatus is the refund-side variant of ClassifyTxnStatus.
func ClassifyRefundStatus(raw string) RefundStatus {
	u := strings.ToUpper(raw)
	for _, k := range refundCompletedKeywords {
		if strings.Contains(u, k) {
			return RefundCompleted
		}
	}
	if strings.Contains(u, "FAILED") || strings.Contains(u, "DECLINED") {
		return RefundFailed
	}
	return RefundPending
}
