package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ModeBreakdownRow aggregates validated payments for one payment mode.
type ModeBreakdownRow struct {
	Mode  PaymentMode     `json:"mode"`
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// PendingTotals aggregates payments still awaiting validation.
type PendingTotals struct {
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// DailyCollectionPoint is one day of validated collections.
type DailyCollectionPoint struct {
	Date  time.Time       `json:"date"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// InvoicingTotals summarises the invoice side of the ledger.
type InvoicingTotals struct {
	TotalInvoiced decimal.Decimal `json:"totalInvoiced"` // sum of montant_ttc over non-cancelled invoices
	TotalOverdue  decimal.Decimal `json:"totalOverdue"`  // sum of solde over the overdue set
}
