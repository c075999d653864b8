package repositories

import (
	"context"
	"time"

	"github.com/scolaris/school_fees_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatisticsRepository aggregates ledger data for reporting. All methods are
// read-only; staleness under default isolation is acceptable.
type StatisticsRepository interface {
	// CollectedTotal sums validated payment amounts with date_paiement in [from, to).
	CollectedTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error)

	// ByPaymentMode breaks down validated payments in [from, to) per mode.
	ByPaymentMode(ctx context.Context, from, to time.Time) ([]domain.ModeBreakdownRow, error)

	// PendingTotals counts and sums payments still awaiting validation.
	PendingTotals(ctx context.Context) (domain.PendingTotals, error)

	// DailySeries groups validated payments in [from, to) by day, ascending.
	DailySeries(ctx context.Context, from, to time.Time) ([]domain.DailyCollectionPoint, error)

	// InvoicingTotals sums montant_ttc over non-cancelled invoices and solde
	// over the overdue set as of asOf.
	InvoicingTotals(ctx context.Context, asOf time.Time) (domain.InvoicingTotals, error)
}
