package services

import (
	"context"
	"time"

	"github.com/scolaris/school_fees_app/internal/core/domain"
	"github.com/scolaris/school_fees_app/internal/dto"
	"github.com/shopspring/decimal"
)

// StatisticsSvcFacade aggregates collected, pending and overdue totals for
// reporting. Read-only and tolerant of snapshot staleness.
type StatisticsSvcFacade interface {
	// CollectedTotal sums validated payments with date_paiement in [from, to).
	CollectedTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error)

	// ByPaymentMode breaks validated payments in [from, to) down per mode.
	ByPaymentMode(ctx context.Context, from, to time.Time) ([]domain.ModeBreakdownRow, error)

	// PendingTotal counts and sums payments awaiting validation.
	PendingTotal(ctx context.Context) (domain.PendingTotals, error)

	// DailySeries groups validated payments in [from, to) by day, ascending.
	DailySeries(ctx context.Context, from, to time.Time) ([]domain.DailyCollectionPoint, error)

	// InvoicingTotals sums montant_ttc over non-cancelled invoices and solde
	// over the overdue set.
	InvoicingTotals(ctx context.Context) (domain.InvoicingTotals, error)

	// Summary bundles all of the above for one date range.
	Summary(ctx context.Context, from, to time.Time) (*dto.StatisticsSummaryResponse, error)
}
