package dto

import (
	"time"

	"github.com/scolaris/school_fees_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatisticsParams holds the date range for statistics queries.
// To is exclusive; a missing range defaults to the current month.
type StatisticsParams struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// StatisticsSummaryResponse bundles the ledger statistics for a date range.
type StatisticsSummaryResponse struct {
	From           time.Time                     `json:"from"`
	To             time.Time                     `json:"to"`
	CollectedTotal decimal.Decimal               `json:"collectedTotal"`
	ByMode         []domain.ModeBreakdownRow     `json:"byMode"`
	Pending        domain.PendingTotals          `json:"pending"`
	DailySeries    []domain.DailyCollectionPoint `json:"dailySeries"`
	Invoicing      domain.InvoicingTotals        `json:"invoicing"`
}
