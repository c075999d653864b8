package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/scolaris/school_fees_app/internal/core/domain"
	portsrepo "github.com/scolaris/school_fees_app/internal/core/ports/repositories"
)

// statisticsRepository implements the StatisticsRepository interface
type statisticsRepository struct {
	BaseRepository
}

// newStatisticsRepository creates a new reporting repository over the ledger.
func newStatisticsRepository(pool *pgxpool.Pool) portsrepo.StatisticsRepository {
	return &statisticsRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure statisticsRepository implements portsrepo.StatisticsRepository
var _ portsrepo.StatisticsRepository = (*statisticsRepository)(nil)

func (r *statisticsRepository) CollectedTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(montant), 0)
		FROM payments
		WHERE statut = $1 AND date_paiement >= $2 AND date_paiement < $3;
	`
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, string(domain.PaymentValidated), from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error querying collected total: %w", err)
	}
	return total, nil
}

func (r *statisticsRepository) ByPaymentMode(ctx context.Context, from, to time.Time) ([]domain.ModeBreakdownRow, error) {
	query := `
		SELECT mode_paiement, COUNT(*), COALESCE(SUM(montant), 0)
		FROM payments
		WHERE statut = $1 AND date_paiement >= $2 AND date_paiement < $3
		GROUP BY mode_paiement
		ORDER BY mode_paiement;
	`
	rows, err := r.Pool.Query(ctx, query, string(domain.PaymentValidated), from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying payment mode breakdown: %w", err)
	}
	defer rows.Close()

	result := []domain.ModeBreakdownRow{}
	for rows.Next() {
		var row domain.ModeBreakdownRow
		var mode string
		if err := rows.Scan(&mode, &row.Count, &row.Total); err != nil {
			return nil, fmt.Errorf("error scanning payment mode row: %w", err)
		}
		row.Mode = domain.PaymentMode(mode)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment mode rows: %w", err)
	}
	return result, nil
}

func (r *statisticsRepository) PendingTotals(ctx context.Context) (domain.PendingTotals, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(montant), 0)
		FROM payments
		WHERE statut = $1;
	`
	var totals domain.PendingTotals
	err := r.Pool.QueryRow(ctx, query, string(domain.PaymentPending)).Scan(&totals.Count, &totals.Total)
	if err != nil {
		return domain.PendingTotals{}, fmt.Errorf("error querying pending totals: %w", err)
	}
	return totals, nil
}

func (r *statisticsRepository) DailySeries(ctx context.Context, from, to time.Time) ([]domain.DailyCollectionPoint, error) {
	query := `
		SELECT date_trunc('day', date_paiement) AS day, COALESCE(SUM(montant), 0), COUNT(*)
		FROM payments
		WHERE statut = $1 AND date_paiement >= $2 AND date_paiement < $3
		GROUP BY day
		ORDER BY day ASC;
	`
	rows, err := r.Pool.Query(ctx, query, string(domain.PaymentValidated), from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying daily collection series: %w", err)
	}
	defer rows.Close()

	result := []domain.DailyCollectionPoint{}
	for rows.Next() {
		var point domain.DailyCollectionPoint
		if err := rows.Scan(&point.Date, &point.Total, &point.Count); err != nil {
			return nil, fmt.Errorf("error scanning daily collection row: %w", err)
		}
		result = append(result, point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily collection rows: %w", err)
	}
	return result, nil
}

func (r *statisticsRepository) InvoicingTotals(ctx context.Context, asOf time.Time) (domain.InvoicingTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(montant_ttc) FILTER (WHERE statut <> $1), 0) AS total_invoiced,
			COALESCE(SUM(solde) FILTER (
				WHERE statut IN ($2, $3) AND date_echeance IS NOT NULL AND date_echeance < $4 AND solde > 0
			), 0) AS total_overdue
		FROM invoices;
	`
	var totals domain.InvoicingTotals
	err := r.Pool.QueryRow(ctx, query,
		string(domain.InvoiceCancelled),
		string(domain.InvoiceIssued),
		string(domain.InvoicePartiallyPaid),
		asOf,
	).Scan(&totals.TotalInvoiced, &totals.TotalOverdue)
	if err != nil {
		return domain.InvoicingTotals{}, fmt.Errorf("error querying invoicing totals: %w", err)
	}
	return totals, nil
}
