package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/scolaris/school_fees_app/internal/apperrors"
	"github.com/scolaris/school_fees_app/internal/core/domain"
	portsrepo "github.com/scolaris/school_fees_app/internal/core/ports/repositories"
	"github.com/scolaris/school_fees_app/internal/models"
	"github.com/scolaris/school_fees_app/internal/utils/mapping"
	"github.com/scolaris/school_fees_app/internal/utils/pagination"
)

const invoiceColumns = `invoice_id, number, student_id, student_database, school_year_id, enrollment_id, type,
		montant_ht, montant_ttc, montant_paye, solde, statut, date_emission, date_echeance, cancel_reason,
		created_at, created_by, last_updated_at, last_updated_by`

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoice data.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryWithTx {
	return &PgxInvoiceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryWithTx
var _ portsrepo.InvoiceRepositoryWithTx = (*PgxInvoiceRepository)(nil)

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.Number,
		&m.StudentID,
		&m.StudentDatabase,
		&m.SchoolYearID,
		&m.EnrollmentID,
		&m.Type,
		&m.MontantHT,
		&m.MontantTTC,
		&m.MontantPaye,
		&m.Solde,
		&m.Statut,
		&m.DateEmission,
		&m.DateEcheance,
		&m.CancelReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveInvoice persists a new invoice. The sequential invoice number
// (FAC-<year>-<seq>) is assigned by the database from a per-deployment
// sequence so that concurrent inserts never collide.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice *domain.Invoice) error {
	m := mapping.ToModelInvoice(*invoice)
	query := `
		INSERT INTO invoices (
			invoice_id, number, student_id, student_database, school_year_id, enrollment_id, type,
			montant_ht, montant_ttc, montant_paye, solde, statut, date_emission, date_echeance, cancel_reason,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES (
			$1,
			'FAC-' || extract(year from $11::timestamptz)::text || '-' || lpad(nextval('invoice_number_seq')::text, 5, '0'),
			$2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)
		RETURNING number;
	`
	err := r.Pool.QueryRow(ctx, query,
		m.InvoiceID,
		m.StudentID,
		m.StudentDatabase,
		m.SchoolYearID,
		m.EnrollmentID,
		m.Type,
		m.MontantHT,
		m.MontantTTC,
		m.MontantPaye,
		m.Solde,
		m.Statut,
		m.DateEmission,
		m.DateEcheance,
		m.CancelReason,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	).Scan(&invoice.Number)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to insert invoice %s: %w", m.InvoiceID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert invoice %s: %w", m.InvoiceID, mapPgError(err))
	}
	return nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by ID %s: %w", invoiceID, err)
	}
	inv := mapping.ToDomainInvoice(*m)
	return &inv, nil
}

func (r *PgxInvoiceRepository) FindInvoicesByIDs(ctx context.Context, invoiceIDs []string) (map[string]domain.Invoice, error) {
	if len(invoiceIDs) == 0 {
		return map[string]domain.Invoice{}, nil
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices by IDs: %w", err)
	}
	defer rows.Close()

	result := make(map[string]domain.Invoice, len(invoiceIDs))
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		result[m.InvoiceID] = mapping.ToDomainInvoice(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoice rows: %w", err)
	}
	return result, nil
}

// ListInvoices retrieves a filtered page of invoices ordered by
// (date_emission DESC, created_at DESC), with token-based pagination.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, filter portsrepo.InvoiceFilter) ([]domain.Invoice, *string, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE 1=1`
	args := []interface{}{}
	argN := 1

	addArg := func(clause string, value interface{}) {
		query += fmt.Sprintf(clause, argN)
		args = append(args, value)
		argN++
	}

	if filter.SchoolYearID != "" {
		addArg(" AND school_year_id = $%d", filter.SchoolYearID)
	}
	if filter.StudentID != "" {
		addArg(" AND student_id = $%d", filter.StudentID)
	}
	if filter.StudentDatabase != "" {
		addArg(" AND student_database = $%d", string(filter.StudentDatabase))
	}
	if filter.Type != "" {
		addArg(" AND type = $%d", string(filter.Type))
	}
	if filter.Statut != "" {
		addArg(" AND statut = $%d", string(filter.Statut))
	}
	if filter.UnpaidOnly {
		query += fmt.Sprintf(" AND statut IN ('%s', '%s') AND solde > 0", domain.InvoiceIssued, domain.InvoicePartiallyPaid)
	}

	if filter.NextToken != nil && *filter.NextToken != "" {
		lastDate, lastCreated, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += fmt.Sprintf(" AND (date_emission, created_at) < ($%d, $%d)", argN, argN+1)
		args = append(args, lastDate, lastCreated)
		argN += 2
	}

	// Fetch one extra row to detect whether another page exists.
	query += fmt.Sprintf(" ORDER BY date_emission DESC, created_at DESC LIMIT $%d;", argN)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices := make([]domain.Invoice, 0, limit)
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, mapping.ToDomainInvoice(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate invoice rows: %w", err)
	}

	var nextToken *string
	if len(invoices) > limit {
		invoices = invoices[:limit]
		last := invoices[len(invoices)-1]
		token := pagination.EncodeToken(last.DateEmission, last.CreatedAt)
		nextToken = &token
	}
	return invoices, nextToken, nil
}

// ListOverdueInvoices retrieves open invoices whose due date is strictly
// before asOf, oldest due date first.
func (r *PgxInvoiceRepository) ListOverdueInvoices(ctx context.Context, asOf time.Time) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE statut IN ($1, $2)
			AND date_echeance IS NOT NULL
			AND date_echeance < $3
			AND solde > 0
		ORDER BY date_echeance ASC, created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, string(domain.InvoiceIssued), string(domain.InvoicePartiallyPaid), asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue invoices: %w", err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overdue invoice row: %w", err)
		}
		invoices = append(invoices, mapping.ToDomainInvoice(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overdue invoice rows: %w", err)
	}
	return invoices, nil
}

// MarkInvoiceIssued transitions a DRAFT invoice to ISSUED.
func (r *PgxInvoiceRepository) MarkInvoiceIssued(ctx context.Context, invoiceID string, updatedBy string, at time.Time) (*domain.Invoice, error) {
	query := `
		UPDATE invoices
		SET statut = $1, last_updated_at = $2, last_updated_by = $3
		WHERE invoice_id = $4 AND statut = $5
		RETURNING ` + invoiceColumns + `;
	`
	m, err := scanInvoice(r.Pool.QueryRow(ctx, query,
		string(domain.InvoiceIssued), at, updatedBy, invoiceID, string(domain.InvoiceDraft),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the invoice does not exist or it is not in DRAFT.
			if _, findErr := r.FindInvoiceByID(ctx, invoiceID); findErr != nil {
				return nil, findErr
			}
			return nil, fmt.Errorf("%w: invoice %s is not in DRAFT", apperrors.ErrConflict, invoiceID)
		}
		return nil, fmt.Errorf("failed to issue invoice %s: %w", invoiceID, mapPgError(err))
	}
	inv := mapping.ToDomainInvoice(*m)
	return &inv, nil
}

// CancelInvoice transitions an invoice to CANCELLED. The invoice row is
// locked and the absence of live payments re-checked under the lock, so a
// concurrent payment insert and a cancellation serialize.
func (r *PgxInvoiceRepository) CancelInvoice(ctx context.Context, invoiceID string, reason string, updatedBy string, at time.Time) (*domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1 FOR UPDATE;`
	m, err := scanInvoice(tx.QueryRow(ctx, lockQuery, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock invoice %s: %w", invoiceID, mapPgError(err))
	}

	if domain.InvoiceStatus(m.Statut) == domain.InvoiceCancelled {
		return nil, fmt.Errorf("%w: invoice %s is already cancelled", apperrors.ErrConflict, invoiceID)
	}
	if m.MontantPaye.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: invoice %s has validated payments", apperrors.ErrConflict, invoiceID)
	}

	// Pending payments block cancellation too: they must be rejected or
	// cancelled first so no money is left dangling against a void invoice.
	var liveCount int64
	countQuery := `SELECT count(*) FROM payments WHERE invoice_id = $1 AND statut IN ($2, $3);`
	if err := tx.QueryRow(ctx, countQuery, invoiceID, string(domain.PaymentPending), string(domain.PaymentValidated)).Scan(&liveCount); err != nil {
		return nil, fmt.Errorf("failed to count live payments for invoice %s: %w", invoiceID, err)
	}
	if liveCount > 0 {
		return nil, fmt.Errorf("%w: invoice %s has %d live payments", apperrors.ErrConflict, invoiceID, liveCount)
	}

	updateQuery := `
		UPDATE invoices
		SET statut = $1, solde = 0, cancel_reason = $2, last_updated_at = $3, last_updated_by = $4
		WHERE invoice_id = $5
		RETURNING ` + invoiceColumns + `;
	`
	m, err = scanInvoice(tx.QueryRow(ctx, updateQuery,
		string(domain.InvoiceCancelled), reason, at, updatedBy, invoiceID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to cancel invoice %s: %w", invoiceID, mapPgError(err))
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	inv := mapping.ToDomainInvoice(*m)
	return &inv, nil
}
