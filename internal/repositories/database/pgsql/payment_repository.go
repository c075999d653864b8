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

const paymentColumns = `payment_id, reference, invoice_id, student_id, student_database, montant, mode_paiement,
		reference_transaction, bank, check_number, statut, date_paiement, received_by, validated_by, validated_at,
		status_reason, created_at, created_by, last_updated_at, last_updated_by`

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment ledger data.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryWithTx {
	return &PgxPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPaymentRepository implements portsrepo.PaymentRepositoryWithTx
var _ portsrepo.PaymentRepositoryWithTx = (*PgxPaymentRepository)(nil)

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.Reference,
		&m.InvoiceID,
		&m.StudentID,
		&m.StudentDatabase,
		&m.Montant,
		&m.ModePaiement,
		&m.ReferenceTransaction,
		&m.Bank,
		&m.CheckNumber,
		&m.Statut,
		&m.DatePaiement,
		&m.ReceivedBy,
		&m.ValidatedBy,
		&m.ValidatedAt,
		&m.StatusReason,
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

// lockInvoiceForUpdate locks the invoice row for the remainder of the
// transaction and returns its current state. Every balance mutation goes
// through this lock, so two writers against the same invoice serialize.
func lockInvoiceForUpdate(ctx context.Context, tx pgx.Tx, invoiceID string) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1 FOR UPDATE;`
	m, err := scanInvoice(tx.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
		}
		return nil, fmt.Errorf("failed to lock invoice %s: %w", invoiceID, mapPgError(err))
	}
	return m, nil
}

// applyBalanceChange adjusts the locked invoice's paid amount by delta
// (positive to apply a payment, negative to reverse one), recomputes solde
// and the derived status, and returns the invoice as written.
func applyBalanceChange(ctx context.Context, tx pgx.Tx, inv *models.Invoice, delta decimal.Decimal, updatedBy string, at time.Time) (*models.Invoice, error) {
	newPaye := inv.MontantPaye.Add(delta)
	newSolde := inv.MontantTTC.Sub(newPaye)
	newStatut := domain.DeriveInvoiceStatus(inv.MontantTTC, newPaye, domain.InvoiceStatus(inv.Statut))

	query := `
		UPDATE invoices
		SET montant_paye = $1, solde = $2, statut = $3, last_updated_at = $4, last_updated_by = $5
		WHERE invoice_id = $6
		RETURNING ` + invoiceColumns + `;
	`
	m, err := scanInvoice(tx.QueryRow(ctx, query,
		newPaye, newSolde, string(newStatut), at, updatedBy, inv.InvoiceID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to update balance of invoice %s: %w", inv.InvoiceID, mapPgError(err))
	}
	return m, nil
}

// SavePayment inserts a payment against its invoice. The invoice row is
// locked first: the student reference is copied from it under the lock, the
// amount is re-checked against the remaining solde, and when apply is true
// (auto-validating modes) the balance change commits atomically with the
// insert.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment, apply bool) (*domain.Payment, *domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	inv, err := lockInvoiceForUpdate(ctx, tx, payment.InvoiceID)
	if err != nil {
		return nil, nil, err
	}

	switch domain.InvoiceStatus(inv.Statut) {
	case domain.InvoiceIssued, domain.InvoicePartiallyPaid:
		// payable
	case domain.InvoiceDraft:
		return nil, nil, fmt.Errorf("%w: invoice %s is not issued yet", apperrors.ErrConflict, inv.InvoiceID)
	default:
		return nil, nil, fmt.Errorf("%w: invoice %s is %s", apperrors.ErrConflict, inv.InvoiceID, inv.Statut)
	}

	// Authoritative overpayment check, under the lock. The service layer
	// pre-checks too, but only this one counts when writers race.
	if payment.Montant.GreaterThan(inv.Solde) {
		return nil, nil, fmt.Errorf("%w: payment of %s exceeds remaining balance %s on invoice %s",
			apperrors.ErrValidation, payment.Montant.String(), inv.Solde.String(), inv.InvoiceID)
	}

	m := mapping.ToModelPayment(payment)
	// The student reference is denormalized from the invoice row read under
	// the lock, never trusted from the caller.
	m.StudentID = inv.StudentID
	m.StudentDatabase = inv.StudentDatabase

	insertQuery := `
		INSERT INTO payments (
			payment_id, reference, invoice_id, student_id, student_database, montant, mode_paiement,
			reference_transaction, bank, check_number, statut, date_paiement, received_by, validated_by, validated_at,
			status_reason, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES (
			$1,
			'PAY-' || lpad(nextval('payment_reference_seq')::text, 6, '0'),
			$2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
		)
		RETURNING ` + paymentColumns + `;
	`
	saved, err := scanPayment(tx.QueryRow(ctx, insertQuery,
		m.PaymentID,
		m.InvoiceID,
		m.StudentID,
		m.StudentDatabase,
		m.Montant,
		m.ModePaiement,
		m.ReferenceTransaction,
		m.Bank,
		m.CheckNumber,
		m.Statut,
		m.DatePaiement,
		m.ReceivedBy,
		m.ValidatedBy,
		m.ValidatedAt,
		m.StatusReason,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert payment %s: %w", m.PaymentID, mapPgError(err))
	}

	if apply {
		inv, err = applyBalanceChange(ctx, tx, inv, payment.Montant, payment.ReceivedBy, payment.CreatedAt)
		if err != nil {
			return nil, nil, err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}

	domainPayment := mapping.ToDomainPayment(*saved)
	domainInvoice := mapping.ToDomainInvoice(*inv)
	return &domainPayment, &domainInvoice, nil
}

// ValidatePayment transitions a PENDING payment to VALIDATED and applies its
// amount to the invoice balance in the same transaction.
func (r *PgxPaymentRepository) ValidatePayment(ctx context.Context, paymentID string, validatedBy string, at time.Time) (*domain.Payment, *domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	p, err := r.lockPaymentForUpdate(ctx, tx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	if domain.PaymentStatus(p.Statut) != domain.PaymentPending {
		return nil, nil, fmt.Errorf("%w: payment %s is %s, not PENDING", apperrors.ErrConflict, paymentID, p.Statut)
	}

	inv, err := lockInvoiceForUpdate(ctx, tx, p.InvoiceID)
	if err != nil {
		return nil, nil, err
	}
	if domain.InvoiceStatus(inv.Statut) == domain.InvoiceCancelled {
		return nil, nil, fmt.Errorf("%w: invoice %s is cancelled", apperrors.ErrConflict, inv.InvoiceID)
	}
	if p.Montant.GreaterThan(inv.Solde) {
		// Another payment settled the invoice while this one was pending.
		return nil, nil, fmt.Errorf("%w: payment of %s exceeds remaining balance %s on invoice %s",
			apperrors.ErrValidation, p.Montant.String(), inv.Solde.String(), inv.InvoiceID)
	}

	updateQuery := `
		UPDATE payments
		SET statut = $1, validated_by = $2, validated_at = $3, last_updated_at = $3, last_updated_by = $2
		WHERE payment_id = $4
		RETURNING ` + paymentColumns + `;
	`
	p, err = scanPayment(tx.QueryRow(ctx, updateQuery, string(domain.PaymentValidated), validatedBy, at, paymentID))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to validate payment %s: %w", paymentID, mapPgError(err))
	}

	inv, err = applyBalanceChange(ctx, tx, inv, p.Montant, validatedBy, at)
	if err != nil {
		return nil, nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}

	domainPayment := mapping.ToDomainPayment(*p)
	domainInvoice := mapping.ToDomainInvoice(*inv)
	return &domainPayment, &domainInvoice, nil
}

// RejectPayment transitions a PENDING payment to REJECTED. The invoice
// balance is untouched: a pending payment never contributed to it.
func (r *PgxPaymentRepository) RejectPayment(ctx context.Context, paymentID string, rejectedBy string, reason string, at time.Time) (*domain.Payment, error) {
	query := `
		UPDATE payments
		SET statut = $1, status_reason = $2, last_updated_at = $3, last_updated_by = $4
		WHERE payment_id = $5 AND statut = $6
		RETURNING ` + paymentColumns + `;
	`
	p, err := scanPayment(r.Pool.QueryRow(ctx, query,
		string(domain.PaymentRejected), reason, at, rejectedBy, paymentID, string(domain.PaymentPending),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, findErr := r.FindPaymentByID(ctx, paymentID); findErr != nil {
				return nil, findErr
			}
			return nil, fmt.Errorf("%w: payment %s is not PENDING", apperrors.ErrConflict, paymentID)
		}
		return nil, fmt.Errorf("failed to reject payment %s: %w", paymentID, mapPgError(err))
	}
	domainPayment := mapping.ToDomainPayment(*p)
	return &domainPayment, nil
}

// CancelPayment voids a PENDING payment or reverses a VALIDATED one. A
// reversal subtracts the amount from the invoice balance under the invoice
// row lock, in the same transaction as the payment status change.
func (r *PgxPaymentRepository) CancelPayment(ctx context.Context, paymentID string, cancelledBy string, reason string, at time.Time) (*domain.Payment, *domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	p, err := r.lockPaymentForUpdate(ctx, tx, paymentID)
	if err != nil {
		return nil, nil, err
	}

	wasValidated := false
	switch domain.PaymentStatus(p.Statut) {
	case domain.PaymentPending:
	case domain.PaymentValidated:
		wasValidated = true
	default:
		return nil, nil, fmt.Errorf("%w: payment %s is %s", apperrors.ErrConflict, paymentID, p.Statut)
	}

	inv, err := lockInvoiceForUpdate(ctx, tx, p.InvoiceID)
	if err != nil {
		return nil, nil, err
	}

	updateQuery := `
		UPDATE payments
		SET statut = $1, status_reason = $2, last_updated_at = $3, last_updated_by = $4
		WHERE payment_id = $5
		RETURNING ` + paymentColumns + `;
	`
	p, err = scanPayment(tx.QueryRow(ctx, updateQuery,
		string(domain.PaymentCancelled), reason, at, cancelledBy, paymentID,
	))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to cancel payment %s: %w", paymentID, mapPgError(err))
	}

	if wasValidated {
		inv, err = applyBalanceChange(ctx, tx, inv, p.Montant.Neg(), cancelledBy, at)
		if err != nil {
			return nil, nil, err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}

	domainPayment := mapping.ToDomainPayment(*p)
	domainInvoice := mapping.ToDomainInvoice(*inv)
	return &domainPayment, &domainInvoice, nil
}

func (r *PgxPaymentRepository) lockPaymentForUpdate(ctx context.Context, tx pgx.Tx, paymentID string) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1 FOR UPDATE;`
	p, err := scanPayment(tx.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock payment %s: %w", paymentID, mapPgError(err))
	}
	return p, nil
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	p, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by ID %s: %w", paymentID, err)
	}
	domainPayment := mapping.ToDomainPayment(*p)
	return &domainPayment, nil
}

// ListPayments retrieves a filtered page of payments ordered by
// (date_paiement DESC, created_at DESC), with token-based pagination.
func (r *PgxPaymentRepository) ListPayments(ctx context.Context, filter portsrepo.PaymentFilter) ([]domain.Payment, *string, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE 1=1`
	args := []interface{}{}
	argN := 1

	addArg := func(clause string, value interface{}) {
		query += fmt.Sprintf(clause, argN)
		args = append(args, value)
		argN++
	}

	if filter.InvoiceID != "" {
		addArg(" AND invoice_id = $%d", filter.InvoiceID)
	}
	if filter.StudentID != "" {
		addArg(" AND student_id = $%d", filter.StudentID)
	}
	if filter.StudentDatabase != "" {
		addArg(" AND student_database = $%d", string(filter.StudentDatabase))
	}
	if filter.Statut != "" {
		addArg(" AND statut = $%d", string(filter.Statut))
	}
	if filter.Mode != "" {
		addArg(" AND mode_paiement = $%d", string(filter.Mode))
	}
	if filter.From != nil {
		addArg(" AND date_paiement >= $%d", *filter.From)
	}
	if filter.To != nil {
		addArg(" AND date_paiement < $%d", *filter.To)
	}

	if filter.NextToken != nil && *filter.NextToken != "" {
		lastDate, lastCreated, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += fmt.Sprintf(" AND (date_paiement, created_at) < ($%d, $%d)", argN, argN+1)
		args = append(args, lastDate, lastCreated)
		argN += 2
	}

	query += fmt.Sprintf(" ORDER BY date_paiement DESC, created_at DESC LIMIT $%d;", argN)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0, limit)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, mapping.ToDomainPayment(*p))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate payment rows: %w", err)
	}

	var nextToken *string
	if len(payments) > limit {
		payments = payments[:limit]
		last := payments[len(payments)-1]
		token := pagination.EncodeToken(last.DatePaiement, last.CreatedAt)
		nextToken = &token
	}
	return payments, nextToken, nil
}
