package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scolaris/school_fees_app/internal/core/domain"
	portsrepo "github.com/scolaris/school_fees_app/internal/core/ports/repositories"
)

type PgxReminderRepository struct {
	BaseRepository
}

// newPgxReminderRepository creates a new repository for reminder log data.
func newPgxReminderRepository(pool *pgxpool.Pool) portsrepo.ReminderRepository {
	return &PgxReminderRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxReminderRepository implements portsrepo.ReminderRepository
var _ portsrepo.ReminderRepository = (*PgxReminderRepository)(nil)

// RecordReminder inserts a reminder log entry. The unique constraint on
// (invoice_id, reminder_date) makes the insert idempotent per invoice per
// day: a conflicting insert is skipped and reported as inserted=false.
func (r *PgxReminderRepository) RecordReminder(ctx context.Context, log domain.ReminderLog) (bool, error) {
	query := `
		INSERT INTO reminder_logs (reminder_id, invoice_id, reminder_date, channel, message, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (invoice_id, reminder_date) DO NOTHING;
	`
	tag, err := r.Pool.Exec(ctx, query,
		log.ReminderID,
		log.InvoiceID,
		log.ReminderDate,
		string(log.Channel),
		log.Message,
		log.CreatedAt,
		log.CreatedBy,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record reminder for invoice %s: %w", log.InvoiceID, mapPgError(err))
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgxReminderRepository) ListRemindersByInvoice(ctx context.Context, invoiceID string) ([]domain.ReminderLog, error) {
	query := `
		SELECT reminder_id, invoice_id, reminder_date, channel, message, created_at, created_by
		FROM reminder_logs
		WHERE invoice_id = $1
		ORDER BY reminder_date DESC;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	logs := []domain.ReminderLog{}
	for rows.Next() {
		var l domain.ReminderLog
		var channel string
		if err := rows.Scan(&l.ReminderID, &l.InvoiceID, &l.ReminderDate, &channel, &l.Message, &l.CreatedAt, &l.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan reminder row: %w", err)
		}
		l.Channel = domain.ReminderChannel(channel)
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminder rows: %w", err)
	}
	return logs, nil
}
