package repositories

import (
	"context"

	"github.com/scolaris/school_fees_app/internal/core/domain"
)

// ReminderRepository persists the reminder log that makes reminder batches
// idempotent per invoice per day.
type ReminderRepository interface {
	// RecordReminder inserts a reminder log entry keyed on
	// (invoice_id, reminder_date). It returns false, without error, when an
	// entry for that invoice and day already exists.
	RecordReminder(ctx context.Context, log domain.ReminderLog) (bool, error)

	// ListRemindersByInvoice retrieves the reminder history of an invoice,
	// most recent first.
	ListRemindersByInvoice(ctx context.Context, invoiceID string) ([]domain.ReminderLog, error)
}
