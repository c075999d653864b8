package services

import (
	"context"
	"time"

	"github.com/scolaris/school_fees_app/internal/core/domain"
	"github.com/scolaris/school_fees_app/internal/dto"
)

// OverdueSvcFacade tracks invoices that are past due and drives the
// collections workflow. All listing operations are pure reads.
type OverdueSvcFacade interface {
	// ListOverdue returns issued or partially paid invoices with a due date
	// strictly before asOf and a positive solde, with the overdue total.
	ListOverdue(ctx context.Context, asOf time.Time) (*dto.OverdueListResponse, error)

	// ListUnpaid returns invoices with a positive solde regardless of due
	// date, narrowed by the given filters.
	ListUnpaid(ctx context.Context, params dto.ListUnpaidParams) (*dto.OverdueListResponse, error)

	// ScheduleReminders dispatches a reminder for each invoice that still has
	// a positive solde and was not already reminded today. Returns the number
	// actually sent; safe to re-run for the same day.
	ScheduleReminders(ctx context.Context, invoiceIDs []string, channel domain.ReminderChannel, userID string) (int, error)

	// ListReminders retrieves the reminder history of an invoice, most recent
	// first.
	ListReminders(ctx context.Context, invoiceID string) ([]domain.ReminderLog, error)
}
