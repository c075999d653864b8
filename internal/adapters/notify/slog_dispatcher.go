// Package notify holds the outbound reminder dispatch adapters. The ledger
// only records that a reminder was sent; delivery is someone else's job.
package notify

import (
	"context"
	"log/slog"

	"github.com/scolaris/school_fees_app/internal/core/domain"
	portssvc "github.com/scolaris/school_fees_app/internal/core/ports/services"
)

// SlogDispatcher writes reminder dispatches to the structured log. It stands
// in for a real SMS/email gateway in deployments that have none; the log line
// is the integration point for log-shipping based notifiers.
type SlogDispatcher struct {
	logger *slog.Logger
}

// NewSlogDispatcher creates a log-backed reminder dispatcher.
func NewSlogDispatcher(logger *slog.Logger) *SlogDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogDispatcher{logger: logger}
}

// Ensure SlogDispatcher implements portssvc.ReminderDispatcher
var _ portssvc.ReminderDispatcher = (*SlogDispatcher)(nil)

func (d *SlogDispatcher) Dispatch(ctx context.Context, invoiceID string, channel domain.ReminderChannel, message string) error {
	d.logger.InfoContext(ctx, "Reminder dispatched",
		slog.String("invoice_id", invoiceID),
		slog.String("channel", string(channel)),
		slog.String("message", message),
	)
	return nil
}
