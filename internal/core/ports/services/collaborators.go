package services

import (
	"context"

	"github.com/scolaris/school_fees_app/internal/core/domain"
)

// ReceiptRenderer is the external document rendering collaborator. Rendering
// happens after the ledger mutation commits and is best-effort: a rendering
// failure is logged and never rolls anything back.
type ReceiptRenderer interface {
	// RenderPaymentReceipt produces a receipt document for a validated payment.
	RenderPaymentReceipt(ctx context.Context, payment domain.Payment, invoice domain.Invoice) error

	// RenderInvoiceDocument produces the printable document for an issued invoice.
	RenderInvoiceDocument(ctx context.Context, invoice domain.Invoice) error
}

// ReminderDispatcher is the external notification collaborator. Dispatch is
// fire-and-forget: delivery failures are logged, not retried by the ledger.
type ReminderDispatcher interface {
	Dispatch(ctx context.Context, invoiceID string, channel domain.ReminderChannel, message string) error
}

// AuditSink receives one record per state-changing ledger operation. Sink
// failures are soft: logged, never propagated into the mutation.
type AuditSink interface {
	Record(ctx context.Context, record domain.AuditRecord) error
}
