package services

import (
	"context"

	"github.com/scolaris/school_fees_app/internal/core/domain"
	"github.com/scolaris/school_fees_app/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoice data.
type InvoiceReaderSvc interface {
	// GetInvoiceByID retrieves a specific invoice, decorated with the
	// resolved student identity.
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a filtered, paginated invoice listing.
	ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)
}

// InvoiceWriterSvc defines the invoice lifecycle operations.
type InvoiceWriterSvc interface {
	// CreateInvoice creates a new invoice in DRAFT (or directly ISSUED) with
	// a freshly assigned sequential number.
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error)

	// IssueInvoice transitions a DRAFT invoice to ISSUED, optionally seeding
	// reminder checkpoints with the external dispatcher.
	IssueInvoice(ctx context.Context, invoiceID string, createReminderSchedule bool, userID string) (*domain.Invoice, error)

	// CancelInvoice soft-retires an invoice. Invoices with recorded payments
	// cannot be cancelled; their payments must be cancelled individually
	// first.
	CancelInvoice(ctx context.Context, invoiceID string, reason string, userID string) (*domain.Invoice, error)
}

// InvoiceSvcFacade combines all invoice service interfaces.
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
}
