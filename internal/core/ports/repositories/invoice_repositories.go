package repositories

import (
	"context"
	"time"

	"github.com/scolaris/school_fees_app/internal/core/domain"
)

// InvoiceFilter narrows invoice listings. Zero values mean "no filter".
type InvoiceFilter struct {
	SchoolYearID    string
	StudentID       string
	StudentDatabase domain.StudentStore
	Type            domain.InvoiceType
	Statut          domain.InvoiceStatus
	UnpaidOnly      bool // solde > 0, regardless of due date
	Limit           int
	NextToken       *string
}

// InvoiceReader defines read operations for invoice data.
type InvoiceReader interface {
	// FindInvoiceByID retrieves a specific invoice by its unique identifier.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// FindInvoicesByIDs retrieves multiple invoices keyed by id.
	FindInvoicesByIDs(ctx context.Context, invoiceIDs []string) (map[string]domain.Invoice, error)

	// ListInvoices retrieves a filtered, token-paginated list of invoices.
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, *string, error)

	// ListOverdueInvoices retrieves issued or partially paid invoices whose due
	// date is strictly before asOf and whose solde is positive.
	ListOverdueInvoices(ctx context.Context, asOf time.Time) ([]domain.Invoice, error)
}

// InvoiceWriter defines write operations for invoice data. Balance fields
// (montant_paye, solde) are deliberately absent: only the payment repository
// mutates them, inside payment transactions.
type InvoiceWriter interface {
	// SaveInvoice persists a new invoice and assigns its sequential number.
	SaveInvoice(ctx context.Context, invoice *domain.Invoice) error

	// MarkInvoiceIssued transitions a DRAFT invoice to ISSUED. Returns
	// apperrors.ErrConflict when the invoice is not in DRAFT.
	MarkInvoiceIssued(ctx context.Context, invoiceID string, updatedBy string, at time.Time) (*domain.Invoice, error)

	// CancelInvoice transitions a non-cancelled invoice with no recorded
	// montant_paye to CANCELLED, voiding its balance. Returns
	// apperrors.ErrConflict when payments exist or the invoice is already
	// cancelled.
	CancelInvoice(ctx context.Context, invoiceID string, reason string, updatedBy string, at time.Time) (*domain.Invoice, error)
}

// InvoiceRepositoryFacade combines all invoice repository interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}

// InvoiceRepositoryWithTx extends InvoiceRepositoryFacade with transaction capabilities.
type InvoiceRepositoryWithTx interface {
	InvoiceRepositoryFacade
	TransactionManager
}
