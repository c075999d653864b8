package repositories

import (
	"context"
	"time"

	"github.com/scolaris/school_fees_app/internal/core/domain"
)

// PaymentFilter narrows payment listings. Zero values mean "no filter".
type PaymentFilter struct {
	InvoiceID       string
	StudentID       string
	StudentDatabase domain.StudentStore
	Statut          domain.PaymentStatus
	Mode            domain.PaymentMode
	From            *time.Time // date_paiement range, inclusive
	To              *time.Time // date_paiement range, exclusive
	Limit           int
	NextToken       *string
}

// PaymentReader defines read operations for payment data.
type PaymentReader interface {
	// FindPaymentByID retrieves a specific payment by its unique identifier.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPayments retrieves a filtered, token-paginated list of payments.
	ListPayments(ctx context.Context, filter PaymentFilter) ([]domain.Payment, *string, error)
}

// PaymentWriter defines the write operations of the payment ledger. Every
// method that touches an invoice balance runs in a single database
// transaction that locks the invoice row (SELECT ... FOR UPDATE), re-checks
// the solde under the lock, applies the change and recomputes the invoice
// status before committing. Two concurrent writers against the same invoice
// therefore serialize; the loser of a balance race gets
// apperrors.ErrValidation, contention maps to apperrors.ErrConcurrency.
type PaymentWriter interface {
	// SavePayment inserts a payment, copying the student reference from the
	// parent invoice inside the transaction. When apply is true the payment
	// is being created VALIDATED and its amount is applied to the invoice
	// balance atomically. Returns the persisted payment (with its generated
	// reference) and the invoice as of commit.
	SavePayment(ctx context.Context, payment domain.Payment, apply bool) (*domain.Payment, *domain.Invoice, error)

	// ValidatePayment transitions a PENDING payment to VALIDATED and applies
	// its amount to the invoice balance atomically. Returns
	// apperrors.ErrConflict when the payment is not PENDING.
	ValidatePayment(ctx context.Context, paymentID string, validatedBy string, at time.Time) (*domain.Payment, *domain.Invoice, error)

	// RejectPayment transitions a PENDING payment to REJECTED. The invoice is
	// untouched: a pending payment never contributed to the balance.
	RejectPayment(ctx context.Context, paymentID string, rejectedBy string, reason string, at time.Time) (*domain.Payment, error)

	// CancelPayment voids a PENDING payment or reverses a VALIDATED one,
	// restoring the invoice balance atomically in the latter case. Returns
	// apperrors.ErrConflict for REJECTED or already CANCELLED payments.
	CancelPayment(ctx context.Context, paymentID string, cancelledBy string, reason string, at time.Time) (*domain.Payment, *domain.Invoice, error)
}

// PaymentRepositoryFacade combines all payment repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}

// PaymentRepositoryWithTx extends PaymentRepositoryFacade with transaction capabilities.
type PaymentRepositoryWithTx interface {
	PaymentRepositoryFacade
	TransactionManager
}
