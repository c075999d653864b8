package services

import (
	"context"

	"github.com/scolaris/school_fees_app/internal/core/domain"
	"github.com/scolaris/school_fees_app/internal/dto"
)

// PaymentReaderSvc defines read operations for payment data.
type PaymentReaderSvc interface {
	// GetPaymentByID retrieves a specific payment.
	GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPayments retrieves a filtered, paginated payment listing.
	ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error)
}

// PaymentWriterSvc defines the payment lifecycle operations. Every method
// returns the payment and, when the invoice balance was touched, the invoice
// as of the operation's commit.
type PaymentWriterSvc interface {
	// RecordPayment records a remittance against an invoice. Cash and mobile
	// money payments are validated immediately and applied to the invoice
	// balance atomically; other modes are created PENDING.
	RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, receivedBy string) (*domain.Payment, *domain.Invoice, error)

	// ValidatePayment confirms a PENDING payment and applies its amount to
	// the invoice balance atomically.
	ValidatePayment(ctx context.Context, paymentID string, validatedBy string) (*domain.Payment, *domain.Invoice, error)

	// RejectPayment declines a PENDING payment. The invoice is untouched.
	RejectPayment(ctx context.Context, paymentID string, validatedBy string, reason string) (*domain.Payment, error)

	// CancelPayment voids a PENDING payment or reverses a VALIDATED one.
	CancelPayment(ctx context.Context, paymentID string, reason string, userID string) (*domain.Payment, *domain.Invoice, error)
}

// PaymentSvcFacade combines all payment service interfaces.
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}
