package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/scolaris/school_fees_app/internal/apperrors"
	"github.com/scolaris/school_fees_app/internal/core/domain"
	portsrepo "github.com/scolaris/school_fees_app/internal/core/ports/repositories"
	portssvc "github.com/scolaris/school_fees_app/internal/core/ports/services"
	"github.com/scolaris/school_fees_app/internal/dto"
	"github.com/scolaris/school_fees_app/internal/middleware"
)

// PaymentService implements the payment ledger over the payment repository.
// The service does the fast, user-facing checks; the repository repeats the
// authoritative ones under the invoice row lock.
type PaymentService struct {
	paymentRepo portsrepo.PaymentRepositoryWithTx
	invoiceRepo portsrepo.InvoiceRepositoryWithTx
	auditSink   portssvc.AuditSink
	renderer    portssvc.ReceiptRenderer
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	paymentRepo portsrepo.PaymentRepositoryWithTx,
	invoiceRepo portsrepo.InvoiceRepositoryWithTx,
	auditSink portssvc.AuditSink,
	renderer portssvc.ReceiptRenderer,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		auditSink:   auditSink,
		renderer:    renderer,
	}
}

// Ensure PaymentService implements portssvc.PaymentSvcFacade
var _ portssvc.PaymentSvcFacade = (*PaymentService)(nil)

// RecordPayment records a remittance against an invoice. Auto-validating
// modes (cash, mobile money) are created VALIDATED and applied to the invoice
// balance in the same transaction; other modes are created PENDING.
func (s *PaymentService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, receivedBy string) (*domain.Payment, *domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Montant.GreaterThan(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: montant must be positive", apperrors.ErrValidation)
	}
	if req.ModePaiement == domain.ModeCheck && req.CheckNumber == "" {
		return nil, nil, fmt.Errorf("%w: checkNumber is required for check payments", apperrors.ErrValidation)
	}
	if req.DatePaiement.After(time.Now()) {
		return nil, nil, fmt.Errorf("%w: datePaiement cannot be in the future", apperrors.ErrValidation)
	}

	// Fast pre-check against the current invoice state; the repository
	// repeats it under the row lock, which is the one that counts.
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, req.InvoiceID)
	if err != nil {
		return nil, nil, err
	}
	switch invoice.Statut {
	case domain.InvoiceIssued, domain.InvoicePartiallyPaid:
	case domain.InvoiceDraft:
		return nil, nil, fmt.Errorf("%w: invoice %s is not issued yet", apperrors.ErrConflict, invoice.InvoiceID)
	default:
		return nil, nil, fmt.Errorf("%w: invoice %s is %s", apperrors.ErrConflict, invoice.InvoiceID, invoice.Statut)
	}
	if req.Montant.GreaterThan(invoice.Solde) {
		return nil, nil, fmt.Errorf("%w: payment of %s exceeds remaining balance %s",
			apperrors.ErrValidation, req.Montant.String(), invoice.Solde.String())
	}

	now := time.Now()
	autoValidate := req.ModePaiement.AutoValidates()

	payment := domain.Payment{
		PaymentID:    uuid.NewString(),
		InvoiceID:    req.InvoiceID,
		StudentRef:   invoice.StudentRef,
		Montant:      req.Montant,
		ModePaiement: req.ModePaiement,
		ModeDetails: domain.ModeDetails{
			ReferenceTransaction: req.ReferenceTransaction,
			Bank:                 req.Bank,
			CheckNumber:          req.CheckNumber,
		},
		Statut:       domain.PaymentPending,
		DatePaiement: req.DatePaiement,
		ReceivedBy:   receivedBy,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     receivedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: receivedBy,
		},
	}
	if autoValidate {
		payment.Statut = domain.PaymentValidated
		payment.ValidatedBy = &receivedBy
		payment.ValidatedAt = &now
	}

	saved, updatedInvoice, err := s.paymentRepo.SavePayment(ctx, payment, autoValidate)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to save payment", slog.String("error", err.Error()), slog.String("invoice_id", req.InvoiceID))
		}
		return nil, nil, err
	}

	s.audit(ctx, receivedBy, domain.AuditPaymentRecorded, saved.PaymentID, nil, saved)
	logger.Info("Payment recorded",
		slog.String("payment_id", saved.PaymentID),
		slog.String("reference", saved.Reference),
		slog.String("statut", string(saved.Statut)),
		slog.String("invoice_statut", string(updatedInvoice.Statut)))

	if saved.Statut == domain.PaymentValidated {
		s.renderReceipt(ctx, *saved, *updatedInvoice)
	}
	return saved, updatedInvoice, nil
}

// ValidatePayment confirms a PENDING payment, applying its amount to the
// invoice balance atomically.
func (s *PaymentService) ValidatePayment(ctx context.Context, paymentID string, validatedBy string) (*domain.Payment, *domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	before, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}

	payment, invoice, err := s.paymentRepo.ValidatePayment(ctx, paymentID, validatedBy, time.Now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrValidation) {
			logger.Error("Failed to validate payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		}
		return nil, nil, err
	}

	s.audit(ctx, validatedBy, domain.AuditPaymentValidated, paymentID, before, payment)
	logger.Info("Payment validated",
		slog.String("payment_id", paymentID),
		slog.String("invoice_id", payment.InvoiceID),
		slog.String("invoice_statut", string(invoice.Statut)))

	s.renderReceipt(ctx, *payment, *invoice)
	return payment, invoice, nil
}

// RejectPayment declines a PENDING payment. The invoice is untouched.
func (s *PaymentService) RejectPayment(ctx context.Context, paymentID string, rejectedBy string, reason string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if reason == "" {
		return nil, fmt.Errorf("%w: a rejection reason is required", apperrors.ErrValidation)
	}

	before, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.RejectPayment(ctx, paymentID, rejectedBy, reason, time.Now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to reject payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		}
		return nil, err
	}

	s.audit(ctx, rejectedBy, domain.AuditPaymentRejected, paymentID, before, payment)
	logger.Info("Payment rejected", slog.String("payment_id", paymentID), slog.String("reason", reason))
	return payment, nil
}

// CancelPayment voids a PENDING payment or reverses a VALIDATED one,
// restoring the invoice balance in the latter case.
func (s *PaymentService) CancelPayment(ctx context.Context, paymentID string, reason string, userID string) (*domain.Payment, *domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if reason == "" {
		return nil, nil, fmt.Errorf("%w: a cancellation reason is required", apperrors.ErrValidation)
	}

	before, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}

	payment, invoice, err := s.paymentRepo.CancelPayment(ctx, paymentID, userID, reason, time.Now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to cancel payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		}
		return nil, nil, err
	}

	s.audit(ctx, userID, domain.AuditPaymentCancelled, paymentID, before, payment)
	logger.Info("Payment cancelled",
		slog.String("payment_id", paymentID),
		slog.String("reason", reason),
		slog.String("invoice_statut", string(invoice.Statut)))
	return payment, invoice, nil
}

// GetPaymentByID retrieves a specific payment.
func (s *PaymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find payment by ID in repository", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		}
		return nil, err
	}
	return payment, nil
}

// ListPayments retrieves a filtered, token-paginated payment listing.
func (s *PaymentService) ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	filter := portsrepo.PaymentFilter{
		InvoiceID:       params.InvoiceID,
		StudentID:       params.StudentID,
		StudentDatabase: params.StudentDatabase,
		Statut:          params.Statut,
		Mode:            params.Mode,
		From:            params.From,
		To:              params.To,
		Limit:           params.Limit,
		NextToken:       params.NextToken,
	}

	payments, nextToken, err := s.paymentRepo.ListPayments(ctx, filter)
	if err != nil {
		logger.Error("Failed to list payments from repository", slog.String("error", err.Error()))
		return nil, err
	}

	return &dto.ListPaymentsResponse{
		Payments:  dto.ToPaymentResponses(payments),
		NextToken: nextToken,
	}, nil
}

func (s *PaymentService) renderReceipt(ctx context.Context, payment domain.Payment, invoice domain.Invoice) {
	if s.renderer == nil {
		return
	}
	if err := s.renderer.RenderPaymentReceipt(ctx, payment, invoice); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Receipt rendering failed",
			slog.String("error", err.Error()), slog.String("payment_id", payment.PaymentID))
	}
}

func (s *PaymentService) audit(ctx context.Context, actor string, action domain.AuditAction, entityID string, before, after interface{}) {
	recordAudit(ctx, s.auditSink, actor, action, "payment", entityID, before, after)
}
