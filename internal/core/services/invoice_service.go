package services

import (
	"context"
	"encoding/json"
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

// InvoiceService implements the invoice lifecycle over the invoice repository.
type InvoiceService struct {
	invoiceRepo     portsrepo.InvoiceRepositoryWithTx
	studentResolver portssvc.StudentResolverSvc
	auditSink       portssvc.AuditSink
	renderer        portssvc.ReceiptRenderer
	dispatcher      portssvc.ReminderDispatcher
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryWithTx,
	studentResolver portssvc.StudentResolverSvc,
	auditSink portssvc.AuditSink,
	renderer portssvc.ReceiptRenderer,
	dispatcher portssvc.ReminderDispatcher,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:     invoiceRepo,
		studentResolver: studentResolver,
		auditSink:       auditSink,
		renderer:        renderer,
		dispatcher:      dispatcher,
	}
}

// Ensure InvoiceService implements portssvc.InvoiceSvcFacade
var _ portssvc.InvoiceSvcFacade = (*InvoiceService)(nil)

// CreateInvoice creates a new invoice. The invoice starts in DRAFT unless the
// request asks for immediate issue. MontantPaye starts at zero and Solde at
// MontantTTC; only the payment ledger moves them afterwards.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.ValidStudentStore(req.StudentDatabase) {
		return nil, fmt.Errorf("%w: unknown student store %q", apperrors.ErrValidation, req.StudentDatabase)
	}
	if !req.MontantTTC.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: montantTTC must be positive", apperrors.ErrValidation)
	}
	if req.MontantHT.IsNegative() || req.MontantHT.GreaterThan(req.MontantTTC) {
		return nil, fmt.Errorf("%w: montantHT must be between 0 and montantTTC", apperrors.ErrValidation)
	}
	if req.DateEcheance != nil && req.DateEcheance.Before(req.DateEmission) {
		return nil, fmt.Errorf("%w: dateEcheance cannot precede dateEmission", apperrors.ErrValidation)
	}

	now := time.Now()
	statut := domain.InvoiceDraft
	if req.IssueImmediately {
		statut = domain.InvoiceIssued
	}

	invoice := domain.Invoice{
		InvoiceID: uuid.NewString(),
		StudentRef: domain.StudentRef{
			StudentID:       req.StudentID,
			StudentDatabase: req.StudentDatabase,
		},
		SchoolYearID: req.SchoolYearID,
		EnrollmentID: req.EnrollmentID,
		Type:         req.Type,
		MontantHT:    req.MontantHT,
		MontantTTC:   req.MontantTTC,
		MontantPaye:  decimal.Zero,
		Solde:        req.MontantTTC,
		Statut:       statut,
		DateEmission: req.DateEmission,
		DateEcheance: req.DateEcheance,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, &invoice); err != nil {
		logger.Error("Failed to save invoice in repository", slog.String("error", err.Error()), slog.String("invoice_id", invoice.InvoiceID))
		return nil, err
	}

	s.audit(ctx, creatorUserID, domain.AuditInvoiceCreated, invoice.InvoiceID, nil, invoice)
	logger.Info("Invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("number", invoice.Number), slog.String("statut", string(invoice.Statut)))

	if invoice.Statut == domain.InvoiceIssued {
		s.renderInvoice(ctx, invoice)
	}
	return &invoice, nil
}

// IssueInvoice transitions a DRAFT invoice to ISSUED.
func (s *InvoiceService) IssueInvoice(ctx context.Context, invoiceID string, createReminderSchedule bool, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	before, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	issued, err := s.invoiceRepo.MarkInvoiceIssued(ctx, invoiceID, userID, time.Now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to issue invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}

	s.audit(ctx, userID, domain.AuditInvoiceIssued, invoiceID, before, issued)
	logger.Info("Invoice issued", slog.String("invoice_id", invoiceID), slog.String("number", issued.Number))

	if createReminderSchedule && issued.DateEcheance != nil && s.dispatcher != nil {
		// Announce the due date to the notification side so it can seed its
		// own checkpoints. Best-effort: the ledger does not track the
		// schedule itself, only the reminders actually sent.
		msg := fmt.Sprintf("Invoice %s due on %s", issued.Number, issued.DateEcheance.Format("2006-01-02"))
		if err := s.dispatcher.Dispatch(ctx, invoiceID, domain.ChannelEmail, msg); err != nil {
			logger.Warn("Failed to seed reminder schedule", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		}
	}

	s.renderInvoice(ctx, *issued)
	return issued, nil
}

// CancelInvoice soft-retires an invoice that has no live payments.
func (s *InvoiceService) CancelInvoice(ctx context.Context, invoiceID string, reason string, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	before, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	cancelled, err := s.invoiceRepo.CancelInvoice(ctx, invoiceID, reason, userID, time.Now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to cancel invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}

	s.audit(ctx, userID, domain.AuditInvoiceCancelled, invoiceID, before, cancelled)
	logger.Info("Invoice cancelled", slog.String("invoice_id", invoiceID), slog.String("reason", reason))
	return cancelled, nil
}

// GetInvoiceByID retrieves an invoice decorated with the resolved student
// identity.
func (s *InvoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find invoice by ID in repository", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}

	identity := s.studentResolver.Resolve(ctx, invoice.StudentRef)
	invoice.Student = &identity
	return invoice, nil
}

// ListInvoices retrieves a filtered, token-paginated invoice listing with
// student identities resolved per row.
func (s *InvoiceService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	filter := portsrepo.InvoiceFilter{
		SchoolYearID:    params.SchoolYearID,
		StudentID:       params.StudentID,
		StudentDatabase: params.StudentDatabase,
		Type:            params.Type,
		Statut:          params.Statut,
		UnpaidOnly:      params.UnpaidOnly,
		Limit:           params.Limit,
		NextToken:       params.NextToken,
	}

	invoices, nextToken, err := s.invoiceRepo.ListInvoices(ctx, filter)
	if err != nil {
		logger.Error("Failed to list invoices from repository", slog.String("error", err.Error()))
		return nil, err
	}

	for i := range invoices {
		identity := s.studentResolver.Resolve(ctx, invoices[i].StudentRef)
		invoices[i].Student = &identity
	}

	return &dto.ListInvoicesResponse{
		Invoices:  dto.ToInvoiceResponses(invoices),
		NextToken: nextToken,
	}, nil
}

func (s *InvoiceService) renderInvoice(ctx context.Context, invoice domain.Invoice) {
	if s.renderer == nil {
		return
	}
	if err := s.renderer.RenderInvoiceDocument(ctx, invoice); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Invoice document rendering failed",
			slog.String("error", err.Error()), slog.String("invoice_id", invoice.InvoiceID))
	}
}

func (s *InvoiceService) audit(ctx context.Context, actor string, action domain.AuditAction, entityID string, before, after interface{}) {
	recordAudit(ctx, s.auditSink, actor, action, "invoice", entityID, before, after)
}

// recordAudit snapshots before/after as JSON and hands the record to the
// sink. Failures are logged and swallowed: auditing never blocks the ledger.
func recordAudit(ctx context.Context, sink portssvc.AuditSink, actor string, action domain.AuditAction, entityType, entityID string, before, after interface{}) {
	if sink == nil {
		return
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	record := domain.AuditRecord{
		AuditID:    uuid.NewString(),
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Timestamp:  time.Now(),
	}
	if before != nil {
		if b, err := json.Marshal(before); err == nil {
			record.Before = b
		}
	}
	if after != nil {
		if a, err := json.Marshal(after); err == nil {
			record.After = a
		}
	}

	if err := sink.Record(ctx, record); err != nil {
		logger.Warn("Failed to record audit entry",
			slog.String("error", err.Error()),
			slog.String("action", string(action)),
			slog.String("entity_id", entityID))
	}
}
