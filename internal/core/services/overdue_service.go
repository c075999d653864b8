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

// OverdueService drives the collections workflow: overdue listings and
// idempotent reminder batches.
type OverdueService struct {
	invoiceRepo     portsrepo.InvoiceRepositoryWithTx
	reminderRepo    portsrepo.ReminderRepository
	dispatcher      portssvc.ReminderDispatcher
	studentResolver portssvc.StudentResolverSvc
	defaultChannel  domain.ReminderChannel
}

// NewOverdueService creates a new overdue/collections service.
func NewOverdueService(
	invoiceRepo portsrepo.InvoiceRepositoryWithTx,
	reminderRepo portsrepo.ReminderRepository,
	dispatcher portssvc.ReminderDispatcher,
	studentResolver portssvc.StudentResolverSvc,
	defaultChannel domain.ReminderChannel,
) *OverdueService {
	if defaultChannel == "" {
		defaultChannel = domain.ChannelSMS
	}
	return &OverdueService{
		invoiceRepo:     invoiceRepo,
		reminderRepo:    reminderRepo,
		dispatcher:      dispatcher,
		studentResolver: studentResolver,
		defaultChannel:  defaultChannel,
	}
}

// Ensure OverdueService implements portssvc.OverdueSvcFacade
var _ portssvc.OverdueSvcFacade = (*OverdueService)(nil)

// ListOverdue returns invoices past due as of the given date, with the total
// outstanding solde.
func (s *OverdueService) ListOverdue(ctx context.Context, asOf time.Time) (*dto.OverdueListResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoices, err := s.invoiceRepo.ListOverdueInvoices(ctx, asOf)
	if err != nil {
		logger.Error("Failed to list overdue invoices", slog.String("error", err.Error()))
		return nil, err
	}

	total := decimal.Zero
	for i := range invoices {
		total = total.Add(invoices[i].Solde)
		identity := s.studentResolver.Resolve(ctx, invoices[i].StudentRef)
		invoices[i].Student = &identity
	}

	return &dto.OverdueListResponse{
		Invoices:   dto.ToInvoiceResponses(invoices),
		TotalSolde: total,
	}, nil
}

// ListUnpaid returns invoices with an open balance regardless of due date.
func (s *OverdueService) ListUnpaid(ctx context.Context, params dto.ListUnpaidParams) (*dto.OverdueListResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	filter := portsrepo.InvoiceFilter{
		SchoolYearID:    params.SchoolYearID,
		StudentDatabase: params.StudentDatabase,
		Type:            params.Type,
		UnpaidOnly:      true,
		Limit:           params.Limit,
		NextToken:       params.NextToken,
	}

	invoices, nextToken, err := s.invoiceRepo.ListInvoices(ctx, filter)
	if err != nil {
		logger.Error("Failed to list unpaid invoices", slog.String("error", err.Error()))
		return nil, err
	}

	total := decimal.Zero
	for i := range invoices {
		total = total.Add(invoices[i].Solde)
		identity := s.studentResolver.Resolve(ctx, invoices[i].StudentRef)
		invoices[i].Student = &identity
	}

	return &dto.OverdueListResponse{
		Invoices:   dto.ToInvoiceResponses(invoices),
		TotalSolde: total,
		NextToken:  nextToken,
	}, nil
}

// ScheduleReminders sends one reminder per invoice that still has a positive
// solde and was not already reminded today. The (invoice, day) uniqueness in
// the reminder log makes re-runs for the same day no-ops.
func (s *OverdueService) ScheduleReminders(ctx context.Context, invoiceIDs []string, channel domain.ReminderChannel, userID string) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(invoiceIDs) == 0 {
		return 0, fmt.Errorf("%w: no invoices given", apperrors.ErrValidation)
	}
	if channel == "" {
		channel = s.defaultChannel
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	sent := 0

	for _, invoiceID := range invoiceIDs {
		invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Skipping reminder for unknown invoice", slog.String("invoice_id", invoiceID))
				continue
			}
			return sent, err
		}

		// Settled, cancelled and draft invoices need no reminding.
		if invoice.Statut != domain.InvoiceIssued && invoice.Statut != domain.InvoicePartiallyPaid {
			continue
		}
		if !invoice.Solde.GreaterThan(decimal.Zero) {
			continue
		}

		message := fmt.Sprintf("Invoice %s: %s remaining, due %s",
			invoice.Number, invoice.Solde.String(), dueDateLabel(invoice.DateEcheance))

		inserted, err := s.reminderRepo.RecordReminder(ctx, domain.ReminderLog{
			ReminderID:   uuid.NewString(),
			InvoiceID:    invoiceID,
			ReminderDate: today,
			Channel:      channel,
			Message:      message,
			CreatedAt:    time.Now(),
			CreatedBy:    userID,
		})
		if err != nil {
			logger.Error("Failed to record reminder", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
			return sent, err
		}
		if !inserted {
			// Already reminded today.
			continue
		}

		if s.dispatcher != nil {
			if err := s.dispatcher.Dispatch(ctx, invoiceID, channel, message); err != nil {
				// The log entry stands: the day's slot is consumed even if
				// delivery failed, so a retry batch does not double-send.
				logger.Warn("Reminder dispatch failed", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
			}
		}
		sent++
	}

	logger.Info("Reminder batch processed", slog.Int("requested", len(invoiceIDs)), slog.Int("sent", sent))
	return sent, nil
}

// ListReminders retrieves the reminder history of an invoice.
func (s *OverdueService) ListReminders(ctx context.Context, invoiceID string) ([]domain.ReminderLog, error) {
	return s.reminderRepo.ListRemindersByInvoice(ctx, invoiceID)
}

func dueDateLabel(due *time.Time) string {
	if due == nil {
		return "on receipt"
	}
	return due.Format("2006-01-02")
}
