package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/scolaris/school_fees_app/internal/apperrors"
	"github.com/scolaris/school_fees_app/internal/core/domain"
	portsrepo "github.com/scolaris/school_fees_app/internal/core/ports/repositories"
	portssvc "github.com/scolaris/school_fees_app/internal/core/ports/services"
	"github.com/scolaris/school_fees_app/internal/core/services"
)

type OverdueServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo  *MockInvoiceRepository
	mockReminderRepo *MockReminderRepository
	mockDispatcher   *MockReminderDispatcher
	mockDirectory    *MockStudentDirectory
	service          portssvc.OverdueSvcFacade
}

func (suite *OverdueServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockReminderRepo = new(MockReminderRepository)
	suite.mockDispatcher = new(MockReminderDispatcher)
	suite.mockDirectory = new(MockStudentDirectory)

	resolver := services.NewStudentResolverService(map[domain.StudentStore]portsrepo.StudentDirectory{
		domain.StoreSeniorCycle: suite.mockDirectory,
	})
	suite.service = services.NewOverdueService(suite.mockInvoiceRepo, suite.mockReminderRepo, suite.mockDispatcher, resolver, domain.ChannelSMS)
}

func overdueInvoice(solde int64) domain.Invoice {
	due := time.Now().AddDate(0, 0, -10)
	return domain.Invoice{
		InvoiceID:    uuid.NewString(),
		Number:       "FAC-2025-00011",
		StudentRef:   domain.StudentRef{StudentID: "STU-9", StudentDatabase: domain.StoreSeniorCycle},
		MontantTTC:   decimal.NewFromInt(solde),
		Solde:        decimal.NewFromInt(solde),
		Statut:       domain.InvoiceIssued,
		DateEcheance: &due,
	}
}

func (suite *OverdueServiceTestSuite) TestListOverdue_SumsSolde() {
	ctx := context.Background()
	asOf := time.Now()
	invoices := []domain.Invoice{overdueInvoice(30000), overdueInvoice(12500)}

	suite.mockInvoiceRepo.On("ListOverdueInvoices", ctx, asOf).Return(invoices, nil).Once()
	suite.mockDirectory.On("LookupStudent", ctx, "STU-9").Return(nil, apperrors.ErrNotFound).Twice()

	resp, err := suite.service.ListOverdue(ctx, asOf)

	suite.Require().NoError(err)
	suite.Len(resp.Invoices, 2)
	suite.True(resp.TotalSolde.Equal(decimal.NewFromInt(42500)))
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *OverdueServiceTestSuite) TestScheduleReminders_SendsAndCounts() {
	ctx := context.Background()
	userID := uuid.NewString()
	invoice := overdueInvoice(30000)

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(&invoice, nil).Once()
	suite.mockReminderRepo.On("RecordReminder", ctx, mock.MatchedBy(func(l domain.ReminderLog) bool {
		return l.InvoiceID == invoice.InvoiceID && l.Channel == domain.ChannelSMS && l.CreatedBy == userID
	})).Return(true, nil).Once()
	suite.mockDispatcher.On("Dispatch", ctx, invoice.InvoiceID, domain.ChannelSMS, mock.AnythingOfType("string")).Return(nil).Once()

	sent, err := suite.service.ScheduleReminders(ctx, []string{invoice.InvoiceID}, "", userID)

	suite.Require().NoError(err)
	suite.Equal(1, sent)
	suite.mockDispatcher.AssertExpectations(suite.T())
}

func (suite *OverdueServiceTestSuite) TestScheduleReminders_SecondRunSameDayIsNoop() {
	ctx := context.Background()
	invoice := overdueInvoice(30000)

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(&invoice, nil).Once()
	// The unique (invoice, day) constraint reports the insert as skipped.
	suite.mockReminderRepo.On("RecordReminder", ctx, mock.AnythingOfType("domain.ReminderLog")).Return(false, nil).Once()

	sent, err := suite.service.ScheduleReminders(ctx, []string{invoice.InvoiceID}, domain.ChannelSMS, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(0, sent)
	suite.mockDispatcher.AssertNotCalled(suite.T(), "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OverdueServiceTestSuite) TestScheduleReminders_SkipsSettledAndUnknown() {
	ctx := context.Background()
	paid := overdueInvoice(0)
	paid.Statut = domain.InvoicePaid
	paid.Solde = decimal.Zero
	missingID := uuid.NewString()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, paid.InvoiceID).Return(&paid, nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, missingID).Return(nil, apperrors.ErrNotFound).Once()

	sent, err := suite.service.ScheduleReminders(ctx, []string{paid.InvoiceID, missingID}, domain.ChannelEmail, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(0, sent)
	suite.mockReminderRepo.AssertNotCalled(suite.T(), "RecordReminder", mock.Anything, mock.Anything)
}

func (suite *OverdueServiceTestSuite) TestScheduleReminders_EmptyBatchRejected() {
	ctx := context.Background()

	_, err := suite.service.ScheduleReminders(ctx, nil, domain.ChannelSMS, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *OverdueServiceTestSuite) TestScheduleReminders_DispatchFailureStillCounts() {
	ctx := context.Background()
	invoice := overdueInvoice(15000)

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(&invoice, nil).Once()
	suite.mockReminderRepo.On("RecordReminder", ctx, mock.AnythingOfType("domain.ReminderLog")).Return(true, nil).Once()
	suite.mockDispatcher.On("Dispatch", ctx, invoice.InvoiceID, domain.ChannelSMS, mock.AnythingOfType("string")).
		Return(assert.AnError).Once()

	sent, err := suite.service.ScheduleReminders(ctx, []string{invoice.InvoiceID}, domain.ChannelSMS, uuid.NewString())

	// The day's slot is consumed even when delivery fails, so re-runs do not
	// double-send.
	suite.Require().NoError(err)
	suite.Equal(1, sent)
}

func TestOverdueServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OverdueServiceTestSuite))
}
