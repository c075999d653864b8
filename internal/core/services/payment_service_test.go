package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/scolaris/school_fees_app/internal/apperrors"
	"github.com/scolaris/school_fees_app/internal/core/domain"
	portssvc "github.com/scolaris/school_fees_app/internal/core/ports/services"
	"github.com/scolaris/school_fees_app/internal/core/services"
	"github.com/scolaris/school_fees_app/internal/dto"
)

type PaymentServiceTestSuite struct {
	suite.Suite
	mockPaymentRepo *MockPaymentRepository
	mockInvoiceRepo *MockInvoiceRepository
	mockAuditSink   *MockAuditSink
	mockRenderer    *MockReceiptRenderer
	service         portssvc.PaymentSvcFacade
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockAuditSink = new(MockAuditSink)
	suite.mockRenderer = new(MockReceiptRenderer)
	suite.service = services.NewPaymentService(suite.mockPaymentRepo, suite.mockInvoiceRepo, suite.mockAuditSink, suite.mockRenderer)
}

func issuedInvoice(ttc, paye int64) *domain.Invoice {
	montantTTC := decimal.NewFromInt(ttc)
	montantPaye := decimal.NewFromInt(paye)
	statut := domain.InvoiceIssued
	if paye > 0 {
		statut = domain.InvoicePartiallyPaid
	}
	if paye >= ttc {
		statut = domain.InvoicePaid
	}
	return &domain.Invoice{
		InvoiceID:   uuid.NewString(),
		Number:      "FAC-2025-00042",
		StudentRef:  domain.StudentRef{StudentID: "STU-1", StudentDatabase: domain.StoreMiddleCycle},
		MontantTTC:  montantTTC,
		MontantPaye: montantPaye,
		Solde:       montantTTC.Sub(montantPaye),
		Statut:      statut,
	}
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_CashAutoValidates() {
	ctx := context.Background()
	clerkID := uuid.NewString()
	invoice := issuedInvoice(50000, 0)

	req := dto.RecordPaymentRequest{
		InvoiceID:    invoice.InvoiceID,
		Montant:      decimal.NewFromInt(20000),
		ModePaiement: domain.ModeCash,
		DatePaiement: time.Now(),
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	updatedInvoice := issuedInvoice(50000, 20000)
	updatedInvoice.InvoiceID = invoice.InvoiceID
	savedPayment := &domain.Payment{
		PaymentID:    uuid.NewString(),
		Reference:    "PAY-000101",
		InvoiceID:    invoice.InvoiceID,
		Montant:      req.Montant,
		ModePaiement: domain.ModeCash,
		Statut:       domain.PaymentValidated,
	}

	suite.mockPaymentRepo.On("SavePayment", ctx, mock.MatchedBy(func(p domain.Payment) bool {
		return p.InvoiceID == invoice.InvoiceID &&
			p.Statut == domain.PaymentValidated &&
			p.ValidatedBy != nil && *p.ValidatedBy == clerkID &&
			p.Montant.Equal(req.Montant)
	}), true).Return(savedPayment, updatedInvoice, nil).Once()
	suite.mockAuditSink.On("Record", ctx, mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()
	suite.mockRenderer.On("RenderPaymentReceipt", ctx, *savedPayment, *updatedInvoice).Return(nil).Once()

	payment, inv, err := suite.service.RecordPayment(ctx, req, clerkID)

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentValidated, payment.Statut)
	suite.Equal(domain.InvoicePartiallyPaid, inv.Statut)
	suite.True(inv.Solde.Equal(decimal.NewFromInt(30000)))
	suite.mockPaymentRepo.AssertExpectations(suite.T())
	suite.mockRenderer.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_WireStaysPending() {
	ctx := context.Background()
	clerkID := uuid.NewString()
	invoice := issuedInvoice(50000, 20000)

	req := dto.RecordPaymentRequest{
		InvoiceID:    invoice.InvoiceID,
		Montant:      decimal.NewFromInt(30000),
		ModePaiement: domain.ModeWire,
		DatePaiement: time.Now(),
		Bank:         "BICEC",
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	savedPayment := &domain.Payment{
		PaymentID:    uuid.NewString(),
		InvoiceID:    invoice.InvoiceID,
		Montant:      req.Montant,
		ModePaiement: domain.ModeWire,
		Statut:       domain.PaymentPending,
	}

	// A pending payment must not touch the balance: apply=false.
	suite.mockPaymentRepo.On("SavePayment", ctx, mock.MatchedBy(func(p domain.Payment) bool {
		return p.Statut == domain.PaymentPending && p.ValidatedBy == nil
	}), false).Return(savedPayment, invoice, nil).Once()
	suite.mockAuditSink.On("Record", ctx, mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()

	payment, inv, err := suite.service.RecordPayment(ctx, req, clerkID)

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentPending, payment.Statut)
	suite.Equal(domain.InvoicePartiallyPaid, inv.Statut)
	// No receipt for a pending payment.
	suite.mockRenderer.AssertNotCalled(suite.T(), "RenderPaymentReceipt", mock.Anything, mock.Anything, mock.Anything)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_OverpaymentRejected() {
	ctx := context.Background()
	invoice := issuedInvoice(50000, 20000)

	req := dto.RecordPaymentRequest{
		InvoiceID:    invoice.InvoiceID,
		Montant:      decimal.NewFromInt(40000), // solde is 30000
		ModePaiement: domain.ModeCash,
		DatePaiement: time.Now(),
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	payment, inv, err := suite.service.RecordPayment(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(payment)
	suite.Nil(inv)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.RecordPaymentRequest{
		InvoiceID:    uuid.NewString(),
		Montant:      decimal.Zero,
		ModePaiement: domain.ModeCash,
		DatePaiement: time.Now(),
	}

	_, _, err := suite.service.RecordPayment(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "FindInvoiceByID", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_CheckRequiresNumber() {
	ctx := context.Background()
	req := dto.RecordPaymentRequest{
		InvoiceID:    uuid.NewString(),
		Montant:      decimal.NewFromInt(1000),
		ModePaiement: domain.ModeCheck,
		DatePaiement: time.Now(),
	}

	_, _, err := suite.service.RecordPayment(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_FutureDateRejected() {
	ctx := context.Background()
	req := dto.RecordPaymentRequest{
		InvoiceID:    uuid.NewString(),
		Montant:      decimal.NewFromInt(1000),
		ModePaiement: domain.ModeCash,
		DatePaiement: time.Now().Add(48 * time.Hour),
	}

	_, _, err := suite.service.RecordPayment(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "FindInvoiceByID", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_DraftInvoiceConflict() {
	ctx := context.Background()
	invoice := issuedInvoice(50000, 0)
	invoice.Statut = domain.InvoiceDraft

	req := dto.RecordPaymentRequest{
		InvoiceID:    invoice.InvoiceID,
		Montant:      decimal.NewFromInt(1000),
		ModePaiement: domain.ModeCash,
		DatePaiement: time.Now(),
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	_, _, err := suite.service.RecordPayment(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *PaymentServiceTestSuite) TestValidatePayment_SettlesInvoice() {
	ctx := context.Background()
	bursarID := uuid.NewString()
	paymentID := uuid.NewString()

	pending := &domain.Payment{
		PaymentID: paymentID,
		Montant:   decimal.NewFromInt(30000),
		Statut:    domain.PaymentPending,
	}
	validated := &domain.Payment{
		PaymentID: paymentID,
		Montant:   pending.Montant,
		Statut:    domain.PaymentValidated,
	}
	paidInvoice := issuedInvoice(50000, 50000)

	suite.mockPaymentRepo.On("FindPaymentByID", ctx, paymentID).Return(pending, nil).Once()
	suite.mockPaymentRepo.On("ValidatePayment", ctx, paymentID, bursarID, mock.AnythingOfType("time.Time")).
		Return(validated, paidInvoice, nil).Once()
	suite.mockAuditSink.On("Record", ctx, mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()
	suite.mockRenderer.On("RenderPaymentReceipt", ctx, *validated, *paidInvoice).Return(nil).Once()

	payment, inv, err := suite.service.ValidatePayment(ctx, paymentID, bursarID)

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentValidated, payment.Statut)
	suite.Equal(domain.InvoicePaid, inv.Statut)
	suite.True(inv.Solde.IsZero())
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestValidatePayment_AlreadyValidated() {
	ctx := context.Background()
	paymentID := uuid.NewString()
	already := &domain.Payment{PaymentID: paymentID, Statut: domain.PaymentValidated}

	suite.mockPaymentRepo.On("FindPaymentByID", ctx, paymentID).Return(already, nil).Once()
	suite.mockPaymentRepo.On("ValidatePayment", ctx, paymentID, mock.Anything, mock.AnythingOfType("time.Time")).
		Return(nil, nil, apperrors.ErrConflict).Once()

	_, _, err := suite.service.ValidatePayment(ctx, paymentID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *PaymentServiceTestSuite) TestRejectPayment_RequiresReason() {
	ctx := context.Background()

	_, err := suite.service.RejectPayment(ctx, uuid.NewString(), uuid.NewString(), "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "RejectPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestCancelPayment_ReversesValidated() {
	ctx := context.Background()
	userID := uuid.NewString()
	paymentID := uuid.NewString()

	validated := &domain.Payment{PaymentID: paymentID, Montant: decimal.NewFromInt(20000), Statut: domain.PaymentValidated}
	cancelled := &domain.Payment{PaymentID: paymentID, Montant: validated.Montant, Statut: domain.PaymentCancelled, StatusReason: "entry error"}
	// 50000 invoice, cash 20000 reversed while a validated 30000 remains.
	reversedInvoice := issuedInvoice(50000, 30000)

	suite.mockPaymentRepo.On("FindPaymentByID", ctx, paymentID).Return(validated, nil).Once()
	suite.mockPaymentRepo.On("CancelPayment", ctx, paymentID, userID, "entry error", mock.AnythingOfType("time.Time")).
		Return(cancelled, reversedInvoice, nil).Once()
	suite.mockAuditSink.On("Record", ctx, mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()

	payment, inv, err := suite.service.CancelPayment(ctx, paymentID, "entry error", userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentCancelled, payment.Statut)
	suite.Equal(domain.InvoicePartiallyPaid, inv.Statut)
	suite.True(inv.Solde.Equal(decimal.NewFromInt(20000)))
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

// TestCounterScenario walks the canonical counter workflow: a 50000 invoice
// takes a cash payment (auto-validated), then a wire payment that is pending,
// the wire is validated and settles the invoice, cancelling the invoice is
// refused, and cancelling the cash payment reopens a partial balance.
func (suite *PaymentServiceTestSuite) TestCounterScenario() {
	ctx := context.Background()
	clerkID := uuid.NewString()
	bursarID := uuid.NewString()
	invoice := issuedInvoice(50000, 0)
	invoiceID := invoice.InvoiceID

	// Step 1: cash 20000, validated immediately.
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(invoice, nil).Once()
	afterCash := issuedInvoice(50000, 20000)
	afterCash.InvoiceID = invoiceID
	cashPayment := &domain.Payment{PaymentID: uuid.NewString(), InvoiceID: invoiceID, Montant: decimal.NewFromInt(20000), Statut: domain.PaymentValidated}
	suite.mockPaymentRepo.On("SavePayment", ctx, mock.Anything, true).Return(cashPayment, afterCash, nil).Once()
	suite.mockAuditSink.On("Record", ctx, mock.AnythingOfType("domain.AuditRecord")).Return(nil)
	suite.mockRenderer.On("RenderPaymentReceipt", ctx, mock.Anything, mock.Anything).Return(nil)

	_, inv, err := suite.service.RecordPayment(ctx, dto.RecordPaymentRequest{
		InvoiceID: invoiceID, Montant: decimal.NewFromInt(20000), ModePaiement: domain.ModeCash, DatePaiement: time.Now(),
	}, clerkID)
	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePartiallyPaid, inv.Statut)

	// Step 2: wire 30000, stays pending; balance unchanged.
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(afterCash, nil).Once()
	wirePayment := &domain.Payment{PaymentID: uuid.NewString(), InvoiceID: invoiceID, Montant: decimal.NewFromInt(30000), Statut: domain.PaymentPending}
	suite.mockPaymentRepo.On("SavePayment", ctx, mock.Anything, false).Return(wirePayment, afterCash, nil).Once()

	_, inv, err = suite.service.RecordPayment(ctx, dto.RecordPaymentRequest{
		InvoiceID: invoiceID, Montant: decimal.NewFromInt(30000), ModePaiement: domain.ModeWire, DatePaiement: time.Now(), Bank: "BICEC",
	}, clerkID)
	suite.Require().NoError(err)
	suite.True(inv.Solde.Equal(decimal.NewFromInt(30000)))

	// Step 3: validating the wire settles the invoice.
	paid := issuedInvoice(50000, 50000)
	paid.InvoiceID = invoiceID
	validatedWire := &domain.Payment{PaymentID: wirePayment.PaymentID, InvoiceID: invoiceID, Montant: wirePayment.Montant, Statut: domain.PaymentValidated}
	suite.mockPaymentRepo.On("FindPaymentByID", ctx, wirePayment.PaymentID).Return(wirePayment, nil).Once()
	suite.mockPaymentRepo.On("ValidatePayment", ctx, wirePayment.PaymentID, bursarID, mock.AnythingOfType("time.Time")).
		Return(validatedWire, paid, nil).Once()

	_, inv, err = suite.service.ValidatePayment(ctx, wirePayment.PaymentID, bursarID)
	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, inv.Statut)
	suite.True(inv.Solde.IsZero())

	// Step 4: cancelling the cash payment reopens a 20000 balance.
	reopened := issuedInvoice(50000, 30000)
	reopened.InvoiceID = invoiceID
	cancelledCash := &domain.Payment{PaymentID: cashPayment.PaymentID, InvoiceID: invoiceID, Montant: cashPayment.Montant, Statut: domain.PaymentCancelled}
	suite.mockPaymentRepo.On("FindPaymentByID", ctx, cashPayment.PaymentID).Return(cashPayment, nil).Once()
	suite.mockPaymentRepo.On("CancelPayment", ctx, cashPayment.PaymentID, bursarID, "entry error", mock.AnythingOfType("time.Time")).
		Return(cancelledCash, reopened, nil).Once()

	_, inv, err = suite.service.CancelPayment(ctx, cashPayment.PaymentID, "entry error", bursarID)
	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePartiallyPaid, inv.Statut)
	suite.True(inv.MontantPaye.Equal(decimal.NewFromInt(30000)))
	suite.True(inv.Solde.Equal(decimal.NewFromInt(20000)))

	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
