package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/scolaris/school_fees_app/internal/core/domain"
	portsrepo "github.com/scolaris/school_fees_app/internal/core/ports/repositories"
)

// --- Mock InvoiceRepository ---

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockInvoiceRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockInvoiceRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice *domain.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoicesByIDs(ctx context.Context, invoiceIDs []string) (map[string]domain.Invoice, error) {
	args := m.Called(ctx, invoiceIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, filter portsrepo.InvoiceFilter) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, filter)
	var invoices []domain.Invoice
	if args.Get(0) != nil {
		invoices = args.Get(0).([]domain.Invoice)
	}
	token, _ := args.Get(1).(*string)
	return invoices, token, args.Error(2)
}

func (m *MockInvoiceRepository) ListOverdueInvoices(ctx context.Context, asOf time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) MarkInvoiceIssued(ctx context.Context, invoiceID string, updatedBy string, at time.Time) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, updatedBy, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CancelInvoice(ctx context.Context, invoiceID string, reason string, updatedBy string, at time.Time) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, reason, updatedBy, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

// --- Mock PaymentRepository ---

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockPaymentRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockPaymentRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPayments(ctx context.Context, filter portsrepo.PaymentFilter) ([]domain.Payment, *string, error) {
	args := m.Called(ctx, filter)
	var payments []domain.Payment
	if args.Get(0) != nil {
		payments = args.Get(0).([]domain.Payment)
	}
	token, _ := args.Get(1).(*string)
	return payments, token, args.Error(2)
}

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment, apply bool) (*domain.Payment, *domain.Invoice, error) {
	args := m.Called(ctx, payment, apply)
	var p *domain.Payment
	var inv *domain.Invoice
	if args.Get(0) != nil {
		p = args.Get(0).(*domain.Payment)
	}
	if args.Get(1) != nil {
		inv = args.Get(1).(*domain.Invoice)
	}
	return p, inv, args.Error(2)
}

func (m *MockPaymentRepository) ValidatePayment(ctx context.Context, paymentID string, validatedBy string, at time.Time) (*domain.Payment, *domain.Invoice, error) {
	args := m.Called(ctx, paymentID, validatedBy, at)
	var p *domain.Payment
	var inv *domain.Invoice
	if args.Get(0) != nil {
		p = args.Get(0).(*domain.Payment)
	}
	if args.Get(1) != nil {
		inv = args.Get(1).(*domain.Invoice)
	}
	return p, inv, args.Error(2)
}

func (m *MockPaymentRepository) RejectPayment(ctx context.Context, paymentID string, rejectedBy string, reason string, at time.Time) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, rejectedBy, reason, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) CancelPayment(ctx context.Context, paymentID string, cancelledBy string, reason string, at time.Time) (*domain.Payment, *domain.Invoice, error) {
	args := m.Called(ctx, paymentID, cancelledBy, reason, at)
	var p *domain.Payment
	var inv *domain.Invoice
	if args.Get(0) != nil {
		p = args.Get(0).(*domain.Payment)
	}
	if args.Get(1) != nil {
		inv = args.Get(1).(*domain.Invoice)
	}
	return p, inv, args.Error(2)
}

// --- Mock ReminderRepository ---

type MockReminderRepository struct {
	mock.Mock
}

func (m *MockReminderRepository) RecordReminder(ctx context.Context, log domain.ReminderLog) (bool, error) {
	args := m.Called(ctx, log)
	return args.Bool(0), args.Error(1)
}

func (m *MockReminderRepository) ListRemindersByInvoice(ctx context.Context, invoiceID string) ([]domain.ReminderLog, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReminderLog), args.Error(1)
}

// --- Mock StatisticsRepository ---

type MockStatisticsRepository struct {
	mock.Mock
}

func (m *MockStatisticsRepository) CollectedTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockStatisticsRepository) ByPaymentMode(ctx context.Context, from, to time.Time) ([]domain.ModeBreakdownRow, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ModeBreakdownRow), args.Error(1)
}

func (m *MockStatisticsRepository) PendingTotals(ctx context.Context) (domain.PendingTotals, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.PendingTotals), args.Error(1)
}

func (m *MockStatisticsRepository) DailySeries(ctx context.Context, from, to time.Time) ([]domain.DailyCollectionPoint, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyCollectionPoint), args.Error(1)
}

func (m *MockStatisticsRepository) InvoicingTotals(ctx context.Context, asOf time.Time) (domain.InvoicingTotals, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(domain.InvoicingTotals), args.Error(1)
}

// --- Mock StudentDirectory ---

type MockStudentDirectory struct {
	mock.Mock
}

func (m *MockStudentDirectory) LookupStudent(ctx context.Context, studentID string) (*domain.StudentIdentity, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudentIdentity), args.Error(1)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

// --- Mock collaborators ---

type MockAuditSink struct {
	mock.Mock
}

func (m *MockAuditSink) Record(ctx context.Context, record domain.AuditRecord) error {
	return m.Called(ctx, record).Error(0)
}

type MockReceiptRenderer struct {
	mock.Mock
}

func (m *MockReceiptRenderer) RenderPaymentReceipt(ctx context.Context, payment domain.Payment, invoice domain.Invoice) error {
	return m.Called(ctx, payment, invoice).Error(0)
}

func (m *MockReceiptRenderer) RenderInvoiceDocument(ctx context.Context, invoice domain.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

type MockReminderDispatcher struct {
	mock.Mock
}

func (m *MockReminderDispatcher) Dispatch(ctx context.Context, invoiceID string, channel domain.ReminderChannel, message string) error {
	return m.Called(ctx, invoiceID, channel, message).Error(0)
}
