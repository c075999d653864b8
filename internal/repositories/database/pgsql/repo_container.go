package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/scolaris/school_fees_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	invoiceRepo := newPgxInvoiceRepository(dbPool)
	paymentRepo := newPgxPaymentRepository(dbPool)
	reminderRepo := newPgxReminderRepository(dbPool)
	statisticsRepo := newStatisticsRepository(dbPool)
	auditRepo := newPgxAuditRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		InvoiceRepo:        invoiceRepo,
		PaymentRepo:        paymentRepo,
		ReminderRepo:       reminderRepo,
		StatisticsRepo:     statisticsRepo,
		AuditRepo:          auditRepo,
		UserRepo:           userRepo,
		StudentDirectories: newStudentDirectories(dbPool),
	}
}
