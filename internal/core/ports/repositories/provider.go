package repositories

import "github.com/scolaris/school_fees_app/internal/core/domain"

// RepositoryProvider bundles every repository the service layer needs.
type RepositoryProvider struct {
	InvoiceRepo    InvoiceRepositoryWithTx
	PaymentRepo    PaymentRepositoryWithTx
	ReminderRepo   ReminderRepository
	StatisticsRepo StatisticsRepository
	AuditRepo      AuditRepository
	UserRepo       UserRepositoryFacade

	// One directory per federated student store, keyed by store tag.
	StudentDirectories map[domain.StudentStore]StudentDirectory
}
