package services

import (
	"github.com/scolaris/school_fees_app/internal/core/domain"
	portsrepo "github.com/scolaris/school_fees_app/internal/core/ports/repositories"
	portssvc "github.com/scolaris/school_fees_app/internal/core/ports/services"
	"github.com/scolaris/school_fees_app/pkg/config"
)

// ServiceProvider bundles every service the handlers need.
type ServiceProvider struct {
	InvoiceSvc      portssvc.InvoiceSvcFacade
	PaymentSvc      portssvc.PaymentSvcFacade
	OverdueSvc      portssvc.OverdueSvcFacade
	StatisticsSvc   portssvc.StatisticsSvcFacade
	StudentResolver portssvc.StudentResolverSvc
	UserSvc         portssvc.UserSvcFacade
	AuthSvc         portssvc.AuthSvcFacade
}

// NewServiceProvider wires the services over the repositories and external
// collaborators. renderer, dispatcher and auditSink may be nil; the services
// then skip the corresponding side effects.
func NewServiceProvider(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	renderer portssvc.ReceiptRenderer,
	dispatcher portssvc.ReminderDispatcher,
	auditSink portssvc.AuditSink,
) *ServiceProvider {
	studentResolver := NewStudentResolverService(repos.StudentDirectories)
	userSvc := NewUserService(repos.UserRepo)

	return &ServiceProvider{
		InvoiceSvc:      NewInvoiceService(repos.InvoiceRepo, studentResolver, auditSink, renderer, dispatcher),
		PaymentSvc:      NewPaymentService(repos.PaymentRepo, repos.InvoiceRepo, auditSink, renderer),
		OverdueSvc:      NewOverdueService(repos.InvoiceRepo, repos.ReminderRepo, dispatcher, studentResolver, domain.ReminderChannel(cfg.ReminderChannelDefault)),
		StatisticsSvc:   NewStatisticsService(repos.StatisticsRepo),
		StudentResolver: studentResolver,
		UserSvc:         userSvc,
		AuthSvc:         NewAuthService(cfg, userSvc),
	}
}
