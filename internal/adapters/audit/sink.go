// Package audit persists ledger audit records through the audit repository.
package audit

import (
	"context"

	"github.com/scolaris/school_fees_app/internal/core/domain"
	portsrepo "github.com/scolaris/school_fees_app/internal/core/ports/repositories"
	portssvc "github.com/scolaris/school_fees_app/internal/core/ports/services"
)

type repositorySink struct {
	repo portsrepo.AuditRepository
}

// NewRepositorySink creates an audit sink backed by the audit repository.
func NewRepositorySink(repo portsrepo.AuditRepository) portssvc.AuditSink {
	return &repositorySink{repo: repo}
}

func (s *repositorySink) Record(ctx context.Context, record domain.AuditRecord) error {
	return s.repo.SaveAuditRecord(ctx, record)
}
