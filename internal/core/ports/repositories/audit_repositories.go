package repositories

import (
	"context"

	"github.com/scolaris/school_fees_app/internal/core/domain"
)

// AuditRepository persists and reads back ledger audit records.
type AuditRepository interface {
	// SaveAuditRecord appends one audit record. Callers treat failures as
	// soft: they are logged, never propagated into ledger mutations.
	SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error

	// ListAuditRecords retrieves the audit trail of one entity, most recent
	// first.
	ListAuditRecords(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditRecord, error)
}
