package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scolaris/school_fees_app/internal/core/domain"
	portsrepo "github.com/scolaris/school_fees_app/internal/core/ports/repositories"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for audit trail data.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepository {
	return &PgxAuditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxAuditRepository implements portsrepo.AuditRepository
var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

func (r *PgxAuditRepository) SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	query := `
		INSERT INTO audit_records (audit_id, actor, action, entity_type, entity_id, before, after, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		record.AuditID,
		record.Actor,
		string(record.Action),
		record.EntityType,
		record.EntityID,
		record.Before,
		record.After,
		record.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save audit record for %s %s: %w", record.EntityType, record.EntityID, err)
	}
	return nil
}

func (r *PgxAuditRepository) ListAuditRecords(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `
		SELECT audit_id, actor, action, entity_type, entity_id, before, after, timestamp
		FROM audit_records
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY timestamp DESC
		LIMIT $3;
	`
	rows, err := r.Pool.Query(ctx, query, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	records := []domain.AuditRecord{}
	for rows.Next() {
		var rec domain.AuditRecord
		var action string
		if err := rows.Scan(&rec.AuditID, &rec.Actor, &action, &rec.EntityType, &rec.EntityID, &rec.Before, &rec.After, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan audit record row: %w", err)
		}
		rec.Action = domain.AuditAction(action)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit record rows: %w", err)
	}
	return records, nil
}
