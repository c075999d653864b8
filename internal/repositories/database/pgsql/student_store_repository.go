package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scolaris/school_fees_app/internal/apperrors"
	"github.com/scolaris/school_fees_app/internal/core/domain"
	portsrepo "github.com/scolaris/school_fees_app/internal/core/ports/repositories"
)

// studentTables maps each federated store tag to its backing table. Each
// school cycle keeps its own independently keyed student dataset.
var studentTables = map[domain.StudentStore]string{
	domain.StoreEarlyYears:  "students_early_years",
	domain.StoreMiddleCycle: "students_middle_cycle",
	domain.StoreSeniorCycle: "students_senior_cycle",
}

// PgxStudentDirectory is the directory of one per-cycle student table.
type PgxStudentDirectory struct {
	BaseRepository
	store domain.StudentStore
	table string
}

// newPgxStudentDirectory creates a directory bound to one store's table.
func newPgxStudentDirectory(pool *pgxpool.Pool, store domain.StudentStore, table string) portsrepo.StudentDirectory {
	return &PgxStudentDirectory{
		BaseRepository: BaseRepository{Pool: pool},
		store:          store,
		table:          table,
	}
}

// Ensure PgxStudentDirectory implements portsrepo.StudentDirectory
var _ portsrepo.StudentDirectory = (*PgxStudentDirectory)(nil)

func (r *PgxStudentDirectory) LookupStudent(ctx context.Context, studentID string) (*domain.StudentIdentity, error) {
	// The table name comes from the closed studentTables map, never from input.
	query := fmt.Sprintf(`SELECT student_id, full_name, matricule FROM %s WHERE student_id = $1;`, r.table)

	var identity domain.StudentIdentity
	err := r.Pool.QueryRow(ctx, query, studentID).Scan(&identity.StudentID, &identity.Name, &identity.Matricule)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up student %s in %s: %w", studentID, r.table, err)
	}
	identity.Store = r.store
	return &identity, nil
}

// newStudentDirectories builds one directory per federated store.
func newStudentDirectories(pool *pgxpool.Pool) map[domain.StudentStore]portsrepo.StudentDirectory {
	dirs := make(map[domain.StudentStore]portsrepo.StudentDirectory, len(studentTables))
	for store, table := range studentTables {
		dirs[store] = newPgxStudentDirectory(pool, store, table)
	}
	return dirs
}
