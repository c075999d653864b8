package repositories

import (
	"context"

	"github.com/scolaris/school_fees_app/internal/core/domain"
)

// StudentDirectory is the lookup capability of one federated per-cycle
// student store. The resolver service holds one directory per store tag and
// dispatches on the tag; callers never branch on the cycle themselves.
type StudentDirectory interface {
	// LookupStudent returns the display projection of a student, or
	// apperrors.ErrNotFound when the store has no such record.
	LookupStudent(ctx context.Context, studentID string) (*domain.StudentIdentity, error)
}
