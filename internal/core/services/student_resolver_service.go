package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/scolaris/school_fees_app/internal/apperrors"
	"github.com/scolaris/school_fees_app/internal/core/domain"
	portsrepo "github.com/scolaris/school_fees_app/internal/core/ports/repositories"
	portssvc "github.com/scolaris/school_fees_app/internal/core/ports/services"
	"github.com/scolaris/school_fees_app/internal/middleware"
)

// StudentResolverService resolves student references against the federated
// per-cycle stores. It holds one directory per store tag and dispatches on
// the tag carried by the reference.
type StudentResolverService struct {
	directories map[domain.StudentStore]portsrepo.StudentDirectory
}

// NewStudentResolverService creates a new student resolver.
func NewStudentResolverService(directories map[domain.StudentStore]portsrepo.StudentDirectory) *StudentResolverService {
	return &StudentResolverService{directories: directories}
}

// Ensure StudentResolverService implements portssvc.StudentResolverSvc
var _ portssvc.StudentResolverSvc = (*StudentResolverService)(nil)

// Resolve returns the display identity of a student. Missing records, unknown
// store tags and store errors all degrade to a placeholder identity: student
// data lagging the ledger must never break a listing.
func (s *StudentResolverService) Resolve(ctx context.Context, ref domain.StudentRef) domain.StudentIdentity {
	logger := middleware.GetLoggerFromCtx(ctx)

	dir, ok := s.directories[ref.StudentDatabase]
	if !ok {
		logger.Warn("No directory for student store", slog.String("store", string(ref.StudentDatabase)))
		return domain.PlaceholderIdentity(ref)
	}

	identity, err := dir.LookupStudent(ctx, ref.StudentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Student lookup failed",
				slog.String("error", err.Error()),
				slog.String("student_id", ref.StudentID),
				slog.String("store", string(ref.StudentDatabase)))
		}
		return domain.PlaceholderIdentity(ref)
	}
	return *identity
}
