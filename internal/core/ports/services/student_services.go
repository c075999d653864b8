package services

import (
	"context"

	"github.com/scolaris/school_fees_app/internal/core/domain"
)

// StudentResolverSvc resolves a (student id, store tag) pair to a display
// identity by querying the correct federated per-cycle store.
type StudentResolverSvc interface {
	// Resolve returns the student's display identity. A missing or unknown
	// student yields a placeholder identity, never an error: listings must
	// degrade gracefully when the student record lags the invoice.
	Resolve(ctx context.Context, ref domain.StudentRef) domain.StudentIdentity
}
