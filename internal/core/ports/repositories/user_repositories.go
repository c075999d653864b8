package repositories

import (
	"context"

	"github.com/scolaris/school_fees_app/internal/core/domain"
)

// UserReader defines read operations for staff account data.
type UserReader interface {
	// FindUserByID retrieves a staff user by id.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a staff user by email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsers retrieves all staff users.
	ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for staff account data.
type UserWriter interface {
	// SaveUser persists a new staff user. Returns apperrors.ErrDuplicate when
	// the email is already registered.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser persists mutable staff user fields.
	UpdateUser(ctx context.Context, user domain.User) error
}

// UserRepositoryFacade combines all user repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
