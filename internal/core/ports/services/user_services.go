package services

import (
	"context"

	"github.com/scolaris/school_fees_app/internal/core/domain"
	"github.com/scolaris/school_fees_app/internal/dto"
)

// UserSvcFacade manages staff accounts (the actors behind every ledger
// mutation).
type UserSvcFacade interface {
	// CreateUser registers a new staff account with a bcrypt-hashed password.
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)

	// GetUserByID retrieves a staff account.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves staff accounts.
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)

	// VerifyCredentials checks email+password and returns the account.
	// Returns apperrors.ErrUnauthorized on mismatch.
	VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error)

	// FindOrCreateOAuthUser returns the staff account matching a verified
	// external identity, creating a CLERK account on first sign-in.
	FindOrCreateOAuthUser(ctx context.Context, provider, providerID, email, name string) (*domain.User, error)
}
