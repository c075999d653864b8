package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/scolaris/school_fees_app/internal/apperrors"
	"github.com/scolaris/school_fees_app/internal/core/domain"
	portsrepo "github.com/scolaris/school_fees_app/internal/core/ports/repositories"
	portssvc "github.com/scolaris/school_fees_app/internal/core/ports/services"
	"github.com/scolaris/school_fees_app/internal/dto"
	"github.com/scolaris/school_fees_app/internal/middleware"
	"github.com/scolaris/school_fees_app/internal/utils"
)

// UserService manages staff accounts.
type UserService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) *UserService {
	return &UserService{userRepo: userRepo}
}

// Ensure UserService implements portssvc.UserSvcFacade
var _ portssvc.UserSvcFacade = (*UserService)(nil)

// CreateUser registers a new staff account with a bcrypt-hashed password.
func (s *UserService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		PasswordHash: hash,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save user", slog.String("error", err.Error()))
		}
		return nil, err
	}

	logger.Info("Staff account created", slog.String("user_id", user.UserID), slog.String("role", string(user.Role)))
	return &user, nil
}

// GetUserByID retrieves a staff account.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// ListUsers retrieves staff accounts.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return s.userRepo.ListUsers(ctx, limit, offset)
}

// VerifyCredentials checks email+password. A wrong email and a wrong password
// are indistinguishable to the caller.
func (s *UserService) VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		logger.Error("Failed to find user by email", slog.String("error", err.Error()))
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrUnauthorized
	}
	if user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// FindOrCreateOAuthUser returns the staff account matching a verified
// external identity, provisioning a CLERK account on first sign-in.
func (s *UserService) FindOrCreateOAuthUser(ctx context.Context, provider, providerID, email, name string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		if !user.IsActive {
			return nil, apperrors.ErrUnauthorized
		}
		if user.AuthProvider == "" {
			// Link the external identity to the existing account.
			user.AuthProvider = provider
			user.ProviderID = providerID
			user.LastUpdatedAt = time.Now()
			user.LastUpdatedBy = user.UserID
			if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
				logger.Error("Failed to link external identity", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
				return nil, err
			}
		}
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to look up user by email", slog.String("error", err.Error()))
		return nil, err
	}

	// First sign-in: provision a clerk account. SSO accounts get a random
	// unusable password so the password path stays closed.
	randomSecret, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate placeholder secret: %w", err)
	}
	hash, err := utils.HashPassword(randomSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to hash placeholder secret: %w", err)
	}

	now := time.Now()
	newUser := domain.User{
		UserID:       uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         domain.RoleClerk,
		PasswordHash: hash,
		AuthProvider: provider,
		ProviderID:   providerID,
		IsActive:     true,
	}
	newUser.CreatedAt = now
	newUser.CreatedBy = newUser.UserID
	newUser.LastUpdatedAt = now
	newUser.LastUpdatedBy = newUser.UserID

	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		logger.Error("Failed to provision SSO user", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Provisioned staff account from external identity",
		slog.String("user_id", newUser.UserID), slog.String("provider", provider))
	return &newUser, nil
}
