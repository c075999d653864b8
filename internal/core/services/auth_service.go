package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/scolaris/school_fees_app/internal/apperrors"
	portssvc "github.com/scolaris/school_fees_app/internal/core/ports/services"
	"github.com/scolaris/school_fees_app/internal/dto"
	"github.com/scolaris/school_fees_app/internal/middleware"
	"github.com/scolaris/school_fees_app/internal/utils"
	"github.com/scolaris/school_fees_app/pkg/config"
)

// AuthService authenticates staff and mints application JWTs. Google SSO is
// code-exchange based: the frontend sends the authorization code, the service
// exchanges it and validates the returned ID token.
type AuthService struct {
	cfg          *config.Config
	userService  portssvc.UserSvcFacade
	oauth2Config *oauth2.Config
}

// NewAuthService creates a new auth service.
func NewAuthService(cfg *config.Config, userService portssvc.UserSvcFacade) *AuthService {
	return &AuthService{
		cfg:         cfg,
		userService: userService,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Ensure AuthService implements portssvc.AuthSvcFacade
var _ portssvc.AuthSvcFacade = (*AuthService)(nil)

// Login authenticates with email+password and returns an application JWT.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userService.VerifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUnauthorized) {
			logger.Error("Credential verification failed", slog.String("error", err.Error()))
		}
		return nil, err
	}

	token, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryMinutes)
	if err != nil {
		logger.Error("Failed to generate JWT", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		return nil, err
	}

	logger.Info("Staff login", slog.String("user_id", user.UserID))
	return &dto.AuthResponse{
		Token: token,
		User:  dto.ToUserResponse(user),
	}, nil
}

// ExchangeGoogleCode exchanges a Google authorization code, validates the ID
// token, finds or provisions the staff account and returns an application JWT.
func (s *AuthService) ExchangeGoogleCode(ctx context.Context, code string) (*dto.AuthResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if s.cfg.GoogleClientID == "" {
		return nil, fmt.Errorf("%w: google sign-in is not configured", apperrors.ErrValidation)
	}

	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		logger.Warn("Google code exchange failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: google code exchange failed", apperrors.ErrUnauthorized)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%w: no id_token in google response", apperrors.ErrUnauthorized)
	}

	payload, err := idtoken.Validate(ctx, rawIDToken, s.cfg.GoogleClientID)
	if err != nil {
		logger.Warn("Google ID token validation failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: invalid google id token", apperrors.ErrUnauthorized)
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: google id token carries no email", apperrors.ErrUnauthorized)
	}

	user, err := s.userService.FindOrCreateOAuthUser(ctx, "google", payload.Subject, email, name)
	if err != nil {
		return nil, err
	}

	appToken, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryMinutes)
	if err != nil {
		logger.Error("Failed to generate JWT", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		return nil, err
	}

	logger.Info("Staff login via Google", slog.String("user_id", user.UserID))
	return &dto.AuthResponse{
		Token: appToken,
		User:  dto.ToUserResponse(user),
	}, nil
}
