package services

import (
	"context"

	"github.com/scolaris/school_fees_app/internal/dto"
)

// AuthSvcFacade authenticates staff and mints application tokens.
type AuthSvcFacade interface {
	// Login authenticates with email+password and returns an application JWT.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)

	// ExchangeGoogleCode exchanges a Google authorization code for Google
	// tokens, validates the ID token, finds or creates the staff account and
	// returns an application JWT.
	ExchangeGoogleCode(ctx context.Context, code string) (*dto.AuthResponse, error)
}
