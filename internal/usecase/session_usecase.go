// Package usecase contains the application-specific business rules.
// It orchestrates the store's API behind explicitly scoped state containers.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// --- Input DTOs ---

// SignUpInput defines the data required to create an account.
type SignUpInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// SignInInput defines the data required to sign in.
type SignInInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// SessionUsecase holds the signed-in identity derived from the persisted token.
type SessionUsecase interface {
	// Initialize restores the identity from a persisted token: profile first,
	// then at most one refresh, otherwise the token is cleared.
	Initialize(ctx context.Context) error

	SignIn(ctx context.Context, input *SignInInput) (*entity.Identity, error)
	SignUp(ctx context.Context, input *SignUpInput) (*entity.Identity, error)

	// SignOut always clears the local token and identity, whatever the store answers.
	SignOut(ctx context.Context) error

	// Expire drops the identity after the token could not be refreshed.
	Expire(ctx context.Context)

	VerifyEmail(ctx context.Context, email, otp string) error
	RequestNewOTP(ctx context.Context, email string) error

	Current() *entity.Identity
	IsAuthenticated() bool

	// OnChange registers fn to run whenever the identity changes; nil means signed out.
	OnChange(fn func(ctx context.Context, identity *entity.Identity))
}
