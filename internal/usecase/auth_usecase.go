package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Output DTOs ---

// AuthOutput is returned by both register and login.
type AuthOutput struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// AuthUsecase defines the interface for account operations.
type AuthUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)

	// SeedAdmin creates the configured administrator when no account with
	// that email exists. It is a no-op without admin configuration.
	SeedAdmin(ctx context.Context) error
}
