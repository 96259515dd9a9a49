package service

import (
	"time"

	"storefront/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims carried by access tokens.
// The user ID travels in the registered "sub" claim.
type Claims struct {
	Email string      `json:"email"`
	Role  entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
type TokenService interface {
	// GenerateToken issues an access token for the user.
	GenerateToken(user *entity.User) (string, error)

	// ValidateToken parses and verifies a token string.
	ValidateToken(tokenString string) (*Claims, error)

	// TokenTTL returns how long issued tokens stay valid.
	TokenTTL() time.Duration
}
