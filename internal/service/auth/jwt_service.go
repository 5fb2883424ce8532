package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for the user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (*IssuedToken, error)

	// ValidateToken validates an access token and extracts its claims.
	// A refresh token is rejected with ErrWrongTokenType.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed refresh token. The returned token id
	// is what the refresh allowlist records.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (*IssuedToken, error)

	// ValidateRefreshToken validates a refresh token and extracts its claims.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}

// IssuedToken is a freshly signed token and the metadata needed to track it.
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// Claims represents the custom claims structure for the JWT tokens.
type Claims struct {
	UserID    uuid.UUID `json:"uid,omitempty"`
	TokenType TokenType `json:"type,omitempty"`
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// RefreshTokenStore is the allowlist of live refresh token ids.
type RefreshTokenStore interface {
	// Save records tokenID for userID until expiresAt.
	Save(ctx context.Context, tokenID string, userID uuid.UUID, expiresAt time.Time) error

	// Consume removes tokenID and returns the user it was issued to.
	// An unknown or already consumed id gives ErrRevokedRefreshToken.
	Consume(ctx context.Context, tokenID string) (uuid.UUID, error)
}
