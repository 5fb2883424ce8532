package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/phrazzld/lms-api/internal/service/auth"
)

// JWTService mocks auth.JWTService.
type JWTService struct{ mock.Mock }

var _ auth.JWTService = (*JWTService)(nil)

func (m *JWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (*auth.IssuedToken, error) {
	args := m.Called(ctx, userID)
	return getOrNil[*auth.IssuedToken](args, 0), args.Error(1)
}

func (m *JWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	args := m.Called(ctx, tokenString)
	return getOrNil[*auth.Claims](args, 0), args.Error(1)
}

func (m *JWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (*auth.IssuedToken, error) {
	args := m.Called(ctx, userID)
	return getOrNil[*auth.IssuedToken](args, 0), args.Error(1)
}

func (m *JWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	args := m.Called(ctx, tokenString)
	return getOrNil[*auth.Claims](args, 0), args.Error(1)
}

// RefreshTokenStore mocks auth.RefreshTokenStore.
type RefreshTokenStore struct{ mock.Mock }

var _ auth.RefreshTokenStore = (*RefreshTokenStore)(nil)

func (m *RefreshTokenStore) Save(ctx context.Context, tokenID string, userID uuid.UUID, expiresAt time.Time) error {
	return m.Called(ctx, tokenID, userID, expiresAt).Error(0)
}

func (m *RefreshTokenStore) Consume(ctx context.Context, tokenID string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenID)
	return getOrNil[uuid.UUID](args, 0), args.Error(1)
}

// PasswordHasher mocks auth.PasswordHasher.
type PasswordHasher struct{ mock.Mock }

var _ auth.PasswordHasher = (*PasswordHasher)(nil)

func (m *PasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Compare(hashedPassword, password string) error {
	return m.Called(hashedPassword, password).Error(0)
}
