package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lms-api/internal/config"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func testAuthConfig(secret string) config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   secret,
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
		BCryptCost:                  4,
	}
}

func newTestService(t *testing.T, secret string, now time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newHMACJWTService(testAuthConfig(secret), func() time.Time { return now })
	require.NoError(t, err)
	return svc
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(testAuthConfig("short"))
	assert.Error(t, err)

	cfg := testAuthConfig(testSecret)
	cfg.TokenLifetimeMinutes = 0
	_, err = NewJWTService(cfg)
	assert.Error(t, err)

	svc, err := NewJWTService(testAuthConfig(testSecret))
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	svc := newTestService(t, testSecret, fixedTime)

	issued, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)
	assert.Equal(t, fixedTime.Add(time.Hour), issued.ExpiresAt)

	claims, err := svc.ValidateToken(context.Background(), issued.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, issued.ID, claims.ID)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				svc := newTestService(t, testSecret, fixedTime)
				issued, err := svc.GenerateToken(context.Background(), userID)
				require.NoError(t, err)
				return svc, issued.Token
			},
		},
		{
			name: "expired token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				issued, err := newTestService(t, testSecret, fixedTime).GenerateToken(context.Background(), userID)
				require.NoError(t, err)
				return newTestService(t, testSecret, fixedTime.Add(2*time.Hour)), issued.Token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "within clock skew",
			setupFunc: func(t *testing.T) (JWTService, string) {
				issued, err := newTestService(t, testSecret, fixedTime).GenerateToken(context.Background(), userID)
				require.NoError(t, err)
				return newTestService(t, testSecret, fixedTime.Add(61*time.Minute)), issued.Token
			},
		},
		{
			name: "invalid signature",
			setupFunc: func(t *testing.T) (JWTService, string) {
				issued, err := newTestService(t, testSecret, fixedTime).GenerateToken(context.Background(), userID)
				require.NoError(t, err)
				return newTestService(t, "wrong-secret-that-is-long-enough-for-testing", fixedTime), issued.Token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				return newTestService(t, testSecret, fixedTime), "this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "refresh token used as access token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				svc := newTestService(t, testSecret, fixedTime)
				issued, err := svc.GenerateRefreshToken(context.Background(), userID)
				require.NoError(t, err)
				return svc, issued.Token
			},
			wantErr: ErrWrongTokenType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tt.setupFunc(t)
			claims, err := svc.ValidateToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
		})
	}
}

func TestValidateRefreshToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	svc := newTestService(t, testSecret, fixedTime)

	refresh, err := svc.GenerateRefreshToken(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, fixedTime.Add(24*time.Hour), refresh.ExpiresAt)

	claims, err := svc.ValidateRefreshToken(context.Background(), refresh.Token)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, claims.TokenType)
	assert.Equal(t, refresh.ID, claims.ID)

	access, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	_, err = svc.ValidateRefreshToken(context.Background(), access.Token)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	later := newTestService(t, testSecret, fixedTime.Add(48*time.Hour))
	_, err = later.ValidateRefreshToken(context.Background(), refresh.Token)
	assert.ErrorIs(t, err, ErrExpiredRefreshToken)

	_, err = svc.ValidateRefreshToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestTokenIDsAreUnique(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testSecret, time.Now())
	a, err := svc.GenerateRefreshToken(context.Background(), uuid.New())
	require.NoError(t, err)
	b, err := svc.GenerateRefreshToken(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}
