package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/service/auth"
)

// TokenPair is what login, registration and refresh hand back to the client.
type TokenPair struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SessionService issues token pairs and rotates refresh tokens.
type SessionService interface {
	// Issue signs a new access/refresh pair for the user.
	Issue(ctx context.Context, userID uuid.UUID) (*TokenPair, error)

	// Refresh exchanges a valid refresh token for a new pair. When an
	// allowlist is configured the old refresh token is revoked, and presenting
	// it again gives auth.ErrRevokedRefreshToken.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type sessionService struct {
	jwt    auth.JWTService
	tokens auth.RefreshTokenStore
	logger *slog.Logger
}

// NewSessionService creates a SessionService. tokens may be nil, in which
// case any unexpired refresh token is accepted.
func NewSessionService(jwt auth.JWTService, tokens auth.RefreshTokenStore, logger *slog.Logger) SessionService {
	if jwt == nil {
		panic("jwt service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &sessionService{
		jwt:    jwt,
		tokens: tokens,
		logger: logger.With(slog.String("component", "session_service")),
	}
}

func (s *sessionService) Issue(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	access, err := s.jwt.GenerateToken(ctx, userID)
	if err != nil {
		return nil, NewServiceError("session", "issue", "failed to sign access token", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(ctx, userID)
	if err != nil {
		return nil, NewServiceError("session", "issue", "failed to sign refresh token", err)
	}

	if s.tokens != nil {
		if err := s.tokens.Save(ctx, refresh.ID, userID, refresh.ExpiresAt); err != nil {
			return nil, NewServiceError("session", "issue", "failed to record refresh token", err)
		}
	}

	return &TokenPair{
		UserID:       userID,
		AccessToken:  access.Token,
		RefreshToken: refresh.Token,
		ExpiresAt:    access.ExpiresAt,
	}, nil
}

func (s *sessionService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	claims, err := s.jwt.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if s.tokens != nil {
		owner, err := s.tokens.Consume(ctx, claims.ID)
		if err != nil {
			if errors.Is(err, auth.ErrRevokedRefreshToken) {
				log.Warn("revoked refresh token presented",
					slog.String("user_id", claims.UserID.String()))
				return nil, err
			}
			return nil, NewServiceError("session", "refresh", "failed to check refresh token", err)
		}
		if owner != claims.UserID {
			log.Warn("refresh token owner mismatch",
				slog.String("user_id", claims.UserID.String()))
			return nil, fmt.Errorf("%w: owner mismatch", auth.ErrRevokedRefreshToken)
		}
	}

	return s.Issue(ctx, claims.UserID)
}
