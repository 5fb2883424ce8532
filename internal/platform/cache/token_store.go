package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/service/auth"
)

const refreshKeyPrefix = "lms:refresh:"

// redisClient is the subset of go-redis commands the store uses.
type redisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
}

// RedisTokenStore implements auth.RefreshTokenStore on Redis. Each live token
// id is a key holding the user id, expiring with the token.
type RedisTokenStore struct {
	client redisClient
	now    func() time.Time
	logger *slog.Logger
}

var _ auth.RefreshTokenStore = (*RedisTokenStore)(nil)

// NewRedisTokenStore wraps an existing client.
func NewRedisTokenStore(client redisClient, logger *slog.Logger) *RedisTokenStore {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisTokenStore{
		client: client,
		now:    time.Now,
		logger: logger.With(slog.String("component", "refresh_token_store")),
	}
}

// Connect parses a redis:// URL, opens a client and pings it.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func refreshKey(tokenID string) string {
	return refreshKeyPrefix + tokenID
}

// Save implements auth.RefreshTokenStore.Save.
func (s *RedisTokenStore) Save(ctx context.Context, tokenID string, userID uuid.UUID, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("%w: token already expired", auth.ErrExpiredRefreshToken)
	}

	if err := s.client.Set(ctx, refreshKey(tokenID), userID.String(), ttl).Err(); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to save refresh token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

// Consume implements auth.RefreshTokenStore.Consume.
func (s *RedisTokenStore) Consume(ctx context.Context, tokenID string) (uuid.UUID, error) {
	val, err := s.client.GetDel(ctx, refreshKey(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, auth.ErrRevokedRefreshToken
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to consume refresh token",
			slog.String("error", err.Error()))
		return uuid.Nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: corrupt allowlist entry", auth.ErrRevokedRefreshToken)
	}
	return userID, nil
}
