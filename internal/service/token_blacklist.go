package service

import (
	"context"
	"fmt"
	"time"

	"github.com/heapsdsa/heapsauth/pkg/database"
)

const blacklistKeyPrefix = "blacklist:token:"

// TokenBlacklistService tracks revoked refresh tokens in Redis. Entries expire
// with the token they revoke, so the set never needs sweeping.
type TokenBlacklistService struct {
	redis *database.Redis
}

// NewTokenBlacklistService creates a new token blacklist service
func NewTokenBlacklistService(redis *database.Redis) *TokenBlacklistService {
	return &TokenBlacklistService{redis: redis}
}

// AddToken revokes a token for the given duration
func (s *TokenBlacklistService) AddToken(ctx context.Context, token string, expiry time.Duration) error {
	if err := s.redis.Client.Set(ctx, blacklistKeyPrefix+token, "1", expiry).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

// IsTokenBlacklisted checks whether a token has been revoked
func (s *TokenBlacklistService) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	exists, err := s.redis.Client.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return exists > 0, nil
}

// RemoveToken un-revokes a token
func (s *TokenBlacklistService) RemoveToken(ctx context.Context, token string) error {
	if err := s.redis.Client.Del(ctx, blacklistKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to remove token from blacklist: %w", err)
	}
	return nil
}
