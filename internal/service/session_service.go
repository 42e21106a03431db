package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// Redis key prefixes for the token allow-list
	RedisAccessKeyPrefix  = "access_token:"
	RedisRefreshKeyPrefix = "refresh_token:"

	tokenMarker = "valid"
)

// =============================================================================
// Types
// =============================================================================

// SessionService keeps the set of live access and refresh tokens in Redis.
// A token that is validly signed but absent here has been revoked.
type SessionService struct {
	redis         *redis.Client
	log           *logrus.Logger
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewSessionService(redisClient *redis.Client, log *logrus.Logger, accessExpiry, refreshExpiry time.Duration) *SessionService {
	return &SessionService{
		redis:         redisClient,
		log:           log,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func accessKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s%s:%s", RedisAccessKeyPrefix, userID, tokenID)
}

func refreshKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s%s:%s", RedisRefreshKeyPrefix, userID, tokenID)
}

// =============================================================================
// Operations
// =============================================================================

// Issue registers a freshly signed token pair in one round trip
func (s *SessionService) Issue(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, accessKey(userID, accessTokenID), tokenMarker, s.accessExpiry)
	pipe.Set(ctx, refreshKey(userID, refreshTokenID), tokenMarker, s.refreshExpiry)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warnf("Failed to store tokens for user %s: %+v", userID, err)
		return err
	}
	return nil
}

// IsAccessActive reports whether the access token is still allow-listed
func (s *SessionService) IsAccessActive(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	exists, err := s.redis.Exists(ctx, accessKey(userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// ConsumeRefresh removes the refresh token and reports whether it was live.
// DEL is atomic, so two concurrent refreshes cannot both succeed.
func (s *SessionService) ConsumeRefresh(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	deleted, err := s.redis.Del(ctx, refreshKey(userID, tokenID)).Result()
	if err != nil {
		s.log.Warnf("Failed to consume refresh token: %+v", err)
		return false, err
	}
	return deleted > 0, nil
}

// Revoke drops the given tokens. An empty refreshTokenID only revokes the access token.
func (s *SessionService) Revoke(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	keys := []string{accessKey(userID, accessTokenID)}
	if refreshTokenID != "" {
		keys = append(keys, refreshKey(userID, refreshTokenID))
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		s.log.Warnf("Failed to revoke tokens for user %s: %+v", userID, err)
		return err
	}
	return nil
}

// RevokeAll drops every token of a user, e.g. after the account is deactivated
func (s *SessionService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	for _, prefix := range []string{RedisAccessKeyPrefix, RedisRefreshKeyPrefix} {
		iter := s.redis.Scan(ctx, 0, fmt.Sprintf("%s%s:*", prefix, userID), 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			s.log.Warnf("Failed to scan tokens for user %s: %+v", userID, err)
			return err
		}
		if len(keys) == 0 {
			continue
		}
		if err := s.redis.Del(ctx, keys...).Err(); err != nil {
			s.log.Warnf("Failed to delete tokens for user %s: %+v", userID, err)
			return err
		}
	}
	return nil
}
