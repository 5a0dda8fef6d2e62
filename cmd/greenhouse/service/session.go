package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	rediscommon "github.com/sproutly/greenhouse/common/redis"
)

// SessionStore holds active session tokens. Absence of a token means the
// session expired or never existed.
type SessionStore interface {
	Put(ctx context.Context, token, userID string, ttl time.Duration) error
	Get(ctx context.Context, token string) (string, error)
	Refresh(ctx context.Context, token string, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

// RedisSessionStore keeps session tokens in Redis with a TTL
type RedisSessionStore struct {
	redis *rediscommon.Client
}

// NewRedisSessionStore creates a Redis-backed session store
func NewRedisSessionStore(redisClient *rediscommon.Client) *RedisSessionStore {
	return &RedisSessionStore{redis: redisClient}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// Put stores token -> user id with expiry
func (s *RedisSessionStore) Put(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.redis.SetWithExpiry(ctx, sessionKey(token), userID, ttl)
}

// Get resolves a token to a user id
func (s *RedisSessionStore) Get(ctx context.Context, token string) (string, error) {
	userID, err := s.redis.Get(ctx, sessionKey(token))
	if errors.Is(err, rediscommon.ErrNotFound) {
		return "", ErrNotAuthenticated
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve session: %w", err)
	}
	return userID, nil
}

// Refresh extends the session expiry (sliding TTL)
func (s *RedisSessionStore) Refresh(ctx context.Context, token string, ttl time.Duration) error {
	return s.redis.Expire(ctx, sessionKey(token), ttl)
}

// Delete removes the session token
func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.redis.Delete(ctx, sessionKey(token))
}
