package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/growthos/growthos/internal/platform/httpx"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps opaque session tokens in Redis. Each key carries the
// TTL, so an expired session and a missing session are the same thing: a
// failed lookup.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore constructs a store with the given session lifetime.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Issue creates a fresh token bound to userID.
func (s *SessionStore) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, sessionKeyPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Lookup returns the user bound to token. Unknown or expired tokens yield
// ErrUnauthenticated.
func (s *SessionStore) Lookup(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", httpx.ErrUnauthenticated
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

// Revoke deletes the token. Revoking an unknown token is not an error.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}

// TTL exposes the configured session lifetime for cookie expiry.
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}
