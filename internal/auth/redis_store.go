package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore persists session profiles in Redis so sessions survive an
// API restart.
type RedisSessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisSessionStore creates a session store backed by the given client.
// Sessions expire after ttl; zero means no expiry.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{redis: client, ttl: ttl}
}

func (s *RedisSessionStore) key(sessionID string) string {
	return fmt.Sprintf("session:user:%s", sessionID)
}

// Put stores the profile under the session id.
func (s *RedisSessionStore) Put(ctx context.Context, sessionID string, profile Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("auth: marshal session profile: %w", err)
	}

	if err := s.redis.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("auth: set session: %w", err)
	}
	return nil
}

// Get loads the profile for a session id. A stored value that fails to parse
// is deleted and reported as a missing session.
func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (Profile, error) {
	data, err := s.redis.Get(ctx, s.key(sessionID)).Bytes()
	if err == redis.Nil {
		return Profile{}, ErrSessionNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("auth: get session: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		s.redis.Del(ctx, s.key(sessionID))
		return Profile{}, ErrSessionNotFound
	}
	return p, nil
}

// Delete removes the session if present.
func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("auth: delete session: %w", err)
	}
	return nil
}
