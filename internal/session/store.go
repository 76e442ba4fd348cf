package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix  = "designlab:session:" // designlab:session:{user_id}
	defaultSessionTTL = 24 * time.Hour
)

// Store persists sessions so a workspace can be rebuilt after a restart.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context, userID string) (*Session, error)
	Delete(ctx context.Context, userID string) error
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) key(userID string) string {
	return sessionKeyPrefix + userID
}

// Save keeps the session until its token expires, or for a day when the
// token carries no expiry.
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	ttl := ttlFor(s, time.Now())
	if ttl <= 0 {
		return fmt.Errorf("session for %s has already expired", s.UserID)
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(s.UserID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context, userID string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(userID)).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func ttlFor(s *Session, now time.Time) time.Duration {
	if s.ExpiresAt.IsZero() {
		return defaultSessionTTL
	}
	return s.ExpiresAt.Sub(now)
}

// MemoryStore is used when no Redis is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	if ttlFor(s, m.now()) <= 0 {
		return fmt.Errorf("session for %s has already expired", s.UserID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.UserID] = *s
	return nil
}

func (m *MemoryStore) Load(_ context.Context, userID string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[userID]
	m.mu.RUnlock()
	if !ok || s.Expired(m.now()) {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}
