package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/bibliotek/library-system/internal/core/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrSessionNotFound is returned when a session ID does not resolve: it was
// never issued, has expired, or was revoked by logout.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps server-side sessions in Redis. Each session maps an
// opaque ID to the resolved caller identity and expires after the TTL.
// Key format: session:<uuid>
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{client: client, ttl: ttl}
}

type sessionRecord struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

// Create issues a new session for the identity and returns its opaque ID.
func (s *SessionStore) Create(ctx context.Context, identity domain.Identity) (string, error) {
	id := uuid.NewString()

	payload, err := json.Marshal(sessionRecord{UserID: identity.UserID, Role: identity.Role})
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(id), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return id, nil
}

// Resolve maps a session ID back to the identity it was issued for.
func (s *SessionStore) Resolve(ctx context.Context, id string) (domain.Identity, error) {
	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Identity{}, ErrSessionNotFound
		}
		return domain.Identity{}, fmt.Errorf("load session: %w", err)
	}

	var record sessionRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return domain.Identity{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return domain.Identity{UserID: record.UserID, Role: record.Role}, nil
}

// Delete revokes a session. Deleting an unknown ID is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *SessionStore) key(id string) string {
	return "session:" + id
}
