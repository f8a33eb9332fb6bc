// internal/infrastructure/database/redis/session_store.go
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/artiflora-storefront/internal/domain/identity"
)

const sessionKeyPrefix = "session:"

// SessionStore persists signed-in session records
type SessionStore struct {
	client *Client
}

// NewSessionStore creates a new session store
func NewSessionStore(client *Client) *SessionStore {
	return &SessionStore{client: client}
}

// Load returns the record of sessionID or identity.ErrNoRecord
func (s *SessionStore) Load(ctx context.Context, sessionID string) (*identity.Record, error) {
	var record identity.Record
	if err := s.client.GetJSON(ctx, sessionKeyPrefix+sessionID, &record); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, identity.ErrNoRecord
		}
		return nil, err
	}
	return &record, nil
}

// Save stores record for ttl
func (s *SessionStore) Save(ctx context.Context, sessionID string, record *identity.Record, ttl time.Duration) error {
	return s.client.SetJSON(ctx, sessionKeyPrefix+sessionID, record, ttl)
}

// Delete removes the record of sessionID
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Redis.Del(ctx, sessionKeyPrefix+sessionID).Err()
}
