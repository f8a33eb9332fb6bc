// internal/infrastructure/database/redis/cart_storage.go
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/artiflora-storefront/internal/domain/cart"
)

// CartStorage keeps the encoded cart of one browser session under
// myApp_cart:<session id>
type CartStorage struct {
	client *Client
	key    string
	ttl    time.Duration
}

// CartStorageFactory returns a cart.StorageFactory backed by Redis. Each
// save pushes the key's expiry out by ttl; zero keeps carts forever.
func CartStorageFactory(client *Client, ttl time.Duration) cart.StorageFactory {
	return func(sessionID string) cart.Storage {
		return &CartStorage{
			client: client,
			key:    cart.StorageKey + ":" + sessionID,
			ttl:    ttl,
		}
	}
}

// Load returns the stored bytes or cart.ErrNotFound
func (s *CartStorage) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Redis.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cart.ErrNotFound
	}
	return data, err
}

// Save replaces the stored bytes
func (s *CartStorage) Save(ctx context.Context, data []byte) error {
	return s.client.Redis.Set(ctx, s.key, data, s.ttl).Err()
}
