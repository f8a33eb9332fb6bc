package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/artiflora-storefront/internal/domain/cart"
	"github.com/your-org/artiflora-storefront/internal/domain/identity"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestCartStorageRoundTrip(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()
	factory := CartStorageFactory(client, time.Hour)

	store, err := cart.Open(ctx, factory("sess-1"))
	require.NoError(t, err)
	assert.True(t, store.IsEmpty())

	require.NoError(t, store.Add(ctx, cart.Item{
		ProductID: "p1",
		Name:      "Vase",
		Price:     decimal.NewFromInt(250),
	}, 2))

	assert.True(t, mr.Exists("myApp_cart:sess-1"))
	assert.Equal(t, time.Hour, mr.TTL("myApp_cart:sess-1"))

	reopened, err := cart.Open(ctx, factory("sess-1"))
	require.NoError(t, err)
	items := reopened.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(250)))

	other, err := cart.Open(ctx, factory("sess-2"))
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())
}

func TestCartStorageMissingKey(t *testing.T) {
	client, _ := newTestClient(t)
	_, err := CartStorageFactory(client, 0)("nobody").Load(context.Background())
	assert.ErrorIs(t, err, cart.ErrNotFound)
}

func TestCartStorageCorruptValue(t *testing.T) {
	client, mr := newTestClient(t)
	require.NoError(t, mr.Set("myApp_cart:sess-1", "{not json"))

	store, err := cart.Open(context.Background(), CartStorageFactory(client, 0)("sess-1"))
	require.NoError(t, err)
	assert.True(t, store.IsEmpty())
}

func TestSessionStore(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()
	store := NewSessionStore(client)

	_, err := store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, identity.ErrNoRecord)

	record := &identity.Record{
		Identity:     identity.Identity{UID: "uid-1", Email: "a@example.com", EmailVerified: true},
		IDToken:      "id",
		RefreshToken: "rt",
		ExpiresAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Remember:     true,
	}
	require.NoError(t, store.Save(ctx, "sess-1", record, 30*time.Minute))
	assert.Equal(t, 30*time.Minute, mr.TTL("session:sess-1"))

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", loaded.Identity.UID)
	assert.True(t, loaded.Remember)
	assert.True(t, loaded.ExpiresAt.Equal(record.ExpiresAt))

	require.NoError(t, store.Delete(ctx, "sess-1"))
	_, err = store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, identity.ErrNoRecord)
}

func TestHealth(t *testing.T) {
	client, mr := newTestClient(t)
	assert.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}
