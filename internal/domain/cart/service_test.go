package cart

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/artiflora-storefront/internal/domain/catalog"
	"github.com/your-org/artiflora-storefront/internal/pkg/logger"
)

type stubProducts map[string]catalog.Product

func (s stubProducts) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	p, ok := s[id]
	if !ok {
		return nil, errors.New("Product not found")
	}
	return &p, nil
}

func newTestService() (*Service, map[string]*MemoryStorage) {
	storages := map[string]*MemoryStorage{}
	factory := func(sessionID string) Storage {
		if _, ok := storages[sessionID]; !ok {
			storages[sessionID] = NewMemoryStorage(nil)
		}
		return storages[sessionID]
	}
	products := stubProducts{
		"p1": {ID: "p1", Name: "Vase", Price: decimal.NewFromInt(250), ImageURL: []string{"a.jpg"}},
	}
	return NewService(factory, products, logger.Discard()), storages
}

func TestServiceAddSnapshotsProduct(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	resp, err := svc.AddToCart(ctx, "s1", &AddToCartRequest{ProductID: "p1"})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Vase", resp.Items[0].Name)
	assert.Equal(t, 1, resp.Items[0].Quantity)
	assert.True(t, resp.Totals.Total.Equal(decimal.NewFromInt(250)))

	resp, err = svc.AddToCart(ctx, "s1", &AddToCartRequest{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Totals.TotalQuantity)
}

func TestServiceSessionsAreIsolated(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "s1", &AddToCartRequest{ProductID: "p1"})
	require.NoError(t, err)

	other, err := svc.GetCart(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

func TestServiceUnknownProduct(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.AddToCart(context.Background(), "s1", &AddToCartRequest{ProductID: "nope"})
	assert.Error(t, err)
}

func TestServiceRequiresSession(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.GetCart(context.Background(), "")
	assert.Error(t, err)
}

func TestServiceUpdateRemoveClear(t *testing.T) {
	svc, storages := newTestService()
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "s1", &AddToCartRequest{ProductID: "p1"})
	require.NoError(t, err)

	resp, err := svc.UpdateCartItem(ctx, "s1", "p1", &UpdateCartItemRequest{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Items[0].Quantity)

	resp, err = svc.RemoveFromCart(ctx, "s1", "p1")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)

	_, err = svc.AddToCart(ctx, "s1", &AddToCartRequest{ProductID: "p1"})
	require.NoError(t, err)
	require.NoError(t, svc.ClearCart(ctx, "s1"))
	assert.JSONEq(t, `[]`, string(storages["s1"].Bytes()))
}

func TestServiceRejectsQuantityOverflow(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "s1", &AddToCartRequest{ProductID: "p1", Quantity: math.MaxInt})
	assert.ErrorIs(t, err, ErrQuantityTooLarge)

	_, err = svc.AddToCart(ctx, "s1", &AddToCartRequest{ProductID: "p1", Quantity: MaxQuantity})
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, "s1", &AddToCartRequest{ProductID: "p1", Quantity: 2})
	assert.ErrorIs(t, err, ErrQuantityTooLarge)

	resp, err := svc.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, MaxQuantity, resp.Items[0].Quantity)
	assert.True(t, resp.Totals.Total.IsPositive())
}

func TestServiceMutationsFailWhenCartUnreadable(t *testing.T) {
	ctx := context.Background()
	stored := `[{"productId":"old","name":"Bowl","price":40,"quantity":5,"image_url":[]}]`
	storage := &flakyStorage{MemoryStorage: NewMemoryStorage([]byte(stored))}
	products := stubProducts{"p1": {ID: "p1", Name: "Vase", Price: decimal.NewFromInt(250)}}
	svc := NewService(func(string) Storage { return storage }, products, logger.Discard())

	_, err := svc.AddToCart(ctx, "s1", &AddToCartRequest{ProductID: "p1"})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.JSONEq(t, stored, string(storage.Bytes()))

	resp, err := svc.GetCart(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "old", resp.Items[0].ProductID)
}

func TestServiceGetCartToleratesUnreadableCart(t *testing.T) {
	svc := NewService(func(string) Storage { return failingStorage{err: errors.New("down")} }, stubProducts{}, logger.Discard())

	resp, err := svc.GetCart(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)

	_, err = svc.RemoveFromCart(context.Background(), "s1", "p1")
	assert.ErrorIs(t, err, ErrUnavailable)
}
