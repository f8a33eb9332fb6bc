// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest quantity a single cart row may hold
const MaxQuantity = 10000

var (
	// ErrNotFound is returned by Storage when nothing has been persisted yet
	ErrNotFound = errors.New("cart: nothing stored")
	// ErrUnavailable wraps storage failures other than ErrNotFound
	ErrUnavailable = errors.New("cart storage unavailable")
	// ErrQuantityTooLarge is returned when a row would exceed MaxQuantity
	ErrQuantityTooLarge = fmt.Errorf("quantity must not exceed %d", MaxQuantity)
)

// Storage is durable storage for the encoded cart collection
type Storage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Store is the client-side basket. Every mutation persists the full
// collection before returning.
type Store struct {
	mu      sync.Mutex
	storage Storage
	items   []Item

	// set when the stored cart could not be read; such a store never persists
	loadErr error
}

// Open rehydrates a store from storage. Missing or unreadable data yields an
// empty cart. Storage failures other than "not found" are reported as
// ErrUnavailable; the returned store is empty and refuses to persist so the
// stored cart is never overwritten.
func Open(ctx context.Context, storage Storage) (*Store, error) {
	s := &Store{storage: storage, items: []Item{}}

	data, err := storage.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return s, nil
		}
		s.loadErr = fmt.Errorf("%w: failed to load cart: %w", ErrUnavailable, err)
		return s, s.loadErr
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil || items == nil {
		return s, nil
	}
	s.items = items
	return s, nil
}

// Items returns a copy of the cart rows in insertion order
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Totals returns the cart summary
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CalculateTotals(s.items)
}

// Total returns the sum of price times quantity over all rows
func (s *Store) Total() decimal.Decimal {
	return s.Totals().Total
}

// Count returns the sum of quantities
func (s *Store) Count() int {
	return s.Totals().TotalQuantity
}

// IsEmpty reports whether the cart has no rows
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

// Add merges item into the cart: an existing row for the same product has its
// quantity increased, otherwise a new row is appended with quantity. A row
// never grows beyond MaxQuantity.
func (s *Store) Add(ctx context.Context, item Item, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}
	if quantity > MaxQuantity {
		return ErrQuantityTooLarge
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			if s.items[i].Quantity > MaxQuantity-quantity {
				return ErrQuantityTooLarge
			}
			s.items[i].Quantity += quantity
			return s.persist(ctx)
		}
	}

	item.Quantity = quantity
	if item.ImageURL == nil {
		item.ImageURL = []string{}
	}
	s.items = append(s.items, item)
	return s.persist(ctx)
}

// UpdateQuantity replaces the quantity of a row. Quantities below 1 are
// ignored; removal is a separate operation.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return nil
	}
	if quantity > MaxQuantity {
		return ErrQuantityTooLarge
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
		}
	}
	return s.persist(ctx)
}

// Remove deletes the row for productID; absent rows are not an error
func (s *Store) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0:0]
	for _, item := range s.items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	s.items = kept
	return s.persist(ctx)
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []Item{}
	return s.persist(ctx)
}

func (s *Store) snapshot() []Item {
	out := make([]Item, len(s.items))
	for i, item := range s.items {
		item.ImageURL = append([]string{}, item.ImageURL...)
		out[i] = item
	}
	return out
}

func (s *Store) persist(ctx context.Context) error {
	if s.loadErr != nil {
		return s.loadErr
	}
	data, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.storage.Save(ctx, data); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}
