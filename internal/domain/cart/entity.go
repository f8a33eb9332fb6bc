// internal/domain/cart/entity.go
package cart

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/artiflora-storefront/internal/domain/catalog"
	"github.com/your-org/artiflora-storefront/internal/pkg/money"
)

// StorageKey is the fixed key the cart collection is persisted under
const StorageKey = "myApp_cart"

// Item is a line in the pre-checkout basket. Name, price and images are
// snapshots taken when the item was added.
type Item struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  []string        `json:"image_url"`
}

// ItemFromProduct snapshots a catalog product into a cart item
func ItemFromProduct(p catalog.Product) Item {
	images := append([]string{}, p.ImageURL...)
	return Item{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  1,
		ImageURL:  images,
	}
}

// LineTotal returns price multiplied by quantity
func (i Item) LineTotal() decimal.Decimal {
	return money.LineTotal(i.Price, i.Quantity)
}

// Totals summarises the cart
type Totals struct {
	ItemCount     int             `json:"item_count"`
	TotalQuantity int             `json:"total_quantity"`
	Total         decimal.Decimal `json:"total"`
}

// CalculateTotals sums quantities and line totals
func CalculateTotals(items []Item) Totals {
	totals := Totals{ItemCount: len(items), Total: decimal.Zero}
	for _, item := range items {
		totals.TotalQuantity += item.Quantity
		totals.Total = totals.Total.Add(item.LineTotal())
	}
	return totals
}
