// internal/pkg/money/money.go
package money

import (
	"github.com/shopspring/decimal"
)

// The remote API and the payment gateway exchange amounts as JSON numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

var hundred = decimal.NewFromInt(100)

// LineTotal returns price multiplied by quantity
func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// MinorUnits converts a major-unit amount to the gateway's minor unit,
// rounding half away from zero (paise for INR)
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits converts a minor-unit amount back to major units
func FromMinorUnits(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Div(hundred)
}

// Format renders an amount with the rupee sign and two decimals
func Format(amount decimal.Decimal) string {
	return "₹" + amount.StringFixed(2)
}
