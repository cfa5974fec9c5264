// Package pricing derives the figures shown next to a cart: subtotal, shipping,
// total and per-product discounted prices. Everything here is pure.
package pricing

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

var (
	// FreeShippingThreshold is the subtotal at and above which shipping is free.
	FreeShippingThreshold = decimal.NewFromInt(300)
	// FlatShippingFee is charged on non-empty carts below the threshold.
	FlatShippingFee = decimal.NewFromInt(20)
	// DefaultDiscountPercentage applies when a product has neither an old price
	// nor a discount of its own.
	DefaultDiscountPercentage = decimal.NewFromInt(10)
)

var hundred = decimal.NewFromInt(100)

// Summary is the cart figure block.
type Summary struct {
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
}

// Subtotal is the sum of price × quantity over all lines.
func Subtotal(cart []domain.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range cart {
		sum = sum.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum
}

// ShippingFee is the flat fee for 0 < subtotal < threshold and zero otherwise.
func ShippingFee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsPositive() && subtotal.LessThan(FreeShippingThreshold) {
		return FlatShippingFee
	}
	return decimal.Zero
}

// Total is subtotal plus shipping.
func Total(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Add(ShippingFee(subtotal))
}

// ItemCount is the number of units in the cart.
func ItemCount(cart []domain.CartLine) int {
	n := 0
	for _, line := range cart {
		n += line.Quantity
	}
	return n
}

// Summarize computes every cart figure at once.
func Summarize(cart []domain.CartLine) Summary {
	subtotal := Subtotal(cart)
	shipping := ShippingFee(subtotal)
	return Summary{
		ItemCount: ItemCount(cart),
		Subtotal:  subtotal,
		Shipping:  shipping,
		Total:     subtotal.Add(shipping),
	}
}

// DiscountedPrice is the price shown as the deal price. With an explicit old
// price the current price already is the deal; otherwise the product's
// discount percentage (or the default) is taken off. Rounded to cents.
func DiscountedPrice(p domain.Product) decimal.Decimal {
	if p.HasOldPrice() {
		return p.Price
	}
	pct := DefaultDiscountPercentage
	if p.DiscountPercentage != nil && !p.DiscountPercentage.IsZero() {
		pct = *p.DiscountPercentage
	}
	off := p.Price.Mul(pct).Div(hundred)
	return p.Price.Sub(off).Round(2)
}

// StrikePrice is the reference price drawn crossed out next to DiscountedPrice.
func StrikePrice(p domain.Product) decimal.Decimal {
	if p.HasOldPrice() {
		return *p.OldPrice
	}
	return p.Price
}
