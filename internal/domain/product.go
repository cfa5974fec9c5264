package domain

import "github.com/shopspring/decimal"

// Product is a catalog record. It is treated as immutable once fetched; carts
// and wishlists keep copies of it.
type Product struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Description        string           `json:"description,omitempty"`
	Category           string           `json:"category"`
	SKU                string           `json:"sku,omitempty"`
	Price              decimal.Decimal  `json:"price"`
	OldPrice           *decimal.Decimal `json:"oldPrice,omitempty"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage,omitempty"`
	Rating             float64          `json:"rating"`
	Stock              int              `json:"stock"`
	Image              string           `json:"image,omitempty"`
	Slug               string           `json:"slug,omitempty"`
}

// HasOldPrice reports whether the product carries an explicit strike-through price.
func (p Product) HasOldPrice() bool {
	return p.OldPrice != nil
}
