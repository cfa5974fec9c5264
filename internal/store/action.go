package store

import "storefront/internal/domain"

// Action is a state container mutation. The set of actions is closed: only
// the types in this file implement it.
type Action interface {
	kind() string
}

// AddToCart increments the product's line, or appends a line with quantity 1.
type AddToCart struct {
	Product domain.Product
}

// RemoveFromCart deletes the product's line. Unknown ids are a no-op.
type RemoveFromCart struct {
	ProductID string
}

// UpdateQuantity sets the line quantity, floored at 1. Unknown ids are a no-op.
type UpdateQuantity struct {
	ProductID string
	Quantity  int
}

// ToggleWishlist removes the product from the wishlist if present, otherwise
// stores the given snapshot.
type ToggleWishlist struct {
	Product domain.Product
}

// ClearCart empties the cart and leaves the wishlist alone.
type ClearCart struct{}

func (AddToCart) kind() string      { return "add_to_cart" }
func (RemoveFromCart) kind() string { return "remove_from_cart" }
func (UpdateQuantity) kind() string { return "update_quantity" }
func (ToggleWishlist) kind() string { return "toggle_wishlist" }
func (ClearCart) kind() string      { return "clear_cart" }

// ActionName returns a stable label for logs and metrics.
func ActionName(a Action) string {
	if a == nil {
		return "unknown"
	}
	return a.kind()
}
