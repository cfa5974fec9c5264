package store

import "storefront/internal/domain"

// Reduce computes the state that follows applying action to state. The input
// is never modified; the result shares no slices with it.
func Reduce(state domain.State, action Action) domain.State {
	switch a := action.(type) {
	case AddToCart:
		return addToCart(state, a.Product)
	case RemoveFromCart:
		return removeFromCart(state, a.ProductID)
	case UpdateQuantity:
		return updateQuantity(state, a.ProductID, a.Quantity)
	case ToggleWishlist:
		return toggleWishlist(state, a.Product)
	case ClearCart:
		next := state.Clone()
		next.Cart = []domain.CartLine{}
		return next
	default:
		return state.Clone()
	}
}

func addToCart(state domain.State, p domain.Product) domain.State {
	next := state.Clone()
	if idx := next.LineIndex(p.ID); idx >= 0 {
		next.Cart[idx].Quantity++
		return next
	}
	next.Cart = append(next.Cart, domain.CartLine{Product: p, Quantity: 1})
	return next
}

func removeFromCart(state domain.State, productID string) domain.State {
	next := state.Clone()
	lines := make([]domain.CartLine, 0, len(next.Cart))
	for _, line := range next.Cart {
		if line.ID != productID {
			lines = append(lines, line)
		}
	}
	next.Cart = lines
	return next
}

func updateQuantity(state domain.State, productID string, qty int) domain.State {
	next := state.Clone()
	if idx := next.LineIndex(productID); idx >= 0 {
		next.Cart[idx].Quantity = max(1, qty)
	}
	return next
}

func toggleWishlist(state domain.State, p domain.Product) domain.State {
	next := state.Clone()
	if !next.InWishlist(p.ID) {
		next.Wishlist = append(next.Wishlist, p)
		return next
	}
	items := make([]domain.Product, 0, len(next.Wishlist))
	for _, item := range next.Wishlist {
		if item.ID != p.ID {
			items = append(items, item)
		}
	}
	next.Wishlist = items
	return next
}
