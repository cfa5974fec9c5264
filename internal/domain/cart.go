package domain

// CartLine is one distinct product in the cart. The product snapshot is kept
// next to the quantity so the line knows the price it was added at.
type CartLine struct {
	Product
	Quantity int `json:"qty"`
}

// State is everything a shopper session owns: the cart and the wishlist.
// It is the unit that gets persisted.
type State struct {
	Cart     []CartLine `json:"cart"`
	Wishlist []Product  `json:"wishlist"`
}

// EmptyState returns the default state used on first load and after a corrupt read.
func EmptyState() State {
	return State{Cart: []CartLine{}, Wishlist: []Product{}}
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	out := State{
		Cart:     make([]CartLine, len(s.Cart)),
		Wishlist: make([]Product, len(s.Wishlist)),
	}
	copy(out.Cart, s.Cart)
	copy(out.Wishlist, s.Wishlist)
	return out
}

// LineIndex returns the index of the cart line for productID, or -1.
func (s State) LineIndex(productID string) int {
	for i := range s.Cart {
		if s.Cart[i].ID == productID {
			return i
		}
	}
	return -1
}

// InCart reports whether productID has a cart line.
func (s State) InCart(productID string) bool {
	return s.LineIndex(productID) >= 0
}

// InWishlist reports whether productID is on the wishlist.
func (s State) InWishlist(productID string) bool {
	for i := range s.Wishlist {
		if s.Wishlist[i].ID == productID {
			return true
		}
	}
	return false
}
