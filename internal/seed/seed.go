package seed

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/store"
)

// DefaultScope is the session id the demo state is written under.
const DefaultScope = "demo-session"

// Demo builds a demo state from the first products of a catalog: two of the
// first, one of the second and third in the cart, and the fourth and fifth
// on the wishlist. Smaller catalogs yield a correspondingly smaller state.
func Demo(products []domain.Product) domain.State {
	actions := make([]store.Action, 0, 6)
	for i, p := range products {
		switch {
		case i == 0:
			actions = append(actions, store.AddToCart{Product: p}, store.AddToCart{Product: p})
		case i < 3:
			actions = append(actions, store.AddToCart{Product: p})
		case i < 5:
			actions = append(actions, store.ToggleWishlist{Product: p})
		}
	}

	state := domain.EmptyState()
	for _, a := range actions {
		state = store.Reduce(state, a)
	}
	return state
}

// Apply overwrites scope's persisted state with the demo state. Running it
// again resets the scope to the same state.
func Apply(ctx context.Context, repo store.Repository, scope string, products []domain.Product) (domain.State, error) {
	if scope == "" {
		return domain.State{}, fmt.Errorf("seed: empty scope")
	}
	state := Demo(products)
	blob, err := store.Encode(state)
	if err != nil {
		return domain.State{}, err
	}
	if err := repo.Save(ctx, scope, blob); err != nil {
		return domain.State{}, fmt.Errorf("save demo state: %w", err)
	}
	return state, nil
}
