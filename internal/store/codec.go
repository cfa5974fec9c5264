package store

import (
	"encoding/json"
	"fmt"

	"storefront/internal/domain"
)

// Encode serializes state into the persisted blob format:
// {"cart": [...], "wishlist": [...]}.
func Encode(state domain.State) ([]byte, error) {
	if state.Cart == nil {
		state.Cart = []domain.CartLine{}
	}
	if state.Wishlist == nil {
		state.Wishlist = []domain.Product{}
	}
	blob, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return blob, nil
}

// Decode parses a persisted blob. The blob is unversioned, so any shape
// mismatch is reported as an error and callers treat it as absent. A decoded
// state is normalized: quantities are floored at 1 and repeated ids keep the
// first occurrence.
func Decode(blob []byte) (domain.State, error) {
	var raw domain.State
	if err := json.Unmarshal(blob, &raw); err != nil {
		return domain.EmptyState(), fmt.Errorf("decode state: %w", err)
	}
	return normalize(raw), nil
}

func normalize(raw domain.State) domain.State {
	out := domain.EmptyState()

	seen := make(map[string]struct{}, len(raw.Cart))
	for _, line := range raw.Cart {
		if _, dup := seen[line.ID]; dup {
			continue
		}
		seen[line.ID] = struct{}{}
		line.Quantity = max(1, line.Quantity)
		out.Cart = append(out.Cart, line)
	}

	seen = make(map[string]struct{}, len(raw.Wishlist))
	for _, p := range raw.Wishlist {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out.Wishlist = append(out.Wishlist, p)
	}
	return out
}
