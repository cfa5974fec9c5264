package catalog

import (
	"encoding/json"
	"fmt"

	"storefront/internal/domain"
)

// DecodeProducts parses a product list response. The body must be a JSON
// object; a missing or non-array "products" field yields an empty list.
// Records that cannot be normalized are skipped and counted.
func DecodeProducts(body []byte) ([]domain.Product, int, error) {
	var envelope struct {
		Products json.RawMessage `json:"products"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, 0, fmt.Errorf("decode products response: %w", err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(envelope.Products, &items); err != nil {
		return []domain.Product{}, 0, nil
	}

	out := make([]domain.Product, 0, len(items))
	skipped := 0
	for _, item := range items {
		p, err := NormalizeProduct(item)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, p)
	}
	return out, skipped, nil
}

// DecodeCategories parses a category list response. The body must be valid
// JSON; anything but an array yields an empty list.
func DecodeCategories(body []byte) ([]domain.Category, int, error) {
	if !json.Valid(body) {
		return nil, 0, fmt.Errorf("decode categories response: invalid JSON")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return []domain.Category{}, 0, nil
	}

	out := make([]domain.Category, 0, len(items))
	skipped := 0
	for _, item := range items {
		c, err := NormalizeCategory(item)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, c)
	}
	return out, skipped, nil
}
