package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// RemoteIDPrefix namespaces ids of remotely sourced products so they never
// collide with fallback products.
const RemoteIDPrefix = "remote-"

// remoteProduct is one record of the demo API's product list.
type remoteProduct struct {
	ID                 json.RawMessage `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Category           string          `json:"category"`
	SKU                string          `json:"sku"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	Rating             float64         `json:"rating"`
	Stock              float64         `json:"stock"`
	Thumbnail          string          `json:"thumbnail"`
}

// NormalizeProduct maps a remote record onto the canonical product shape.
// Missing numbers become zero and a missing SKU is derived from the id.
func NormalizeProduct(raw json.RawMessage) (domain.Product, error) {
	var rp remoteProduct
	if err := json.Unmarshal(raw, &rp); err != nil {
		return domain.Product{}, fmt.Errorf("decode remote product: %w", err)
	}

	id := remoteID(rp.ID)
	sku := strings.TrimSpace(rp.SKU)
	if sku == "" {
		sku = "SKU-" + id
	}
	discount := rp.DiscountPercentage

	return domain.Product{
		ID:                 RemoteIDPrefix + id,
		Name:               rp.Title,
		Description:        rp.Description,
		Category:           rp.Category,
		SKU:                sku,
		Price:              rp.Price,
		DiscountPercentage: &discount,
		Rating:             rp.Rating,
		Stock:              int(math.Round(rp.Stock)),
		Image:              rp.Thumbnail,
	}, nil
}

// remoteID accepts both numeric and string ids.
func remoteID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// CategoryName turns a category slug into a display name:
// "home-decoration" becomes "Home Decoration".
func CategoryName(slug string) string {
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(part)
		parts[i] = string(unicode.ToUpper(r)) + part[size:]
	}
	return strings.Join(parts, " ")
}

// NormalizeCategory accepts either a bare slug string or an object with
// slug and name; a missing name is derived from the slug.
func NormalizeCategory(raw json.RawMessage) (domain.Category, error) {
	var slug string
	if err := json.Unmarshal(raw, &slug); err == nil {
		return domain.Category{Slug: slug, Name: CategoryName(slug)}, nil
	}

	var obj struct {
		Slug string `json:"slug"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return domain.Category{}, fmt.Errorf("decode remote category: %w", err)
	}
	name := obj.Name
	if name == "" {
		name = CategoryName(obj.Slug)
	}
	return domain.Category{Slug: obj.Slug, Name: name}, nil
}

var whitespace = regexp.MustCompile(`\s+`)

// FallbackCategory builds a category from a display name the way the static
// list does: lower-cased with runs of whitespace replaced by hyphens.
func FallbackCategory(name string) domain.Category {
	return domain.Category{
		Slug: whitespace.ReplaceAllString(strings.ToLower(name), "-"),
		Name: name,
	}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify makes a URL-friendly slug from a product name.
func Slugify(name string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(s, "-")
}
