package catalog

import (
	"encoding/json"
	"testing"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeProduct(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 7,
		"title": "Essence Mascara",
		"description": "Volumizing mascara",
		"category": "beauty",
		"price": 9.99,
		"discountPercentage": 7.17,
		"rating": 4.94,
		"stock": 5,
		"thumbnail": "https://cdn.example/mascara.png"
	}`)

	p, err := NormalizeProduct(raw)
	require.NoError(t, err)

	assert.Equal(t, "remote-7", p.ID)
	assert.Equal(t, "Essence Mascara", p.Name)
	assert.Equal(t, "beauty", p.Category)
	assert.Equal(t, "SKU-7", p.SKU)
	assert.Equal(t, "https://cdn.example/mascara.png", p.Image)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("9.99")))
	require.NotNil(t, p.DiscountPercentage)
	assert.True(t, p.DiscountPercentage.Equal(decimal.RequireFromString("7.17")))
	assert.Equal(t, 4.94, p.Rating)
	assert.Equal(t, 5, p.Stock)
	assert.Nil(t, p.OldPrice)
	assert.Empty(t, p.Slug)
}

func TestNormalizeProduct_MissingFields(t *testing.T) {
	p, err := NormalizeProduct(json.RawMessage(`{"id": "abc", "title": "Bare", "sku": "X-1"}`))
	require.NoError(t, err)

	assert.Equal(t, "remote-abc", p.ID)
	assert.Equal(t, "X-1", p.SKU)
	assert.True(t, p.Price.IsZero())
	require.NotNil(t, p.DiscountPercentage)
	assert.True(t, p.DiscountPercentage.IsZero())
	assert.Zero(t, p.Rating)
	assert.Zero(t, p.Stock)
}

func TestNormalizeProduct_Invalid(t *testing.T) {
	_, err := NormalizeProduct(json.RawMessage(`[1,2]`))
	assert.Error(t, err)
}

func TestCategoryName(t *testing.T) {
	cases := map[string]string{
		"home-decoration": "Home Decoration",
		"beauty":          "Beauty",
		"mens-shirts":     "Mens Shirts",
		"":                "",
	}
	for slug, want := range cases {
		got := CategoryName(slug)
		assert.Equal(t, want, got, slug)
		assert.True(t, utf8.ValidString(got), slug)
	}
}

func TestCategoryName_NonASCII(t *testing.T) {
	got := CategoryName("électronique-maison")
	assert.Equal(t, "Électronique Maison", got)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "Ürün", CategoryName("ürün"))
}

func TestNormalizeCategory(t *testing.T) {
	c, err := NormalizeCategory(json.RawMessage(`"home-decoration"`))
	require.NoError(t, err)
	assert.Equal(t, "home-decoration", c.Slug)
	assert.Equal(t, "Home Decoration", c.Name)

	c, err = NormalizeCategory(json.RawMessage(`{"slug": "womens-bags", "name": "Women's Bags"}`))
	require.NoError(t, err)
	assert.Equal(t, "womens-bags", c.Slug)
	assert.Equal(t, "Women's Bags", c.Name)

	c, err = NormalizeCategory(json.RawMessage(`{"slug": "mens-shirts"}`))
	require.NoError(t, err)
	assert.Equal(t, "Mens Shirts", c.Name)

	_, err = NormalizeCategory(json.RawMessage(`42`))
	assert.Error(t, err)
}

func TestFallbackCategory(t *testing.T) {
	c := FallbackCategory("Computer  &  Laptop")
	assert.Equal(t, "computer-&-laptop", c.Slug)
	assert.Equal(t, "Computer  &  Laptop", c.Name)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "apple-watch-series-8-gps-45mm", Slugify("  Apple Watch Series 8 (GPS) 45mm "))
	assert.Equal(t, "", Slugify("!!!"))
}
