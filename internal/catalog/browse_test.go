package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func catalogOf(categories ...string) []domain.Product {
	out := make([]domain.Product, 0, len(categories))
	for i, c := range categories {
		out = append(out, domain.Product{
			ID:       fmt.Sprintf("p%d", i),
			Name:     fmt.Sprintf("Item %d", i),
			Category: c,
			Slug:     fmt.Sprintf("item-%d", i),
		})
	}
	return out
}

func ids(products []domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestSearch(t *testing.T) {
	products := []domain.Product{
		{ID: "1", Name: "Red Lipstick", Category: "beauty"},
		{ID: "2", Name: "Sofa", Description: "A comfy RED sofa", Category: "furniture"},
		{ID: "3", Name: "Apple", Category: "groceries"},
	}

	assert.Equal(t, []string{"1", "2"}, ids(Search(products, "red")))
	assert.Equal(t, []string{"3"}, ids(Search(products, "GROCER")))
	assert.Empty(t, Search(products, "   "))
	assert.Empty(t, Search(products, "laptop"))
}

func TestBySlug(t *testing.T) {
	products := catalogOf("a", "b")

	p, err := BySlug(products, "item-1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)

	_, err = BySlug(products, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = BySlug(append(products, domain.Product{ID: "noslug"}), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRelated(t *testing.T) {
	products := catalogOf("x", "y", "x", "x", "x", "x", "x")

	related := Related(products, products[0], RelatedLimit)
	assert.Equal(t, []string{"p2", "p3", "p4", "p5"}, ids(related))
	assert.Empty(t, Related(products, products[1], RelatedLimit))
}

func TestByCategoryTab(t *testing.T) {
	products := catalogOf("beauty", "laptops", "groceries", "laptops", "womens-bags", "beauty")

	assert.Equal(t, []string{"p0", "p1", "p2"}, ids(ByCategoryTab(products, TabAll, nil, 3)))
	assert.Equal(t, []string{"p1", "p3"}, ids(ByCategoryTab(products, "laptops", nil, TabLimit)))
	assert.Equal(t, []string{"p1", "p3", "p4"}, ids(ByCategoryTab(products, TabAll, ArrivalCategories(), TabLimit)))
	assert.Empty(t, ByCategoryTab(products, "furniture", nil, TabLimit))
}

func TestBestDeals(t *testing.T) {
	assert.Empty(t, BestDeals(catalogOf("a", "b", "c", "d", "e", "f", "g", "h")))

	deals := BestDeals(catalogOf("a", "b", "c", "d", "e", "f", "g", "h", "i", "j"))
	assert.Len(t, deals, BestDealsCount)
	assert.Equal(t, "p0", deals[0].ID)
}

func TestHref(t *testing.T) {
	assert.Equal(t, "/product/xbox-series-s", Href(domain.Product{Slug: "xbox-series-s", Name: "Xbox"}))
	assert.Equal(t, "/search?q=Essence+Mascara", Href(domain.Product{Name: "Essence Mascara"}))
}
