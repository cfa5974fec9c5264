package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"storefront/internal/domain"
)

// TabAll selects every product a tab row may show.
const TabAll = "all"

const (
	// TabLimit caps the products shown in one tab row.
	TabLimit = 8
	// RelatedLimit caps the related products shown on a product page.
	RelatedLimit = 4
	// BestDealsCount is the number of products the best deals grid needs.
	BestDealsCount = 9
)

var (
	// FeaturedTabs are the tabs of the featured products row.
	FeaturedTabs = []string{TabAll, "beauty", "fragrances", "furniture", "groceries"}
	// ArrivalTabs are the tabs of the new arrivals row. Its "all" tab only
	// shows the categories that have a tab.
	ArrivalTabs = []string{TabAll, "laptops", "home-decoration", "mens-shirts", "womens-bags"}
)

// ArrivalCategories is ArrivalTabs without TabAll.
func ArrivalCategories() []string {
	return ArrivalTabs[1:]
}

// Search returns products whose name, description or category contains q,
// ignoring case. A blank query matches nothing.
func Search(products []domain.Product, q string) []domain.Product {
	q = strings.ToLower(strings.TrimSpace(q))
	out := []domain.Product{}
	if q == "" {
		return out
	}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

// BySlug finds the product with the given slug.
func BySlug(products []domain.Product, slug string) (domain.Product, error) {
	if slug != "" {
		for _, p := range products {
			if p.Slug == slug {
				return p, nil
			}
		}
	}
	return domain.Product{}, fmt.Errorf("product %q: %w", slug, domain.ErrNotFound)
}

// Related returns up to limit other products of p's category, in catalog order.
func Related(products []domain.Product, p domain.Product, limit int) []domain.Product {
	out := []domain.Product{}
	for _, candidate := range products {
		if len(out) >= limit {
			break
		}
		if candidate.ID != p.ID && candidate.Category == p.Category {
			out = append(out, candidate)
		}
	}
	return out
}

// ByCategoryTab returns the first limit products for a tab. For TabAll the
// products are restricted to allowed when it is non-empty.
func ByCategoryTab(products []domain.Product, tab string, allowed []string, limit int) []domain.Product {
	match := func(p domain.Product) bool { return p.Category == tab }
	if tab == TabAll || tab == "" {
		if len(allowed) == 0 {
			match = func(domain.Product) bool { return true }
		} else {
			set := make(map[string]struct{}, len(allowed))
			for _, c := range allowed {
				set[c] = struct{}{}
			}
			match = func(p domain.Product) bool {
				_, ok := set[p.Category]
				return ok
			}
		}
	}

	out := []domain.Product{}
	for _, p := range products {
		if len(out) >= limit {
			break
		}
		if match(p) {
			out = append(out, p)
		}
	}
	return out
}

// BestDeals returns the first BestDealsCount products, or nothing when the
// catalog is too small to fill the grid.
func BestDeals(products []domain.Product) []domain.Product {
	if len(products) < BestDealsCount {
		return []domain.Product{}
	}
	return append([]domain.Product(nil), products[:BestDealsCount]...)
}

// Href links to the product page when the product has a slug and to a
// search for its name otherwise.
func Href(p domain.Product) string {
	if p.Slug != "" {
		return "/product/" + p.Slug
	}
	return "/search?q=" + url.QueryEscape(p.Name)
}
