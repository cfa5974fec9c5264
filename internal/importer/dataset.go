package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

// DatasetBuilder collects imported products into a fallback catalog. A
// later product with the same id replaces the earlier one in place.
type DatasetBuilder struct {
	products []domain.Product
	byID     map[string]int
	slugs    map[string]string
}

func NewDatasetBuilder() *DatasetBuilder {
	return &DatasetBuilder{byID: map[string]int{}, slugs: map[string]string{}}
}

// Upsert adds p, deriving a unique slug from its name when it has none.
func (b *DatasetBuilder) Upsert(_ context.Context, p domain.Product) error {
	if p.ID == "" {
		return fmt.Errorf("product without id")
	}
	if p.Slug == "" {
		p.Slug = catalog.Slugify(p.Name)
	}
	p.Slug = b.uniqueSlug(p.Slug, p.ID)

	if i, ok := b.byID[p.ID]; ok {
		b.products[i] = p
		return nil
	}
	b.byID[p.ID] = len(b.products)
	b.products = append(b.products, p)
	return nil
}

func (b *DatasetBuilder) uniqueSlug(slug, id string) string {
	if slug == "" {
		slug = "product"
	}
	candidate := slug
	for n := 2; ; n++ {
		owner, taken := b.slugs[candidate]
		if !taken || owner == id {
			b.slugs[candidate] = id
			return candidate
		}
		candidate = slug + "-" + strconv.Itoa(n)
	}
}

// Len is the number of distinct products collected.
func (b *DatasetBuilder) Len() int {
	return len(b.products)
}

// Dataset returns the products in import order and one category per
// distinct category name, in order of first appearance.
func (b *DatasetBuilder) Dataset() catalog.Dataset {
	seen := map[string]bool{}
	categories := []domain.Category{}
	for _, p := range b.products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, catalog.FallbackCategory(p.Category))
	}
	return catalog.Dataset{
		Products:   append([]domain.Product(nil), b.products...),
		Categories: categories,
	}
}

// ImportRemote copies the remote catalog into b. Remote categories are
// kept as delivered.
func ImportRemote(ctx context.Context, fetcher catalog.Fetcher, b *DatasetBuilder) (catalog.Dataset, error) {
	products, err := fetcher.Products(ctx)
	if err != nil {
		return catalog.Dataset{}, fmt.Errorf("fetch products: %w", err)
	}
	categories, err := fetcher.Categories(ctx)
	if err != nil {
		return catalog.Dataset{}, fmt.Errorf("fetch categories: %w", err)
	}
	for _, p := range products {
		if err := b.Upsert(ctx, p); err != nil {
			return catalog.Dataset{}, err
		}
	}

	ds := b.Dataset()
	if len(categories) > 0 {
		ds.Categories = categories
	}
	return ds, nil
}

// WriteDataset encodes ds in the format catalog.LoadDataset reads.
func WriteDataset(w io.Writer, ds catalog.Dataset) error {
	if len(ds.Products) == 0 {
		return fmt.Errorf("write dataset: no products")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}
