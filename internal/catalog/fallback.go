package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"storefront/internal/domain"
)

//go:embed data/fallback.json
var embeddedDataset []byte

// Dataset is a static catalog used whenever the remote one is unavailable.
type Dataset struct {
	Products   []domain.Product  `json:"products"`
	Categories []domain.Category `json:"categories"`
}

// DefaultDataset returns the dataset compiled into the binary.
func DefaultDataset() Dataset {
	ds, err := parseDataset(embeddedDataset)
	if err != nil {
		panic(fmt.Sprintf("embedded fallback catalog: %v", err))
	}
	return ds
}

// LoadDataset reads a dataset in the same format as the embedded one, e.g.
// a file written by the importer.
func LoadDataset(r io.Reader) (Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	return parseDataset(data)
}

// LoadDatasetFile is LoadDataset on a file path.
func LoadDatasetFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return LoadDataset(f)
}

func parseDataset(data []byte) (Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	if len(ds.Products) == 0 {
		return Dataset{}, fmt.Errorf("decode dataset: no products")
	}
	for i, c := range ds.Categories {
		if c.Slug == "" {
			ds.Categories[i] = FallbackCategory(c.Name)
		}
	}
	return ds, nil
}
