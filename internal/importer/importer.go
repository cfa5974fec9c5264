package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) error
}

// CSVImporter reads a flat product export and hands every row to a writer.
type CSVImporter struct {
	reader *csv.Reader
	writer ProductWriter
}

func NewCSVImporter(r io.Reader, writer ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader: csvr,
		writer: writer,
	}
}

// Run parses CSV rows and upserts one product per row. Blank rows are skipped.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"id", "name", "price"} {
		if _, ok := index[required]; !ok {
			return 0, fmt.Errorf("missing column %q", required)
		}
	}

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line, _ := i.reader.FieldPos(0)

		p, ok, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if !ok {
			continue
		}
		if err := i.writer.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.ID, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.Product, bool, error) {
	id := pick(record, index, "id")
	name := pick(record, index, "name")
	if id == "" && name == "" {
		return domain.Product{}, false, nil
	}
	if id == "" || name == "" {
		return domain.Product{}, false, fmt.Errorf("id and name are required")
	}

	price, err := decimalField(record, index, "price")
	if err != nil {
		return domain.Product{}, false, err
	}
	if price == nil || price.IsNegative() {
		return domain.Product{}, false, fmt.Errorf("product %q: price must be a non-negative number", id)
	}
	oldPrice, err := decimalField(record, index, "oldPrice")
	if err != nil {
		return domain.Product{}, false, err
	}
	discount, err := decimalField(record, index, "discountPercentage")
	if err != nil {
		return domain.Product{}, false, err
	}

	p := domain.Product{
		ID:                 id,
		Name:               name,
		Description:        pick(record, index, "description"),
		Category:           pick(record, index, "category"),
		SKU:                pick(record, index, "sku"),
		Price:              *price,
		OldPrice:           oldPrice,
		DiscountPercentage: discount,
		Image:              pick(record, index, "image"),
		Slug:               pick(record, index, "slug"),
	}
	if raw := pick(record, index, "rating"); raw != "" {
		if p.Rating, err = strconv.ParseFloat(raw, 64); err != nil {
			return domain.Product{}, false, fmt.Errorf("product %q: invalid rating %q", id, raw)
		}
	}
	if raw := pick(record, index, "stock"); raw != "" {
		if p.Stock, err = strconv.Atoi(raw); err != nil {
			return domain.Product{}, false, fmt.Errorf("product %q: invalid stock %q", id, raw)
		}
	}
	return p, true, nil
}

func decimalField(record []string, index map[string]int, key string) (*decimal.Decimal, error) {
	raw := pick(record, index, key)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, raw)
	}
	return &d, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
