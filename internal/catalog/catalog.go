package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"buywidget/internal/config"
	"buywidget/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads product CSV exports. A row carrying a key starts a
// product; following rows without a key add variants to it.
type CSVImporter struct {
	reader *csv.Reader
	writer ProductWriter
}

func NewCSVImporter(r io.Reader, w ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{reader: csvr, writer: w}
}

type csvRow struct {
	Key     string
	Title   string
	Image   string
	Variant *domain.Variant
}

// Run parses rows and upserts products grouped by key.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *domain.Product
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}

		if row.Key != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = &domain.Product{Key: row.Key, Title: row.Title, Image: row.Image}
		}
		if current != nil && row.Variant != nil {
			current.Variants = append(current.Variants, *row.Variant)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, p *domain.Product) error {
	if p.Title == "" || len(p.Variants) == 0 {
		return fmt.Errorf("invalid product row (missing title or variants) for key %q", p.Key)
	}
	for _, v := range p.Variants {
		if v.Price.CurrencyCode == "" {
			return fmt.Errorf("variant %q of %q has no currency", v.ID, p.Key)
		}
	}
	if _, err := i.writer.Upsert(ctx, *p); err != nil {
		return fmt.Errorf("upsert product %q: %w", p.Key, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	key := pick(record, index, "key")
	variantID := pick(record, index, "variant.id")
	if key == "" && variantID == "" {
		return nil
	}

	row := &csvRow{
		Key:   key,
		Title: pick(record, index, "title"),
		Image: pick(record, index, "image"),
	}
	if variantID != "" {
		row.Variant = &domain.Variant{
			ID:    variantID,
			Title: pick(record, index, "variant.title"),
			Price: domain.Money{
				Amount:       domain.ParseAmount(pick(record, index, "variant.price.amount")),
				CurrencyCode: pick(record, index, "variant.price.currencyCode"),
			},
			SelectedOptions: parseOptions(pick(record, index, "variant.options")),
		}
	}
	return row
}

// parseOptions reads "Size:S;Color:Red".
func parseOptions(raw string) []domain.SelectedOption {
	out := []domain.SelectedOption{}
	for _, pair := range strings.Split(raw, ";") {
		name, value, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		out = append(out, domain.SelectedOption{Name: name, Value: value})
	}
	return out
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

// Catalog is an in-memory product set keyed by product key.
type Catalog struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func New() *Catalog {
	return &Catalog{products: make(map[string]domain.Product)}
}

func (c *Catalog) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	if p.Key == "" {
		return nil, fmt.Errorf("product key is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.Key] = p
	return &p, nil
}

func (c *Catalog) Get(key string) (domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[key]
	if !ok {
		return domain.Product{}, fmt.Errorf("catalog product %q: %w", key, domain.ErrNotFound)
	}
	return p, nil
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}

// Keys lists product keys in sorted order.
func (c *Catalog) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.products))
	for k := range c.products {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Bind returns the widget configuration for entry, taking the product from
// the catalog when the entry names a product key.
func (c *Catalog) Bind(entry config.WidgetEntry) (config.Widget, error) {
	cfg := entry.Config
	if entry.ProductKey == "" {
		return cfg, nil
	}
	p, err := c.Get(entry.ProductKey)
	if err != nil {
		return cfg, err
	}
	cfg.Product = config.FromDomainProduct(p)
	return cfg, nil
}

// LoadFile imports the CSV at path into a new Catalog.
func LoadFile(ctx context.Context, path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c := New()
	if _, err := NewCSVImporter(f, c).Run(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
