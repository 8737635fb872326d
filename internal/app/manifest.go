package app

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	productdomain "github.com/Apurer/go-inventory-service/internal/domains/products/domain"
)

// Manifest is the YAML document loaded by the inventory importer.
type Manifest struct {
	Stocks    []StockEntry    `yaml:"stocks"`
	Operators []OperatorEntry `yaml:"operators"`
	Products  []ProductEntry  `yaml:"products"`
}

type StockEntry struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

type OperatorEntry struct {
	ID         int64   `yaml:"id"`
	FirstName  string  `yaml:"firstName"`
	LastName   string  `yaml:"lastName"`
	Password   string  `yaml:"password"`
	InvoiceIDs []int64 `yaml:"invoiceIds"`
}

type ProductEntry struct {
	Title          string  `yaml:"title"`
	Price          float64 `yaml:"price"`
	Quantity       int32   `yaml:"quantity"`
	Category       string  `yaml:"category"`
	StockID        int64   `yaml:"stockId"`
	IdempotencyKey string  `yaml:"idempotencyKey"`
}

// ParseManifest decodes and validates a manifest. Unknown fields are rejected.
func ParseManifest(r io.Reader) (*Manifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var manifest Manifest
	if err := decoder.Decode(&manifest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("manifest is empty")
		}
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// Validate checks the manifest before anything is written. Stocks need explicit ids so
// products can reference them; products may also reference stocks that already exist.
func (m *Manifest) Validate() error {
	var errs []error
	seen := map[int64]bool{}
	for i, stock := range m.Stocks {
		if stock.ID <= 0 {
			errs = append(errs, fmt.Errorf("stocks[%d]: id must be positive", i))
		} else if seen[stock.ID] {
			errs = append(errs, fmt.Errorf("stocks[%d]: duplicate id %d", i, stock.ID))
		}
		seen[stock.ID] = true
		if strings.TrimSpace(stock.Name) == "" {
			errs = append(errs, fmt.Errorf("stocks[%d]: name is required", i))
		}
	}
	for i, op := range m.Operators {
		if strings.TrimSpace(op.FirstName) == "" && strings.TrimSpace(op.LastName) == "" {
			errs = append(errs, fmt.Errorf("operators[%d]: a first or last name is required", i))
		}
	}
	for i, product := range m.Products {
		if strings.TrimSpace(product.Title) == "" {
			errs = append(errs, fmt.Errorf("products[%d]: title is required", i))
		}
		if _, err := productdomain.ParseCategory(product.Category); err != nil {
			errs = append(errs, fmt.Errorf("products[%d]: %w", i, err))
		}
		if product.StockID <= 0 {
			errs = append(errs, fmt.Errorf("products[%d]: stockId must be positive", i))
		}
	}
	return errors.Join(errs...)
}
