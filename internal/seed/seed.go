// Package seed provides the launch catalog loaded into an empty store
package seed

import (
	_ "embed"
	"fmt"
	"time"

	"mzansi-store/internal/domain"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogFile struct {
	Products []productEntry `yaml:"products"`
}

type productEntry struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	Category    string   `yaml:"category"`
	ImageURL    string   `yaml:"image_url"`
	Stock       int      `yaml:"stock"`
	Sizes       []string `yaml:"sizes"`
	Colors      []string `yaml:"colors"`
}

// Catalog returns the embedded launch catalog
func Catalog(now time.Time) ([]*domain.Product, error) {
	return Parse(catalogYAML, now)
}

// Parse decodes a catalog document
func Parse(data []byte, now time.Time) ([]*domain.Product, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(file.Products))
	products := make([]*domain.Product, 0, len(file.Products))
	for _, e := range file.Products {
		if seen[e.ID] {
			return nil, fmt.Errorf("product %s: %w", e.ID, domain.ErrProductExists)
		}
		seen[e.ID] = true

		category, err := domain.ParseCategory(e.Category)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", e.ID, err)
		}
		price, err := decimal.NewFromString(e.Price)
		if err != nil {
			return nil, fmt.Errorf("product %s: invalid price %q: %w", e.ID, e.Price, err)
		}
		if e.Stock < 0 {
			return nil, fmt.Errorf("product %s: %w", e.ID, domain.ErrInvalidQuantity)
		}

		p := &domain.Product{
			ID:          e.ID,
			Name:        e.Name,
			Description: e.Description,
			Price:       price,
			Category:    category,
			ImageURL:    e.ImageURL,
			Sizes:       e.Sizes,
			Colors:      e.Colors,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		p.SetStock(e.Stock)
		products = append(products, p)
	}

	return products, nil
}
