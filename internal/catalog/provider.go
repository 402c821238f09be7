package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"lume/internal/models"
)

// Provider supplies the ordered product catalog from an external resource.
type Provider interface {
	FetchProducts() ([]models.Product, error)
}

// FileProvider reads the catalog from a static JSON file, the Go counterpart
// of fetching the products resource over a relative path.
type FileProvider struct {
	path string
}

// NewFileProvider creates a FileProvider reading from path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// FetchProducts reads and decodes the product list.
func (p *FileProvider) FetchProducts() ([]models.Product, error) {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", p.path, err)
	}

	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", p.path, err)
	}
	return products, nil
}

// Service holds the loaded catalog. Products are immutable for the lifetime
// of the process, so the list is fetched once and cached.
type Service struct {
	products []models.Product
}

// NewService loads the catalog from the provider. A fetch failure is logged
// and degrades to an empty catalog rather than propagating; callers see an
// empty product list.
func NewService(provider Provider) *Service {
	products, err := provider.FetchProducts()
	if err != nil {
		log.Printf("Could not fetch products: %v", err)
		products = nil
	}
	return &Service{products: products}
}

// Products returns the full catalog in its stored order.
func (s *Service) Products() []models.Product {
	return s.products
}

// ProductByID returns the product with the given id, or nil if it is not in
// the catalog.
func (s *Service) ProductByID(id int) *models.Product {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i]
		}
	}
	return nil
}
