// Package memory serves the catalog from an in-process product list.
package memory

import (
	"context"

	"github.com/trendify/storefront/internal/catalog"
	"github.com/trendify/storefront/internal/domain"
)

// Repository is a read-only product list.
type Repository struct {
	products []domain.Product
	byID     map[string]int
}

// New creates a repository over products, preserving their order.
func New(products []domain.Product) *Repository {
	r := &Repository{products: products, byID: make(map[string]int, len(products))}
	for i, p := range products {
		r.byID[p.ID] = i
	}
	return r
}

// Get returns the product with id.
func (r *Repository) Get(_ context.Context, id string) (*domain.Product, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, catalog.ErrProductNotFound()
	}
	p := r.products[i]
	return &p, nil
}

// List returns the requested page of products whose names match the filter.
func (r *Repository) List(_ context.Context, f catalog.Filter) ([]domain.Product, int, error) {
	matched := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if catalog.Matches(p.Name, f.Search) {
			matched = append(matched, p)
		}
	}
	start, end := f.Page.Normalize().Bounds(len(matched))
	return matched[start:end], len(matched), nil
}
