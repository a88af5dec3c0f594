// Package catalog serves the product listing, search and detail pages.
package catalog

import (
	"context"
	"net/http"
	"strings"

	"github.com/trendify/storefront/internal/domain"
	apperrors "github.com/trendify/storefront/pkg/errors"
	"github.com/trendify/storefront/pkg/pagination"
)

// Filter selects a page of products. Search must already be normalized.
type Filter struct {
	Search string
	Page   pagination.Params
}

// Repository reads products.
type Repository interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter Filter) ([]domain.Product, int, error)
}

// Listing is a page of products plus the search state.
type Listing struct {
	pagination.Result[domain.Product]
	Search    string `json:"search,omitempty"`
	NoResults bool   `json:"no_results"`
}

// ErrProductNotFound is returned for unknown product ids.
func ErrProductNotFound() *apperrors.AppError {
	return &apperrors.AppError{
		Code:    "NOT_FOUND",
		Message: "Product not found",
		Status:  http.StatusNotFound,
		Err:     apperrors.ErrNotFound,
	}
}

// NormalizeSearch lowercases and trims a search term.
func NormalizeSearch(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// Matches reports whether a product name contains the normalized term.
func Matches(name, term string) bool {
	return term == "" || strings.Contains(strings.ToLower(name), term)
}

// Service wraps a Repository with the listing rules.
type Service struct {
	repo Repository
}

// NewService creates a catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns one product.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.Get(ctx, id)
}

// List returns the page of products whose names contain search.
func (s *Service) List(ctx context.Context, search string, page pagination.Params) (*Listing, error) {
	term := NormalizeSearch(search)
	page = page.Normalize()

	products, total, err := s.repo.List(ctx, Filter{Search: term, Page: page})
	if err != nil {
		return nil, err
	}
	return &Listing{
		Result:    pagination.NewResult(products, total, page),
		Search:    term,
		NoResults: term != "" && total == 0,
	}, nil
}
