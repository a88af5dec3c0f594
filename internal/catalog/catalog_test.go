package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendify/storefront/internal/catalog"
	"github.com/trendify/storefront/internal/catalog/memory"
	apperrors "github.com/trendify/storefront/pkg/errors"
	"github.com/trendify/storefront/pkg/pagination"
)

func newService() *catalog.Service {
	return catalog.NewService(memory.New(catalog.Seed()))
}

func TestSeed(t *testing.T) {
	products := catalog.Seed()

	require.Len(t, products, 12)
	assert.Equal(t, "classic-denim-jacket", products[0].ID)
	assert.Equal(t, "denim-jackets.png", products[0].Image)
	assert.Equal(t, "79.99", products[0].Price.StringFixed(2))
	assert.Equal(t, "vintage-graphic-tee", products[11].ID)
	assert.Equal(t, "vintage-graphic-tee.png", products[11].Image)

	seen := map[string]bool{}
	for _, p := range products {
		assert.False(t, seen[p.ID], p.ID)
		seen[p.ID] = true
		assert.NotEmpty(t, p.Description)
	}
}

func TestNormalizeSearch(t *testing.T) {
	assert.Equal(t, "tee", catalog.NormalizeSearch("  TeE "))
	assert.True(t, catalog.Matches("Striped Cotton Tee", "tee"))
	assert.False(t, catalog.Matches("Wool Scarf", "tee"))
	assert.True(t, catalog.Matches("Wool Scarf", ""))
}

func TestService_Get(t *testing.T) {
	svc := newService()

	p, err := svc.Get(context.Background(), "wool-scarf")
	require.NoError(t, err)
	assert.Equal(t, "Wool Scarf", p.Name)

	_, err = svc.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 404, apperrors.HTTPStatus(err))
	assert.Contains(t, err.Error(), "Product not found")
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	t.Run("all products, first page", func(t *testing.T) {
		l, err := svc.List(ctx, "", pagination.DefaultParams())
		require.NoError(t, err)
		assert.Equal(t, 12, l.TotalCount)
		assert.Len(t, l.Items, 12)
		assert.False(t, l.NoResults)
	})

	t.Run("search is case-insensitive substring", func(t *testing.T) {
		l, err := svc.List(ctx, "  TEE ", pagination.DefaultParams())
		require.NoError(t, err)
		assert.Equal(t, "tee", l.Search)
		require.Len(t, l.Items, 2)
		assert.Equal(t, "striped-cotton-tee", l.Items[0].ID)
		assert.Equal(t, "vintage-graphic-tee", l.Items[1].ID)
	})

	t.Run("no results flag", func(t *testing.T) {
		l, err := svc.List(ctx, "tuxedo", pagination.DefaultParams())
		require.NoError(t, err)
		assert.True(t, l.NoResults)
		assert.Empty(t, l.Items)
		assert.NotNil(t, l.Items)
	})

	t.Run("pagination", func(t *testing.T) {
		l, err := svc.List(ctx, "", pagination.Params{Page: 3, PerPage: 5})
		require.NoError(t, err)
		assert.Len(t, l.Items, 2)
		assert.Equal(t, 3, l.TotalPages)
		assert.False(t, l.HasNext)
		assert.True(t, l.HasPrev)
	})
}
