package theme

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendify/storefront/internal/domain"
	"github.com/trendify/storefront/internal/storage/memory"
)

func TestCurrentDefaultsToLight(t *testing.T) {
	got, err := Current(context.Background(), memory.New(time.Hour).For("s"))
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, got)
}

func TestToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := memory.New(time.Hour).For("s")

	next, err := Toggle(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, next)

	stored, err := a.Get(ctx, domain.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark", stored)

	next, err = Toggle(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, next)
}

func TestCurrentTreatsUnknownAsLight(t *testing.T) {
	ctx := context.Background()
	a := memory.New(time.Hour).For("s")
	require.NoError(t, a.Set(ctx, domain.KeyTheme, "solarized"))

	got, err := Current(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, got)
}
