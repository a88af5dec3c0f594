// Package theme persists the light/dark preference in durable storage.
package theme

import (
	"context"
	"errors"
	"fmt"

	"github.com/trendify/storefront/internal/domain"
	"github.com/trendify/storefront/internal/storage"
	apperrors "github.com/trendify/storefront/pkg/errors"
)

// Current returns the stored theme; anything but "dark" is light.
func Current(ctx context.Context, a storage.Adapter) (domain.Theme, error) {
	v, err := a.Get(ctx, domain.KeyTheme)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.ThemeLight, nil
		}
		return "", fmt.Errorf("read theme: %w", err)
	}
	return domain.ParseTheme(v), nil
}

// Toggle flips the theme, persists it and returns the new value.
func Toggle(ctx context.Context, a storage.Adapter) (domain.Theme, error) {
	cur, err := Current(ctx, a)
	if err != nil {
		return "", err
	}
	next := cur.Toggled()
	if err := a.Set(ctx, domain.KeyTheme, string(next)); err != nil {
		return "", fmt.Errorf("save theme: %w", err)
	}
	return next, nil
}
