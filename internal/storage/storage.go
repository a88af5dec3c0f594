// Package storage defines the key/value persistence used by the cart, the
// session flags and the theme preference.
//
// Keys are scoped per client. Every key except domain.KeyTheme is session
// scoped and expires with the session; the theme survives it for DurableTTL.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/trendify/storefront/internal/domain"
	apperrors "github.com/trendify/storefront/pkg/errors"
)

// ErrCorrupt marks a stored value that could not be decoded.
var ErrCorrupt = errors.New("corrupt stored value")

// Adapter is a string key/value store bound to one client.
// Get returns an error matching apperrors.ErrNotFound when the key is absent.
type Adapter interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Provider hands out the Adapter for a client (session) ID.
type Provider interface {
	For(clientID string) Adapter
}

// DurableTTL bounds how long a durable key survives without being read or
// written. Session cookies are issued with the same lifetime.
const DurableTTL = 365 * 24 * time.Hour

// Durable reports whether key outlives the session.
func Durable(key string) bool {
	return key == domain.KeyTheme
}

// NotFound builds the error adapters return for absent keys.
func NotFound(key string) error {
	return apperrors.NotFound("key", key)
}

// LoadJSON decodes the value at key into v. It reports found=false with a nil
// error when the key is absent, and an error wrapping ErrCorrupt when the
// value is not valid JSON for v.
func LoadJSON(ctx context.Context, a Adapter, key string, v any) (found bool, err error) {
	raw, err := a.Get(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %s: %w: %v", key, ErrCorrupt, err)
	}
	return true, nil
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, a Adapter, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := a.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
