// Package session manages the logged-in flag and the user record of one
// storefront session.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/trendify/storefront/internal/domain"
	"github.com/trendify/storefront/internal/storage"
	apperrors "github.com/trendify/storefront/pkg/errors"
)

// HeroTitle replaces the landing page title for a recognised user.
const HeroTitle = "Your Fashion Journey Continues"

// Welcome is the greeting shown on the landing page.
type Welcome struct {
	LoggedIn  bool   `json:"logged_in"`
	Message   string `json:"message,omitempty"`
	HeroTitle string `json:"hero_title,omitempty"`
}

// Session reads and writes the session flags through a storage adapter.
type Session struct {
	adapter storage.Adapter
	logger  *slog.Logger
}

// New binds a Session to adapter.
func New(adapter storage.Adapter, logger *slog.Logger) *Session {
	return &Session{adapter: adapter, logger: logger}
}

// Login stores user and sets the logged-in flag.
func (s *Session) Login(ctx context.Context, user domain.User) error {
	if err := storage.SaveJSON(ctx, s.adapter, domain.KeyUser, user); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := s.adapter.Set(ctx, domain.KeyLoggedIn, domain.LoggedInSentinel); err != nil {
		return fmt.Errorf("login: set flag: %w", err)
	}
	return nil
}

// Logout clears the logged-in flag. The user record is kept.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.adapter.Remove(ctx, domain.KeyLoggedIn); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// IsLoggedIn is true only when the flag holds exactly "true".
func (s *Session) IsLoggedIn(ctx context.Context) (bool, error) {
	v, err := s.adapter.Get(ctx, domain.KeyLoggedIn)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read login flag: %w", err)
	}
	return v == domain.LoggedInSentinel, nil
}

// RequireLogin returns an Unauthorized error with message when logged out.
func (s *Session) RequireLogin(ctx context.Context, message string) error {
	ok, err := s.IsLoggedIn(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Unauthorized(message)
	}
	return nil
}

// User returns the stored user, or nil when absent or unreadable.
func (s *Session) User(ctx context.Context) (*domain.User, error) {
	var u domain.User
	found, err := storage.LoadJSON(ctx, s.adapter, domain.KeyUser, &u)
	if errors.Is(err, storage.ErrCorrupt) {
		s.logger.WarnContext(ctx, "ignoring unreadable user record", slog.String("error", err.Error()))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &u, nil
}

// SaveUser replaces the stored user record.
func (s *Session) SaveUser(ctx context.Context, u domain.User) error {
	return storage.SaveJSON(ctx, s.adapter, domain.KeyUser, u)
}

// Welcome greets a logged-in user by first name or username.
func (s *Session) Welcome(ctx context.Context) (Welcome, error) {
	ok, err := s.IsLoggedIn(ctx)
	if err != nil || !ok {
		return Welcome{}, err
	}
	w := Welcome{LoggedIn: true}
	u, err := s.User(ctx)
	if err != nil {
		return Welcome{}, err
	}
	if name := u.DisplayName(); name != "" {
		w.Message = "Welcome, " + name + "!"
		w.HeroTitle = HeroTitle
	}
	return w, nil
}
