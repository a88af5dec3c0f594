// Package profile serves the mock account page.
package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/trendify/storefront/internal/domain"
	"github.com/trendify/storefront/internal/session"
	apperrors "github.com/trendify/storefront/pkg/errors"
)

// User-facing messages.
const (
	MsgLoginRequired    = "You must be logged in to view this page."
	MsgPasswordMismatch = "New passwords do not match. Please try again."
	MsgUpdated          = "Profile updated successfully!"
	MsgNoChanges        = "No changes were made."
	MsgNoOrders         = "You have no past orders."
)

const joinDateLayout = "January 2, 2006"

// fallbackUser is shown when a logged-in session has no stored user.
var fallbackUser = domain.User{
	Name:     "Tej Singh",
	Username: "tejsingh",
	Email:    "tej.singh11icloud.com",
}

// View is the rendered profile page.
type View struct {
	User         domain.User `json:"user"`
	OrderHistory []string    `json:"order_history"`
	EmptyHistory string      `json:"empty_history,omitempty"`
}

// EditRequest carries the profile form. Blank passwords leave the password unchanged.
type EditRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// EditResult reports the outcome of an edit.
type EditResult struct {
	Message string `json:"message"`
	Changed bool   `json:"changed"`
	View    View   `json:"profile"`
}

// Service renders and edits the profile of the current session.
type Service struct {
	now func() time.Time
}

// NewService creates a profile service. now defaults to time.Now.
func NewService(now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{now: now}
}

// View returns the profile of a logged-in session.
func (s *Service) View(ctx context.Context, sess *session.Session) (View, error) {
	u, err := s.current(ctx, sess)
	if err != nil {
		return View{}, err
	}
	return s.render(u), nil
}

// Edit applies name/email changes. A non-empty new password must match its
// confirmation; on mismatch nothing is changed. Passwords are never stored.
func (s *Service) Edit(ctx context.Context, sess *session.Session, req EditRequest) (EditResult, error) {
	u, err := s.current(ctx, sess)
	if err != nil {
		return EditResult{}, err
	}

	if req.NewPassword != "" && req.NewPassword != req.ConfirmPassword {
		return EditResult{}, apperrors.InvalidInput(MsgPasswordMismatch)
	}

	changed := false
	if u.Name != req.Name || u.Email != req.Email {
		u.Name = req.Name
		u.Email = req.Email
		if err := sess.SaveUser(ctx, u); err != nil {
			return EditResult{}, fmt.Errorf("save profile: %w", err)
		}
		changed = true
	}
	if req.NewPassword != "" {
		changed = true
	}

	msg := MsgNoChanges
	if changed {
		msg = MsgUpdated
	}
	return EditResult{Message: msg, Changed: changed, View: s.render(u)}, nil
}

func (s *Service) current(ctx context.Context, sess *session.Session) (domain.User, error) {
	if err := sess.RequireLogin(ctx, MsgLoginRequired); err != nil {
		return domain.User{}, err
	}
	u, err := sess.User(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if u == nil {
		return fallbackUser, nil
	}
	return *u, nil
}

func (s *Service) render(u domain.User) View {
	if u.JoinDate == "" {
		u.JoinDate = s.now().Format(joinDateLayout)
	}
	return View{User: u, OrderHistory: []string{}, EmptyHistory: MsgNoOrders}
}
