package http

import (
	"net/http"

	"github.com/trendify/storefront/internal/domain"
	"github.com/trendify/storefront/internal/profile"
	"github.com/trendify/storefront/internal/theme"
	"github.com/trendify/storefront/pkg/httputil"
	"github.com/trendify/storefront/pkg/validator"
)

// LoginRequest is the JSON request body for the mock login.
type LoginRequest struct {
	Username  string `json:"username" validate:"required,max=100"`
	Name      string `json:"name" validate:"max=200"`
	Email     string `json:"email" validate:"omitempty,email"`
	FirstName string `json:"first_name" validate:"max=100"`
}

type themeResponse struct {
	Theme domain.Theme `json:"theme"`
}

// GetSession handles GET /api/v1/session
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.withClient(w, r, func(c *client) {
		welcome, err := c.auth.Welcome(r.Context())
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		httputil.WriteData(w, welcome)
	})
}

// Login handles POST /api/v1/session/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	h.withClient(w, r, func(c *client) {
		user := domain.User{
			Name:      req.Name,
			Username:  req.Username,
			Email:     req.Email,
			FirstName: req.FirstName,
		}
		if err := c.auth.Login(r.Context(), user); err != nil {
			h.writeError(w, r, err)
			return
		}
		welcome, err := c.auth.Welcome(r.Context())
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		httputil.WriteData(w, welcome)
	})
}

// Logout handles POST /api/v1/session/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.withClient(w, r, func(c *client) {
		if err := c.auth.Logout(r.Context()); err != nil {
			h.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// GetProfile handles GET /api/v1/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	h.withClient(w, r, func(c *client) {
		v, err := h.profile.View(r.Context(), c.auth)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		httputil.WriteData(w, v)
	})
}

// UpdateProfile handles PUT /api/v1/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profile.EditRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	h.withClient(w, r, func(c *client) {
		res, err := h.profile.Edit(r.Context(), c.auth, req)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		httputil.WriteData(w, res)
	})
}

// GetTheme handles GET /api/v1/theme
func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	h.withClient(w, r, func(c *client) {
		t, err := theme.Current(r.Context(), c.storage)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		httputil.WriteData(w, themeResponse{Theme: t})
	})
}

// ToggleTheme handles POST /api/v1/theme/toggle
func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	h.withClient(w, r, func(c *client) {
		t, err := theme.Toggle(r.Context(), c.storage)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		httputil.WriteData(w, themeResponse{Theme: t})
	})
}
