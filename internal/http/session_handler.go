package http

import (
	"errors"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/internal/storefront"
)

type LoginRequestDTO struct {
	Credential string `json:"credential"`
}

// GET /api/v1/session
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	respondJSON(w, r, http.StatusOK, convertSession(app.Session))
}

// POST /api/v1/session/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())

	var req LoginRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.registry.Login(r.Context(), app, req.Credential); err != nil {
		if errors.Is(err, session.ErrTransitionInProgress) || errors.Is(err, storefront.ErrSessionStore) {
			handleError(w, r, err)
			return
		}
		respondError(w, r, http.StatusUnauthorized, "login_failed", err.Error())
		return
	}
	respondJSON(w, r, http.StatusOK, convertSession(app.Session))
}

// POST /api/v1/session/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	if err := h.registry.Logout(r.Context(), app); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, convertSession(app.Session))
}
