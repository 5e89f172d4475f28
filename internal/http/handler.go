package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/go_cart/storefront/internal/storefront"
)

// Handler serves the page controllers of the session found in the request
// context.
type Handler struct {
	registry *storefront.Registry
}

func NewHandler(registry *storefront.Registry) *Handler {
	return &Handler{registry: registry}
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, r, http.StatusBadRequest, "invalid_"+name, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
