package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/logger"
)

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int64 `json:"quantity"`
}

// GET /api/v1/cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	view, err := app.CartPage.View(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, convertCart(view))
}

// POST /api/v1/cart/items
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())

	var req AddItemRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID <= 0 {
		respondError(w, r, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	if err := app.Product.AddToCart(r.Context(), req.ProductID, req.Quantity); err != nil {
		handleError(w, r, err)
		return
	}
	h.respondCart(w, r, http.StatusCreated)
}

// PUT /api/v1/cart/items/{product_id}
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	productID, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := app.CartPage.SetQuantity(r.Context(), productID, req.Quantity); err != nil {
		handleError(w, r, err)
		return
	}
	h.respondCart(w, r, http.StatusOK)
}

// DELETE /api/v1/cart/items/{product_id}
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	productID, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}

	if err := app.CartPage.Remove(r.Context(), productID); err != nil {
		handleError(w, r, err)
		return
	}
	h.respondCart(w, r, http.StatusOK)
}

func (h *Handler) respondCart(w http.ResponseWriter, r *http.Request, status int) {
	view, err := appFromContext(r.Context()).CartPage.View(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, status, convertCart(view))
}

// GET /api/v1/cart/stream
//
// Server-sent events: one "cart" event with the current view, then one after
// every change to the cart or the catalog.
func (h *Handler) StreamCart(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, r, http.StatusInternalServerError, "streaming_unsupported", "streaming unsupported")
		return
	}
	app := appFromContext(r.Context())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	views := app.Cart.Watch(r.Context())
	for view := range views {
		data, err := json.Marshal(convertCart(view))
		if err != nil {
			logger.FromContext(r.Context()).Error().Err(err).Msg("failed to encode cart event")
			return
		}
		if _, err := fmt.Fprintf(w, "event: cart\ndata: %s\n\n", data); err != nil {
			return
		}
		flusher.Flush()
	}
}
