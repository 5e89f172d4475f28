package http

import (
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/logger"
)

type IDResponseDTO struct {
	ID int64 `json:"id"`
}

type SamplesResponseDTO struct {
	Created int `json:"created"`
}

type OrderStatusRequestDTO struct {
	Status string `json:"status"`
}

// POST /api/v1/admin/init
func (h *Handler) InitializeAdmin(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	if err := app.Admin.Initialize(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/admin/products
func (h *Handler) AdminProducts(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	products, err := app.Admin.Products(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, convertProducts(products))
}

// POST /api/v1/admin/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	var req ProductInputDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	id, err := app.Admin.CreateProduct(r.Context(), req.toDomain())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, IDResponseDTO{ID: id})
}

// PUT /api/v1/admin/products/{product_id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	id, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}
	var req ProductInputDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := app.Admin.UpdateProduct(r.Context(), id, req.toDomain()); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/v1/admin/products/{product_id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	id, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}
	if err := app.Admin.DeleteProduct(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/admin/products/samples
func (h *Handler) LoadSampleProducts(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	n, err := app.Admin.LoadSampleProducts(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Warn().Err(err).Int("created", n).Msg("sample products partially loaded")
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, SamplesResponseDTO{Created: n})
}

// GET /api/v1/admin/orders
func (h *Handler) AdminOrders(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	orders, err := app.Admin.Orders(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, convertOrders(orders))
}

// PUT /api/v1/admin/orders/{order_id}/status
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	orderID, ok := pathID(w, r, "order_id")
	if !ok {
		return
	}
	var req OrderStatusRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := app.Admin.UpdateOrderStatus(r.Context(), orderID, req.Status); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/v1/admin/orders/{order_id}
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	orderID, ok := pathID(w, r, "order_id")
	if !ok {
		return
	}
	if err := app.Admin.DeleteOrder(r.Context(), orderID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
