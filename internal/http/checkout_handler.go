package http

import (
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/storefront"
)

type CheckoutSummaryDTO struct {
	Cart           CartDTO            `json:"cart"`
	PaymentMethods []PaymentMethodDTO `json:"payment_methods"`
}

type PlaceOrderResponseDTO struct {
	OrderID int64 `json:"order_id"`
}

// GET /api/v1/checkout
func (h *Handler) CheckoutSummary(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	view, err := app.Checkout.Summary(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, CheckoutSummaryDTO{
		Cart:           convertCart(view),
		PaymentMethods: convertPaymentMethods(app.Checkout.PaymentMethods()),
	})
}

// POST /api/v1/checkout
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())

	var req storefront.CheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := app.Checkout.PlaceOrder(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, PlaceOrderResponseDTO{OrderID: id})
}
