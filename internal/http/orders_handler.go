package http

import "net/http"

// GET /api/v1/orders
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	if !app.Query.Authenticated() {
		respondError(w, r, http.StatusUnauthorized, "unauthenticated", "login required")
		return
	}
	orders, err := app.Query.UserOrders(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, convertOrders(orders))
}

// GET /api/v1/orders/{order_id}/confirmation
func (h *Handler) Confirmation(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	orderID, ok := pathID(w, r, "order_id")
	if !ok {
		return
	}
	receipt, err := app.Confirmation.Get(r.Context(), orderID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, convertReceipt(receipt))
}
