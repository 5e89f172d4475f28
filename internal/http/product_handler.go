package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/go_cart/storefront/internal/storefront"
)

// GET /api/v1/products?search=&category=
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	filter := storefront.Filter{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
	}
	products, err := app.Catalog.Browse(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, convertProducts(products))
}

// GET /api/v1/products/featured
func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	products, err := app.Catalog.Featured(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, convertProducts(products))
}

// GET /api/v1/products/categories
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	respondJSON(w, r, http.StatusOK, app.Catalog.Categories())
}

// GET /api/v1/products/search?q=
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	products, err := app.Catalog.SearchByName(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, convertProducts(products))
}

// GET /api/v1/products/category/{category}
func (h *Handler) ProductsByCategory(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	products, err := app.Catalog.SearchByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, convertProducts(products))
}

// GET /api/v1/products/{product_id}
func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	id, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}
	p, err := app.Product.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, convertProduct(p))
}
