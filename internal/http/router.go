package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/fjod/go_cart/storefront/internal/storefront"
)

// Options configure the router. TrustProxyHeaders takes the client address
// from X-Forwarded-For or X-Real-IP; enable it only behind a proxy that sets
// them.
type Options struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	SecureCookies      bool
	TrustProxyHeaders  bool
	Limiter            *RateLimiter
}

// NewRouter builds the storefront API. The cart stream is mounted outside
// the request timeout.
func NewRouter(reg *storefront.Registry, opts Options) http.Handler {
	h := NewHandler(reg)

	r := chi.NewRouter()
	if opts.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if opts.MaxRequestBodySize > 0 {
		r.Use(middleware.RequestSize(opts.MaxRequestBodySize))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(opts.Limiter.Handler(SessionRateKey(reg)))
		}
		r.Use(SessionMiddleware(reg, opts.SecureCookies))

		r.Get("/cart/stream", h.StreamCart)

		r.Group(func(r chi.Router) {
			if opts.RequestTimeout > 0 {
				r.Use(middleware.Timeout(opts.RequestTimeout))
			}

			r.Route("/session", func(r chi.Router) {
				r.Get("/", h.Session)
				r.Post("/login", h.Login)
				r.Post("/logout", h.Logout)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.Products)
				r.Get("/featured", h.Featured)
				r.Get("/categories", h.Categories)
				r.Get("/search", h.SearchProducts)
				r.Get("/category/{category}", h.ProductsByCategory)
				r.Get("/{product_id}", h.Product)
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.GetCart)
				r.Post("/items", h.AddItem)
				r.Put("/items/{product_id}", h.UpdateQuantity)
				r.Delete("/items/{product_id}", h.RemoveItem)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", h.CheckoutSummary)
				r.Post("/", h.PlaceOrder)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.ListOrders)
				r.Get("/{order_id}/confirmation", h.Confirmation)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Post("/init", h.InitializeAdmin)
				r.Get("/products", h.AdminProducts)
				r.Post("/products", h.CreateProduct)
				r.Post("/products/samples", h.LoadSampleProducts)
				r.Put("/products/{product_id}", h.UpdateProduct)
				r.Delete("/products/{product_id}", h.DeleteProduct)
				r.Get("/orders", h.AdminOrders)
				r.Put("/orders/{order_id}/status", h.UpdateOrderStatus)
				r.Delete("/orders/{order_id}", h.DeleteOrder)
			})
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
