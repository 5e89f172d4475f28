package storefront

import (
	"time"

	"github.com/fjod/go_cart/storefront/internal/cache"
	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/query"
	"github.com/fjod/go_cart/storefront/internal/session"
)

// Deps are shared by every browser session of the process.
type Deps struct {
	Provider       session.IdentityProvider
	Factory        session.ClientFactory
	StaleTime      time.Duration
	AllowAnonymous bool
}

// App is the state of one browser session: its cache, backend handle and
// the page controllers working over them.
type App struct {
	ID      string
	Cache   *cache.Cache
	Session *session.Manager
	Query   *query.Layer
	Cart    *cart.Aggregator

	Catalog      *Catalog
	Product      *ProductDetail
	CartPage     *CartPage
	Checkout     *Checkout
	Confirmation *Confirmation
	Admin        *Admin
}

func NewApp(id string, deps Deps) *App {
	c := cache.New(deps.StaleTime)
	mgr := session.NewManager(deps.Provider, deps.Factory, c, deps.AllowAnonymous)
	q := query.New(mgr, c)
	agg := cart.NewAggregator(q)

	return &App{
		ID:           id,
		Cache:        c,
		Session:      mgr,
		Query:        q,
		Cart:         agg,
		Catalog:      NewCatalog(q),
		Product:      NewProductDetail(q),
		CartPage:     NewCartPage(q, agg),
		Checkout:     NewCheckout(q, agg),
		Confirmation: NewConfirmation(q),
		Admin:        NewAdmin(q),
	}
}
