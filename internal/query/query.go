// Package query runs backend reads through the session cache and invalidates
// the affected resources after successful mutations.
package query

import (
	"context"
	"errors"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/backend"
	"github.com/fjod/go_cart/storefront/internal/cache"
	"github.com/fjod/go_cart/storefront/internal/domain"
)

const (
	ResourceProducts = "products"
	ResourceProduct  = "product"
	ResourceCart     = "cart"
	ResourceOrders   = "orders"
	ResourceOrder    = "order"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// ClientSource hands out the current backend handle. ok is false while no
// handle is ready, including during a login or logout.
type ClientSource interface {
	Client() (svc backend.Service, id domain.Identity, ok bool)
}

func ProductsKey() cache.Key { return cache.NewKey(ResourceProducts) }
func SearchKey(text string) cache.Key { return cache.NewKey(ResourceProducts, "search", text) }
func CategoryKey(category string) cache.Key { return cache.NewKey(ResourceProducts, "category", category) }
func ProductKey(id int64) cache.Key { return cache.NewKey(ResourceProduct, id) }
func CartKey() cache.Key { return cache.NewKey(ResourceCart) }
func OrdersKey() cache.Key { return cache.NewKey(ResourceOrders) }
func OrderKey(id int64) cache.Key { return cache.NewKey(ResourceOrder, id) }

type Layer struct {
	source ClientSource
	cache  *cache.Cache
}

func New(source ClientSource, c *cache.Cache) *Layer {
	return &Layer{source: source, cache: c}
}

func (l *Layer) Cache() *cache.Cache {
	return l.cache
}

// Ready reports whether reads can reach the backend.
func (l *Layer) Ready() bool {
	_, _, ok := l.source.Client()
	return ok
}

// Authenticated reports whether a logged-in identity is ready.
func (l *Layer) Authenticated() bool {
	_, id, ok := l.source.Client()
	return ok && !id.IsAnonymous()
}

// read returns the zero value without a remote call when no handle is ready,
// or when scoped data is requested for the anonymous identity.
//
// The epoch is taken before the handle: a session switch clears the cache
// before publishing the new handle, so a result fetched with a handle that
// was replaced in between is never stored for the next identity.
func read[T any](ctx context.Context, l *Layer, key cache.Key, scoped bool, fn func(context.Context, backend.Service) (T, error)) (T, error) {
	var zero T
	epoch := l.cache.Epoch()
	svc, id, ok := l.source.Client()
	if !ok || (scoped && id.IsAnonymous()) {
		return zero, nil
	}
	v, err := l.cache.FetchAt(ctx, epoch, key, func(ctx context.Context) (any, error) {
		return fn(ctx, svc)
	})
	if err != nil {
		return zero, err
	}
	out, _ := v.(T)
	return out, nil
}

func (l *Layer) Products(ctx context.Context) ([]domain.Product, error) {
	return read(ctx, l, ProductsKey(), false, func(ctx context.Context, svc backend.Service) ([]domain.Product, error) {
		return svc.ListProducts(ctx)
	})
}

// Product returns nil when the product does not exist.
func (l *Layer) Product(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, nil
	}
	return read(ctx, l, ProductKey(id), false, func(ctx context.Context, svc backend.Service) (*domain.Product, error) {
		return svc.GetProduct(ctx, id)
	})
}

func (l *Layer) SearchByName(ctx context.Context, text string) ([]domain.Product, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	return read(ctx, l, SearchKey(text), false, func(ctx context.Context, svc backend.Service) ([]domain.Product, error) {
		return svc.SearchProductsByName(ctx, text)
	})
}

func (l *Layer) SearchByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, nil
	}
	return read(ctx, l, CategoryKey(category), false, func(ctx context.Context, svc backend.Service) ([]domain.Product, error) {
		return svc.SearchProductsByCategory(ctx, category)
	})
}

func (l *Layer) Cart(ctx context.Context) ([]domain.CartLine, error) {
	return read(ctx, l, CartKey(), true, func(ctx context.Context, svc backend.Service) ([]domain.CartLine, error) {
		return svc.GetCart(ctx)
	})
}

func (l *Layer) UserOrders(ctx context.Context) ([]domain.Order, error) {
	return read(ctx, l, OrdersKey(), true, func(ctx context.Context, svc backend.Service) ([]domain.Order, error) {
		return svc.GetUserOrders(ctx)
	})
}

// Order returns nil when the order does not exist.
func (l *Layer) Order(ctx context.Context, id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, nil
	}
	return read(ctx, l, OrderKey(id), false, func(ctx context.Context, svc backend.Service) (*domain.Order, error) {
		return svc.GetOrder(ctx, id)
	})
}
