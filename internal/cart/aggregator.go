package cart

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fjod/go_cart/storefront/internal/cache"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/query"
)

// Aggregator derives the cart view from the cached cart lines and catalog.
// The view is recomputed only when either cached entry changes.
type Aggregator struct {
	q *query.Layer

	mu          sync.Mutex
	memo        View
	computed    bool
	cartRev     uint64
	productsRev uint64
	recomputes  int
	refreshes   int
}

func NewAggregator(q *query.Layer) *Aggregator {
	return &Aggregator{q: q}
}

// Snapshot returns the view over whatever is cached right now without
// fetching. While a source is being refetched the previous view is returned
// with IsLoading set.
func (a *Aggregator) Snapshot() View {
	c := a.q.Cache()
	cartEntry, _ := c.Peek(query.CartKey())
	productsEntry, _ := c.Peek(query.ProductsKey())
	loading := c.Loading(query.CartKey()) || c.Loading(query.ProductsKey())

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.computed || cartEntry.Revision != a.cartRev || productsEntry.Revision != a.productsRev {
		lines, _ := cartEntry.Value.([]domain.CartLine)
		products, _ := productsEntry.Value.([]domain.Product)
		a.memo = Aggregate(lines, products)
		a.cartRev = cartEntry.Revision
		a.productsRev = productsEntry.Revision
		a.computed = true
		a.recomputes++
	}

	v := a.memo
	v.Items = slices.Clone(a.memo.Items)
	v.IsLoading = loading
	return v
}

// Load fetches the cart and the catalog concurrently through the cache and
// returns the resulting view.
func (a *Aggregator) Load(ctx context.Context) (View, error) {
	var g errgroup.Group
	g.Go(func() error {
		_, err := a.q.Cart(ctx)
		return err
	})
	g.Go(func() error {
		_, err := a.q.Products(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return a.Snapshot(), err
	}
	return a.Snapshot(), nil
}

// Watch emits the current view and then a fresh view after every change to
// the cart or catalog entries, until ctx is done. Stale sources are refetched
// before the view is emitted. At most one refetch runs per watcher; a burst
// of invalidations while it runs queues a single follow-up.
func (a *Aggregator) Watch(ctx context.Context) <-chan View {
	events, cancel := a.q.Cache().Subscribe(query.ResourceCart, query.ResourceProducts)
	out := make(chan View, 1)
	kick := make(chan struct{}, 1)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-kick:
				a.refresh(ctx)
			}
		}
	}()

	go func() {
		defer close(out)
		defer cancel()

		emit := func(v View) bool {
			select {
			case out <- v:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit(a.Snapshot()) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if ev.Kind == cache.EventInvalidated {
					// the refetch publishes its own update event
					select {
					case kick <- struct{}{}:
					default:
					}
					continue
				}
				if !emit(a.Snapshot()) {
					return
				}
			}
		}
	}()
	return out
}

func (a *Aggregator) refresh(ctx context.Context) {
	a.mu.Lock()
	a.refreshes++
	a.mu.Unlock()
	if _, err := a.Load(ctx); err != nil && ctx.Err() == nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("cart refresh failed")
	}
}

func (a *Aggregator) recomputeCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.recomputes
}

func (a *Aggregator) refreshCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.refreshes
}
