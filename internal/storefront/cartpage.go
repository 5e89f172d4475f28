package storefront

import (
	"context"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/query"
)

type CartPage struct {
	q   *query.Layer
	agg *cart.Aggregator
}

func NewCartPage(q *query.Layer, agg *cart.Aggregator) *CartPage {
	return &CartPage{q: q, agg: agg}
}

func (p *CartPage) View(ctx context.Context) (cart.View, error) {
	return p.agg.Load(ctx)
}

// SetQuantity changes a line to quantity, which must be within 1 and the
// stock of the product. Invalid quantities never reach the backend.
func (p *CartPage) SetQuantity(ctx context.Context, productID, quantity int64) error {
	if !p.q.Authenticated() {
		return query.ErrNotAuthenticated
	}
	item, ok := p.agg.Snapshot().Item(productID)
	if !ok {
		view, err := p.agg.Load(ctx)
		if err != nil {
			return err
		}
		if item, ok = view.Item(productID); !ok {
			return ErrNotInCart
		}
	}
	if quantity < 1 || quantity > item.Product.Stock {
		return ErrInvalidQuantity
	}
	return p.q.UpdateCartItem(ctx, productID, quantity)
}

func (p *CartPage) Remove(ctx context.Context, productID int64) error {
	return p.q.RemoveFromCart(ctx, productID)
}
