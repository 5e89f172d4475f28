package storefront

import (
	"context"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/query"
)

type ProductDetail struct {
	q *query.Layer
}

func NewProductDetail(q *query.Layer) *ProductDetail {
	return &ProductDetail{q: q}
}

func (d *ProductDetail) Get(ctx context.Context, id int64) (domain.Product, error) {
	p, err := d.q.Product(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if p == nil {
		return domain.Product{}, ErrProductNotFound
	}
	return *p, nil
}

// AddToCart adds quantity units of the product. Anonymous visitors are asked
// to log in and out-of-range quantities are rejected before any remote call.
func (d *ProductDetail) AddToCart(ctx context.Context, id, quantity int64) error {
	if !d.q.Authenticated() {
		return query.ErrNotAuthenticated
	}
	p, err := d.Get(ctx, id)
	if err != nil {
		return err
	}
	if quantity < 1 || quantity > p.Stock {
		return ErrInvalidQuantity
	}
	return d.q.AddToCart(ctx, id, quantity)
}
