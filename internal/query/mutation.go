package query

import (
	"context"
	"slices"

	"github.com/fjod/go_cart/storefront/internal/backend"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
)

type Mutation string

const (
	MutationAddToCart         Mutation = "addToCart"
	MutationUpdateCartItem    Mutation = "updateCartItem"
	MutationRemoveFromCart    Mutation = "removeFromCart"
	MutationCreateOrder       Mutation = "createOrder"
	MutationCreateProduct     Mutation = "createProduct"
	MutationUpdateProduct     Mutation = "updateProduct"
	MutationDeleteProduct     Mutation = "deleteProduct"
	MutationUpdateOrderStatus Mutation = "updateOrderStatus"
	MutationDeleteOrder       Mutation = "deleteOrder"
	MutationInitializeAdmin   Mutation = "initializeAdmin"
)

// Product detail and single-order entries are not invalidated by product or
// order mutations; they refresh when they go stale.
var invalidations = map[Mutation][]string{
	MutationAddToCart:         {ResourceCart},
	MutationUpdateCartItem:    {ResourceCart},
	MutationRemoveFromCart:    {ResourceCart},
	MutationCreateOrder:       {ResourceCart, ResourceOrders},
	MutationCreateProduct:     {ResourceProducts},
	MutationUpdateProduct:     {ResourceProducts},
	MutationDeleteProduct:     {ResourceProducts},
	MutationUpdateOrderStatus: {ResourceOrders},
	MutationDeleteOrder:       {ResourceOrders},
	MutationInitializeAdmin:   nil,
}

// Invalidates lists the resources marked stale after m succeeds.
func Invalidates(m Mutation) []string {
	return slices.Clone(invalidations[m])
}

// mutate fails fast unless a logged-in handle is ready. The cache is only
// touched after the remote call succeeds.
func mutate[T any](ctx context.Context, l *Layer, m Mutation, fn func(context.Context, backend.Service) (T, error)) (T, error) {
	var zero T
	svc, id, ok := l.source.Client()
	if !ok || id.IsAnonymous() {
		return zero, ErrNotAuthenticated
	}
	v, err := fn(ctx, svc)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("mutation", string(m)).Msg("mutation failed")
		return zero, err
	}
	l.cache.Invalidate(invalidations[m]...)
	return v, nil
}

func exec(ctx context.Context, l *Layer, m Mutation, fn func(context.Context, backend.Service) error) error {
	_, err := mutate(ctx, l, m, func(ctx context.Context, svc backend.Service) (struct{}, error) {
		return struct{}{}, fn(ctx, svc)
	})
	return err
}

func (l *Layer) AddToCart(ctx context.Context, productID, quantity int64) error {
	return exec(ctx, l, MutationAddToCart, func(ctx context.Context, svc backend.Service) error {
		return svc.AddToCart(ctx, productID, quantity)
	})
}

func (l *Layer) UpdateCartItem(ctx context.Context, productID, quantity int64) error {
	return exec(ctx, l, MutationUpdateCartItem, func(ctx context.Context, svc backend.Service) error {
		return svc.UpdateCartItem(ctx, productID, quantity)
	})
}

func (l *Layer) RemoveFromCart(ctx context.Context, productID int64) error {
	return exec(ctx, l, MutationRemoveFromCart, func(ctx context.Context, svc backend.Service) error {
		return svc.RemoveFromCart(ctx, productID)
	})
}

func (l *Layer) CreateOrder(ctx context.Context, method domain.PaymentMethod) (int64, error) {
	return mutate(ctx, l, MutationCreateOrder, func(ctx context.Context, svc backend.Service) (int64, error) {
		return svc.CreateOrder(ctx, method)
	})
}

func (l *Layer) CreateProduct(ctx context.Context, in domain.ProductInput) (int64, error) {
	return mutate(ctx, l, MutationCreateProduct, func(ctx context.Context, svc backend.Service) (int64, error) {
		return svc.CreateProduct(ctx, in)
	})
}

func (l *Layer) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) error {
	return exec(ctx, l, MutationUpdateProduct, func(ctx context.Context, svc backend.Service) error {
		return svc.UpdateProduct(ctx, id, in)
	})
}

func (l *Layer) DeleteProduct(ctx context.Context, id int64) error {
	return exec(ctx, l, MutationDeleteProduct, func(ctx context.Context, svc backend.Service) error {
		return svc.DeleteProduct(ctx, id)
	})
}

func (l *Layer) UpdateOrderStatus(ctx context.Context, orderID int64, st domain.OrderStatus) error {
	return exec(ctx, l, MutationUpdateOrderStatus, func(ctx context.Context, svc backend.Service) error {
		return svc.UpdateOrderStatus(ctx, orderID, st)
	})
}

func (l *Layer) DeleteOrder(ctx context.Context, orderID int64) error {
	return exec(ctx, l, MutationDeleteOrder, func(ctx context.Context, svc backend.Service) error {
		return svc.DeleteOrder(ctx, orderID)
	})
}

func (l *Layer) InitializeAdmin(ctx context.Context) error {
	return exec(ctx, l, MutationInitializeAdmin, func(ctx context.Context, svc backend.Service) error {
		return svc.InitializeAdmin(ctx)
	})
}
