package backend

import (
	"context"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// Service is the remote procedure surface of the storefront backend. A Service
// value is bound to one identity; session-scoped operations act on behalf of
// that identity.
//
// GetProduct and GetOrder return (nil, nil) when the record does not exist.
type Service interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	SearchProductsByName(ctx context.Context, text string) ([]domain.Product, error)
	SearchProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)

	GetCart(ctx context.Context) ([]domain.CartLine, error)
	AddToCart(ctx context.Context, productID, quantity int64) error
	UpdateCartItem(ctx context.Context, productID, quantity int64) error
	RemoveFromCart(ctx context.Context, productID int64) error

	CreateOrder(ctx context.Context, method domain.PaymentMethod) (int64, error)
	GetUserOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)

	CreateProduct(ctx context.Context, in domain.ProductInput) (int64, error)
	UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) error
	DeleteProduct(ctx context.Context, id int64) error
	UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error
	DeleteOrder(ctx context.Context, orderID int64) error
	InitializeAdmin(ctx context.Context) error
}
