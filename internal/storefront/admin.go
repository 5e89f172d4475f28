package storefront

import (
	"context"
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/query"
)

// Admin is the dashboard. Every action needs a logged-in identity; whether
// that identity is an administrator is decided by the backend.
type Admin struct {
	q *query.Layer
}

func NewAdmin(q *query.Layer) *Admin {
	return &Admin{q: q}
}

func (a *Admin) requireLogin() error {
	if !a.q.Authenticated() {
		return query.ErrNotAuthenticated
	}
	return nil
}

func (a *Admin) Initialize(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	return a.q.InitializeAdmin(ctx)
}

func (a *Admin) Products(ctx context.Context) ([]domain.Product, error) {
	if err := a.requireLogin(); err != nil {
		return nil, err
	}
	return a.q.Products(ctx)
}

func (a *Admin) CreateProduct(ctx context.Context, in domain.ProductInput) (int64, error) {
	if err := a.requireLogin(); err != nil {
		return 0, err
	}
	if err := in.Validate(); err != nil {
		return 0, err
	}
	return a.q.CreateProduct(ctx, in)
}

func (a *Admin) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}
	return a.q.UpdateProduct(ctx, id, in)
}

func (a *Admin) DeleteProduct(ctx context.Context, id int64) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	return a.q.DeleteProduct(ctx, id)
}

// LoadSampleProducts creates the sample catalog one product at a time and
// stops at the first failure. It returns how many were created.
func (a *Admin) LoadSampleProducts(ctx context.Context) (int, error) {
	if err := a.requireLogin(); err != nil {
		return 0, err
	}
	for i, in := range SampleProducts {
		if _, err := a.q.CreateProduct(ctx, in); err != nil {
			return i, fmt.Errorf("create sample %q: %w", in.Name, err)
		}
	}
	logger.FromContext(ctx).Info().Int("count", len(SampleProducts)).Msg("sample products loaded")
	return len(SampleProducts), nil
}

func (a *Admin) Orders(ctx context.Context) ([]domain.Order, error) {
	if err := a.requireLogin(); err != nil {
		return nil, err
	}
	return a.q.UserOrders(ctx)
}

func (a *Admin) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	st, err := domain.ParseOrderStatus(status)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrderStatus, err)
	}
	return a.q.UpdateOrderStatus(ctx, orderID, st)
}

func (a *Admin) DeleteOrder(ctx context.Context, orderID int64) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	return a.q.DeleteOrder(ctx, orderID)
}
