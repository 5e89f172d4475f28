package storefront

import (
	"context"
	"fmt"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/query"
)

// CustomerInfo is the delivery form of the checkout page.
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (c CustomerInfo) Validate() error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Phone) == "" || strings.TrimSpace(c.Address) == "" {
		return ErrCustomerInfoRequired
	}
	return nil
}

type CheckoutRequest struct {
	Customer      CustomerInfo `json:"customer"`
	PaymentMethod string       `json:"payment_method"`
}

type Checkout struct {
	q   *query.Layer
	agg *cart.Aggregator
}

func NewCheckout(q *query.Layer, agg *cart.Aggregator) *Checkout {
	return &Checkout{q: q, agg: agg}
}

// Summary is the cart as shown next to the checkout form.
func (c *Checkout) Summary(ctx context.Context) (cart.View, error) {
	return c.agg.Load(ctx)
}

func (c *Checkout) PaymentMethods() []domain.PaymentMethod {
	return append([]domain.PaymentMethod(nil), domain.PaymentMethods...)
}

// PlaceOrder validates the form and the cart, then creates the order. The
// backend empties the cart on success.
func (c *Checkout) PlaceOrder(ctx context.Context, req CheckoutRequest) (int64, error) {
	if !c.q.Authenticated() {
		return 0, query.ErrNotAuthenticated
	}
	if err := req.Customer.Validate(); err != nil {
		return 0, err
	}
	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPaymentMethod, err)
	}

	view, err := c.agg.Load(ctx)
	if err != nil {
		return 0, err
	}
	if view.Empty() {
		return 0, ErrEmptyCart
	}

	id, err := c.q.CreateOrder(ctx, method)
	if err != nil {
		return 0, err
	}
	logger.FromContext(ctx).Info().
		Int64("order_id", id).
		Str("payment_method", string(method)).
		Int64("subtotal", view.Subtotal).
		Int("items", view.ItemCount).
		Msg("order placed")
	return id, nil
}
