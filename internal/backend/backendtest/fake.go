// Package backendtest provides an in-memory backend for tests of the layers
// above the remote client.
package backendtest

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fjod/go_cart/storefront/internal/backend"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/pkg/api"
)

// Fake keeps catalog, carts and orders in memory and counts calls per
// method. It hands out identity-bound clients the way backend.Connector does.
type Fake struct {
	m             sync.RWMutex
	products      map[int64]domain.Product
	nextProductID int64
	carts         map[string][]domain.CartLine
	orders        map[int64]domain.Order
	nextOrderID   int64
	calls         map[string]int
	errs          map[string]error
	gates         map[string]chan struct{}
	now           func() time.Time
}

func NewFake(products ...domain.Product) *Fake {
	f := &Fake{
		products: make(map[int64]domain.Product),
		carts:    make(map[string][]domain.CartLine),
		orders:   make(map[int64]domain.Order),
		calls:    make(map[string]int),
		errs:     make(map[string]error),
		gates:    make(map[string]chan struct{}),
		now:      time.Now,
	}
	for _, p := range products {
		f.products[p.ID] = p
		if p.ID > f.nextProductID {
			f.nextProductID = p.ID
		}
	}
	return f
}

func (f *Fake) ClientFor(id domain.Identity) backend.Service {
	return &client{fake: f, identity: id}
}

func (f *Fake) Calls(method string) int {
	f.m.RLock()
	defer f.m.RUnlock()
	return f.calls[method]
}

// TotalCalls counts calls across all methods.
func (f *Fake) TotalCalls() int {
	f.m.RLock()
	defer f.m.RUnlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// Fail makes every call of method return err until Fail(method, nil).
func (f *Fake) Fail(method string, err error) {
	f.m.Lock()
	defer f.m.Unlock()
	if err == nil {
		delete(f.errs, method)
		return
	}
	f.errs[method] = err
}

// Hold blocks calls of method until the returned func is called.
func (f *Fake) Hold(method string) func() {
	f.m.Lock()
	defer f.m.Unlock()
	gate := make(chan struct{})
	f.gates[method] = gate
	var once sync.Once
	return func() {
		once.Do(func() {
			f.m.Lock()
			if f.gates[method] == gate {
				delete(f.gates, method)
			}
			f.m.Unlock()
			close(gate)
		})
	}
}

func (f *Fake) SetCart(principal string, lines ...domain.CartLine) {
	f.m.Lock()
	defer f.m.Unlock()
	f.carts[principal] = slices.Clone(lines)
}

func (f *Fake) Cart(principal string) []domain.CartLine {
	f.m.RLock()
	defer f.m.RUnlock()
	return slices.Clone(f.carts[principal])
}

func (f *Fake) SetProduct(p domain.Product) {
	f.m.Lock()
	defer f.m.Unlock()
	f.products[p.ID] = p
	if p.ID > f.nextProductID {
		f.nextProductID = p.ID
	}
}

func (f *Fake) Product(id int64) (domain.Product, bool) {
	f.m.RLock()
	defer f.m.RUnlock()
	p, ok := f.products[id]
	return p, ok
}

func (f *Fake) Orders() []domain.Order {
	f.m.RLock()
	defer f.m.RUnlock()
	return f.sortedOrders("")
}

func (f *Fake) sortedOrders(user string) []domain.Order {
	out := make([]domain.Order, 0, len(f.orders))
	for _, o := range f.orders {
		if user == "" || o.User == user {
			out = append(out, o)
		}
	}
	slices.SortFunc(out, func(a, b domain.Order) int { return int(a.ID - b.ID) })
	return out
}

func (f *Fake) sortedProducts(keep func(domain.Product) bool) []domain.Product {
	out := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		if keep == nil || keep(p) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b domain.Product) int { return int(a.ID - b.ID) })
	return out
}

type client struct {
	fake     *Fake
	identity domain.Identity
}

func (c *client) enter(ctx context.Context, method string) error {
	f := c.fake
	f.m.Lock()
	f.calls[method]++
	gate := f.gates[method]
	err := f.errs[method]
	f.m.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return status.FromContextError(ctx.Err()).Err()
		}
	}
	return err
}

func (c *client) principal() (string, error) {
	if c.identity.IsAnonymous() {
		return "", status.Error(codes.Unauthenticated, "login required")
	}
	return c.identity.Principal, nil
}

func (c *client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if err := c.enter(ctx, api.MethodListProducts); err != nil {
		return nil, err
	}
	c.fake.m.RLock()
	defer c.fake.m.RUnlock()
	return c.fake.sortedProducts(nil), nil
}

func (c *client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if err := c.enter(ctx, api.MethodGetProduct); err != nil {
		return nil, err
	}
	c.fake.m.RLock()
	defer c.fake.m.RUnlock()
	p, ok := c.fake.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *client) SearchProductsByName(ctx context.Context, text string) ([]domain.Product, error) {
	if err := c.enter(ctx, api.MethodSearchProductsByName); err != nil {
		return nil, err
	}
	needle := strings.ToLower(text)
	c.fake.m.RLock()
	defer c.fake.m.RUnlock()
	return c.fake.sortedProducts(func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	}), nil
}

func (c *client) SearchProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	if err := c.enter(ctx, api.MethodSearchProductsByCategory); err != nil {
		return nil, err
	}
	c.fake.m.RLock()
	defer c.fake.m.RUnlock()
	return c.fake.sortedProducts(func(p domain.Product) bool {
		return p.Category == category
	}), nil
}

func (c *client) GetCart(ctx context.Context) ([]domain.CartLine, error) {
	if err := c.enter(ctx, api.MethodGetCart); err != nil {
		return nil, err
	}
	user, err := c.principal()
	if err != nil {
		return nil, err
	}
	return c.fake.Cart(user), nil
}

func (c *client) AddToCart(ctx context.Context, productID, quantity int64) error {
	if err := c.enter(ctx, api.MethodAddToCart); err != nil {
		return err
	}
	user, err := c.principal()
	if err != nil {
		return err
	}
	f := c.fake
	f.m.Lock()
	defer f.m.Unlock()
	p, ok := f.products[productID]
	if !ok {
		return status.Error(codes.NotFound, "product not found")
	}
	lines := f.carts[user]
	for i := range lines {
		if lines[i].ProductID == productID {
			if lines[i].Quantity+quantity > p.Stock {
				return status.Error(codes.FailedPrecondition, "insufficient stock")
			}
			lines[i].Quantity += quantity
			return nil
		}
	}
	if quantity > p.Stock {
		return status.Error(codes.FailedPrecondition, "insufficient stock")
	}
	f.carts[user] = append(lines, domain.CartLine{ProductID: productID, Quantity: quantity})
	return nil
}

func (c *client) UpdateCartItem(ctx context.Context, productID, quantity int64) error {
	if err := c.enter(ctx, api.MethodUpdateCartItem); err != nil {
		return err
	}
	user, err := c.principal()
	if err != nil {
		return err
	}
	f := c.fake
	f.m.Lock()
	defer f.m.Unlock()
	lines := f.carts[user]
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
			return nil
		}
	}
	return status.Error(codes.NotFound, "cart item not found")
}

func (c *client) RemoveFromCart(ctx context.Context, productID int64) error {
	if err := c.enter(ctx, api.MethodRemoveFromCart); err != nil {
		return err
	}
	user, err := c.principal()
	if err != nil {
		return err
	}
	f := c.fake
	f.m.Lock()
	defer f.m.Unlock()
	f.carts[user] = slices.DeleteFunc(f.carts[user], func(l domain.CartLine) bool {
		return l.ProductID == productID
	})
	return nil
}

func (c *client) CreateOrder(ctx context.Context, method domain.PaymentMethod) (int64, error) {
	if err := c.enter(ctx, api.MethodCreateOrder); err != nil {
		return 0, err
	}
	user, err := c.principal()
	if err != nil {
		return 0, err
	}
	f := c.fake
	f.m.Lock()
	defer f.m.Unlock()
	lines := f.carts[user]
	if len(lines) == 0 {
		return 0, status.Error(codes.FailedPrecondition, "cart is empty")
	}
	order := domain.Order{
		Status:        domain.OrderStatusPending,
		PaymentMethod: method,
		User:          user,
		CreatedAt:     f.now(),
	}
	for _, l := range lines {
		p, ok := f.products[l.ProductID]
		if !ok {
			continue
		}
		if p.Stock < l.Quantity {
			return 0, status.Errorf(codes.FailedPrecondition, "insufficient stock for %s", p.Name)
		}
		order.Items = append(order.Items, domain.OrderItem{Product: p, Quantity: l.Quantity})
		order.Total += p.Price * l.Quantity
	}
	for _, item := range order.Items {
		p := f.products[item.Product.ID]
		p.Stock -= item.Quantity
		f.products[p.ID] = p
	}
	f.nextOrderID++
	order.ID = f.nextOrderID
	f.orders[order.ID] = order
	delete(f.carts, user)
	return order.ID, nil
}

func (c *client) GetUserOrders(ctx context.Context) ([]domain.Order, error) {
	if err := c.enter(ctx, api.MethodGetUserOrders); err != nil {
		return nil, err
	}
	user, err := c.principal()
	if err != nil {
		return nil, err
	}
	c.fake.m.RLock()
	defer c.fake.m.RUnlock()
	return c.fake.sortedOrders(user), nil
}

func (c *client) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if err := c.enter(ctx, api.MethodGetOrder); err != nil {
		return nil, err
	}
	c.fake.m.RLock()
	defer c.fake.m.RUnlock()
	o, ok := c.fake.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (c *client) CreateProduct(ctx context.Context, in domain.ProductInput) (int64, error) {
	if err := c.enter(ctx, api.MethodCreateProduct); err != nil {
		return 0, err
	}
	f := c.fake
	f.m.Lock()
	defer f.m.Unlock()
	f.nextProductID++
	id := f.nextProductID
	f.products[id] = productFromInput(id, in)
	return id, nil
}

func (c *client) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) error {
	if err := c.enter(ctx, api.MethodUpdateProduct); err != nil {
		return err
	}
	f := c.fake
	f.m.Lock()
	defer f.m.Unlock()
	if _, ok := f.products[id]; !ok {
		return status.Error(codes.NotFound, "product not found")
	}
	f.products[id] = productFromInput(id, in)
	return nil
}

func (c *client) DeleteProduct(ctx context.Context, id int64) error {
	if err := c.enter(ctx, api.MethodDeleteProduct); err != nil {
		return err
	}
	f := c.fake
	f.m.Lock()
	defer f.m.Unlock()
	if _, ok := f.products[id]; !ok {
		return status.Error(codes.NotFound, "product not found")
	}
	delete(f.products, id)
	return nil
}

func (c *client) UpdateOrderStatus(ctx context.Context, orderID int64, st domain.OrderStatus) error {
	if err := c.enter(ctx, api.MethodUpdateOrderStatus); err != nil {
		return err
	}
	f := c.fake
	f.m.Lock()
	defer f.m.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return status.Error(codes.NotFound, "order not found")
	}
	o.Status = st
	f.orders[orderID] = o
	return nil
}

func (c *client) DeleteOrder(ctx context.Context, orderID int64) error {
	if err := c.enter(ctx, api.MethodDeleteOrder); err != nil {
		return err
	}
	f := c.fake
	f.m.Lock()
	defer f.m.Unlock()
	if _, ok := f.orders[orderID]; !ok {
		return status.Error(codes.NotFound, "order not found")
	}
	delete(f.orders, orderID)
	return nil
}

func (c *client) InitializeAdmin(ctx context.Context) error {
	return c.enter(ctx, api.MethodInitializeAdmin)
}

func productFromInput(id int64, in domain.ProductInput) domain.Product {
	return domain.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
	}
}
