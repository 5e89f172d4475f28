package backend

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/fjod/go_cart/storefront/pkg/api"
)

type Options struct {
	// Timeout bounds every remote call. Calls are never retried.
	Timeout            time.Duration
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		Timeout:            10 * time.Second,
		BreakerMaxFailures: 5,
		BreakerOpenTimeout: 30 * time.Second,
	}
}

// Dial opens the shared connection to the backend.
func Dial(addr string) (*grpc.ClientConn, error) {
	return grpc.NewClient(
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(api.CodecName)),
	)
}

// Connector produces identity-bound clients over one backend connection. All
// clients share the connector's circuit breaker.
type Connector struct {
	api     api.StorefrontClient
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[any]
}

func NewConnector(cc grpc.ClientConnInterface, opts Options) *Connector {
	return &Connector{
		api:     api.NewStorefrontClient(cc),
		timeout: opts.Timeout,
		breaker: newBreaker("storefront-backend", opts),
	}
}

// ClientFor returns a handle acting on behalf of id.
func (c *Connector) ClientFor(id domain.Identity) Service {
	return &Client{
		api:      c.api,
		identity: id,
		timeout:  c.timeout,
		breaker:  c.breaker,
	}
}

type Client struct {
	api      api.StorefrontClient
	identity domain.Identity
	timeout  time.Duration
	breaker  *gobreaker.CircuitBreaker[any]
}

func (c *Client) Identity() domain.Identity {
	return c.identity
}

func (c *Client) outgoing(ctx context.Context) context.Context {
	pairs := []string{"user-id", c.identity.Principal}
	if c.identity.Token != "" {
		pairs = append(pairs, "authorization", "Bearer "+c.identity.Token)
	}
	if requestID := logger.RequestID(ctx); requestID != "" {
		pairs = append(pairs, "request-id", requestID)
	}
	return metadata.AppendToOutgoingContext(ctx, pairs...)
}

func call[T any](ctx context.Context, c *Client, method string, fn func(ctx context.Context) (T, error)) (T, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	ctx = c.outgoing(ctx)

	start := time.Now()
	v, err := c.breaker.Execute(func() (any, error) {
		return fn(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = status.Errorf(codes.Unavailable, "backend unavailable: %v", err)
	}
	metrics.RemoteCall(method, status.Code(err).String(), time.Since(start))

	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("method", method).Msg("remote call failed")
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func notFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return call(ctx, c, api.MethodListProducts, func(ctx context.Context) ([]domain.Product, error) {
		resp, err := c.api.ListProducts(ctx, &api.Empty{})
		if err != nil {
			return nil, err
		}
		return convertProducts(resp.Products), nil
	})
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return call(ctx, c, api.MethodGetProduct, func(ctx context.Context) (*domain.Product, error) {
		resp, err := c.api.GetProduct(ctx, &api.GetProductRequest{Id: id})
		if notFound(err) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if resp.Product == nil {
			return nil, nil
		}
		p := convertProduct(resp.Product)
		return &p, nil
	})
}

func (c *Client) SearchProductsByName(ctx context.Context, text string) ([]domain.Product, error) {
	return call(ctx, c, api.MethodSearchProductsByName, func(ctx context.Context) ([]domain.Product, error) {
		resp, err := c.api.SearchProductsByName(ctx, &api.SearchByNameRequest{Text: text})
		if err != nil {
			return nil, err
		}
		return convertProducts(resp.Products), nil
	})
}

func (c *Client) SearchProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return call(ctx, c, api.MethodSearchProductsByCategory, func(ctx context.Context) ([]domain.Product, error) {
		resp, err := c.api.SearchProductsByCategory(ctx, &api.SearchByCategoryRequest{Category: category})
		if err != nil {
			return nil, err
		}
		return convertProducts(resp.Products), nil
	})
}

func (c *Client) GetCart(ctx context.Context) ([]domain.CartLine, error) {
	return call(ctx, c, api.MethodGetCart, func(ctx context.Context) ([]domain.CartLine, error) {
		resp, err := c.api.GetCart(ctx, &api.Empty{})
		if err != nil {
			return nil, err
		}
		return convertCart(resp.Items), nil
	})
}

func (c *Client) AddToCart(ctx context.Context, productID, quantity int64) error {
	_, err := call(ctx, c, api.MethodAddToCart, func(ctx context.Context) (*api.Empty, error) {
		return c.api.AddToCart(ctx, &api.CartItemRequest{ProductId: productID, Quantity: quantity})
	})
	return err
}

func (c *Client) UpdateCartItem(ctx context.Context, productID, quantity int64) error {
	_, err := call(ctx, c, api.MethodUpdateCartItem, func(ctx context.Context) (*api.Empty, error) {
		return c.api.UpdateCartItem(ctx, &api.CartItemRequest{ProductId: productID, Quantity: quantity})
	})
	return err
}

func (c *Client) RemoveFromCart(ctx context.Context, productID int64) error {
	_, err := call(ctx, c, api.MethodRemoveFromCart, func(ctx context.Context) (*api.Empty, error) {
		return c.api.RemoveFromCart(ctx, &api.RemoveFromCartRequest{ProductId: productID})
	})
	return err
}

func (c *Client) CreateOrder(ctx context.Context, method domain.PaymentMethod) (int64, error) {
	return call(ctx, c, api.MethodCreateOrder, func(ctx context.Context) (int64, error) {
		resp, err := c.api.CreateOrder(ctx, &api.CreateOrderRequest{PaymentMethod: string(method)})
		if err != nil {
			return 0, err
		}
		return resp.Id, nil
	})
}

func (c *Client) GetUserOrders(ctx context.Context) ([]domain.Order, error) {
	return call(ctx, c, api.MethodGetUserOrders, func(ctx context.Context) ([]domain.Order, error) {
		resp, err := c.api.GetUserOrders(ctx, &api.Empty{})
		if err != nil {
			return nil, err
		}
		return convertOrders(resp.Orders), nil
	})
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return call(ctx, c, api.MethodGetOrder, func(ctx context.Context) (*domain.Order, error) {
		resp, err := c.api.GetOrder(ctx, &api.GetOrderRequest{Id: id})
		if notFound(err) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if resp.Order == nil {
			return nil, nil
		}
		o := convertOrder(resp.Order)
		return &o, nil
	})
}

func (c *Client) CreateProduct(ctx context.Context, in domain.ProductInput) (int64, error) {
	return call(ctx, c, api.MethodCreateProduct, func(ctx context.Context) (int64, error) {
		resp, err := c.api.CreateProduct(ctx, &api.CreateProductRequest{
			Name:        in.Name,
			Description: in.Description,
			Price:       in.Price,
			ImageUrl:    in.ImageURL,
			Stock:       in.Stock,
			Category:    in.Category,
		})
		if err != nil {
			return 0, err
		}
		return resp.Id, nil
	})
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) error {
	_, err := call(ctx, c, api.MethodUpdateProduct, func(ctx context.Context) (*api.Empty, error) {
		return c.api.UpdateProduct(ctx, &api.UpdateProductRequest{
			Id:          id,
			Name:        in.Name,
			Description: in.Description,
			Price:       in.Price,
			ImageUrl:    in.ImageURL,
			Stock:       in.Stock,
			Category:    in.Category,
		})
	})
	return err
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	_, err := call(ctx, c, api.MethodDeleteProduct, func(ctx context.Context) (*api.Empty, error) {
		return c.api.DeleteProduct(ctx, &api.DeleteProductRequest{Id: id})
	})
	return err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, st domain.OrderStatus) error {
	_, err := call(ctx, c, api.MethodUpdateOrderStatus, func(ctx context.Context) (*api.Empty, error) {
		return c.api.UpdateOrderStatus(ctx, &api.UpdateOrderStatusRequest{OrderId: orderID, Status: string(st)})
	})
	return err
}

func (c *Client) DeleteOrder(ctx context.Context, orderID int64) error {
	_, err := call(ctx, c, api.MethodDeleteOrder, func(ctx context.Context) (*api.Empty, error) {
		return c.api.DeleteOrder(ctx, &api.DeleteOrderRequest{OrderId: orderID})
	})
	return err
}

func (c *Client) InitializeAdmin(ctx context.Context) error {
	_, err := call(ctx, c, api.MethodInitializeAdmin, func(ctx context.Context) (*api.Empty, error) {
		return c.api.InitializeAdmin(ctx, &api.Empty{})
	})
	return err
}
