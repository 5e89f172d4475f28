package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/pkg/api"
)

// Repository is the storage the development backend serves from.
type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	SearchProductsByName(ctx context.Context, text string) ([]domain.Product, error)
	SearchProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)
	CreateProduct(ctx context.Context, in domain.ProductInput) (int64, error)
	UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) error
	DeleteProduct(ctx context.Context, id int64) error

	GetCart(ctx context.Context, userID string) ([]domain.CartLine, error)
	AddToCart(ctx context.Context, userID string, productID, quantity int64) error
	UpdateCartItem(ctx context.Context, userID string, productID, quantity int64) error
	RemoveFromCart(ctx context.Context, userID string, productID int64) error

	CreateOrder(ctx context.Context, userID string, method domain.PaymentMethod) (int64, error)
	GetOrders(ctx context.Context, userID string) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int64) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, st domain.OrderStatus) error
	DeleteOrder(ctx context.Context, id int64) error

	InitializeAdmin(ctx context.Context, principal string) (bool, error)
	IsAdmin(ctx context.Context, principal string) (bool, error)
}

// StorefrontServer implements the storefront backend over a Repository.
type StorefrontServer struct {
	api.UnimplementedStorefrontServer
	repo Repository
}

func NewStorefrontServer(repo Repository) *StorefrontServer {
	return &StorefrontServer{repo: repo}
}

func requireUser(ctx context.Context) (string, error) {
	p := Principal(ctx)
	if p == domain.AnonymousPrincipal {
		return "", status.Error(codes.Unauthenticated, "login required")
	}
	return p, nil
}

func (s *StorefrontServer) requireAdmin(ctx context.Context) (string, error) {
	p, err := requireUser(ctx)
	if err != nil {
		return "", err
	}
	ok, err := s.repo.IsAdmin(ctx, p)
	if err != nil {
		return "", toStatus(err)
	}
	if !ok {
		return "", status.Error(codes.PermissionDenied, "admin only")
	}
	return p, nil
}

func (s *StorefrontServer) ListProducts(ctx context.Context, _ *api.Empty) (*api.ProductsResponse, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ProductsResponse{Products: convertProducts(products)}, nil
}

func (s *StorefrontServer) GetProduct(ctx context.Context, req *api.GetProductRequest) (*api.ProductResponse, error) {
	if req.Id <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id must be greater than 0")
	}
	p, err := s.repo.GetProduct(ctx, req.Id)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ProductResponse{Product: convertProduct(p)}, nil
}

func (s *StorefrontServer) SearchProductsByName(ctx context.Context, req *api.SearchByNameRequest) (*api.ProductsResponse, error) {
	products, err := s.repo.SearchProductsByName(ctx, req.Text)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ProductsResponse{Products: convertProducts(products)}, nil
}

func (s *StorefrontServer) SearchProductsByCategory(ctx context.Context, req *api.SearchByCategoryRequest) (*api.ProductsResponse, error) {
	products, err := s.repo.SearchProductsByCategory(ctx, req.Category)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ProductsResponse{Products: convertProducts(products)}, nil
}

func (s *StorefrontServer) GetCart(ctx context.Context, _ *api.Empty) (*api.CartResponse, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.GetCart(ctx, user)
	if err != nil {
		return nil, toStatus(err)
	}
	items := make([]*api.CartItem, len(lines))
	for i, l := range lines {
		items[i] = &api.CartItem{ProductId: l.ProductID, Quantity: l.Quantity}
	}
	return &api.CartResponse{Items: items}, nil
}

func (s *StorefrontServer) AddToCart(ctx context.Context, req *api.CartItemRequest) (*api.Empty, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddToCart(ctx, user, req.ProductId, req.Quantity); err != nil {
		return nil, toStatus(err)
	}
	return &api.Empty{}, nil
}

func (s *StorefrontServer) UpdateCartItem(ctx context.Context, req *api.CartItemRequest) (*api.Empty, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCartItem(ctx, user, req.ProductId, req.Quantity); err != nil {
		return nil, toStatus(err)
	}
	return &api.Empty{}, nil
}

func (s *StorefrontServer) RemoveFromCart(ctx context.Context, req *api.RemoveFromCartRequest) (*api.Empty, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveFromCart(ctx, user, req.ProductId); err != nil {
		return nil, toStatus(err)
	}
	return &api.Empty{}, nil
}

func (s *StorefrontServer) CreateOrder(ctx context.Context, req *api.CreateOrderRequest) (*api.IdResponse, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	id, err := s.repo.CreateOrder(ctx, user, method)
	if err != nil {
		return nil, toStatus(err)
	}
	logger.FromContext(ctx).Info().Int64("order_id", id).Str("user", user).Msg("order created")
	return &api.IdResponse{Id: id}, nil
}

// GetUserOrders returns every order to an admin and the caller's own orders
// to everyone else.
func (s *StorefrontServer) GetUserOrders(ctx context.Context, _ *api.Empty) (*api.OrdersResponse, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	admin, err := s.repo.IsAdmin(ctx, user)
	if err != nil {
		return nil, toStatus(err)
	}
	scope := user
	if admin {
		scope = ""
	}
	orders, err := s.repo.GetOrders(ctx, scope)
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &api.OrdersResponse{Orders: make([]*api.Order, len(orders))}
	for i, o := range orders {
		resp.Orders[i] = convertOrder(o)
	}
	return resp, nil
}

func (s *StorefrontServer) GetOrder(ctx context.Context, req *api.GetOrderRequest) (*api.OrderResponse, error) {
	if req.Id <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id must be greater than 0")
	}
	o, err := s.repo.GetOrder(ctx, req.Id)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.OrderResponse{Order: convertOrder(o)}, nil
}

func (s *StorefrontServer) CreateProduct(ctx context.Context, req *api.CreateProductRequest) (*api.IdResponse, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	in := productInput(req.Name, req.Description, req.Price, req.ImageUrl, req.Stock, req.Category)
	if err := in.Validate(); err != nil {
		return nil, toStatus(err)
	}
	id, err := s.repo.CreateProduct(ctx, in)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.IdResponse{Id: id}, nil
}

func (s *StorefrontServer) UpdateProduct(ctx context.Context, req *api.UpdateProductRequest) (*api.Empty, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	in := productInput(req.Name, req.Description, req.Price, req.ImageUrl, req.Stock, req.Category)
	if err := in.Validate(); err != nil {
		return nil, toStatus(err)
	}
	if err := s.repo.UpdateProduct(ctx, req.Id, in); err != nil {
		return nil, toStatus(err)
	}
	return &api.Empty{}, nil
}

func (s *StorefrontServer) DeleteProduct(ctx context.Context, req *api.DeleteProductRequest) (*api.Empty, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.DeleteProduct(ctx, req.Id); err != nil {
		return nil, toStatus(err)
	}
	return &api.Empty{}, nil
}

func (s *StorefrontServer) UpdateOrderStatus(ctx context.Context, req *api.UpdateOrderStatusRequest) (*api.Empty, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	st, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.repo.UpdateOrderStatus(ctx, req.OrderId, st); err != nil {
		return nil, toStatus(err)
	}
	return &api.Empty{}, nil
}

func (s *StorefrontServer) DeleteOrder(ctx context.Context, req *api.DeleteOrderRequest) (*api.Empty, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.DeleteOrder(ctx, req.OrderId); err != nil {
		return nil, toStatus(err)
	}
	return &api.Empty{}, nil
}

// InitializeAdmin makes the first caller the administrator. Later callers
// get success without any change.
func (s *StorefrontServer) InitializeAdmin(ctx context.Context, _ *api.Empty) (*api.Empty, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	admin, err := s.repo.InitializeAdmin(ctx, user)
	if err != nil {
		return nil, toStatus(err)
	}
	logger.FromContext(ctx).Info().Str("principal", user).Bool("admin", admin).Msg("admin initialization requested")
	return &api.Empty{}, nil
}
