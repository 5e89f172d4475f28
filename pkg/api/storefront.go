// Package api is the wire contract of the storefront backend: message types,
// the gRPC service descriptor and a client stub. Messages are encoded with the
// JSON codec registered in codec.go.
package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "storefront.v1.Storefront"

const (
	MethodListProducts             = "ListProducts"
	MethodGetProduct               = "GetProduct"
	MethodSearchProductsByName     = "SearchProductsByName"
	MethodSearchProductsByCategory = "SearchProductsByCategory"
	MethodGetCart                  = "GetCart"
	MethodAddToCart                = "AddToCart"
	MethodUpdateCartItem           = "UpdateCartItem"
	MethodRemoveFromCart           = "RemoveFromCart"
	MethodCreateOrder              = "CreateOrder"
	MethodGetUserOrders            = "GetUserOrders"
	MethodGetOrder                 = "GetOrder"
	MethodCreateProduct            = "CreateProduct"
	MethodUpdateProduct            = "UpdateProduct"
	MethodDeleteProduct            = "DeleteProduct"
	MethodUpdateOrderStatus        = "UpdateOrderStatus"
	MethodDeleteOrder              = "DeleteOrder"
	MethodInitializeAdmin          = "InitializeAdmin"
)

func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// StorefrontServer is the server API for the storefront service.
type StorefrontServer interface {
	ListProducts(context.Context, *Empty) (*ProductsResponse, error)
	GetProduct(context.Context, *GetProductRequest) (*ProductResponse, error)
	SearchProductsByName(context.Context, *SearchByNameRequest) (*ProductsResponse, error)
	SearchProductsByCategory(context.Context, *SearchByCategoryRequest) (*ProductsResponse, error)
	GetCart(context.Context, *Empty) (*CartResponse, error)
	AddToCart(context.Context, *CartItemRequest) (*Empty, error)
	UpdateCartItem(context.Context, *CartItemRequest) (*Empty, error)
	RemoveFromCart(context.Context, *RemoveFromCartRequest) (*Empty, error)
	CreateOrder(context.Context, *CreateOrderRequest) (*IdResponse, error)
	GetUserOrders(context.Context, *Empty) (*OrdersResponse, error)
	GetOrder(context.Context, *GetOrderRequest) (*OrderResponse, error)
	CreateProduct(context.Context, *CreateProductRequest) (*IdResponse, error)
	UpdateProduct(context.Context, *UpdateProductRequest) (*Empty, error)
	DeleteProduct(context.Context, *DeleteProductRequest) (*Empty, error)
	UpdateOrderStatus(context.Context, *UpdateOrderStatusRequest) (*Empty, error)
	DeleteOrder(context.Context, *DeleteOrderRequest) (*Empty, error)
	InitializeAdmin(context.Context, *Empty) (*Empty, error)
}

// UnimplementedStorefrontServer can be embedded to have forward compatible
// implementations.
type UnimplementedStorefrontServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedStorefrontServer) ListProducts(context.Context, *Empty) (*ProductsResponse, error) {
	return nil, unimplemented(MethodListProducts)
}
func (UnimplementedStorefrontServer) GetProduct(context.Context, *GetProductRequest) (*ProductResponse, error) {
	return nil, unimplemented(MethodGetProduct)
}
func (UnimplementedStorefrontServer) SearchProductsByName(context.Context, *SearchByNameRequest) (*ProductsResponse, error) {
	return nil, unimplemented(MethodSearchProductsByName)
}
func (UnimplementedStorefrontServer) SearchProductsByCategory(context.Context, *SearchByCategoryRequest) (*ProductsResponse, error) {
	return nil, unimplemented(MethodSearchProductsByCategory)
}
func (UnimplementedStorefrontServer) GetCart(context.Context, *Empty) (*CartResponse, error) {
	return nil, unimplemented(MethodGetCart)
}
func (UnimplementedStorefrontServer) AddToCart(context.Context, *CartItemRequest) (*Empty, error) {
	return nil, unimplemented(MethodAddToCart)
}
func (UnimplementedStorefrontServer) UpdateCartItem(context.Context, *CartItemRequest) (*Empty, error) {
	return nil, unimplemented(MethodUpdateCartItem)
}
func (UnimplementedStorefrontServer) RemoveFromCart(context.Context, *RemoveFromCartRequest) (*Empty, error) {
	return nil, unimplemented(MethodRemoveFromCart)
}
func (UnimplementedStorefrontServer) CreateOrder(context.Context, *CreateOrderRequest) (*IdResponse, error) {
	return nil, unimplemented(MethodCreateOrder)
}
func (UnimplementedStorefrontServer) GetUserOrders(context.Context, *Empty) (*OrdersResponse, error) {
	return nil, unimplemented(MethodGetUserOrders)
}
func (UnimplementedStorefrontServer) GetOrder(context.Context, *GetOrderRequest) (*OrderResponse, error) {
	return nil, unimplemented(MethodGetOrder)
}
func (UnimplementedStorefrontServer) CreateProduct(context.Context, *CreateProductRequest) (*IdResponse, error) {
	return nil, unimplemented(MethodCreateProduct)
}
func (UnimplementedStorefrontServer) UpdateProduct(context.Context, *UpdateProductRequest) (*Empty, error) {
	return nil, unimplemented(MethodUpdateProduct)
}
func (UnimplementedStorefrontServer) DeleteProduct(context.Context, *DeleteProductRequest) (*Empty, error) {
	return nil, unimplemented(MethodDeleteProduct)
}
func (UnimplementedStorefrontServer) UpdateOrderStatus(context.Context, *UpdateOrderStatusRequest) (*Empty, error) {
	return nil, unimplemented(MethodUpdateOrderStatus)
}
func (UnimplementedStorefrontServer) DeleteOrder(context.Context, *DeleteOrderRequest) (*Empty, error) {
	return nil, unimplemented(MethodDeleteOrder)
}
func (UnimplementedStorefrontServer) InitializeAdmin(context.Context, *Empty) (*Empty, error) {
	return nil, unimplemented(MethodInitializeAdmin)
}

// unary builds the method descriptor for one request/response pair.
func unary[Req, Resp any](method string, call func(StorefrontServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(StorefrontServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(StorefrontServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var storefrontServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StorefrontServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodListProducts, StorefrontServer.ListProducts),
		unary(MethodGetProduct, StorefrontServer.GetProduct),
		unary(MethodSearchProductsByName, StorefrontServer.SearchProductsByName),
		unary(MethodSearchProductsByCategory, StorefrontServer.SearchProductsByCategory),
		unary(MethodGetCart, StorefrontServer.GetCart),
		unary(MethodAddToCart, StorefrontServer.AddToCart),
		unary(MethodUpdateCartItem, StorefrontServer.UpdateCartItem),
		unary(MethodRemoveFromCart, StorefrontServer.RemoveFromCart),
		unary(MethodCreateOrder, StorefrontServer.CreateOrder),
		unary(MethodGetUserOrders, StorefrontServer.GetUserOrders),
		unary(MethodGetOrder, StorefrontServer.GetOrder),
		unary(MethodCreateProduct, StorefrontServer.CreateProduct),
		unary(MethodUpdateProduct, StorefrontServer.UpdateProduct),
		unary(MethodDeleteProduct, StorefrontServer.DeleteProduct),
		unary(MethodUpdateOrderStatus, StorefrontServer.UpdateOrderStatus),
		unary(MethodDeleteOrder, StorefrontServer.DeleteOrder),
		unary(MethodInitializeAdmin, StorefrontServer.InitializeAdmin),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront/v1/storefront.json",
}

func RegisterStorefrontServer(s grpc.ServiceRegistrar, srv StorefrontServer) {
	s.RegisterService(&storefrontServiceDesc, srv)
}

// StorefrontClient is the client API for the storefront service.
type StorefrontClient interface {
	ListProducts(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ProductsResponse, error)
	GetProduct(ctx context.Context, in *GetProductRequest, opts ...grpc.CallOption) (*ProductResponse, error)
	SearchProductsByName(ctx context.Context, in *SearchByNameRequest, opts ...grpc.CallOption) (*ProductsResponse, error)
	SearchProductsByCategory(ctx context.Context, in *SearchByCategoryRequest, opts ...grpc.CallOption) (*ProductsResponse, error)
	GetCart(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*CartResponse, error)
	AddToCart(ctx context.Context, in *CartItemRequest, opts ...grpc.CallOption) (*Empty, error)
	UpdateCartItem(ctx context.Context, in *CartItemRequest, opts ...grpc.CallOption) (*Empty, error)
	RemoveFromCart(ctx context.Context, in *RemoveFromCartRequest, opts ...grpc.CallOption) (*Empty, error)
	CreateOrder(ctx context.Context, in *CreateOrderRequest, opts ...grpc.CallOption) (*IdResponse, error)
	GetUserOrders(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*OrdersResponse, error)
	GetOrder(ctx context.Context, in *GetOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error)
	CreateProduct(ctx context.Context, in *CreateProductRequest, opts ...grpc.CallOption) (*IdResponse, error)
	UpdateProduct(ctx context.Context, in *UpdateProductRequest, opts ...grpc.CallOption) (*Empty, error)
	DeleteProduct(ctx context.Context, in *DeleteProductRequest, opts ...grpc.CallOption) (*Empty, error)
	UpdateOrderStatus(ctx context.Context, in *UpdateOrderStatusRequest, opts ...grpc.CallOption) (*Empty, error)
	DeleteOrder(ctx context.Context, in *DeleteOrderRequest, opts ...grpc.CallOption) (*Empty, error)
	InitializeAdmin(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error)
}

type storefrontClient struct {
	cc grpc.ClientConnInterface
}

func NewStorefrontClient(cc grpc.ClientConnInterface) StorefrontClient {
	return &storefrontClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *storefrontClient) ListProducts(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ProductsResponse, error) {
	return invoke[ProductsResponse](ctx, c.cc, MethodListProducts, in, opts)
}
func (c *storefrontClient) GetProduct(ctx context.Context, in *GetProductRequest, opts ...grpc.CallOption) (*ProductResponse, error) {
	return invoke[ProductResponse](ctx, c.cc, MethodGetProduct, in, opts)
}
func (c *storefrontClient) SearchProductsByName(ctx context.Context, in *SearchByNameRequest, opts ...grpc.CallOption) (*ProductsResponse, error) {
	return invoke[ProductsResponse](ctx, c.cc, MethodSearchProductsByName, in, opts)
}
func (c *storefrontClient) SearchProductsByCategory(ctx context.Context, in *SearchByCategoryRequest, opts ...grpc.CallOption) (*ProductsResponse, error) {
	return invoke[ProductsResponse](ctx, c.cc, MethodSearchProductsByCategory, in, opts)
}
func (c *storefrontClient) GetCart(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*CartResponse, error) {
	return invoke[CartResponse](ctx, c.cc, MethodGetCart, in, opts)
}
func (c *storefrontClient) AddToCart(ctx context.Context, in *CartItemRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodAddToCart, in, opts)
}
func (c *storefrontClient) UpdateCartItem(ctx context.Context, in *CartItemRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodUpdateCartItem, in, opts)
}
func (c *storefrontClient) RemoveFromCart(ctx context.Context, in *RemoveFromCartRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodRemoveFromCart, in, opts)
}
func (c *storefrontClient) CreateOrder(ctx context.Context, in *CreateOrderRequest, opts ...grpc.CallOption) (*IdResponse, error) {
	return invoke[IdResponse](ctx, c.cc, MethodCreateOrder, in, opts)
}
func (c *storefrontClient) GetUserOrders(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*OrdersResponse, error) {
	return invoke[OrdersResponse](ctx, c.cc, MethodGetUserOrders, in, opts)
}
func (c *storefrontClient) GetOrder(ctx context.Context, in *GetOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, MethodGetOrder, in, opts)
}
func (c *storefrontClient) CreateProduct(ctx context.Context, in *CreateProductRequest, opts ...grpc.CallOption) (*IdResponse, error) {
	return invoke[IdResponse](ctx, c.cc, MethodCreateProduct, in, opts)
}
func (c *storefrontClient) UpdateProduct(ctx context.Context, in *UpdateProductRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodUpdateProduct, in, opts)
}
func (c *storefrontClient) DeleteProduct(ctx context.Context, in *DeleteProductRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeleteProduct, in, opts)
}
func (c *storefrontClient) UpdateOrderStatus(ctx context.Context, in *UpdateOrderStatusRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodUpdateOrderStatus, in, opts)
}
func (c *storefrontClient) DeleteOrder(ctx context.Context, in *DeleteOrderRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeleteOrder, in, opts)
}
func (c *storefrontClient) InitializeAdmin(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodInitializeAdmin, in, opts)
}
