package grpc_test

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ggrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/fjod/go_cart/storefront/internal/auth"
	"github.com/fjod/go_cart/storefront/internal/backend"
	"github.com/fjod/go_cart/storefront/internal/domain"
	grpcHandler "github.com/fjod/go_cart/storefront/internal/grpc"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/fjod/go_cart/storefront/pkg/api"
)

const testSecret = "test-secret"

type testBackend struct {
	authority *auth.Authority
	connector *backend.Connector
}

func (b *testBackend) client(t *testing.T, principal string) backend.Service {
	t.Helper()
	if principal == "" {
		return b.connector.ClientFor(domain.Anonymous)
	}
	return b.connector.ClientFor(domain.Identity{Principal: principal, Token: b.token(t, principal)})
}

func (b *testBackend) token(t *testing.T, principal string) string {
	t.Helper()
	token, err := b.authority.Issue(principal, time.Hour)
	require.NoError(t, err)
	return token
}

func startBackend(t *testing.T) *testBackend {
	t.Helper()
	repo, err := repository.NewRepository(filepath.Join(t.TempDir(), "backend.db"))
	require.NoError(t, err)
	require.NoError(t, repo.RunMigrations())

	authority := auth.NewAuthority(testSecret)
	lis := bufconn.Listen(1 << 20)
	s := ggrpc.NewServer(ggrpc.UnaryInterceptor(grpcHandler.UnaryInterceptor(authority)))
	api.RegisterStorefrontServer(s, grpcHandler.NewStorefrontServer(repo))
	go func() {
		_ = s.Serve(lis)
	}()

	conn, err := ggrpc.NewClient(
		"passthrough:///bufnet",
		ggrpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		ggrpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		s.Stop()
		repo.Close()
	})
	return &testBackend{authority: authority, connector: backend.NewConnector(conn, backend.DefaultOptions())}
}

func TestAnonymousBrowsing(t *testing.T) {
	b := startBackend(t)
	anon := b.client(t, "")
	ctx := context.Background()

	products, err := anon.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 5)

	p, err := anon.GetProduct(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Classic Black Abaya", p.Name)

	missing, err := anon.GetProduct(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	hijabs, err := anon.SearchProductsByCategory(ctx, "Hijabs")
	require.NoError(t, err)
	assert.Len(t, hijabs, 1)

	_, err = anon.GetCart(ctx)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	err = anon.AddToCart(ctx, 1, 1)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestInvalidTokenRejected(t *testing.T) {
	b := startBackend(t)
	forged := b.connector.ClientFor(domain.Identity{Principal: "alice", Token: "forged"})

	_, err := forged.ListProducts(context.Background())
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestCartAndOrderFlow(t *testing.T) {
	b := startBackend(t)
	alice := b.client(t, "alice")
	ctx := context.Background()

	require.NoError(t, alice.AddToCart(ctx, 1, 2))
	require.NoError(t, alice.AddToCart(ctx, 2, 3))
	require.NoError(t, alice.UpdateCartItem(ctx, 2, 4))

	err := alice.AddToCart(ctx, 1, 100)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	err = alice.UpdateCartItem(ctx, 1, 0)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	lines, err := alice.GetCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CartLine{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 4}}, lines)

	_, err = alice.CreateOrder(ctx, domain.PaymentMethod("card"))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	id, err := alice.CreateOrder(ctx, domain.PaymentCash)
	require.NoError(t, err)

	lines, err = alice.GetCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)

	order, err := alice.GetOrder(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, int64(2*3500+4*850), order.Total)
	assert.Equal(t, "alice", order.User)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.False(t, order.CreatedAt.IsZero())

	missing, err := alice.GetOrder(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = alice.CreateOrder(ctx, domain.PaymentCash)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestAdminOperations(t *testing.T) {
	b := startBackend(t)
	alice := b.client(t, "alice")
	bob := b.client(t, "bob")
	ctx := context.Background()

	in := domain.ProductInput{Name: "Floral Musk", Price: 2200, Stock: 25, Category: "Perfumes"}

	_, err := alice.CreateProduct(ctx, in)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	require.NoError(t, alice.InitializeAdmin(ctx))
	require.NoError(t, bob.InitializeAdmin(ctx))

	_, err = bob.CreateProduct(ctx, in)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = alice.CreateProduct(ctx, domain.ProductInput{Name: "", Category: "Bags"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	id, err := alice.CreateProduct(ctx, in)
	require.NoError(t, err)
	in.Stock = 20
	require.NoError(t, alice.UpdateProduct(ctx, id, in))
	p, err := alice.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(20), p.Stock)

	require.NoError(t, bob.AddToCart(ctx, id, 1))
	orderID, err := bob.CreateOrder(ctx, domain.PaymentEasypaisa)
	require.NoError(t, err)

	bobOrders, err := bob.GetUserOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, bobOrders, 1)
	allOrders, err := alice.GetUserOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, allOrders, 1)

	err = alice.UpdateOrderStatus(ctx, orderID, domain.OrderStatus("Lost"))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	require.NoError(t, alice.UpdateOrderStatus(ctx, orderID, domain.OrderStatusShipped))
	err = bob.UpdateOrderStatus(ctx, orderID, domain.OrderStatusDelivered)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	require.NoError(t, alice.DeleteProduct(ctx, id))
	order, err := bob.GetOrder(ctx, orderID)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, domain.OrderStatusShipped, order.Status)
	assert.Equal(t, "Floral Musk", order.Items[0].Product.Name)

	require.NoError(t, alice.DeleteOrder(ctx, orderID))
	err = alice.DeleteOrder(ctx, orderID)
	assert.Equal(t, codes.NotFound, status.Code(err))
}
