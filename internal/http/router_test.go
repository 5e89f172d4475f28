package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/go_cart/storefront/internal/backend/backendtest"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/sessionstore"
	"github.com/fjod/go_cart/storefront/internal/storefront"
	"github.com/fjod/go_cart/storefront/pkg/api"
)

type principalProvider struct{}

func (principalProvider) Login(_ context.Context, credential string) (domain.Identity, error) {
	if credential == "" || credential == "invalid" {
		return domain.Identity{}, errors.New("rejected")
	}
	return domain.Identity{Principal: credential, Token: credential}, nil
}

func (principalProvider) Logout(context.Context, domain.Identity) error { return nil }

var testProducts = []domain.Product{
	{ID: 1, Name: "Classic Black Abaya", Description: "Everyday wear", Price: 100, Stock: 10, Category: "Abayas"},
	{ID: 2, Name: "Chiffon Hijab", Description: "Soft pastel", Price: 200, Stock: 5, Category: "Hijabs"},
	{ID: 3, Name: "Oud", Description: "Woody notes", Price: 300, Stock: 2, Category: "Perfumes"},
}

type testClient struct {
	t      *testing.T
	base   string
	client *http.Client
	reg    *storefront.Registry
}

func newTestServer(t *testing.T, fake *backendtest.Fake, opts Options) *testClient {
	t.Helper()
	reg := storefront.NewRegistry(storefront.Deps{
		Provider:       principalProvider{},
		Factory:        fake,
		StaleTime:      time.Minute,
		AllowAnonymous: true,
	}, sessionstore.NewMemoryStore(time.Hour))

	srv := httptest.NewServer(NewRouter(reg, opts))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testClient{t: t, base: srv.URL, client: &http.Client{Jar: jar}, reg: reg}
}

func (c *testClient) do(method, path string, body any, out any) int {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, r)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	c := newTestServer(t, backendtest.NewFake(), Options{})

	var body map[string]string
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestProducts_AnonymousBrowsing(t *testing.T) {
	c := newTestServer(t, backendtest.NewFake(testProducts...), Options{})

	var products []ProductDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/products", nil, &products))
	assert.Len(t, products, 3)

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/products?search=hijab", nil, &products))
	require.Len(t, products, 1)
	assert.Equal(t, int64(2), products[0].ID)

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/products/category/Perfumes", nil, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Oud", products[0].Name)

	var p ProductDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/products/1", nil, &p))
	assert.Equal(t, "Classic Black Abaya", p.Name)
	assert.True(t, p.InStock)

	var errResp ErrorResponse
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/v1/products/99", nil, &errResp))
	assert.Equal(t, "not_found", errResp.Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/v1/products/abc", nil, &errResp))
	assert.Equal(t, "invalid_product_id", errResp.Code)
}

func TestSessionCookieIsIssuedOnce(t *testing.T) {
	c := newTestServer(t, backendtest.NewFake(), Options{})

	req, err := http.NewRequest(http.MethodGet, c.base+"/api/v1/session", nil)
	require.NoError(t, err)
	resp, err := c.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Len(t, resp.Cookies(), 1)
	assert.Equal(t, SessionCookie, resp.Cookies()[0].Name)

	resp, err = c.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Cookies())
}

func TestCart_RequiresLogin(t *testing.T) {
	fake := backendtest.NewFake(testProducts...)
	c := newTestServer(t, fake, Options{})

	var errResp ErrorResponse
	status := c.do(http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 1, Quantity: 1}, &errResp)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthenticated", errResp.Code)
	assert.Zero(t, fake.Calls(api.MethodAddToCart))

	var cart CartDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/cart", nil, &cart))
	assert.Empty(t, cart.Items)
}

func TestLogin(t *testing.T) {
	c := newTestServer(t, backendtest.NewFake(), Options{})

	var errResp ErrorResponse
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/api/v1/session/login", LoginRequestDTO{Credential: "invalid"}, &errResp))
	assert.Equal(t, "login_failed", errResp.Code)

	var s SessionDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/session/login", LoginRequestDTO{Credential: "alice"}, &s))
	assert.True(t, s.Authenticated)
	assert.Equal(t, "alice", s.Principal)
	assert.Equal(t, "client-ready", s.State)
	assert.Equal(t, "success", s.LoginStatus)

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/session", nil, &s))
	assert.Equal(t, "alice", s.Principal)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/session/logout", nil, &s))
	assert.False(t, s.Authenticated)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	fake := backendtest.NewFake(testProducts...)
	c := newTestServer(t, fake, Options{})
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/session/login", LoginRequestDTO{Credential: "alice"}, nil))

	var cart CartDTO
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 1, Quantity: 2}, &cart))
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 2, Quantity: 1}, &cart))
	assert.Equal(t, 3, cart.ItemCount)
	assert.Equal(t, int64(400), cart.Subtotal)

	var errResp ErrorResponse
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPut, "/api/v1/cart/items/2", UpdateQuantityRequestDTO{Quantity: 6}, &errResp))
	assert.Equal(t, "invalid_quantity", errResp.Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPut, "/api/v1/cart/items/3", UpdateQuantityRequestDTO{Quantity: 1}, &errResp))
	assert.Equal(t, "not_in_cart", errResp.Code)
	assert.Zero(t, fake.Calls(api.MethodUpdateCartItem))

	require.Equal(t, http.StatusOK, c.do(http.MethodPut, "/api/v1/cart/items/2", UpdateQuantityRequestDTO{Quantity: 3}, &cart))
	assert.Equal(t, int64(800), cart.Subtotal)

	var summary CheckoutSummaryDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/checkout", nil, &summary))
	assert.Equal(t, int64(800), summary.Cart.Subtotal)
	assert.Len(t, summary.PaymentMethods, 3)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/v1/checkout", storefront.CheckoutRequest{PaymentMethod: "cash"}, &errResp))
	assert.Equal(t, "customer_info_required", errResp.Code)

	customer := storefront.CustomerInfo{Name: "Alice", Phone: "0300", Address: "Lahore"}
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/v1/checkout", storefront.CheckoutRequest{Customer: customer, PaymentMethod: "card"}, &errResp))
	assert.Equal(t, "invalid_payment_method", errResp.Code)

	var placed PlaceOrderResponseDTO
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/checkout", storefront.CheckoutRequest{Customer: customer, PaymentMethod: "easypaisa"}, &placed))

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/cart", nil, &cart))
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Subtotal)

	var receipt ReceiptDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/orders/"+itoa(placed.OrderID)+"/confirmation", nil, &receipt))
	assert.Equal(t, int64(800), receipt.Order.Total)
	assert.True(t, receipt.NeedsPaymentProof)
	assert.Equal(t, "https://wa.me/923281325899", receipt.ContactLink)

	var orders []OrderDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/orders", nil, &orders))
	assert.Len(t, orders, 1)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/v1/orders/999/confirmation", nil, &errResp))
}

func TestAdminProducts(t *testing.T) {
	fake := backendtest.NewFake(testProducts...)
	c := newTestServer(t, fake, Options{})

	var errResp ErrorResponse
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/api/v1/admin/init", nil, &errResp))

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/session/login", LoginRequestDTO{Credential: "admin"}, nil))
	assert.Equal(t, http.StatusNoContent, c.do(http.MethodPost, "/api/v1/admin/init", nil, nil))

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/v1/admin/products", ProductInputDTO{Price: 10, Category: "Bags"}, &errResp))
	assert.Equal(t, "invalid_product", errResp.Code)

	var created IDResponseDTO
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/admin/products", ProductInputDTO{Name: "Tote", Price: 4200, Stock: 12, Category: "Bags"}, &created))

	var products []ProductDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/admin/products", nil, &products))
	assert.Len(t, products, 4)

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/api/v1/admin/products/"+itoa(created.ID), nil, nil))
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/products", nil, &products))
	assert.Len(t, products, 3)

	var samples SamplesResponseDTO
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/admin/products/samples", nil, &samples))
	assert.Equal(t, len(storefront.SampleProducts), samples.Created)
}

func TestAdminOrders(t *testing.T) {
	fake := backendtest.NewFake(testProducts...)
	fake.SetCart("admin", domain.CartLine{ProductID: 1, Quantity: 1})
	c := newTestServer(t, fake, Options{})
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/session/login", LoginRequestDTO{Credential: "admin"}, nil))

	var placed PlaceOrderResponseDTO
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/checkout", storefront.CheckoutRequest{
		Customer:      storefront.CustomerInfo{Name: "A", Phone: "1", Address: "B"},
		PaymentMethod: "cash",
	}, &placed))

	var errResp ErrorResponse
	path := "/api/v1/admin/orders/" + itoa(placed.OrderID)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPut, path+"/status", OrderStatusRequestDTO{Status: "Lost"}, &errResp))
	assert.Equal(t, "invalid_order_status", errResp.Code)
	assert.Equal(t, http.StatusNoContent, c.do(http.MethodPut, path+"/status", OrderStatusRequestDTO{Status: "Shipped"}, nil))

	var orders []OrderDTO
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/admin/orders", nil, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "Shipped", orders[0].Status)

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, path, nil, nil))
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/admin/orders", nil, &orders))
	assert.Empty(t, orders)
}

func TestBackendErrorsAreMapped(t *testing.T) {
	fake := backendtest.NewFake(testProducts...)
	fake.Fail(api.MethodListProducts, errUnavailable)
	c := newTestServer(t, fake, Options{})

	var errResp ErrorResponse
	assert.Equal(t, http.StatusServiceUnavailable, c.do(http.MethodGet, "/api/v1/products", nil, &errResp))
	assert.Equal(t, "service_unavailable", errResp.Code)
}

func TestRateLimit(t *testing.T) {
	c := newTestServer(t, backendtest.NewFake(), Options{Limiter: NewRateLimiter(1, 1)})

	// First request has no cookie yet and spends the address bucket.
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/session", nil, nil))
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/session", nil, nil))
	var errResp ErrorResponse
	assert.Equal(t, http.StatusTooManyRequests, c.do(http.MethodGet, "/api/v1/session", nil, &errResp))
	assert.Equal(t, "rate_limit_exceeded", errResp.Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", nil, nil))
}

func TestRateLimit_RequestsWithoutCookieShareAddressBucket(t *testing.T) {
	fake := backendtest.NewFake(testProducts...)
	c := newTestServer(t, fake, Options{Limiter: NewRateLimiter(1, 1)})
	c.client = &http.Client{}

	limited := 0
	for range 20 {
		if c.do(http.MethodGet, "/api/v1/products", nil, nil) == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.GreaterOrEqual(t, limited, 18)
	assert.LessOrEqual(t, c.reg.Len(), 2)
	assert.LessOrEqual(t, fake.Calls(api.MethodListProducts), 2)
}

func TestRateLimit_ForgedCookieIsKeyedByAddress(t *testing.T) {
	c := newTestServer(t, backendtest.NewFake(testProducts...), Options{Limiter: NewRateLimiter(1, 1)})

	statuses := make([]int, 0, 3)
	for i := range 3 {
		req, err := http.NewRequest(http.MethodGet, c.base+"/api/v1/products", nil)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: fmt.Sprintf("forged-%d", i)})
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		statuses = append(statuses, resp.StatusCode)
	}
	assert.Equal(t, http.StatusOK, statuses[0])
	assert.Equal(t, []int{http.StatusTooManyRequests, http.StatusTooManyRequests}, statuses[1:])
	assert.Equal(t, 1, c.reg.Len())
}

func TestStreamCart(t *testing.T) {
	fake := backendtest.NewFake(testProducts...)
	c := newTestServer(t, fake, Options{})
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/session/login", LoginRequestDTO{Credential: "alice"}, nil))
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/cart", nil, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/v1/cart/stream", nil)
	require.NoError(t, err)
	resp, err := c.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan CartDTO, 4)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			var v CartDTO
			if json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &v) != nil {
				continue
			}
			select {
			case events <- v:
			case <-ctx.Done():
				return
			}
		}
	}()

	select {
	case v := <-events:
		assert.Empty(t, v.Items)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial cart event")
	}

	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 3, Quantity: 2}, nil))

	require.Eventually(t, func() bool {
		select {
		case v := <-events:
			return v.Subtotal == 600
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}
