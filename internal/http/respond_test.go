package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/query"
	"github.com/fjod/go_cart/storefront/internal/storefront"
)

var errUnavailable = status.Error(codes.Unavailable, "backend unavailable")

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
		wantBody string
	}{
		{query.ErrNotAuthenticated, http.StatusUnauthorized, "unauthenticated"},
		{fmt.Errorf("wrapped: %w", storefront.ErrInvalidQuantity), http.StatusBadRequest, "invalid_quantity"},
		{storefront.ErrProductNotFound, http.StatusNotFound, "not_found"},
		{fmt.Errorf("%w: redis down", storefront.ErrSessionStore), http.StatusServiceUnavailable, "session_unavailable"},
		{status.Error(codes.InvalidArgument, "bad"), http.StatusBadRequest, "invalid_argument"},
		{status.Error(codes.NotFound, "gone"), http.StatusNotFound, "not_found"},
		{status.Error(codes.FailedPrecondition, "stock"), http.StatusConflict, "failed_precondition"},
		{status.Error(codes.Unauthenticated, "who"), http.StatusUnauthorized, "unauthenticated"},
		{status.Error(codes.PermissionDenied, "no"), http.StatusForbidden, "permission_denied"},
		{errUnavailable, http.StatusServiceUnavailable, "service_unavailable"},
		{status.Error(codes.DeadlineExceeded, "slow"), http.StatusGatewayTimeout, "timeout"},
		{status.Error(codes.Internal, "boom"), http.StatusInternalServerError, "internal_error"},
		{fmt.Errorf("plain"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantBody, resp.Code)
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-42", seen)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(10, 10)
	rl.getLimiter("a")
	rl.getLimiter("b")

	assert.Equal(t, 0, rl.Cleanup(time.Hour))
	assert.Equal(t, 2, rl.Cleanup(-1))
}
