package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/query"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/internal/storefront"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respondJSON(w, r, status, ErrorResponse{Error: message, Code: code})
}

// localErrors are raised by this process rather than the backend.
var localErrors = []struct {
	err    error
	status int
	code   string
}{
	{query.ErrNotAuthenticated, http.StatusUnauthorized, "unauthenticated"},
	{session.ErrTransitionInProgress, http.StatusConflict, "transition_in_progress"},
	{storefront.ErrProductNotFound, http.StatusNotFound, "not_found"},
	{storefront.ErrOrderNotFound, http.StatusNotFound, "not_found"},
	{storefront.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{storefront.ErrNotInCart, http.StatusBadRequest, "not_in_cart"},
	{storefront.ErrEmptyCart, http.StatusBadRequest, "empty_cart"},
	{storefront.ErrCustomerInfoRequired, http.StatusBadRequest, "customer_info_required"},
	{storefront.ErrInvalidPaymentMethod, http.StatusBadRequest, "invalid_payment_method"},
	{storefront.ErrInvalidOrderStatus, http.StatusBadRequest, "invalid_order_status"},
	{storefront.ErrSessionStore, http.StatusServiceUnavailable, "session_unavailable"},
	{domain.ErrProductNameRequired, http.StatusBadRequest, "invalid_product"},
	{domain.ErrProductCategoryRequired, http.StatusBadRequest, "invalid_product"},
	{domain.ErrNegativePrice, http.StatusBadRequest, "invalid_product"},
	{domain.ErrNegativeStock, http.StatusBadRequest, "invalid_product"},
}

// handleError writes err as a JSON error. Controller errors come first, then
// remote errors are mapped from their gRPC status.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	for _, le := range localErrors {
		if errors.Is(err, le.err) {
			respondError(w, r, le.status, le.code, err.Error())
			return
		}
	}

	st, ok := status.FromError(err)
	if !ok {
		logger.FromContext(r.Context()).Error().Err(err).Msg("request failed")
		respondError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	var httpStatus int
	var code string

	switch st.Code() {
	case codes.InvalidArgument:
		httpStatus = http.StatusBadRequest
		code = "invalid_argument"
	case codes.NotFound:
		httpStatus = http.StatusNotFound
		code = "not_found"
	case codes.AlreadyExists:
		httpStatus = http.StatusConflict
		code = "already_exists"
	case codes.FailedPrecondition:
		httpStatus = http.StatusConflict
		code = "failed_precondition"
	case codes.Unauthenticated:
		httpStatus = http.StatusUnauthorized
		code = "unauthenticated"
	case codes.PermissionDenied:
		httpStatus = http.StatusForbidden
		code = "permission_denied"
	case codes.ResourceExhausted:
		httpStatus = http.StatusTooManyRequests
		code = "rate_limit_exceeded"
	case codes.Unavailable:
		httpStatus = http.StatusServiceUnavailable
		code = "service_unavailable"
	case codes.DeadlineExceeded:
		httpStatus = http.StatusGatewayTimeout
		code = "timeout"
	default:
		logger.FromContext(r.Context()).Error().Err(err).Msg("backend call failed")
		httpStatus = http.StatusInternalServerError
		code = "internal_error"
	}

	respondError(w, r, httpStatus, code, st.Message())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}
