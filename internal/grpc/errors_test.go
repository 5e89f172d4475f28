package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
)

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{nil, codes.OK},
		{repository.ErrNotFound, codes.NotFound},
		{fmt.Errorf("wrapped: %w", repository.ErrNotFound), codes.NotFound},
		{repository.ErrInvalidQuantity, codes.InvalidArgument},
		{domain.ErrNegativeStock, codes.InvalidArgument},
		{repository.ErrInsufficientStock, codes.FailedPrecondition},
		{repository.ErrEmptyCart, codes.FailedPrecondition},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{context.Canceled, codes.Canceled},
		{errors.New("disk full"), codes.Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, status.Code(toStatus(tt.err)), fmt.Sprint(tt.err))
	}
}

func TestPrincipal(t *testing.T) {
	assert.Equal(t, domain.AnonymousPrincipal, Principal(context.Background()))
	assert.Equal(t, "alice", Principal(WithPrincipal(context.Background(), "alice")))
}
