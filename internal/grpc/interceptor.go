package grpc

import (
	"context"
	"strings"
	"time"

	ggrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
)

// TokenVerifier resolves a bearer token to its principal.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type principalKey struct{}

// Principal returns the caller established by the interceptor.
func Principal(ctx context.Context) string {
	if p, ok := ctx.Value(principalKey{}).(string); ok && p != "" {
		return p
	}
	return domain.AnonymousPrincipal
}

func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// UnaryInterceptor authenticates the caller from the authorization metadata
// and logs every call. Calls without a token run as the anonymous principal;
// calls with an invalid token are rejected.
func UnaryInterceptor(verifier TokenVerifier) ggrpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *ggrpc.UnaryServerInfo, handler ggrpc.UnaryHandler) (any, error) {
		start := time.Now()
		principal := domain.AnonymousPrincipal

		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get("request-id"); len(ids) > 0 {
				ctx = logger.WithRequestID(ctx, ids[0])
			}
			if values := md.Get("authorization"); len(values) > 0 {
				token := strings.TrimSpace(strings.TrimPrefix(values[0], "Bearer "))
				p, err := verifier.Verify(token)
				if err != nil {
					logger.FromContext(ctx).Warn().Err(err).Str("method", info.FullMethod).Msg("rejected token")
					return nil, status.Error(codes.Unauthenticated, "invalid token")
				}
				principal = p
			}
		}
		ctx = WithPrincipal(ctx, principal)

		resp, err := handler(ctx, req)

		code := status.Code(err)
		event := logger.FromContext(ctx).Debug()
		if code == codes.Internal || code == codes.Unknown {
			event = logger.FromContext(ctx).Error().Err(err)
		}
		event.
			Str("method", info.FullMethod).
			Str("principal", principal).
			Str("code", code.String()).
			Dur("duration", time.Since(start)).
			Msg("grpc call")
		return resp, err
	}
}
