package session

import (
	"context"
	"errors"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/auth"
	"github.com/fjod/go_cart/storefront/internal/domain"
)

var ErrEmptyCredential = errors.New("credential is empty")

// IdentityProvider turns a credential presented by the user into an identity
// the backend accepts.
type IdentityProvider interface {
	Login(ctx context.Context, credential string) (domain.Identity, error)
	Logout(ctx context.Context, id domain.Identity) error
}

// JWTProvider accepts signed tokens issued by the storefront authority. The
// token itself is forwarded to the backend as the bearer credential.
type JWTProvider struct {
	authority *auth.Authority
}

func NewJWTProvider(authority *auth.Authority) *JWTProvider {
	return &JWTProvider{authority: authority}
}

func (p *JWTProvider) Login(_ context.Context, credential string) (domain.Identity, error) {
	credential = strings.TrimSpace(strings.TrimPrefix(credential, "Bearer "))
	if credential == "" {
		return domain.Identity{}, ErrEmptyCredential
	}
	principal, err := p.authority.Verify(credential)
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{Principal: principal, Token: credential}, nil
}

// Logout is a no-op: tokens are stateless and simply stop being presented.
func (p *JWTProvider) Logout(context.Context, domain.Identity) error {
	return nil
}
