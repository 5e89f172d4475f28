package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/go_cart/storefront/internal/auth"
	"github.com/fjod/go_cart/storefront/internal/backend"
	"github.com/fjod/go_cart/storefront/internal/cache"
	"github.com/fjod/go_cart/storefront/internal/domain"
)

type stubService struct {
	backend.Service
	identity domain.Identity
}

type stubFactory struct {
	m     sync.RWMutex
	built []domain.Identity
}

func (f *stubFactory) ClientFor(id domain.Identity) backend.Service {
	f.m.Lock()
	defer f.m.Unlock()
	f.built = append(f.built, id)
	return &stubService{identity: id}
}

type blockingProvider struct {
	release chan struct{}
	err     error
}

func (p *blockingProvider) Login(ctx context.Context, credential string) (domain.Identity, error) {
	if p.release != nil {
		<-p.release
	}
	if p.err != nil {
		return domain.Identity{}, p.err
	}
	return domain.Identity{Principal: credential, Token: "token-" + credential}, nil
}

func (p *blockingProvider) Logout(context.Context, domain.Identity) error {
	return errors.New("provider unreachable")
}

func TestNewManager_AnonymousBrowsing(t *testing.T) {
	m := NewManager(&blockingProvider{}, &stubFactory{}, cache.New(0), true)

	client, id, ok := m.Client()
	require.True(t, ok)
	assert.NotNil(t, client)
	assert.True(t, id.IsAnonymous())
	assert.Equal(t, StateClientReady, m.State())
	assert.Equal(t, StatusIdle, m.Status())
	assert.False(t, m.Authenticated())
}

func TestNewManager_NoClientWithoutAnonymous(t *testing.T) {
	m := NewManager(&blockingProvider{}, &stubFactory{}, cache.New(0), false)

	_, _, ok := m.Client()
	assert.False(t, ok)
	assert.Equal(t, StateNoClient, m.State())
}

func TestLogin_ClearsCacheAndSwitchesIdentity(t *testing.T) {
	c := cache.New(0)
	_, err := c.Fetch(context.Background(), cache.NewKey("cart"), func(context.Context) (any, error) {
		return "anonymous cart", nil
	})
	require.NoError(t, err)

	factory := &stubFactory{}
	m := NewManager(&blockingProvider{}, factory, c, true)

	require.NoError(t, m.Login(context.Background(), "alice"))

	assert.Equal(t, 0, c.Len())
	client, id, ok := m.Client()
	require.True(t, ok)
	assert.Equal(t, "alice", id.Principal)
	assert.Equal(t, "alice", client.(*stubService).identity.Principal)
	assert.Equal(t, StatusSuccess, m.Status())
	assert.True(t, m.Authenticated())
}

func TestLogin_FailureRestoresPreviousState(t *testing.T) {
	c := cache.New(0)
	_, err := c.Fetch(context.Background(), cache.NewKey("products"), func(context.Context) (any, error) {
		return "list", nil
	})
	require.NoError(t, err)

	boom := errors.New("bad credential")
	m := NewManager(&blockingProvider{err: boom}, &stubFactory{}, c, true)

	err = m.Login(context.Background(), "mallory")
	require.ErrorIs(t, err, boom)

	assert.Equal(t, StatusError, m.Status())
	assert.ErrorIs(t, m.Err(), boom)
	_, id, ok := m.Client()
	require.True(t, ok)
	assert.True(t, id.IsAnonymous())
	assert.Equal(t, 1, c.Len())
}

func TestLogin_RejectsConcurrentTransition(t *testing.T) {
	provider := &blockingProvider{release: make(chan struct{})}
	m := NewManager(provider, &stubFactory{}, cache.New(0), true)

	done := make(chan error, 1)
	go func() { done <- m.Login(context.Background(), "alice") }()

	require.Eventually(t, func() bool { return m.State() == StateTransitioning }, time.Second, time.Millisecond)
	assert.Equal(t, StatusInProgress, m.Status())

	_, _, ok := m.Client()
	assert.False(t, ok, "no client while transitioning")

	assert.ErrorIs(t, m.Login(context.Background(), "bob"), ErrTransitionInProgress)
	assert.ErrorIs(t, m.Logout(context.Background()), ErrTransitionInProgress)

	close(provider.release)
	require.NoError(t, <-done)
	assert.Equal(t, "alice", m.Identity().Principal)
}

func TestLogout_ReturnsToAnonymous(t *testing.T) {
	c := cache.New(0)
	m := NewManager(&blockingProvider{}, &stubFactory{}, c, true)
	require.NoError(t, m.Login(context.Background(), "alice"))

	_, err := c.Fetch(context.Background(), cache.NewKey("cart"), func(context.Context) (any, error) {
		return "alice cart", nil
	})
	require.NoError(t, err)

	require.NoError(t, m.Logout(context.Background()))

	assert.Equal(t, 0, c.Len())
	_, id, ok := m.Client()
	require.True(t, ok)
	assert.True(t, id.IsAnonymous())
	assert.Equal(t, StatusIdle, m.Status())
}

func TestLogout_NoClientWithoutAnonymous(t *testing.T) {
	m := NewManager(&blockingProvider{}, &stubFactory{}, cache.New(0), false)
	require.NoError(t, m.Login(context.Background(), "alice"))
	require.NoError(t, m.Logout(context.Background()))

	_, _, ok := m.Client()
	assert.False(t, ok)
	assert.Equal(t, StateNoClient, m.State())
}

func TestJWTProvider(t *testing.T) {
	authority := auth.NewAuthority("test-secret")
	token, err := authority.Issue("alice", time.Hour)
	require.NoError(t, err)

	p := NewJWTProvider(authority)

	id, err := p.Login(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{Principal: "alice", Token: token}, id)

	_, err = p.Login(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyCredential)

	_, err = p.Login(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	assert.NoError(t, p.Logout(context.Background(), id))
}
