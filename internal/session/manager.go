package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/backend"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
)

var ErrTransitionInProgress = errors.New("session transition in progress")

type LoginStatus string

const (
	StatusIdle       LoginStatus = "idle"
	StatusInProgress LoginStatus = "in-progress"
	StatusSuccess    LoginStatus = "success"
	StatusError      LoginStatus = "error"
)

type State string

const (
	StateNoClient      State = "no-client"
	StateTransitioning State = "transitioning"
	StateClientReady   State = "client-ready"
)

// ClientFactory builds a backend handle bound to an identity.
type ClientFactory interface {
	ClientFor(id domain.Identity) backend.Service
}

// Cache is the part of the query cache the manager needs: everything cached
// under one identity is dropped when the identity changes.
type Cache interface {
	Clear()
}

// Manager owns the backend handle of one browser session and moves it through
// no-client, transitioning and client-ready as the user logs in and out.
type Manager struct {
	provider       IdentityProvider
	factory        ClientFactory
	cache          Cache
	allowAnonymous bool

	mu       sync.RWMutex
	state    State
	status   LoginStatus
	identity domain.Identity
	client   backend.Service
	lastErr  error
}

// NewManager starts in client-ready with the anonymous identity when
// anonymous browsing is allowed and in no-client otherwise.
func NewManager(provider IdentityProvider, factory ClientFactory, cache Cache, allowAnonymous bool) *Manager {
	m := &Manager{
		provider:       provider,
		factory:        factory,
		cache:          cache,
		allowAnonymous: allowAnonymous,
		status:         StatusIdle,
	}
	m.resetLocked()
	return m
}

func (m *Manager) resetLocked() {
	m.identity = domain.Identity{}
	m.client = nil
	m.state = StateNoClient
	if m.allowAnonymous {
		m.identity = domain.Anonymous
		m.client = m.factory.ClientFor(domain.Anonymous)
		m.state = StateClientReady
	}
}

// Client returns the current handle. ok is false unless the manager is
// client-ready.
func (m *Manager) Client() (backend.Service, domain.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != StateClientReady {
		return nil, domain.Identity{}, false
	}
	return m.client, m.identity, true
}

func (m *Manager) Identity() domain.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity
}

// Authenticated reports whether a non-anonymous identity is ready.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateClientReady && !m.identity.IsAnonymous()
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) Status() LoginStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Err returns the error of the last failed login.
func (m *Manager) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

func (m *Manager) begin(login bool) (prevState State, prevIdentity domain.Identity, prevClient backend.Service, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateTransitioning {
		return "", domain.Identity{}, nil, ErrTransitionInProgress
	}
	prevState, prevIdentity, prevClient = m.state, m.identity, m.client
	m.state = StateTransitioning
	if login {
		m.status = StatusInProgress
		m.lastErr = nil
	}
	return prevState, prevIdentity, prevClient, nil
}

// Login exchanges credential for an identity. On success the cache is
// cleared and a handle for the new identity becomes current. On failure the
// previous handle is restored and the status becomes error.
func (m *Manager) Login(ctx context.Context, credential string) error {
	prevState, prevIdentity, prevClient, err := m.begin(true)
	if err != nil {
		return err
	}

	id, err := m.provider.Login(ctx, credential)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.state, m.identity, m.client = prevState, prevIdentity, prevClient
		m.status = StatusError
		m.lastErr = err
		logger.FromContext(ctx).Warn().Err(err).Msg("login failed")
		return fmt.Errorf("login: %w", err)
	}

	m.cache.Clear()
	m.identity = id
	m.client = m.factory.ClientFor(id)
	m.state = StateClientReady
	m.status = StatusSuccess
	logger.FromContext(ctx).Info().Str("principal", id.Principal).Msg("logged in")
	return nil
}

// Logout drops the current identity and everything cached for it. The
// provider's logout error is logged; the local session is reset regardless.
func (m *Manager) Logout(ctx context.Context) error {
	_, prevIdentity, _, err := m.begin(false)
	if err != nil {
		return err
	}

	if !prevIdentity.IsAnonymous() {
		if err := m.provider.Logout(ctx, prevIdentity); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("principal", prevIdentity.Principal).Msg("identity provider logout failed")
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Clear()
	m.resetLocked()
	m.status = StatusIdle
	m.lastErr = nil
	logger.FromContext(ctx).Info().Str("principal", prevIdentity.Principal).Msg("logged out")
	return nil
}
