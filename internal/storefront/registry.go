package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/fjod/go_cart/storefront/internal/sessionstore"
)

// Registry maps browser session ids to their App. The identity of each
// session is persisted in the store, so a session evicted from memory or
// opened on another instance is rebuilt by logging in again with the stored
// token. Cached data is never shared between sessions.
type Registry struct {
	deps  Deps
	store sessionstore.Store

	mu       sync.Mutex
	apps     map[string]*App
	lastSeen map[string]time.Time

	newID func() string
	now   func() time.Time
}

func NewRegistry(deps Deps, store sessionstore.Store) *Registry {
	return &Registry{
		deps:     deps,
		store:    store,
		apps:     make(map[string]*App),
		lastSeen: make(map[string]time.Time),
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Open returns the App of session id. Unknown ids get a fresh session with a
// new id; callers must hand the returned App.ID back to the browser. Store
// round trips and identity rebuilds run outside the registry lock.
func (r *Registry) Open(ctx context.Context, id string) (*App, error) {
	if id != "" {
		if app, ok := r.lookup(id); ok {
			return app, nil
		}

		rec, err := r.store.Get(ctx, id)
		switch {
		case err == nil:
			return r.add(r.restore(ctx, rec)), nil
		case !errors.Is(err, sessionstore.ErrNotFound):
			return nil, err
		}
	}

	app := NewApp(r.newID(), r.deps)
	rec := &sessionstore.Record{ID: app.ID, CreatedAt: r.now()}
	if err := r.store.Set(ctx, rec); err != nil {
		return nil, err
	}
	return r.add(app), nil
}

// Has reports whether session id is held in memory.
func (r *Registry) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.apps[id]
	return ok
}

func (r *Registry) lookup(id string) (*App, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if ok {
		r.lastSeen[id] = r.now()
	}
	return app, ok
}

func (r *Registry) restore(ctx context.Context, rec *sessionstore.Record) *App {
	app := NewApp(rec.ID, r.deps)
	if rec.Token != "" {
		if err := app.Session.Login(ctx, rec.Token); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("session_id", rec.ID).Msg("stored identity rejected, continuing anonymously")
			rec.Principal, rec.Token = "", ""
			if err := r.store.Set(ctx, rec); err != nil {
				logger.FromContext(ctx).Error().Err(err).Str("session_id", rec.ID).Msg("failed to reset session record")
			}
		}
	}
	return app
}

// add registers app unless a concurrent Open of the same id got there first,
// in which case the registered App wins.
func (r *Registry) add(app *App) *App {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.apps[app.ID]; ok {
		r.lastSeen[app.ID] = r.now()
		return existing
	}
	r.apps[app.ID] = app
	r.lastSeen[app.ID] = r.now()
	metrics.SessionsActive(len(r.apps))
	return app
}

// Login switches the session to the identity behind credential and records
// it for later rebuilds. If the record cannot be written the session is
// logged out again, so memory and store never disagree on who is logged in.
func (r *Registry) Login(ctx context.Context, app *App, credential string) error {
	if err := app.Session.Login(ctx, credential); err != nil {
		return err
	}
	id := app.Session.Identity()
	err := r.store.Set(ctx, &sessionstore.Record{
		ID:        app.ID,
		Principal: id.Principal,
		Token:     id.Token,
		CreatedAt: r.now(),
	})
	if err != nil {
		if lerr := app.Session.Logout(ctx); lerr != nil {
			logger.FromContext(ctx).Error().Err(lerr).Str("session_id", app.ID).Msg("failed to roll back login")
		}
		return fmt.Errorf("%w: %v", ErrSessionStore, err)
	}
	return nil
}

func (r *Registry) Logout(ctx context.Context, app *App) error {
	if err := app.Session.Logout(ctx); err != nil {
		return err
	}
	if err := r.store.Set(ctx, &sessionstore.Record{ID: app.ID, CreatedAt: r.now()}); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionStore, err)
	}
	return nil
}

// Close forgets the session entirely.
func (r *Registry) Close(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.apps, id)
	delete(r.lastSeen, id)
	metrics.SessionsActive(len(r.apps))
	r.mu.Unlock()
	return r.store.Delete(ctx, id)
}

// Sweep drops sessions idle for longer than idle from memory. Their records
// stay in the store.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-idle)
	n := 0
	for id, seen := range r.lastSeen {
		if seen.Before(cutoff) {
			delete(r.apps, id)
			delete(r.lastSeen, id)
			n++
		}
	}
	metrics.SessionsActive(len(r.apps))
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.apps)
}
