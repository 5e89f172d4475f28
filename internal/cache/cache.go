package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fjod/go_cart/storefront/internal/metrics"
)

// Key identifies a cacheable query result: a logical resource name plus the
// parameters selecting a slice of it.
type Key struct {
	Resource string
	Params   string
}

func NewKey(resource string, params ...any) Key {
	if len(params) == 0 {
		return Key{Resource: resource}
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprint(p)
	}
	return Key{Resource: resource, Params: strings.Join(parts, "/")}
}

func (k Key) String() string {
	if k.Params == "" {
		return k.Resource
	}
	return k.Resource + "/" + k.Params
}

// Entry is a read-only view of a cached value.
type Entry struct {
	Value     any
	Revision  uint64
	FetchedAt time.Time
	Stale     bool
}

type EventKind int

const (
	EventUpdated EventKind = iota + 1
	EventInvalidated
	EventCleared
)

func (k EventKind) String() string {
	switch k {
	case EventUpdated:
		return "updated"
	case EventInvalidated:
		return "invalidated"
	case EventCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Event tells subscribers that data behind Key changed. Cleared events carry
// the zero Key.
type Event struct {
	Kind EventKind
	Key  Key
}

type entry struct {
	value     any
	rev       uint64
	fetchedAt time.Time
	stale     bool
}

type subscriber struct {
	resources map[string]struct{}
	ch        chan Event
}

func (s *subscriber) wants(resource string) bool {
	if len(s.resources) == 0 || resource == "" {
		return true
	}
	_, ok := s.resources[resource]
	return ok
}

// Cache holds query results for one session. Reads of the same key are
// coalesced into a single fetch. Invalidation bumps the key generation so a
// fetch started before the invalidation never lands as fresh data, and Clear
// bumps the epoch so fetches started under a previous session are discarded.
type Cache struct {
	mu        sync.Mutex
	entries   map[Key]*entry
	gens      map[Key]uint64
	inflight  map[Key]int
	epoch     uint64
	rev       uint64
	staleTime time.Duration
	now       func() time.Time

	group singleflight.Group

	subs    map[uint64]*subscriber
	nextSub uint64
}

// New creates an empty cache. Entries older than staleTime are refetched on
// the next read; a zero staleTime keeps entries fresh until invalidated.
func New(staleTime time.Duration) *Cache {
	return &Cache{
		entries:   make(map[Key]*entry),
		gens:      make(map[Key]uint64),
		inflight:  make(map[Key]int),
		staleTime: staleTime,
		now:       time.Now,
		subs:      make(map[uint64]*subscriber),
	}
}

func (c *Cache) isStaleLocked(e *entry) bool {
	if e.stale {
		return true
	}
	return c.staleTime > 0 && c.now().Sub(e.fetchedAt) >= c.staleTime
}

func (c *Cache) freshLocked(key Key) (any, bool) {
	e, ok := c.entries[key]
	if !ok || c.isStaleLocked(e) {
		return nil, false
	}
	return e.value, true
}

// Epoch identifies the current session generation of the cache. It changes
// on every Clear.
func (c *Cache) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// Fetch returns the fresh cached value for key or runs fn to load it.
// Concurrent callers for the same key share one fn call. fn runs detached
// from the caller's cancellation; a caller whose ctx ends stops waiting but
// the shared fetch completes for the others. Errors are not cached.
func (c *Cache) Fetch(ctx context.Context, key Key, fn func(context.Context) (any, error)) (any, error) {
	return c.FetchAt(ctx, c.Epoch(), key, fn)
}

// FetchAt is Fetch for a caller that picked its backend handle under epoch.
// If the cache was cleared since, the caller neither sees entries of the new
// epoch nor stores its result.
func (c *Cache) FetchAt(ctx context.Context, epoch uint64, key Key, fn func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if c.epoch == epoch {
		if v, ok := c.freshLocked(key); ok {
			c.mu.Unlock()
			metrics.CacheHit(key.Resource)
			return v, nil
		}
	}
	gen := c.gens[key]
	c.mu.Unlock()
	metrics.CacheMiss(key.Resource)

	flight := fmt.Sprintf("%d:%d:%s", epoch, gen, key)
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flight, func() (any, error) {
		c.mu.Lock()
		if c.epoch == epoch && c.gens[key] == gen {
			if v, ok := c.freshLocked(key); ok {
				c.mu.Unlock()
				return v, nil
			}
		}
		c.inflight[key]++
		c.mu.Unlock()

		defer c.finish(key)

		v, err := fn(detached)
		if err != nil {
			return nil, err
		}
		c.store(key, epoch, gen, v)
		return v, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) finish(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight[key]--
	if c.inflight[key] <= 0 {
		delete(c.inflight, key)
	}
}

// store keeps v only if neither an invalidation of key nor a Clear happened
// since the fetch started.
func (c *Cache) store(key Key, epoch, gen uint64, v any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch || c.gens[key] != gen {
		return false
	}
	c.rev++
	c.entries[key] = &entry{
		value:     v,
		rev:       c.rev,
		fetchedAt: c.now(),
	}
	c.publishLocked(Event{Kind: EventUpdated, Key: key})
	return true
}

// Invalidate marks every entry whose resource is listed as stale and
// supersedes fetches of those resources that are still in flight. It returns
// the number of keys affected.
func (c *Cache) Invalidate(resources ...string) int {
	if len(resources) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(resources))
	for _, r := range resources {
		set[r] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	affected := make(map[Key]struct{})
	for k, e := range c.entries {
		if _, ok := set[k.Resource]; ok {
			e.stale = true
			affected[k] = struct{}{}
		}
	}
	for k := range c.inflight {
		if _, ok := set[k.Resource]; ok {
			affected[k] = struct{}{}
		}
	}

	perResource := make(map[string]int)
	for k := range affected {
		c.gens[k]++
		perResource[k.Resource]++
		c.publishLocked(Event{Kind: EventInvalidated, Key: k})
	}
	for r, n := range perResource {
		metrics.CacheInvalidated(r, n)
	}
	return len(affected)
}

// Clear drops every entry. Fetches already in flight will not repopulate the
// cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*entry)
	c.gens = make(map[Key]uint64)
	c.epoch++
	c.publishLocked(Event{Kind: EventCleared})
}

func (c *Cache) Peek(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	return Entry{
		Value:     e.value,
		Revision:  e.rev,
		FetchedAt: e.fetchedAt,
		Stale:     c.isStaleLocked(e),
	}, true
}

// Loading reports whether a fetch for key is in flight.
func (c *Cache) Loading(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[key] > 0
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Subscribe delivers change events for the given resources (all resources when
// none are given). Cleared events reach every subscriber. A slow subscriber
// misses events rather than blocking the cache; it should re-read state on
// whatever event it receives next. The returned func unsubscribes and closes
// the channel.
func (c *Cache) Subscribe(resources ...string) (<-chan Event, func()) {
	sub := &subscriber{
		resources: make(map[string]struct{}, len(resources)),
		ch:        make(chan Event, 16),
	}
	for _, r := range resources {
		sub.resources[r] = struct{}{}
	}

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = sub
	c.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

func (c *Cache) publishLocked(ev Event) {
	for _, sub := range c.subs {
		if !sub.wants(ev.Key.Resource) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}
