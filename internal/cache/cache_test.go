package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(v any, calls *int32) func(context.Context) (any, error) {
	return func(context.Context) (any, error) {
		atomic.AddInt32(calls, 1)
		return v, nil
	}
}

func TestNewKey(t *testing.T) {
	assert.Equal(t, "products", NewKey("products").String())
	assert.Equal(t, "product/7", NewKey("product", 7).String())
	assert.Equal(t, "products/search/abaya", NewKey("products", "search", "abaya").String())
	assert.Equal(t, Key{Resource: "order", Params: "3"}, NewKey("order", int64(3)))
}

func TestFetch_ReturnsCachedValue(t *testing.T) {
	c := New(0)
	var calls int32
	key := NewKey("products")

	v, err := c.Fetch(context.Background(), key, constant("list", &calls))
	require.NoError(t, err)
	assert.Equal(t, "list", v)

	v, err = c.Fetch(context.Background(), key, constant("other", &calls))
	require.NoError(t, err)
	assert.Equal(t, "list", v)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	e, ok := c.Peek(key)
	require.True(t, ok)
	assert.False(t, e.Stale)
	assert.Equal(t, uint64(1), e.Revision)
}

func TestFetch_CoalescesConcurrentReads(t *testing.T) {
	c := New(0)
	key := NewKey("products")
	release := make(chan struct{})
	var calls int32

	fn := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []string{"a", "b"}, nil
	}

	const readers = 10
	var wg sync.WaitGroup
	results := make([]any, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Fetch(context.Background(), key, fn)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	require.Eventually(t, func() bool { return c.Loading(key) }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, []string{"a", "b"}, r)
	}
	assert.False(t, c.Loading(key))
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	c := New(0)
	key := NewKey("cart")
	boom := errors.New("backend down")

	_, err := c.Fetch(context.Background(), key, func(context.Context) (any, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	_, ok := c.Peek(key)
	assert.False(t, ok)

	var calls int32
	v, err := c.Fetch(context.Background(), key, constant("cart", &calls))
	require.NoError(t, err)
	assert.Equal(t, "cart", v)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_CallerCancellationDoesNotAbortSharedFetch(t *testing.T) {
	c := New(0)
	key := NewKey("products")
	release := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Fetch(ctx, key, func(fctx context.Context) (any, error) {
			<-release
			return "list", fctx.Err()
		})
		done <- err
	}()

	require.Eventually(t, func() bool { return c.Loading(key) }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(release)
	require.Eventually(t, func() bool {
		e, ok := c.Peek(key)
		return ok && e.Value == "list"
	}, time.Second, time.Millisecond)
}

func TestInvalidate_RefetchesOnNextRead(t *testing.T) {
	c := New(0)
	key := NewKey("cart")
	var calls int32

	_, err := c.Fetch(context.Background(), key, constant("v1", &calls))
	require.NoError(t, err)

	assert.Equal(t, 1, c.Invalidate("cart"))

	e, ok := c.Peek(key)
	require.True(t, ok)
	assert.True(t, e.Stale)
	assert.Equal(t, "v1", e.Value)

	v, err := c.Fetch(context.Background(), key, constant("v2", &calls))
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	e, _ = c.Peek(key)
	assert.False(t, e.Stale)
	assert.Equal(t, uint64(2), e.Revision)
}

func TestInvalidate_LeavesOtherResources(t *testing.T) {
	c := New(0)
	var calls int32
	ctx := context.Background()

	for _, k := range []Key{NewKey("cart"), NewKey("products"), NewKey("product", 1), NewKey("orders")} {
		_, err := c.Fetch(ctx, k, constant(k.String(), &calls))
		require.NoError(t, err)
	}

	assert.Equal(t, 1, c.Invalidate("products"))

	for _, k := range []Key{NewKey("cart"), NewKey("product", 1), NewKey("orders")} {
		e, ok := c.Peek(k)
		require.True(t, ok)
		assert.False(t, e.Stale, k.String())
	}
	e, _ := c.Peek(NewKey("products"))
	assert.True(t, e.Stale)

	assert.Equal(t, 0, c.Invalidate())
	assert.Equal(t, 0, c.Invalidate("unknown"))
}

func TestInvalidate_SupersedesInflightFetch(t *testing.T) {
	c := New(0)
	key := NewKey("cart")
	release := make(chan struct{})

	oldResult := make(chan any, 1)
	go func() {
		v, err := c.Fetch(context.Background(), key, func(context.Context) (any, error) {
			<-release
			return "before", nil
		})
		assert.NoError(t, err)
		oldResult <- v
	}()

	require.Eventually(t, func() bool { return c.Loading(key) }, time.Second, time.Millisecond)
	assert.Equal(t, 1, c.Invalidate("cart"))

	var calls int32
	v, err := c.Fetch(context.Background(), key, constant("after", &calls))
	require.NoError(t, err)
	assert.Equal(t, "after", v)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	close(release)
	assert.Equal(t, "before", <-oldResult)

	e, ok := c.Peek(key)
	require.True(t, ok)
	assert.Equal(t, "after", e.Value)
	assert.False(t, e.Stale)
}

func TestClear_DropsEntriesAndInflightResults(t *testing.T) {
	c := New(0)
	var calls int32
	ctx := context.Background()

	_, err := c.Fetch(ctx, NewKey("products"), constant("list", &calls))
	require.NoError(t, err)

	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Fetch(ctx, NewKey("cart"), func(context.Context) (any, error) {
			<-release
			return "previous user's cart", nil
		})
	}()
	require.Eventually(t, func() bool { return c.Loading(NewKey("cart")) }, time.Second, time.Millisecond)

	c.Clear()
	assert.Equal(t, 0, c.Len())

	close(release)
	<-done

	_, ok := c.Peek(NewKey("cart"))
	assert.False(t, ok)
	_, ok = c.Peek(NewKey("products"))
	assert.False(t, ok)
}

func TestFetchAt_OlderEpochIsNotStoredOrServed(t *testing.T) {
	c := New(0)
	var calls int32
	ctx := context.Background()

	before := c.Epoch()
	c.Clear()
	require.NotEqual(t, before, c.Epoch())

	_, err := c.Fetch(ctx, NewKey("cart"), constant("bob's cart", &calls))
	require.NoError(t, err)

	v, err := c.FetchAt(ctx, before, NewKey("cart"), func(context.Context) (any, error) {
		return "alice's cart", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "alice's cart", v)

	e, ok := c.Peek(NewKey("cart"))
	require.True(t, ok)
	assert.Equal(t, "bob's cart", e.Value)

	_, err = c.FetchAt(ctx, before, NewKey("orders"), constant("alice's orders", &calls))
	require.NoError(t, err)
	_, ok = c.Peek(NewKey("orders"))
	assert.False(t, ok)
}

func TestFetch_StaleAfterStaleTime(t *testing.T) {
	c := New(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	key := NewKey("products")
	var calls int32

	_, err := c.Fetch(context.Background(), key, constant("v1", &calls))
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	_, err = c.Fetch(context.Background(), key, constant("v2", &calls))
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	now = now.Add(31 * time.Second)
	e, _ := c.Peek(key)
	assert.True(t, e.Stale)

	v, err := c.Fetch(context.Background(), key, constant("v2", &calls))
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSubscribe(t *testing.T) {
	c := New(0)
	events, cancel := c.Subscribe("cart")
	defer cancel()

	var calls int32
	ctx := context.Background()
	_, _ = c.Fetch(ctx, NewKey("products"), constant("p", &calls))
	_, _ = c.Fetch(ctx, NewKey("cart"), constant("c", &calls))
	c.Invalidate("cart", "products")
	c.Clear()

	expect := []Event{
		{Kind: EventUpdated, Key: NewKey("cart")},
		{Kind: EventInvalidated, Key: NewKey("cart")},
		{Kind: EventCleared},
	}
	for _, want := range expect {
		select {
		case got := <-events:
			assert.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s event", want.Kind)
		}
	}

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %v", ev)
	default:
	}
}

func TestSubscribe_CancelClosesChannel(t *testing.T) {
	c := New(0)
	events, cancel := c.Subscribe()
	cancel()
	cancel()

	_, ok := <-events
	assert.False(t, ok)

	c.Clear()
}
