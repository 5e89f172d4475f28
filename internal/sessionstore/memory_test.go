package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := store.Get(ctx, "sess")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, &Record{ID: "sess", Principal: "alice"}))
	got, err := store.Get(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Principal)

	got.Principal = "mallory"
	again, err := store.Get(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Principal)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "sess")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, &Record{ID: "sess"}))
	require.NoError(t, store.Delete(ctx, "sess"))
	_, err = store.Get(ctx, "sess")
	assert.ErrorIs(t, err, ErrNotFound)
}
