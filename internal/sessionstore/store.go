package sessionstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Record is what survives a restart of the storefront: enough to re-establish
// the identity of a browser session. Cached query data is never persisted.
type Record struct {
	ID        string    `json:"id"`
	Principal string    `json:"principal"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	Get(ctx context.Context, id string) (*Record, error)
	Set(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id string) error
}
