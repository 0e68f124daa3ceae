package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no value is stored under a key.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a string key-value surface with optional TTL. It carries the
// session-scoped state the storefront keeps outside the relational model:
// cart snapshots, pending payment drafts, chat transcripts.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
