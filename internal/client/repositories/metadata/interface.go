// Package metadata persists the client's small key/value state (the
// session identity and credential) in the local SQLite database.
package metadata

import (
	"context"
)

// Repository is a key/value store. Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error

	// Update runs fn against a repository whose writes either all land or
	// none do.
	Update(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}
