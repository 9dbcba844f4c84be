// Package resources keeps the per-screen lists (posts, users) together
// with their error and loading state, and runs the edits that change them.
package resources

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/postdesk/internal/client/client"
	"github.com/dmitrijs2005/postdesk/internal/logging"
)

// Fetcher loads a full list from the API.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Manager is the list/error/loading triple of one resource. A fetch in
// flight keeps the previous items visible until it resolves.
type Manager[T any] struct {
	fetch    Fetcher[T]
	fallback string
	logger   logging.Logger

	mu      sync.RWMutex
	items   []T
	errMsg  string
	loading bool
}

func NewManager[T any](fetch Fetcher[T], fallback string, logger logging.Logger) *Manager[T] {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Manager[T]{fetch: fetch, fallback: fallback, logger: logger, items: []T{}}
}

// List refetches. On failure the items are emptied and the message kept.
func (m *Manager[T]) List(ctx context.Context) error {
	m.mu.Lock()
	m.loading = true
	m.errMsg = ""
	m.mu.Unlock()

	items, err := m.fetch(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if err != nil {
		m.logger.Warn(ctx, "list failed", "error", err)
		m.items = []T{}
		m.errMsg = client.Message(err, m.fallback)
		return err
	}
	if items == nil {
		items = []T{}
	}
	m.items = items
	return nil
}

// Mutate runs op and refetches when it succeeds. When it fails the message
// is kept and the items stay as they were.
func (m *Manager[T]) Mutate(ctx context.Context, fallback string, op func(ctx context.Context) error) error {
	if err := op(ctx); err != nil {
		m.logger.Warn(ctx, "mutation failed", "error", err)
		m.fail(err, fallback)
		return err
	}
	return m.List(ctx)
}

func (m *Manager[T]) fail(err error, fallback string) {
	m.mu.Lock()
	m.errMsg = client.Message(err, fallback)
	m.mu.Unlock()
}

// Items returns a copy of the current list.
func (m *Manager[T]) Items() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]T{}, m.items...)
}

func (m *Manager[T]) Error() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.errMsg
}

func (m *Manager[T]) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

func (m *Manager[T]) DismissError() {
	m.mu.Lock()
	m.errMsg = ""
	m.mu.Unlock()
}
