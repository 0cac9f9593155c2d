package storage

import (
	"context"
	"sync"
)

// Collection is one named, ordered sequence of records persisted as a unit.
// Every mutation re-reads and re-writes the whole sequence while holding the
// collection lock, so two mutations of the same collection never interleave.
type Collection[T any] struct {
	mu    sync.Mutex
	store *Store
	key   string
	seed  func() []T
}

// NewCollection binds key in store. seed, if non-nil, supplies the records a
// never-written collection starts with; otherwise it starts empty.
func NewCollection[T any](store *Store, key string, seed func() []T) *Collection[T] {
	return &Collection[T]{store: store, key: key, seed: seed}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// Load returns the records in insertion order.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// Mutate hands the current records to fn and persists what fn returns. If
// fn fails nothing is written.
func (c *Collection[T]) Mutate(ctx context.Context, fn func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}

	next, err := fn(items)
	if err != nil {
		return err
	}
	if next == nil {
		next = []T{}
	}
	return c.store.Set(ctx, c.key, next)
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	var items []T
	state, err := c.store.Lookup(ctx, c.key, &items)
	if err != nil {
		return nil, err
	}

	switch state {
	case Found:
		if items == nil {
			items = []T{}
		}
		return items, nil
	case Corrupt:
		// Left in place for the next mutation to replace.
		return []T{}, nil
	}

	items = []T{}
	if c.seed != nil {
		items = append(items, c.seed()...)
	}
	if err := c.store.Set(ctx, c.key, items); err != nil {
		return nil, err
	}
	return items, nil
}
