// Package collection implements the repositories on top of storage
// collections. Each entity type lives in one persisted sequence.
package collection

import (
	"context"
	"fmt"

	"github.com/jwalitptl/clinicdesk/internal/storage"
	apperrors "github.com/jwalitptl/clinicdesk/pkg/errors"
)

// baseRepository provides the id based operations shared by every entity.
type baseRepository[T any] struct {
	col      *storage.Collection[T]
	resource string
	idOf     func(*T) string
}

func newBaseRepository[T any](col *storage.Collection[T], resource string, idOf func(*T) string) baseRepository[T] {
	return baseRepository[T]{col: col, resource: resource, idOf: idOf}
}

func (r *baseRepository[T]) list(ctx context.Context) ([]T, error) {
	items, err := r.col.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", r.resource, err)
	}
	return items, nil
}

func (r *baseRepository[T]) indexOf(items []T, id string) int {
	for i := range items {
		if r.idOf(&items[i]) == id {
			return i
		}
	}
	return -1
}

func (r *baseRepository[T]) get(ctx context.Context, id string) (*T, error) {
	items, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	i := r.indexOf(items, id)
	if i < 0 {
		return nil, apperrors.NotFound(r.resource, nil)
	}
	item := items[i]
	return &item, nil
}

// create appends item after check accepts it against the existing records.
func (r *baseRepository[T]) create(ctx context.Context, item *T, check func([]T) error) error {
	err := r.col.Mutate(ctx, func(items []T) ([]T, error) {
		if check != nil {
			if err := check(items); err != nil {
				return nil, err
			}
		}
		return append(items, *item), nil
	})
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", r.resource, err)
	}
	return nil
}

// update applies fn to a copy of the record, lets check validate the result
// against the other records, then writes it back in place.
func (r *baseRepository[T]) update(ctx context.Context, id string, fn func(*T) error, check func(others []T, updated *T) error) (*T, error) {
	var out T
	err := r.col.Mutate(ctx, func(items []T) ([]T, error) {
		i := r.indexOf(items, id)
		if i < 0 {
			return nil, apperrors.NotFound(r.resource, nil)
		}

		updated := items[i]
		if err := fn(&updated); err != nil {
			return nil, err
		}

		if check != nil {
			others := make([]T, 0, len(items)-1)
			others = append(others, items[:i]...)
			others = append(others, items[i+1:]...)
			if err := check(others, &updated); err != nil {
				return nil, err
			}
		}

		items[i] = updated
		out = updated
		return items, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", r.resource, err)
	}
	return &out, nil
}

func (r *baseRepository[T]) delete(ctx context.Context, id string) error {
	err := r.col.Mutate(ctx, func(items []T) ([]T, error) {
		i := r.indexOf(items, id)
		if i < 0 {
			return nil, apperrors.NotFound(r.resource, nil)
		}
		return append(items[:i], items[i+1:]...), nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.resource, err)
	}
	return nil
}
