package repository

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// collection serializes read-modify-write cycles on one array blob within
// this process. Writers in other processes still race; the last write wins.
type collection[T any] struct {
	mu     sync.Mutex
	store  BlobStore
	logger *zap.Logger
	key    string
}

func newCollection[T any](store BlobStore, logger *zap.Logger, key string) *collection[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &collection[T]{store: store, logger: logger, key: key}
}

func (c *collection[T]) all(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return loadCollection[T](ctx, c.store, c.logger, c.key)
}

// update loads the collection, applies fn and writes the result back. When fn
// returns an error nothing is written.
func (c *collection[T]) update(ctx context.Context, fn func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, err := loadCollection[T](ctx, c.store, c.logger, c.key)
	if err != nil {
		return err
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	return saveJSON(ctx, c.store, c.key, next)
}

func (c *collection[T]) replace(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if items == nil {
		items = []T{}
	}
	return saveJSON(ctx, c.store, c.key, items)
}
