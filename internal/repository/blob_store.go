package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/arqon-study-api/pkg/errors"
)

// Storage keys for the whole-collection blobs.
const (
	KeyAssignments = "arqon_assignments"
	KeyCourses     = "arqon_courses"
	KeyUsers       = "arqon_users"
	KeySessions    = "arqon_sessions"
	KeyRememberMe  = "arqon_remember_me"
	keyViewPrefix  = "arqon_view:"
)

// ViewKey returns the key holding a user's assignment table state.
func ViewKey(userID int64) string {
	return fmt.Sprintf("%s%d", keyViewPrefix, userID)
}

// BlobStore is a string-keyed store of opaque JSON blobs. Every value is read
// and written as a whole; there is no compare-and-swap. Get returns
// appErrors.ErrBlobNotFound when the key has never been written.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// StoreObserver receives timing for every store call.
type StoreObserver interface {
	ObserveStoreOperation(operation string, duration time.Duration, err error)
}

type instrumentedStore struct {
	BlobStore
	observer StoreObserver
}

// Instrument wraps a store so each call is reported to the observer.
func Instrument(store BlobStore, observer StoreObserver) BlobStore {
	if observer == nil {
		return store
	}
	return &instrumentedStore{BlobStore: store, observer: observer}
}

func (s *instrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	raw, err := s.BlobStore.Get(ctx, key)
	observed := err
	if errors.Is(err, appErrors.ErrBlobNotFound) {
		observed = nil
	}
	s.observer.ObserveStoreOperation("get", time.Since(start), observed)
	return raw, err
}

func (s *instrumentedStore) Put(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.BlobStore.Put(ctx, key, value)
	s.observer.ObserveStoreOperation("put", time.Since(start), err)
	return err
}

func (s *instrumentedStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.BlobStore.Delete(ctx, key)
	s.observer.ObserveStoreOperation("delete", time.Since(start), err)
	return err
}

// loadJSON decodes the blob under key into dest. A missing key leaves dest
// untouched. Corrupt JSON is logged and reported as found=false so callers
// fall back to an empty value instead of failing the request.
func loadJSON(ctx context.Context, store BlobStore, logger *zap.Logger, key string, dest interface{}) (bool, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, appErrors.ErrBlobNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		logger.Warn("corrupt blob treated as empty", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func saveJSON(ctx context.Context, store BlobStore, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := store.Put(ctx, key, payload); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// loadCollection reads a JSON array blob; missing or corrupt blobs yield an empty slice.
func loadCollection[T any](ctx context.Context, store BlobStore, logger *zap.Logger, key string) ([]T, error) {
	var items []T
	found, err := loadJSON(ctx, store, logger, key, &items)
	if err != nil {
		return nil, err
	}
	if !found || items == nil {
		return []T{}, nil
	}
	return items, nil
}
