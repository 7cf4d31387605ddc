package repository

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	appErrors "github.com/noah-isme/arqon-study-api/pkg/errors"
)

// BoltBlobStore persists blobs in a single bbolt bucket on local disk.
type BoltBlobStore struct {
	db     *bbolt.DB
	bucket []byte
	prefix string
}

// NewBoltBlobStore wraps an opened bolt database. The bucket must exist.
func NewBoltBlobStore(db *bbolt.DB, bucket []byte, prefix string) *BoltBlobStore {
	return &BoltBlobStore{db: db, bucket: bucket, prefix: prefix}
}

func (s *BoltBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return fmt.Errorf("bucket %s not found", s.bucket)
		}
		v := b.Get([]byte(s.prefix + key))
		if v == nil {
			return appErrors.ErrBlobNotFound
		}
		// bolt values are only valid inside the transaction
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BoltBlobStore) Put(_ context.Context, key string, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(s.prefix+key), value)
	})
}

func (s *BoltBlobStore) Delete(_ context.Context, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(s.prefix + key))
	})
}

func (s *BoltBlobStore) Close() error {
	return s.db.Close()
}
