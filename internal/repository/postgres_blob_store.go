package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/noah-isme/arqon-study-api/pkg/errors"
)

// PostgresBlobStore keeps blobs in the kv_blobs table, one row per key.
type PostgresBlobStore struct {
	db     *sqlx.DB
	prefix string
}

// NewPostgresBlobStore constructs a Postgres-backed store.
func NewPostgresBlobStore(db *sqlx.DB, prefix string) *PostgresBlobStore {
	return &PostgresBlobStore{db: db, prefix: prefix}
}

func (s *PostgresBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.GetContext(ctx, &value, `SELECT value FROM kv_blobs WHERE key = $1`, s.prefix+key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrBlobNotFound
		}
		return nil, fmt.Errorf("select blob %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresBlobStore) Put(ctx context.Context, key string, value []byte) error {
	const query = `INSERT INTO kv_blobs (key, value, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := s.db.ExecContext(ctx, query, s.prefix+key, string(value)); err != nil {
		return fmt.Errorf("upsert blob %s: %w", key, err)
	}
	return nil
}

func (s *PostgresBlobStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_blobs WHERE key = $1`, s.prefix+key); err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

func (s *PostgresBlobStore) Close() error {
	return s.db.Close()
}
