package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/arqon-study-api/pkg/config"
	"github.com/noah-isme/arqon-study-api/pkg/database"
	appErrors "github.com/noah-isme/arqon-study-api/pkg/errors"
)

// readinessKey is probed by Ping; it is never written.
const readinessKey = "arqon_readiness_probe"

// Open connects the blob store selected by cfg.Storage.Driver.
func Open(cfg *config.Config, logger *zap.Logger) (BlobStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := cfg.Storage.KeyPrefix

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		return NewMemoryBlobStore(), nil
	case config.StorageBolt, "":
		db, err := database.NewBolt(cfg.Storage.BoltPath)
		if err != nil {
			return nil, fmt.Errorf("open bolt store: %w", err)
		}
		logger.Info("bolt storage ready", zap.String("path", cfg.Storage.BoltPath))
		return NewBoltBlobStore(db, database.BoltBucket, prefix), nil
	case config.StorageRedis:
		client, err := database.NewRedis(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("redis storage ready", zap.String("host", cfg.Redis.Host), zap.Int("db", cfg.Redis.DB))
		return NewRedisBlobStore(client, prefix), nil
	case config.StoragePostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		logger.Info("postgres storage ready", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Name))
		return NewPostgresBlobStore(db, prefix), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// Ping checks that the store answers reads.
func Ping(ctx context.Context, store BlobStore) error {
	_, err := store.Get(ctx, readinessKey)
	if err == nil || errors.Is(err, appErrors.ErrBlobNotFound) {
		return nil
	}
	return err
}
