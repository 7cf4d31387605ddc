package service

import (
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/arqon-study-api/pkg/errors"
)

// nextID returns the creation timestamp in milliseconds, bumped past any id
// already taken so two records created in the same millisecond stay distinct.
func nextID(now time.Time, taken map[int64]struct{}) int64 {
	id := now.UnixMilli()
	for {
		if _, ok := taken[id]; !ok {
			return id
		}
		id++
	}
}

// storeError passes domain errors raised inside an update callback through
// untouched and wraps storage failures as internal errors.
func storeError(logger *zap.Logger, err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	logger.Error(message, zap.Error(err))
	return appErrors.Internal(err, message)
}
