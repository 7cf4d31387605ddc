package repository

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/arqon-study-api/internal/models"
)

// PreferenceRepository stores single-object blobs: the remember-me
// preference and per-user assignment table state.
type PreferenceRepository struct {
	mu     sync.Mutex
	store  BlobStore
	logger *zap.Logger
}

// NewPreferenceRepository constructs the repository.
func NewPreferenceRepository(store BlobStore, logger *zap.Logger) *PreferenceRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferenceRepository{store: store, logger: logger}
}

// RememberMe returns the stored preference; the zero value when absent.
func (r *PreferenceRepository) RememberMe(ctx context.Context) (models.RememberMe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pref models.RememberMe
	found, err := loadJSON(ctx, r.store, r.logger, KeyRememberMe, &pref)
	if err != nil {
		return models.RememberMe{}, err
	}
	if !found {
		return models.RememberMe{}, nil
	}
	return pref, nil
}

// SaveRememberMe writes the preference; remember=false clears the blob.
func (r *PreferenceRepository) SaveRememberMe(ctx context.Context, pref models.RememberMe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !pref.Remember {
		return r.store.Delete(ctx, KeyRememberMe)
	}
	return saveJSON(ctx, r.store, KeyRememberMe, pref)
}

// View returns the user's table state; the zero value when absent.
func (r *PreferenceRepository) View(ctx context.Context, userID int64) (models.AssignmentView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var view models.AssignmentView
	found, err := loadJSON(ctx, r.store, r.logger, ViewKey(userID), &view)
	if err != nil {
		return models.AssignmentView{}, err
	}
	if !found {
		return models.AssignmentView{}, nil
	}
	return view, nil
}

// SaveView writes the user's table state.
func (r *PreferenceRepository) SaveView(ctx context.Context, userID int64, view models.AssignmentView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return saveJSON(ctx, r.store, ViewKey(userID), view)
}
