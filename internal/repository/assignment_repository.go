package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/arqon-study-api/internal/models"
)

// AssignmentRepository persists the assignment collection as one blob.
type AssignmentRepository struct {
	items *collection[models.Assignment]
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(store BlobStore, logger *zap.Logger) *AssignmentRepository {
	return &AssignmentRepository{items: newCollection[models.Assignment](store, logger, KeyAssignments)}
}

// List returns every assignment in insertion order.
func (r *AssignmentRepository) List(ctx context.Context) ([]models.Assignment, error) {
	return r.items.all(ctx)
}

// Update runs a read-modify-write cycle over the whole collection.
func (r *AssignmentRepository) Update(ctx context.Context, fn func([]models.Assignment) ([]models.Assignment, error)) error {
	return r.items.update(ctx, fn)
}

// ReplaceAll overwrites the collection, used by imports.
func (r *AssignmentRepository) ReplaceAll(ctx context.Context, assignments []models.Assignment) error {
	return r.items.replace(ctx, assignments)
}
