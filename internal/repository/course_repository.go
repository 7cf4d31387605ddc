package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/arqon-study-api/internal/models"
)

// CourseRepository persists the course collection as one blob.
type CourseRepository struct {
	items *collection[models.Course]
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(store BlobStore, logger *zap.Logger) *CourseRepository {
	return &CourseRepository{items: newCollection[models.Course](store, logger, KeyCourses)}
}

// List returns every course in insertion order.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	return r.items.all(ctx)
}

// FindByCode returns the course with the exact code, if any.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, bool, error) {
	courses, err := r.items.all(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range courses {
		if courses[i].Code == code {
			return &courses[i], true, nil
		}
	}
	return nil, false, nil
}

// Update runs a read-modify-write cycle over the whole collection.
func (r *CourseRepository) Update(ctx context.Context, fn func([]models.Course) ([]models.Course, error)) error {
	return r.items.update(ctx, fn)
}

// ReplaceAll overwrites the collection, used by imports.
func (r *CourseRepository) ReplaceAll(ctx context.Context, courses []models.Course) error {
	return r.items.replace(ctx, courses)
}
