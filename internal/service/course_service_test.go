package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/arqon-study-api/internal/models"
	"github.com/noah-isme/arqon-study-api/internal/repository"
	appErrors "github.com/noah-isme/arqon-study-api/pkg/errors"
)

func newCourseService(t *testing.T) (*CourseService, *time.Time) {
	t.Helper()
	repo := repository.NewCourseRepository(repository.NewMemoryBlobStore(), zap.NewNop())
	svc := NewCourseService(repo, validator.New(), zap.NewNop())
	now := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, &now
}

func TestCourseServiceCreateNormalizesCode(t *testing.T) {
	svc, _ := newCourseService(t)
	ctx := context.Background()

	course, err := svc.Create(ctx, models.CourseRequest{Code: "  cs101 ", Name: " Intro CS ", Instructor: "Dr. Ada"})
	require.NoError(t, err)
	assert.Equal(t, "CS101", course.Code)
	assert.Equal(t, "Intro CS", course.Name)
	assert.Equal(t, course.CreatedAt, course.UpdatedAt)

	_, err = svc.Create(ctx, models.CourseRequest{Code: "CS101", Name: "Duplicate"})
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(ctx, models.CourseRequest{Code: "MATH1"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	courses, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 1)
}

func TestCourseServiceUpdate(t *testing.T) {
	svc, now := newCourseService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, models.CourseRequest{Code: "CS101", Name: "Intro CS"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, models.CourseRequest{Code: "ENG101", Name: "English"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	*now = now.Add(time.Hour)
	updated, err := svc.Update(ctx, first.ID, models.CourseRequest{Code: "cs102", Name: "Data Structures"})
	require.NoError(t, err)
	assert.Equal(t, "CS102", updated.Code)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	_, err = svc.Update(ctx, first.ID, models.CourseRequest{Code: "ENG101", Name: "Clash"})
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	_, err = svc.Update(ctx, 12345, models.CourseRequest{Code: "NEW1", Name: "Missing"})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	got, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Data Structures", got.Name)
}

func TestCourseServiceDelete(t *testing.T) {
	svc, _ := newCourseService(t)
	ctx := context.Background()

	course, err := svc.Create(ctx, models.CourseRequest{Code: "CS101", Name: "Intro CS"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, course.ID))
	err = svc.Delete(ctx, course.ID)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Get(ctx, course.ID)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	lookup, err := svc.Lookup(ctx)
	require.NoError(t, err)
	assert.Empty(t, lookup)
}
