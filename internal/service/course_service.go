package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/arqon-study-api/internal/models"
	appErrors "github.com/noah-isme/arqon-study-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByCode(ctx context.Context, code string) (*models.Course, bool, error)
	Update(ctx context.Context, fn func([]models.Course) ([]models.Course, error)) error
}

// CourseService manages the course catalogue assignments are attached to.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// List returns all courses in insertion order.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list courses")
	}
	return courses, nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	courses, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].ID == id {
			return &courses[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
}

// Create adds a course. Codes are stored trimmed and upper-cased and must be unique.
func (s *CourseService) Create(ctx context.Context, req models.CourseRequest) (*models.Course, error) {
	req = normalizeCourseRequest(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "course code and name are required")
	}

	var created models.Course
	err := s.repo.Update(ctx, func(courses []models.Course) ([]models.Course, error) {
		taken := make(map[int64]struct{}, len(courses))
		for _, c := range courses {
			if c.Code == req.Code {
				return nil, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
			}
			taken[c.ID] = struct{}{}
		}
		now := s.now().UTC()
		created = models.Course{
			ID:          nextID(now, taken),
			Code:        req.Code,
			Name:        req.Name,
			Instructor:  req.Instructor,
			Description: req.Description,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return append(courses, created), nil
	})
	if err != nil {
		return nil, storeError(s.logger, err, "failed to create course")
	}

	s.logger.Info("course created", zap.String("code", created.Code), zap.Int64("id", created.ID))
	return &created, nil
}

// Update replaces the editable fields of a course.
func (s *CourseService) Update(ctx context.Context, id int64, req models.CourseRequest) (*models.Course, error) {
	req = normalizeCourseRequest(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "course code and name are required")
	}

	var updated models.Course
	err := s.repo.Update(ctx, func(courses []models.Course) ([]models.Course, error) {
		idx := -1
		for i, c := range courses {
			if c.ID == id {
				idx = i
				continue
			}
			if c.Code == req.Code {
				return nil, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
			}
		}
		if idx < 0 {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		c := &courses[idx]
		c.Code = req.Code
		c.Name = req.Name
		c.Instructor = req.Instructor
		c.Description = req.Description
		c.StartDate = req.StartDate
		c.EndDate = req.EndDate
		c.UpdatedAt = s.now().UTC()
		updated = *c
		return courses, nil
	})
	if err != nil {
		return nil, storeError(s.logger, err, "failed to update course")
	}
	return &updated, nil
}

// Delete removes a course. Assignments referencing it are left in place.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	err := s.repo.Update(ctx, func(courses []models.Course) ([]models.Course, error) {
		for i, c := range courses {
			if c.ID == id {
				return append(courses[:i], courses[i+1:]...), nil
			}
		}
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	})
	if err != nil {
		return storeError(s.logger, err, "failed to delete course")
	}
	s.logger.Info("course deleted", zap.Int64("id", id))
	return nil
}

// Lookup maps course codes to courses for display-name resolution.
func (s *CourseService) Lookup(ctx context.Context) (map[string]models.Course, error) {
	courses, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	lookup := make(map[string]models.Course, len(courses))
	for _, c := range courses {
		lookup[c.Code] = c
	}
	return lookup, nil
}

func normalizeCourseRequest(req models.CourseRequest) models.CourseRequest {
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.Name = strings.TrimSpace(req.Name)
	req.Instructor = strings.TrimSpace(req.Instructor)
	req.Description = strings.TrimSpace(req.Description)
	req.StartDate = strings.TrimSpace(req.StartDate)
	req.EndDate = strings.TrimSpace(req.EndDate)
	return req
}
