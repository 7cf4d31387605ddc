package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/arqon-study-api/internal/models"
	appErrors "github.com/noah-isme/arqon-study-api/pkg/errors"
	"github.com/noah-isme/arqon-study-api/pkg/export"
)

type assignmentRepository interface {
	List(ctx context.Context) ([]models.Assignment, error)
	Update(ctx context.Context, fn func([]models.Assignment) ([]models.Assignment, error)) error
}

type courseFinder interface {
	FindByCode(ctx context.Context, code string) (*models.Course, bool, error)
}

type viewRepository interface {
	View(ctx context.Context, userID int64) (models.AssignmentView, error)
	SaveView(ctx context.Context, userID int64, view models.AssignmentView) error
}

// ExportResult is a rendered assignment table ready to download.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

var exportHeaders = []string{"Title", "Course", "Status", "Due Date", "Priority", "Hours"}

// AssignmentService runs the assignment list commands: create, delete, status
// changes and the filter/sort/summary pipeline.
type AssignmentService struct {
	repo      assignmentRepository
	courses   courseFinder
	views     viewRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(repo assignmentRepository, courses courseFinder, views viewRepository, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		repo:      repo,
		courses:   courses,
		views:     views,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// List renders the table for an explicit view without touching stored state.
func (s *AssignmentService) List(ctx context.Context, view models.AssignmentView) (*models.AssignmentList, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load assignments")
	}
	list := BuildAssignmentList(all, normalizeView(view), s.now())
	return &list, nil
}

// Summary returns the counters for the whole, unfiltered collection.
func (s *AssignmentService) Summary(ctx context.Context) (models.Summary, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return models.Summary{}, appErrors.Internal(err, "failed to load assignments")
	}
	return SummarizeAssignments(all, s.now()), nil
}

// Create validates the request, resolves the course and appends a pending
// assignment. Nothing is written when validation fails.
func (s *AssignmentService) Create(ctx context.Context, req models.CreateAssignmentRequest) (*models.Assignment, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Course = strings.TrimSpace(req.Course)
	req.DueDate = strings.TrimSpace(req.DueDate)
	req.Description = strings.TrimSpace(req.Description)

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "please fill in all required fields")
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !req.Priority.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown priority %q", req.Priority))
	}
	if _, err := time.Parse(models.DueDateLayout, req.DueDate); err != nil {
		return nil, appErrors.Invalid(err, "due date must be formatted as YYYY-MM-DD")
	}

	course, found, err := s.courses.FindByCode(ctx, req.Course)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load courses")
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrValidation, "selected course not found")
	}

	hours := models.NewHours(0)
	if req.Hours != nil {
		hours = models.NewHours(*req.Hours)
	}

	var created models.Assignment
	err = s.repo.Update(ctx, func(items []models.Assignment) ([]models.Assignment, error) {
		taken := make(map[int64]struct{}, len(items))
		for _, a := range items {
			taken[a.ID] = struct{}{}
		}
		created = models.Assignment{
			ID:          nextID(s.now(), taken),
			Title:       req.Title,
			Course:      course.Code,
			CourseName:  course.Name,
			Status:      models.StatusPending,
			DueDate:     req.DueDate,
			Priority:    req.Priority,
			Hours:       hours,
			Description: req.Description,
		}
		return append(items, created), nil
	})
	if err != nil {
		return nil, storeError(s.logger, err, "failed to save assignment")
	}

	s.logger.Info("assignment created", zap.Int64("id", created.ID), zap.String("course", created.Course))
	return &created, nil
}

// Delete removes the assignment with the id. A missing id leaves the
// collection unchanged and is not an error.
func (s *AssignmentService) Delete(ctx context.Context, id int64) error {
	removed := false
	err := s.repo.Update(ctx, func(items []models.Assignment) ([]models.Assignment, error) {
		kept := items[:0]
		for _, a := range items {
			if a.ID == id {
				removed = true
				continue
			}
			kept = append(kept, a)
		}
		return kept, nil
	})
	if err != nil {
		return storeError(s.logger, err, "failed to delete assignment")
	}
	if removed {
		s.logger.Info("assignment deleted", zap.Int64("id", id))
	}
	return nil
}

// UpdateStatus moves an assignment to another lifecycle status.
func (s *AssignmentService) UpdateStatus(ctx context.Context, id int64, req models.UpdateAssignmentStatusRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "status is required")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", req.Status))
	}

	var updated models.Assignment
	err := s.repo.Update(ctx, func(items []models.Assignment) ([]models.Assignment, error) {
		for i := range items {
			if items[i].ID == id {
				items[i].Status = req.Status
				updated = items[i]
				return items, nil
			}
		}
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	})
	if err != nil {
		return nil, storeError(s.logger, err, "failed to update assignment status")
	}
	return &updated, nil
}

// View renders the table using the user's stored filter and sort.
func (s *AssignmentService) View(ctx context.Context, userID int64) (*models.AssignmentList, error) {
	view, err := s.views.View(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load view state")
	}
	return s.List(ctx, view)
}

// ApplyFilter stores new criteria for the user, keeping the sort column.
func (s *AssignmentService) ApplyFilter(ctx context.Context, userID int64, criteria models.FilterCriteria) (*models.AssignmentList, error) {
	view, err := s.views.View(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load view state")
	}
	view.Criteria = criteria
	return s.saveAndList(ctx, userID, view)
}

// Sort toggles the user's sort state for a column click.
func (s *AssignmentService) Sort(ctx context.Context, userID int64, column string) (*models.AssignmentList, error) {
	column = strings.TrimSpace(column)
	if column == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sort column is required")
	}
	view, err := s.views.View(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load view state")
	}
	return s.saveAndList(ctx, userID, NextSort(view, column))
}

func (s *AssignmentService) saveAndList(ctx context.Context, userID int64, view models.AssignmentView) (*models.AssignmentList, error) {
	view = normalizeView(view)
	if err := s.views.SaveView(ctx, userID, view); err != nil {
		return nil, storeError(s.logger, err, "failed to save view state")
	}
	return s.List(ctx, view)
}

// Export renders the filtered and sorted table in the requested format.
func (s *AssignmentService) Export(ctx context.Context, view models.AssignmentView, format string) (*ExportResult, error) {
	renderer, err := export.ForFormat(format)
	if err != nil {
		return nil, appErrors.Invalid(err, err.Error())
	}
	list, err := s.List(ctx, view)
	if err != nil {
		return nil, err
	}

	body, err := renderer.Render(assignmentDataset(list))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}

	return &ExportResult{
		Filename:    fmt.Sprintf("assignments-%s.%s", s.now().Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func assignmentDataset(list *models.AssignmentList) export.Dataset {
	rows := make([]map[string]string, 0, len(list.Items))
	for _, item := range list.Items {
		rows = append(rows, map[string]string{
			"Title":    item.Title,
			"Course":   displayCourse(item.Assignment),
			"Status":   string(item.Status),
			"Due Date": item.DueDate,
			"Priority": string(item.Priority),
			"Hours":    item.Hours.String(),
		})
	}
	summary := list.Summary
	return export.Dataset{
		Title:   "Assignments",
		Headers: exportHeaders,
		Rows:    rows,
		Footer: []string{
			fmt.Sprintf("Total assignments: %d", summary.Count),
			fmt.Sprintf("Total hours: %s", models.NewHours(summary.TotalHours).String()),
			fmt.Sprintf("Pending: %d", summary.PendingCount),
			fmt.Sprintf("Overdue: %d", summary.OverdueCount),
		},
	}
}

// displayCourse falls back to the code for assignments whose course name was
// never recorded.
func displayCourse(a models.Assignment) string {
	if a.CourseName != "" {
		return a.CourseName
	}
	return a.Course
}

func normalizeView(view models.AssignmentView) models.AssignmentView {
	view.SortColumn = strings.TrimSpace(view.SortColumn)
	if view.SortColumn == "" {
		view.SortDirection = ""
		return view
	}
	if view.SortDirection != models.SortDesc {
		view.SortDirection = models.SortAsc
	}
	return view
}
