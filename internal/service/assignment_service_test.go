package service

import (
	"context"
	"strings"
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

type assignmentFixture struct {
	svc         *AssignmentService
	assignments *repository.AssignmentRepository
	courses     *repository.CourseRepository
	views       *repository.PreferenceRepository
}

func newAssignmentFixture(t *testing.T, now time.Time) assignmentFixture {
	t.Helper()
	store := repository.NewMemoryBlobStore()
	logger := zap.NewNop()
	fx := assignmentFixture{
		assignments: repository.NewAssignmentRepository(store, logger),
		courses:     repository.NewCourseRepository(store, logger),
		views:       repository.NewPreferenceRepository(store, logger),
	}
	require.NoError(t, fx.courses.ReplaceAll(context.Background(), []models.Course{
		{ID: 1, Code: "CS101", Name: "Intro CS"},
		{ID: 2, Code: "ENG101", Name: "English"},
	}))
	fx.svc = NewAssignmentService(fx.assignments, fx.courses, fx.views, validator.New(), logger)
	fx.svc.now = func() time.Time { return now }
	return fx
}

func float(v float64) *float64 { return &v }

func TestAssignmentServiceCreate(t *testing.T) {
	now := time.Date(2024, 10, 22, 10, 0, 0, 0, time.UTC)
	fx := newAssignmentFixture(t, now)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, models.CreateAssignmentRequest{
		Title:   "  Lab 1 ",
		Course:  "CS101",
		DueDate: "2024-10-30",
		Hours:   float(4),
	})
	require.NoError(t, err)
	assert.Equal(t, "Lab 1", created.Title)
	assert.Equal(t, "Intro CS", created.CourseName)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, models.PriorityMedium, created.Priority)
	assert.Equal(t, now.UnixMilli(), created.ID)
	assert.Equal(t, models.NewHours(4), created.Hours)

	second, err := fx.svc.Create(ctx, models.CreateAssignmentRequest{Title: "Lab 2", Course: "CS101", DueDate: "2024-10-31", Priority: models.PriorityHigh})
	require.NoError(t, err)
	assert.Equal(t, created.ID+1, second.ID)
	assert.Equal(t, models.NewHours(0), second.Hours)

	stored, err := fx.assignments.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestAssignmentServiceCreateValidation(t *testing.T) {
	fx := newAssignmentFixture(t, time.Now())
	ctx := context.Background()

	cases := []struct {
		name string
		req  models.CreateAssignmentRequest
	}{
		{name: "missing title", req: models.CreateAssignmentRequest{Title: "  ", Course: "CS101", DueDate: "2024-10-30"}},
		{name: "unknown course", req: models.CreateAssignmentRequest{Title: "Essay", Course: "MATH999", DueDate: "2024-10-30"}},
		{name: "bad priority", req: models.CreateAssignmentRequest{Title: "Essay", Course: "CS101", DueDate: "2024-10-30", Priority: "urgent"}},
		{name: "negative hours", req: models.CreateAssignmentRequest{Title: "Essay", Course: "CS101", DueDate: "2024-10-30", Hours: float(-1)}},
		{name: "bad date", req: models.CreateAssignmentRequest{Title: "Essay", Course: "CS101", DueDate: "30/10/2024"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.svc.Create(ctx, tc.req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

			stored, err := fx.assignments.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, stored)
		})
	}
}

func TestAssignmentServiceDelete(t *testing.T) {
	fx := newAssignmentFixture(t, time.Now())
	ctx := context.Background()
	require.NoError(t, fx.assignments.ReplaceAll(ctx, []models.Assignment{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}))

	require.NoError(t, fx.svc.Delete(ctx, 99))
	stored, err := fx.assignments.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	require.NoError(t, fx.svc.Delete(ctx, 1))
	stored, err = fx.assignments.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, int64(2), stored[0].ID)
}

func TestAssignmentServiceUpdateStatus(t *testing.T) {
	fx := newAssignmentFixture(t, time.Now())
	ctx := context.Background()
	require.NoError(t, fx.assignments.ReplaceAll(ctx, []models.Assignment{{ID: 7, Status: models.StatusPending}}))

	updated, err := fx.svc.UpdateStatus(ctx, 7, models.UpdateAssignmentStatusRequest{Status: models.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	_, err = fx.svc.UpdateStatus(ctx, 8, models.UpdateAssignmentStatusRequest{Status: models.StatusCompleted})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = fx.svc.UpdateStatus(ctx, 7, models.UpdateAssignmentStatusRequest{Status: "done"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceViewState(t *testing.T) {
	now := time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC)
	fx := newAssignmentFixture(t, now)
	ctx := context.Background()
	require.NoError(t, fx.assignments.ReplaceAll(ctx, sampleAssignments()))

	list, err := fx.svc.ApplyFilter(ctx, 42, models.FilterCriteria{Course: "CS101"})
	require.NoError(t, err)
	assert.Len(t, list.Items, 3)

	list, err = fx.svc.Sort(ctx, 42, models.ColumnHours)
	require.NoError(t, err)
	assert.Equal(t, models.SortAsc, list.View.SortDirection)
	assert.Equal(t, int64(3), list.Items[0].ID)

	list, err = fx.svc.Sort(ctx, 42, models.ColumnHours)
	require.NoError(t, err)
	assert.Equal(t, models.SortDesc, list.View.SortDirection)
	assert.Equal(t, int64(4), list.Items[0].ID)

	list, err = fx.svc.View(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "CS101", list.View.Criteria.Course)
	assert.Equal(t, models.ColumnHours, list.View.SortColumn)
	assert.Equal(t, models.SortDesc, list.View.SortDirection)

	other, err := fx.svc.View(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, other.Items, 5)

	_, err = fx.svc.Sort(ctx, 42, " ")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceExport(t *testing.T) {
	now := time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC)
	fx := newAssignmentFixture(t, now)
	ctx := context.Background()
	require.NoError(t, fx.assignments.ReplaceAll(ctx, sampleAssignments()))

	view := models.AssignmentView{Criteria: models.FilterCriteria{Course: "ENG101"}, SortColumn: models.ColumnTitle}
	result, err := fx.svc.Export(ctx, view, "csv")
	require.NoError(t, err)
	assert.Equal(t, "assignments-20241022.csv", result.Filename)
	assert.Equal(t, "text/csv", result.ContentType)

	lines := strings.Split(string(result.Body), "\n")
	assert.Equal(t, "Title,Course,Status,Due Date,Priority,Hours", lines[0])
	assert.Equal(t, "Essay,English,pending,2024-10-22,high,3", lines[1])
	assert.Equal(t, "Reading,English,pending,2024-10-27,low,2", lines[2])
	assert.Contains(t, string(result.Body), "Total hours: 5")

	pdf, err := fx.svc.Export(ctx, view, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.True(t, strings.HasPrefix(string(pdf.Body), "%PDF"))

	_, err = fx.svc.Export(ctx, view, "xlsx")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceSummaryCoversWholeCollection(t *testing.T) {
	now := time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC)
	fx := newAssignmentFixture(t, now)
	ctx := context.Background()
	require.NoError(t, fx.assignments.ReplaceAll(ctx, sampleAssignments()))

	summary, err := fx.svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Count)
	assert.Equal(t, 3, summary.PendingCount)
	assert.Equal(t, 1, summary.OverdueCount)
}
