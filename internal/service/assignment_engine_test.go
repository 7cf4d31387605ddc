package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/arqon-study-api/internal/models"
)

func date(t *testing.T, raw string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation(models.DueDateLayout, raw, time.UTC)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return ts
}

func hoursOf(list []models.Assignment) []float64 {
	out := make([]float64, len(list))
	for i, a := range list {
		out[i] = a.Hours.Value
	}
	return out
}

func idsOf(list []models.Assignment) []int64 {
	out := make([]int64, len(list))
	for i, a := range list {
		out[i] = a.ID
	}
	return out
}

func sampleAssignments() []models.Assignment {
	return []models.Assignment{
		{ID: 1, Title: "Essay", Course: "ENG101", CourseName: "English", Status: models.StatusPending, DueDate: "2024-10-22", Priority: models.PriorityHigh, Hours: models.NewHours(3)},
		{ID: 2, Title: "Lab", Course: "CS101", CourseName: "Intro CS", Status: models.StatusInProgress, DueDate: "2024-10-15", Priority: models.PriorityLow, Hours: models.NewHours(5)},
		{ID: 3, Title: "Quiz", Course: "CS101", CourseName: "Intro CS", Status: models.StatusCompleted, DueDate: "2024-10-01", Priority: models.PriorityMedium, Hours: models.NewHours(1)},
		{ID: 4, Title: "Project", Course: "CS101", CourseName: "Intro CS", Status: models.StatusPending, DueDate: "2024-11-10", Priority: models.PriorityHigh, Hours: models.NewHours(10)},
		{ID: 5, Title: "Reading", Course: "ENG101", CourseName: "English", Status: models.StatusPending, DueDate: "2024-10-27", Priority: models.PriorityLow, Hours: models.NewHours(2)},
	}
}

func TestFilterAssignments(t *testing.T) {
	now := date(t, "2024-10-22").Add(9 * time.Hour)
	all := sampleAssignments()

	cases := []struct {
		name     string
		criteria models.FilterCriteria
		want     []int64
	}{
		{name: "empty criteria keeps everything", criteria: models.FilterCriteria{}, want: []int64{1, 2, 3, 4, 5}},
		{name: "course", criteria: models.FilterCriteria{Course: "CS101"}, want: []int64{2, 3, 4}},
		{name: "status", criteria: models.FilterCriteria{Status: "pending"}, want: []int64{1, 4, 5}},
		{name: "course and status", criteria: models.FilterCriteria{Course: "CS101", Status: "pending"}, want: []int64{4}},
		{name: "today", criteria: models.FilterCriteria{DueRange: models.DueRangeToday}, want: []int64{1}},
		{name: "week has no lower bound", criteria: models.FilterCriteria{DueRange: models.DueRangeWeek}, want: []int64{1, 2, 3, 5}},
		{name: "month", criteria: models.FilterCriteria{DueRange: models.DueRangeMonth}, want: []int64{1, 2, 3, 4, 5}},
		{name: "overdue ignores status", criteria: models.FilterCriteria{DueRange: models.DueRangeOverdue}, want: []int64{1, 2, 3}},
		{name: "unknown due range passes", criteria: models.FilterCriteria{DueRange: "someday"}, want: []int64{1, 2, 3, 4, 5}},
		{name: "no match", criteria: models.FilterCriteria{Course: "MATH200"}, want: []int64{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterAssignments(all, tc.criteria, now)
			assert.Equal(t, tc.want, idsOf(got))
		})
	}
}

func TestFilterAssignmentsExcludesUnparseableDatesOnlyWithRange(t *testing.T) {
	now := date(t, "2024-10-22")
	all := []models.Assignment{
		{ID: 1, DueDate: "not a date"},
		{ID: 2, DueDate: "2024-10-20"},
	}

	assert.Equal(t, []int64{1, 2}, idsOf(FilterAssignments(all, models.FilterCriteria{}, now)))
	assert.Equal(t, []int64{2}, idsOf(FilterAssignments(all, models.FilterCriteria{DueRange: models.DueRangeOverdue}, now)))
	assert.Equal(t, []int64{2}, idsOf(FilterAssignments(all, models.FilterCriteria{DueRange: models.DueRangeMonth}, now)))
}

func TestSortAssignmentsByHours(t *testing.T) {
	list := []models.Assignment{
		{ID: 1, Hours: models.NewHours(8)},
		{ID: 2, Hours: models.NewHours(4)},
		{ID: 3, Hours: models.NewHours(12)},
	}

	asc := SortAssignments(list, models.ColumnHours, models.SortAsc)
	assert.Equal(t, []float64{4, 8, 12}, hoursOf(asc))

	desc := SortAssignments(asc, models.ColumnHours, models.SortDesc)
	assert.Equal(t, []float64{12, 8, 4}, hoursOf(desc))

	assert.Equal(t, []float64{8, 4, 12}, hoursOf(list), "input must not be reordered")
}

func TestSortAssignmentsByPriority(t *testing.T) {
	list := []models.Assignment{
		{ID: 1, Priority: models.PriorityHigh},
		{ID: 2, Priority: models.PriorityLow},
		{ID: 3, Priority: models.PriorityMedium},
		{ID: 4, Priority: "urgent"},
	}

	asc := SortAssignments(list, models.ColumnPriority, models.SortAsc)
	assert.Equal(t, []int64{4, 2, 3, 1}, idsOf(asc))

	desc := SortAssignments(list, models.ColumnPriority, models.SortDesc)
	assert.Equal(t, []int64{1, 3, 2, 4}, idsOf(desc))
}

func TestSortAssignmentsByDueDate(t *testing.T) {
	list := []models.Assignment{
		{ID: 1, DueDate: "2024-11-01"},
		{ID: 2, DueDate: "garbage"},
		{ID: 3, DueDate: "2024-10-01"},
		{ID: 4, DueDate: "2024-10-15"},
	}

	assert.Equal(t, []int64{3, 4, 1, 2}, idsOf(SortAssignments(list, models.ColumnDueDate, models.SortAsc)))
	assert.Equal(t, []int64{1, 4, 3, 2}, idsOf(SortAssignments(list, models.ColumnDueDate, models.SortDesc)))
}

func TestSortAssignmentsUnparseableHoursSortLast(t *testing.T) {
	list := []models.Assignment{
		{ID: 1, Hours: models.Hours{}},
		{ID: 2, Hours: models.NewHours(2)},
		{ID: 3, Hours: models.Hours{}},
		{ID: 4, Hours: models.NewHours(1)},
	}

	assert.Equal(t, []int64{4, 2, 1, 3}, idsOf(SortAssignments(list, models.ColumnHours, models.SortAsc)))
	assert.Equal(t, []int64{2, 4, 1, 3}, idsOf(SortAssignments(list, models.ColumnHours, models.SortDesc)))
}

func TestSortAssignmentsTextIsStableAndCaseSensitive(t *testing.T) {
	list := []models.Assignment{
		{ID: 1, Title: "beta"},
		{ID: 2, Title: "Alpha"},
		{ID: 3, Title: "alpha"},
		{ID: 4, Title: "Alpha"},
	}

	assert.Equal(t, []int64{2, 4, 3, 1}, idsOf(SortAssignments(list, models.ColumnTitle, models.SortAsc)))
	assert.Equal(t, []int64{1, 3, 2, 4}, idsOf(SortAssignments(list, models.ColumnTitle, models.SortDesc)))
}

func TestSortAssignmentsUnknownColumnKeepsOrder(t *testing.T) {
	list := sampleAssignments()
	assert.Equal(t, idsOf(list), idsOf(SortAssignments(list, "colour", models.SortDesc)))
}

func TestNextSort(t *testing.T) {
	view := NextSort(models.AssignmentView{}, models.ColumnHours)
	assert.Equal(t, models.ColumnHours, view.SortColumn)
	assert.Equal(t, models.SortAsc, view.SortDirection)

	view = NextSort(view, models.ColumnHours)
	assert.Equal(t, models.SortDesc, view.SortDirection)

	view = NextSort(view, models.ColumnHours)
	assert.Equal(t, models.SortAsc, view.SortDirection)

	view.SortDirection = models.SortDesc
	view = NextSort(view, models.ColumnTitle)
	assert.Equal(t, models.ColumnTitle, view.SortColumn)
	assert.Equal(t, models.SortAsc, view.SortDirection)
}

func TestSummarizeAssignments(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, models.Summary{}, SummarizeAssignments(nil, time.Now()))
	})

	t.Run("overdue excludes completed", func(t *testing.T) {
		now := date(t, "2024-10-22")
		list := []models.Assignment{
			{ID: 1, Status: models.StatusInProgress, DueDate: "2024-10-15", Hours: models.NewHours(2)},
			{ID: 2, Status: models.StatusCompleted, DueDate: "2024-10-15", Hours: models.NewHours(3)},
			{ID: 3, Status: models.StatusPending, DueDate: "2024-10-30", Hours: models.NewHours(1.5)},
			{ID: 4, Status: models.StatusPending, DueDate: "broken", Hours: models.Hours{}},
		}

		summary := SummarizeAssignments(list, now)
		assert.Equal(t, 4, summary.Count)
		assert.InDelta(t, 6.5, summary.TotalHours, 1e-9)
		assert.Equal(t, 2, summary.PendingCount)
		assert.Equal(t, 1, summary.OverdueCount)
		assert.Equal(t, 1, summary.UnparseableHours)
	})
}

func TestDueLabel(t *testing.T) {
	now := date(t, "2024-10-22").Add(12 * time.Hour)

	cases := map[string]string{
		"2024-10-21": "Overdue",
		"2024-10-22": "Today",
		"2024-10-23": "Tomorrow",
		"2024-10-25": "3 days",
		"2024-10-29": "7 days",
		"2024-10-30": "",
		"unknown":    "",
	}
	for due, want := range cases {
		assert.Equal(t, want, DueLabel(models.Assignment{DueDate: due}, now), due)
	}
}

func TestBuildAssignmentList(t *testing.T) {
	now := date(t, "2024-10-22")
	view := models.AssignmentView{
		Criteria:      models.FilterCriteria{Course: "CS101"},
		SortColumn:    models.ColumnHours,
		SortDirection: models.SortDesc,
	}

	list := BuildAssignmentList(sampleAssignments(), view, now)
	assert.Len(t, list.Items, 3)
	assert.Equal(t, int64(4), list.Items[0].ID)
	assert.Equal(t, int64(3), list.Items[2].ID)
	assert.Equal(t, 3, list.Summary.Count)
	assert.InDelta(t, 16, list.Summary.TotalHours, 1e-9)
	assert.Equal(t, 1, list.Summary.OverdueCount)
	assert.Equal(t, "Overdue", list.Items[1].DueLabel)
	assert.Equal(t, view, list.View)
}
