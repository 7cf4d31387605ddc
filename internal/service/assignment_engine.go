package service

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/arqon-study-api/internal/models"
)

const day = 24 * time.Hour

// FilterAssignments returns the assignments matching every non-empty
// criterion, preserving input order. Due ranges are evaluated against now in
// now's location; an unparseable due date fails every due-range test.
func FilterAssignments(all []models.Assignment, criteria models.FilterCriteria, now time.Time) []models.Assignment {
	out := make([]models.Assignment, 0, len(all))
	for _, a := range all {
		if matchesCriteria(a, criteria, now) {
			out = append(out, a)
		}
	}
	return out
}

func matchesCriteria(a models.Assignment, c models.FilterCriteria, now time.Time) bool {
	if c.Course != "" && a.Course != c.Course {
		return false
	}
	if c.Status != "" && string(a.Status) != c.Status {
		return false
	}
	if c.DueRange == models.DueRangeNone {
		return true
	}

	due, ok := a.Due(now.Location())
	switch c.DueRange {
	case models.DueRangeToday:
		return ok && sameDay(due, now)
	case models.DueRangeWeek:
		return ok && !due.After(now.Add(7*day))
	case models.DueRangeMonth:
		return ok && !due.After(now.Add(30*day))
	case models.DueRangeOverdue:
		return ok && due.Before(now)
	}
	return true
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// sortKey is the typed value extracted from one column of an assignment.
// ok=false marks an unparseable value, which always sorts after parseable ones.
type sortKey struct {
	num  float64
	text string
	ok   bool
}

// SortAssignments returns a stably sorted copy of list. Unknown columns leave
// the order unchanged.
func SortAssignments(list []models.Assignment, column string, direction models.SortDirection) []models.Assignment {
	out := append([]models.Assignment(nil), list...)
	extract, numeric, known := keyExtractor(column)
	if !known {
		return out
	}
	desc := direction == models.SortDesc
	sort.SliceStable(out, func(i, j int) bool {
		return compareKeys(extract(out[i]), extract(out[j]), numeric, desc) < 0
	})
	return out
}

func keyExtractor(column string) (func(models.Assignment) sortKey, bool, bool) {
	switch column {
	case models.ColumnDueDate:
		return func(a models.Assignment) sortKey {
			due, ok := a.Due(time.Local)
			return sortKey{num: float64(due.UnixNano()), ok: ok}
		}, true, true
	case models.ColumnHours:
		return func(a models.Assignment) sortKey {
			return sortKey{num: a.Hours.Value, ok: a.Hours.Valid}
		}, true, true
	case models.ColumnPriority:
		return func(a models.Assignment) sortKey {
			return sortKey{num: float64(a.Priority.Ordinal()), ok: true}
		}, true, true
	case models.ColumnTitle:
		return textKey(func(a models.Assignment) string { return a.Title }), false, true
	case models.ColumnCourseName:
		return textKey(func(a models.Assignment) string { return a.CourseName }), false, true
	case models.ColumnStatus:
		return textKey(func(a models.Assignment) string { return string(a.Status) }), false, true
	case "course":
		return textKey(func(a models.Assignment) string { return a.Course }), false, true
	case "description":
		return textKey(func(a models.Assignment) string { return a.Description }), false, true
	}
	return nil, false, false
}

func textKey(field func(models.Assignment) string) func(models.Assignment) sortKey {
	return func(a models.Assignment) sortKey {
		return sortKey{text: field(a), ok: true}
	}
}

func compareKeys(a, b sortKey, numeric, desc bool) int {
	switch {
	case !a.ok && !b.ok:
		return 0
	case !a.ok:
		return 1
	case !b.ok:
		return -1
	}

	var c int
	if numeric {
		switch {
		case a.num < b.num:
			c = -1
		case a.num > b.num:
			c = 1
		}
	} else {
		c = strings.Compare(a.text, b.text)
	}
	if desc {
		c = -c
	}
	return c
}

// NextSort applies a column click to the view: the active column flips
// direction, any other column becomes active in ascending order.
func NextSort(view models.AssignmentView, column string) models.AssignmentView {
	if view.SortColumn == column {
		if view.SortDirection == models.SortAsc {
			view.SortDirection = models.SortDesc
		} else {
			view.SortDirection = models.SortAsc
		}
		return view
	}
	view.SortColumn = column
	view.SortDirection = models.SortAsc
	return view
}

// SummarizeAssignments derives the table counters for list at now.
func SummarizeAssignments(list []models.Assignment, now time.Time) models.Summary {
	summary := models.Summary{Count: len(list)}
	for _, a := range list {
		if a.Hours.Valid {
			summary.TotalHours += a.Hours.Value
		} else {
			summary.UnparseableHours++
		}
		if a.Status == models.StatusPending {
			summary.PendingCount++
		}
		if due, ok := a.Due(now.Location()); ok && due.Before(now) && a.Status != models.StatusCompleted {
			summary.OverdueCount++
		}
	}
	return summary
}

// DueLabel describes how far away the due date is, counting partial days up.
func DueLabel(a models.Assignment, now time.Time) string {
	due, ok := a.Due(now.Location())
	if !ok {
		return ""
	}
	diffDays := int(math.Ceil(float64(due.Sub(now)) / float64(day)))
	switch {
	case diffDays < 0:
		return "Overdue"
	case diffDays == 0:
		return "Today"
	case diffDays == 1:
		return "Tomorrow"
	case diffDays <= 7:
		return fmt.Sprintf("%d days", diffDays)
	}
	return ""
}

// BuildAssignmentList runs filter, sort and summary for a view at now.
func BuildAssignmentList(all []models.Assignment, view models.AssignmentView, now time.Time) models.AssignmentList {
	filtered := FilterAssignments(all, view.Criteria, now)
	if view.SortColumn != "" {
		filtered = SortAssignments(filtered, view.SortColumn, view.SortDirection)
	}

	rows := make([]models.AssignmentRow, len(filtered))
	for i, a := range filtered {
		rows[i] = models.AssignmentRow{Assignment: a, DueLabel: DueLabel(a, now)}
	}

	return models.AssignmentList{
		Items:   rows,
		Summary: SummarizeAssignments(filtered, now),
		View:    view,
	}
}
