package models

// DueRange is a coarse relative-time bucket evaluated against "now".
type DueRange string

const (
	DueRangeNone    DueRange = ""
	DueRangeToday   DueRange = "today"
	DueRangeWeek    DueRange = "week"
	DueRangeMonth   DueRange = "month"
	DueRangeOverdue DueRange = "overdue"
)

// SortDirection orders a sorted column.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sortable assignment columns. course and description also sort as text; any
// other column keeps the input order.
const (
	ColumnTitle      = "title"
	ColumnCourseName = "courseName"
	ColumnStatus     = "status"
	ColumnDueDate    = "dueDate"
	ColumnPriority   = "priority"
	ColumnHours      = "hours"
)

// FilterCriteria narrows the assignment list; empty fields pass everything.
type FilterCriteria struct {
	Course   string   `json:"course" form:"course"`
	Status   string   `json:"status" form:"status"`
	DueRange DueRange `json:"dueRange" form:"due"`
}

// AssignmentView is the per-user table state: active filter plus sort column.
type AssignmentView struct {
	Criteria      FilterCriteria `json:"criteria"`
	SortColumn    string         `json:"sortColumn,omitempty"`
	SortDirection SortDirection  `json:"sortDirection,omitempty"`
}

// Summary aggregates the currently listed assignments.
type Summary struct {
	Count        int     `json:"count"`
	TotalHours   float64 `json:"totalHours"`
	PendingCount int     `json:"pendingCount"`
	OverdueCount int     `json:"overdueCount"`
	// UnparseableHours counts items left out of TotalHours.
	UnparseableHours int `json:"unparseableHours"`
}

// AssignmentRow is an assignment decorated with its relative due label.
type AssignmentRow struct {
	Assignment
	DueLabel string `json:"dueLabel,omitempty"`
}

// AssignmentList is the rendered table: rows in display order plus summary.
type AssignmentList struct {
	Items   []AssignmentRow `json:"items"`
	Summary Summary         `json:"summary"`
	View    AssignmentView  `json:"view"`
}
