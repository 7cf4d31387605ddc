package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// AssignmentStatus captures the lifecycle label of an assignment.
type AssignmentStatus string

const (
	StatusPending    AssignmentStatus = "pending"
	StatusInProgress AssignmentStatus = "in-progress"
	StatusCompleted  AssignmentStatus = "completed"
	StatusOverdue    AssignmentStatus = "overdue"
)

// Valid reports whether the status is one of the known labels.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

// Priority ranks how urgent an assignment is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether the priority is one of the known labels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Ordinal maps the priority onto its sort rank; unknown values rank 0.
func (p Priority) Ordinal() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// DueDateLayout is the calendar-date encoding used for due dates.
const DueDateLayout = "2006-01-02"

// Assignment is a single piece of coursework. JSON names match the blobs
// written by the browser client so existing data loads unchanged.
type Assignment struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Course      string           `json:"course"`
	CourseName  string           `json:"courseName"`
	Status      AssignmentStatus `json:"status"`
	DueDate     string           `json:"dueDate"`
	Priority    Priority         `json:"priority"`
	Hours       Hours            `json:"hours"`
	Description string           `json:"description"`
}

// Due parses the due date in loc. ok is false when the stored value is not a date.
func (a Assignment) Due(loc *time.Location) (time.Time, bool) {
	return ParseDueDate(a.DueDate, loc)
}

// ParseDueDate accepts calendar dates (midnight in loc) and RFC 3339 instants.
func ParseDueDate(raw string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(DueDateLayout, raw, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(loc), true
	}
	return time.Time{}, false
}

// Hours is an estimated-hours value as persisted. Older clients wrote numbers,
// numeric strings or null (from a failed integer parse); anything that does not
// parse as a number is kept as an unparseable value instead of failing the load.
type Hours struct {
	Value float64
	Valid bool
}

// NewHours returns a parseable hours value.
func NewHours(v float64) Hours {
	return Hours{Value: v, Valid: true}
}

// MarshalJSON encodes parseable hours as a number and the rest as null.
func (h Hours) MarshalJSON() ([]byte, error) {
	if !h.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(h.Value)
}

// UnmarshalJSON never fails on a well-formed JSON value.
func (h *Hours) UnmarshalJSON(data []byte) error {
	*h = Hours{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*h = NewHours(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*h = NewHours(n)
		}
		return nil
	}
	return nil
}

// String renders the hours for tables and exports.
func (h Hours) String() string {
	if !h.Valid {
		return ""
	}
	return strconv.FormatFloat(h.Value, 'f', -1, 64)
}

// CreateAssignmentRequest is the payload of the create command.
type CreateAssignmentRequest struct {
	Title       string   `json:"title" validate:"required"`
	Course      string   `json:"course" validate:"required"`
	DueDate     string   `json:"dueDate" validate:"required"`
	Priority    Priority `json:"priority"`
	Hours       *float64 `json:"hours" validate:"omitempty,gte=0"`
	Description string   `json:"description"`
}

// UpdateAssignmentStatusRequest changes only the status label.
type UpdateAssignmentStatusRequest struct {
	Status AssignmentStatus `json:"status" validate:"required"`
}
