package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/arqon-study-api/internal/models"
	"github.com/noah-isme/arqon-study-api/internal/repository"
)

func seededStore(t *testing.T) *repository.MemoryBlobStore {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryBlobStore()
	logr := zap.NewNop()

	require.NoError(t, repository.NewCourseRepository(store, logr).ReplaceAll(ctx, []models.Course{
		{ID: 1, Code: "CS101", Name: "Intro to CS", Instructor: "Hopper"},
		{ID: 2, Code: "MA201", Name: "Linear Algebra", Instructor: "Noether"},
	}))
	require.NoError(t, repository.NewAssignmentRepository(store, logr).ReplaceAll(ctx, []models.Assignment{
		{ID: 1, Title: "Essay", Course: "CS101", CourseName: "Intro to CS", Status: models.StatusPending, DueDate: "2999-01-10", Priority: models.PriorityHigh, Hours: models.NewHours(8)},
		{ID: 2, Title: "Lab", Course: "CS101", CourseName: "Intro to CS", Status: models.StatusCompleted, DueDate: "2000-01-01", Priority: models.PriorityLow, Hours: models.NewHours(4)},
		{ID: 3, Title: "Proofs", Course: "MA201", CourseName: "Linear Algebra", Status: models.StatusPending, DueDate: "2000-02-01", Priority: models.PriorityMedium, Hours: models.NewHours(12)},
	}))
	return store
}

func run(t *testing.T, store repository.BlobStore, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(func() (repository.BlobStore, *zap.Logger, error) {
		return store, zap.NewNop(), nil
	})
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func dataLines(out string) []string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	var rows []string
	for _, line := range lines[1:] {
		if strings.HasPrefix(line, "Total:") {
			break
		}
		rows = append(rows, line)
	}
	return rows
}

func TestCoursesList(t *testing.T) {
	out, err := run(t, seededStore(t), "courses", "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "CODE")
	assert.Contains(t, lines[1], "CS101")
	assert.Contains(t, lines[2], "MA201")
}

func TestAssignmentsListFiltersAndSorts(t *testing.T) {
	store := seededStore(t)

	out, err := run(t, store, "assignments", "list", "--course", "CS101")
	require.NoError(t, err)
	rows := dataLines(out)
	require.Len(t, rows, 2)
	assert.Contains(t, rows[0], "Essay")
	assert.Contains(t, rows[1], "Lab")
	assert.Contains(t, out, "Total: 2  Hours: 12  Pending: 1  Overdue: 0")

	out, err = run(t, store, "assignments", "list", "--sort", "hours", "--desc")
	require.NoError(t, err)
	rows = dataLines(out)
	require.Len(t, rows, 3)
	assert.Contains(t, rows[0], "Proofs")
	assert.Contains(t, rows[1], "Essay")
	assert.Contains(t, rows[2], "Lab")

	out, err = run(t, store, "assignments", "list", "--due", "overdue")
	require.NoError(t, err)
	rows = dataLines(out)
	require.Len(t, rows, 2)
	assert.Contains(t, rows[0], "Overdue")
}

func TestAssignmentsSummary(t *testing.T) {
	out, err := run(t, seededStore(t), "assignments", "summary")
	require.NoError(t, err)
	assert.Equal(t, "Total: 3  Hours: 24  Pending: 2  Overdue: 1\n", out)
}

func TestAssignmentsExport(t *testing.T) {
	store := seededStore(t)

	out, err := run(t, store, "assignments", "export", "--status", "pending")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Title,Course,Status,Due Date,Priority,Hours\n"))
	assert.Contains(t, out, "Essay,Intro to CS,pending,2999-01-10,high,8")
	assert.NotContains(t, out, "Lab")
	assert.Contains(t, out, "Total assignments: 2")

	path := filepath.Join(t.TempDir(), "assignments.pdf")
	_, err = run(t, store, "assignments", "export", "--format", "pdf", "--out", path)
	require.NoError(t, err)
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	_, err = run(t, store, "assignments", "export", "--format", "xlsx")
	assert.Error(t, err)
}
