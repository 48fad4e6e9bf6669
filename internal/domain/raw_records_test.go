package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestNormalizeTask_LegacyDescriptionAsTitle(t *testing.T) {
	raw := RawTaskRecord{
		ID:          strPtr("task-1"),
		Description: strPtr("Fix bug"),
		Completed:   boolPtr(true),
	}

	task := NormalizeTask(raw, "proj-1", "Website")

	assert.Equal(t, "task-1", task.ID)
	assert.Equal(t, "Fix bug", task.Title)
	assert.Empty(t, task.Description)
	assert.Equal(t, TaskCompleted, task.Status)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Equal(t, "proj-1", task.ProjectID)
	assert.Equal(t, "Website", task.ProjectName)
}

func TestNormalizeTask_StatusWinsOverCompletedFlag(t *testing.T) {
	raw := RawTaskRecord{
		ID:        strPtr("task-2"),
		Title:     strPtr("Write docs"),
		Status:    strPtr("in-progress"),
		Completed: boolPtr(true),
	}

	task := NormalizeTask(raw, "proj-1", "Website")

	assert.Equal(t, TaskInProgress, task.Status)
}

func TestNormalizeTask_AllFieldsMissing(t *testing.T) {
	task := NormalizeTask(RawTaskRecord{}, "proj-1", "Website")

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Untitled task", task.Title)
	assert.Equal(t, TaskNotStarted, task.Status)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Nil(t, task.StartDate)
	assert.Nil(t, task.EndDate)
	require.NoError(t, task.Validate())
}

func TestNormalizeTask_InvalidValuesFallBack(t *testing.T) {
	raw := RawTaskRecord{
		ID:       strPtr("task-3"),
		Title:    strPtr("Deploy"),
		Status:   strPtr("archived"),
		Priority: strPtr("urgent"),
	}

	task := NormalizeTask(raw, "proj-1", "Website")

	assert.Equal(t, TaskNotStarted, task.Status)
	assert.Equal(t, PriorityMedium, task.Priority)
}

func TestNormalizeTask_DateLayouts(t *testing.T) {
	raw := RawTaskRecord{
		ID:        strPtr("task-4"),
		Title:     strPtr("Ship"),
		StartDate: strPtr("2026-08-01"),
		EndDate:   strPtr("2026-08-15T12:30:00Z"),
	}

	task := NormalizeTask(raw, "proj-1", "Website")

	require.NotNil(t, task.StartDate)
	require.NotNil(t, task.EndDate)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), *task.StartDate)
	assert.Equal(t, time.Date(2026, 8, 15, 12, 30, 0, 0, time.UTC), *task.EndDate)
}

func TestNormalizeTask_UnparseableDateDropped(t *testing.T) {
	raw := RawTaskRecord{
		ID:      strPtr("task-5"),
		Title:   strPtr("Ship"),
		EndDate: strPtr("next tuesday"),
	}

	task := NormalizeTask(raw, "proj-1", "Website")
	assert.Nil(t, task.EndDate)
}

func TestNormalizeProject_ClientDenormalization(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	raw := RawProjectRecord{
		ID:     "proj-1",
		Name:   "Website redesign",
		Status: "in-progress",
		Client: &Client{ID: "client-1", Name: "Acme", Email: "billing@acme.test", Company: "Acme Co"},
	}

	p := NormalizeProject(raw, now)

	assert.Equal(t, "client-1", p.ClientID)
	assert.Equal(t, "Acme", p.ClientName)
	assert.Equal(t, "billing@acme.test", p.ClientEmail)
	assert.Equal(t, "Acme Co", p.ClientCo)
	assert.Equal(t, ProjectInProgress, p.Status)
}

func TestNormalizeProject_MissingNotesDefaultToEmpty(t *testing.T) {
	p := NormalizeProject(RawProjectRecord{ID: "proj-1", Name: "Website"}, time.Now())

	assert.NotNil(t, p.Notes)
	assert.Empty(t, p.Notes)
	assert.NotNil(t, p.Tasks)
	assert.Equal(t, ProjectPending, p.Status)
}

func TestNormalizeProject_StatsComputed(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	raw := RawProjectRecord{
		ID:     "proj-1",
		Name:   "Website",
		Status: "in-progress",
		Tasks: []RawTaskRecord{
			{ID: strPtr("t1"), Title: strPtr("Done one"), Status: strPtr("completed")},
			{ID: strPtr("t2"), Title: strPtr("Urgent"), Priority: strPtr("high"), EndDate: strPtr("2026-08-01")},
			{ID: strPtr("t3"), Title: strPtr("Later"), Status: strPtr("not-started")},
			{ID: strPtr("t4"), Title: strPtr("Soon"), Status: strPtr("in-progress")},
		},
	}

	p := NormalizeProject(raw, now)

	assert.Equal(t, 4, p.TotalTasksCount)
	assert.Equal(t, 1, p.CompletedTasksCount)
	assert.Equal(t, 1, p.HighPriorityCount)
	require.Len(t, p.OverdueTasks, 1)
	assert.Equal(t, "t2", p.OverdueTasks[0].ID)
	assert.InDelta(t, 25.0, p.ProgressPercentage, 0.001)
}

func TestNormalizeProject_NoteFallbacks(t *testing.T) {
	raw := RawProjectRecord{
		ID:   "proj-1",
		Name: "Website",
		Notes: []RawNoteRecord{
			{Content: strPtr("kickoff call"), CreatedAt: strPtr("2026-07-01T09:00:00Z")},
		},
	}

	p := NormalizeProject(raw, time.Now())

	require.Len(t, p.Notes, 1)
	assert.NotEmpty(t, p.Notes[0].ID)
	assert.Equal(t, "kickoff call", p.Notes[0].Content)
	assert.Equal(t, "proj-1", p.Notes[0].ProjectID)
	assert.Equal(t, 2026, p.Notes[0].CreatedAt.Year())
}
