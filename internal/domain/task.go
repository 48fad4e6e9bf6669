package domain

import "time"

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	// TaskNotStarted is the initial state of a task.
	TaskNotStarted TaskStatus = "not-started"
	// TaskInProgress marks a task being worked on.
	TaskInProgress TaskStatus = "in-progress"
	// TaskCompleted marks a finished task.
	TaskCompleted TaskStatus = "completed"
)

// IsValid reports whether the status is one of the known values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskNotStarted, TaskInProgress, TaskCompleted:
		return true
	default:
		return false
	}
}

// TaskPriority represents how urgent a task is.
type TaskPriority string

const (
	// PriorityLow marks low urgency tasks.
	PriorityLow TaskPriority = "low"
	// PriorityMedium is the default priority.
	PriorityMedium TaskPriority = "medium"
	// PriorityHigh marks tasks that surface on the dashboard.
	PriorityHigh TaskPriority = "high"
)

// IsValid reports whether the priority is one of the known values.
func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Task is the canonical task shape used by the cache and everything above it.
// ProjectID and ProjectName are denormalized back-references; the project
// owns the task.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	StartDate   *time.Time   `json:"start_date,omitempty"`
	EndDate     *time.Time   `json:"end_date,omitempty"`
	ProjectID   string       `json:"project_id"`
	ProjectName string       `json:"project_name"`
}

// IsOverdue reports whether the task's end date has passed without completion.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.EndDate == nil {
		return false
	}
	return t.EndDate.Before(now) && t.Status != TaskCompleted
}

// Validate checks the canonical task invariants.
func (t *Task) Validate() error {
	if t.ID == "" {
		return NewValidationError("INVALID_TASK_ID", "Task ID is required", nil)
	}
	if t.Title == "" {
		return NewValidationError("INVALID_TITLE", "Title is required", nil)
	}
	if !t.Status.IsValid() {
		return NewValidationError("INVALID_STATUS", "Invalid task status", map[string]interface{}{
			"value": t.Status,
		})
	}
	if !t.Priority.IsValid() {
		return NewValidationError("INVALID_PRIORITY", "Invalid task priority", map[string]interface{}{
			"value": t.Priority,
		})
	}
	if t.StartDate != nil && t.EndDate != nil && t.StartDate.After(*t.EndDate) {
		return NewValidationError("INVALID_DATES", "Start date cannot be after end date", nil)
	}
	return nil
}
