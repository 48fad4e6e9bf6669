package domain

import "time"

// ProjectStatus represents the status of a project.
type ProjectStatus string

const (
	// ProjectPending marks a project that has not started yet.
	ProjectPending ProjectStatus = "pending"
	// ProjectInProgress marks an active project.
	ProjectInProgress ProjectStatus = "in-progress"
	// ProjectCompleted marks a delivered project.
	ProjectCompleted ProjectStatus = "completed"
)

// IsValid reports whether the status is one of the known values.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectPending, ProjectInProgress, ProjectCompleted:
		return true
	default:
		return false
	}
}

// ProjectStats holds the per-project figures computed once per fetch.
// They are views over the task collection, not independently mutable
// state; RecomputeStats must run whenever the tasks change.
type ProjectStats struct {
	CompletedTasksCount int     `json:"completed_tasks_count"`
	TotalTasksCount     int     `json:"total_tasks_count"`
	ProgressPercentage  float64 `json:"progress_percentage"`
	HighPriorityCount   int     `json:"high_priority_count"`
	OverdueTasks        []Task  `json:"overdue_tasks"`
}

// Project is the canonical cache entity. Client fields are denormalized
// from the embedded client so dashboard reads need no extra lookups.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	ClientID    string        `json:"client_id,omitempty"`
	Client      *Client       `json:"client,omitempty"`
	ClientName  string        `json:"client_name,omitempty"`
	ClientEmail string        `json:"client_email,omitempty"`
	ClientCo    string        `json:"client_company,omitempty"`
	Tasks       []Task        `json:"tasks"`
	Notes       []Note        `json:"notes"`
	CreatedAt   time.Time     `json:"created_at"`

	ProjectStats
}

// RecomputeStats rebuilds the derived figures from the task collection.
// Progress is 0 when there are no tasks, otherwise completed/total*100.
func (p *Project) RecomputeStats(now time.Time) {
	stats := ProjectStats{OverdueTasks: []Task{}}
	for _, t := range p.Tasks {
		stats.TotalTasksCount++
		if t.Status == TaskCompleted {
			stats.CompletedTasksCount++
		}
		if t.Priority == PriorityHigh {
			stats.HighPriorityCount++
		}
		if t.IsOverdue(now) {
			stats.OverdueTasks = append(stats.OverdueTasks, t)
		}
	}
	if stats.TotalTasksCount > 0 {
		stats.ProgressPercentage = float64(stats.CompletedTasksCount) / float64(stats.TotalTasksCount) * 100
	}
	p.ProjectStats = stats
}

// IsOverdue reports whether the project's due date has passed without delivery.
func (p *Project) IsOverdue(now time.Time) bool {
	if p.DueDate == nil {
		return false
	}
	return p.DueDate.Before(now) && p.Status != ProjectCompleted
}
