package domain

import (
	"time"

	"github.com/google/uuid"
)

// Raw records mirror what the hosted backend actually returns for the
// joined workspace read. Older rows predate several schema cleanups, so
// every field that ever went missing or moved is optional here and the
// normalization functions below reconcile the variants into the canonical
// shapes. Keep these pure; they are unit-tested in isolation.

// RawTaskRecord is an upstream task row before normalization.
type RawTaskRecord struct {
	ID          *string `json:"id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Completed   *bool   `json:"completed"`
	Priority    *string `json:"priority"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

// RawNoteRecord is an upstream note row before normalization.
type RawNoteRecord struct {
	ID        *string `json:"id"`
	Content   *string `json:"content"`
	CreatedAt *string `json:"created_at"`
}

// RawProjectRecord is an upstream project row with its embedded client
// and raw task/note payloads.
type RawProjectRecord struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	DueDate     *string         `json:"due_date"`
	ClientID    *string         `json:"client_id"`
	Client      *Client         `json:"client"`
	Tasks       []RawTaskRecord `json:"tasks"`
	Notes       []RawNoteRecord `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NormalizeTask reconciles a raw task row into the canonical Task.
// Fallbacks: title falls back to the legacy description-as-title rows,
// status is inferred from the boolean completed flag when absent, priority
// defaults to medium, and a task without an id gets a generated one.
func NormalizeTask(raw RawTaskRecord, projectID, projectName string) Task {
	task := Task{
		Priority:    PriorityMedium,
		Status:      TaskNotStarted,
		ProjectID:   projectID,
		ProjectName: projectName,
	}

	if raw.ID != nil && *raw.ID != "" {
		task.ID = *raw.ID
	} else {
		task.ID = uuid.NewString()
	}

	switch {
	case raw.Title != nil && *raw.Title != "":
		task.Title = *raw.Title
		if raw.Description != nil {
			task.Description = *raw.Description
		}
	case raw.Description != nil && *raw.Description != "":
		// Legacy rows stored the title in the description column.
		task.Title = *raw.Description
	default:
		task.Title = "Untitled task"
	}

	if raw.Status != nil && TaskStatus(*raw.Status).IsValid() {
		task.Status = TaskStatus(*raw.Status)
	} else if raw.Completed != nil && *raw.Completed {
		task.Status = TaskCompleted
	}

	if raw.Priority != nil && TaskPriority(*raw.Priority).IsValid() {
		task.Priority = TaskPriority(*raw.Priority)
	}

	task.StartDate = parseUpstreamTime(raw.StartDate)
	task.EndDate = parseUpstreamTime(raw.EndDate)

	return task
}

// NormalizeProject reconciles a raw project row into the canonical Project,
// normalizing every embedded task, defaulting a missing notes payload to an
// empty collection and copying the client fields onto the project.
// Derived stats are recomputed as of now.
func NormalizeProject(raw RawProjectRecord, now time.Time) *Project {
	p := &Project{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Status:      ProjectPending,
		Client:      raw.Client,
		CreatedAt:   raw.CreatedAt,
		Tasks:       make([]Task, 0, len(raw.Tasks)),
		Notes:       []Note{},
	}

	if ProjectStatus(raw.Status).IsValid() {
		p.Status = ProjectStatus(raw.Status)
	}
	p.DueDate = parseUpstreamTime(raw.DueDate)

	if raw.ClientID != nil {
		p.ClientID = *raw.ClientID
	}
	if raw.Client != nil {
		if p.ClientID == "" {
			p.ClientID = raw.Client.ID
		}
		p.ClientName = raw.Client.Name
		p.ClientEmail = raw.Client.Email
		p.ClientCo = raw.Client.Company
	}

	for _, rt := range raw.Tasks {
		p.Tasks = append(p.Tasks, NormalizeTask(rt, p.ID, p.Name))
	}

	for _, rn := range raw.Notes {
		note := Note{ProjectID: p.ID}
		if rn.ID != nil && *rn.ID != "" {
			note.ID = *rn.ID
		} else {
			note.ID = uuid.NewString()
		}
		if rn.Content != nil {
			note.Content = *rn.Content
		}
		if ts := parseUpstreamTime(rn.CreatedAt); ts != nil {
			note.CreatedAt = *ts
		}
		p.Notes = append(p.Notes, note)
	}

	p.RecomputeStats(now)
	return p
}

// parseUpstreamTime handles the two timestamp layouts the backend has
// shipped over time: RFC3339 and bare dates.
func parseUpstreamTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	if ts, err := time.Parse(time.RFC3339, *s); err == nil {
		return &ts
	}
	if ts, err := time.Parse("2006-01-02", *s); err == nil {
		return &ts
	}
	return nil
}
