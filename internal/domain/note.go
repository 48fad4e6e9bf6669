package domain

import "time"

// Note is a free-form annotation attached to a project.
type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	ProjectID string    `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}
