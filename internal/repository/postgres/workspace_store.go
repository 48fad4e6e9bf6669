package postgres

import (
	"context"
	"encoding/json"

	"clientflow/internal/domain"
)

// WorkspaceStore implements repository.WorkspaceStore over Postgres.
type WorkspaceStore struct{ db *DB }

// NewWorkspaceStore constructs a workspace store.
func NewWorkspaceStore(db *DB) *WorkspaceStore { return &WorkspaceStore{db: db} }

// fetchWorkspaceSQL embeds client, tasks and notes into each project row so
// the whole workspace loads in one round trip. Timestamps that feed the
// normalization layer are cast to text; it owns the lenient parsing.
const fetchWorkspaceSQL = `
SELECT
    p.id,
    p.name,
    COALESCE(p.description, ''),
    COALESCE(p.status, ''),
    p.due_date::text,
    p.client_id,
    CASE WHEN c.id IS NULL THEN NULL ELSE json_build_object(
        'id', c.id,
        'name', c.name,
        'email', COALESCE(c.email, ''),
        'company', COALESCE(c.company, ''),
        'phone', COALESCE(c.phone, '')
    ) END,
    COALESCE(t.items, '[]'::json),
    COALESCE(n.items, '[]'::json),
    p.created_at
FROM projects p
LEFT JOIN clients c ON c.id = p.client_id
LEFT JOIN LATERAL (
    SELECT json_agg(json_build_object(
        'id', t.id,
        'title', t.title,
        'description', t.description,
        'status', t.status,
        'completed', t.completed,
        'priority', t.priority,
        'start_date', t.start_date::text,
        'end_date', t.end_date::text
    ) ORDER BY t.created_at) AS items
    FROM tasks t WHERE t.project_id = p.id
) t ON true
LEFT JOIN LATERAL (
    SELECT json_agg(json_build_object(
        'id', n.id,
        'content', n.content,
        'created_at', n.created_at::text
    ) ORDER BY n.created_at) AS items
    FROM notes n WHERE n.project_id = p.id
) n ON true
WHERE p.user_id = $1
ORDER BY p.created_at DESC`

// FetchWorkspace returns the user's projects with embedded client and raw
// task/note payloads, newest first.
func (s *WorkspaceStore) FetchWorkspace(ctx context.Context, userID string) ([]domain.RawProjectRecord, error) {
	rows, err := s.db.Pool.Query(ctx, fetchWorkspaceSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.RawProjectRecord
	for rows.Next() {
		var (
			rec        domain.RawProjectRecord
			clientJSON []byte
			tasksJSON  []byte
			notesJSON  []byte
		)
		if err := rows.Scan(
			&rec.ID, &rec.Name, &rec.Description, &rec.Status,
			&rec.DueDate, &rec.ClientID, &clientJSON,
			&tasksJSON, &notesJSON, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(clientJSON) > 0 {
			var client domain.Client
			if err := json.Unmarshal(clientJSON, &client); err != nil {
				return nil, err
			}
			rec.Client = &client
		}
		if err := json.Unmarshal(tasksJSON, &rec.Tasks); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(notesJSON, &rec.Notes); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CheckProjectAccess calls the backend's permission function.
func (s *WorkspaceStore) CheckProjectAccess(ctx context.Context, userID, projectID string) (bool, error) {
	const q = `SELECT check_project_access($1, $2)`
	var allowed bool
	if err := s.db.Pool.QueryRow(ctx, q, userID, projectID).Scan(&allowed); err != nil {
		return false, err
	}
	return allowed, nil
}
