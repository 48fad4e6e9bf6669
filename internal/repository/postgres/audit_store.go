package postgres

import (
	"context"
	"encoding/json"

	"clientflow/internal/domain"
)

// AuditStore implements repository.AuditStore over Postgres.
type AuditStore struct{ db *DB }

// NewAuditStore constructs an audit store.
func NewAuditStore(db *DB) *AuditStore { return &AuditStore{db: db} }

// Append persists one security event.
func (s *AuditStore) Append(ctx context.Context, event *domain.SecurityEvent) error {
	const q = `
INSERT INTO security_audit_log
    (id, event_type, user_id, resource, action, metadata, risk_score, client_ip, user_agent, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return err
	}
	_, err = s.db.Pool.Exec(ctx, q,
		event.ID, string(event.Type), event.UserID, event.Resource, event.Action,
		metadata, event.RiskScore, event.ClientIP, event.UserAgent, event.CreatedAt,
	)
	return err
}
