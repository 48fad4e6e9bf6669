// Package repository defines the data access interfaces for the hosted
// backend. The backend itself (schema, business rules) is external; only
// the access adapters live in this module.
package repository

import (
	"context"

	"clientflow/internal/domain"
)

// WorkspaceStore is the read surface of the hosted database service.
type WorkspaceStore interface {
	// FetchWorkspace returns the user's projects with embedded client and
	// raw task/note payloads in one joined read, newest project first.
	FetchWorkspace(ctx context.Context, userID string) ([]domain.RawProjectRecord, error)

	// CheckProjectAccess asks the backend whether the user may read the
	// project. A denial is a boolean, not an error.
	CheckProjectAccess(ctx context.Context, userID, projectID string) (bool, error)
}

// AuditStore appends security events to the external audit log.
type AuditStore interface {
	// Append persists one event. Callers treat failures as best-effort.
	Append(ctx context.Context, event *domain.SecurityEvent) error
}
