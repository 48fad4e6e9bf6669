package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientflow/internal/domain"
)

func TestAuditStore_Append(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	store := NewAuditStore(db)

	event := &domain.SecurityEvent{
		ID:        "ev-1",
		Type:      domain.EventAuthenticationFailure,
		UserID:    "user-1",
		Resource:  "session",
		Action:    "validate_session",
		Metadata:  map[string]interface{}{"code": "NO_ACTIVE_SESSION"},
		RiskScore: 5,
		ClientIP:  "203.0.113.7",
		UserAgent: "cli/1.0",
		CreatedAt: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec(`INSERT INTO security_audit_log`).
		WithArgs("ev-1", "authentication_failure", "user-1", "session", "validate_session",
			[]byte(`{"code":"NO_ACTIVE_SESSION"}`), 5, "203.0.113.7", "cli/1.0", event.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.Append(context.Background(), event))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditStore_AppendError(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	store := NewAuditStore(db)

	mock.ExpectExec(`INSERT INTO security_audit_log`).
		WillReturnError(errors.New("table missing"))

	err := store.Append(context.Background(), &domain.SecurityEvent{
		ID:        "ev-2",
		Type:      domain.EventLoginAttempt,
		CreatedAt: time.Now(),
	})
	assert.Error(t, err)
}
