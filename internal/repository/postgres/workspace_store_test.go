package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func strPtr(s string) *string { return &s }

var workspaceColumns = []string{
	"id", "name", "description", "status", "due_date",
	"client_id", "client", "tasks", "notes", "created_at",
}

func TestWorkspaceStore_FetchWorkspace(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	store := NewWorkspaceStore(db)

	createdAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	clientJSON := []byte(`{"id":"client-1","name":"Acme","email":"acme@test","company":"Acme Co","phone":""}`)
	tasksJSON := []byte(`[{"id":"t1","title":"Design","description":null,"status":"completed","completed":true,"priority":"high","start_date":null,"end_date":"2026-08-15"}]`)
	notesJSON := []byte(`[{"id":"n1","content":"kickoff","created_at":"2026-08-01T10:00:00Z"}]`)

	mock.ExpectQuery(`SELECT(?s).+FROM projects p(?s).+WHERE p\.user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(workspaceColumns).
			AddRow("proj-1", "Website", "Redesign", "in-progress", strPtr("2026-09-30"),
				strPtr("client-1"), clientJSON, tasksJSON, notesJSON, createdAt).
			AddRow("proj-2", "Backlog", "", "", (*string)(nil),
				(*string)(nil), []byte(nil), []byte(`[]`), []byte(`[]`), createdAt))

	records, err := store.FetchWorkspace(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "proj-1", first.ID)
	assert.Equal(t, "Website", first.Name)
	require.NotNil(t, first.Client)
	assert.Equal(t, "Acme", first.Client.Name)
	require.Len(t, first.Tasks, 1)
	assert.Equal(t, "Design", *first.Tasks[0].Title)
	assert.True(t, *first.Tasks[0].Completed)
	require.Len(t, first.Notes, 1)
	assert.Equal(t, "kickoff", *first.Notes[0].Content)

	second := records[1]
	assert.Nil(t, second.Client)
	assert.Empty(t, second.Tasks)
	assert.Empty(t, second.Notes)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspaceStore_FetchWorkspace_QueryError(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	store := NewWorkspaceStore(db)

	mock.ExpectQuery(`SELECT(?s).+FROM projects p`).
		WithArgs("user-1").
		WillReturnError(errors.New("connection reset"))

	_, err := store.FetchWorkspace(context.Background(), "user-1")
	assert.Error(t, err)
}

func TestWorkspaceStore_CheckProjectAccess(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	store := NewWorkspaceStore(db)

	mock.ExpectQuery(`SELECT check_project_access\(\$1, \$2\)`).
		WithArgs("user-1", "proj-1").
		WillReturnRows(pgxmock.NewRows([]string{"check_project_access"}).AddRow(true))

	allowed, err := store.CheckProjectAccess(context.Background(), "user-1", "proj-1")
	require.NoError(t, err)
	assert.True(t, allowed)

	mock.ExpectQuery(`SELECT check_project_access\(\$1, \$2\)`).
		WithArgs("user-1", "proj-2").
		WillReturnRows(pgxmock.NewRows([]string{"check_project_access"}).AddRow(false))

	allowed, err = store.CheckProjectAccess(context.Background(), "user-1", "proj-2")
	require.NoError(t, err)
	assert.False(t, allowed)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspaceStore_CheckProjectAccess_Error(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	store := NewWorkspaceStore(db)

	mock.ExpectQuery(`SELECT check_project_access\(\$1, \$2\)`).
		WithArgs("user-1", "proj-1").
		WillReturnError(errors.New("permission function missing"))

	allowed, err := store.CheckProjectAccess(context.Background(), "user-1", "proj-1")
	assert.Error(t, err)
	assert.False(t, allowed)
}
