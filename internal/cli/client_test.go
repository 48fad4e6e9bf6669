package cli

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient_UnwrapsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer rt-secret", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/projects", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"projects":[{"id":"p1","name":"Website","status":"in-progress","tasks":[],"notes":[],"created_at":"2026-08-01T10:00:00Z"}],"fetched_at":"2026-09-01T12:00:00Z"}}`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, "rt-secret")
	projects, err := client.GetProjects()

	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "p1", projects[0].ID)
	assert.Equal(t, "Website", projects[0].Name)
}

func TestAPIClient_SurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":{"type":"AUTHENTICATION_ERROR","code":"SESSION_INVALID","message":"No active session","should_reauthenticate":true}}`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, "")
	_, err := client.GetDashboard()

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "SESSION_INVALID", apiErr.Code)
	assert.Equal(t, "No active session", apiErr.Message)
}

func TestAPIClient_HealthChecksStatusOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, "")
	assert.NoError(t, client.Health())
}
