package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientflow/internal/api/middleware"
	"clientflow/internal/domain"
	"clientflow/internal/services"
	"clientflow/internal/testutil"
)

var testNow = func() time.Time {
	return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
}

func workspaceRecords() []domain.RawProjectRecord {
	title := "Design homepage"
	return []domain.RawProjectRecord{
		{
			ID:     "proj-1",
			Name:   "Website",
			Status: "in-progress",
			Client: &domain.Client{ID: "client-1", Name: "Acme"},
			Tasks:  []domain.RawTaskRecord{{Title: &title}},
		},
	}
}

type handlerFixture struct {
	router *gin.Engine
	store  *testutil.MockWorkspaceStore
	cache  *services.WorkspaceCache
	audit  *testutil.MockAuditStore
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := testutil.NewMockWorkspaceStore()
	store.SetRecords(workspaceRecords())

	provider := testutil.NewMockAuthProvider()
	provider.SetSession(&domain.Session{
		UserID:    "user-1",
		ExpiresAt: testNow().Add(time.Hour).Unix(),
	})
	validator := services.NewSessionValidator(provider, services.SessionValidatorConfig{Now: testNow})

	audit := testutil.NewMockAuditStore()
	security := services.NewSecurityService(audit, services.SecurityServiceConfig{Now: testNow})

	retry := services.NewRetryExecutor(testutil.NewCaptureNotifier(), nil)
	cache := services.NewWorkspaceCache(store, validator, retry, services.WorkspaceCacheConfig{
		RetryOptions: services.RetryOptions{
			MaxRetries: 1,
			RetryDelay: time.Millisecond,
			Timeout:    time.Second,
		},
		Now: testNow,
	})

	handler := NewWorkspaceHandler(cache, store, security)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.SessionContextKey, &domain.Session{UserID: "user-1"})
	})
	router.GET("/api/projects", handler.ListProjects)
	router.GET("/api/projects/:id", handler.GetProject)
	router.GET("/api/projects/:id/tasks", handler.GetProjectTasks)
	router.GET("/api/clients/:id/projects", handler.GetClientProjects)
	router.GET("/api/dashboard", handler.Dashboard)
	router.POST("/api/refresh", handler.Refresh)

	return &handlerFixture{router: router, store: store, cache: cache, audit: audit}
}

func (f *handlerFixture) do(method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	f.router.ServeHTTP(w, req)
	return w
}

func TestListProjects(t *testing.T) {
	f := newHandlerFixture(t)
	f.cache.Fetch(context.Background())

	w := f.do(http.MethodGet, "/api/projects")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Projects []domain.Project `json:"projects"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data.Projects, 1)
	assert.Equal(t, "Website", body.Data.Projects[0].Name)
}

func TestListProjects_CacheFailure(t *testing.T) {
	f := newHandlerFixture(t)
	f.store.SetFetchError(assert.AnError)
	f.cache.Fetch(context.Background())

	w := f.do(http.MethodGet, "/api/projects")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "WORKSPACE_UNAVAILABLE")
}

func TestGetProject_AllowedAndDenied(t *testing.T) {
	f := newHandlerFixture(t)
	f.cache.Fetch(context.Background())

	f.store.GrantAccess("user-1", "proj-1", true)
	w := f.do(http.MethodGet, "/api/projects/proj-1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Website")

	w = f.do(http.MethodGet, "/api/projects/proj-other")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "PROJECT_ACCESS_DENIED")

	// The denial left an audit trail.
	events := f.audit.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, domain.EventPermissionViolation, events[len(events)-1].Type)
}

func TestGetProject_NotInCache(t *testing.T) {
	f := newHandlerFixture(t)
	f.cache.Fetch(context.Background())
	f.store.GrantAccess("user-1", "proj-ghost", true)

	w := f.do(http.MethodGet, "/api/projects/proj-ghost")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PROJECT_NOT_FOUND")
}

func TestGetProjectTasks(t *testing.T) {
	f := newHandlerFixture(t)
	f.cache.Fetch(context.Background())

	w := f.do(http.MethodGet, "/api/projects/proj-1/tasks")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Design homepage")

	w = f.do(http.MethodGet, "/api/projects/missing/tasks")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetClientProjects(t *testing.T) {
	f := newHandlerFixture(t)
	f.cache.Fetch(context.Background())

	w := f.do(http.MethodGet, "/api/clients/client-1/projects")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Website")

	w = f.do(http.MethodGet, "/api/clients/nobody/projects")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Website")
}

func TestDashboard(t *testing.T) {
	f := newHandlerFixture(t)
	f.cache.Fetch(context.Background())

	w := f.do(http.MethodGet, "/api/dashboard")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data services.WorkspaceSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Data.TotalProjects)
	assert.Equal(t, 1, body.Data.TotalTasks)
}

func TestRefresh_RefetchesWorkspace(t *testing.T) {
	f := newHandlerFixture(t)
	f.cache.Fetch(context.Background())
	before := f.store.FetchCalls()

	w := f.do(http.MethodPost, "/api/refresh")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, before+1, f.store.FetchCalls())
}
