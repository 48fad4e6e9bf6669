package api

import (
	"github.com/gin-gonic/gin"

	"clientflow/internal/api/middleware"
	"clientflow/internal/domain"
	"clientflow/internal/repository"
	"clientflow/internal/services"
)

// WorkspaceHandler serves project, task and client reads from the
// workspace cache, plus the dashboard aggregates.
type WorkspaceHandler struct {
	cache    *services.WorkspaceCache
	store    repository.WorkspaceStore
	security *services.SecurityService
}

// NewWorkspaceHandler creates the workspace handler.
func NewWorkspaceHandler(
	cache *services.WorkspaceCache,
	store repository.WorkspaceStore,
	security *services.SecurityService,
) *WorkspaceHandler {
	return &WorkspaceHandler{cache: cache, store: store, security: security}
}

// ListProjects returns the cached project list, newest first.
// GET /api/projects
func (h *WorkspaceHandler) ListProjects(c *gin.Context) {
	if msg := h.cache.LastError(); msg != "" {
		ErrorResponse(c, domain.NewExternalServiceError("WORKSPACE_UNAVAILABLE", msg, nil))
		return
	}
	SuccessResponse(c, gin.H{
		"projects":   h.cache.Projects(),
		"fetched_at": h.cache.FetchedAt(),
	})
}

// GetProject returns one cached project after an explicit backend
// permission check.
// GET /api/projects/:id
func (h *WorkspaceHandler) GetProject(c *gin.Context) {
	projectID := c.Param("id")
	session, _ := middleware.GetSession(c)

	allowed, err := h.store.CheckProjectAccess(c.Request.Context(), session.UserID, projectID)
	if err != nil {
		ErrorResponse(c, domain.NewExternalServiceError("PERMISSION_CHECK_FAILED", "Failed to verify project access", err))
		return
	}
	if !allowed {
		h.security.LogEvent(c.Request.Context(), domain.EventPermissionViolation, services.EventData{
			UserID:    session.UserID,
			Resource:  "project:" + projectID,
			Action:    "read",
			ClientIP:  c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		ErrorResponse(c, domain.NewAuthorizationError("PROJECT_ACCESS_DENIED", "You do not have access to this project"))
		return
	}

	project, ok := h.cache.ProjectByID(projectID)
	if !ok {
		ErrorResponse(c, domain.NewNotFoundError("PROJECT_NOT_FOUND", "Project not found"))
		return
	}
	SuccessResponse(c, project)
}

// GetProjectTasks returns the cached tasks for a project.
// GET /api/projects/:id/tasks
func (h *WorkspaceHandler) GetProjectTasks(c *gin.Context) {
	projectID := c.Param("id")
	if _, ok := h.cache.ProjectByID(projectID); !ok {
		ErrorResponse(c, domain.NewNotFoundError("PROJECT_NOT_FOUND", "Project not found"))
		return
	}
	SuccessResponse(c, gin.H{"tasks": h.cache.TasksByProject(projectID)})
}

// GetClientProjects returns the cached projects for a client.
// GET /api/clients/:id/projects
func (h *WorkspaceHandler) GetClientProjects(c *gin.Context) {
	SuccessResponse(c, gin.H{"projects": h.cache.ClientProjects(c.Param("id"))})
}

// Dashboard returns workspace-wide aggregates.
// GET /api/dashboard
func (h *WorkspaceHandler) Dashboard(c *gin.Context) {
	if msg := h.cache.LastError(); msg != "" {
		ErrorResponse(c, domain.NewExternalServiceError("WORKSPACE_UNAVAILABLE", msg, nil))
		return
	}
	SuccessResponse(c, h.cache.Summary())
}

// Refresh re-fetches the workspace; used after a mutation elsewhere.
// POST /api/refresh
func (h *WorkspaceHandler) Refresh(c *gin.Context) {
	h.cache.Refetch(c.Request.Context())
	if msg := h.cache.LastError(); msg != "" {
		ErrorResponse(c, domain.NewExternalServiceError("WORKSPACE_UNAVAILABLE", msg, nil))
		return
	}
	SuccessResponse(c, h.cache.Summary())
}
