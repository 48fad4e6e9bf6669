package api

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"clientflow/internal/api/middleware"
	"clientflow/internal/services"
)

// RouterConfig bundles the dependencies the HTTP surface needs.
type RouterConfig struct {
	Cache       *services.WorkspaceCache
	Validator   *services.SessionValidator
	Security    *services.SecurityService
	Broadcaster *services.RefreshBroadcaster
	RateLimiter middleware.RateLimiterBackend
	Logger      *slog.Logger
	Environment string
}

// NewRouter assembles the gin engine with the full middleware chain and
// all workspace routes.
func NewRouter(workspace *WorkspaceHandler, realtime *RealtimeHandler, health *HealthHandler, cfg RouterConfig) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging(middleware.LoggingConfig{
		Output:    os.Stdout,
		SkipPaths: []string{"/health"},
	}))
	router.Use(middleware.Recovery(logger))

	router.GET("/health", health.Health)

	auth := middleware.NewAuthMiddleware(cfg.Validator, cfg.Security)

	apiGroup := router.Group("/api")
	if cfg.RateLimiter != nil {
		apiGroup.Use(middleware.RateLimit(cfg.RateLimiter, cfg.Security))
	}
	apiGroup.Use(auth.RequireSession())
	{
		apiGroup.GET("/projects", workspace.ListProjects)
		apiGroup.GET("/projects/:id", workspace.GetProject)
		apiGroup.GET("/projects/:id/tasks", workspace.GetProjectTasks)
		apiGroup.GET("/clients/:id/projects", workspace.GetClientProjects)
		apiGroup.GET("/dashboard", workspace.Dashboard)
		apiGroup.POST("/refresh", workspace.Refresh)
		apiGroup.GET("/realtime", realtime.Stream)
	}

	return router
}
