package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"clientflow/internal/domain"
	"clientflow/internal/repository"
)

// WorkspaceCache loads the signed-in user's projects, tasks, clients and
// notes in one denormalized round trip and serves them from memory with
// O(1) lookup indexes. Indexes are never patched incrementally: each fetch
// rebuilds them off-lock and swaps everything in under one write lock, so
// readers see either the previous complete set or the new complete set.
type WorkspaceCache struct {
	store          repository.WorkspaceStore
	validator      *SessionValidator
	retry          *RetryExecutor
	broadcaster    *RefreshBroadcaster
	logger         *slog.Logger
	retryOpts      RetryOptions
	expectedUserID string
	now            func() time.Time

	mu             sync.RWMutex
	generation     uint64
	cancelActive   context.CancelFunc
	projects       []*domain.Project
	byID           map[string]*domain.Project
	tasksByProject map[string][]domain.Task
	byClient       map[string][]*domain.Project
	lastError      string
	fetchedAt      time.Time
}

// WorkspaceCacheConfig configures a WorkspaceCache. Broadcaster may be nil;
// ExpectedUserID pins the cache to one account so a swapped session cannot
// leak another user's data into it.
type WorkspaceCacheConfig struct {
	Broadcaster    *RefreshBroadcaster
	Logger         *slog.Logger
	RetryOptions   RetryOptions
	ExpectedUserID string
	Now            func() time.Time
}

// NewWorkspaceCache creates an empty cache; call Fetch to populate it.
func NewWorkspaceCache(
	store repository.WorkspaceStore,
	validator *SessionValidator,
	retry *RetryExecutor,
	cfg WorkspaceCacheConfig,
) *WorkspaceCache {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &WorkspaceCache{
		store:          store,
		validator:      validator,
		retry:          retry,
		broadcaster:    cfg.Broadcaster,
		logger:         cfg.Logger,
		retryOpts:      cfg.RetryOptions,
		expectedUserID: cfg.ExpectedUserID,
		now:            cfg.Now,
		byID:           make(map[string]*domain.Project),
		tasksByProject: make(map[string][]domain.Task),
		byClient:       make(map[string][]*domain.Project),
	}
}

// Fetch loads the workspace. Starting a new fetch cancels any in-flight
// one; the cancelled fetch's result is discarded via a generation check
// rather than racing to update shared state. Cancellation is a silent
// no-op. A non-cancellation failure records a user-visible error and
// clears the cache rather than leaving it stale.
func (c *WorkspaceCache) Fetch(ctx context.Context) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	if c.cancelActive != nil {
		c.cancelActive()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancelActive = cancel
	c.mu.Unlock()

	res := c.validator.ValidateForDatabaseOperation(fetchCtx, c.expectedUserID)
	if !res.IsValid {
		if fetchCtx.Err() != nil {
			return
		}
		c.applyFailure(gen, "Your session has expired. Please sign in again.")
		return
	}

	records, ok := ExecuteWithRetry(fetchCtx, c.retry, "Loading your workspace", c.retryOpts,
		func(ctx context.Context) ([]domain.RawProjectRecord, error) {
			return c.store.FetchWorkspace(ctx, res.Session.UserID)
		})
	if fetchCtx.Err() != nil {
		return
	}
	if !ok {
		c.applyFailure(gen, "Failed to load your workspace.")
		return
	}

	now := c.now()
	projects := make([]*domain.Project, 0, len(records))
	byID := make(map[string]*domain.Project, len(records))
	tasksByProject := make(map[string][]domain.Task, len(records))
	byClient := make(map[string][]*domain.Project)
	for _, rec := range records {
		p := domain.NormalizeProject(rec, now)
		projects = append(projects, p)
		byID[p.ID] = p
		tasksByProject[p.ID] = p.Tasks
		if p.ClientID != "" {
			byClient[p.ClientID] = append(byClient[p.ClientID], p)
		}
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.projects = projects
	c.byID = byID
	c.tasksByProject = tasksByProject
	c.byClient = byClient
	c.lastError = ""
	c.fetchedAt = now
	c.mu.Unlock()

	c.logger.Debug("workspace cache refreshed", "projects", len(projects))
	if c.broadcaster != nil {
		c.broadcaster.BroadcastRefresh(len(projects), now)
	}
}

// Refetch is Fetch under its manual-invalidation name, for callers that
// just mutated something elsewhere and want fresh state.
func (c *WorkspaceCache) Refetch(ctx context.Context) {
	c.Fetch(ctx)
}

// applyFailure clears the cache and records the error, unless a newer
// fetch has already superseded this one.
func (c *WorkspaceCache) applyFailure(gen uint64, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}
	c.projects = nil
	c.byID = make(map[string]*domain.Project)
	c.tasksByProject = make(map[string][]domain.Task)
	c.byClient = make(map[string][]*domain.Project)
	c.lastError = message
}

// ProjectByID returns the cached project for the id.
func (c *WorkspaceCache) ProjectByID(id string) (*domain.Project, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	return p, ok
}

// TasksByProject returns the cached tasks for the project id.
func (c *WorkspaceCache) TasksByProject(projectID string) []domain.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tasksByProject[projectID]
}

// ClientProjects returns the cached projects for the client id.
func (c *WorkspaceCache) ClientProjects(clientID string) []*domain.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byClient[clientID]
}

// Projects returns the canonical project list, newest first.
func (c *WorkspaceCache) Projects() []*domain.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*domain.Project, len(c.projects))
	copy(out, c.projects)
	return out
}

// LastError returns the user-visible error from the most recent fetch,
// empty when the fetch succeeded.
func (c *WorkspaceCache) LastError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// FetchedAt returns when the cache was last populated.
func (c *WorkspaceCache) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}

// WorkspaceSummary aggregates the cache for the dashboard.
type WorkspaceSummary struct {
	TotalProjects     int     `json:"total_projects"`
	CompletedProjects int     `json:"completed_projects"`
	ActiveProjects    int     `json:"active_projects"`
	TotalTasks        int     `json:"total_tasks"`
	CompletedTasks    int     `json:"completed_tasks"`
	OverdueTasks      int     `json:"overdue_tasks"`
	HighPriorityTasks int     `json:"high_priority_tasks"`
	AverageProgress   float64 `json:"average_progress"`
}

// Summary computes dashboard aggregates from the cached projects.
func (c *WorkspaceCache) Summary() WorkspaceSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var s WorkspaceSummary
	for _, p := range c.projects {
		s.TotalProjects++
		switch p.Status {
		case domain.ProjectCompleted:
			s.CompletedProjects++
		case domain.ProjectInProgress:
			s.ActiveProjects++
		}
		s.TotalTasks += p.TotalTasksCount
		s.CompletedTasks += p.CompletedTasksCount
		s.OverdueTasks += len(p.OverdueTasks)
		s.HighPriorityTasks += p.HighPriorityCount
		s.AverageProgress += p.ProgressPercentage
	}
	if s.TotalProjects > 0 {
		s.AverageProgress /= float64(s.TotalProjects)
	}
	return s
}
