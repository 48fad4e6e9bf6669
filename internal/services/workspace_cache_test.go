package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientflow/internal/domain"
	"clientflow/internal/testutil"
)

func cacheFixtures() []domain.RawProjectRecord {
	title1 := "Design homepage"
	title2 := "Ship invoices"
	status := "completed"
	return []domain.RawProjectRecord{
		{
			ID:     "proj-1",
			Name:   "Website",
			Status: "in-progress",
			Client: &domain.Client{ID: "client-1", Name: "Acme"},
			Tasks: []domain.RawTaskRecord{
				{Title: &title1, Status: &status},
			},
		},
		{
			ID:     "proj-2",
			Name:   "Billing",
			Status: "pending",
			Client: &domain.Client{ID: "client-1", Name: "Acme"},
			Tasks: []domain.RawTaskRecord{
				{Title: &title2},
			},
		},
		{
			ID:     "proj-3",
			Name:   "Internal tooling",
			Status: "completed",
		},
	}
}

func newCacheUnderTest(t *testing.T, store *testutil.MockWorkspaceStore) (*WorkspaceCache, *testutil.CaptureNotifier) {
	t.Helper()

	provider := testutil.NewMockAuthProvider()
	provider.SetSession(&domain.Session{
		UserID:    "user-1",
		ExpiresAt: fixedNow().Add(time.Hour).Unix(),
	})
	validator := NewSessionValidator(provider, SessionValidatorConfig{Now: fixedNow})

	notifier := testutil.NewCaptureNotifier()
	retry := NewRetryExecutor(notifier, nil)

	cache := NewWorkspaceCache(store, validator, retry, WorkspaceCacheConfig{
		RetryOptions:   fastOpts,
		ExpectedUserID: "user-1",
		Now:            fixedNow,
	})
	return cache, notifier
}

func TestWorkspaceCache_FetchBuildsIndexes(t *testing.T) {
	store := testutil.NewMockWorkspaceStore()
	store.SetRecords(cacheFixtures())
	cache, notifier := newCacheUnderTest(t, store)

	cache.Fetch(context.Background())

	require.Empty(t, cache.LastError())
	assert.Empty(t, notifier.Errors())
	assert.Len(t, cache.Projects(), 3)

	p, ok := cache.ProjectByID("proj-1")
	require.True(t, ok)
	assert.Equal(t, "Website", p.Name)
	assert.Equal(t, "Acme", p.ClientName)

	// Index coherency: the tasks index mirrors each project's tasks.
	for _, proj := range cache.Projects() {
		assert.Len(t, cache.TasksByProject(proj.ID), len(proj.Tasks))
	}

	clientProjects := cache.ClientProjects("client-1")
	assert.Len(t, clientProjects, 2)
	assert.Empty(t, cache.ClientProjects("client-2"))
	assert.Equal(t, fixedNow(), cache.FetchedAt())
}

func TestWorkspaceCache_RefetchIsIdempotent(t *testing.T) {
	store := testutil.NewMockWorkspaceStore()
	store.SetRecords(cacheFixtures())
	cache, _ := newCacheUnderTest(t, store)

	cache.Fetch(context.Background())
	before := cache.Summary()

	cache.Refetch(context.Background())
	after := cache.Summary()

	assert.Equal(t, before, after)
	assert.Equal(t, 2, store.FetchCalls())
}

func TestWorkspaceCache_FailureClearsCache(t *testing.T) {
	store := testutil.NewMockWorkspaceStore()
	store.SetRecords(cacheFixtures())
	cache, notifier := newCacheUnderTest(t, store)

	cache.Fetch(context.Background())
	require.Len(t, cache.Projects(), 3)

	store.SetFetchError(errors.New("backend down"))
	cache.Fetch(context.Background())

	assert.Equal(t, "Failed to load your workspace.", cache.LastError())
	assert.Empty(t, cache.Projects())
	_, ok := cache.ProjectByID("proj-1")
	assert.False(t, ok)
	require.NotEmpty(t, notifier.Errors())
}

func TestWorkspaceCache_InvalidSessionFails(t *testing.T) {
	store := testutil.NewMockWorkspaceStore()
	store.SetRecords(cacheFixtures())

	provider := testutil.NewMockAuthProvider()
	validator := NewSessionValidator(provider, SessionValidatorConfig{Now: fixedNow})
	retry := NewRetryExecutor(testutil.NewCaptureNotifier(), nil)
	cache := NewWorkspaceCache(store, validator, retry, WorkspaceCacheConfig{
		RetryOptions: fastOpts,
		Now:          fixedNow,
	})

	cache.Fetch(context.Background())

	assert.Equal(t, "Your session has expired. Please sign in again.", cache.LastError())
	assert.Empty(t, cache.Projects())
	assert.Equal(t, 0, store.FetchCalls())
}

func TestWorkspaceCache_CancelledFetchIsDiscarded(t *testing.T) {
	store := testutil.NewMockWorkspaceStore()
	store.SetRecords(cacheFixtures())
	cache, notifier := newCacheUnderTest(t, store)

	cache.Fetch(context.Background())
	require.Len(t, cache.Projects(), 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cache.Fetch(ctx)

	// A cancelled fetch neither clears the cache nor notifies.
	assert.Len(t, cache.Projects(), 3)
	assert.Empty(t, cache.LastError())
	assert.Empty(t, notifier.Errors())
}

func TestWorkspaceCache_NewFetchCancelsInFlight(t *testing.T) {
	store := testutil.NewMockWorkspaceStore()
	store.SetRecords(cacheFixtures())
	cache, notifier := newCacheUnderTest(t, store)

	started := make(chan struct{})
	release := make(chan struct{})
	cancelled := make(chan struct{})
	first := true
	store.SetFetchDelay(func(ctx context.Context) error {
		if first {
			first = false
			close(started)
			select {
			case <-ctx.Done():
				close(cancelled)
				return ctx.Err()
			case <-release:
			}
		}
		return nil
	})

	go cache.Fetch(context.Background())
	<-started

	// Second fetch supersedes the first.
	cache.Fetch(context.Background())

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("first fetch was not cancelled")
	}
	close(release)

	assert.Len(t, cache.Projects(), 3)
	assert.Empty(t, cache.LastError())
	assert.Empty(t, notifier.Errors())
}

func TestWorkspaceCache_Summary(t *testing.T) {
	store := testutil.NewMockWorkspaceStore()
	store.SetRecords(cacheFixtures())
	cache, _ := newCacheUnderTest(t, store)

	cache.Fetch(context.Background())
	s := cache.Summary()

	assert.Equal(t, 3, s.TotalProjects)
	assert.Equal(t, 1, s.ActiveProjects)
	assert.Equal(t, 1, s.CompletedProjects)
	assert.Equal(t, 2, s.TotalTasks)
	assert.Equal(t, 1, s.CompletedTasks)
	// proj-1 at 100%, proj-2 at 0%, proj-3 with no tasks at 0%.
	assert.InDelta(t, 100.0/3, s.AverageProgress, 0.01)
}

func TestWorkspaceCache_BroadcastsOnRefresh(t *testing.T) {
	store := testutil.NewMockWorkspaceStore()
	store.SetRecords(cacheFixtures())

	provider := testutil.NewMockAuthProvider()
	provider.SetSession(&domain.Session{
		UserID:    "user-1",
		ExpiresAt: fixedNow().Add(time.Hour).Unix(),
	})
	validator := NewSessionValidator(provider, SessionValidatorConfig{Now: fixedNow})
	retry := NewRetryExecutor(testutil.NewCaptureNotifier(), nil)
	broadcaster := NewRefreshBroadcaster(nil, 4)

	cache := NewWorkspaceCache(store, validator, retry, WorkspaceCacheConfig{
		Broadcaster:  broadcaster,
		RetryOptions: fastOpts,
		Now:          fixedNow,
	})

	events := broadcaster.Subscribe("test")
	defer broadcaster.Unsubscribe("test")

	cache.Fetch(context.Background())

	select {
	case ev := <-events:
		assert.Equal(t, 3, ev.ProjectsLen)
		assert.Equal(t, fixedNow(), ev.RefreshedAt)
	case <-time.After(time.Second):
		t.Fatal("no refresh event received")
	}
}
