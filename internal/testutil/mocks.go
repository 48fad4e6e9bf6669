// Package testutil provides testing utilities and mock implementations.
package testutil

import (
	"context"
	"sync"

	"clientflow/internal/domain"
)

// MockWorkspaceStore implements repository.WorkspaceStore for testing.
type MockWorkspaceStore struct {
	mu           sync.RWMutex
	records      []domain.RawProjectRecord
	fetchErr     error
	accessGrants map[string]bool
	accessErr    error
	fetchCalls   int
	fetchDelay   func(ctx context.Context) error
}

// NewMockWorkspaceStore creates a new mock workspace store.
func NewMockWorkspaceStore() *MockWorkspaceStore {
	return &MockWorkspaceStore{accessGrants: make(map[string]bool)}
}

// SetRecords sets the records returned by FetchWorkspace.
func (m *MockWorkspaceStore) SetRecords(records []domain.RawProjectRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
}

// SetFetchError makes FetchWorkspace fail with the given error.
func (m *MockWorkspaceStore) SetFetchError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchErr = err
}

// SetFetchDelay installs a hook invoked before FetchWorkspace returns,
// letting tests block the fetch until a context is cancelled.
func (m *MockWorkspaceStore) SetFetchDelay(fn func(ctx context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchDelay = fn
}

// GrantAccess records an access decision for userID/projectID.
func (m *MockWorkspaceStore) GrantAccess(userID, projectID string, allowed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accessGrants[userID+"/"+projectID] = allowed
}

// FetchCalls reports how many times FetchWorkspace ran.
func (m *MockWorkspaceStore) FetchCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fetchCalls
}

// FetchWorkspace returns the configured records or error.
func (m *MockWorkspaceStore) FetchWorkspace(ctx context.Context, _ string) ([]domain.RawProjectRecord, error) {
	m.mu.Lock()
	m.fetchCalls++
	delay := m.fetchDelay
	err := m.fetchErr
	records := make([]domain.RawProjectRecord, len(m.records))
	copy(records, m.records)
	m.mu.Unlock()

	if delay != nil {
		if derr := delay(ctx); derr != nil {
			return nil, derr
		}
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CheckProjectAccess returns the configured access decision.
func (m *MockWorkspaceStore) CheckProjectAccess(_ context.Context, userID, projectID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.accessErr != nil {
		return false, m.accessErr
	}
	return m.accessGrants[userID+"/"+projectID], nil
}

// MockAuditStore implements repository.AuditStore for testing.
type MockAuditStore struct {
	mu        sync.RWMutex
	events    []*domain.SecurityEvent
	appendErr error
}

// NewMockAuditStore creates a new mock audit store.
func NewMockAuditStore() *MockAuditStore {
	return &MockAuditStore{}
}

// SetAppendError makes Append fail with the given error.
func (m *MockAuditStore) SetAppendError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendErr = err
}

// Append records the event.
func (m *MockAuditStore) Append(_ context.Context, event *domain.SecurityEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of the recorded events.
func (m *MockAuditStore) Events() []*domain.SecurityEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.SecurityEvent, len(m.events))
	copy(out, m.events)
	return out
}

// MockAuthProvider implements services.AuthProvider for testing.
type MockAuthProvider struct {
	mu           sync.RWMutex
	session      *domain.Session
	sessionErr   error
	refreshed    *domain.Session
	refreshErr   error
	refreshCalls int
}

// NewMockAuthProvider creates a new mock auth provider.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{}
}

// SetSession sets the session CurrentSession returns.
func (m *MockAuthProvider) SetSession(s *domain.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
}

// SetSessionError makes CurrentSession fail.
func (m *MockAuthProvider) SetSessionError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionErr = err
}

// SetRefreshed sets the session Refresh returns.
func (m *MockAuthProvider) SetRefreshed(s *domain.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshed = s
}

// SetRefreshError makes Refresh fail.
func (m *MockAuthProvider) SetRefreshError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshErr = err
}

// RefreshCalls reports how many times Refresh ran.
func (m *MockAuthProvider) RefreshCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshCalls
}

// CurrentSession returns the configured session.
func (m *MockAuthProvider) CurrentSession(_ context.Context) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.sessionErr != nil {
		return nil, m.sessionErr
	}
	return m.session, nil
}

// Refresh returns the configured refreshed session and records the call.
func (m *MockAuthProvider) Refresh(_ context.Context) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshCalls++
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	if m.refreshed != nil {
		m.session = m.refreshed
	}
	return m.refreshed, nil
}

// CaptureNotifier implements services.Notifier, recording every message.
type CaptureNotifier struct {
	mu        sync.RWMutex
	successes []string
	errors    []string
}

// NewCaptureNotifier creates a new capturing notifier.
func NewCaptureNotifier() *CaptureNotifier {
	return &CaptureNotifier{}
}

// Success records a success message.
func (n *CaptureNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

// Error records an error message.
func (n *CaptureNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

// Successes returns the recorded success messages.
func (n *CaptureNotifier) Successes() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]string, len(n.successes))
	copy(out, n.successes)
	return out
}

// Errors returns the recorded error messages.
func (n *CaptureNotifier) Errors() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]string, len(n.errors))
	copy(out, n.errors)
	return out
}
