package services

import (
	"log/slog"
	"sync"
	"time"
)

// RefreshEvent tells connected dashboard clients the workspace cache was
// rebuilt and they should re-render from the fresh data.
type RefreshEvent struct {
	Type        string    `json:"type"`
	ProjectsLen int       `json:"projects"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// RefreshBroadcaster fans workspace refresh events out to subscribers
// (websocket connections, tests). Slow subscribers are skipped, not
// waited on; a dashboard that misses one refresh catches the next.
type RefreshBroadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]chan RefreshEvent
	logger      *slog.Logger
	queueSize   int
}

// NewRefreshBroadcaster creates a broadcaster with the given per-subscriber
// queue size (default 8).
func NewRefreshBroadcaster(logger *slog.Logger, queueSize int) *RefreshBroadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	if queueSize <= 0 {
		queueSize = 8
	}
	return &RefreshBroadcaster{
		subscribers: make(map[string]chan RefreshEvent),
		logger:      logger,
		queueSize:   queueSize,
	}
}

// Subscribe registers a subscriber and returns its event channel.
func (b *RefreshBroadcaster) Subscribe(id string) <-chan RefreshEvent {
	ch := make(chan RefreshEvent, b.queueSize)
	b.mu.Lock()
	if old, ok := b.subscribers[id]; ok {
		close(old)
	}
	b.subscribers[id] = ch
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *RefreshBroadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

// BroadcastRefresh notifies all subscribers of a completed cache rebuild.
func (b *RefreshBroadcaster) BroadcastRefresh(projects int, refreshedAt time.Time) {
	event := RefreshEvent{Type: "workspace_refreshed", ProjectsLen: projects, RefreshedAt: refreshedAt}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.logger.Debug("dropping refresh event for slow subscriber", "subscriber", id)
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *RefreshBroadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
