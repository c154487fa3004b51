package workspace

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aanand-mishra/students-admin/internal/storage"
)

// Manager keeps one ListState per session id.
type Manager struct {
	store storage.Storage
	now   func() time.Time

	mu     sync.RWMutex
	states map[string]*ListState
}

// NewManager creates an empty manager whose lists are backed by store.
func NewManager(store storage.Storage) *Manager {
	return &Manager{
		store:  store,
		now:    time.Now,
		states: make(map[string]*ListState),
	}
}

// Get returns the list for sessionID, creating an empty one on first use.
func (m *Manager) Get(sessionID string) *ListState {
	m.mu.RLock()
	state, ok := m.states[sessionID]
	m.mu.RUnlock()

	if !ok {
		m.mu.Lock()
		state, ok = m.states[sessionID]
		if !ok {
			state = NewListState(m.store)
			m.states[sessionID] = state
		}
		m.mu.Unlock()
	}

	state.touch(m.now())
	return state
}

// Drop forgets the list for sessionID.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	delete(m.states, sessionID)
	m.mu.Unlock()
}

// Len returns the number of live lists.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.states)
}

// Prune drops every list not used for longer than maxIdle and returns how
// many were dropped.
func (m *Manager) Prune(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := 0
	for id, state := range m.states {
		if state.idleSince().Before(cutoff) {
			delete(m.states, id)
			dropped++
		}
	}

	return dropped
}

// RunPruner calls Prune every interval until ctx is done. A non-positive
// interval disables pruning.
func (m *Manager) RunPruner(ctx context.Context, interval, maxIdle time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Prune(maxIdle); n > 0 {
				slog.Debug("pruned idle workspaces",
					slog.Int("dropped", n),
					slog.Int("remaining", m.Len()))
			}
		}
	}
}
