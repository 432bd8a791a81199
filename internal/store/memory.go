// internal/store/memory.go
//
// In-memory registry of live session hosts.
//
// Characteristics:
//   - Stores *session.Host objects keyed by session id in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; progress lives in SQLite instead.
//   - Idle hosts can be evicted with Sweep, which also stops their timers.

package store

import (
	"context"
	"sync"
	"time"

	"github.com/robalobadob/wordzapp/internal/session"
)

// Store defines the registry interface for session hosts.
type Store interface {
	// Save adds or replaces a host.
	Save(ctx context.Context, h *session.Host) error

	// Get retrieves a host by id.
	// Returns session.ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (*session.Host, error)

	// Delete closes and removes a host. Unknown ids are ignored.
	Delete(ctx context.Context, id string) error

	// Sweep closes and removes hosts idle since before cutoff, returning how many.
	Sweep(ctx context.Context, cutoff time.Time) int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex             // guards hosts map
	hosts map[string]*session.Host // keyed by Host.ID()
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{hosts: make(map[string]*session.Host)}
}

func (m *memory) Save(ctx context.Context, h *session.Host) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.hosts[h.ID()]; ok && old != h {
		old.Close()
	}
	m.hosts[h.ID()] = h
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*session.Host, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if h, ok := m.hosts[id]; ok {
		return h, nil
	}
	return nil, session.ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.hosts[id]; ok {
		h.Close()
		delete(m.hosts, id)
	}
	return nil
}

func (m *memory) Sweep(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, h := range m.hosts {
		if h.LastActive().Before(cutoff) {
			h.Close()
			delete(m.hosts, id)
			n++
		}
	}
	return n
}
