package cart

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// defaultIdleTTL is how long an untouched Store stays resident before the
// eviction sweep drops it. Evicted owners re-hydrate from storage on their
// next request.
const defaultIdleTTL = 30 * time.Minute

// entry pairs a lazily hydrated Store with its last access time. Hydration
// runs under the entry's own once, never under the manager lock.
type entry struct {
	once     sync.Once
	store    *Store
	lastUsed time.Time
}

// Manager hands out the per-owner Store instances. Each owner gets exactly
// one resident Store at a time, so all mutations for a session funnel
// through a single serialized state.
type Manager struct {
	storage Storage
	lg      *zap.Logger
	idleTTL time.Duration

	mu      sync.Mutex
	entries map[string]*entry
}

// NewManager creates a Manager backed by the given snapshot storage.
func NewManager(storage Storage, lg *zap.Logger) *Manager {
	return &Manager{
		storage: storage,
		lg:      lg,
		idleTTL: defaultIdleTTL,
		entries: make(map[string]*entry),
	}
}

// For returns the owner's Store, creating and hydrating it on first use.
// The manager lock covers only the map lookup; a storage read for one owner
// never blocks another owner's request.
func (m *Manager) For(ctx context.Context, owner string) *Store {
	m.mu.Lock()
	e, ok := m.entries[owner]
	if !ok {
		e = &entry{}
		m.entries[owner] = e
	}
	e.lastUsed = time.Now()
	m.mu.Unlock()

	e.once.Do(func() {
		e.store = NewStore(ctx, owner, m.storage, m.lg)
	})
	return e.store
}

// StartEviction launches a background sweep that drops Stores idle for
// longer than the manager's TTL, until ctx is cancelled. Without it the
// entry map grows with every distinct owner ever seen.
func (m *Manager) StartEviction(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.idleTTL / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				m.evictIdle(now)
			}
		}
	}()
}

func (m *Manager) evictIdle(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for owner, e := range m.entries {
		if now.Sub(e.lastUsed) >= m.idleTTL {
			delete(m.entries, owner)
		}
	}
}
