package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	rec       Record
	expiresAt time.Time
}

// MemoryStore is an in-process Store. Expired entries are dropped
// lazily on the next Get for their ID.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (*Record, error) {
	m.mu.RLock()
	entry, ok := m.entries[sessionID]
	m.mu.RUnlock()

	if !ok {
		return nil, nil
	}

	if m.now().After(entry.expiresAt) {
		m.mu.Lock()
		// re-check under the write lock; a Put may have raced us
		if cur, ok := m.entries[sessionID]; ok && m.now().After(cur.expiresAt) {
			delete(m.entries, sessionID)
		}
		m.mu.Unlock()
		return nil, nil
	}

	rec := entry.rec
	if entry.rec.User != nil {
		user := *entry.rec.User
		rec.User = &user
	}
	return &rec, nil
}

func (m *MemoryStore) Put(_ context.Context, sessionID string, rec *Record, ttl time.Duration) error {
	if sessionID == "" {
		return fmt.Errorf("session: missing session_id")
	}
	if rec == nil {
		return fmt.Errorf("session: nil record")
	}
	if ttl <= 0 {
		return fmt.Errorf("session: ttl must be positive")
	}

	stored := *rec
	if rec.User != nil {
		user := *rec.User
		stored.User = &user
	}

	m.mu.Lock()
	m.entries[sessionID] = memoryEntry{
		rec:       stored,
		expiresAt: m.now().Add(ttl),
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.entries, sessionID)
	m.mu.Unlock()
	return nil
}

// Len reports the number of live entries. Used by tests and the
// debug endpoint.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	now := m.now()
	for _, e := range m.entries {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}
