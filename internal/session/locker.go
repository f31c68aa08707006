package session

import "sync"

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Locker serializes writes per session ID. Mutating handlers take the
// ID's lock around the load-mutate-store window so that a slow
// refresh cannot clobber a concurrent logout on the same session.
// Entries are dropped once the last holder releases them.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*lockEntry)}
}

func (l *Locker) Lock(sessionID string) {
	l.mu.Lock()
	entry, ok := l.locks[sessionID]
	if !ok {
		entry = &lockEntry{}
		l.locks[sessionID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

func (l *Locker) Unlock(sessionID string) {
	l.mu.Lock()
	entry, ok := l.locks[sessionID]
	if !ok {
		l.mu.Unlock()
		panic("session: unlock of unheld session lock")
	}
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, sessionID)
	}
	l.mu.Unlock()

	entry.mu.Unlock()
}
