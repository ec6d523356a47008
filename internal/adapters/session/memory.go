package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory session store for single-instance deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// Compile-time check that *MemoryStore satisfies Store.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Create stores a new session.
// PRE: s.ID is non-empty
// POST: Session is stored until it expires
func (ms *MemoryStore) Create(_ context.Context, s Session) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sessions[s.ID] = s
	return nil
}

// Get retrieves a session by id.
// PRE: id is non-empty
// POST: Returns the session if present and not expired, ErrNotFound otherwise
func (ms *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	ms.mu.RLock()
	s, ok := ms.sessions[id]
	ms.mu.RUnlock()
	if !ok {
		return Session{}, ErrNotFound
	}
	if s.Expired(ms.now()) {
		ms.mu.Lock()
		delete(ms.sessions, id)
		ms.mu.Unlock()
		return Session{}, ErrNotFound
	}
	return s, nil
}

// Delete removes a session by id.
// PRE: none
// POST: Session with given id is removed
func (ms *MemoryStore) Delete(_ context.Context, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.sessions, id)
	return nil
}

// Len returns the number of stored sessions, including expired ones not yet swept.
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.sessions)
}
