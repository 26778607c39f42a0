package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned for a session id the store does not hold.
var ErrNotFound = errors.New("session not found")

// Store holds the selectors of every open UI session, keyed by a random id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Selector
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Selector)}
}

// Open creates a session with the first catalog effect selected.
func (st *Store) Open() (string, *Selector) {
	id := uuid.NewString()
	s := New()

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[id] = s
	return id, s
}

// Get returns the selector for id.
func (st *Store) Get(id string) (*Selector, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Close forgets the session.
func (st *Store) Close(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(st.sessions, id)
	return nil
}

// Len reports the number of open sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
