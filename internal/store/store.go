// Package store holds the published register state for readers.
package store

import (
	"sync"

	"github.com/fairyhunter13/pos-register/internal/register"
)

// Store keeps the latest register state. The state is swapped as a whole,
// so a reader always sees a fully applied command.
type Store struct {
	mu sync.RWMutex
	st register.State
}

// New returns a store holding an idle register.
func New() *Store {
	return &Store{st: register.NewState()}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() register.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st
}

// Replace publishes st if it is newer than the current state. Older or
// equal versions are ignored and reported as false.
func (s *Store) Replace(st register.State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.Version() <= s.st.Version() {
		return false
	}
	s.st = st
	return true
}
