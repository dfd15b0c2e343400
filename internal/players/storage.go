// Package players tracks which display name and room each live connection
// joined as, so a disconnect can be reconciled against room membership.
package players

import "sync"

// Binding ties a connection to the name and room it joined with.
type Binding struct {
	Name string
	Room string
}

type Store struct {
	mu       sync.Mutex
	bindings map[string]Binding
}

func NewStore() *Store {
	return &Store{
		bindings: make(map[string]Binding),
	}
}

// Bind records that connID joined room as name, replacing any earlier binding.
func (s *Store) Bind(connID, name, room string) Binding {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := Binding{Name: name, Room: room}
	s.bindings[connID] = b
	return b
}

func (s *Store) Get(connID string) (Binding, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bindings[connID]
	return b, ok
}

// Release removes and returns the binding for connID. The second result is
// false for connections that never joined a room.
func (s *Store) Release(connID string) (Binding, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bindings[connID]
	if ok {
		delete(s.bindings, connID)
	}
	return b, ok
}

// Count returns the number of bound connections.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bindings)
}
