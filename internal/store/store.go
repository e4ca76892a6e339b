// Package store holds the single source of truth for application state.
// All mutation goes through Dispatch, which applies the pure Reduce function
// under a mutex and hands subscribers a copy of the resulting state.
package store

import (
	"sync"

	"github.com/dori/mindlist/internal/model"
)

// Listener receives a copy of the state after every dispatch.
type Listener func(model.AppState)

// Store owns the application state. Safe for use from multiple goroutines;
// each dispatch is applied atomically.
type Store struct {
	mu        sync.Mutex
	state     model.AppState
	listeners []Listener
}

// New creates a store seeded with the given state.
func New(initial model.AppState) *Store {
	return &Store{state: initial.Clone()}
}

// State returns a copy of the current state.
func (s *Store) State() model.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies an action and returns a copy of the resulting state.
// Listeners are notified synchronously, outside the state lock, in
// subscription order.
func (s *Store) Dispatch(action Action) model.AppState {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	snapshot := s.state.Clone()
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot.Clone())
	}
	return snapshot
}

// Subscribe registers a listener for post-dispatch state snapshots.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}
