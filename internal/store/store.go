package store

import "sync"

type Action struct {
	Type    string
	Payload any
}

type Reducer[S any] func(state S, action Action) S

type Listener[S any] func(state S, action Action)

// Store is a reducer-driven state container. Every mutation goes through
// Dispatch, which applies the reducer under the store lock.
type Store[S any] struct {
	mu        sync.RWMutex
	state     S
	reducer   Reducer[S]
	listeners map[int]Listener[S]
	nextID    int
}

func New[S any](initial S, reducer Reducer[S]) *Store[S] {
	return &Store[S]{
		state:     initial,
		reducer:   reducer,
		listeners: make(map[int]Listener[S]),
	}
}

func (s *Store[S]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store[S]) Dispatch(action Action) S {
	s.mu.Lock()
	s.state = s.reducer(s.state, action)
	next := s.state
	listeners := make([]Listener[S], 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next, action)
	}
	return next
}

// Subscribe registers fn to run after each dispatch and returns a func
// that removes it.
func (s *Store[S]) Subscribe(fn Listener[S]) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
