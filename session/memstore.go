package session

import (
	"context"
	"sync"
)

// MemStore is an in-process Store. It is the default backend when no Redis
// is configured.
type MemStore struct {
	mu    sync.RWMutex
	slots map[string]string
	subs  map[int]chan struct{}
	next  int
}

func NewMemStore() *MemStore {
	return &MemStore{
		slots: make(map[string]string),
		subs:  make(map[int]chan struct{}),
	}
}

func (s *MemStore) Get(_ context.Context, slot string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.slots[slot]
	return val, ok, nil
}

func (s *MemStore) Set(_ context.Context, slot, value string) error {
	s.mu.Lock()
	s.slots[slot] = value
	s.mu.Unlock()
	s.broadcast()
	return nil
}

func (s *MemStore) Clear(_ context.Context, slot string) error {
	s.mu.Lock()
	delete(s.slots, slot)
	s.mu.Unlock()
	s.broadcast()
	return nil
}

func (s *MemStore) Subscribe(_ context.Context) (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	ch := make(chan struct{}, 16)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (s *MemStore) broadcast() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
			// Subscriber is behind; it will recompute on the next signal.
		}
	}
}
