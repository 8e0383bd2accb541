package store

import (
	"sync"

	"github.com/efreitasn/qualifier/internal/domain"
)

// RunStore is a thread-safe in-memory store for qualifier runs.
// The flow writes to it while the status server reads from it.
type RunStore struct {
	mu     sync.RWMutex
	runs   map[string]*domain.Run // run_id → run
	latest string
}

// NewRunStore creates an empty RunStore.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]*domain.Run),
	}
}

// Create adds a new run and marks it as the latest.
func (s *RunStore) Create(r *domain.Run) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *r
	s.runs[r.RunID] = &cp
	s.latest = r.RunID
}

// Update applies fn to the stored run under the write lock. It returns
// domain.ErrRunNotFound if the run does not exist.
func (s *RunStore) Update(id string, fn func(r *domain.Run)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.runs[id]
	if !ok {
		return domain.ErrRunNotFound
	}
	fn(r)
	return nil
}

// Get returns a copy of the run with the given ID, or
// domain.ErrRunNotFound.
func (s *RunStore) Get(id string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	cp := *r
	return &cp, nil
}

// Latest returns a copy of the most recently created run, or
// domain.ErrRunNotFound if none has started.
func (s *RunStore) Latest() (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == "" {
		return nil, domain.ErrRunNotFound
	}
	cp := *s.runs[s.latest]
	return &cp, nil
}
