package sessions

import (
	"context"
	"sync"
	"time"

	"esports-registration/registration"

	"github.com/google/uuid"
)

type memoryLock struct {
	token     string
	expiresAt time.Time
}

type memoryEntry struct {
	workflow  registration.Workflow
	expiresAt time.Time
}

// MemoryStore is a process-local Store with a sliding TTL.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
	locks   map[string]memoryLock
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
		locks:   make(map[string]memoryLock),
	}
}

func (s *MemoryStore) Load(ctx context.Context, id string) (registration.Workflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return registration.Workflow{}, ErrNotFound
	}
	if s.ttl > 0 && s.now().After(e.expiresAt) {
		delete(s.entries, id)
		return registration.Workflow{}, ErrNotFound
	}
	return e.workflow, nil
}

func (s *MemoryStore) Save(ctx context.Context, id string, w registration.Workflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Policy = registration.Policy{}
	s.entries[id] = memoryEntry{workflow: w, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) Lock(ctx context.Context, id string, ttl time.Duration) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if l, ok := s.locks[id]; ok && now.Before(l.expiresAt) {
		return nil, ErrLocked
	}
	token := uuid.NewString()
	s.locks[id] = memoryLock{token: token, expiresAt: now.Add(ttl)}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if l, ok := s.locks[id]; ok && l.token == token {
			delete(s.locks, id)
		}
	}, nil
}

// Purge drops expired entries and reports how many were removed.
func (s *MemoryStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for id, e := range s.entries {
		if s.ttl > 0 && now.After(e.expiresAt) {
			delete(s.entries, id)
			n++
		}
	}
	for id, l := range s.locks {
		if now.After(l.expiresAt) {
			delete(s.locks, id)
		}
	}
	return n
}
