package artifact

import "sync"

// InMemoryStore is a trivial in-process Store implementation suited to
// tests, examples and single-process studios. It keeps all artifacts in a
// map guarded by an RWMutex. Data is copied on save and retrieval to avoid
// accidental external mutation of internal buffers.
//
// The store does not enforce retention limits, size quotas or eviction;
// a studio session holds at most a handful of images.
type InMemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string][]byte
	latest    string
}

// NewInMemoryStore returns an empty in-memory artifact store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{artifacts: make(map[string][]byte)}
}

// Save stores (or overwrites) the artifact bytes under name. The input
// slice is copied before storage.
func (s *InMemoryStore) Save(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.artifacts[name] = cp
	s.latest = name
	return nil
}

// Get returns a copy of the stored artifact bytes or ErrNotFound.
func (s *InMemoryStore) Get(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.artifacts[name]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// Latest returns the most recently saved artifact or ErrNotFound when the
// store is empty.
func (s *InMemoryStore) Latest() (string, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == "" {
		return "", nil, ErrNotFound
	}
	data := s.artifacts[s.latest]
	cp := make([]byte, len(data))
	copy(cp, data)
	return s.latest, cp, nil
}

// List returns the stored artifact names as a snapshot safe for caller
// mutation.
func (s *InMemoryStore) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.artifacts))
	for name := range s.artifacts {
		names = append(names, name)
	}
	return names, nil
}

// Delete removes the artifact if present or returns ErrNotFound.
func (s *InMemoryStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.artifacts[name]; !ok {
		return ErrNotFound
	}
	delete(s.artifacts, name)
	if s.latest == name {
		s.latest = ""
	}
	return nil
}
