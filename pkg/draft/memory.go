package draft

import "sync"

// MemoryStore keeps drafts in process memory. Useful for tests and for hosts
// that only want draft semantics within a single run.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]map[string]string
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]map[string]string)}
}

// Save implements Store.
func (s *MemoryStore) Save(formID string, values map[string]string) error {
	if err := validFormID(formID); err != nil {
		return err
	}
	clone := make(map[string]string, len(values))
	for k, v := range values {
		clone[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[Key(formID)] = clone
	return nil
}

// Load implements Store.
func (s *MemoryStore) Load(formID string) (map[string]string, error) {
	if err := validFormID(formID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.drafts[Key(formID)]
	out := make(map[string]string, len(stored))
	if !ok {
		return out, nil
	}
	for k, v := range stored {
		out[k] = v
	}
	return out, nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(formID string) error {
	if err := validFormID(formID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, Key(formID))
	return nil
}
