package store

import "sync"

// MemoryStore is an in-memory implementation of Store. It is the default
// backend and the one used by tests.
type MemoryStore struct {
	slots map[string]string
	mu    sync.RWMutex
}

// NewMemoryStore creates a new instance of MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		slots: make(map[string]string),
	}
}

// Get returns the value at key and whether the slot exists.
func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.slots[key]
	return value, ok, nil
}

// Set writes value to key, creating the slot if needed.
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[key] = value
	return nil
}

// Delete removes the slot at key. Deleting a missing slot is a no-op.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, key)
	return nil
}

// Update runs fn while holding the write lock, so the batch of mutations is
// observed atomically. If fn returns an error the original slots are
// restored.
func (s *MemoryStore) Update(fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[string]string, len(s.slots))
	for k, v := range s.slots {
		staged[k] = v
	}

	if err := fn(&memoryTx{slots: staged}); err != nil {
		return err
	}

	s.slots = staged
	return nil
}

// memoryTx mutates a staged copy of the slot map without locking; the
// enclosing Update holds the lock.
type memoryTx struct {
	slots map[string]string
}

func (t *memoryTx) Get(key string) (string, bool, error) {
	value, ok := t.slots[key]
	return value, ok, nil
}

func (t *memoryTx) Set(key, value string) error {
	t.slots[key] = value
	return nil
}

func (t *memoryTx) Delete(key string) error {
	delete(t.slots, key)
	return nil
}
