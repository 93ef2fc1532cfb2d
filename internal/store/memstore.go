package store

import (
	"encoding/json"
	"sync"

	"github.com/heysubinoy/jsonkv/pkg/kv"
)

// MemStore is an in-memory implementation of the kv.Store interface.
// It uses a map protected by a RWMutex for thread-safe operations.
// The write lock covers the whole check-then-act sequence, so Create
// can never overwrite a concurrently inserted entry.
type MemStore struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

// Compile-time check to ensure MemStore implements kv.Store.
var _ kv.Store = (*MemStore)(nil)

// NewMemStore creates and returns a new MemStore instance.
func NewMemStore() *MemStore {
	return &MemStore{
		data: make(map[string]json.RawMessage),
	}
}

// Create inserts a new entry, failing with kv.ErrKeyExists if the key
// is already present.
func (s *MemStore) Create(key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; ok {
		return kv.ErrKeyExists
	}
	s.data[key] = value
	return nil
}

// Get retrieves a value by key from the store.
func (s *MemStore) Get(key string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return val, nil
}

// Replace overwrites the value of an existing entry, failing with
// kv.ErrNotFound if the key is not present.
func (s *MemStore) Replace(key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return kv.ErrNotFound
	}
	s.data[key] = value
	return nil
}

// Delete removes a key from the store, failing with kv.ErrNotFound if
// the key is not present.
func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return kv.ErrNotFound
	}
	delete(s.data, key)
	return nil
}

// Count reports the number of entries currently stored.
func (s *MemStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data), nil
}
