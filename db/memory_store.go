package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore keeps encoded documents in memory. Used for tests and for
// throwaway sessions (DATA_BACKEND=memory).
type MemoryStore struct {
	mu       sync.Mutex
	docs     map[string][]byte
	saveErr  error
	saveHits map[string]int
}

// NewMemoryStore returns an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:     make(map[string][]byte),
		saveHits: make(map[string]int),
	}
}

var _ DocumentStore = (*MemoryStore)(nil)

func (s *MemoryStore) Name() string { return BackendMemory }

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Load(_ context.Context, name string, v any) (bool, error) {
	s.mu.Lock()
	data, ok := s.docs[name]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrCorruptDocument, name, err)
	}
	return true, nil
}

func (s *MemoryStore) Save(_ context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.docs[name] = data
	s.saveHits[name]++
	return nil
}

// Put stores raw bytes for a document, bypassing encoding
func (s *MemoryStore) Put(name string, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = append([]byte(nil), raw...)
}

// Raw returns the stored bytes for a document
func (s *MemoryStore) Raw(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[name]
	return data, ok
}

// FailSaves makes every subsequent Save return err. Pass nil to recover.
func (s *MemoryStore) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// SaveCount reports how many successful saves a document has received
func (s *MemoryStore) SaveCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveHits[name]
}
