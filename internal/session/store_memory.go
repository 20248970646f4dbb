package session

import (
	"context"
	"fmt"
	"sync"

	"verify-gateway/pkg/platform/sentinel"
)

// InMemoryStore keeps session records in memory for the life of the process.
// No eviction and no size bound; the mutex makes each upsert an atomic
// replace-with-merged-copy.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]Record)}
}

func (s *InMemoryStore) Save(_ context.Context, id string, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = record
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[id]; ok {
		return record, nil
	}
	return Record{}, fmt.Errorf("session %s: %w", id, sentinel.ErrNotFound)
}

func (s *InMemoryStore) Update(_ context.Context, id string, fn func(*Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[id]
	if !ok {
		return fmt.Errorf("session %s: %w", id, sentinel.ErrNotFound)
	}
	fn(&record)
	s.records[id] = record
	return nil
}

func (s *InMemoryStore) List(_ context.Context) (map[string]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make(map[string]Record, len(s.records))
	for id, record := range s.records {
		snapshot[id] = record
	}
	return snapshot, nil
}
