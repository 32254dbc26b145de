package persistence

import (
	"context"
	"sync"
	"time"
)

// MemoryProcessedStore is a process-local ProcessedStore for single-node
// deployments and tests. The redis implementation covers multi-node setups.
type MemoryProcessedStore struct {
	mu        sync.Mutex
	processed map[string]bool
	locks     map[string]time.Time
}

func NewMemoryProcessedStore() *MemoryProcessedStore {
	return &MemoryProcessedStore{
		processed: make(map[string]bool),
		locks:     make(map[string]time.Time),
	}
}

func (s *MemoryProcessedStore) AcquireProcessing(_ context.Context, transcriptID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, held := s.locks[transcriptID]
	if held && time.Now().Before(expiry) {
		return false, nil
	}

	s.locks[transcriptID] = time.Now().Add(ttl)

	return true, nil
}

func (s *MemoryProcessedStore) ReleaseProcessing(_ context.Context, transcriptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.locks, transcriptID)

	return nil
}

func (s *MemoryProcessedStore) IsProcessed(_ context.Context, transcriptID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.processed[transcriptID], nil
}

func (s *MemoryProcessedStore) MarkProcessed(_ context.Context, transcriptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processed[transcriptID] = true

	return nil
}

func (s *MemoryProcessedStore) ClearProcessed(_ context.Context, transcriptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.processed, transcriptID)

	return nil
}

var _ ProcessedStore = (*MemoryProcessedStore)(nil)
