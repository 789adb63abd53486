package memory

import (
	"context"
	"sync"

	"bestball-lab/internal/domain"
	"bestball-lab/internal/storage"
)

// OutcomeStore is an in-memory implementation of storage.OutcomeStore.
type OutcomeStore struct {
	mu   sync.RWMutex
	data []*domain.DraftOutcome // append order, oldest first
}

// NewOutcomeStore creates a new in-memory outcome store.
func NewOutcomeStore() *OutcomeStore {
	return &OutcomeStore{}
}

// Compile-time interface check.
var _ storage.OutcomeStore = (*OutcomeStore)(nil)

// Append adds one outcome record.
func (s *OutcomeStore) Append(_ context.Context, outcome *domain.DraftOutcome) error {
	if outcome == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	outcomeCopy := *outcome
	outcomeCopy.PlayerIDs = append([]string(nil), outcome.PlayerIDs...)
	s.data = append(s.data, &outcomeCopy)
	return nil
}

// GetRecent retrieves up to limit outcomes, newest first.
func (s *OutcomeStore) GetRecent(_ context.Context, limit int) ([]*domain.DraftOutcome, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.data)
	if limit > n {
		limit = n
	}
	outcomes := make([]*domain.DraftOutcome, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		outcomeCopy := *s.data[i]
		outcomeCopy.PlayerIDs = append([]string(nil), s.data[i].PlayerIDs...)
		outcomes = append(outcomes, &outcomeCopy)
	}
	return outcomes, nil
}
