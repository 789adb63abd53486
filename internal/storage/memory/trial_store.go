package memory

import (
	"context"
	"sort"
	"sync"

	"bestball-lab/internal/domain"
	"bestball-lab/internal/storage"
)

// TrialStore is an in-memory implementation of storage.TrialStore.
type TrialStore struct {
	mu   sync.RWMutex
	data []*domain.TrialRecord
}

// NewTrialStore creates a new in-memory trial store.
func NewTrialStore() *TrialStore {
	return &TrialStore{}
}

// Compile-time interface check.
var _ storage.TrialStore = (*TrialStore)(nil)

// InsertBulk adds a batch of trial records.
func (s *TrialStore) InsertBulk(_ context.Context, records []*domain.TrialRecord) error {
	for _, r := range records {
		if r == nil || r.RunID == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		recordCopy := *r
		s.data = append(s.data, &recordCopy)
	}
	return nil
}

// GetByRunID retrieves all records for a run, ordered by candidate, trial
// and team.
func (s *TrialStore) GetByRunID(_ context.Context, runID string) ([]*domain.TrialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*domain.TrialRecord
	for _, r := range s.data {
		if r.RunID == runID {
			recordCopy := *r
			records = append(records, &recordCopy)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.CandidateID != b.CandidateID {
			return a.CandidateID < b.CandidateID
		}
		if a.Trial != b.Trial {
			return a.Trial < b.Trial
		}
		return a.TeamIndex < b.TeamIndex
	})
	return records, nil
}
