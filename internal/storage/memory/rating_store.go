package memory

import (
	"context"
	"sort"
	"sync"

	"bestball-lab/internal/domain"
	"bestball-lab/internal/storage"
)

// RatingStore is an in-memory implementation of storage.RatingStore.
type RatingStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Rating // keyed by player_id
}

// NewRatingStore creates a new in-memory rating store.
func NewRatingStore() *RatingStore {
	return &RatingStore{data: make(map[string]*domain.Rating)}
}

// Compile-time interface check.
var _ storage.RatingStore = (*RatingStore)(nil)

// Upsert writes a batch of ratings atomically.
func (s *RatingStore) Upsert(_ context.Context, ratings []*domain.Rating) error {
	for _, r := range ratings {
		if r == nil || r.PlayerID == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range ratings {
		// Store a copy to prevent external mutation
		ratingCopy := *r
		s.data[r.PlayerID] = &ratingCopy
	}
	return nil
}

// GetByPlayerID retrieves one rating. Returns ErrNotFound if absent.
func (s *RatingStore) GetByPlayerID(_ context.Context, playerID string) (*domain.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[playerID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	ratingCopy := *r
	return &ratingCopy, nil
}

// GetAll retrieves every rating, ordered by player_id ASC.
func (s *RatingStore) GetAll(_ context.Context) ([]*domain.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ratings := make([]*domain.Rating, 0, len(s.data))
	for _, r := range s.data {
		ratingCopy := *r
		ratings = append(ratings, &ratingCopy)
	}
	sort.Slice(ratings, func(i, j int) bool {
		return ratings[i].PlayerID < ratings[j].PlayerID
	})
	return ratings, nil
}
