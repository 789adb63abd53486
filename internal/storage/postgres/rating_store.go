package postgres

import (
	"context"
	"fmt"

	"bestball-lab/internal/domain"
	"bestball-lab/internal/storage"
)

// RatingStore implements storage.RatingStore using PostgreSQL.
type RatingStore struct {
	pool *Pool
}

// NewRatingStore creates a new RatingStore.
func NewRatingStore(pool *Pool) *RatingStore {
	return &RatingStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RatingStore = (*RatingStore)(nil)

// Upsert writes a batch of ratings atomically inside one transaction.
func (s *RatingStore) Upsert(ctx context.Context, ratings []*domain.Rating) error {
	for _, r := range ratings {
		if r == nil || r.PlayerID == "" {
			return storage.ErrInvalidInput
		}
	}
	if len(ratings) == 0 {
		return nil
	}

	query := `
		INSERT INTO ratings (player_id, value, sample_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id) DO UPDATE SET
			value = EXCLUDED.value,
			sample_count = EXCLUDED.sample_count,
			updated_at = now()
	`

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin upsert ratings: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range ratings {
		if _, err := tx.Exec(ctx, query, r.PlayerID, r.Value, r.SampleCount); err != nil {
			return fmt.Errorf("upsert rating %s: %w", r.PlayerID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit upsert ratings: %w", err)
	}
	return nil
}

// GetByPlayerID retrieves one rating. Returns ErrNotFound if absent.
func (s *RatingStore) GetByPlayerID(ctx context.Context, playerID string) (*domain.Rating, error) {
	query := `
		SELECT player_id, value, sample_count
		FROM ratings
		WHERE player_id = $1
	`

	var r domain.Rating
	err := s.pool.QueryRow(ctx, query, playerID).Scan(&r.PlayerID, &r.Value, &r.SampleCount)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get rating by player id: %w", err)
	}
	return &r, nil
}

// GetAll retrieves every rating, ordered by player_id ASC.
func (s *RatingStore) GetAll(ctx context.Context) ([]*domain.Rating, error) {
	query := `
		SELECT player_id, value, sample_count
		FROM ratings
		ORDER BY player_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all ratings: %w", err)
	}
	defer rows.Close()

	var ratings []*domain.Rating
	for rows.Next() {
		var r domain.Rating
		if err := rows.Scan(&r.PlayerID, &r.Value, &r.SampleCount); err != nil {
			return nil, fmt.Errorf("scan rating row: %w", err)
		}
		ratings = append(ratings, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating rows: %w", err)
	}
	return ratings, nil
}
