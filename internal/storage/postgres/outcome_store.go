package postgres

import (
	"context"
	"fmt"

	"bestball-lab/internal/domain"
	"bestball-lab/internal/storage"
)

// OutcomeStore implements storage.OutcomeStore using PostgreSQL.
type OutcomeStore struct {
	pool *Pool
}

// NewOutcomeStore creates a new OutcomeStore.
func NewOutcomeStore(pool *Pool) *OutcomeStore {
	return &OutcomeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.OutcomeStore = (*OutcomeStore)(nil)

// Append adds one outcome record.
func (s *OutcomeStore) Append(ctx context.Context, outcome *domain.DraftOutcome) error {
	if outcome == nil {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO draft_outcomes (
			recorded_at, team_index, teams, win_pct, avg_score, player_ids
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		outcome.RecordedAt,
		outcome.TeamIndex,
		outcome.Teams,
		outcome.WinPct,
		outcome.AvgScore,
		outcome.PlayerIDs,
	)
	if err != nil {
		return fmt.Errorf("append draft outcome: %w", err)
	}
	return nil
}

// GetRecent retrieves up to limit outcomes, newest first.
func (s *OutcomeStore) GetRecent(ctx context.Context, limit int) ([]*domain.DraftOutcome, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT recorded_at, team_index, teams, win_pct, avg_score, player_ids
		FROM draft_outcomes
		ORDER BY id DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []*domain.DraftOutcome
	for rows.Next() {
		var o domain.DraftOutcome
		err := rows.Scan(
			&o.RecordedAt,
			&o.TeamIndex,
			&o.Teams,
			&o.WinPct,
			&o.AvgScore,
			&o.PlayerIDs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan outcome row: %w", err)
		}
		outcomes = append(outcomes, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcome rows: %w", err)
	}
	return outcomes, nil
}
