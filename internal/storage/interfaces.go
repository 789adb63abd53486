package storage

import (
	"context"

	"bestball-lab/internal/domain"
)

// RatingStore persists learned per-player rating lifts across sessions.
type RatingStore interface {
	// Upsert writes a batch of ratings atomically. Existing players are
	// overwritten; ratings are a bounded moving average, not a ledger.
	Upsert(ctx context.Context, ratings []*domain.Rating) error

	// GetByPlayerID retrieves one rating. Returns ErrNotFound if absent.
	GetByPlayerID(ctx context.Context, playerID string) (*domain.Rating, error)

	// GetAll retrieves every rating, ordered by player_id ASC.
	GetAll(ctx context.Context) ([]*domain.Rating, error)
}

// OutcomeStore persists recorded draft outcomes for the learning tracker.
type OutcomeStore interface {
	// Append adds one outcome record.
	Append(ctx context.Context, outcome *domain.DraftOutcome) error

	// GetRecent retrieves up to limit outcomes, newest first.
	GetRecent(ctx context.Context, limit int) ([]*domain.DraftOutcome, error)
}

// TrialStore persists per-trial simulation telemetry for offline analysis.
type TrialStore interface {
	// InsertBulk adds a batch of trial records.
	InsertBulk(ctx context.Context, records []*domain.TrialRecord) error

	// GetByRunID retrieves all records for a run, ordered by candidate,
	// trial and team.
	GetByRunID(ctx context.Context, runID string) ([]*domain.TrialRecord, error)
}
