package clickhouse

import (
	"context"
	"fmt"

	"bestball-lab/internal/domain"
	"bestball-lab/internal/storage"
)

// TrialStore implements storage.TrialStore using ClickHouse.
type TrialStore struct {
	conn *Conn
}

// NewTrialStore creates a new TrialStore.
func NewTrialStore(conn *Conn) *TrialStore {
	return &TrialStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TrialStore = (*TrialStore)(nil)

// InsertBulk adds a batch of trial records.
func (s *TrialStore) InsertBulk(ctx context.Context, records []*domain.TrialRecord) error {
	for _, r := range records {
		if r == nil || r.RunID == "" {
			return storage.ErrInvalidInput
		}
	}
	if len(records) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trial_records (
			run_id, mode, candidate_id, trial, team_index, score, win_share, recorded_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		err = batch.Append(
			r.RunID, r.Mode, r.CandidateID,
			uint32(r.Trial), uint16(r.TeamIndex),
			r.Score, r.WinShare, uint64(r.RecordedAt),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByRunID retrieves all records for a run, ordered by candidate,
// trial and team.
func (s *TrialStore) GetByRunID(ctx context.Context, runID string) ([]*domain.TrialRecord, error) {
	query := `
		SELECT run_id, mode, candidate_id, trial, team_index, score, win_share, recorded_at
		FROM trial_records
		WHERE run_id = ?
		ORDER BY candidate_id ASC, trial ASC, team_index ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get trials by run id: %w", err)
	}
	defer rows.Close()

	var records []*domain.TrialRecord
	for rows.Next() {
		var r domain.TrialRecord
		var trial uint32
		var teamIndex uint16
		var recordedAt uint64

		err := rows.Scan(
			&r.RunID, &r.Mode, &r.CandidateID,
			&trial, &teamIndex,
			&r.Score, &r.WinShare, &recordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trial row: %w", err)
		}

		r.Trial = int(trial)
		r.TeamIndex = int(teamIndex)
		r.RecordedAt = int64(recordedAt)
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trial rows: %w", err)
	}
	return records, nil
}
