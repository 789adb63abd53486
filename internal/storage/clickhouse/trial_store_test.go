package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bestball-lab/internal/domain"
	"bestball-lab/internal/storage"
)

func TestTrialStore_InsertBulkAndGetByRunID(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTrialStore(conn)
	ctx := context.Background()

	records := []*domain.TrialRecord{
		{RunID: "run-1", Mode: domain.ModeCandidate, CandidateID: "beta-wr-wr", Trial: 1, TeamIndex: 0, Score: 95.5, WinShare: 0, RecordedAt: 1700000000000},
		{RunID: "run-1", Mode: domain.ModeCandidate, CandidateID: "alpha-qb-qb", Trial: 0, TeamIndex: 2, Score: 101.25, WinShare: 1, RecordedAt: 1700000000000},
		{RunID: "run-1", Mode: domain.ModeCandidate, CandidateID: "alpha-qb-qb", Trial: 1, TeamIndex: 2, Score: 99.0, WinShare: 0.5, RecordedAt: 1700000000000},
		{RunID: "run-2", Mode: domain.ModeStandings, Trial: 0, TeamIndex: 0, Score: 88.0, WinShare: 0, RecordedAt: 1700000000001},
	}
	require.NoError(t, store.InsertBulk(ctx, records))

	got, err := store.GetByRunID(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ordered by candidate, trial, team.
	assert.Equal(t, "alpha-qb-qb", got[0].CandidateID)
	assert.Equal(t, 0, got[0].Trial)
	assert.Equal(t, 1.0, got[0].WinShare)
	assert.Equal(t, "alpha-qb-qb", got[1].CandidateID)
	assert.Equal(t, 1, got[1].Trial)
	assert.Equal(t, "beta-wr-wr", got[2].CandidateID)
	assert.Equal(t, 95.5, got[2].Score)
	assert.Equal(t, int64(1700000000000), got[2].RecordedAt)

	other, err := store.GetByRunID(ctx, "run-2")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, domain.ModeStandings, other[0].Mode)
	assert.Empty(t, other[0].CandidateID)
}

func TestTrialStore_GetByRunIDEmpty(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTrialStore(conn)
	got, err := store.GetByRunID(context.Background(), "missing-run")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTrialStore_RejectsMissingRunID(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTrialStore(conn)
	err := store.InsertBulk(context.Background(), []*domain.TrialRecord{{}})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
