package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bestball-lab/internal/domain"
	"bestball-lab/internal/storage"
)

func TestOutcomeStore_AppendAndGetRecent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewOutcomeStore(pool)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		outcome := &domain.DraftOutcome{
			RecordedAt: int64(1700000000000 + i),
			TeamIndex:  i % 2,
			Teams:      12,
			WinPct:     8.0 + float64(i),
			AvgScore:   100.5,
			PlayerIDs:  []string{"alpha-qb-qb", "beta-wr-wr"},
		}
		require.NoError(t, store.Append(ctx, outcome))
	}

	recent, err := store.GetRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	// Newest first.
	assert.Equal(t, int64(1700000000003), recent[0].RecordedAt)
	assert.Equal(t, int64(1700000000002), recent[1].RecordedAt)
	assert.Equal(t, 11.0, recent[0].WinPct)
	assert.Equal(t, []string{"alpha-qb-qb", "beta-wr-wr"}, recent[0].PlayerIDs)
}

func TestOutcomeStore_GetRecentInvalidLimit(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewOutcomeStore(pool)
	_, err := store.GetRecent(context.Background(), 0)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
