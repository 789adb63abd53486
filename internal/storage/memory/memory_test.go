package memory

import (
	"context"
	"errors"
	"testing"

	"bestball-lab/internal/domain"
	"bestball-lab/internal/storage"
)

func TestRatingStore_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewRatingStore()

	ratings := []*domain.Rating{
		{PlayerID: "b-wr", Value: 0.1, SampleCount: 2},
		{PlayerID: "a-qb", Value: -0.05, SampleCount: 1},
	}
	if err := store.Upsert(ctx, ratings); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := store.GetByPlayerID(ctx, "a-qb")
	if err != nil {
		t.Fatalf("GetByPlayerID failed: %v", err)
	}
	if got.Value != -0.05 || got.SampleCount != 1 {
		t.Errorf("Unexpected rating: %+v", got)
	}

	// Upsert overwrites.
	if err := store.Upsert(ctx, []*domain.Rating{{PlayerID: "a-qb", Value: 0.2, SampleCount: 2}}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	got, _ = store.GetByPlayerID(ctx, "a-qb")
	if got.Value != 0.2 {
		t.Errorf("Expected overwritten value 0.2, got %v", got.Value)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 2 || all[0].PlayerID != "a-qb" || all[1].PlayerID != "b-wr" {
		t.Errorf("GetAll not ordered by player_id: %+v", all)
	}
}

func TestRatingStore_NotFound(t *testing.T) {
	store := NewRatingStore()
	_, err := store.GetByPlayerID(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestRatingStore_CopiesOnWriteAndRead(t *testing.T) {
	ctx := context.Background()
	store := NewRatingStore()

	original := &domain.Rating{PlayerID: "x-rb", Value: 0.1}
	if err := store.Upsert(ctx, []*domain.Rating{original}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	original.Value = 99

	got, _ := store.GetByPlayerID(ctx, "x-rb")
	if got.Value != 0.1 {
		t.Errorf("Store leaked caller's mutation: %v", got.Value)
	}
	got.Value = -99
	again, _ := store.GetByPlayerID(ctx, "x-rb")
	if again.Value != 0.1 {
		t.Errorf("Store leaked reader's mutation: %v", again.Value)
	}
}

func TestOutcomeStore_AppendAndGetRecent(t *testing.T) {
	ctx := context.Background()
	store := NewOutcomeStore()

	for i := 0; i < 5; i++ {
		outcome := &domain.DraftOutcome{RecordedAt: int64(1000 + i), TeamIndex: i, Teams: 12}
		if err := store.Append(ctx, outcome); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	recent, err := store.GetRecent(ctx, 3)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Expected 3 outcomes, got %d", len(recent))
	}
	if recent[0].RecordedAt != 1004 || recent[2].RecordedAt != 1002 {
		t.Errorf("Expected newest-first ordering, got %v, %v, %v",
			recent[0].RecordedAt, recent[1].RecordedAt, recent[2].RecordedAt)
	}
}

func TestTrialStore_InsertBulkAndGetByRunID(t *testing.T) {
	ctx := context.Background()
	store := NewTrialStore()

	records := []*domain.TrialRecord{
		{RunID: "r1", Mode: domain.ModeCandidate, CandidateID: "b-wr", Trial: 1, TeamIndex: 0, Score: 90},
		{RunID: "r1", Mode: domain.ModeCandidate, CandidateID: "a-qb", Trial: 0, TeamIndex: 1, Score: 95},
		{RunID: "r2", Mode: domain.ModeStandings, Trial: 0, TeamIndex: 0, Score: 80},
	}
	if err := store.InsertBulk(ctx, records); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByRunID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 records for r1, got %d", len(got))
	}
	if got[0].CandidateID != "a-qb" {
		t.Errorf("Expected candidate ordering, got %s first", got[0].CandidateID)
	}
}

func TestTrialStore_RejectsMissingRunID(t *testing.T) {
	err := NewTrialStore().InsertBulk(context.Background(), []*domain.TrialRecord{{}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got %v", err)
	}
}
