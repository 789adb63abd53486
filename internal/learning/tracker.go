// Package learning maintains per-player rating lifts updated from
// realized simulation outcomes. Ratings are a bounded exponential
// moving average: each recorded draft nudges every rostered player's
// value toward the team's win-rate lift over the field baseline.
package learning

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bestball-lab/internal/domain"
	"bestball-lab/internal/storage"
)

const (
	ratingDecay  = 0.9
	learningStep = 0.2
)

var (
	// ErrTeamOutOfRange is returned when the recording team index does not
	// appear in the standings.
	ErrTeamOutOfRange = errors.New("team index out of range")
)

// Tracker accumulates rating lifts across draft sessions. The zero
// stores are optional: with a nil RatingStore and OutcomeStore the
// tracker is purely in-memory.
type Tracker struct {
	mu       sync.Mutex
	ratings  map[string]*domain.Rating
	history  []*domain.DraftOutcome
	ratingDB storage.RatingStore
	outcomes storage.OutcomeStore
	now      func() time.Time
}

// NewTracker creates a tracker with no persistence.
func NewTracker() *Tracker {
	return &Tracker{
		ratings: make(map[string]*domain.Rating),
		now:     time.Now,
	}
}

// WithStores attaches persistence. Ratings are written back after each
// Record call and outcomes are appended to the outcome store. Either
// store may be nil.
func (t *Tracker) WithStores(ratings storage.RatingStore, outcomes storage.OutcomeStore) *Tracker {
	t.ratingDB = ratings
	t.outcomes = outcomes
	return t
}

// Load hydrates the in-memory state from the attached stores. Call once
// at startup before the first Record or GetLift.
func (t *Tracker) Load(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ratingDB != nil {
		ratings, err := t.ratingDB.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("load ratings: %w", err)
		}
		for _, r := range ratings {
			ratingCopy := *r
			t.ratings[r.PlayerID] = &ratingCopy
		}
	}
	if t.outcomes != nil {
		recent, err := t.outcomes.GetRecent(ctx, domain.MaxOutcomeHistory)
		if err != nil {
			return fmt.Errorf("load outcomes: %w", err)
		}
		// GetRecent is newest-first; history is kept oldest-first.
		for i := len(recent) - 1; i >= 0; i-- {
			t.history = append(t.history, recent[i])
		}
	}
	return nil
}

// Record applies one final-standings result to the ratings of the
// recording team's roster. The whole batch is applied atomically:
// either every rostered player's rating advances or none does.
func (t *Tracker) Record(ctx context.Context, standings []domain.TeamStanding, ownTeamIndex int, rosterIDs []string) error {
	var own *domain.TeamStanding
	for i := range standings {
		if standings[i].TeamIndex == ownTeamIndex {
			own = &standings[i]
			break
		}
	}
	if own == nil {
		return fmt.Errorf("%w: team %d not in %d-team standings", ErrTeamOutOfRange, ownTeamIndex, len(standings))
	}

	teams := len(standings)
	baseline := 1.0 / float64(teams)
	lift := own.WinPct/100 - baseline
	rosterSize := len(rosterIDs)
	if rosterSize < 1 {
		rosterSize = 1
	}
	perPlayerDelta := lift / float64(rosterSize) * learningStep

	t.mu.Lock()
	defer t.mu.Unlock()

	updated := make([]*domain.Rating, 0, len(rosterIDs))
	for _, id := range rosterIDs {
		r, exists := t.ratings[id]
		if !exists {
			r = &domain.Rating{PlayerID: id}
			t.ratings[id] = r
		}
		r.Value = r.Value*ratingDecay + perPlayerDelta*(1-ratingDecay)
		r.SampleCount++
		ratingCopy := *r
		updated = append(updated, &ratingCopy)
	}

	outcome := &domain.DraftOutcome{
		RecordedAt: t.now().UnixMilli(),
		TeamIndex:  ownTeamIndex,
		Teams:      teams,
		WinPct:     own.WinPct,
		AvgScore:   own.AvgScore,
		PlayerIDs:  append([]string(nil), rosterIDs...),
	}
	t.history = append(t.history, outcome)
	if len(t.history) > domain.MaxOutcomeHistory {
		t.history = t.history[len(t.history)-domain.MaxOutcomeHistory:]
	}

	if t.ratingDB != nil {
		if err := t.ratingDB.Upsert(ctx, updated); err != nil {
			return fmt.Errorf("persist ratings: %w", err)
		}
	}
	if t.outcomes != nil {
		if err := t.outcomes.Append(ctx, outcome); err != nil {
			return fmt.Errorf("persist outcome: %w", err)
		}
	}
	return nil
}

// GetLift returns the player's clamped rating value, 0 if the player
// has never been rated. Satisfies scoring.LiftProvider.
func (t *Tracker) GetLift(playerID string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, exists := t.ratings[playerID]
	if !exists {
		return 0
	}
	return r.ClampedValue()
}

// Ratings returns a copy of every tracked rating.
func (t *Tracker) Ratings() []*domain.Rating {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]*domain.Rating, 0, len(t.ratings))
	for _, r := range t.ratings {
		ratingCopy := *r
		out = append(out, &ratingCopy)
	}
	return out
}

// History returns the recorded outcomes, oldest first.
func (t *Tracker) History() []*domain.DraftOutcome {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]*domain.DraftOutcome, 0, len(t.history))
	for _, o := range t.history {
		outcomeCopy := *o
		outcomeCopy.PlayerIDs = append([]string(nil), o.PlayerIDs...)
		out = append(out, &outcomeCopy)
	}
	return out
}
