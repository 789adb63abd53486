package scoring

import (
	"math"
	"testing"

	"bestball-lab/internal/domain"
)

func noiselessOptions() domain.ScoringOptions {
	opts := domain.DefaultScoringOptions()
	opts.Randomness.Enabled = false
	return opts
}

func TestADPEdge(t *testing.T) {
	tests := []struct {
		adp  float64
		pick int
		want float64
	}{
		{8, 10, -0.25},        // slight reach
		{12, 10, 2.0 / 12.0},  // value falling to us
		{1, 10, -0.3},         // clamped low
		{100, 10, 0.4},        // clamped high
		{0, 10, 0},            // missing ADP
		{-5, 10, 0},           // invalid ADP
	}

	for _, tt := range tests {
		if got := ADPEdge(tt.adp, tt.pick); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ADPEdge(%v, %d) = %v, want %v", tt.adp, tt.pick, got, tt.want)
		}
	}
}

func TestPositionalNeed(t *testing.T) {
	caps := domain.RosterConfig{domain.PositionQB: 2, domain.PositionRB: 5}
	roster := map[domain.Position]int{domain.PositionRB: 1}

	if got := PositionalNeed(domain.PositionQB, roster, caps); got != 1.0 {
		t.Errorf("QB need = %v, want 1.0", got)
	}
	if got := PositionalNeed(domain.PositionRB, roster, caps); got != 0.8 {
		t.Errorf("RB need = %v, want 0.8", got)
	}
	// No capacity configured at all.
	if got := PositionalNeed(domain.PositionTE, roster, caps); got != 0 {
		t.Errorf("TE need = %v, want 0", got)
	}
	// Overfull position never goes negative.
	roster[domain.PositionRB] = 9
	if got := PositionalNeed(domain.PositionRB, roster, caps); got != 0 {
		t.Errorf("Overfull RB need = %v, want 0", got)
	}
}

// Worked scenario: QBs A (adp 8) and B (adp 12) at 24 proj, RB C (adp 1)
// at 22 proj; roster {QB:0, RB:1}, caps {QB:2, RB:5}, pick 10, default
// weights, no noise. Expected ranking B > A > C.
func TestRecommendPicks_WorkedScenario(t *testing.T) {
	a := &domain.Player{ID: "a-qb", Position: domain.PositionQB, ADP: 8, Projection: 24}
	b := &domain.Player{ID: "b-qb", Position: domain.PositionQB, ADP: 12, Projection: 24}
	c := &domain.Player{ID: "c-rb", Position: domain.PositionRB, ADP: 1, Projection: 22}

	opts := noiselessOptions()
	opts.RosterCaps = domain.RosterConfig{domain.PositionQB: 2, domain.PositionRB: 5}

	state := &domain.DraftState{
		PickNumber: 10,
		Roster:     map[domain.Position]int{domain.PositionRB: 1},
	}

	recs := RecommendPicks([]*domain.Player{a, b, c}, state, nil, opts, nil)
	if len(recs) != 3 {
		t.Fatalf("Expected 3 recommendations, got %d", len(recs))
	}

	wantOrder := []string{"b-qb", "a-qb", "c-rb"}
	for i, want := range wantOrder {
		if recs[i].Player.ID != want {
			t.Fatalf("Position %d: expected %s, got %s", i, want, recs[i].Player.ID)
		}
	}

	// A: 24 + 1.0*0.6*24 + (-0.25)*0.25*24 = 24 + 14.4 - 1.5 = 36.9
	if math.Abs(recs[1].Score-36.9) > 1e-9 {
		t.Errorf("A score = %v, want 36.9", recs[1].Score)
	}
	// B: 24 + 14.4 + (2/12)*0.25*24 = 39.4
	if math.Abs(recs[0].Score-39.4) > 1e-9 {
		t.Errorf("B score = %v, want 39.4", recs[0].Score)
	}
	// C: 22 + 0.8*0.6*22 + (-0.3)*0.25*22 = 22 + 10.56 - 1.65 = 30.91
	if math.Abs(recs[2].Score-30.91) > 1e-9 {
		t.Errorf("C score = %v, want 30.91", recs[2].Score)
	}
}

func TestRecommendPicks_NeverIncludesTaken(t *testing.T) {
	pool := []*domain.Player{
		{ID: "a-qb", Position: domain.PositionQB, Projection: 20},
		{ID: "b-rb", Position: domain.PositionRB, Projection: 18},
	}
	state := &domain.DraftState{
		PickNumber: 1,
		Roster:     map[domain.Position]int{},
		TakenIDs:   map[string]struct{}{"a-qb": {}},
	}

	recs := RecommendPicks(pool, state, nil, noiselessOptions(), nil)
	for _, r := range recs {
		if r.Player.ID == "a-qb" {
			t.Fatal("Taken player surfaced in recommendations")
		}
	}
	if len(recs) != 1 {
		t.Fatalf("Expected 1 recommendation, got %d", len(recs))
	}
}

func TestScore_ZeroProjectionScoresZero(t *testing.T) {
	p := &domain.Player{ID: "zero-wr", Position: domain.PositionWR, ADP: 5}
	got := Score(p, 1, map[domain.Position]int{}, &domain.DraftContext{}, noiselessOptions(), 0)
	if got != 0 {
		t.Errorf("Zero-projection score = %v, want 0", got)
	}
}

func TestScore_ExposurePenaltyAboveTarget(t *testing.T) {
	p := &domain.Player{ID: "hot-wr", Position: domain.PositionWR, Projection: 20}
	opts := noiselessOptions()
	opts.RosterCaps = domain.RosterConfig{} // isolate the exposure term

	ctx := &domain.DraftContext{Exposures: map[string]int{"hot-wr": 6}, TotalDrafts: 10}

	// rate 0.6 vs target 0.22: penalty = (0.6-0.22)*0.8*20 = 6.08
	got := Score(p, 1, map[domain.Position]int{}, ctx, opts, 0)
	want := 20.0 - (0.6-0.22)*0.8*20
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Score = %v, want %v", got, want)
	}

	// Under target: no penalty.
	ctx.Exposures["hot-wr"] = 1
	if got := Score(p, 1, map[domain.Position]int{}, ctx, opts, 0); got != 20 {
		t.Errorf("Under-target score = %v, want 20", got)
	}
}

func TestScore_SeededNoiseReproducible(t *testing.T) {
	p := &domain.Player{ID: "x-wr", Position: domain.PositionWR, Projection: 15}
	opts := noiselessOptions()
	opts.Randomness = domain.RandomnessOptions{Enabled: true, Stdev: 0.04, Seed: "fixed"}

	first := Score(p, 7, map[domain.Position]int{}, &domain.DraftContext{}, opts, 0)
	second := Score(p, 7, map[domain.Position]int{}, &domain.DraftContext{}, opts, 0)
	if first != second {
		t.Errorf("Seeded scores differ: %v vs %v", first, second)
	}

	// Different pick number draws a different stream.
	other := Score(p, 8, map[domain.Position]int{}, &domain.DraftContext{}, opts, 0)
	if first == other {
		t.Error("Expected different noise for different pick numbers")
	}
}

type fixedLift float64

func (f fixedLift) GetLift(string) float64 { return float64(f) }

func TestRecommendPicks_AppliesRatingLift(t *testing.T) {
	p := &domain.Player{ID: "lifted-wr", Position: domain.PositionWR, Projection: 10}
	opts := noiselessOptions()
	opts.RosterCaps = domain.RosterConfig{}

	state := &domain.DraftState{PickNumber: 1, Roster: map[domain.Position]int{}}

	base := RecommendPicks([]*domain.Player{p}, state, nil, opts, nil)
	lifted := RecommendPicks([]*domain.Player{p}, state, nil, opts, fixedLift(0.2))

	if math.Abs(lifted[0].Score-base[0].Score*1.2) > 1e-9 {
		t.Errorf("Lift 0.2: score %v, want %v", lifted[0].Score, base[0].Score*1.2)
	}
}
