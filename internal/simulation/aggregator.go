package simulation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"bestball-lab/internal/domain"
	"bestball-lab/internal/rng"
)

// TrialSink receives per-trial telemetry. Implemented by
// storage.TrialStore; a nil sink disables telemetry.
type TrialSink interface {
	InsertBulk(ctx context.Context, records []*domain.TrialRecord) error
}

// Aggregator drives the simulator across many trials and reduces results
// for either candidate ranking or final standings.
type Aggregator struct {
	pool      []*domain.Player
	cfg       domain.SimulationConfig
	notes     []string // config clamp adjustments, reported to callers
	telemetry TrialSink
	runID     string
}

// NewAggregator creates an aggregator over a pool. Out-of-range config is
// clamped; the adjustment notes are available via ConfigNotes.
func NewAggregator(pool []*domain.Player, cfg domain.SimulationConfig) *Aggregator {
	clamped, notes := cfg.Clamp()
	return &Aggregator{pool: pool, cfg: clamped, notes: notes}
}

// ConfigNotes reports the clamp adjustments applied to the configuration.
func (a *Aggregator) ConfigNotes() []string {
	return a.notes
}

// Config returns the clamped configuration in effect.
func (a *Aggregator) Config() domain.SimulationConfig {
	return a.cfg
}

// WithTelemetry attaches a trial sink. Records are flushed in one batch
// at the end of each run; flush errors are returned from the run.
func (a *Aggregator) WithTelemetry(sink TrialSink, runID string) *Aggregator {
	a.telemetry = sink
	a.runID = runID
	return a
}

// EvaluateCandidates ranks candidates for the board's first open pick by
// win probability. Each shortlisted candidate is forced into the open
// slot and the rest of the draft is simulated NumTrials times on an
// independent forked stream. Returns ErrNoOpenPick on a full board and
// ErrEmptyCandidateSet when the constraints exclude everyone.
func (a *Aggregator) EvaluateCandidates(ctx context.Context, board *domain.Board) ([]domain.CandidateResult, error) {
	open := board.FirstOpen()
	if open < 0 {
		return nil, ErrNoOpenPick
	}
	slot := board.Slots[open]
	teamIdx := slot.TeamSlot - 1

	sim := NewSimulator(a.pool, a.cfg)
	shortlist := a.buildShortlist(board, slot)
	if len(shortlist) == 0 {
		return nil, ErrEmptyCandidateSet
	}

	root := rng.New(a.cfg.Seed).Fork("candidates")
	var telemetry []*domain.TrialRecord

	results := make([]domain.CandidateResult, 0, len(shortlist))
	for _, candidate := range shortlist {
		candSrc := root.Fork(candidate.ID)
		candidateIdx := sim.PoolIndex(candidate.ID)

		var wins, totalScore float64
		for trial := 0; trial < a.cfg.NumTrials; trial++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcome := sim.RunTrial(board, candidateIdx, candSrc.Fork(fmt.Sprintf("trial-%d", trial)))
			wins += outcome.WinShares[teamIdx]
			totalScore += outcome.TeamScores[teamIdx]

			if a.telemetry != nil {
				telemetry = append(telemetry, &domain.TrialRecord{
					RunID:       a.runID,
					Mode:        domain.ModeCandidate,
					CandidateID: candidate.ID,
					Trial:       trial,
					TeamIndex:   teamIdx,
					Score:       outcome.TeamScores[teamIdx],
					WinShare:    outcome.WinShares[teamIdx],
					RecordedAt:  time.Now().UnixMilli(),
				})
			}
		}

		results = append(results, domain.CandidateResult{
			Player:   candidate,
			WinPct:   100 * wins / float64(a.cfg.NumTrials),
			AvgScore: totalScore / float64(a.cfg.NumTrials),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].WinPct > results[j].WinPct
	})

	if a.telemetry != nil {
		if err := a.telemetry.InsertBulk(ctx, telemetry); err != nil {
			return nil, fmt.Errorf("flush trial telemetry: %w", err)
		}
	}
	return results, nil
}

// buildShortlist selects the candidates worth simulating for the open
// slot: untaken players inside the ADP gate, minus premature second QBs,
// ranked by QB-weighted projection with ADP as tiebreak, truncated to
// ShortlistSize. When the evaluating team has no QB yet the best gated QB
// is always injected at the front, even if it would not otherwise make
// the shortlist.
func (a *Aggregator) buildShortlist(board *domain.Board, open domain.BoardSlot) []*domain.Player {
	taken := board.TakenIDs()
	hasQB := a.teamHasQB(board, open.TeamSlot)

	var allowed []*domain.Player
	for _, p := range a.pool {
		if _, ok := taken[p.ID]; ok {
			continue
		}
		if p.ADPOrUnknown() > float64(open.Overall)+a.cfg.ADPGateWindow {
			continue
		}
		if hasQB && p.Position == domain.PositionQB && open.Round < a.cfg.MinRoundForSecondQB {
			continue
		}
		allowed = append(allowed, p)
	}

	weighted := func(p *domain.Player) float64 {
		if p.Position == domain.PositionQB {
			return p.Projection * a.cfg.QBScoreWeight
		}
		return p.Projection
	}
	sort.SliceStable(allowed, func(i, j int) bool {
		wi, wj := weighted(allowed[i]), weighted(allowed[j])
		if wi != wj {
			return wi > wj
		}
		return allowed[i].ADPOrUnknown() < allowed[j].ADPOrUnknown()
	})

	shortlist := allowed
	if len(shortlist) > a.cfg.ShortlistSize {
		shortlist = shortlist[:a.cfg.ShortlistSize]
	}

	if !hasQB {
		var bestQB *domain.Player
		for _, p := range allowed {
			if p.Position == domain.PositionQB {
				bestQB = p
				break
			}
		}
		if bestQB != nil && !containsPlayer(shortlist, bestQB) {
			shortlist = append([]*domain.Player{bestQB}, shortlist...)
			if len(shortlist) > a.cfg.ShortlistSize {
				shortlist = shortlist[:a.cfg.ShortlistSize]
			}
		}
	}
	return shortlist
}

func containsPlayer(players []*domain.Player, target *domain.Player) bool {
	for _, p := range players {
		if p == target {
			return true
		}
	}
	return false
}

// teamHasQB reports whether a team slot already drafted a QB on the board.
func (a *Aggregator) teamHasQB(board *domain.Board, teamSlot int) bool {
	byID := make(map[string]*domain.Player, len(a.pool))
	for _, p := range a.pool {
		byID[p.ID] = p
	}
	for i := range board.Slots {
		slot := &board.Slots[i]
		if slot.TeamSlot != teamSlot || slot.Open() {
			continue
		}
		if p, ok := byID[slot.PlayerID]; ok && p.Position == domain.PositionQB {
			return true
		}
	}
	return false
}

// ProjectFinalStandings autofills every team's remaining roster slots in
// plain ADP order over the undrafted pool and scores all teams across
// NumTrials trials. Win credit is split evenly across ties, so per-trial
// credit always sums to 1. Results are sorted by win percentage.
func (a *Aggregator) ProjectFinalStandings(ctx context.Context, board *domain.Board) ([]domain.TeamStanding, error) {
	sim := NewSimulator(a.pool, a.cfg)
	teamPicks := a.assembleRosters(board, sim)

	root := rng.New(a.cfg.Seed).Fork("standings")
	totals := make([]float64, board.Teams)
	wins := make([]float64, board.Teams)
	var telemetry []*domain.TrialRecord

	for trial := 0; trial < a.cfg.NumTrials; trial++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outcome := sim.scoreTeams(teamPicks, root.Fork(fmt.Sprintf("trial-%d", trial)))
		for team := range outcome.TeamScores {
			totals[team] += outcome.TeamScores[team]
			wins[team] += outcome.WinShares[team]

			if a.telemetry != nil {
				telemetry = append(telemetry, &domain.TrialRecord{
					RunID:      a.runID,
					Mode:       domain.ModeStandings,
					Trial:      trial,
					TeamIndex:  team,
					Score:      outcome.TeamScores[team],
					WinShare:   outcome.WinShares[team],
					RecordedAt: time.Now().UnixMilli(),
				})
			}
		}
	}

	standings := make([]domain.TeamStanding, board.Teams)
	for team := 0; team < board.Teams; team++ {
		standings[team] = domain.TeamStanding{
			TeamIndex: team,
			WinPct:    100 * wins[team] / float64(a.cfg.NumTrials),
			AvgScore:  totals[team] / float64(a.cfg.NumTrials),
		}
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].WinPct > standings[j].WinPct
	})

	if a.telemetry != nil {
		if err := a.telemetry.InsertBulk(ctx, telemetry); err != nil {
			return nil, fmt.Errorf("flush trial telemetry: %w", err)
		}
	}
	return standings, nil
}

// RosterFor returns the player IDs a team would carry into the standings
// projection: its real picks capped at the roster limit plus ADP-order
// autofill. Used by callers recording learning outcomes.
func (a *Aggregator) RosterFor(board *domain.Board, teamIndex int) []string {
	sim := NewSimulator(a.pool, a.cfg)
	picks := a.assembleRosters(board, sim)
	ids := make([]string, 0, len(picks[teamIndex]))
	for _, idx := range picks[teamIndex] {
		ids = append(ids, a.pool[idx].ID)
	}
	return ids
}

// assembleRosters collects each team's real picks in board order, capped
// at MaxRosterSize, then deals the undrafted pool to every short team in
// ADP order. No opponent-model nuance: this path assumes the draft is
// over or nearly over.
func (a *Aggregator) assembleRosters(board *domain.Board, sim *Simulator) [][]int {
	teamPicks := make([][]int, board.Teams)
	drafted := make(map[int]bool)

	for i := range board.Slots {
		slot := &board.Slots[i]
		if slot.Open() {
			continue
		}
		idx := sim.PoolIndex(slot.PlayerID)
		if idx < 0 {
			continue
		}
		team := slot.TeamSlot - 1
		if len(teamPicks[team]) < a.cfg.MaxRosterSize {
			teamPicks[team] = append(teamPicks[team], idx)
			drafted[idx] = true
		}
	}

	var remaining []int
	for idx := range a.pool {
		if !drafted[idx] {
			remaining = append(remaining, idx)
		}
	}
	sort.SliceStable(remaining, func(i, j int) bool {
		return a.pool[remaining[i]].ADPOrUnknown() < a.pool[remaining[j]].ADPOrUnknown()
	})

	for team := range teamPicks {
		for len(teamPicks[team]) < a.cfg.MaxRosterSize && len(remaining) > 0 {
			teamPicks[team] = append(teamPicks[team], remaining[0])
			remaining = remaining[1:]
		}
	}
	return teamPicks
}
