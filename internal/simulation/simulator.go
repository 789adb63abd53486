// Package simulation completes partially-drafted boards under a noisy-ADP
// opponent model and aggregates Monte Carlo trials into win probabilities.
package simulation

import (
	"errors"
	"sort"

	"bestball-lab/internal/domain"
	"bestball-lab/internal/lineup"
	"bestball-lab/internal/rng"
)

// Simulation errors.
var (
	// ErrNoOpenPick is returned when a simulation is requested against a
	// fully-drafted board.
	ErrNoOpenPick = errors.New("no open pick on board")

	// ErrEmptyCandidateSet is returned when the ADP gate and QB-round
	// constraints exclude every candidate. Distinct from ErrNoOpenPick so
	// callers can widen constraints.
	ErrEmptyCandidateSet = errors.New("no candidates within constraints")
)

// adpOrderNoise is the stdev of the gaussian jitter applied to consensus
// ADP when building an opponent's pick order.
const adpOrderNoise = 0.2

// Simulator completes one draft board per trial. The pool is read-only
// for the lifetime of the simulator; trials never mutate the input board.
type Simulator struct {
	pool []*domain.Player
	byID map[string]int
	cfg  domain.SimulationConfig
}

// NewSimulator creates a simulator over a player pool. cfg is assumed to
// be clamped already (see domain.SimulationConfig.Clamp).
func NewSimulator(pool []*domain.Player, cfg domain.SimulationConfig) *Simulator {
	byID := make(map[string]int, len(pool))
	for i, p := range pool {
		byID[p.ID] = i
	}
	return &Simulator{pool: pool, byID: byID, cfg: cfg}
}

// PoolIndex returns the pool position of a player ID, or -1.
func (s *Simulator) PoolIndex(playerID string) int {
	if i, ok := s.byID[playerID]; ok {
		return i
	}
	return -1
}

// TrialResult holds per-team outcomes of one completed draft.
type TrialResult struct {
	TeamScores []float64 // lineup total per team, index = teamSlot-1
	WinShares  []float64 // 1 split evenly across tied winners
	Rosters    [][]int   // scored pool indices per team, capped at the roster limit
}

// RunTrial completes the board once. Slots already filled keep their real
// picks; the first open slot receives candidateIdx (when >= 0 and not
// already drafted); every other open slot is filled by the opponent model.
// Each team's first MaxRosterSize picks are scored as a best-ball lineup
// and win credit is split across the top score.
func (s *Simulator) RunTrial(board *domain.Board, candidateIdx int, src *rng.Source) TrialResult {
	taken := make([]bool, len(s.pool))
	for id := range board.TakenIDs() {
		if i, ok := s.byID[id]; ok {
			taken[i] = true
		}
	}

	adpOrder := s.randomizedADPOrder(src)
	teamPicks := make([][]int, board.Teams)
	firstOpen := board.FirstOpen()

	for i := range board.Slots {
		slot := &board.Slots[i]
		team := slot.TeamSlot - 1

		if !slot.Open() {
			if idx, ok := s.byID[slot.PlayerID]; ok {
				teamPicks[team] = append(teamPicks[team], idx)
			}
			continue
		}

		if i == firstOpen && candidateIdx >= 0 && !taken[candidateIdx] {
			teamPicks[team] = append(teamPicks[team], candidateIdx)
			taken[candidateIdx] = true
			continue
		}

		chosen := s.chooseBestAvailable(adpOrder, taken, teamPicks[team], slot.Overall, slot.Round)
		if chosen >= 0 {
			teamPicks[team] = append(teamPicks[team], chosen)
			taken[chosen] = true
		}
	}

	return s.scoreTeams(teamPicks, src)
}

// randomizedADPOrder builds one trial's opponent consensus: pool indices
// sorted by ADP (999 when unknown) plus gaussian noise.
func (s *Simulator) randomizedADPOrder(src *rng.Source) []int {
	type keyed struct {
		idx int
		key float64
	}
	keys := make([]keyed, len(s.pool))
	for i, p := range s.pool {
		keys[i] = keyed{idx: i, key: p.ADPOrUnknown() + src.Gaussian()*adpOrderNoise}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].key < keys[j].key
	})
	order := make([]int, len(keys))
	for i, k := range keys {
		order[i] = k.idx
	}
	return order
}

// chooseBestAvailable picks for an opponent. Walking the randomized ADP
// order it skips taken players, players past the ADP gate, and a second
// QB before the configured round; a QB-less team with at most one roster
// slot left is restricted to QBs. Falls back to the best remaining QB
// (when QB-less) or the first untaken player in order. Returns -1 when
// the pool is exhausted.
func (s *Simulator) chooseBestAvailable(adpOrder []int, taken []bool, picks []int, overall, round int) int {
	hasQB := s.teamHasQB(picks)
	mustTakeQB := !hasQB && s.cfg.MaxRosterSize-len(picks) <= 1

	for _, idx := range adpOrder {
		if taken[idx] {
			continue
		}
		p := s.pool[idx]
		if p.ADPOrUnknown() > float64(overall)+s.cfg.ADPGateWindow {
			continue
		}
		if hasQB && p.Position == domain.PositionQB && round < s.cfg.MinRoundForSecondQB {
			continue
		}
		if mustTakeQB && p.Position != domain.PositionQB {
			continue
		}
		return idx
	}

	if !hasQB {
		for idx, p := range s.pool {
			if !taken[idx] && p.Position == domain.PositionQB {
				return idx
			}
		}
	}
	for _, idx := range adpOrder {
		if !taken[idx] {
			return idx
		}
	}
	return -1
}

func (s *Simulator) teamHasQB(picks []int) bool {
	for _, idx := range picks {
		if s.pool[idx].Position == domain.PositionQB {
			return true
		}
	}
	return false
}

// scoreTeams optimizes each team's capped roster and splits win credit
// across the maximum score.
func (s *Simulator) scoreTeams(teamPicks [][]int, src *rng.Source) TrialResult {
	cfg := lineup.Config{
		QBWeight:    s.cfg.QBScoreWeight,
		UseVariance: s.cfg.UseVarianceSampling,
	}

	result := TrialResult{
		TeamScores: make([]float64, len(teamPicks)),
		WinShares:  make([]float64, len(teamPicks)),
		Rosters:    make([][]int, len(teamPicks)),
	}

	for team, picks := range teamPicks {
		if len(picks) > s.cfg.MaxRosterSize {
			picks = picks[:s.cfg.MaxRosterSize]
		}
		result.Rosters[team] = picks
		roster := make([]*domain.Player, len(picks))
		for i, idx := range picks {
			roster[i] = s.pool[idx]
		}
		result.TeamScores[team] = lineup.Optimize(roster, cfg, src).TotalScore
	}

	best := result.TeamScores[0]
	for _, score := range result.TeamScores[1:] {
		if score > best {
			best = score
		}
	}
	winners := 0
	for _, score := range result.TeamScores {
		if score == best {
			winners++
		}
	}
	for team, score := range result.TeamScores {
		if score == best {
			result.WinShares[team] = 1 / float64(winners)
		}
	}
	return result
}
