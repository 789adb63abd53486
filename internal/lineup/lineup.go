// Package lineup builds best-ball lineups: greedy starter assignment over
// the {QB:1, RB:1, WRTE:2, FLEX:2} template plus a bounded single-swap
// repair for real-world team diversity.
package lineup

import (
	"sort"

	"bestball-lab/internal/domain"
	"bestball-lab/internal/rng"
)

// diversityTolerance is the maximum absolute total-score loss the repair
// swap may cost.
const diversityTolerance = 0.1

// Config controls lineup scoring.
type Config struct {
	QBWeight    float64 // discount applied to QB projections
	UseVariance bool    // sample scores from N(projection, sd)
}

// Optimize partitions picked players into starters and bench and computes
// the total starter score. Sampled scores are memoized for the duration
// of the call so the starter, flex and diversity decisions all see the
// same value per player. src is only consulted in variance mode.
func Optimize(picked []*domain.Player, cfg Config, src *rng.Source) domain.LineupResult {
	scores := make(map[*domain.Player]float64, len(picked))
	scoreOf := func(p *domain.Player) float64 {
		if s, ok := scores[p]; ok {
			return s
		}
		s := p.Projection
		if p.Position == domain.PositionQB {
			s *= cfg.QBWeight
		}
		if cfg.UseVariance && p.SD > 0 && src != nil {
			s += p.SD * src.Gaussian()
			if s < 0 {
				s = 0
			}
		}
		scores[p] = s
		return s
	}

	byScore := func(players []*domain.Player) {
		sort.SliceStable(players, func(i, j int) bool {
			si, sj := scoreOf(players[i]), scoreOf(players[j])
			if si != sj {
				return si > sj
			}
			return players[i].ADPOrUnknown() < players[j].ADPOrUnknown()
		})
	}

	var qbs, rbs, wrte []*domain.Player
	for _, p := range picked {
		switch p.Position {
		case domain.PositionQB:
			qbs = append(qbs, p)
		case domain.PositionRB:
			rbs = append(rbs, p)
		case domain.PositionWR, domain.PositionTE:
			wrte = append(wrte, p)
		}
	}
	byScore(qbs)
	byScore(rbs)
	byScore(wrte)

	var starters []*domain.Player
	used := make(map[*domain.Player]bool)
	take := func(p *domain.Player) {
		starters = append(starters, p)
		used[p] = true
	}

	if len(qbs) > 0 {
		take(qbs[0])
	}
	if len(rbs) > 0 {
		take(rbs[0])
	}
	for i := 0; i < len(wrte) && i < 2; i++ {
		take(wrte[i])
	}

	// Flex pool: second RB onward, third WR/TE onward, plus anything else
	// picked (FLEX-tagged players land here), ranked purely by score.
	var flex []*domain.Player
	for _, p := range picked {
		if !used[p] {
			flex = append(flex, p)
		}
	}
	byScore(flex)
	for _, p := range flex {
		if len(starters) >= domain.StarterSlots {
			break
		}
		take(p)
	}

	starters = repairDiversity(starters, benchOf(picked, used), scoreOf)

	// Recompute the bench against the final starters so the remainder
	// invariant holds after a repair swap.
	finalUsed := make(map[*domain.Player]bool, len(starters))
	for _, p := range starters {
		finalUsed[p] = true
	}

	result := domain.LineupResult{}
	for _, p := range starters {
		result.Starters = append(result.Starters, p.ID)
		result.TotalScore += scoreOf(p)
	}
	for _, p := range picked {
		if !finalUsed[p] {
			result.Bench = append(result.Bench, p.ID)
		}
	}
	return result
}

func benchOf(picked []*domain.Player, used map[*domain.Player]bool) []*domain.Player {
	var bench []*domain.Player
	for _, p := range picked {
		if !used[p] {
			bench = append(bench, p)
		}
	}
	return bench
}

// repairDiversity applies at most one starter/bench substitution when all
// starters share one real-world team. Starters are tried lowest score
// first, bench candidates highest score first; the first cross-team swap
// that keeps at least two distinct starter teams and costs no more than
// the tolerance wins. Later bench candidates are not revisited once a
// swap is accepted.
func repairDiversity(starters, bench []*domain.Player, scoreOf func(*domain.Player) float64) []*domain.Player {
	if len(starters) == 0 || len(bench) == 0 {
		return starters
	}
	if distinctTeams(starters) > 1 {
		return starters
	}

	lowFirst := append([]*domain.Player(nil), starters...)
	sort.SliceStable(lowFirst, func(i, j int) bool {
		return scoreOf(lowFirst[i]) < scoreOf(lowFirst[j])
	})
	highFirst := append([]*domain.Player(nil), bench...)
	sort.SliceStable(highFirst, func(i, j int) bool {
		return scoreOf(highFirst[i]) > scoreOf(highFirst[j])
	})

	oldTotal := 0.0
	for _, p := range starters {
		oldTotal += scoreOf(p)
	}

	for _, low := range lowFirst {
		for _, sub := range highFirst {
			if sub.Team == "" || sub.Team == low.Team {
				continue
			}
			candidate := make([]*domain.Player, len(starters))
			newTotal := 0.0
			for i, p := range starters {
				if p == low {
					p = sub
				}
				candidate[i] = p
				newTotal += scoreOf(p)
			}
			if distinctTeams(candidate) > 1 && newTotal >= oldTotal-diversityTolerance {
				return candidate
			}
		}
	}
	return starters
}

func distinctTeams(players []*domain.Player) int {
	teams := make(map[string]struct{}, len(players))
	for _, p := range players {
		teams[p.Team] = struct{}{}
	}
	return len(teams)
}
