// Package scoring ranks candidates for the next pick. Scores blend
// projected value, positional scarcity, ADP edge, exposure diversification
// and optional noise; they order players and do not predict points.
package scoring

import (
	"fmt"
	"sort"

	"bestball-lab/internal/domain"
	"bestball-lab/internal/rng"
)

// ADP edge clamp bounds how far over- or under-valuation can swing a score.
const (
	minADPEdge = -0.3
	maxADPEdge = 0.4
)

// LiftProvider exposes learned per-player rating lifts. The zero lift
// leaves the score untouched.
type LiftProvider interface {
	GetLift(playerID string) float64
}

// Score computes the ranking score for one player at one pick. Every term
// is proportional to the projection, so a zero-projection player scores 0
// before noise. lift is the learned rating adjustment, already clamped.
func Score(p *domain.Player, pickNumber int, roster map[domain.Position]int, ctx *domain.DraftContext, opts domain.ScoringOptions, lift float64) float64 {
	base := p.Projection * (1 + lift)

	need := PositionalNeed(p.Position, roster, opts.RosterCaps)
	scarcityBoost := need * opts.ScarcityWeight * base

	adpEdge := ADPEdge(p.ADP, pickNumber) * opts.ADPWeight * base

	penalty := exposurePenalty(p.ID, ctx, opts) * base

	raw := base + scarcityBoost + adpEdge - penalty
	if !opts.Randomness.Enabled {
		return raw
	}
	return raw * (1 + noiseFor(p.ID, pickNumber, opts.Randomness))
}

// PositionalNeed is the fraction of remaining roster capacity at a
// position, or 0 when the position has no capacity at all.
func PositionalNeed(pos domain.Position, roster map[domain.Position]int, caps domain.RosterConfig) float64 {
	capacity := caps[pos]
	if capacity == 0 {
		return 0
	}
	remaining := capacity - roster[pos]
	if remaining < 0 {
		remaining = 0
	}
	return float64(remaining) / float64(capacity)
}

// ADPEdge rewards players still available past their consensus slot and
// penalizes reaches, clamped to [-0.3, 0.4]. Missing ADP contributes 0.
func ADPEdge(adp float64, pickNumber int) float64 {
	if adp <= 0 {
		return 0
	}
	edge := (adp - float64(pickNumber)) / adp
	if edge < minADPEdge {
		return minADPEdge
	}
	if edge > maxADPEdge {
		return maxADPEdge
	}
	return edge
}

// exposurePenalty charges only for exposure above the player's target rate.
func exposurePenalty(playerID string, ctx *domain.DraftContext, opts domain.ScoringOptions) float64 {
	rate := ctx.ExposureRate(playerID)
	target := opts.TargetExposureFor(playerID)
	if rate <= target {
		return 0
	}
	return (rate - target) * opts.ExposureWeight
}

// noiseFor draws the multiplicative jitter for one candidate/pick pair.
// With a seed, the stream is derived per call from seed, player and pick,
// so repeated scoring of the same pair is reproducible.
func noiseFor(playerID string, pickNumber int, r domain.RandomnessOptions) float64 {
	var src *rng.Source
	if r.Seed != "" {
		src = rng.New(fmt.Sprintf("%s-%s-%d", r.Seed, playerID, pickNumber))
	} else {
		src = rng.New("")
	}
	return src.Gaussian() * r.Stdev
}

// RecommendPicks scores every un-taken player and returns them sorted
// descending by score. Ties keep pool order (stable sort). lifts may be
// nil when no learned ratings apply.
func RecommendPicks(pool []*domain.Player, state *domain.DraftState, ctx *domain.DraftContext, opts domain.ScoringOptions, lifts LiftProvider) []domain.Recommendation {
	if ctx == nil {
		ctx = &domain.DraftContext{}
	}

	recs := make([]domain.Recommendation, 0, len(pool))
	for _, p := range pool {
		if state.Taken(p.ID) {
			continue
		}
		lift := 0.0
		if lifts != nil {
			lift = lifts.GetLift(p.ID)
		}
		recs = append(recs, domain.Recommendation{
			Player: p,
			Score:  Score(p, state.PickNumber, state.Roster, ctx, opts, lift),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	return recs
}
