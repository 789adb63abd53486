package domain

import "fmt"

// RosterConfig caps how many players a team may roster per position.
type RosterConfig map[Position]int

// DefaultRosterConfig returns the standard best-ball roster shape.
func DefaultRosterConfig() RosterConfig {
	return RosterConfig{
		PositionQB:   2,
		PositionRB:   5,
		PositionWR:   7,
		PositionTE:   3,
		PositionFlex: 1,
	}
}

// RandomnessOptions controls score jitter in the recommendation ranking.
type RandomnessOptions struct {
	Enabled bool
	Stdev   float64 // gaussian noise scale applied multiplicatively
	Seed    string  // "" = unseeded source
}

// ScoringOptions is the immutable configuration of the recommendation
// scorer. It is passed explicitly on every call so scoring stays a pure
// function of its arguments.
type ScoringOptions struct {
	RosterCaps            RosterConfig
	ADPWeight             float64
	ScarcityWeight        float64
	ExposureWeight        float64
	DefaultTargetExposure float64
	TargetExposure        map[string]float64 // per-player overrides
	Randomness            RandomnessOptions
}

// DefaultScoringOptions returns the reference scoring weights.
func DefaultScoringOptions() ScoringOptions {
	return ScoringOptions{
		RosterCaps:            DefaultRosterConfig(),
		ADPWeight:             0.25,
		ScarcityWeight:        0.6,
		ExposureWeight:        0.8,
		DefaultTargetExposure: 0.22,
		Randomness:            RandomnessOptions{Enabled: true, Stdev: 0.04},
	}
}

// TargetExposureFor returns the exposure target for a player, falling back
// to the global default.
func (o *ScoringOptions) TargetExposureFor(playerID string) float64 {
	if t, ok := o.TargetExposure[playerID]; ok {
		return t
	}
	return o.DefaultTargetExposure
}

// SimulationConfig parameterizes Monte Carlo draft simulation.
type SimulationConfig struct {
	NumTrials           int     // independent trials per candidate / per run
	UseVarianceSampling bool    // sample lineup scores from N(mean, sd)
	QBScoreWeight       float64 // discount on QB scoring, models one starting QB
	ADPGateWindow       float64 // max adp - overall before an opponent passes
	MinRoundForSecondQB int     // opponents skip a second QB before this round
	ShortlistSize       int     // candidates evaluated per open pick
	MaxRosterSize       int     // picks per team that count toward scoring
	Seed                string  // "" = time-based seed chosen by the caller
}

// Supported bounds for SimulationConfig fields. Out-of-range values are
// clamped, not rejected.
const (
	MinTrials = 50
	MaxTrials = 50000

	MinQBScoreWeight = 0.5
	MaxQBScoreWeight = 1.0

	MinADPGateWindow = 0
	MaxADPGateWindow = 40

	MinShortlistSize = 1
	MaxShortlistSize = 20
)

// DefaultSimulationConfig returns the reference simulation parameters.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		NumTrials:           800,
		UseVarianceSampling: false,
		QBScoreWeight:       0.85,
		ADPGateWindow:       16,
		MinRoundForSecondQB: 6,
		ShortlistSize:       8,
		MaxRosterSize:       7,
	}
}

// Clamp bounds every numeric field to its supported range. The returned
// notes describe each adjustment so callers can surface them.
func (c SimulationConfig) Clamp() (SimulationConfig, []string) {
	var notes []string

	clampInt := func(name string, v, lo, hi int) int {
		if v < lo {
			notes = append(notes, fmt.Sprintf("%s raised from %d to %d", name, v, lo))
			return lo
		}
		if v > hi {
			notes = append(notes, fmt.Sprintf("%s lowered from %d to %d", name, v, hi))
			return hi
		}
		return v
	}
	clampFloat := func(name string, v, lo, hi float64) float64 {
		if v < lo {
			notes = append(notes, fmt.Sprintf("%s raised from %g to %g", name, v, lo))
			return lo
		}
		if v > hi {
			notes = append(notes, fmt.Sprintf("%s lowered from %g to %g", name, v, hi))
			return hi
		}
		return v
	}

	c.NumTrials = clampInt("num_trials", c.NumTrials, MinTrials, MaxTrials)
	c.QBScoreWeight = clampFloat("qb_score_weight", c.QBScoreWeight, MinQBScoreWeight, MaxQBScoreWeight)
	c.ADPGateWindow = clampFloat("adp_gate_window", c.ADPGateWindow, MinADPGateWindow, MaxADPGateWindow)
	c.ShortlistSize = clampInt("shortlist_size", c.ShortlistSize, MinShortlistSize, MaxShortlistSize)
	if c.MinRoundForSecondQB < 1 {
		notes = append(notes, fmt.Sprintf("min_round_for_second_qb raised from %d to 1", c.MinRoundForSecondQB))
		c.MinRoundForSecondQB = 1
	}
	if c.MaxRosterSize < 1 {
		notes = append(notes, fmt.Sprintf("max_roster_size raised from %d to 1", c.MaxRosterSize))
		c.MaxRosterSize = 1
	}

	return c, notes
}
