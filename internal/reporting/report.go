package reporting

import (
	"time"

	"bestball-lab/internal/domain"
)

// Report is the rendered summary of one simulation run, in either
// candidate or final-standings mode.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RunID       string
	Mode        string // domain.ModeCandidate | domain.ModeStandings
	Trials      int
	PoolSize    int

	// Config adjustments applied by clamping, empty when the input
	// configuration was already in range.
	ConfigNotes []string

	// Candidate mode rows, sorted by win% descending.
	Candidates []CandidateRow

	// Standings mode rows, sorted by win% descending.
	Standings []StandingRow
}

// CandidateRow is one evaluated candidate.
type CandidateRow struct {
	PlayerID string
	Name     string
	Position string
	ADP      float64
	WinPct   float64
	AvgScore float64
}

// StandingRow is one projected team finish.
type StandingRow struct {
	TeamIndex int
	WinPct    float64
	AvgScore  float64
}

// NewCandidateReport builds a candidate-mode report from aggregator output.
func NewCandidateReport(runID string, cfg domain.SimulationConfig, notes []string, poolSize int, results []domain.CandidateResult) *Report {
	r := &Report{
		GeneratedAt: time.Now().UTC(),
		RunID:       runID,
		Mode:        domain.ModeCandidate,
		Trials:      cfg.NumTrials,
		PoolSize:    poolSize,
		ConfigNotes: notes,
	}
	for _, c := range results {
		r.Candidates = append(r.Candidates, CandidateRow{
			PlayerID: c.Player.ID,
			Name:     c.Player.Name,
			Position: string(c.Player.Position),
			ADP:      c.Player.ADP,
			WinPct:   c.WinPct,
			AvgScore: c.AvgScore,
		})
	}
	return r
}

// NewStandingsReport builds a final-standings report from aggregator output.
func NewStandingsReport(runID string, cfg domain.SimulationConfig, notes []string, poolSize int, standings []domain.TeamStanding) *Report {
	r := &Report{
		GeneratedAt: time.Now().UTC(),
		RunID:       runID,
		Mode:        domain.ModeStandings,
		Trials:      cfg.NumTrials,
		PoolSize:    poolSize,
		ConfigNotes: notes,
	}
	for _, s := range standings {
		r.Standings = append(r.Standings, StandingRow{
			TeamIndex: s.TeamIndex,
			WinPct:    s.WinPct,
			AvgScore:  s.AvgScore,
		})
	}
	return r
}
