package domain

// Recommendation pairs a player with its ranking score.
type Recommendation struct {
	Player *Player
	Score  float64
}

// CandidateResult is one row of a candidate-mode simulation: how often
// the evaluating team wins when this player is forced into the open pick.
type CandidateResult struct {
	Player   *Player
	WinPct   float64 // 100 * win credit / trials
	AvgScore float64 // mean lineup score of the evaluating team
}

// TeamStanding is one row of a final-standings projection.
type TeamStanding struct {
	TeamIndex int // 0-based
	WinPct    float64
	AvgScore  float64
}

// Simulation run modes recorded with trial telemetry.
const (
	ModeCandidate = "candidate"
	ModeStandings = "standings"
)

// TrialRecord is per-trial telemetry emitted by the aggregator for
// offline analysis.
type TrialRecord struct {
	RunID       string
	Mode        string // ModeCandidate | ModeStandings
	CandidateID string // "" in standings mode
	Trial       int    // 0-based trial index
	TeamIndex   int
	Score       float64
	WinShare    float64 // 1/n for an n-way tie, else 0 or 1
	RecordedAt  int64   // unix milliseconds
}
