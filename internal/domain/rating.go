package domain

// Rating lift bounds. GetLift never reports outside this range regardless
// of update history.
const (
	MinRatingLift = -0.25
	MaxRatingLift = 0.35
)

// Rating is a learned per-player adjustment. Value is an exponential
// moving average of realized win-rate lift, bounded on read.
type Rating struct {
	PlayerID    string
	Value       float64
	SampleCount int
}

// ClampedValue returns Value bounded to [MinRatingLift, MaxRatingLift].
func (r *Rating) ClampedValue() float64 {
	if r.Value < MinRatingLift {
		return MinRatingLift
	}
	if r.Value > MaxRatingLift {
		return MaxRatingLift
	}
	return r.Value
}

// DraftOutcome is one recorded draft result consumed by the learning
// tracker. Outcomes form a bounded history, oldest dropped first.
type DraftOutcome struct {
	RecordedAt int64 // unix milliseconds
	TeamIndex  int   // 0-based index of the recording team
	Teams      int
	WinPct     float64
	AvgScore   float64
	PlayerIDs  []string // the recording team's roster
}

// MaxOutcomeHistory caps the learning tracker's stored outcomes.
const MaxOutcomeHistory = 50
