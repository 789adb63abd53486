package domain

// Starter slot template for best-ball scoring: 1 QB, 1 RB, 2 WR/TE and
// 2 FLEX, six starters total when the roster allows it.
const StarterSlots = 6

// LineupResult is the output of one lineup optimization call.
type LineupResult struct {
	Starters   []string // player IDs, at most StarterSlots entries
	Bench      []string // rostered players not starting
	TotalScore float64  // sum of starter scores under the active mode
}
