package domain

// DraftState is the scoring-time view of one team's draft position.
type DraftState struct {
	PickNumber int                 // resolved absolute pick on the clock
	Roster     map[Position]int    // position -> count already rostered
	TakenIDs   map[string]struct{} // players drafted by anyone
}

// Taken reports whether a player has already been drafted.
func (d *DraftState) Taken(playerID string) bool {
	if d.TakenIDs == nil {
		return false
	}
	_, ok := d.TakenIDs[playerID]
	return ok
}

// DraftContext carries cross-draft exposure history for diversification.
type DraftContext struct {
	Exposures   map[string]int // playerID -> drafts where rostered
	TotalDrafts int
}

// ExposureRate returns the fraction of drafts in which the player was
// rostered, or 0 when no drafts have been recorded.
func (c *DraftContext) ExposureRate(playerID string) float64 {
	if c == nil || c.TotalDrafts <= 0 {
		return 0
	}
	return float64(c.Exposures[playerID]) / float64(c.TotalDrafts)
}
