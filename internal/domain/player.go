package domain

// Position is a canonical roster position tag.
type Position string

// Canonical positions.
const (
	PositionQB   Position = "QB"
	PositionRB   Position = "RB"
	PositionWR   Position = "WR"
	PositionTE   Position = "TE"
	PositionFlex Position = "FLEX"
)

// Player represents one normalized entry of the draftable pool.
type Player struct {
	ID         string   // deterministic slug, unique within a catalog
	Name       string   // display name as imported
	Team       string   // real-world team tag (free text)
	Position   Position // canonical position
	ADP        float64  // average draft position; 0 = unknown
	Projection float64  // expected points per period
	SD         float64  // scoring standard deviation; 0 = none
	Bye        int      // bye week; 0 = unknown
}

// UnknownADP is the ordering value assigned to players without an ADP.
// A missing ADP sorts after every ranked player and never passes the gate.
const UnknownADP = 999

// HasADP reports whether the player carries a usable ADP value.
func (p *Player) HasADP() bool {
	return p.ADP > 0
}

// ADPOrUnknown returns the ADP, or UnknownADP when the player has none.
func (p *Player) ADPOrUnknown() float64 {
	if p.HasADP() {
		return p.ADP
	}
	return UnknownADP
}
