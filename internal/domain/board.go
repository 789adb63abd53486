package domain

// BoardSlot is one pick cell of a draft board.
type BoardSlot struct {
	Overall  int    // 1-based absolute pick number
	Round    int    // 1-based round
	TeamSlot int    // 1..Teams; the team on the clock for this pick
	PlayerID string // occupant player ID; "" = open
}

// Open reports whether the slot has not been picked yet.
func (s *BoardSlot) Open() bool {
	return s.PlayerID == ""
}

// Board is an ordered draft board. Slots are sorted by Overall ascending.
type Board struct {
	Teams  int
	Rounds int
	Slots  []BoardSlot
}

// FirstOpen returns the index of the first open slot, or -1 when the
// board is fully drafted.
func (b *Board) FirstOpen() int {
	for i := range b.Slots {
		if b.Slots[i].Open() {
			return i
		}
	}
	return -1
}

// TakenIDs returns the set of player IDs already on the board.
func (b *Board) TakenIDs() map[string]struct{} {
	taken := make(map[string]struct{})
	for i := range b.Slots {
		if !b.Slots[i].Open() {
			taken[b.Slots[i].PlayerID] = struct{}{}
		}
	}
	return taken
}

// Clone returns a deep copy. Simulations mutate copies, never the
// caller-owned board.
func (b *Board) Clone() *Board {
	slots := make([]BoardSlot, len(b.Slots))
	copy(slots, b.Slots)
	return &Board{Teams: b.Teams, Rounds: b.Rounds, Slots: slots}
}
