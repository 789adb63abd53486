package draftorder

import "testing"

func TestPickNumber_Linear(t *testing.T) {
	tests := []struct {
		teams, round, pick int
		want               int
	}{
		{12, 1, 1, 1},
		{12, 1, 12, 12},
		{12, 2, 1, 13},
		{12, 3, 5, 29},
	}

	for _, tt := range tests {
		if got := PickNumber(tt.teams, tt.round, tt.pick, false); got != tt.want {
			t.Errorf("PickNumber(%d,%d,%d,linear) = %d, want %d", tt.teams, tt.round, tt.pick, got, tt.want)
		}
	}
}

func TestPickNumber_SnakeEvenRoundReverses(t *testing.T) {
	// teams=3, round=2, pickInRound=1: normalized = 3-1+1 = 3, overall = 6.
	if got := PickNumber(3, 2, 1, true); got != 6 {
		t.Errorf("Expected overall 6, got %d", got)
	}
	if got := PickNumber(3, 2, 3, true); got != 4 {
		t.Errorf("Expected overall 4 for slot 3 in round 2, got %d", got)
	}
	// Odd rounds keep natural order.
	if got := PickNumber(3, 3, 2, true); got != 8 {
		t.Errorf("Expected overall 8, got %d", got)
	}
}

func TestPickNumber_ClampsPickInRound(t *testing.T) {
	if got := PickNumber(12, 1, 0, true); got != 1 {
		t.Errorf("Expected clamp to pick 1, got %d", got)
	}
	if got := PickNumber(12, 1, 99, true); got != 12 {
		t.Errorf("Expected clamp to pick 12, got %d", got)
	}
}

func TestBuildBoard_SnakeAgreesWithResolver(t *testing.T) {
	const teams, rounds = 3, 4
	board := BuildBoard(teams, rounds, true)

	if len(board.Slots) != teams*rounds {
		t.Fatalf("Expected %d slots, got %d", teams*rounds, len(board.Slots))
	}

	for i, slot := range board.Slots {
		if slot.Overall != i+1 {
			t.Fatalf("Slot %d has overall %d; board must be in pick order", i, slot.Overall)
		}
		// Resolving the slot's team back through PickNumber must land on
		// the same overall pick.
		resolved := PickNumber(teams, slot.Round, slot.TeamSlot, true)
		if resolved != slot.Overall {
			t.Errorf("Round %d team %d: board says overall %d, resolver says %d",
				slot.Round, slot.TeamSlot, slot.Overall, resolved)
		}
	}
}

func TestBuildBoard_EachTeamPicksOncePerRound(t *testing.T) {
	board := BuildBoard(4, 6, true)

	seen := make(map[[2]int]int) // (round, teamSlot) -> count
	for _, slot := range board.Slots {
		seen[[2]int{slot.Round, slot.TeamSlot}]++
	}
	for key, count := range seen {
		if count != 1 {
			t.Errorf("Round %d team %d picked %d times", key[0], key[1], count)
		}
	}
}
