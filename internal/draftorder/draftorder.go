// Package draftorder is the single source of truth for pick ordering.
// Board construction and live scoring both resolve pick numbers here so
// they can never disagree.
package draftorder

import "bestball-lab/internal/domain"

// PickNumber converts a round/slot position into the absolute 1-based
// pick number. pickInRound is clamped to [1, teams]. In snake drafts the
// within-round order reverses on even rounds.
func PickNumber(teams, round, pickInRound int, snake bool) int {
	if pickInRound < 1 {
		pickInRound = 1
	}
	if pickInRound > teams {
		pickInRound = teams
	}

	normalized := pickInRound
	if snake && round%2 == 0 {
		normalized = teams - pickInRound + 1
	}
	return (round-1)*teams + normalized
}

// TeamForPick returns the 1-based team slot on the clock for a
// within-round position, applying snake reversal on even rounds.
func TeamForPick(teams, round, pickInRound int, snake bool) int {
	if snake && round%2 == 0 {
		return teams - pickInRound + 1
	}
	return pickInRound
}

// BuildBoard constructs an empty board of teams x rounds slots in pick
// order. Within odd rounds team slots run 1..teams; even rounds reverse.
func BuildBoard(teams, rounds int, snake bool) *domain.Board {
	slots := make([]domain.BoardSlot, 0, teams*rounds)
	overall := 0
	for r := 1; r <= rounds; r++ {
		for p := 1; p <= teams; p++ {
			overall++
			slots = append(slots, domain.BoardSlot{
				Overall:  overall,
				Round:    r,
				TeamSlot: TeamForPick(teams, r, p, snake),
			})
		}
	}
	return &domain.Board{Teams: teams, Rounds: rounds, Slots: slots}
}
