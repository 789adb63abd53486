// Package catalog normalizes raw player records and indexes them by ID.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"bestball-lab/internal/domain"
	"bestball-lab/internal/playerid"
)

// Catalog errors.
var (
	// ErrInvalidPosition is returned when a raw position does not map to a
	// canonical tag. The record is excluded, never coerced.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrEmptyName is returned for rows without a player name.
	ErrEmptyName = errors.New("empty player name")

	// ErrNotFound is returned by Lookup for unknown player IDs.
	ErrNotFound = errors.New("player not found")
)

// positionAliases maps raw position spellings to canonical tags.
var positionAliases = map[string]domain.Position{
	"QB":    domain.PositionQB,
	"RB":    domain.PositionRB,
	"WR":    domain.PositionWR,
	"TE":    domain.PositionTE,
	"WR/TE": domain.PositionWR,
	"WRTE":  domain.PositionWR,
	"WR-TE": domain.PositionWR,
	"WT":    domain.PositionWR,
	"FLEX":  domain.PositionFlex,
}

// CanonicalPosition maps a raw position string to its canonical tag.
// Returns ErrInvalidPosition for unrecognized input.
func CanonicalPosition(raw string) (domain.Position, error) {
	tag := strings.ToUpper(strings.Join(strings.Fields(raw), ""))
	if tag == "" {
		return "", ErrInvalidPosition
	}
	if pos, ok := positionAliases[tag]; ok {
		return pos, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPosition, raw)
}

// RawPlayer is one unnormalized pool row as supplied by an import
// collaborator. Column mapping happens upstream; fields arrive typed.
type RawPlayer struct {
	Name       string
	Position   string
	Team       string
	ADP        float64
	Projection float64
	SD         float64
	Bye        int
}

// Normalize converts a raw row into a Player. Deterministic: the same
// raw input always yields the same ID.
func Normalize(raw RawPlayer) (*domain.Player, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return nil, ErrEmptyName
	}

	pos, err := CanonicalPosition(raw.Position)
	if err != nil {
		return nil, err
	}

	p := &domain.Player{
		ID:         playerid.FromName(name, string(pos)),
		Name:       name,
		Team:       strings.TrimSpace(raw.Team),
		Position:   pos,
		ADP:        finiteOrZero(raw.ADP),
		Projection: finiteOrZero(raw.Projection),
		SD:         finiteOrZero(raw.SD),
		Bye:        raw.Bye,
	}
	if p.SD < 0 {
		p.SD = 0
	}
	return p, nil
}

// finiteOrZero filters NaN/Inf and negatives down to the unset value.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// BuildStats counts rows filtered during catalog construction. Malformed
// rows are never fatal for the batch.
type BuildStats struct {
	Accepted         int
	SkippedEmptyName int
	SkippedPosition  int
	SkippedDuplicate int
}

// Catalog owns the normalized player pool for one session.
type Catalog struct {
	players []*domain.Player
	byID    map[string]*domain.Player
}

// New builds a catalog from raw rows, filtering and counting malformed
// entries. On duplicate IDs the first row wins.
func New(raws []RawPlayer) (*Catalog, BuildStats) {
	c := &Catalog{byID: make(map[string]*domain.Player, len(raws))}
	var stats BuildStats

	for _, raw := range raws {
		p, err := Normalize(raw)
		if err != nil {
			switch {
			case errors.Is(err, ErrEmptyName):
				stats.SkippedEmptyName++
			case errors.Is(err, ErrInvalidPosition):
				stats.SkippedPosition++
			}
			continue
		}
		if _, exists := c.byID[p.ID]; exists {
			stats.SkippedDuplicate++
			continue
		}
		c.byID[p.ID] = p
		c.players = append(c.players, p)
		stats.Accepted++
	}

	return c, stats
}

// Lookup returns the player with the given ID, or ErrNotFound.
func (c *Catalog) Lookup(id string) (*domain.Player, error) {
	p, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

// Players returns the pool in import order. Callers must not mutate the
// returned players during a simulation run.
func (c *Catalog) Players() []*domain.Player {
	return c.players
}

// Len returns the number of players in the catalog.
func (c *Catalog) Len() int {
	return len(c.players)
}
