package entity

import (
	"sort"

	"github.com/tactics5x5/arena/internal/board"
	"github.com/tactics5x5/arena/internal/rng"
)

// Board is a fixed 5x5 grid descriptor. It carries no mutable state of its
// own; geometry queries live in package board.
type Board struct {
	Width  int
	Height int
}

// DefaultBoard is the only Board value the rule engine ever constructs.
var DefaultBoard = Board{Width: board.Width, Height: board.Height}

// GameState is the single immutable snapshot the rule engine transforms.
// Every field here is either a scalar, a slice, or a map; every transition
// in package rules builds a brand new GameState value rather than mutating
// one in place. Holding a reference to an old GameState across a
// transition must continue to observe the old values (spec.md §8).
type GameState struct {
	Board Board

	Units     []Unit            // insertion order stable
	UnitBuffs map[string][]BuffInstance

	Obstacles []Obstacle
	BuffTiles []BuffTile

	CurrentPlayer    PlayerID
	ActingUnitID     string // "" when no unit is mid-SPEED-sequence
	CurrentRound     int
	Player1TurnEnded bool
	Player2TurnEnded bool

	IsGameOver bool
	Winner     PlayerID // "" until set

	PendingDeathChoices []DeathChoiceRequest
	FirstHeroDeath      PlayerID // "" until the first hero dies in this action

	RNGState rng.State
}

// FindUnit returns the unit with the given id and whether it was found.
func (s GameState) FindUnit(id string) (Unit, bool) {
	for _, u := range s.Units {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

// FindUnitAt returns the living unit occupying pos, if any.
func (s GameState) FindUnitAt(pos board.Position) (Unit, bool) {
	for _, u := range s.Units {
		if u.Alive && u.Position == pos {
			return u, true
		}
	}
	return Unit{}, false
}

// ObstacleAt returns the obstacle at pos, if any.
func (s GameState) ObstacleAt(pos board.Position) (Obstacle, bool) {
	for _, o := range s.Obstacles {
		if o.Position == pos {
			return o, true
		}
	}
	return Obstacle{}, false
}

// BuffTileAt returns the untriggered buff tile at pos, if any.
func (s GameState) BuffTileAt(pos board.Position) (BuffTile, bool) {
	for _, t := range s.BuffTiles {
		if t.Position == pos {
			return t, true
		}
	}
	return BuffTile{}, false
}

// Occupied reports whether pos holds a living unit or an obstacle.
func (s GameState) Occupied(pos board.Position) bool {
	if _, ok := s.FindUnitAt(pos); ok {
		return true
	}
	if _, ok := s.ObstacleAt(pos); ok {
		return true
	}
	return false
}

// Buffs returns the buff list for a unit id (nil if none).
func (s GameState) Buffs(unitID string) []BuffInstance {
	return s.UnitBuffs[unitID]
}

// LivingUnits returns every unit with Alive == true, in stable order.
func (s GameState) LivingUnits() []Unit {
	out := make([]Unit, 0, len(s.Units))
	for _, u := range s.Units {
		if u.Alive {
			out = append(out, u)
		}
	}
	return out
}

// UnitsByOwner returns every living unit owned by player, in stable order.
func (s GameState) UnitsByOwner(player PlayerID) []Unit {
	out := make([]Unit, 0, len(s.Units))
	for _, u := range s.Units {
		if u.Alive && u.Owner == player {
			out = append(out, u)
		}
	}
	return out
}

// UnactedUnits returns every living, unacted unit owned by player.
func (s GameState) UnactedUnits(player PlayerID) []Unit {
	out := make([]Unit, 0, len(s.Units))
	for _, u := range s.Units {
		if u.Alive && u.Owner == player && !u.HasActed {
			out = append(out, u)
		}
	}
	return out
}

// WithUnit returns a copy of s with updated replacing the unit of the same
// ID. It panics if no such unit exists — callers always operate on a unit
// id they just looked up.
func (s GameState) WithUnit(updated Unit) GameState {
	units := make([]Unit, len(s.Units))
	copy(units, s.Units)
	found := false
	for i, u := range units {
		if u.ID == updated.ID {
			units[i] = updated
			found = true
			break
		}
	}
	if !found {
		panic("entity: WithUnit called with unknown unit id " + updated.ID)
	}
	s.Units = units
	return s
}

// WithUnits returns a copy of s with the full units slice replaced.
func (s GameState) WithUnits(units []Unit) GameState {
	s.Units = units
	return s
}

// WithUnitBuffs returns a copy of s with unitID's buff list replaced.
func (s GameState) WithUnitBuffs(unitID string, buffs []BuffInstance) GameState {
	out := make(map[string][]BuffInstance, len(s.UnitBuffs))
	for k, v := range s.UnitBuffs {
		out[k] = v
	}
	if len(buffs) == 0 {
		delete(out, unitID)
	} else {
		out[unitID] = buffs
	}
	s.UnitBuffs = out
	return s
}

// WithObstacles returns a copy of s with the obstacle list replaced.
func (s GameState) WithObstacles(obstacles []Obstacle) GameState {
	s.Obstacles = obstacles
	return s
}

// WithBuffTiles returns a copy of s with the buff tile list replaced.
func (s GameState) WithBuffTiles(tiles []BuffTile) GameState {
	s.BuffTiles = tiles
	return s
}

// RemoveObstacleAt returns a copy of s with any obstacle at pos removed.
func (s GameState) RemoveObstacleAt(pos board.Position) GameState {
	out := make([]Obstacle, 0, len(s.Obstacles))
	for _, o := range s.Obstacles {
		if o.Position != pos {
			out = append(out, o)
		}
	}
	return s.WithObstacles(out)
}

// RemoveBuffTileAt returns a copy of s with any buff tile at pos removed.
func (s GameState) RemoveBuffTileAt(pos board.Position) GameState {
	out := make([]BuffTile, 0, len(s.BuffTiles))
	for _, bt := range s.BuffTiles {
		if bt.Position != pos {
			out = append(out, bt)
		}
	}
	return s.WithBuffTiles(out)
}

// PlaceObstacle overwrites whatever map object (obstacle or buff tile)
// occupies pos with a fresh Obstacle — the "new overwrites old" rule from
// spec.md §3.
func (s GameState) PlaceObstacle(o Obstacle) GameState {
	s = s.RemoveObstacleAt(o.Position)
	s = s.RemoveBuffTileAt(o.Position)
	s.Obstacles = append(append([]Obstacle{}, s.Obstacles...), o)
	return s
}

// PlaceBuffTile overwrites whatever map object occupies the tile's position
// with a fresh BuffTile.
func (s GameState) PlaceBuffTile(t BuffTile) GameState {
	s = s.RemoveObstacleAt(t.Position)
	s = s.RemoveBuffTileAt(t.Position)
	s.BuffTiles = append(append([]BuffTile{}, s.BuffTiles...), t)
	return s
}

// EnqueueDeathChoice returns a copy of s with req appended to the FIFO
// queue. Ties among simultaneous deaths are broken by ascending dead-unit
// id by the caller before enqueueing a batch (see rules.resolveDeaths).
func (s GameState) EnqueueDeathChoice(req DeathChoiceRequest) GameState {
	s.PendingDeathChoices = append(append([]DeathChoiceRequest{}, s.PendingDeathChoices...), req)
	return s
}

// DequeueDeathChoice returns the head of the FIFO queue and a copy of s
// with it removed. It panics if the queue is empty.
func (s GameState) DequeueDeathChoice() (DeathChoiceRequest, GameState) {
	if len(s.PendingDeathChoices) == 0 {
		panic("entity: DequeueDeathChoice called on empty queue")
	}
	head := s.PendingDeathChoices[0]
	rest := make([]DeathChoiceRequest, len(s.PendingDeathChoices)-1)
	copy(rest, s.PendingDeathChoices[1:])
	s.PendingDeathChoices = rest
	return head, s
}

// SortDeathChoicesByUnitID stably sorts a batch of simultaneous death
// choice requests by dead unit id ascending, per spec.md §4.7 step 5 / §4.8
// ("ties broken by dying unit id ascending").
func SortDeathChoicesByUnitID(reqs []DeathChoiceRequest) []DeathChoiceRequest {
	out := make([]DeathChoiceRequest, len(reqs))
	copy(out, reqs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DeadUnitID < out[j].DeadUnitID })
	return out
}

// SortUnitsByID returns a copy of units sorted by ascending id — used
// wherever the spec requires "unit id ascending order for ties" (round-end
// processing).
func SortUnitsByID(units []Unit) []Unit {
	out := make([]Unit, len(units))
	copy(out, units)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Clone performs a full deep copy of s, used by tests that need to assert
// an old snapshot is untouched by a later transition without relying on
// every WithX helper having been implemented correctly.
func (s GameState) Clone() GameState {
	out := s
	out.Units = append([]Unit{}, s.Units...)
	out.Obstacles = append([]Obstacle{}, s.Obstacles...)
	out.BuffTiles = append([]BuffTile{}, s.BuffTiles...)
	out.PendingDeathChoices = append([]DeathChoiceRequest{}, s.PendingDeathChoices...)
	buffs := make(map[string][]BuffInstance, len(s.UnitBuffs))
	for k, v := range s.UnitBuffs {
		buffs[k] = append([]BuffInstance{}, v...)
	}
	out.UnitBuffs = buffs
	return out
}
