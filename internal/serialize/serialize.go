// Package serialize implements the bidirectional mapping between
// entity.GameState and the neutral wire representation named in spec.md
// §4.10 and §6: nested ordered mappings (Go structs with json tags, whose
// field order IS the wire order), sequences, booleans, integers, and
// strings. encoding/json sorts map keys alphabetically on marshal, which
// is what makes the unitBuffs{} map byte-exact across runs — the "canonical
// ordering" spec.md §8 requires for roundtrip tests.
package serialize

import (
	"encoding/json"
	"errors"

	"github.com/tactics5x5/arena/internal/board"
	"github.com/tactics5x5/arena/internal/entity"
)

// ErrNilState is returned by Marshal when asked to serialize a nil
// GameState pointer.
var ErrNilState = errors.New("serialize: cannot marshal a nil GameState")

// ErrNilStructure is returned by Unmarshal when the input structure is
// null or empty.
var ErrNilStructure = errors.New("serialize: cannot unmarshal a nil structure")

// Position is the wire form of board.Position.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Modifier is the wire form of entity.Modifier.
type Modifier struct {
	BonusAttack      int `json:"bonusAttack"`
	BonusMoveRange   int `json:"bonusMoveRange"`
	BonusAttackRange int `json:"bonusAttackRange"`
}

// Flags is the wire form of entity.Flags.
type Flags struct {
	Power    bool `json:"power"`
	Speed    bool `json:"speed"`
	Slow     bool `json:"slow"`
	Bleed    bool `json:"bleed"`
	Stun     bool `json:"stun"`
	Root     bool `json:"root"`
	Weakness bool `json:"weakness"`
	Life     bool `json:"life"`
	Mark     bool `json:"mark"`
}

// BuffInstance is the wire form of entity.BuffInstance.
type BuffInstance struct {
	BuffID         string   `json:"buffId"`
	Type           string   `json:"type"`
	Duration       int      `json:"duration"`
	SourceUnitID   string   `json:"sourceUnitId,omitempty"`
	Modifier       Modifier `json:"modifier"`
	Flags          Flags    `json:"flags"`
	InstantHPDelta int      `json:"instantHpDelta"`
}

// Action is the wire form of entity.Action — also the shape of the client
// → server `action` payload's nested `action` object (spec.md §6) and of a
// unit's serialized preparingAction.
type Action struct {
	Type         string  `json:"type"`
	ActingUnitID string  `json:"actingUnitId,omitempty"`
	TargetX      *int    `json:"targetX,omitempty"`
	TargetY      *int    `json:"targetY,omitempty"`
	TargetUnitID string  `json:"targetUnitId,omitempty"`
	SkillOption  string  `json:"skillOption,omitempty"`
	Choice       string  `json:"choice,omitempty"`
}

// Unit is the wire form of entity.Unit.
type Unit struct {
	ID                string        `json:"id"`
	Owner             string        `json:"owner"`
	Category          string        `json:"category"`
	HeroClass         string        `json:"heroClass,omitempty"`
	MinionType        string        `json:"minionType,omitempty"`
	HP                int           `json:"hp"`
	MaxHP             int           `json:"maxHp"`
	Attack            int           `json:"attack"`
	MoveRange         int           `json:"moveRange"`
	AttackRange       int           `json:"attackRange"`
	Position          Position      `json:"position"`
	Alive             bool          `json:"alive"`
	HasActed          bool          `json:"hasActed"`
	ActionsRemaining  int           `json:"actionsRemaining"`
	SelectedSkillID   string        `json:"selectedSkillId,omitempty"`
	SkillCooldown     int           `json:"skillCooldown,omitempty"`
	Shield            int           `json:"shield"`
	Invisible         bool          `json:"invisible"`
	Invulnerable      bool          `json:"invulnerable"`
	TemporaryDuration int           `json:"temporaryDuration,omitempty"`
	PreparingAction   *Action       `json:"preparingAction,omitempty"`
}

// Obstacle is the wire form of entity.Obstacle.
type Obstacle struct {
	Position Position `json:"position"`
	HP       int      `json:"hp"`
	MaxHP    int      `json:"maxHp"`
}

// BuffTile is the wire form of entity.BuffTile.
type BuffTile struct {
	Position  Position `json:"position"`
	BuffType  string   `json:"buffType"`
	Duration  int      `json:"duration"`
	Triggered bool      `json:"triggered"`
}

// DeathChoiceRequest is the wire form of entity.DeathChoiceRequest.
type DeathChoiceRequest struct {
	OwnerPlayerID string   `json:"ownerPlayerId"`
	DeadUnitID    string   `json:"deadUnitId"`
	Position      Position `json:"position"`
}

// Board is the wire form of entity.Board.
type Board struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GameState is the wire form of entity.GameState — the exact field set of
// spec.md §6's "Serialized GameState fields".
type GameState struct {
	Board               Board                       `json:"board"`
	Units               []Unit                      `json:"units"`
	UnitBuffs           map[string][]BuffInstance   `json:"unitBuffs"`
	Obstacles           []Obstacle                  `json:"obstacles"`
	BuffTiles           []BuffTile                  `json:"buffTiles"`
	CurrentPlayer       string                      `json:"currentPlayer"`
	ActingUnitID        string                      `json:"actingUnitId,omitempty"`
	CurrentRound        int                         `json:"currentRound"`
	IsGameOver          bool                        `json:"isGameOver"`
	Winner              string                      `json:"winner"`
	PendingDeathChoices []DeathChoiceRequest         `json:"pendingDeathChoices"`
}

// ToWire converts s into its wire representation. It never fails: every
// entity.GameState reachable from Draft/Setup or a rule-engine transition
// is representable.
func ToWire(s entity.GameState) GameState {
	units := make([]Unit, len(s.Units))
	for i, u := range s.Units {
		units[i] = unitToWire(u)
	}
	unitBuffs := make(map[string][]BuffInstance, len(s.UnitBuffs))
	for id, buffs := range s.UnitBuffs {
		out := make([]BuffInstance, len(buffs))
		for i, b := range buffs {
			out[i] = buffToWire(b)
		}
		unitBuffs[id] = out
	}
	obstacles := make([]Obstacle, len(s.Obstacles))
	for i, o := range s.Obstacles {
		obstacles[i] = Obstacle{Position: posToWire(o.Position), HP: o.HP, MaxHP: o.MaxHP}
	}
	tiles := make([]BuffTile, len(s.BuffTiles))
	for i, t := range s.BuffTiles {
		tiles[i] = BuffTile{Position: posToWire(t.Position), BuffType: string(t.BuffType), Duration: t.Duration, Triggered: t.Triggered}
	}
	choices := make([]DeathChoiceRequest, len(s.PendingDeathChoices))
	for i, c := range s.PendingDeathChoices {
		choices[i] = DeathChoiceRequest{OwnerPlayerID: string(c.OwnerPlayerID), DeadUnitID: c.DeadUnitID, Position: posToWire(c.Position)}
	}
	return GameState{
		Board:               Board{Width: s.Board.Width, Height: s.Board.Height},
		Units:               units,
		UnitBuffs:           unitBuffs,
		Obstacles:           obstacles,
		BuffTiles:           tiles,
		CurrentPlayer:       string(s.CurrentPlayer),
		ActingUnitID:        s.ActingUnitID,
		CurrentRound:        s.CurrentRound,
		IsGameOver:          s.IsGameOver,
		Winner:              string(s.Winner),
		PendingDeathChoices: choices,
	}
}

// FromWire converts w back into an entity.GameState. RNGState is not part
// of the wire format (spec.md §6 omits it deliberately — clients never
// observe or replay the PRNG cursor); callers that need to reconstruct a
// fully replayable state carry RNGState out of band.
func FromWire(w GameState) entity.GameState {
	units := make([]entity.Unit, len(w.Units))
	for i, u := range w.Units {
		units[i] = unitFromWire(u)
	}
	unitBuffs := make(map[string][]entity.BuffInstance, len(w.UnitBuffs))
	for id, buffs := range w.UnitBuffs {
		out := make([]entity.BuffInstance, len(buffs))
		for i, b := range buffs {
			out[i] = buffFromWire(b)
		}
		unitBuffs[id] = out
	}
	obstacles := make([]entity.Obstacle, len(w.Obstacles))
	for i, o := range w.Obstacles {
		obstacles[i] = entity.Obstacle{Position: posFromWire(o.Position), HP: o.HP, MaxHP: o.MaxHP}
	}
	tiles := make([]entity.BuffTile, len(w.BuffTiles))
	for i, t := range w.BuffTiles {
		tiles[i] = entity.BuffTile{Position: posFromWire(t.Position), BuffType: entity.BuffType(t.BuffType), Duration: t.Duration, Triggered: t.Triggered}
	}
	choices := make([]entity.DeathChoiceRequest, len(w.PendingDeathChoices))
	for i, c := range w.PendingDeathChoices {
		choices[i] = entity.DeathChoiceRequest{OwnerPlayerID: entity.PlayerID(c.OwnerPlayerID), DeadUnitID: c.DeadUnitID, Position: posFromWire(c.Position)}
	}
	return entity.GameState{
		Board:               entity.Board{Width: w.Board.Width, Height: w.Board.Height},
		Units:               units,
		UnitBuffs:           unitBuffs,
		Obstacles:           obstacles,
		BuffTiles:           tiles,
		CurrentPlayer:       entity.PlayerID(w.CurrentPlayer),
		ActingUnitID:        w.ActingUnitID,
		CurrentRound:        w.CurrentRound,
		IsGameOver:          w.IsGameOver,
		Winner:              entity.PlayerID(w.Winner),
		PendingDeathChoices: choices,
	}
}

// Marshal serializes s to the canonical JSON encoding of its wire form.
func Marshal(s *entity.GameState) ([]byte, error) {
	if s == nil {
		return nil, ErrNilState
	}
	return json.Marshal(ToWire(*s))
}

// Unmarshal decodes data into a GameState. RNGState in the result is the
// zero value — callers that need replay determinism must restore it out of
// band (it is intentionally absent from the wire format).
func Unmarshal(data []byte) (entity.GameState, error) {
	if len(data) == 0 || string(data) == "null" {
		return entity.GameState{}, ErrNilStructure
	}
	var w GameState
	if err := json.Unmarshal(data, &w); err != nil {
		return entity.GameState{}, err
	}
	return FromWire(w), nil
}

func posToWire(p board.Position) Position   { return Position{X: p.X, Y: p.Y} }
func posFromWire(p Position) board.Position { return board.Position{X: p.X, Y: p.Y} }

func buffToWire(b entity.BuffInstance) BuffInstance {
	return BuffInstance{
		BuffID:       b.BuffID,
		Type:         string(b.Type),
		Duration:     b.Duration,
		SourceUnitID: b.SourceUnitID,
		Modifier: Modifier{
			BonusAttack:      b.Modifier.BonusAttack,
			BonusMoveRange:   b.Modifier.BonusMoveRange,
			BonusAttackRange: b.Modifier.BonusAttackRange,
		},
		Flags: Flags{
			Power: b.Flags.Power, Speed: b.Flags.Speed, Slow: b.Flags.Slow,
			Bleed: b.Flags.Bleed, Stun: b.Flags.Stun, Root: b.Flags.Root,
			Weakness: b.Flags.Weakness, Life: b.Flags.Life, Mark: b.Flags.Mark,
		},
		InstantHPDelta: b.InstantHPDelta,
	}
}

func buffFromWire(b BuffInstance) entity.BuffInstance {
	out := entity.NewBuffInstance(b.BuffID, entity.BuffType(b.Type), b.Duration, b.SourceUnitID)
	out.Modifier = entity.Modifier{
		BonusAttack:      b.Modifier.BonusAttack,
		BonusMoveRange:   b.Modifier.BonusMoveRange,
		BonusAttackRange: b.Modifier.BonusAttackRange,
	}
	out.InstantHPDelta = b.InstantHPDelta
	return out
}

func actionToWire(a *entity.Action) *Action {
	if a == nil {
		return nil
	}
	out := &Action{
		Type:         string(a.Type),
		ActingUnitID: a.ActingUnitID,
		TargetUnitID: a.TargetUnitID,
		Choice:       string(a.Choice),
	}
	if a.HasTargetPos {
		x, y := a.TargetPos.X, a.TargetPos.Y
		out.TargetX = &x
		out.TargetY = &y
	}
	return out
}

func actionFromWire(a *Action) *entity.Action {
	if a == nil {
		return nil
	}
	out := &entity.Action{
		Type:         entity.ActionKind(a.Type),
		ActingUnitID: a.ActingUnitID,
		TargetUnitID: a.TargetUnitID,
		Choice:       entity.DeathChoiceKind(a.Choice),
	}
	if a.TargetX != nil && a.TargetY != nil {
		*out = out.WithTargetPos(board.Position{X: *a.TargetX, Y: *a.TargetY})
	}
	return out
}

func unitToWire(u entity.Unit) Unit {
	return Unit{
		ID:                u.ID,
		Owner:             string(u.Owner),
		Category:          string(u.Category),
		HeroClass:         string(u.HeroClass),
		MinionType:        string(u.MinionType),
		HP:                u.HP,
		MaxHP:             u.MaxHP,
		Attack:            u.BaseAttack,
		MoveRange:         u.MoveRange,
		AttackRange:       u.AttackRange,
		Position:          posToWire(u.Position),
		Alive:             u.Alive,
		HasActed:          u.HasActed,
		ActionsRemaining:  u.ActionsRemaining,
		SelectedSkillID:   u.SelectedSkillID,
		SkillCooldown:     u.SkillCooldown,
		Shield:            u.Shield,
		Invisible:         u.Invisible,
		Invulnerable:      u.Invulnerable,
		TemporaryDuration: u.TemporaryDuration,
		PreparingAction:   actionToWire(u.PreparingAction),
	}
}

func unitFromWire(u Unit) entity.Unit {
	return entity.Unit{
		ID:                u.ID,
		Owner:             entity.PlayerID(u.Owner),
		Category:          entity.UnitCategory(u.Category),
		HeroClass:         entity.HeroClass(u.HeroClass),
		MinionType:        entity.MinionType(u.MinionType),
		HP:                u.HP,
		MaxHP:             u.MaxHP,
		BaseAttack:        u.Attack,
		MoveRange:         u.MoveRange,
		AttackRange:       u.AttackRange,
		Position:          posFromWire(u.Position),
		Alive:             u.Alive,
		HasActed:          u.HasActed,
		ActionsRemaining:  u.ActionsRemaining,
		SelectedSkillID:   u.SelectedSkillID,
		SkillCooldown:     u.SkillCooldown,
		Shield:            u.Shield,
		Invisible:         u.Invisible,
		Invulnerable:      u.Invulnerable,
		TemporaryDuration: u.TemporaryDuration,
		PreparingAction:   actionFromWire(u.PreparingAction),
	}
}
