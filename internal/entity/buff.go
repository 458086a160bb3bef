package entity

import "github.com/tactics5x5/arena/internal/board"

// BuffType enumerates every buff/debuff the rule engine understands. STUN
// and ROOT are legacy types kept alive for skills that grant them directly
// (they are never drawn from a BuffTile).
type BuffType string

const (
	Power    BuffType = "POWER"
	Life     BuffType = "LIFE"
	Speed    BuffType = "SPEED"
	Weakness BuffType = "WEAKNESS"
	Bleed    BuffType = "BLEED"
	Slow     BuffType = "SLOW"
	Stun     BuffType = "STUN"
	Root     BuffType = "ROOT"

	// Mark is not drawn from a buff tile; it is a skill-only damage-pipeline
	// modifier (spec.md §4.3 SkillEffect MARK, §4.5 damage step 2: "MARK
	// adds +2 per instance").
	Mark BuffType = "MARK"

	// Flurry is a Duelist-only attack buff: a flat attack bonus for the
	// round, without inheriting POWER's MOVE_AND_ATTACK restriction.
	Flurry BuffType = "FLURRY"
)

// TileBuffTypes is the six buff types a BuffTile can roll — the equal-
// probability draw from §4.5 DEATH_CHOICE and §4.7 round-end tile spawns.
// STUN and ROOT are skill-granted only and never appear on a tile.
var TileBuffTypes = []BuffType{Power, Life, Speed, Weakness, Bleed, Slow}

// Modifier carries the numeric bonuses a buff instance grants.
type Modifier struct {
	BonusAttack      int
	BonusMoveRange   int
	BonusAttackRange int
}

// Flags mirrors the buff's type as booleans for wire-format parity with
// spec.md §6 (`flags{...}`); it is derived from Type at construction, never
// set independently.
type Flags struct {
	Power    bool
	Speed    bool
	Slow     bool
	Bleed    bool
	Stun     bool
	Root     bool
	Weakness bool
	Life     bool
	Mark     bool
}

func flagsFor(t BuffType) Flags {
	var f Flags
	switch t {
	case Power:
		f.Power = true
	case Speed:
		f.Speed = true
	case Slow:
		f.Slow = true
	case Bleed:
		f.Bleed = true
	case Stun:
		f.Stun = true
	case Root:
		f.Root = true
	case Weakness:
		f.Weakness = true
	case Life:
		f.Life = true
	case Mark:
		f.Mark = true
	}
	return f
}

// BuffInstance is a single applied buff or debuff. Non-stackable types
// (everything except BLEED and MARK) are refreshed in place by duration when
// reapplied rather than appended again — see ApplyBuff.
type BuffInstance struct {
	BuffID         string
	Type           BuffType
	Duration       int
	SourceUnitID   string // "" when the buff has no attributable source
	Modifier       Modifier
	Flags          Flags
	InstantHPDelta int
}

// NewBuffInstance constructs a BuffInstance with Flags derived from Type.
func NewBuffInstance(id string, t BuffType, duration int, source string) BuffInstance {
	return BuffInstance{
		BuffID:       id,
		Type:         t,
		Duration:     duration,
		SourceUnitID: source,
		Flags:        flagsFor(t),
	}
}

// stackable reports whether a buff type accumulates multiple simultaneous
// instances instead of refreshing a single one. BLEED stacks per
// spec.md §4.7 step 2 ("each unit with a BLEED buff loses 1 HP per BLEED
// instance (stackable)"), and MARK stacks because applyDamage adds +2 per
// MARK instance.
func stackable(t BuffType) bool {
	return t == Bleed || t == Mark
}

// ApplyBuff appends newBuff to buffs, refreshing (replacing) any existing
// same-type instance in place when the type is non-stackable. The input
// slice is never mutated; a new slice is always returned.
func ApplyBuff(buffs []BuffInstance, newBuff BuffInstance) []BuffInstance {
	if stackable(newBuff.Type) {
		out := make([]BuffInstance, len(buffs), len(buffs)+1)
		copy(out, buffs)
		return append(out, newBuff)
	}
	out := make([]BuffInstance, len(buffs))
	copy(out, buffs)
	for i, b := range out {
		if b.Type == newBuff.Type {
			out[i] = newBuff
			return out
		}
	}
	return append(out, newBuff)
}

// RemoveBuffType returns a copy of buffs with every instance of t removed.
func RemoveBuffType(buffs []BuffInstance, t BuffType) []BuffInstance {
	out := make([]BuffInstance, 0, len(buffs))
	for _, b := range buffs {
		if b.Type != t {
			out = append(out, b)
		}
	}
	return out
}

// BuffTile is a single-use map object that applies a buff to whichever unit
// ends a MOVE on its tile.
type BuffTile struct {
	Position   board.Position
	BuffType   BuffType
	Duration   int
	Triggered  bool
}

// Obstacle blocks movement and attack line-of-sight until destroyed.
type Obstacle struct {
	Position board.Position
	HP       int
	MaxHP    int
}

// DeathChoiceKind is the player's pick when resolving a DeathChoiceRequest.
type DeathChoiceKind string

const (
	SpawnObstacle DeathChoiceKind = "SPAWN_OBSTACLE"
	SpawnBuffTile DeathChoiceKind = "SPAWN_BUFF_TILE"
)

// DeathChoiceRequest is queued when a non-temporary, non-hero minion is
// killed by a PvP cause ("Combat Death" in the glossary). The owner picks
// what map object replaces the dead unit's tile.
type DeathChoiceRequest struct {
	OwnerPlayerID PlayerID
	DeadUnitID    string
	Position      board.Position
}
