package entity

import "github.com/tactics5x5/arena/internal/board"

// MinionType enumerates the three draftable minion archetypes.
type MinionType string

const (
	Tank     MinionType = "TANK"
	Archer   MinionType = "ARCHER"
	Assassin MinionType = "ASSASSIN"
)

// HeroClass enumerates the six hero classes.
type HeroClass string

const (
	Warrior  HeroClass = "WARRIOR"
	Mage     HeroClass = "MAGE"
	Rogue    HeroClass = "ROGUE"
	Huntress HeroClass = "HUNTRESS"
	Duelist  HeroClass = "DUELIST"
	Cleric   HeroClass = "CLERIC"
)

// AllHeroClasses lists the six classes in a fixed order, used by the Draft
// Controller and Draft-timer fallback to pick a deterministic index via the
// PRNG.
var AllHeroClasses = []HeroClass{Warrior, Mage, Rogue, Huntress, Duelist, Cleric}

// AllMinionTypes lists the three minion types in a fixed order, used by the
// Draft timer's random-fill path.
var AllMinionTypes = []MinionType{Tank, Archer, Assassin}

// UnitCategory distinguishes the three kinds of battlefield occupant.
type UnitCategory string

const (
	CategoryHero      UnitCategory = "HERO"
	CategoryMinion    UnitCategory = "MINION"
	CategoryTemporary UnitCategory = "TEMPORARY"
)

// MinionStats holds the default stat line for a minion type or the hero.
type MinionStats struct {
	HP          int
	Attack      int
	MoveRange   int
	AttackRange int
}

// DefaultStats returns the table-driven base stats from spec.md §3.
var DefaultStats = map[MinionType]MinionStats{
	Tank:     {HP: 5, Attack: 1, MoveRange: 1, AttackRange: 1},
	Archer:   {HP: 3, Attack: 1, MoveRange: 1, AttackRange: 3},
	Assassin: {HP: 2, Attack: 2, MoveRange: 4, AttackRange: 1},
}

// HeroDefaultStats is the base stat line shared by every hero regardless of
// class; class identity only determines which skills are available.
var HeroDefaultStats = MinionStats{HP: 5, Attack: 1, MoveRange: 1, AttackRange: 1}

// SkillState is the hero's keyed bag of per-skill bookkeeping. It is a
// concrete struct rather than a generic map so each custom-handler skill
// (Warp Beacon, Shadow Clone, Feint, Challenge, Nature's Power) gets a
// typed, zero-value-safe home instead of stringly-typed lookups.
type SkillState struct {
	WarpBeaconPlaced   bool
	WarpBeaconPos      board.Position
	FeintActive        bool
	ChallengeTargetID  string
	BonusAttackCharges int // Smoke Bomb / similar "next N attacks" charges
	NaturePowerCharges int
	AscendedFormRounds int // rounds of invulnerability remaining this activation
}

// Unit is an immutable value. Every mutation in the rule engine produces a
// new Unit (via the With* helpers below or plain struct-literal copies);
// nothing here is ever modified through a shared pointer.
type Unit struct {
	ID         string
	Owner      PlayerID
	Category   UnitCategory
	MinionType MinionType // zero value "" when Category != MINION
	HeroClass  HeroClass  // zero value "" when Category != HERO

	HP          int
	MaxHP       int
	BaseAttack  int
	MoveRange   int
	AttackRange int

	Position board.Position
	Alive    bool

	HasActed         bool
	ActionsRemaining int // 1 or 2 (2 while SPEED is active)

	SelectedSkillID string // "" when not a hero or no skill chosen
	SkillCooldown   int
	SkillState      SkillState
	Shield          int
	Invisible       bool
	Invulnerable    bool

	PreparingAction *Action // non-nil while a SLOW unit awaits deferred resolution

	TemporaryDuration int // rounds remaining; only meaningful for CategoryTemporary
}

// WithPosition returns a copy of u at the given position.
func (u Unit) WithPosition(p board.Position) Unit {
	u.Position = p
	return u
}

// IsHero reports whether u is the one distinguished unit whose death ends
// the match.
func (u Unit) IsHero() bool {
	return u.Category == CategoryHero
}

// IsMinion reports whether u is a non-hero, non-temporary unit — the only
// category whose death can open a DeathChoice or spawn a map object.
func (u Unit) IsMinion() bool {
	return u.Category == CategoryMinion
}

// IsTemporary reports whether u is a summoned unit (e.g. a Shadow Clone)
// that expires by duration and never opens a death choice.
func (u Unit) IsTemporary() bool {
	return u.Category == CategoryTemporary
}

// EffectiveMoveRange returns the unit's move range plus the sum of
// bonusMoveRange across its active buffs.
func (u Unit) EffectiveMoveRange(buffs []BuffInstance) int {
	total := u.MoveRange
	for _, b := range buffs {
		total += b.Modifier.BonusMoveRange
	}
	return total
}

// EffectiveAttackRange returns the unit's attack range plus the sum of
// bonusAttackRange across its active buffs.
func (u Unit) EffectiveAttackRange(buffs []BuffInstance) int {
	total := u.AttackRange
	for _, b := range buffs {
		total += b.Modifier.BonusAttackRange
	}
	return total
}

// EffectiveAttack returns the unit's base attack plus the sum of
// bonusAttack across its active buffs, clamped at 0.
func (u Unit) EffectiveAttack(buffs []BuffInstance) int {
	total := u.BaseAttack
	for _, b := range buffs {
		total += b.Modifier.BonusAttack
	}
	if total < 0 {
		total = 0
	}
	return total
}

// HasBuffType reports whether any active buff instance on the unit matches
// the given type.
func HasBuffType(buffs []BuffInstance, t BuffType) bool {
	for _, b := range buffs {
		if b.Type == t {
			return true
		}
	}
	return false
}

// CountBuffType returns how many active instances of the given type the
// unit carries (BLEED and MARK-like buffs stack; most others do not, but
// callers that need stack counts use this directly).
func CountBuffType(buffs []BuffInstance, t BuffType) int {
	n := 0
	for _, b := range buffs {
		if b.Type == t {
			n++
		}
	}
	return n
}
