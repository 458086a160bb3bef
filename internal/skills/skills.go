// Package skills is the static registry for the 18 skills across the six
// hero classes. It holds only data — dispatch and effect resolution live in
// package rules, which looks skills up by id.
package skills

import "github.com/tactics5x5/arena/internal/entity"

// TargetType is how a skill selects what it affects.
type TargetType string

const (
	Self             TargetType = "SELF"
	SingleEnemy      TargetType = "SINGLE_ENEMY"
	SingleAlly       TargetType = "SINGLE_ALLY"
	SingleTile       TargetType = "SINGLE_TILE"
	AreaAroundSelf   TargetType = "AREA_AROUND_SELF"
	AreaAroundTarget TargetType = "AREA_AROUND_TARGET"
	Line             TargetType = "LINE"
	AllEnemies       TargetType = "ALL_ENEMIES"
	AllAllies        TargetType = "ALL_ALLIES"
)

// EffectKind tags a SkillEffect's variant.
type EffectKind string

const (
	EffectDamage        EffectKind = "DAMAGE"
	EffectHeal          EffectKind = "HEAL"
	EffectMoveSelf      EffectKind = "MOVE_SELF"
	EffectMoveTarget    EffectKind = "MOVE_TARGET"
	EffectApplyBuff     EffectKind = "APPLY_BUFF"
	EffectRemoveBuff    EffectKind = "REMOVE_BUFF"
	EffectSpawnUnit     EffectKind = "SPAWN_UNIT"
	EffectSpawnObstacle EffectKind = "SPAWN_OBSTACLE"
	EffectStun          EffectKind = "STUN"
	EffectMark          EffectKind = "MARK"
	// EffectApplyBuffChance is an engine extension (not a bare spec.md
	// SkillEffect kind) used solely by Elemental Blast and Wild Magic to
	// encode the PRNG-gated debuff chance spec.md §9 calls out by name.
	EffectApplyBuffChance EffectKind = "APPLY_BUFF_CHANCE"
)

// SkillEffect is one step of a skill's resolution pipeline, executed in
// list order by the Executor.
type SkillEffect struct {
	Kind EffectKind

	Amount        int             // DAMAGE / HEAL / STUN duration / MARK duration / MOVE_TARGET distance
	BuffType      entity.BuffType // APPLY_BUFF / REMOVE_BUFF / APPLY_BUFF_CHANCE
	BuffDuration  int             // APPLY_BUFF / APPLY_BUFF_CHANCE
	BuffModifier  entity.Modifier // APPLY_BUFF / APPLY_BUFF_CHANCE: stat bonuses carried by the instance
	ChancePct     int             // APPLY_BUFF_CHANCE: 0-100 chance, drawn from the PRNG
	RandomBuff    bool            // APPLY_BUFF_CHANCE: if true, BuffType is ignored and a type is drawn from entity.TileBuffTypes
	SpawnStats    entity.MinionStats
	SpawnDuration int
}

// CustomHandler names a skill whose resolution requires bespoke logic in
// package rules beyond the generic effect pipeline (spec.md §4.3).
type CustomHandler string

const (
	NoCustomHandler CustomHandler = ""
	WarpBeacon      CustomHandler = "WARP_BEACON"
	ShadowClone     CustomHandler = "SHADOW_CLONE"
	Feint           CustomHandler = "FEINT"
	Challenge       CustomHandler = "CHALLENGE"
	AscendedForm    CustomHandler = "ASCENDED_FORM"
	NaturesPower    CustomHandler = "NATURES_POWER"
	SmokeBomb       CustomHandler = "SMOKE_BOMB"
)

// Definition is one skill's static data.
type Definition struct {
	ID         string
	HeroClass  entity.HeroClass
	TargetType TargetType
	Range      int
	Cooldown   int
	Effects    []SkillEffect
	Custom     CustomHandler
}

// registry is keyed by skill id; populated once at package init from the
// catalog below.
var registry map[string]Definition
var classOrder map[entity.HeroClass][]string

func init() {
	registry = make(map[string]Definition, len(catalog))
	classOrder = make(map[entity.HeroClass][]string, 6)
	for _, d := range catalog {
		registry[d.ID] = d
		classOrder[d.HeroClass] = append(classOrder[d.HeroClass], d.ID)
	}
}

// Lookup returns the skill definition for id, or ok=false if unknown —
// spec.md §4.3 "unknown id is an error".
func Lookup(id string) (Definition, bool) {
	d, ok := registry[id]
	return d, ok
}

// SkillsForClass returns the three skills belonging to a hero class, in
// catalog order.
func SkillsForClass(class entity.HeroClass) []Definition {
	var out []Definition
	for _, id := range classOrder[class] {
		out = append(out, registry[id])
	}
	return out
}

// AllIDs returns every skill id in catalog order.
func AllIDs() []string {
	out := make([]string, 0, len(catalog))
	for _, d := range catalog {
		out = append(out, d.ID)
	}
	return out
}

// catalog is the full 18-skill static table, three per class, in the order
// spec.md §4.3 describes: id, class, targetType, range, cooldown, effects,
// optional custom handler.
var catalog = []Definition{
	// WARRIOR
	{
		ID: "heroic_leap", HeroClass: entity.Warrior, TargetType: SingleTile, Range: 3, Cooldown: 2,
		Effects: []SkillEffect{
			{Kind: EffectMoveSelf},
			{Kind: EffectDamage, Amount: 1},
		},
	},
	{
		ID: "shockwave", HeroClass: entity.Warrior, TargetType: SingleEnemy, Range: 1, Cooldown: 2,
		Effects: []SkillEffect{
			{Kind: EffectMoveTarget, Amount: 2},
		},
	},
	{
		ID: "challenge", HeroClass: entity.Warrior, TargetType: SingleEnemy, Range: 2, Cooldown: 3,
		Custom: Challenge,
	},

	// MAGE
	{
		ID: "elemental_blast", HeroClass: entity.Mage, TargetType: SingleEnemy, Range: 3, Cooldown: 2,
		Effects: []SkillEffect{
			{Kind: EffectDamage, Amount: 3},
			{Kind: EffectApplyBuffChance, BuffType: entity.Weakness, BuffDuration: 2, ChancePct: 50},
		},
	},
	{
		ID: "wild_magic", HeroClass: entity.Mage, TargetType: AreaAroundTarget, Range: 3, Cooldown: 3,
		Effects: []SkillEffect{
			{Kind: EffectDamage, Amount: 2},
			{Kind: EffectApplyBuffChance, RandomBuff: true, BuffDuration: 2, ChancePct: 33},
		},
	},
	{
		ID: "warp_beacon", HeroClass: entity.Mage, TargetType: SingleTile, Range: 4, Cooldown: 3,
		Custom: WarpBeacon,
	},

	// ROGUE
	{
		ID: "feint", HeroClass: entity.Rogue, TargetType: Self, Range: 0, Cooldown: 2,
		Custom: Feint,
	},
	{
		ID: "smoke_bomb", HeroClass: entity.Rogue, TargetType: SingleTile, Range: 2, Cooldown: 3,
		Custom: SmokeBomb,
	},
	{
		ID: "shadow_clone", HeroClass: entity.Rogue, TargetType: SingleTile, Range: 1, Cooldown: 4,
		Custom: ShadowClone,
	},

	// HUNTRESS
	{
		ID: "piercing_shot", HeroClass: entity.Huntress, TargetType: SingleEnemy, Range: 4, Cooldown: 2,
		Effects: []SkillEffect{
			{Kind: EffectDamage, Amount: 2},
			{Kind: EffectMark, Amount: 2},
		},
	},
	{
		ID: "rain_of_arrows", HeroClass: entity.Huntress, TargetType: AllEnemies, Range: 0, Cooldown: 3,
		Effects: []SkillEffect{
			{Kind: EffectDamage, Amount: 1},
		},
	},
	{
		ID: "natures_power", HeroClass: entity.Huntress, TargetType: Self, Range: 0, Cooldown: 3,
		Custom: NaturesPower,
	},

	// DUELIST
	{
		ID: "flurry", HeroClass: entity.Duelist, TargetType: Self, Range: 0, Cooldown: 2,
		Effects: []SkillEffect{
			{Kind: EffectApplyBuff, BuffType: entity.Flurry, BuffDuration: 1, BuffModifier: entity.Modifier{BonusAttack: 2}},
		},
	},
	{
		ID: "duelists_resolve", HeroClass: entity.Duelist, TargetType: Self, Range: 0, Cooldown: 2,
		Effects: []SkillEffect{
			{Kind: EffectHeal, Amount: 2},
			{Kind: EffectApplyBuff, BuffType: entity.Speed, BuffDuration: 1},
		},
	},
	{
		ID: "duel", HeroClass: entity.Duelist, TargetType: SingleEnemy, Range: 2, Cooldown: 3,
		Custom: Challenge,
	},

	// CLERIC
	{
		ID: "mending_light", HeroClass: entity.Cleric, TargetType: SingleAlly, Range: 3, Cooldown: 2,
		Effects: []SkillEffect{
			{Kind: EffectHeal, Amount: 3},
		},
	},
	{
		ID: "wardens_blessing", HeroClass: entity.Cleric, TargetType: AllAllies, Range: 0, Cooldown: 3,
		Effects: []SkillEffect{
			{Kind: EffectApplyBuff, BuffType: entity.Life, BuffDuration: 2},
		},
	},
	{
		ID: "ascended_form", HeroClass: entity.Cleric, TargetType: Self, Range: 0, Cooldown: 4,
		Custom: AscendedForm,
	},
}
