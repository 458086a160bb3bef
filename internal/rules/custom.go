package rules

import (
	"github.com/tactics5x5/arena/internal/board"
	"github.com/tactics5x5/arena/internal/entity"
	"github.com/tactics5x5/arena/internal/skills"
)

// runCustomHandler dispatches to the bespoke resolution logic for one of
// the seven named skills (spec.md §4.3, §9 "registry lookup keyed by
// skillId for custom skill handlers").
func runCustomHandler(s entity.GameState, caster entity.Unit, a entity.Action, def skills.Definition) entity.GameState {
	switch def.Custom {
	case skills.WarpBeacon:
		return customWarpBeacon(s, caster, a)
	case skills.ShadowClone:
		return customShadowClone(s, caster, a)
	case skills.Feint:
		return customFeint(s, caster)
	case skills.Challenge:
		return customChallenge(s, caster, a)
	case skills.AscendedForm:
		return customAscendedForm(s, caster)
	case skills.NaturesPower:
		return customNaturesPower(s, caster)
	case skills.SmokeBomb:
		return customSmokeBomb(s, caster, a)
	default:
		return s
	}
}

// customWarpBeacon: first use places a beacon marker at the target tile (no
// cooldown charged, validated separately); second use teleports the caster
// onto the beacon tile and removes it.
func customWarpBeacon(s entity.GameState, caster entity.Unit, a entity.Action) entity.GameState {
	if !caster.SkillState.WarpBeaconPlaced {
		caster.SkillState.WarpBeaconPlaced = true
		caster.SkillState.WarpBeaconPos = a.TargetPos
		return s.WithUnit(caster)
	}
	caster = caster.WithPosition(caster.SkillState.WarpBeaconPos)
	caster.SkillState.WarpBeaconPlaced = false
	caster.SkillState.WarpBeaconPos = board.Position{}
	return s.WithUnit(caster)
}

// customShadowClone spawns a temporary unit at the target tile, mirroring
// the caster's current attack and HP, that expires after a fixed duration.
func customShadowClone(s entity.GameState, caster entity.Unit, a entity.Action) entity.GameState {
	if !a.HasTargetPos || s.Occupied(a.TargetPos) {
		return s
	}
	return spawnTemporaryUnit(s, caster.Owner, a.TargetPos, entity.MinionStats{
		HP:          caster.HP,
		Attack:      caster.EffectiveAttack(s.Buffs(caster.ID)),
		MoveRange:   caster.MoveRange,
		AttackRange: caster.AttackRange,
	}, 3)
}

// customFeint arms a one-shot reactive counter: the next hit the caster
// takes (any source, any owner, except another unit's Feint counter-hit) is
// returned in kind before the incoming damage resolves. Consumed on the
// first hit taken; applyDamage in damage.go reads FeintActive and fires the
// counter.
func customFeint(s entity.GameState, caster entity.Unit) entity.GameState {
	caster.SkillState.FeintActive = true
	return s.WithUnit(caster)
}

// customChallenge records the target in the caster's ChallengeTargetID and
// deals it 1 damage. Nothing restricts the challenged unit's attacks: the
// validator does not read ChallengeTargetID, and skill state is not part of
// the serialized state.
func customChallenge(s entity.GameState, caster entity.Unit, a entity.Action) entity.GameState {
	caster.SkillState.ChallengeTargetID = a.TargetUnitID
	s = s.WithUnit(caster)
	if target, ok := s.FindUnit(a.TargetUnitID); ok && target.Alive {
		s, _ = applyDamage(s, target.ID, 1, caster.ID, true)
	}
	return s
}

// customAscendedForm grants invulnerability for the current round.
func customAscendedForm(s entity.GameState, caster entity.Unit) entity.GameState {
	caster.Invulnerable = true
	caster.SkillState.AscendedFormRounds = 1
	return s.WithUnit(caster)
}

// customNaturesPower grants three bonus-damage charges consumed one at a
// time by the damage pipeline's Nature's Power modifier (spec.md §4.5 step 2).
func customNaturesPower(s entity.GameState, caster entity.Unit) entity.GameState {
	caster.SkillState.NaturePowerCharges = 3
	return s.WithUnit(caster)
}

// customSmokeBomb grants invisibility and relocates the caster to the
// target tile without triggering a BuffTile.
func customSmokeBomb(s entity.GameState, caster entity.Unit, a entity.Action) entity.GameState {
	if a.HasTargetPos {
		caster = caster.WithPosition(a.TargetPos)
	}
	caster.Invisible = true
	return s.WithUnit(caster)
}
