package rules

import (
	"github.com/tactics5x5/arena/internal/board"
	"github.com/tactics5x5/arena/internal/entity"
	"github.com/tactics5x5/arena/internal/skills"
)

// handleUseSkill dispatches USE_SKILL to a custom handler when the skill
// defines one, otherwise runs the generic ordered-effect pipeline. Cooldown
// is charged afterward unless this was a Warp Beacon placement.
func handleUseSkill(s entity.GameState, caster entity.Unit, a entity.Action) entity.GameState {
	def, _ := skills.Lookup(caster.SelectedSkillID)
	beaconPlacement := def.Custom == skills.WarpBeacon && !caster.SkillState.WarpBeaconPlaced

	if def.Custom != skills.NoCustomHandler {
		s = runCustomHandler(s, caster, a, def)
	} else {
		s = runEffects(s, caster, a, def)
	}

	if beaconPlacement {
		return s
	}
	if updated, ok := s.FindUnit(caster.ID); ok && updated.Alive {
		updated.SkillCooldown = def.Cooldown
		s = s.WithUnit(updated)
	}
	return s
}

// runEffects resolves def.Effects against action a in list order. Each
// iteration reloads the caster since earlier effects may have changed its
// hp, buffs, or skill state.
func runEffects(s entity.GameState, caster entity.Unit, a entity.Action, def skills.Definition) entity.GameState {
	for _, eff := range def.Effects {
		c, ok := s.FindUnit(caster.ID)
		if !ok {
			return s
		}
		s = applySkillEffect(s, c, a, def.TargetType, eff)
	}
	return s
}

func applySkillEffect(s entity.GameState, caster entity.Unit, a entity.Action, tt skills.TargetType, eff skills.SkillEffect) entity.GameState {
	switch eff.Kind {
	case skills.EffectDamage:
		for _, id := range resolveSkillTargets(s, caster, a, tt) {
			s, _ = applyDamage(s, id, eff.Amount, caster.ID, true)
		}
	case skills.EffectHeal:
		for _, id := range resolveSkillTargets(s, caster, a, tt) {
			s = healUnit(s, id, eff.Amount)
		}
	case skills.EffectMoveSelf:
		if a.HasTargetPos {
			caster = caster.WithPosition(a.TargetPos)
			s = s.WithUnit(caster)
		}
	case skills.EffectMoveTarget:
		for _, id := range resolveSkillTargets(s, caster, a, tt) {
			s = pushUnit(s, caster, id, eff.Amount)
		}
	case skills.EffectApplyBuff:
		for _, id := range resolveSkillTargets(s, caster, a, tt) {
			s = grantBuff(s, id, eff.BuffType, eff.BuffDuration, eff.BuffModifier, caster.ID)
		}
	case skills.EffectRemoveBuff:
		for _, id := range resolveSkillTargets(s, caster, a, tt) {
			s = s.WithUnitBuffs(id, entity.RemoveBuffType(s.Buffs(id), eff.BuffType))
		}
	case skills.EffectSpawnUnit:
		if a.HasTargetPos {
			s = spawnTemporaryUnit(s, caster.Owner, a.TargetPos, eff.SpawnStats, eff.SpawnDuration)
		}
	case skills.EffectSpawnObstacle:
		if a.HasTargetPos {
			s = s.PlaceObstacle(entity.Obstacle{Position: a.TargetPos, HP: 3, MaxHP: 3})
		}
	case skills.EffectStun:
		for _, id := range resolveSkillTargets(s, caster, a, tt) {
			s = grantBuff(s, id, entity.Stun, eff.Amount, entity.Modifier{}, caster.ID)
		}
	case skills.EffectMark:
		for _, id := range resolveSkillTargets(s, caster, a, tt) {
			s = grantBuff(s, id, entity.Mark, eff.Amount, entity.Modifier{}, caster.ID)
		}
	case skills.EffectApplyBuffChance:
		roll, next := drawInt(s, 100)
		s = next
		if roll < eff.ChancePct {
			bt := eff.BuffType
			if eff.RandomBuff {
				bt, s = drawTileBuffType(s)
			}
			for _, id := range resolveSkillTargets(s, caster, a, tt) {
				s = grantBuff(s, id, bt, eff.BuffDuration, entity.Modifier{}, caster.ID)
			}
		}
	}
	return s
}

// resolveSkillTargets expands a skill's TargetType into concrete unit ids
// given the submitted action. SINGLE_TILE skills resolve no unit targets;
// their effects read a.TargetPos directly.
func resolveSkillTargets(s entity.GameState, caster entity.Unit, a entity.Action, tt skills.TargetType) []string {
	switch tt {
	case skills.Self:
		return []string{caster.ID}
	case skills.SingleEnemy, skills.SingleAlly:
		if a.TargetUnitID == "" {
			return nil
		}
		return []string{a.TargetUnitID}
	case skills.AreaAroundSelf:
		var ids []string
		for _, u := range s.LivingUnits() {
			if u.ID != caster.ID && board.Adjacent(caster.Position, u.Position) {
				ids = append(ids, u.ID)
			}
		}
		return ids
	case skills.AreaAroundTarget:
		center, ok := s.FindUnit(a.TargetUnitID)
		if !ok {
			return nil
		}
		ids := []string{center.ID}
		for _, u := range s.LivingUnits() {
			if u.ID != center.ID && board.Adjacent(center.Position, u.Position) {
				ids = append(ids, u.ID)
			}
		}
		return ids
	case skills.Line:
		if !a.HasTargetPos {
			return nil
		}
		var ids []string
		cells := append(board.Line(caster.Position, a.TargetPos), a.TargetPos)
		for _, c := range cells {
			if u, ok := s.FindUnitAt(c); ok {
				ids = append(ids, u.ID)
			}
		}
		return ids
	case skills.AllEnemies:
		var ids []string
		for _, u := range s.UnitsByOwner(caster.Owner.Opponent()) {
			ids = append(ids, u.ID)
		}
		return ids
	case skills.AllAllies:
		var ids []string
		for _, u := range s.UnitsByOwner(caster.Owner) {
			ids = append(ids, u.ID)
		}
		return ids
	default: // SingleTile
		return nil
	}
}

func healUnit(s entity.GameState, targetID string, amount int) entity.GameState {
	u, ok := s.FindUnit(targetID)
	if !ok || !u.Alive || u.IsTemporary() {
		return s
	}
	u.HP += amount
	return s.WithUnit(u)
}

// pushUnit implements MOVE_TARGET (Shockwave): push along the caster→target
// vector by distance tiles; if any intermediate or final tile is blocked,
// the target does not move and instead takes +1 damage.
func pushUnit(s entity.GameState, caster entity.Unit, targetID string, distance int) entity.GameState {
	target, ok := s.FindUnit(targetID)
	if !ok || !target.Alive {
		return s
	}
	dir := board.DirectionBetween(caster.Position, target.Position)
	for step := 1; step <= distance; step++ {
		p := board.Translate(target.Position, dir, step)
		if !board.InBounds(p) || s.Occupied(p) {
			s, _ = applyDamage(s, targetID, 1, caster.ID, true)
			return s
		}
	}
	dest := board.Translate(target.Position, dir, distance)
	target = target.WithPosition(dest)
	return s.WithUnit(target)
}

func grantBuff(s entity.GameState, targetID string, t entity.BuffType, duration int, mod entity.Modifier, source string) entity.GameState {
	u, ok := s.FindUnit(targetID)
	if !ok || !u.Alive {
		return s
	}
	id, next := nextBuffID(s, targetID, t)
	s = next
	buff := entity.NewBuffInstance(id, t, duration, source)
	buff.Modifier = mod
	return s.WithUnitBuffs(targetID, entity.ApplyBuff(s.Buffs(targetID), buff))
}

func spawnTemporaryUnit(s entity.GameState, owner entity.PlayerID, pos board.Position, stats entity.MinionStats, duration int) entity.GameState {
	if s.Occupied(pos) {
		return s
	}
	id, next := nextBuffID(s, string(owner), entity.BuffType("TEMP_UNIT"))
	s = next
	u := entity.Unit{
		ID:                id,
		Owner:             owner,
		Category:          entity.CategoryTemporary,
		HP:                stats.HP,
		MaxHP:             stats.HP,
		BaseAttack:        stats.Attack,
		MoveRange:         stats.MoveRange,
		AttackRange:       stats.AttackRange,
		Position:          pos,
		Alive:             true,
		ActionsRemaining:  1,
		TemporaryDuration: duration,
	}
	s.Units = append(append([]entity.Unit{}, s.Units...), u)
	return s
}
