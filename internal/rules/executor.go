package rules

import (
	"github.com/tactics5x5/arena/internal/board"
	"github.com/tactics5x5/arena/internal/entity"
	"github.com/tactics5x5/arena/internal/skills"
)

// Execute validates action against state and, if legal, returns the next
// state (spec.md §4.5). It is the entry point package match drives for
// every submitted action (timeouts also call ApplyActionTimeoutPenalty);
// Validate is exported separately so tests can assert rejections without
// executing anything.
func Execute(s entity.GameState, a entity.Action) (entity.GameState, error) {
	if err := Validate(s, a); err != nil {
		return s, err
	}

	if a.Type == entity.DeathChoice {
		return executeDeathChoice(s, a), nil
	}

	s.FirstHeroDeath = ""
	unit, _ := s.FindUnit(a.ActingUnitID)
	buffs := s.Buffs(unit.ID)

	if a.Type != entity.EndTurn && entity.HasBuffType(buffs, entity.Slow) && unit.PreparingAction == nil {
		return deferAction(s, unit, a), nil
	}

	s = applyActionEffects(s, unit, a)

	if updated, ok := s.FindUnit(unit.ID); ok && updated.Alive {
		s = advanceScheduler(s, updated, a.Type == entity.EndTurn)
	}

	if s.FirstHeroDeath != "" && bothHeroesDead(s) {
		s.Winner = a.PlayerID
	}
	return s, nil
}

// deferAction implements the SLOW interaction: the action's world effects
// are not applied; a copy is stashed in PreparingAction for resolution at
// the unit's next scheduled turn. A USE_SKILL action still charges its
// cooldown immediately.
func deferAction(s entity.GameState, unit entity.Unit, a entity.Action) entity.GameState {
	if a.Type == entity.UseSkill {
		if def, ok := skills.Lookup(unit.SelectedSkillID); ok && !(def.Custom == skills.WarpBeacon && !unit.SkillState.WarpBeaconPlaced) {
			unit.SkillCooldown = def.Cooldown
		}
	}
	copied := a
	if a.Type == entity.Attack || a.Type == entity.MoveAndAttack {
		if target, ok := s.FindUnit(a.TargetUnitID); ok {
			copied.AttackTargetPos = target.Position
			copied.HasAttackTargetPos = true
		}
	}
	unit.PreparingAction = &copied
	s = s.WithUnit(unit)
	return advanceScheduler(s, unit, false)
}

func bothHeroesDead(s entity.GameState) bool {
	var p1, p2 bool
	for _, u := range s.Units {
		if !u.IsHero() {
			continue
		}
		if u.Owner == entity.P1 {
			p1 = !u.Alive
		}
		if u.Owner == entity.P2 {
			p2 = !u.Alive
		}
	}
	return p1 && p2
}

// applyActionEffects dispatches a validated action to its world-effect
// handler. It does not touch scheduler bookkeeping; callers advance the
// scheduler themselves once the acting unit's post-action state is known.
func applyActionEffects(s entity.GameState, unit entity.Unit, a entity.Action) entity.GameState {
	switch a.Type {
	case entity.Move:
		return handleMove(s, unit, a.TargetPos)
	case entity.Attack:
		if a.HasAttackTargetPos {
			return handleDeferredAttack(s, unit, a.AttackTargetPos)
		}
		return handleAttack(s, unit, a.TargetUnitID)
	case entity.MoveAndAttack:
		s = handleMove(s, unit, a.TargetPos)
		unit, _ = s.FindUnit(unit.ID)
		if !unit.Alive {
			return s
		}
		if a.HasAttackTargetPos {
			return handleDeferredAttack(s, unit, a.AttackTargetPos)
		}
		return handleAttack(s, unit, a.TargetUnitID)
	case entity.UseSkill:
		return handleUseSkill(s, unit, a)
	case entity.DestroyObstacle:
		return handleDestroyObstacle(s, a.TargetPos)
	case entity.EndTurn:
		return s
	default:
		return s
	}
}

// handleMove relocates unit to dest and, if dest holds an untriggered
// BuffTile, applies its buff and removes the tile (spec.md §4.5 MOVE).
func handleMove(s entity.GameState, unit entity.Unit, dest board.Position) entity.GameState {
	unit = unit.WithPosition(dest)
	s = s.WithUnit(unit)
	if tile, ok := s.BuffTileAt(dest); ok {
		id, next := nextBuffID(s, unit.ID, tile.BuffType)
		s = next
		buff := entity.NewBuffInstance(id, tile.BuffType, tile.Duration, "")
		s = s.WithUnitBuffs(unit.ID, entity.ApplyBuff(s.Buffs(unit.ID), buff))
		s = s.RemoveBuffTileAt(dest)
	}
	return s
}

// handleAttack runs the damage pipeline for a plain ATTACK: base damage is
// the attacker's effective attack, clamped at 0.
func handleAttack(s entity.GameState, attacker entity.Unit, targetID string) entity.GameState {
	buffs := s.Buffs(attacker.ID)
	base := attacker.EffectiveAttack(buffs)
	s, _ = applyDamage(s, targetID, base, attacker.ID, true)
	return s
}

// handleDeferredAttack resolves a SLOW unit's delayed attack against the
// stored target tile rather than the original target's unit id (spec.md
// §4.5: "the delayed attack targets the stored position, not a unit
// identity"). Whoever occupies pos now takes the hit; an empty or
// already-dead tile is simply a miss.
func handleDeferredAttack(s entity.GameState, attacker entity.Unit, pos board.Position) entity.GameState {
	target, ok := s.FindUnitAt(pos)
	if !ok || !target.Alive {
		return s
	}
	return handleAttack(s, attacker, target.ID)
}

// handleDestroyObstacle removes the obstacle at pos (POWER destroys it in
// one hit regardless of its hp).
func handleDestroyObstacle(s entity.GameState, pos board.Position) entity.GameState {
	return s.RemoveObstacleAt(pos)
}

// executeDeathChoice dequeues the head death choice and spawns the chosen
// map object at the recorded position, applying the overwrite rule. It does
// not advance the scheduler (spec.md §4.5 DEATH_CHOICE).
func executeDeathChoice(s entity.GameState, a entity.Action) entity.GameState {
	req, rest := s.DequeueDeathChoice()
	s = rest
	switch a.Choice {
	case entity.SpawnObstacle:
		s = s.PlaceObstacle(entity.Obstacle{Position: req.Position, HP: 3, MaxHP: 3})
	case entity.SpawnBuffTile:
		t, next := drawTileBuffType(s)
		s = next
		s = s.PlaceBuffTile(entity.BuffTile{Position: req.Position, BuffType: t, Duration: 2})
	}
	return s
}
