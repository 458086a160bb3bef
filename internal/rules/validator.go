package rules

import (
	"github.com/tactics5x5/arena/internal/board"
	"github.com/tactics5x5/arena/internal/entity"
	"github.com/tactics5x5/arena/internal/skills"
)

// Validate reports whether action is legal in state. It never mutates state
// and is a pure function of its inputs (spec.md §4.4); calling it twice on
// the same (state, action) yields the same error.
func Validate(s entity.GameState, a entity.Action) error {
	if a.Type == entity.DeathChoice {
		return validateDeathChoice(s, a)
	}

	if s.IsGameOver {
		return ErrGameOver
	}
	if a.PlayerID != s.CurrentPlayer {
		return ErrNotYourTurn
	}

	unit, ok := s.FindUnit(a.ActingUnitID)
	if !ok || !unit.Alive || unit.Owner != a.PlayerID {
		return ErrUnknownActingUnit
	}
	if unit.HasActed {
		return ErrAlreadyActed
	}
	if s.ActingUnitID != "" && s.ActingUnitID != unit.ID {
		return ErrWrongSpeedUnit
	}

	buffs := s.Buffs(unit.ID)
	if entity.HasBuffType(buffs, entity.Stun) && a.Type != entity.EndTurn {
		return ErrStunned
	}
	movesUnit := a.Type == entity.Move || a.Type == entity.MoveAndAttack ||
		(a.Type == entity.UseSkill && isMovementSkill(unit, a))
	if entity.HasBuffType(buffs, entity.Root) && movesUnit {
		return ErrRooted
	}
	if entity.HasBuffType(buffs, entity.Slow) && unit.PreparingAction != nil {
		return ErrAlreadyPreparing
	}

	switch a.Type {
	case entity.Move:
		return validateMove(s, unit, a, buffs)
	case entity.Attack:
		return validateAttack(s, unit, a, buffs)
	case entity.MoveAndAttack:
		return validateMoveAndAttack(s, unit, a, buffs)
	case entity.UseSkill:
		return validateUseSkill(s, unit, a, buffs)
	case entity.DestroyObstacle:
		return validateDestroyObstacle(s, unit, a, buffs)
	case entity.EndTurn:
		return nil
	default:
		return ErrUnknownActionKind
	}
}

// isMovementSkill reports whether the hero's selected skill, if any, would
// relocate the acting unit (ROOT forbids it the same as MOVE). Used only to
// extend the ROOT check; the skill-specific validation still runs below.
func isMovementSkill(u entity.Unit, a entity.Action) bool {
	def, ok := skills.Lookup(u.SelectedSkillID)
	if !ok {
		return false
	}
	switch def.Custom {
	case skills.WarpBeacon:
		return u.SkillState.WarpBeaconPlaced
	}
	for _, e := range def.Effects {
		if e.Kind == skills.EffectMoveSelf {
			return true
		}
	}
	return false
}

func validateMove(s entity.GameState, unit entity.Unit, a entity.Action, buffs []entity.BuffInstance) error {
	if !a.HasTargetPos {
		return ErrSkillTargetRequired
	}
	return validateDestination(s, unit, a.TargetPos, unit.EffectiveMoveRange(buffs))
}

func validateDestination(s entity.GameState, unit entity.Unit, dest board.Position, moveRange int) error {
	if !board.InBounds(dest) {
		return ErrOutOfBounds
	}
	if dest == unit.Position {
		return ErrSameTile
	}
	if !board.IsOrthogonal(unit.Position, dest) {
		return ErrNotOrthogonal
	}
	if board.Distance(unit.Position, dest) > moveRange {
		return ErrMoveOutOfRange
	}
	if s.Occupied(dest) {
		return ErrTileOccupied
	}
	return nil
}

func validateAttack(s entity.GameState, unit entity.Unit, a entity.Action, buffs []entity.BuffInstance) error {
	return validateAttackFrom(s, unit, unit.Position, a, unit.EffectiveAttackRange(buffs), 0)
}

// validateAttackFrom validates an attack originating at origin (the unit's
// actual position for ATTACK, the post-move position for MOVE_AND_ATTACK).
// forceDistance, when > 0, requires exactly that distance (1 for the
// anti-kiting rule) instead of checking attackRange.
func validateAttackFrom(s entity.GameState, unit entity.Unit, origin board.Position, a entity.Action, attackRange int, forceDistance int) error {
	if a.TargetUnitID == "" {
		return ErrTargetNotFound
	}
	target, ok := s.FindUnit(a.TargetUnitID)
	if !ok {
		return ErrTargetNotFound
	}
	if a.HasTargetPos && a.TargetPos != target.Position {
		return ErrTargetPositionMismatch
	}
	if target.Owner == unit.Owner {
		return ErrTargetNotEnemy
	}
	if !target.Alive {
		return ErrTargetDead
	}
	if target.Invisible {
		return ErrTargetInvisible
	}
	dist := board.Distance(origin, target.Position)
	if dist == 0 {
		return ErrAttackOutOfRange
	}
	if !board.IsOrthogonal(origin, target.Position) {
		return ErrAttackOutOfRange
	}
	if forceDistance > 0 && dist != forceDistance {
		return ErrNotAdjacentAfterMove
	}
	if forceDistance == 0 && dist > attackRange {
		return ErrAttackOutOfRange
	}
	return nil
}

func validateMoveAndAttack(s entity.GameState, unit entity.Unit, a entity.Action, buffs []entity.BuffInstance) error {
	if entity.HasBuffType(buffs, entity.Power) {
		return ErrPowerForbidsMoveAttack
	}
	if !a.HasTargetPos {
		return ErrSkillTargetRequired
	}
	if err := validateDestination(s, unit, a.TargetPos, unit.EffectiveMoveRange(buffs)); err != nil {
		return err
	}
	moved := unit.WithPosition(a.TargetPos)
	// TargetPos is the move destination here, not the target's tile.
	attack := a
	attack.HasTargetPos = false
	return validateAttackFrom(s, moved, moved.Position, attack, 1, 1)
}

func validateUseSkill(s entity.GameState, unit entity.Unit, a entity.Action, buffs []entity.BuffInstance) error {
	if !unit.IsHero() {
		return ErrNoSkillSelected
	}
	if unit.SelectedSkillID == "" {
		return ErrNoSkillSelected
	}
	def, ok := skills.Lookup(unit.SelectedSkillID)
	if !ok {
		return ErrUnknownSkill
	}
	if def.HeroClass != unit.HeroClass {
		return ErrSkillWrongClass
	}

	isBeaconSecondUse := def.Custom == skills.WarpBeacon && unit.SkillState.WarpBeaconPlaced
	if !isBeaconSecondUse && unit.SkillCooldown != 0 {
		return ErrSkillOnCooldown
	}

	switch {
	case def.Custom == skills.WarpBeacon && !unit.SkillState.WarpBeaconPlaced:
		return validateSkillTile(s, unit, a, def.Range)
	case def.Custom == skills.WarpBeacon:
		if !unit.SkillState.WarpBeaconPlaced {
			return ErrBeaconMissing
		}
		if s.Occupied(unit.SkillState.WarpBeaconPos) {
			return ErrBeaconTileOccupied
		}
		return nil
	}

	switch def.TargetType {
	case skills.Self, skills.AllEnemies, skills.AllAllies, skills.AreaAroundSelf:
		return nil
	case skills.SingleTile:
		return validateSkillTile(s, unit, a, def.Range)
	case skills.SingleEnemy:
		return validateSkillUnitTarget(s, unit, a, def.Range, true)
	case skills.SingleAlly:
		return validateSkillUnitTarget(s, unit, a, def.Range, false)
	case skills.AreaAroundTarget:
		return validateSkillUnitTarget(s, unit, a, def.Range, true)
	case skills.Line:
		if !a.HasTargetPos {
			return ErrSkillTargetRequired
		}
		if !board.InBounds(a.TargetPos) {
			return ErrOutOfBounds
		}
		if !board.IsOrthogonal(unit.Position, a.TargetPos) {
			return ErrSkillTargetNotOrthogonal
		}
		if board.Distance(unit.Position, a.TargetPos) > def.Range {
			return ErrSkillRangeExceeded
		}
		return nil
	default:
		return ErrUnknownActionKind
	}
}

func validateSkillTile(s entity.GameState, unit entity.Unit, a entity.Action, rng int) error {
	if !a.HasTargetPos {
		return ErrSkillTargetRequired
	}
	if !board.InBounds(a.TargetPos) {
		return ErrOutOfBounds
	}
	if board.Distance(unit.Position, a.TargetPos) > rng {
		return ErrSkillRangeExceeded
	}
	if s.Occupied(a.TargetPos) {
		return ErrSkillTileOccupied
	}
	return nil
}

func validateSkillUnitTarget(s entity.GameState, unit entity.Unit, a entity.Action, rng int, mustBeEnemy bool) error {
	if a.TargetUnitID == "" {
		return ErrSkillTargetRequired
	}
	target, ok := s.FindUnit(a.TargetUnitID)
	if !ok {
		return ErrTargetNotFound
	}
	if mustBeEnemy && target.Owner == unit.Owner {
		return ErrTargetNotEnemy
	}
	if !target.Alive {
		return ErrTargetDead
	}
	if mustBeEnemy && target.Invisible {
		return ErrTargetInvisible
	}
	if board.Distance(unit.Position, target.Position) > rng {
		return ErrSkillRangeExceeded
	}
	return nil
}

func validateDestroyObstacle(s entity.GameState, unit entity.Unit, a entity.Action, buffs []entity.BuffInstance) error {
	if !entity.HasBuffType(buffs, entity.Power) {
		return ErrRequiresPower
	}
	if !a.HasTargetPos {
		return ErrSkillTargetRequired
	}
	if !board.Adjacent(unit.Position, a.TargetPos) {
		return ErrNotAdjacent
	}
	if _, ok := s.ObstacleAt(a.TargetPos); !ok {
		return ErrNoObstacle
	}
	return nil
}

func validateDeathChoice(s entity.GameState, a entity.Action) error {
	if len(s.PendingDeathChoices) == 0 {
		return ErrNoDeathChoicePending
	}
	head := s.PendingDeathChoices[0]
	if head.OwnerPlayerID != a.PlayerID {
		return ErrNotDeathChoiceOwner
	}
	if a.Choice != entity.SpawnObstacle && a.Choice != entity.SpawnBuffTile {
		return ErrInvalidDeathChoice
	}
	return nil
}
