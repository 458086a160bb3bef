package rules

import "github.com/tactics5x5/arena/internal/entity"

// advanceScheduler implements spec.md §4.6's "turn completes" bookkeeping
// for unit after it performed one action. forceEnd is true for END_TURN
// (a SPEED unit forfeiting its remainder) and false otherwise.
func advanceScheduler(s entity.GameState, unit entity.Unit, forceEnd bool) entity.GameState {
	buffs := s.Buffs(unit.ID)
	hasSpeed := entity.HasBuffType(buffs, entity.Speed)

	if hasSpeed && !forceEnd && unit.ActionsRemaining > 1 {
		unit.ActionsRemaining--
		unit.HasActed = false
		s = s.WithUnit(unit)
		s.ActingUnitID = unit.ID
		return s
	}

	unit.HasActed = true
	unit.ActionsRemaining = 0
	s = s.WithUnit(unit)
	s.ActingUnitID = ""
	return completeTurnTransition(s)
}

// completeTurnTransition runs nextActingPlayer(state) once a unit's turn has
// fully completed: switch to the opponent if they have unacted units,
// otherwise remain (Exhaustion Rule) or process round end.
func completeTurnTransition(s entity.GameState) entity.GameState {
	if s.IsGameOver {
		return s
	}
	other := s.CurrentPlayer.Opponent()
	if len(s.UnactedUnits(other)) > 0 {
		s.CurrentPlayer = other
		return resolvePreparingActions(s)
	}
	if len(s.UnactedUnits(s.CurrentPlayer)) > 0 {
		return resolvePreparingActions(s)
	}
	return resolvePreparingActions(ProcessRoundEnd(s))
}

// maxActionsFor returns the number of actions a unit gets at the start of a
// round: 2 while SPEED is active, 1 otherwise.
func maxActionsFor(buffs []entity.BuffInstance) int {
	if entity.HasBuffType(buffs, entity.Speed) {
		return 2
	}
	return 1
}

// resolvePreparingActions executes, in ascending unit-id order, any SLOW
// unit's deferred action whose owner is about to become the scheduled
// player — called from completeTurnTransition once the next scheduled
// player is set, so a unit's stored action resolves "at the start of its
// next scheduled turn" per spec.md §4.6. Once the match is over, any
// remaining preparing action is discarded unapplied by the IsGameOver
// guard inside applyPreparingAction.
func resolvePreparingActions(s entity.GameState) entity.GameState {
	for {
		unit, ok := nextDuePreparingUnit(s)
		if !ok {
			return s
		}
		s = applyPreparingAction(s, unit)
	}
}

// nextDuePreparingUnit finds the lowest-id living unit, owned by the
// current player, that has a stored preparing action and has not yet acted
// this round.
func nextDuePreparingUnit(s entity.GameState) (entity.Unit, bool) {
	var best entity.Unit
	found := false
	for _, u := range entity.SortUnitsByID(s.Units) {
		if !u.Alive || u.HasActed || u.PreparingAction == nil || u.Owner != s.CurrentPlayer {
			continue
		}
		if !found {
			best = u
			found = true
		}
	}
	return best, found
}

func applyPreparingAction(s entity.GameState, unit entity.Unit) entity.GameState {
	if s.IsGameOver {
		unit.PreparingAction = nil
		return s.WithUnit(unit)
	}
	action := *unit.PreparingAction
	unit.PreparingAction = nil
	s = s.WithUnit(unit)
	s = applyActionEffects(s, unit, action)
	unit, _ = s.FindUnit(unit.ID)
	if !unit.Alive {
		return s
	}
	unit.HasActed = true
	unit.ActionsRemaining = 0
	s = s.WithUnit(unit)
	s.ActingUnitID = ""
	return completeTurnTransition(s)
}
