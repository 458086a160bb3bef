package rules

import (
	"github.com/tactics5x5/arena/internal/board"
	"github.com/tactics5x5/arena/internal/entity"
)

// damageResult records what happened to the surviving call site after one
// damage pipeline run, so the caller (ATTACK/USE_SKILL handlers) can decide
// whether to chain a death choice or a victory.
type damageResult struct {
	FinalTargetID string
	AmountDealt   int
	Killed        bool
}

// applyDamage runs the full damage pipeline (spec.md §4.5 steps 1-7) against
// targetID for a hit originating from sourceUnitID. combatDeath marks the
// death, if any, as PvP-caused (enqueues a DeathChoiceRequest for a killed
// minion) as opposed to a system cause; callers outside the round-end
// processor always pass true. It is the caller's responsibility to resolve
// hero-death victory (step 8, simultaneous-hero-death tie-break) after all
// hits from one action have landed.
func applyDamage(s entity.GameState, targetID string, amount int, sourceUnitID string, combatDeath bool) (entity.GameState, damageResult) {
	target, ok := s.FindUnit(targetID)
	if !ok || !target.Alive {
		return s, damageResult{}
	}

	// Feint: a one-shot reactive counter, consumed by the first hit the
	// feinting unit takes regardless of source or what happens to this hit.
	// The counter-hit itself is never countered: the source's own Feint is
	// held back while the counter lands and re-armed afterwards.
	if target.SkillState.FeintActive && target.ID != sourceUnitID {
		target.SkillState.FeintActive = false
		s = s.WithUnit(target)
		if src, ok := s.FindUnit(sourceUnitID); ok && src.Alive {
			counterBase := target.EffectiveAttack(s.Buffs(target.ID))
			srcFeint := src.SkillState.FeintActive
			if srcFeint {
				src.SkillState.FeintActive = false
				s = s.WithUnit(src)
			}
			s, _ = applyDamage(s, src.ID, counterBase, target.ID, combatDeath)
			if after, ok := s.FindUnit(src.ID); ok && srcFeint && after.Alive {
				after.SkillState.FeintActive = true
				s = s.WithUnit(after)
			}
		}
		target, ok = s.FindUnit(targetID)
		if !ok || !target.Alive {
			return s, damageResult{}
		}
	}

	// step 2: target-side modifiers (MARK) and source-side charges (Nature's Power)
	amount += 2 * entity.CountBuffType(s.Buffs(target.ID), entity.Mark)
	if src, ok := s.FindUnit(sourceUnitID); ok && src.SkillState.NaturePowerCharges > 0 {
		amount += 2
		src.SkillState.NaturePowerCharges--
		s = s.WithUnit(src)
	}

	// step 3: Guardian interception
	final := target
	if tank, ok := findGuardian(s, target); ok {
		final = tank
	}

	if amount < 0 {
		amount = 0
	}

	// step 5: invulnerability zeroes damage before shield/hp
	if final.Invulnerable {
		amount = 0
	}

	// step 4: shield absorbs first, then hp
	dealt := amount
	if final.Shield > 0 {
		absorbed := final.Shield
		if absorbed > amount {
			absorbed = amount
		}
		final.Shield -= absorbed
		amount -= absorbed
	}
	final.HP -= amount
	s = s.WithUnit(final)

	killed := false
	if final.HP <= 0 && final.Alive {
		final.HP = 0
		final.Alive = false
		s = s.WithUnit(final)
		killed = true
		s = resolveUnitDeath(s, final, combatDeath)
	}

	return s, damageResult{FinalTargetID: final.ID, AmountDealt: dealt, Killed: killed}
}

// findGuardian returns the eligible TANK (alive, owned by target's owner,
// orthogonally adjacent, not the target itself) with the lowest id, if any.
func findGuardian(s entity.GameState, target entity.Unit) (entity.Unit, bool) {
	var best entity.Unit
	found := false
	for _, u := range s.Units {
		if !u.Alive || u.ID == target.ID || u.Owner != target.Owner {
			continue
		}
		if u.MinionType != entity.Tank {
			continue
		}
		if !board.Adjacent(u.Position, target.Position) {
			continue
		}
		if !found || u.ID < best.ID {
			best = u
			found = true
		}
	}
	return best, found
}

// resolveUnitDeath applies the death-category-specific consequence for a
// unit that just transitioned to Alive=false: hero death ends the match,
// minion death enqueues a DeathChoice iff combatDeath, temporary units are
// simply gone.
func resolveUnitDeath(s entity.GameState, dead entity.Unit, combatDeath bool) entity.GameState {
	switch {
	case dead.IsHero():
		return recordHeroDeath(s, dead.Owner)
	case dead.IsMinion():
		if combatDeath && !s.IsGameOver {
			s = s.EnqueueDeathChoice(entity.DeathChoiceRequest{
				OwnerPlayerID: dead.Owner,
				DeadUnitID:    dead.ID,
				Position:      dead.Position,
			})
		}
		return s
	default: // temporary
		return s
	}
}

// recordHeroDeath implements spec.md §4.5 step 8 / §4.8: the first hero to
// die in the current atomic operation (action or round-end batch) decides
// the winner as "the opponent of the fallen hero", unless a second hero
// falls in the same operation, in which case the active player wins.
func recordHeroDeath(s entity.GameState, fallenOwner entity.PlayerID) entity.GameState {
	if s.FirstHeroDeath == "" {
		s.FirstHeroDeath = fallenOwner
		s.IsGameOver = true
		s.Winner = fallenOwner.Opponent()
		return s
	}
	if s.FirstHeroDeath != fallenOwner {
		// both heroes died in the same atomic operation; for an action,
		// Execute then overrides Winner with the acting player. Round-end
		// steps leave Winner as the opponent of FirstHeroDeath.
		return s
	}
	return s
}
