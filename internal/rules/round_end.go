package rules

import (
	"github.com/tactics5x5/arena/internal/board"
	"github.com/tactics5x5/arena/internal/entity"
)

// ProcessRoundEnd runs the full §4.7 pipeline once both sides have no
// unacted living units: decay buff durations, apply BLEED/decay/pressure,
// resolve the system deaths those cause, expire tiles/cooldowns, reset
// every living unit for the new round, and increment the round counter.
// Every step that iterates units does so in ascending unit-id order per
// spec.md's "unit id ascending order for ties".
func ProcessRoundEnd(s entity.GameState) entity.GameState {
	if s.IsGameOver {
		return s
	}

	round := s.CurrentRound
	s = decrementBuffDurations(s)
	s = applyBleed(s)
	if !s.IsGameOver {
		s = applyMinionDecay(s, round)
	}
	if !s.IsGameOver && round >= 8 {
		s = applyRoundPressure(s)
	}
	return finishRoundEndHousekeeping(s)
}

// decrementBuffDurations implements step 1: every BuffInstance's duration
// drops by 1. Removal of exhausted buffs happens later in step 6 so that
// steps 2-4 of this same round-end still see a buff at duration 0.
func decrementBuffDurations(s entity.GameState) entity.GameState {
	for _, u := range entity.SortUnitsByID(s.Units) {
		buffs := s.Buffs(u.ID)
		if len(buffs) == 0 {
			continue
		}
		out := make([]entity.BuffInstance, len(buffs))
		for i, b := range buffs {
			b.Duration--
			out[i] = b
		}
		s = s.WithUnitBuffs(u.ID, out)
	}
	return s
}

// applyBleed implements step 2: 1 HP lost per BLEED instance, a System
// Death if it kills the unit.
func applyBleed(s entity.GameState) entity.GameState {
	for _, u := range entity.SortUnitsByID(s.Units) {
		if !u.Alive {
			continue
		}
		n := entity.CountBuffType(s.Buffs(u.ID), entity.Bleed)
		if n == 0 {
			continue
		}
		s = applySystemDamage(s, u.ID, n)
		if s.IsGameOver {
			return s
		}
	}
	return s
}

// applyMinionDecay implements step 3: every living non-hero, non-temporary
// unit loses 1 HP, starting at round >= 3 (spec.md's master-spec timing,
// per the Open Question in §9). round is the round number in effect when
// this round-end began, not s.CurrentRound (which this function never
// changes — the increment happens last, in step 9).
func applyMinionDecay(s entity.GameState, round int) entity.GameState {
	if round < 3 {
		return s
	}
	for _, u := range entity.SortUnitsByID(s.Units) {
		if !u.Alive || !u.IsMinion() {
			continue
		}
		s = applySystemDamage(s, u.ID, 1)
		if s.IsGameOver {
			return s
		}
	}
	return s
}

// applyRoundPressure implements step 4: every living unit loses 1 HP once
// the round in effect is >= 8, stacking with decay for minions.
func applyRoundPressure(s entity.GameState) entity.GameState {
	for _, u := range entity.SortUnitsByID(s.Units) {
		if !u.Alive {
			continue
		}
		s = applySystemDamage(s, u.ID, 1)
		if s.IsGameOver {
			return s
		}
	}
	return s
}

// ApplyActionTimeoutPenalty implements spec.md §4.11's action-timer expiry
// consequence: the timed-out player's Hero loses 1 HP. It is the same
// system-damage path round-end BLEED/decay/pressure use — no Guardian
// intercept, no shield/invulnerability, no DeathChoice on minion kill (moot
// here since the target is always a Hero). A no-op if the match already
// ended or the player has no living Hero.
func ApplyActionTimeoutPenalty(s entity.GameState, player entity.PlayerID) entity.GameState {
	if s.IsGameOver {
		return s
	}
	for _, u := range s.Units {
		if u.IsHero() && u.Owner == player && u.Alive {
			return applySystemDamage(s, u.ID, 1)
		}
	}
	return s
}

// applySystemDamage delivers round-end damage directly to targetID,
// bypassing the combat damage pipeline entirely: System Deaths never go
// through Guardian intercept, shields, invulnerability, or MARK/Nature's
// Power modifiers (spec.md §4.5 step 3's explicit carve-out) and never open
// a DeathChoice — they spawn automatically by round parity (step 5).
func applySystemDamage(s entity.GameState, targetID string, amount int) entity.GameState {
	u, ok := s.FindUnit(targetID)
	if !ok || !u.Alive {
		return s
	}
	u.HP -= amount
	if u.HP > 0 {
		return s.WithUnit(u)
	}
	u.HP = 0
	u.Alive = false
	pos := u.Position
	isHero := u.IsHero()
	isMinion := u.IsMinion()
	s = s.WithUnit(u)

	switch {
	case isHero:
		return recordHeroDeath(s, u.Owner)
	case isMinion:
		return spawnSystemDeathObject(s, pos)
	default:
		return s
	}
}

// spawnSystemDeathObject implements step 5's spawn rule: odd rounds spawn
// an Obstacle, even rounds a BuffTile, at the dead unit's position, subject
// to the overwrite rule (spec.md §3 "new overwrites old").
func spawnSystemDeathObject(s entity.GameState, pos board.Position) entity.GameState {
	if s.CurrentRound%2 == 1 {
		return s.PlaceObstacle(entity.Obstacle{Position: pos, HP: 3, MaxHP: 3})
	}
	t, next := drawTileBuffType(s)
	s = next
	return s.PlaceBuffTile(entity.BuffTile{Position: pos, BuffType: t, Duration: 2})
}

// finishRoundEndHousekeeping implements steps 6-9, run regardless of
// whether the match ended mid-pipeline (a game_over needs a well-formed
// final state too): remove exhausted buffs, decrement tile/obstacle-bound
// skill state and cooldowns, reset every living unit's turn flags, and
// advance the round counter.
func finishRoundEndHousekeeping(s entity.GameState) entity.GameState {
	s = removeExhaustedBuffs(s)
	s = decrementBuffTiles(s)
	s = decrementSkillState(s)
	s = resetLivingUnitsForNewRound(s)
	s.CurrentRound++
	return s
}

// removeExhaustedBuffs implements step 6: drop any BuffInstance whose
// duration has reached 0 after step 1's decrement.
func removeExhaustedBuffs(s entity.GameState) entity.GameState {
	for _, u := range entity.SortUnitsByID(s.Units) {
		buffs := s.Buffs(u.ID)
		if len(buffs) == 0 {
			continue
		}
		out := make([]entity.BuffInstance, 0, len(buffs))
		for _, b := range buffs {
			if b.Duration > 0 {
				out = append(out, b)
			}
		}
		if len(out) != len(buffs) {
			s = s.WithUnitBuffs(u.ID, out)
		}
	}
	return s
}

// decrementBuffTiles implements the first half of step 7: tile durations
// drop by 1, and any tile at 0 is removed.
func decrementBuffTiles(s entity.GameState) entity.GameState {
	out := make([]entity.BuffTile, 0, len(s.BuffTiles))
	for _, t := range s.BuffTiles {
		t.Duration--
		if t.Duration > 0 {
			out = append(out, t)
		}
	}
	return s.WithBuffTiles(out)
}

// decrementSkillState implements the rest of step 7: per-hero cooldowns
// floor at 0, Shadow Clone/temporary-unit durations tick down and expire
// with no spawn and no choice, Ascended Form's one-round invulnerability
// lapses, and Challenge/Feint per-round flags clear.
func decrementSkillState(s entity.GameState) entity.GameState {
	var keep []entity.Unit
	changed := false
	for _, u := range entity.SortUnitsByID(s.Units) {
		orig := u
		if u.IsTemporary() && u.Alive {
			u.TemporaryDuration--
			if u.TemporaryDuration <= 0 {
				u.Alive = false
			}
		}
		if u.IsHero() {
			if u.SkillCooldown > 0 {
				u.SkillCooldown--
			}
			if u.SkillState.AscendedFormRounds > 0 {
				u.SkillState.AscendedFormRounds--
				if u.SkillState.AscendedFormRounds == 0 {
					u.Invulnerable = false
				}
			}
			u.SkillState.FeintActive = false
			u.SkillState.ChallengeTargetID = ""
		}
		if u != orig {
			s = s.WithUnit(u)
			changed = true
		}
	}
	if changed {
		keep = make([]entity.Unit, 0, len(s.Units))
		for _, u := range s.Units {
			if u.IsTemporary() && !u.Alive {
				s = s.WithUnitBuffs(u.ID, nil)
				continue
			}
			keep = append(keep, u)
		}
		s = s.WithUnits(keep)
	}
	return s
}

// resetLivingUnitsForNewRound implements step 8: every living unit's
// hasActed clears and actionsRemaining resets to its SPEED-aware maximum.
func resetLivingUnitsForNewRound(s entity.GameState) entity.GameState {
	for _, u := range entity.SortUnitsByID(s.Units) {
		if !u.Alive {
			continue
		}
		u.HasActed = false
		u.ActionsRemaining = maxActionsFor(s.Buffs(u.ID))
		s = s.WithUnit(u)
	}
	s.ActingUnitID = ""
	return s
}
