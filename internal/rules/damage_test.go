package rules

import (
	"testing"

	"github.com/tactics5x5/arena/internal/board"
	"github.com/tactics5x5/arena/internal/entity"
)

// TestGuardianInterceptsDamageForOwner is spec.md §8 scenario 2: a TANK
// adjacent to the real target absorbs an attack meant for someone else.
func TestGuardianInterceptsDamageForOwner(t *testing.T) {
	mage := newHeroUnit("p1_mage", entity.P1, entity.Mage, "elemental_blast", board.Position{X: 0, Y: 0})
	target := newHeroUnit("p2_hero", entity.P2, entity.Warrior, "heroic_leap", board.Position{X: 0, Y: 2})
	tank := newMinionUnit("p2_tank", entity.P2, entity.Tank, board.Position{X: 0, Y: 3})
	s := newState(mage, target, tank)

	a := entity.Action{Type: entity.UseSkill, PlayerID: entity.P1, ActingUnitID: "p1_mage", TargetUnitID: "p2_hero"}
	if err := Validate(s, a); err != nil {
		t.Fatalf("expected Valid, got %v", err)
	}
	next, err := Execute(s, a)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	gotTarget, _ := next.FindUnit("p2_hero")
	if gotTarget.HP != target.HP {
		t.Fatalf("expected the intended target untouched, hp=%d want=%d", gotTarget.HP, target.HP)
	}
	gotTank, _ := next.FindUnit("p2_tank")
	if gotTank.HP != tank.HP-3 {
		t.Fatalf("expected the guardian tank to absorb 3 damage, hp=%d want=%d", gotTank.HP, tank.HP-3)
	}
}

// TestGuardianMustBeAliveAndAdjacent confirms a dead or non-adjacent TANK
// never intercepts.
func TestGuardianMustBeAliveAndAdjacent(t *testing.T) {
	attacker := newHeroUnit("p1_hero", entity.P1, entity.Warrior, "heroic_leap", board.Position{X: 0, Y: 0})
	target := newHeroUnit("p2_hero", entity.P2, entity.Warrior, "heroic_leap", board.Position{X: 0, Y: 1})
	deadTank := newMinionUnit("p2_tank", entity.P2, entity.Tank, board.Position{X: 0, Y: 2})
	deadTank.Alive = false
	s := newState(attacker, target, deadTank)

	s, result := applyDamage(s, "p2_hero", 1, "p1_hero", true)
	if result.FinalTargetID != "p2_hero" {
		t.Fatalf("expected dead tank not to intercept, final target %q", result.FinalTargetID)
	}
	gotTarget, _ := s.FindUnit("p2_hero")
	if gotTarget.HP != target.HP-1 {
		t.Fatalf("expected target to take the hit directly, hp=%d want=%d", gotTarget.HP, target.HP-1)
	}
}

// TestFeintReturnsACounterHitOnFirstDamageTaken exercises the fix for the
// review comment that found Feint a dead flag: the feinting unit's first
// hit taken is returned in kind, then resolves normally against itself.
func TestFeintReturnsACounterHitOnFirstDamageTaken(t *testing.T) {
	rogue := newHeroUnit("p2_rogue", entity.P2, entity.Rogue, "feint", board.Position{X: 2, Y: 2})
	rogue.SkillState.FeintActive = true
	attacker := newHeroUnit("p1_hero", entity.P1, entity.Warrior, "heroic_leap", board.Position{X: 2, Y: 1})
	s := newState(attacker, rogue)

	s, _ = applyDamage(s, "p2_rogue", 1, "p1_hero", true)

	gotRogue, _ := s.FindUnit("p2_rogue")
	if gotRogue.SkillState.FeintActive {
		t.Fatalf("expected FeintActive to be consumed")
	}
	if gotRogue.HP != rogue.HP-1 {
		t.Fatalf("expected the feinting unit to still take the original hit, hp=%d want=%d", gotRogue.HP, rogue.HP-1)
	}
	gotAttacker, _ := s.FindUnit("p1_hero")
	if gotAttacker.HP != attacker.HP-rogue.EffectiveAttack(nil) {
		t.Fatalf("expected the attacker to take a counter-hit, hp=%d want=%d", gotAttacker.HP, attacker.HP-rogue.EffectiveAttack(nil))
	}
}

// TestFeintDoesNotCounterItsOwnCounterHit guards against the recursive
// counter call re-triggering Feint on the original attacker.
func TestFeintDoesNotCounterItsOwnCounterHit(t *testing.T) {
	rogue := newHeroUnit("p2_rogue", entity.P2, entity.Rogue, "feint", board.Position{X: 2, Y: 2})
	rogue.SkillState.FeintActive = true
	attacker := newHeroUnit("p1_hero", entity.P1, entity.Warrior, "heroic_leap", board.Position{X: 2, Y: 1})
	attacker.SkillState.FeintActive = true
	s := newState(attacker, rogue)

	s, _ = applyDamage(s, "p2_rogue", 1, "p1_hero", true)

	gotAttacker, _ := s.FindUnit("p1_hero")
	if !gotAttacker.SkillState.FeintActive {
		t.Fatalf("expected the attacker's own Feint to remain armed, it was never hit first")
	}
}

// TestSimultaneousHeroAndMinionDeathSkipsDeathChoice is the boundary
// behavior where the minion's death choice is never opened once the match
// has already ended from a hero death in the same atomic operation.
func TestSimultaneousHeroAndMinionDeathSkipsDeathChoice(t *testing.T) {
	hero := newHeroUnit("p2_hero", entity.P2, entity.Warrior, "heroic_leap", board.Position{X: 0, Y: 0})
	hero.HP = 1
	// not adjacent to the hero, so Guardian does not redirect the first hit
	minion := newMinionUnit("p2_tank", entity.P2, entity.Tank, board.Position{X: 4, Y: 4})
	minion.HP = 1
	attacker := newHeroUnit("p1_hero", entity.P1, entity.Warrior, "heroic_leap", board.Position{X: 0, Y: 2})
	s := newState(hero, minion, attacker)

	s, _ = applyDamage(s, "p2_hero", 1, "p1_hero", true)
	if !s.IsGameOver {
		t.Fatalf("expected the hero's death to end the match")
	}
	s, _ = applyDamage(s, "p2_tank", 1, "p1_hero", true)

	if len(s.PendingDeathChoices) != 0 {
		t.Fatalf("expected no death choice once the match already ended, got %d", len(s.PendingDeathChoices))
	}
	gotMinion, _ := s.FindUnit("p2_tank")
	if gotMinion.Alive {
		t.Fatalf("expected the minion to still die")
	}
}
