package rules

import (
	"testing"

	"github.com/tactics5x5/arena/internal/board"
	"github.com/tactics5x5/arena/internal/entity"
)

// TestDeathChoiceSpawnsObstacleWithNoFurtherHPLoss is the rules-level half
// of spec.md §8 scenario 6: killing a minion opens a death choice, and
// resolving it only places a map object, never touching anyone's HP.
func TestDeathChoiceSpawnsObstacleWithNoFurtherHPLoss(t *testing.T) {
	attacker := newHeroUnit("p1_hero", entity.P1, entity.Warrior, "heroic_leap", board.Position{X: 0, Y: 0})
	tank := newMinionUnit("p2_tank", entity.P2, entity.Tank, board.Position{X: 0, Y: 1})
	tank.HP = 1
	s := newState(attacker, tank)

	s, _ = applyDamage(s, "p2_tank", 1, "p1_hero", true)
	if len(s.PendingDeathChoices) != 1 {
		t.Fatalf("expected one pending death choice, got %d", len(s.PendingDeathChoices))
	}
	req := s.PendingDeathChoices[0]
	if req.OwnerPlayerID != entity.P2 || req.DeadUnitID != "p2_tank" {
		t.Fatalf("unexpected death choice request %+v", req)
	}

	a := entity.Action{Type: entity.DeathChoice, PlayerID: entity.P2, Choice: entity.SpawnObstacle}
	if err := Validate(s, a); err != nil {
		t.Fatalf("expected Valid, got %v", err)
	}
	next, err := Execute(s, a)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(next.PendingDeathChoices) != 0 {
		t.Fatalf("expected the queue to drain, got %d remaining", len(next.PendingDeathChoices))
	}
	if _, ok := next.ObstacleAt(req.Position); !ok {
		t.Fatalf("expected an obstacle at %v", req.Position)
	}
	gotAttacker, _ := next.FindUnit("p1_hero")
	if gotAttacker.HP != attacker.HP {
		t.Fatalf("expected resolving the death choice to leave the attacker's hp untouched, got %d want %d", gotAttacker.HP, attacker.HP)
	}
}

// TestRoundPressureActivatesAtRoundEightNotSeven checks the round >= 8
// boundary: processing the round-end for round 7 leaves everyone untouched
// by pressure, but round 8 costs every living unit 1 HP.
func TestRoundPressureActivatesAtRoundEightNotSeven(t *testing.T) {
	hero := newHeroUnit("p1_hero", entity.P1, entity.Warrior, "heroic_leap", board.Position{X: 2, Y: 0})
	opp := newHeroUnit("p2_hero", entity.P2, entity.Warrior, "heroic_leap", board.Position{X: 2, Y: 4})

	atRoundSeven := newState(hero, opp)
	atRoundSeven.CurrentRound = 7
	gotSeven := ProcessRoundEnd(atRoundSeven)
	h7, _ := gotSeven.FindUnit("p1_hero")
	if h7.HP != hero.HP {
		t.Fatalf("expected no pressure damage at round 7, hp=%d want=%d", h7.HP, hero.HP)
	}

	atRoundEight := newState(hero, opp)
	atRoundEight.CurrentRound = 8
	gotEight := ProcessRoundEnd(atRoundEight)
	h8, _ := gotEight.FindUnit("p1_hero")
	if h8.HP != hero.HP-1 {
		t.Fatalf("expected pressure damage at round 8, hp=%d want=%d", h8.HP, hero.HP-1)
	}
}

// TestApplyActionTimeoutPenaltyDamagesOnlyThatPlayersHero verifies the fix
// for the review comment that found timeout expiry missing its 1 HP cost.
func TestApplyActionTimeoutPenaltyDamagesOnlyThatPlayersHero(t *testing.T) {
	p1Hero := newHeroUnit("p1_hero", entity.P1, entity.Warrior, "heroic_leap", board.Position{X: 2, Y: 0})
	p2Hero := newHeroUnit("p2_hero", entity.P2, entity.Warrior, "heroic_leap", board.Position{X: 2, Y: 4})
	s := newState(p1Hero, p2Hero)

	next := ApplyActionTimeoutPenalty(s, entity.P1)

	got1, _ := next.FindUnit("p1_hero")
	if got1.HP != p1Hero.HP-1 {
		t.Fatalf("expected the timed-out player's hero to lose 1 hp, got=%d want=%d", got1.HP, p1Hero.HP-1)
	}
	got2, _ := next.FindUnit("p2_hero")
	if got2.HP != p2Hero.HP {
		t.Fatalf("expected the opponent's hero to be untouched, got=%d want=%d", got2.HP, p2Hero.HP)
	}
}

// TestApplyActionTimeoutPenaltyIsNoOpOnceGameOver guards the edge case
// where a timer fires after the match already ended.
func TestApplyActionTimeoutPenaltyIsNoOpOnceGameOver(t *testing.T) {
	p1Hero := newHeroUnit("p1_hero", entity.P1, entity.Warrior, "heroic_leap", board.Position{X: 2, Y: 0})
	s := newState(p1Hero)
	s.IsGameOver = true

	next := ApplyActionTimeoutPenalty(s, entity.P1)
	got, _ := next.FindUnit("p1_hero")
	if got.HP != p1Hero.HP {
		t.Fatalf("expected no hp change once the match is over, got=%d want=%d", got.HP, p1Hero.HP)
	}
}
