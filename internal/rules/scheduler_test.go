package rules

import (
	"testing"

	"github.com/tactics5x5/arena/internal/board"
	"github.com/tactics5x5/arena/internal/entity"
)

// TestExhaustionRuleKeepsActingPlayerWhenOpponentIsDone is spec.md §8
// scenario 3: once P1 has no unacted units left, P2 keeps acting turn after
// turn instead of alternating back to an exhausted P1, and round end only
// triggers once both sides are exhausted.
func TestExhaustionRuleKeepsActingPlayerWhenOpponentIsDone(t *testing.T) {
	p1Hero := newHeroUnit("p1_hero", entity.P1, entity.Warrior, "heroic_leap", board.Position{X: 2, Y: 0})
	p2Hero := newHeroUnit("p2_hero", entity.P2, entity.Warrior, "heroic_leap", board.Position{X: 2, Y: 4})
	p2Tank := newMinionUnit("p2_tank", entity.P2, entity.Tank, board.Position{X: 0, Y: 4})
	s := newState(p1Hero, p2Hero, p2Tank)

	end := func(playerID entity.PlayerID, unitID string) {
		t.Helper()
		a := entity.Action{Type: entity.EndTurn, PlayerID: playerID, ActingUnitID: unitID}
		next, err := Execute(s, a)
		if err != nil {
			t.Fatalf("execute END_TURN for %s: %v", unitID, err)
		}
		s = next
	}

	end(entity.P1, "p1_hero")
	if s.CurrentPlayer != entity.P2 {
		t.Fatalf("expected turn to pass to P2 once P1 is exhausted, got %v", s.CurrentPlayer)
	}
	if s.CurrentRound != 1 {
		t.Fatalf("expected round to still be 1, got %d", s.CurrentRound)
	}

	end(entity.P2, "p2_hero")
	if s.CurrentPlayer != entity.P2 {
		t.Fatalf("expected P2 to keep acting under the Exhaustion Rule, got %v", s.CurrentPlayer)
	}
	if s.CurrentRound != 1 {
		t.Fatalf("expected round to still be 1 before P2's last unit acts, got %d", s.CurrentRound)
	}

	end(entity.P2, "p2_tank")
	if s.CurrentRound != 2 {
		t.Fatalf("expected round end to trigger once both sides are exhausted, got round %d", s.CurrentRound)
	}
	gotHero, _ := s.FindUnit("p1_hero")
	if gotHero.HasActed {
		t.Fatalf("expected units to be reset for the new round")
	}
}
