package entity

import (
	"testing"

	"github.com/tactics5x5/arena/internal/board"
	"github.com/tactics5x5/arena/internal/rng"
)

func sampleState() GameState {
	return GameState{
		Board: DefaultBoard,
		Units: []Unit{
			{ID: "p1_hero", Owner: P1, Category: CategoryHero, HP: 5, MaxHP: 5, BaseAttack: 1, MoveRange: 1, AttackRange: 1, Position: board.Position{X: 2, Y: 0}, Alive: true, ActionsRemaining: 1},
		},
		UnitBuffs:    map[string][]BuffInstance{},
		CurrentPlayer: P1,
		CurrentRound:  1,
		RNGState:      rng.New(1),
	}
}

func TestWithUnitDoesNotMutateOriginal(t *testing.T) {
	s1 := sampleState()
	u, _ := s1.FindUnit("p1_hero")
	moved := u.WithPosition(board.Position{X: 2, Y: 1})
	s2 := s1.WithUnit(moved)

	orig, _ := s1.FindUnit("p1_hero")
	if orig.Position != (board.Position{X: 2, Y: 0}) {
		t.Fatalf("original state mutated: position = %v", orig.Position)
	}
	updated, _ := s2.FindUnit("p1_hero")
	if updated.Position != (board.Position{X: 2, Y: 1}) {
		t.Fatalf("new state missing update: position = %v", updated.Position)
	}
}

func TestWithUnitBuffsIsolatesMap(t *testing.T) {
	s1 := sampleState()
	buff := NewBuffInstance("b1", Power, 2, "")
	s2 := s1.WithUnitBuffs("p1_hero", []BuffInstance{buff})

	if len(s1.Buffs("p1_hero")) != 0 {
		t.Fatalf("original buffs map mutated: %v", s1.Buffs("p1_hero"))
	}
	if len(s2.Buffs("p1_hero")) != 1 {
		t.Fatalf("expected one buff on new state, got %d", len(s2.Buffs("p1_hero")))
	}
}

func TestApplyBuffRefreshesNonStackable(t *testing.T) {
	buffs := []BuffInstance{NewBuffInstance("b1", Power, 1, "")}
	refreshed := ApplyBuff(buffs, NewBuffInstance("b2", Power, 2, ""))
	if len(refreshed) != 1 {
		t.Fatalf("expected POWER to refresh in place, got %d instances", len(refreshed))
	}
	if refreshed[0].Duration != 2 {
		t.Fatalf("expected refreshed duration 2, got %d", refreshed[0].Duration)
	}
	if len(buffs) != 1 || buffs[0].BuffID != "b1" {
		t.Fatal("original buffs slice was mutated")
	}
}

func TestApplyBuffStacksBleed(t *testing.T) {
	buffs := []BuffInstance{NewBuffInstance("b1", Bleed, 2, "")}
	stacked := ApplyBuff(buffs, NewBuffInstance("b2", Bleed, 2, ""))
	if len(stacked) != 2 {
		t.Fatalf("expected BLEED to stack, got %d instances", len(stacked))
	}
}

func TestPlaceObstacleOverwritesBuffTile(t *testing.T) {
	s := sampleState()
	pos := board.Position{X: 3, Y: 3}
	s = s.PlaceBuffTile(BuffTile{Position: pos, BuffType: Life, Duration: 2})
	s = s.PlaceObstacle(Obstacle{Position: pos, HP: 3, MaxHP: 3})

	if _, ok := s.BuffTileAt(pos); ok {
		t.Fatal("buff tile should have been overwritten by obstacle")
	}
	if _, ok := s.ObstacleAt(pos); !ok {
		t.Fatal("expected obstacle at position")
	}
}

func TestSortDeathChoicesByUnitID(t *testing.T) {
	reqs := []DeathChoiceRequest{
		{DeadUnitID: "p2_minion_2"},
		{DeadUnitID: "p2_minion_1"},
	}
	sorted := SortDeathChoicesByUnitID(reqs)
	if sorted[0].DeadUnitID != "p2_minion_1" || sorted[1].DeadUnitID != "p2_minion_2" {
		t.Fatalf("unexpected order: %v", sorted)
	}
	if reqs[0].DeadUnitID != "p2_minion_2" {
		t.Fatal("input slice should not be reordered in place")
	}
}

func TestCloneIsDeep(t *testing.T) {
	s1 := sampleState()
	s1 = s1.WithUnitBuffs("p1_hero", []BuffInstance{NewBuffInstance("b1", Power, 1, "")})
	clone := s1.Clone()

	mutated := clone.Units
	mutated[0] = mutated[0].WithPosition(board.Position{X: 4, Y: 4})
	orig, _ := s1.FindUnit("p1_hero")
	if orig.Position == (board.Position{X: 4, Y: 4}) {
		t.Fatal("mutating clone's slice backing array leaked into original")
	}
}
