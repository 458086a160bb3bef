package draft

import (
	"testing"

	"github.com/tactics5x5/arena/internal/entity"
	"github.com/tactics5x5/arena/internal/rng"
)

func TestSelectionIdempotentUntilComplete(t *testing.T) {
	r := New(entity.Warrior, entity.Mage)
	var err error
	r, err = SelectMinions(r, entity.P1, []entity.MinionType{entity.Tank, entity.Archer})
	if err != nil {
		t.Fatalf("SelectMinions: %v", err)
	}
	r, err = SelectMinions(r, entity.P1, []entity.MinionType{entity.Tank, entity.Assassin})
	if err != nil {
		t.Fatalf("re-selection before completion should succeed: %v", err)
	}
	if r.P1.SelectedMinions[1] != entity.Assassin {
		t.Fatalf("expected latest selection to win, got %v", r.P1.SelectedMinions)
	}
}

func TestReselectionRejectedAfterCompletion(t *testing.T) {
	r := New(entity.Warrior, entity.Mage)
	r, _ = SelectMinions(r, entity.P1, []entity.MinionType{entity.Tank, entity.Archer})
	r, _ = SelectSkill(r, entity.P1, "heroic_leap")
	if !r.P1.Complete() {
		t.Fatalf("expected P1 draft complete")
	}
	if _, err := SelectSkill(r, entity.P1, "shockwave"); err != ErrDraftComplete {
		t.Fatalf("expected ErrDraftComplete, got %v", err)
	}
}

func TestSelectSkillRejectsWrongClass(t *testing.T) {
	r := New(entity.Warrior, entity.Mage)
	if _, err := SelectSkill(r, entity.P1, "elemental_blast"); err != ErrSkillWrongClass {
		t.Fatalf("expected ErrSkillWrongClass, got %v", err)
	}
}

func TestApplyTimeoutFillsMissingSelectionsDeterministically(t *testing.T) {
	r := New(entity.Warrior, entity.Mage)
	r, _ = SelectMinions(r, entity.P1, []entity.MinionType{entity.Tank, entity.Archer})
	// P1 still missing a skill; P2 missing everything but class.

	s1 := rng.New(7)
	out1, _ := ApplyTimeout(r, entity.P1, s1)
	out1, _ = ApplyTimeout(out1, entity.P2, s1)

	s2 := rng.New(7)
	out2, _ := ApplyTimeout(r, entity.P1, s2)
	out2, _ = ApplyTimeout(out2, entity.P2, s2)

	if out1.P1.SelectedSkillID != out2.P1.SelectedSkillID {
		t.Fatalf("non-deterministic timeout fill for P1 skill")
	}
	if len(out1.P2.SelectedMinions) != 2 || len(out2.P2.SelectedMinions) != 2 {
		t.Fatalf("expected P2 to receive two minions from timeout fill")
	}
	if !out1.Complete() {
		t.Fatalf("expected draft complete after filling both players")
	}
}

func TestSetupPlacesUnitsPerSpec(t *testing.T) {
	r := New(entity.Warrior, entity.Mage)
	r, _ = SelectMinions(r, entity.P1, []entity.MinionType{entity.Tank, entity.Archer})
	r, _ = SelectSkill(r, entity.P1, "heroic_leap")
	r, _ = SelectMinions(r, entity.P2, []entity.MinionType{entity.Assassin, entity.Tank})
	r, _ = SelectSkill(r, entity.P2, "elemental_blast")

	s, err := Setup(r, 99)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if len(s.Units) != 6 {
		t.Fatalf("expected 6 units, got %d", len(s.Units))
	}
	hero, ok := s.FindUnit("p1_hero")
	if !ok || hero.Position.X != 2 || hero.Position.Y != 0 {
		t.Fatalf("p1 hero misplaced: %+v", hero)
	}
	m1, ok := s.FindUnit("p1_minion_1")
	if !ok || m1.Position.X != 0 || m1.Position.Y != 0 || m1.MinionType != entity.Tank {
		t.Fatalf("p1 minion 1 misplaced: %+v", m1)
	}
	if s.CurrentPlayer != entity.P1 || s.CurrentRound != 1 {
		t.Fatalf("expected P1/round 1 start, got %v round %d", s.CurrentPlayer, s.CurrentRound)
	}
}

func TestSetupRejectsIncompleteDraft(t *testing.T) {
	r := New(entity.Warrior, entity.Mage)
	if _, err := Setup(r, 1); err != ErrDraftNotComplete {
		t.Fatalf("expected ErrDraftNotComplete, got %v", err)
	}
}
