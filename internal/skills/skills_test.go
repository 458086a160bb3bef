package skills

import (
	"testing"

	"github.com/tactics5x5/arena/internal/entity"
)

func TestLookupKnownAndUnknown(t *testing.T) {
	if _, ok := Lookup("heroic_leap"); !ok {
		t.Fatal("expected heroic_leap to be registered")
	}
	if _, ok := Lookup("not_a_skill"); ok {
		t.Fatal("expected unknown id to miss")
	}
}

func TestSkillsForClassReturnsThreePerClass(t *testing.T) {
	for _, c := range entity.AllHeroClasses {
		got := SkillsForClass(c)
		if len(got) != 3 {
			t.Fatalf("class %s: expected 3 skills, got %d", c, len(got))
		}
		for _, d := range got {
			if d.HeroClass != c {
				t.Fatalf("class %s: skill %s belongs to %s", c, d.ID, d.HeroClass)
			}
		}
	}
}

func TestAllIDsUnique(t *testing.T) {
	ids := AllIDs()
	if len(ids) != 18 {
		t.Fatalf("expected 18 skills, got %d", len(ids))
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate skill id %s", id)
		}
		seen[id] = true
	}
}

func TestAllSevenCustomHandlersPresent(t *testing.T) {
	want := []CustomHandler{WarpBeacon, ShadowClone, Feint, Challenge, AscendedForm, NaturesPower, SmokeBomb}
	found := make(map[CustomHandler]bool, len(want))
	for _, id := range AllIDs() {
		d, _ := Lookup(id)
		if d.Custom != NoCustomHandler {
			found[d.Custom] = true
		}
	}
	for _, h := range want {
		if !found[h] {
			t.Fatalf("custom handler %s not used by any catalog entry", h)
		}
	}
}

func TestFlurryGrantsAttackModifier(t *testing.T) {
	d, ok := Lookup("flurry")
	if !ok {
		t.Fatal("expected flurry skill")
	}
	if len(d.Effects) != 1 || d.Effects[0].BuffType != entity.Flurry {
		t.Fatalf("expected flurry to apply entity.Flurry, got %+v", d.Effects)
	}
	if d.Effects[0].BuffModifier.BonusAttack != 2 {
		t.Fatalf("expected +2 bonus attack, got %+v", d.Effects[0].BuffModifier)
	}
}
