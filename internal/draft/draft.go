// Package draft implements the pre-match selection pipeline (spec.md
// §4.9): hidden per-player selections, the draft timer's random-fill
// fallback, and the transform from a completed draft into the initial
// GameState the rule engine operates on.
package draft

import (
	"errors"
	"strings"

	"github.com/tactics5x5/arena/internal/board"
	"github.com/tactics5x5/arena/internal/entity"
	"github.com/tactics5x5/arena/internal/rng"
	"github.com/tactics5x5/arena/internal/skills"
)

var (
	ErrDraftComplete     = errors.New("draft already complete for this player")
	ErrTooManyMinions    = errors.New("exactly two minions must be selected")
	ErrUnknownHeroClass  = errors.New("unknown hero class")
	ErrSkillWrongClass   = errors.New("skill does not belong to the player's hero class")
	ErrDraftNotComplete  = errors.New("draft is not complete")
)

// PlayerDraft tracks one player's hidden selections. HeroClass is fixed
// from the player's chosen identity at the start of the draft (spec.md §4.9
// lists it as part of the per-player state, not a separately-submitted
// pick); SelectedMinions and SelectedSkillID fill in over one or more
// selection messages.
type PlayerDraft struct {
	HeroClass       entity.HeroClass
	SelectedMinions []entity.MinionType // ordered, size 0-2, duplicates allowed
	SelectedSkillID string
}

// Complete reports whether this player has finished drafting: exactly two
// minions and a skill chosen.
func (d PlayerDraft) Complete() bool {
	return len(d.SelectedMinions) == 2 && d.SelectedSkillID != ""
}

// Result holds both players' draft state through to completion.
type Result struct {
	P1 PlayerDraft
	P2 PlayerDraft
}

// Complete reports whether both players have finished drafting.
func (r Result) Complete() bool {
	return r.P1.Complete() && r.P2.Complete()
}

// draftFor returns a pointer to the named player's draft state within r,
// so callers can mutate a copy of Result in place without reaching into
// private fields.
func (r *Result) draftFor(p entity.PlayerID) *PlayerDraft {
	if p == entity.P1 {
		return &r.P1
	}
	return &r.P2
}

// New starts a fresh draft with both players' fixed hero classes.
func New(p1Class, p2Class entity.HeroClass) Result {
	return Result{
		P1: PlayerDraft{HeroClass: p1Class},
		P2: PlayerDraft{HeroClass: p2Class},
	}
}

// SelectMinions sets the player's two-minion selection, replacing any prior
// selection for as long as the player's draft remains incomplete
// (idempotent re-selection, rejected once Complete per spec.md §8).
func SelectMinions(r Result, player entity.PlayerID, minions []entity.MinionType) (Result, error) {
	d := r.draftFor(player)
	if d.Complete() {
		return r, ErrDraftComplete
	}
	if len(minions) != 2 {
		return r, ErrTooManyMinions
	}
	d.SelectedMinions = append([]entity.MinionType{}, minions...)
	return r, nil
}

// SelectSkill sets the player's skill choice. The skill must belong to the
// player's fixed hero class.
func SelectSkill(r Result, player entity.PlayerID, skillID string) (Result, error) {
	d := r.draftFor(player)
	if d.Complete() {
		return r, ErrDraftComplete
	}
	def, ok := skills.Lookup(skillID)
	if !ok {
		return r, ErrSkillWrongClass
	}
	if def.HeroClass != d.HeroClass {
		return r, ErrSkillWrongClass
	}
	d.SelectedSkillID = skillID
	return r, nil
}

// ApplyTimeout fills in any of a player's missing selections using the
// PRNG, per spec.md §4.11's Draft-timer fallback: a missing hero class is
// replaced by a random class, a missing skill by a random valid skill for
// the (possibly just-rolled) class, and missing minions by a random
// 2-selection from {TANK, ARCHER, ASSASSIN}. It is called once per player
// when the shared 60s draft timer expires.
func ApplyTimeout(r Result, player entity.PlayerID, s rng.State) (Result, rng.State) {
	d := r.draftFor(player)
	if d.HeroClass == "" {
		i, next := s.NextInt(len(entity.AllHeroClasses))
		s = next
		d.HeroClass = entity.AllHeroClasses[i]
	}
	for len(d.SelectedMinions) < 2 {
		i, next := s.NextInt(len(entity.AllMinionTypes))
		s = next
		d.SelectedMinions = append(d.SelectedMinions, entity.AllMinionTypes[i])
	}
	if d.SelectedSkillID == "" {
		choices := skills.SkillsForClass(d.HeroClass)
		i, next := s.NextInt(len(choices))
		s = next
		d.SelectedSkillID = choices[i].ID
	}
	return r, s
}

// Setup transforms a completed draft into the well-formed initial
// GameState described by spec.md §4.9: each side's Hero at (2,y) — P1
// y=0, P2 y=4 — and two minions at (0,y) and (4,y) in selection order.
// seed is the match's PRNG seed; Setup is the only place that constructs
// rng.State from a raw seed, every subsequent draw threading through
// GameState.RNGState from here on.
func Setup(r Result, seed uint64) (entity.GameState, error) {
	if !r.Complete() {
		return entity.GameState{}, ErrDraftNotComplete
	}

	units := []entity.Unit{
		newHero(entity.P1, r.P1, board.Position{X: 2, Y: 0}),
		newMinion(entity.P1, "p1_minion_1", r.P1.SelectedMinions[0], board.Position{X: 0, Y: 0}),
		newMinion(entity.P1, "p1_minion_2", r.P1.SelectedMinions[1], board.Position{X: 4, Y: 0}),
		newHero(entity.P2, r.P2, board.Position{X: 2, Y: 4}),
		newMinion(entity.P2, "p2_minion_1", r.P2.SelectedMinions[0], board.Position{X: 0, Y: 4}),
		newMinion(entity.P2, "p2_minion_2", r.P2.SelectedMinions[1], board.Position{X: 4, Y: 4}),
	}

	return entity.GameState{
		Board:         entity.DefaultBoard,
		Units:         units,
		UnitBuffs:     map[string][]entity.BuffInstance{},
		CurrentPlayer: entity.P1,
		CurrentRound:  1,
		RNGState:      rng.New(seed),
	}, nil
}

func newHero(owner entity.PlayerID, d PlayerDraft, pos board.Position) entity.Unit {
	stats := entity.HeroDefaultStats
	return entity.Unit{
		ID:               strings.ToLower(string(owner)) + "_hero",
		Owner:            owner,
		Category:         entity.CategoryHero,
		HeroClass:        d.HeroClass,
		HP:               stats.HP,
		MaxHP:            stats.HP,
		BaseAttack:       stats.Attack,
		MoveRange:        stats.MoveRange,
		AttackRange:      stats.AttackRange,
		Position:         pos,
		Alive:            true,
		ActionsRemaining: 1,
		SelectedSkillID:  d.SelectedSkillID,
		SkillCooldown:    0,
	}
}

func newMinion(owner entity.PlayerID, id string, mt entity.MinionType, pos board.Position) entity.Unit {
	stats := entity.DefaultStats[mt]
	return entity.Unit{
		ID:               id,
		Owner:            owner,
		Category:         entity.CategoryMinion,
		MinionType:       mt,
		HP:               stats.HP,
		MaxHP:            stats.HP,
		BaseAttack:       stats.Attack,
		MoveRange:        stats.MoveRange,
		AttackRange:      stats.AttackRange,
		Position:         pos,
		Alive:            true,
		ActionsRemaining: 1,
	}
}
