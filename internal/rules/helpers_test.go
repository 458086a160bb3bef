package rules

import (
	"github.com/tactics5x5/arena/internal/board"
	"github.com/tactics5x5/arena/internal/entity"
	"github.com/tactics5x5/arena/internal/rng"
)

// newHeroUnit and newMinionUnit build units directly rather than going
// through package draft's draft-to-setup pipeline, so scenario tests can
// place units at arbitrary positions without running a full draft.
func newHeroUnit(id string, owner entity.PlayerID, class entity.HeroClass, skillID string, pos board.Position) entity.Unit {
	stats := entity.HeroDefaultStats
	return entity.Unit{
		ID: id, Owner: owner, Category: entity.CategoryHero, HeroClass: class,
		HP: stats.HP, MaxHP: stats.HP, BaseAttack: stats.Attack,
		MoveRange: stats.MoveRange, AttackRange: stats.AttackRange,
		Position: pos, Alive: true, ActionsRemaining: 1,
		SelectedSkillID: skillID,
	}
}

func newMinionUnit(id string, owner entity.PlayerID, mt entity.MinionType, pos board.Position) entity.Unit {
	stats := entity.DefaultStats[mt]
	return entity.Unit{
		ID: id, Owner: owner, Category: entity.CategoryMinion, MinionType: mt,
		HP: stats.HP, MaxHP: stats.HP, BaseAttack: stats.Attack,
		MoveRange: stats.MoveRange, AttackRange: stats.AttackRange,
		Position: pos, Alive: true, ActionsRemaining: 1,
	}
}

// newState assembles a well-formed GameState from units, P1 to move, round
// 1, seeded deterministically. Tests that need obstacles, buff tiles, or
// pre-existing buffs layer them on with the With* helpers afterward.
func newState(units ...entity.Unit) entity.GameState {
	return entity.GameState{
		Board:         entity.DefaultBoard,
		Units:         units,
		UnitBuffs:     map[string][]entity.BuffInstance{},
		CurrentPlayer: entity.P1,
		CurrentRound:  1,
		RNGState:      rng.New(7),
	}
}
