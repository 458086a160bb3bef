package entity

import "github.com/tactics5x5/arena/internal/board"

// ActionKind tags the variant of a player-submitted intent. Kept as a
// string-backed tag (not an interface hierarchy) per the "polymorphism of
// Actions via tagged variants" design note in spec.md §9.
type ActionKind string

const (
	Move            ActionKind = "MOVE"
	Attack          ActionKind = "ATTACK"
	MoveAndAttack   ActionKind = "MOVE_AND_ATTACK"
	UseSkill        ActionKind = "USE_SKILL"
	DestroyObstacle ActionKind = "DESTROY_OBSTACLE"
	DeathChoice     ActionKind = "DEATH_CHOICE"
	EndTurn         ActionKind = "END_TURN"
)

// Action is a single player-submitted intent. Not every field is populated
// for every Kind — see spec.md §6 "Field presence by action type".
type Action struct {
	Type         ActionKind
	PlayerID     PlayerID
	ActingUnitID string // required for every Kind except DeathChoice

	TargetPos    board.Position // MOVE destination, USE_SKILL SINGLE_TILE/LINE endpoint
	HasTargetPos bool

	TargetUnitID string // ATTACK / USE_SKILL target

	// AttackTargetPos snapshots the attack target's tile at the moment a
	// SLOW unit's action is deferred (see deferAction in rules/executor.go).
	// Never set on a wire-submitted action — only the Executor stamps it.
	AttackTargetPos    board.Position
	HasAttackTargetPos bool

	Choice DeathChoiceKind // DEATH_CHOICE only
}

// WithTargetPos returns a copy of a with TargetPos set and HasTargetPos
// marked true — a small builder to keep call sites in tests/handlers terse.
func (a Action) WithTargetPos(p board.Position) Action {
	a.TargetPos = p
	a.HasTargetPos = true
	return a
}
