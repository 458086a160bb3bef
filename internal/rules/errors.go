package rules

import "errors"

// Validation error messages are part of the external interface (spec.md §6
// "Error-message strings"); callers match on these exact strings.
var (
	ErrGameOver              = errors.New("Game is already over")
	ErrNotYourTurn           = errors.New("Not your turn")
	ErrUnknownActingUnit     = errors.New("Unit not found")
	ErrAlreadyActed          = errors.New("Unit has already acted")
	ErrWrongSpeedUnit        = errors.New("Another unit must act")
	ErrStunned               = errors.New("Unit is stunned")
	ErrRooted                = errors.New("Unit is rooted")
	ErrAlreadyPreparing      = errors.New("Unit is already preparing an action")
	ErrOutOfBounds           = errors.New("Target tile out of bounds")
	ErrSameTile              = errors.New("Target tile is the unit's own tile")
	ErrNotOrthogonal         = errors.New("Movement must be orthogonal")
	ErrMoveOutOfRange        = errors.New("Move out of range")
	ErrTileOccupied          = errors.New("Target tile occupied")
	ErrTargetNotFound        = errors.New("Target unit not found")
	ErrTargetPositionMismatch = errors.New("Target position does not match target unit")
	ErrTargetNotEnemy        = errors.New("Target must be an enemy unit")
	ErrTargetDead            = errors.New("Target is not alive")
	ErrTargetInvisible       = errors.New("Target is invisible")
	ErrAmbiguousAttacker     = errors.New("Ambiguous attacker")
	ErrAttackOutOfRange      = errors.New("Attack out of range")
	ErrNotAdjacentAfterMove  = errors.New("Move and attack requires adjacency after the move")
	ErrPowerForbidsMoveAttack = errors.New("Unit cannot use MOVE_AND_ATTACK with Power buff")
	ErrNoSkillSelected       = errors.New("No skill selected")
	ErrSkillOnCooldown       = errors.New("Skill on cooldown")
	ErrUnknownSkill          = errors.New("Unknown skill")
	ErrSkillWrongClass       = errors.New("Skill does not belong to this hero's class")
	ErrSkillTargetRequired   = errors.New("Skill target required")
	ErrSkillRangeExceeded    = errors.New("Skill target out of range")
	ErrSkillTileOccupied     = errors.New("Skill target tile occupied")
	ErrSkillTargetNotOrthogonal = errors.New("Skill target must be orthogonal")
	ErrBeaconMissing         = errors.New("Warp Beacon has not been placed")
	ErrBeaconTileOccupied    = errors.New("Warp Beacon tile is occupied")
	ErrRequiresPower         = errors.New("Skill requires Power buff")
	ErrNoObstacle            = errors.New("No obstacle at target tile")
	ErrNotAdjacent           = errors.New("Target tile is not adjacent")
	ErrNoDeathChoicePending  = errors.New("No death choice is pending")
	ErrNotDeathChoiceOwner   = errors.New("Not the death choice owner")
	ErrInvalidDeathChoice    = errors.New("Invalid death choice")
	ErrUnknownActionKind     = errors.New("Unknown action type")
)
