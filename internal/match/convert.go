package match

import (
	"github.com/tactics5x5/arena/internal/board"
	"github.com/tactics5x5/arena/internal/entity"
	"github.com/tactics5x5/arena/internal/serialize"
)

// actionFromPayload converts the wire `action{...}` object into an
// entity.Action, attaching the envelope-level playerId (the nested wire
// Action has no playerId field of its own — see transport.ActionPayload).
func actionFromPayload(player entity.PlayerID, a serialize.Action) entity.Action {
	out := entity.Action{
		Type:         entity.ActionKind(a.Type),
		PlayerID:     player,
		ActingUnitID: a.ActingUnitID,
		TargetUnitID: a.TargetUnitID,
		Choice:       entity.DeathChoiceKind(a.Choice),
	}
	if a.TargetX != nil && a.TargetY != nil {
		out = out.WithTargetPos(board.Position{X: *a.TargetX, Y: *a.TargetY})
	}
	return out
}

// actionToPayload is the inverse, used when echoing a rejected action back
// in a validation_error or describing a server-synthesized auto-action.
func actionToPayload(a entity.Action) serialize.Action {
	out := serialize.Action{
		Type:         string(a.Type),
		ActingUnitID: a.ActingUnitID,
		TargetUnitID: a.TargetUnitID,
		Choice:       string(a.Choice),
	}
	if a.HasTargetPos {
		x, y := a.TargetPos.X, a.TargetPos.Y
		out.TargetX = &x
		out.TargetY = &y
	}
	return out
}

func wireState(s entity.GameState) serialize.GameState {
	return serialize.ToWire(s)
}
