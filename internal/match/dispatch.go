package match

import (
	"encoding/json"

	"github.com/tactics5x5/arena/internal/draft"
	"github.com/tactics5x5/arena/internal/entity"
	"github.com/tactics5x5/arena/internal/rng"
	"github.com/tactics5x5/arena/internal/rules"
	"github.com/tactics5x5/arena/internal/serialize"
	"github.com/tactics5x5/arena/internal/timer"
	"github.com/tactics5x5/arena/internal/transport"
	"go.uber.org/zap"
)

func (m *Match) handleEnvelope(ev Event) {
	switch ev.Envelope.Type {
	case transport.TagPing:
		m.sendTo(ev.ConnectionID, transport.TagPong, struct{}{})
	case transport.TagDraftSelect:
		m.handleDraftSelect(ev)
	case transport.TagAction:
		m.handleAction(ev)
	default:
		m.sendTo(ev.ConnectionID, transport.TagValidationError,
			transport.ValidationErrorPayload{Message: "Malformed message"})
	}
}

func (m *Match) handleDraftSelect(ev Event) {
	if m.ph != phaseDraft {
		m.sendTo(ev.ConnectionID, transport.TagValidationError,
			transport.ValidationErrorPayload{Message: "Unknown type"})
		return
	}
	var p transport.DraftSelectPayload
	if err := json.Unmarshal(ev.Envelope.Payload, &p); err != nil {
		m.sendTo(ev.ConnectionID, transport.TagValidationError,
			transport.ValidationErrorPayload{Message: "Malformed message"})
		return
	}
	player := entity.PlayerID(p.PlayerID)
	if !player.IsSet() {
		m.sendTo(ev.ConnectionID, transport.TagValidationError,
			transport.ValidationErrorPayload{Message: "Malformed message"})
		return
	}

	var err error
	if len(p.Minions) > 0 {
		minions := make([]entity.MinionType, len(p.Minions))
		for i, s := range p.Minions {
			minions[i] = entity.MinionType(s)
		}
		m.draft, err = draft.SelectMinions(m.draft, player, minions)
	}
	if err == nil && p.SkillID != "" {
		m.draft, err = draft.SelectSkill(m.draft, player, p.SkillID)
	}
	if err != nil {
		m.sendTo(ev.ConnectionID, transport.TagValidationError,
			transport.ValidationErrorPayload{Message: err.Error()})
		return
	}

	if m.draft.Complete() {
		m.completeDraft()
	}
}

// completeDraft runs draft.Setup, cancels the draft timer, and fires the
// first your_turn broadcast.
func (m *Match) completeDraft() {
	m.draftTimer.Cancel()
	state, err := draft.Setup(m.draft, m.seed)
	if err != nil {
		m.log.Error("draft.Setup failed despite Complete() == true", zap.Error(err))
		return
	}
	m.state = state
	m.ph = phasePlaying
	m.broadcastState()
	m.startActionTimer()
	m.sendYourTurnIfNeeded()
}

func (m *Match) handleAction(ev Event) {
	if m.ph != phasePlaying {
		m.sendTo(ev.ConnectionID, transport.TagValidationError,
			transport.ValidationErrorPayload{Message: "Unknown type"})
		return
	}
	var p transport.ActionPayload
	if err := json.Unmarshal(ev.Envelope.Payload, &p); err != nil {
		m.sendTo(ev.ConnectionID, transport.TagValidationError,
			transport.ValidationErrorPayload{Message: "Malformed message"})
		return
	}
	if p.MatchID != m.ID {
		m.sendTo(ev.ConnectionID, transport.TagValidationError,
			transport.ValidationErrorPayload{Message: "Unknown match"})
		return
	}

	a := actionFromPayload(entity.PlayerID(p.PlayerID), p.Action)
	m.applyAction(ev.ConnectionID, a)
}

// applyAction is shared between a live client message and an auto-action
// synthesized by a timer timeout.
func (m *Match) applyAction(originConnID string, a entity.Action) {
	wasDeathChoice := a.Type == entity.DeathChoice

	// Pause the action timer while resolving so execution latency never
	// eats into the next actor's budget; it is restarted/reset below.
	m.actionTimer.Pause()

	next, err := rules.Execute(m.state, a)
	if err != nil {
		m.metrics.validationErrors.Inc()
		if originConnID != "" {
			m.sendTo(originConnID, transport.TagValidationError,
				transport.ValidationErrorPayload{Message: err.Error(), Action: actionToPayload(a)})
		}
		m.actionTimer.Resume()
		return
	}
	m.state = next
	m.metrics.actionsApplied.Inc()

	if wasDeathChoice {
		m.deathChoiceTimer.Cancel()
	}

	m.broadcastState()

	if m.state.IsGameOver {
		m.completeMatch()
		return
	}

	if len(m.state.PendingDeathChoices) > 0 {
		m.deathChoiceTimer.Reset(timer.DeathChoiceDuration)
		m.sendDeathChoice()
		return
	}

	m.actionTimer.Reset(timer.ActionDuration)
	m.sendYourTurnIfNeeded()
}

func (m *Match) completeMatch() {
	m.ph = phaseCompleted
	m.actionTimer.Stop()
	m.deathChoiceTimer.Stop()
	var winner *string
	if m.state.Winner.IsSet() {
		w := string(m.state.Winner)
		winner = &w
	}
	m.broadcast(transport.TagGameOver, transport.GameOverPayload{Winner: winner, State: wireState(m.state)})
	m.stopped = true
}

func (m *Match) handleTimerFired(k timer.Kind) {
	m.metrics.timerExpirations.WithLabelValues(string(k)).Inc()
	switch k {
	case timer.KindDraft:
		m.handleDraftTimeout()
	case timer.KindDeathChoice:
		m.handleDeathChoiceTimeout()
	case timer.KindAction:
		m.handleActionTimeout()
	}
}

// handleDraftTimeout fills every missing selection for both players using
// the match's own rng.State (seeded from m.seed, kept only for the
// duration of the draft — once Setup runs, all further randomness flows
// through GameState.RNGState).
func (m *Match) handleDraftTimeout() {
	s := rng.New(m.seed)
	m.draft, s = draft.ApplyTimeout(m.draft, entity.P1, s)
	m.draft, s = draft.ApplyTimeout(m.draft, entity.P2, s)
	m.broadcast(transport.TagTimeout, transport.TimeoutPayload{
		TimerType: string(timer.KindDraft), Penalty: "random selection applied",
	})
	m.completeDraft()
}

// handleDeathChoiceTimeout spawns SPAWN_OBSTACLE at the head request's
// position with no HP penalty, per spec.md §8 scenario 6.
func (m *Match) handleDeathChoiceTimeout() {
	if len(m.state.PendingDeathChoices) == 0 {
		return
	}
	head := m.state.PendingDeathChoices[0]
	a := entity.Action{Type: entity.DeathChoice, PlayerID: head.OwnerPlayerID, Choice: entity.SpawnObstacle}
	m.broadcast(transport.TagTimeout, transport.TimeoutPayload{
		TimerType: string(timer.KindDeathChoice), PlayerID: string(head.OwnerPlayerID), Penalty: "SPAWN_OBSTACLE",
	})
	m.applyAction("", a)
}

// handleActionTimeout submits an END_TURN on behalf of the acting player's
// lowest-id unacted unit (or the pinned SPEED unit), per the server's
// right to auto-act when a client fails to respond in time.
func (m *Match) handleActionTimeout() {
	unacted := m.state.UnactedUnits(m.state.CurrentPlayer)
	var unitID string
	if m.state.ActingUnitID != "" {
		unitID = m.state.ActingUnitID
	} else if len(unacted) > 0 {
		unitID = entity.SortUnitsByID(unacted)[0].ID
	} else {
		return
	}

	m.state = rules.ApplyActionTimeoutPenalty(m.state, m.state.CurrentPlayer)
	m.broadcastState()
	if m.state.IsGameOver {
		m.broadcast(transport.TagTimeout, transport.TimeoutPayload{
			TimerType: string(timer.KindAction), PlayerID: string(m.state.CurrentPlayer),
			Penalty: "hero -1 HP",
		})
		m.completeMatch()
		return
	}

	a := entity.Action{Type: entity.EndTurn, PlayerID: m.state.CurrentPlayer, ActingUnitID: unitID}
	m.broadcast(transport.TagTimeout, transport.TimeoutPayload{
		TimerType: string(timer.KindAction), PlayerID: string(m.state.CurrentPlayer),
		Penalty: "hero -1 HP, auto END_TURN", AutoAction: actionPtr(actionToPayload(a)),
	})
	m.applyAction("", a)
}

func (m *Match) startActionTimer() {
	m.actionTimer.Start(timer.ActionDuration)
}

func actionPtr(a serialize.Action) *serialize.Action { return &a }
