package match

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tactics5x5/arena/internal/entity"
	"github.com/tactics5x5/arena/internal/serialize"
	"github.com/tactics5x5/arena/internal/timer"
	"github.com/tactics5x5/arena/internal/transport"
)

const sendTimeout = 2 * time.Second

func (m *Match) sendTo(connectionID string, tag transport.Tag, payload any) {
	b, ok := m.registry.Lookup(connectionID)
	if !ok {
		return
	}
	m.send(b.Conn, tag, payload)
}

func (m *Match) sendToSlot(slot transport.Slot, tag transport.Tag, payload any) {
	conn, ok := m.registry.ConnFor(m.ID, slot)
	if !ok {
		return
	}
	m.send(conn, tag, payload)
}

// broadcast fans a message out to both slots concurrently via errgroup,
// the same fan-out-and-join shape the teacher uses for parallel reads
// against its backing stores. Neither send can fail the group — a
// disconnected slot simply misses the message, so Wait never returns an
// error; it is only a join point.
func (m *Match) broadcast(tag transport.Tag, payload any) {
	var g errgroup.Group
	g.Go(func() error { m.sendToSlot(transport.SlotP1, tag, payload); return nil })
	g.Go(func() error { m.sendToSlot(transport.SlotP2, tag, payload); return nil })
	_ = g.Wait()
}

func (m *Match) send(conn transport.Conn, tag transport.Tag, payload any) {
	data, err := transport.Encode(tag, payload)
	if err != nil {
		m.log.Error("encode outbound message", zap.String("tag", string(tag)), zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := conn.Send(ctx, data); err != nil {
		m.log.Warn("send outbound message failed", zap.String("tag", string(tag)), zap.Error(err))
	}
}

func (m *Match) sendMatchJoinedDraft(connectionID string, slot transport.Slot) {
	m.sendTo(connectionID, transport.TagMatchJoined, transport.MatchJoinedPayload{
		MatchID:  m.ID,
		PlayerID: string(playerForSlot(slot)),
		State:    wireState(m.state),
	})
}

func (m *Match) sendMatchJoinedPlaying(connectionID string, slot transport.Slot) {
	m.sendTo(connectionID, transport.TagMatchJoined, transport.MatchJoinedPayload{
		MatchID:  m.ID,
		PlayerID: string(playerForSlot(slot)),
		State:    wireState(m.state),
	})
}

func (m *Match) broadcastState() {
	m.broadcast(transport.TagStateUpdate, transport.StateUpdatePayload{State: wireState(m.state)})
}

// sendYourTurnIfNeeded pushes a your_turn notification to whichever
// connection currently holds the acting player's slot, reflecting the
// action timer's freshly (re)started deadline.
func (m *Match) sendYourTurnIfNeeded() {
	if m.ph != phasePlaying || m.state.IsGameOver {
		return
	}
	if len(m.state.PendingDeathChoices) > 0 {
		return
	}
	unacted := m.state.UnactedUnits(m.state.CurrentPlayer)
	if len(unacted) == 0 {
		return
	}
	ids := make([]string, 0, len(unacted))
	for _, u := range entity.SortUnitsByID(unacted) {
		ids = append(ids, u.ID)
	}
	var speedUnit *string
	if m.state.ActingUnitID != "" {
		id := m.state.ActingUnitID
		speedUnit = &id
	}
	deadline := m.actionTimer.Deadline()
	remaining := deadline.Sub(nowFunc())
	if remaining <= 0 {
		remaining = timer.ActionDuration
	}
	m.sendToSlot(slotForPlayer(m.state.CurrentPlayer), transport.TagYourTurn, transport.YourTurnPayload{
		PlayerID:         string(m.state.CurrentPlayer),
		AvailableUnitIDs: ids,
		SpeedUnitID:      speedUnit,
		ActionStartTime:  nowFunc().UnixMilli(),
		TimeoutMs:        int64(remaining / time.Millisecond),
		TimerType:        string(timer.KindAction),
	})
}

func (m *Match) sendDeathChoice() {
	if len(m.state.PendingDeathChoices) == 0 {
		return
	}
	head := m.state.PendingDeathChoices[0]
	m.sendToSlot(slotForPlayer(head.OwnerPlayerID), transport.TagDeathChoice, transport.DeathChoicePayload{
		PlayerID:        string(head.OwnerPlayerID),
		DeadUnitID:      head.DeadUnitID,
		DeathPosition:   serialize.Position{X: head.Position.X, Y: head.Position.Y},
		ActionStartTime: nowFunc().UnixMilli(),
		TimeoutMs:       int64(timer.DeathChoiceDuration / time.Millisecond),
		TimerType:       string(timer.KindDeathChoice),
	})
}
