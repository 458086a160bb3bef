package match

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tactics5x5/arena/internal/entity"
	"github.com/tactics5x5/arena/internal/serialize"
	"github.com/tactics5x5/arena/internal/timer"
	"github.com/tactics5x5/arena/internal/transport"
)

func serializeActionMove(x, y int) serialize.Action {
	return serialize.Action{Type: string(entity.Move), ActingUnitID: "p1_hero", TargetX: &x, TargetY: &y}
}

type recordingConn struct {
	mu   sync.Mutex
	msgs []transport.Envelope
}

func (c *recordingConn) Send(ctx context.Context, data []byte) error {
	var e transport.Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	c.mu.Lock()
	c.msgs = append(c.msgs, e)
	c.mu.Unlock()
	return nil
}

func (c *recordingConn) Receive(ctx context.Context) ([]byte, error) { return nil, nil }
func (c *recordingConn) Close() error                                 { return nil }

func (c *recordingConn) last(tag transport.Tag) (transport.Envelope, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.msgs) - 1; i >= 0; i-- {
		if c.msgs[i].Type == tag {
			return c.msgs[i], true
		}
	}
	return transport.Envelope{}, false
}

func newTestMatch() (*Match, *recordingConn, *recordingConn) {
	reg := transport.NewRegistry(zap.NewNop())
	m := New("m1", entity.Warrior, entity.Mage, 42, reg, zap.NewNop())
	p1 := &recordingConn{}
	p2 := &recordingConn{}
	m.handle(Event{Kind: EventConnected, ConnectionID: "c1", Slot: transport.SlotP1, Conn: p1})
	m.handle(Event{Kind: EventConnected, ConnectionID: "c2", Slot: transport.SlotP2, Conn: p2})
	return m, p1, p2
}

func draftSelectEnvelope(t *testing.T, player entity.PlayerID, minions []string, skill string) transport.Envelope {
	t.Helper()
	payload, err := json.Marshal(transport.DraftSelectPayload{
		MatchID: "m1", PlayerID: string(player), Minions: minions, SkillID: skill,
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return transport.Envelope{Type: transport.TagDraftSelect, Payload: payload}
}

func TestDraftCompletionTransitionsToPlaying(t *testing.T) {
	m, p1, _ := newTestMatch()

	m.handle(Event{Kind: EventMessageReceived, ConnectionID: "c1",
		Envelope: draftSelectEnvelope(t, entity.P1, []string{"TANK", "ARCHER"}, "heroic_leap")})
	m.handle(Event{Kind: EventMessageReceived, ConnectionID: "c2",
		Envelope: draftSelectEnvelope(t, entity.P2, []string{"ASSASSIN", "TANK"}, "elemental_blast")})

	if m.ph != phasePlaying {
		t.Fatalf("expected phasePlaying after both drafts complete, got %v", m.ph)
	}
	if _, ok := p1.last(transport.TagYourTurn); !ok {
		t.Fatalf("expected P1 (hero at (2,0), current player) to receive your_turn")
	}
}

func TestActionFlowsThroughExecutorAndBroadcasts(t *testing.T) {
	m, p1, p2 := newTestMatch()
	m.handle(Event{Kind: EventMessageReceived, ConnectionID: "c1",
		Envelope: draftSelectEnvelope(t, entity.P1, []string{"TANK", "ARCHER"}, "heroic_leap")})
	m.handle(Event{Kind: EventMessageReceived, ConnectionID: "c2",
		Envelope: draftSelectEnvelope(t, entity.P2, []string{"ASSASSIN", "TANK"}, "elemental_blast")})

	payload, _ := json.Marshal(transport.ActionPayload{
		MatchID: "m1", PlayerID: "P1",
		Action: serializeActionMove(2, 1),
	})
	m.handle(Event{Kind: EventMessageReceived, ConnectionID: "c1",
		Envelope: transport.Envelope{Type: transport.TagAction, Payload: payload}})

	hero, ok := m.state.FindUnit("p1_hero")
	if !ok || hero.Position.X != 2 || hero.Position.Y != 1 {
		t.Fatalf("expected hero to move to (2,1), got %+v ok=%v", hero.Position, ok)
	}
	if _, ok := p1.last(transport.TagStateUpdate); !ok {
		t.Fatalf("expected state_update sent to P1")
	}
	if _, ok := p2.last(transport.TagStateUpdate); !ok {
		t.Fatalf("expected state_update sent to P2")
	}
	if m.state.CurrentPlayer != entity.P2 {
		t.Fatalf("expected turn to pass to P2, got %v", m.state.CurrentPlayer)
	}
}

func TestRejectedActionSendsValidationErrorOnlyToOrigin(t *testing.T) {
	m, p1, p2 := newTestMatch()
	m.handle(Event{Kind: EventMessageReceived, ConnectionID: "c1",
		Envelope: draftSelectEnvelope(t, entity.P1, []string{"TANK", "ARCHER"}, "heroic_leap")})
	m.handle(Event{Kind: EventMessageReceived, ConnectionID: "c2",
		Envelope: draftSelectEnvelope(t, entity.P2, []string{"ASSASSIN", "TANK"}, "elemental_blast")})

	// It's P1's turn; have P2 attempt an action.
	payload, _ := json.Marshal(transport.ActionPayload{
		MatchID: "m1", PlayerID: "P2", Action: serializeActionMove(2, 3),
	})
	m.handle(Event{Kind: EventMessageReceived, ConnectionID: "c2",
		Envelope: transport.Envelope{Type: transport.TagAction, Payload: payload}})

	env, ok := p2.last(transport.TagValidationError)
	if !ok {
		t.Fatalf("expected validation_error sent to P2")
	}
	var errPayload transport.ValidationErrorPayload
	if err := json.Unmarshal(env.Payload, &errPayload); err != nil {
		t.Fatalf("unmarshal validation_error: %v", err)
	}
	if errPayload.Message != "Not your turn" {
		t.Fatalf("expected 'Not your turn', got %q", errPayload.Message)
	}
	if _, ok := p1.last(transport.TagValidationError); ok {
		t.Fatalf("did not expect validation_error sent to P1")
	}
}

func TestActionTimeoutAutoEndsTurn(t *testing.T) {
	m, _, _ := newTestMatch()
	m.handle(Event{Kind: EventMessageReceived, ConnectionID: "c1",
		Envelope: draftSelectEnvelope(t, entity.P1, []string{"TANK", "ARCHER"}, "heroic_leap")})
	m.handle(Event{Kind: EventMessageReceived, ConnectionID: "c2",
		Envelope: draftSelectEnvelope(t, entity.P2, []string{"ASSASSIN", "TANK"}, "elemental_blast")})

	before := m.state.CurrentPlayer
	m.handleActionTimeout()

	if m.state.CurrentPlayer == before {
		t.Fatalf("expected current player to change after auto END_TURN, still %v", before)
	}
}

func TestOnTimerFireDoesNotBlockWhenMailboxFull(t *testing.T) {
	m, _, _ := newTestMatch()
	for i := 0; i < cap(m.Mailbox); i++ {
		m.Mailbox <- Event{Kind: EventTimerFired}
	}
	done := make(chan struct{})
	go func() {
		m.onTimerFire(timer.KindAction)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("onTimerFire blocked on a full mailbox")
	}
}
