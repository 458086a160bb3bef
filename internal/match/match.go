package match

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tactics5x5/arena/internal/draft"
	"github.com/tactics5x5/arena/internal/entity"
	"github.com/tactics5x5/arena/internal/timer"
	"github.com/tactics5x5/arena/internal/transport"
)

// phase tracks which of the two sub-protocols (draft, then play) the match
// is currently running, per spec.md §4.9/§4.12.
type phase string

const (
	phaseDraft     phase = "DRAFT"
	phasePlaying   phase = "PLAYING"
	phaseCompleted phase = "COMPLETED"
)

// nowFunc is swappable in tests; production always uses time.Now.
var nowFunc = time.Now

// Match is the per-match actor described by spec.md §4.12 and §5: a single
// goroutine drains Mailbox and is the only writer of state/draft, so
// nothing here needs a mutex. The Manager feeds it Connected,
// Disconnected, and MessageReceived events; its own timers feed it
// TimerFired events.
type Match struct {
	ID       string
	log      *zap.Logger
	registry *transport.Registry
	metrics  *metrics

	Mailbox chan Event

	ph    phase
	draft draft.Result
	state entity.GameState
	seed  uint64

	actionTimer      *timer.Timer
	deathChoiceTimer *timer.Timer
	draftTimer       *timer.Timer

	connP1 string // connectionId currently bound to P1, "" if none
	connP2 string

	stopped bool
}

// New constructs a match in the DRAFT phase. seed is the PRNG seed handed
// to draft.Setup once both players finish drafting.
func New(id string, p1Class, p2Class entity.HeroClass, seed uint64, registry *transport.Registry, log *zap.Logger) *Match {
	m := &Match{
		ID:       id,
		log:      log.With(zap.String("matchId", id)),
		registry: registry,
		metrics:  globalMetrics,
		Mailbox:  make(chan Event, 64),
		ph:       phaseDraft,
		draft:    draft.New(p1Class, p2Class),
		seed:     seed,
	}
	m.actionTimer = timer.New(timer.KindAction, m.onTimerFire)
	m.deathChoiceTimer = timer.New(timer.KindDeathChoice, m.onTimerFire)
	m.draftTimer = timer.New(timer.KindDraft, m.onTimerFire)
	return m
}

// onTimerFire is the Timer Subsystem's commit callback. Per spec.md §5's
// concurrency model it must never touch m.state directly — it only
// enqueues a TimerFired event onto the match's own mailbox, where the
// single consumer goroutine is the one to act on it.
func (m *Match) onTimerFire(k timer.Kind) {
	select {
	case m.Mailbox <- Event{Kind: EventTimerFired, TimerKind: k}:
	default:
		// Mailbox is full or the match has already stopped; spec.md §7
		// "a late-firing timer whose match has already been cancelled is
		// silently dropped".
	}
}

// Run drains the mailbox until ctx is cancelled or the match stops itself
// (game over). Callers run this on its own goroutine per match.
func (m *Match) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			m.shutdown()
			return
		case ev, ok := <-m.Mailbox:
			if !ok {
				return
			}
			m.handle(ev)
			if m.stopped {
				m.shutdown()
				return
			}
		}
	}
}

func (m *Match) shutdown() {
	m.actionTimer.Stop()
	m.deathChoiceTimer.Stop()
	m.draftTimer.Stop()
	m.registry.RemoveMatch(m.ID)
}

func (m *Match) handle(ev Event) {
	switch ev.Kind {
	case EventConnected:
		m.handleConnected(ev)
	case EventDisconnected:
		m.registry.Unregister(ev.ConnectionID)
	case EventMessageReceived:
		m.handleEnvelope(ev)
	case EventTimerFired:
		m.handleTimerFired(ev.TimerKind)
	}
}

func (m *Match) handleConnected(ev Event) {
	m.registry.Register(ev.ConnectionID, m.ID, ev.Slot, ev.Conn)
	if ev.Slot == transport.SlotP1 {
		m.connP1 = ev.ConnectionID
	} else {
		m.connP2 = ev.ConnectionID
	}

	switch m.ph {
	case phaseDraft:
		m.sendMatchJoinedDraft(ev.ConnectionID, ev.Slot)
		if m.connP1 != "" && m.connP2 != "" && m.draftTimer.State() == timer.StateIdle {
			m.draftTimer.Start(timer.DraftDuration)
			m.broadcast(transport.TagDraftStart, transport.DraftStartPayload{
				DraftStartTime: nowFunc().UnixMilli(),
				TimeoutMs:      int64(timer.DraftDuration / time.Millisecond),
				TimerType:      string(timer.KindDraft),
			})
		}
	case phasePlaying, phaseCompleted:
		m.sendMatchJoinedPlaying(ev.ConnectionID, ev.Slot)
		if m.ph == phasePlaying {
			m.sendYourTurnIfNeeded()
		}
	}
}

// playerForSlot maps a registry slot onto the PlayerID domain the rule
// engine uses; the two enumerations are kept distinct because transport
// concerns (reconnect slots) and game concerns (whose turn it is) are
// different axes even though today they share the same two values.
func playerForSlot(slot transport.Slot) entity.PlayerID {
	if slot == transport.SlotP1 {
		return entity.P1
	}
	return entity.P2
}

func slotForPlayer(p entity.PlayerID) transport.Slot {
	if p == entity.P1 {
		return transport.SlotP1
	}
	return transport.SlotP2
}
