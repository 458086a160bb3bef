// Package match implements the per-match actor (spec.md §4.12/§5): a
// single-consumer mailbox draining Connected/Disconnected/MessageReceived/
// TimerFired events and driving Validate/Execute, the Timer Subsystem, and
// broadcast to each side's connection. Every match runs on its own
// goroutine; there is no shared mutable state between matches beyond the
// Connection Registry (package transport), which is itself lock-guarded.
package match

import (
	"github.com/tactics5x5/arena/internal/entity"
	"github.com/tactics5x5/arena/internal/timer"
	"github.com/tactics5x5/arena/internal/transport"
)

// Event is the tagged union the mailbox carries. Only one of the typed
// fields is meaningful per Kind.
type Event struct {
	Kind EventKind

	ConnectionID string
	Slot         transport.Slot
	Conn         transport.Conn

	Envelope transport.Envelope

	TimerKind timer.Kind
}

// EventKind discriminates Event.
type EventKind string

const (
	EventConnected        EventKind = "CONNECTED"
	EventDisconnected     EventKind = "DISCONNECTED"
	EventMessageReceived  EventKind = "MESSAGE_RECEIVED"
	EventTimerFired       EventKind = "TIMER_FIRED"
)

// pendingAction bundles a decoded action message with who sent it, used
// internally between decode and dispatch.
type pendingAction struct {
	playerID entity.PlayerID
	action   entity.Action
}
