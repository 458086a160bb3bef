// Package timer implements the three deadline-driven timers spec.md §4.11
// names — action, death-choice, and draft — plus the 500ms grace window
// and pause/resume/reset semantics the Match Orchestrator drives them
// through. Each Timer fires its callback on its own goroutine; callers
// (package match) always treat that callback as "enqueue a TimerFired
// event to this match's mailbox", never as a place to touch GameState
// directly, per spec.md §5's single-writer-per-match rule.
package timer

import (
	"sync"
	"time"
)

// Kind names which of the three logical timers this Timer instance is,
// for metrics labeling (internal/match registers
// arena_timer_expirations_total{timer}).
type Kind string

const (
	KindAction      Kind = "ACTION"
	KindDeathChoice Kind = "DEATH_CHOICE"
	KindDraft       Kind = "DRAFT"
)

// Default durations from spec.md §4.11.
const (
	ActionDuration      = 10000 * time.Millisecond
	DeathChoiceDuration = 5000 * time.Millisecond
	DraftDuration       = 60000 * time.Millisecond

	// GraceWindow is the 500ms commit-deferral spec.md §4.11/§5 describes:
	// an action arriving within this window after expiry is treated as
	// on-time provided the timeout has not yet been committed.
	GraceWindow = 500 * time.Millisecond
)

// State is one of the five timer states from spec.md §4.11.
type State string

const (
	StateIdle      State = "IDLE"
	StateRunning   State = "RUNNING"
	StatePaused    State = "PAUSED"
	StateCompleted State = "COMPLETED"
	StateTimeout   State = "TIMEOUT"
)

// Timer is a single deadline with pause/resume/reset and a grace window
// before its expiry callback commits. It is safe for concurrent use,
// though in practice only the owning match's single mailbox goroutine
// ever calls into it.
type Timer struct {
	kind    Kind
	onFire  func(Kind)
	nowFunc func() time.Time

	mu        sync.Mutex
	state     State
	remaining time.Duration // valid while PAUSED or IDLE
	deadline  time.Time     // valid while RUNNING
	generation uint64       // invalidates stale goroutines after Pause/Reset/Stop/Complete
	graceDeadline time.Time // valid while a fired-but-not-yet-committed timeout is pending
}

// New constructs an idle Timer of the given kind. onFire is invoked (on an
// internal goroutine) once the grace window after expiry elapses without a
// Cancel or Stop — "commit the timeout" in spec.md §5's terms.
func New(kind Kind, onFire func(Kind)) *Timer {
	return &Timer{kind: kind, onFire: onFire, nowFunc: time.Now, state: StateIdle}
}

// Start begins counting down from d. Valid from IDLE, COMPLETED, or
// TIMEOUT; restarting a RUNNING or PAUSED timer is a caller bug (callers
// use Reset instead) and is a no-op here.
func (t *Timer) Start(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateRunning || t.state == StatePaused {
		return
	}
	t.generation++
	t.state = StateRunning
	t.deadline = t.nowFunc().Add(d)
	t.scheduleLocked(d, t.generation)
}

// Pause records the remaining duration and stops the countdown, without
// discarding it. Spec.md §4.11: the action timer is paused while a Death
// Choice is pending and while an action is being resolved.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateRunning {
		return
	}
	t.remaining = t.deadline.Sub(t.nowFunc())
	if t.remaining < 0 {
		t.remaining = 0
	}
	t.state = StatePaused
	t.generation++ // invalidate the in-flight goroutine
}

// Resume continues a paused timer from its recorded remaining duration.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StatePaused {
		return
	}
	t.state = StateRunning
	t.deadline = t.nowFunc().Add(t.remaining)
	t.generation++
	t.scheduleLocked(t.remaining, t.generation)
}

// Reset discards any remaining duration and restarts at full d, regardless
// of the timer's current state. Spec.md §4.11: on Death Choice queue
// drain, the next actor's action timer is reset to full, not resumed.
func (t *Timer) Reset(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generation++
	t.state = StateRunning
	t.remaining = 0
	t.deadline = t.nowFunc().Add(d)
	t.scheduleLocked(d, t.generation)
}

// Stop cancels the timer entirely, moving it to IDLE with no pending
// callback. Used when a match ends or is cancelled (spec.md §5
// "Cancellation").
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generation++
	t.state = StateIdle
	t.remaining = 0
}

// Cancel commits an early completion without firing onFire — used when the
// underlying action/choice/draft arrives normally, including within the
// grace window after expiry (spec.md §4.11's grace-window cancellation).
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generation++
	t.state = StateCompleted
	t.remaining = 0
}

// State reports the timer's current state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Deadline returns the wall-clock time the timer is scheduled to expire,
// valid only while RUNNING — used to populate the wire protocol's
// actionStartTime/timeoutMs pair.
func (t *Timer) Deadline() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.deadline
}

// scheduleLocked arms the underlying goroutine for generation gen. Must be
// called with t.mu held. The goroutine re-validates gen against the
// timer's current generation before doing anything, so a Pause/Reset/Stop
// that races with an in-flight timer is always safe: the stale goroutine
// observes a generation mismatch and exits without effect.
func (t *Timer) scheduleLocked(d time.Duration, gen uint64) {
	time.AfterFunc(d, func() { t.onDeadline(gen) })
}

// onDeadline runs when the base duration (not counting the grace window)
// elapses. It arms the grace window and, if nothing cancels it in time,
// commits the timeout by invoking onFire.
func (t *Timer) onDeadline(gen uint64) {
	t.mu.Lock()
	if t.generation != gen || t.state != StateRunning {
		t.mu.Unlock()
		return
	}
	t.graceDeadline = t.nowFunc().Add(GraceWindow)
	t.mu.Unlock()
	time.AfterFunc(GraceWindow, func() { t.commit(gen) })
}

// commit runs GraceWindow after onDeadline; if nothing has invalidated gen
// in the meantime (Cancel/Stop/Pause/Reset), the timeout is final.
func (t *Timer) commit(gen uint64) {
	t.mu.Lock()
	if t.generation != gen || t.state != StateRunning {
		t.mu.Unlock()
		return
	}
	t.state = StateTimeout
	t.mu.Unlock()
	t.onFire(t.kind)
}

// WithinGrace reports whether now falls inside the timer's grace window —
// i.e. the base duration has elapsed but the timeout has not yet
// committed. Callers use this to decide whether a late-arriving action
// should still be accepted as on-time.
func (t *Timer) WithinGrace(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == StateRunning && !t.graceDeadline.IsZero() && now.Before(t.graceDeadline)
}
