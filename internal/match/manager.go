package match

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tactics5x5/arena/internal/entity"
	"github.com/tactics5x5/arena/internal/transport"
)

// ErrMatchExists is returned by Manager.Create for a duplicate matchId.
var ErrMatchExists = errors.New("match already exists")

// Manager owns the set of live matches: one goroutine per Match, all
// sharing the single Connection Registry. Per spec.md §5, matches run in
// parallel with each other and strictly serially within themselves; the
// Manager is the only place that coordinates across matches, and only for
// bookkeeping (create/lookup/shutdown), never game state.
type Manager struct {
	registry *transport.Registry
	log      *zap.Logger

	mu      sync.Mutex
	matches map[string]*Match

	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager constructs a Manager bound to ctx; cancelling ctx (or calling
// Shutdown) stops every match's Run loop.
func NewManager(ctx context.Context, registry *transport.Registry, log *zap.Logger) *Manager {
	runCtx, cancel := context.WithCancel(ctx)
	group, runCtx := errgroup.WithContext(runCtx)
	return &Manager{
		registry: registry,
		log:      log,
		matches:  make(map[string]*Match),
		group:    group,
		ctx:      runCtx,
		cancel:   cancel,
	}
}

// Create starts a new match in the DRAFT phase and launches its Run loop.
func (mgr *Manager) Create(id string, p1Class, p2Class entity.HeroClass, seed uint64) (*Match, error) {
	mgr.mu.Lock()
	if _, exists := mgr.matches[id]; exists {
		mgr.mu.Unlock()
		return nil, ErrMatchExists
	}
	m := New(id, p1Class, p2Class, seed, mgr.registry, mgr.log)
	mgr.matches[id] = m
	mgr.mu.Unlock()

	globalMetrics.matchesActive.Inc()
	mgr.group.Go(func() error {
		m.Run(mgr.ctx)
		mgr.mu.Lock()
		delete(mgr.matches, id)
		mgr.mu.Unlock()
		globalMetrics.matchesActive.Dec()
		return nil
	})
	return m, nil
}

// Lookup returns the running match for id, per spec.md §7's "Unknown
// match" routing error when it misses.
func (mgr *Manager) Lookup(id string) (*Match, bool) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	m, ok := mgr.matches[id]
	return m, ok
}

// Dispatch routes a decoded envelope from connectionID to the match it
// names, returning transport.ErrUnknownMatch if no such match is running.
func (mgr *Manager) Dispatch(matchID, connectionID string, env transport.Envelope) error {
	m, ok := mgr.Lookup(matchID)
	if !ok {
		return transport.ErrUnknownMatch
	}
	select {
	case m.Mailbox <- Event{Kind: EventMessageReceived, ConnectionID: connectionID, Envelope: env}:
		return nil
	case <-mgr.ctx.Done():
		return mgr.ctx.Err()
	}
}

// Connect registers connectionID as slot in matchID's match, enqueuing a
// Connected event onto that match's own mailbox.
func (mgr *Manager) Connect(matchID, connectionID string, slot transport.Slot, conn transport.Conn) error {
	m, ok := mgr.Lookup(matchID)
	if !ok {
		return transport.ErrUnknownMatch
	}
	m.Mailbox <- Event{Kind: EventConnected, ConnectionID: connectionID, Slot: slot, Conn: conn}
	return nil
}

// Disconnect notifies matchID's match that connectionID dropped. Unlike
// Connect/Dispatch it does not report ErrUnknownMatch — a disconnect
// racing a match's natural completion is expected, not an error.
func (mgr *Manager) Disconnect(matchID, connectionID string) {
	m, ok := mgr.Lookup(matchID)
	if !ok {
		return
	}
	select {
	case m.Mailbox <- Event{Kind: EventDisconnected, ConnectionID: connectionID}:
	default:
	}
}

// Shutdown cancels every match's Run loop and waits for them to exit.
func (mgr *Manager) Shutdown() error {
	mgr.cancel()
	return mgr.group.Wait()
}
