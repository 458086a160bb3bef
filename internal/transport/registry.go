package transport

import (
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Slot identifies which side of a match a connection speaks for.
type Slot string

const (
	SlotP1 Slot = "P1"
	SlotP2 Slot = "P2"
)

// Binding is the registry's value type: which match and slot a connection
// is currently attached to.
type Binding struct {
	MatchID string
	Slot    Slot
	Conn    Conn
}

// Registry is the "small map with atomic operations" spec.md §9 calls the
// sole cross-cutting shared state between matches: connectionId →
// (matchId, slot). A later Register for the same (matchId, slot) replaces
// whatever connection previously held it — the reconnect-replace semantics
// spec.md §7 describes for a dropped-then-resumed player.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]Binding
	// bySlot indexes the reverse direction so a reconnect for the same
	// (matchId, slot) can find and evict the stale connectionId.
	bySlot map[string]string // matchID+"/"+slot -> connectionID
	log    *zap.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		byID:   make(map[string]Binding),
		bySlot: make(map[string]string),
		log:    log,
	}
}

func slotKey(matchID string, slot Slot) string {
	return matchID + "/" + string(slot)
}

// Register attaches connectionID to (matchID, slot), evicting and closing
// any prior connection already bound to that slot.
func (r *Registry) Register(connectionID, matchID string, slot Slot, conn Conn) {
	r.mu.Lock()
	key := slotKey(matchID, slot)
	if prevID, ok := r.bySlot[key]; ok && prevID != connectionID {
		if prev, ok := r.byID[prevID]; ok {
			r.log.Info("replacing stale connection on reconnect",
				zap.String("matchId", matchID), zap.String("slot", string(slot)))
			delete(r.byID, prevID)
			_ = prev.Conn.Close()
		}
	}
	r.byID[connectionID] = Binding{MatchID: matchID, Slot: slot, Conn: conn}
	r.bySlot[key] = connectionID
	r.mu.Unlock()
}

// Unregister removes connectionID, e.g. on a Disconnected event. It is a
// no-op if the id is unknown (the connection was already replaced).
func (r *Registry) Unregister(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[connectionID]
	if !ok {
		return
	}
	delete(r.byID, connectionID)
	if r.bySlot[slotKey(b.MatchID, b.Slot)] == connectionID {
		delete(r.bySlot, slotKey(b.MatchID, b.Slot))
	}
}

// Lookup returns the binding for connectionID.
func (r *Registry) Lookup(connectionID string) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byID[connectionID]
	return b, ok
}

// ConnFor returns the current connection bound to (matchID, slot), if any —
// used by the broadcaster to find the live socket for a player regardless
// of which connectionId currently holds it.
func (r *Registry) ConnFor(matchID string, slot Slot) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bySlot[slotKey(matchID, slot)]
	if !ok {
		return nil, false
	}
	b, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return b.Conn, true
}

// Shutdown closes every live connection concurrently and empties the
// registry, used by cmd/server on process shutdown once the Match Manager
// has stopped accepting new work.
func (r *Registry) Shutdown() error {
	r.mu.Lock()
	conns := make([]Conn, 0, len(r.byID))
	for _, b := range r.byID {
		conns = append(conns, b.Conn)
	}
	r.byID = make(map[string]Binding)
	r.bySlot = make(map[string]string)
	r.mu.Unlock()

	var g errgroup.Group
	for _, c := range conns {
		c := c
		g.Go(func() error { return c.Close() })
	}
	return g.Wait()
}

// RemoveMatch drops every binding for matchID, used when a match ends and
// is cleaned up.
func (r *Registry) RemoveMatch(matchID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, slot := range []Slot{SlotP1, SlotP2} {
		key := slotKey(matchID, slot)
		if id, ok := r.bySlot[key]; ok {
			delete(r.byID, id)
			delete(r.bySlot, key)
		}
	}
}
