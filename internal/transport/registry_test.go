package transport

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

type fakeConn struct {
	closed bool
}

func (f *fakeConn) Send(ctx context.Context, data []byte) error     { return nil }
func (f *fakeConn) Receive(ctx context.Context) ([]byte, error)     { return nil, nil }
func (f *fakeConn) Close() error                                    { f.closed = true; return nil }

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	c := &fakeConn{}
	r.Register("conn-1", "match-1", SlotP1, c)

	b, ok := r.Lookup("conn-1")
	if !ok || b.MatchID != "match-1" || b.Slot != SlotP1 {
		t.Fatalf("unexpected binding: %+v ok=%v", b, ok)
	}
	got, ok := r.ConnFor("match-1", SlotP1)
	if !ok || got != c {
		t.Fatalf("expected ConnFor to return registered conn")
	}
}

func TestReconnectReplacesStaleConnection(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	old := &fakeConn{}
	r.Register("conn-old", "match-1", SlotP1, old)

	newC := &fakeConn{}
	r.Register("conn-new", "match-1", SlotP1, newC)

	if !old.closed {
		t.Fatalf("expected stale connection to be closed on reconnect")
	}
	if _, ok := r.Lookup("conn-old"); ok {
		t.Fatalf("expected stale connectionId to be evicted")
	}
	got, ok := r.ConnFor("match-1", SlotP1)
	if !ok || got != newC {
		t.Fatalf("expected ConnFor to return the replacement connection")
	}
}

func TestUnregisterRemovesBinding(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	c := &fakeConn{}
	r.Register("conn-1", "match-1", SlotP2, c)
	r.Unregister("conn-1")

	if _, ok := r.Lookup("conn-1"); ok {
		t.Fatalf("expected binding to be gone after Unregister")
	}
	if _, ok := r.ConnFor("match-1", SlotP2); ok {
		t.Fatalf("expected ConnFor to miss after Unregister")
	}
}

func TestRemoveMatchDropsBothSlots(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	r.Register("conn-1", "match-1", SlotP1, &fakeConn{})
	r.Register("conn-2", "match-1", SlotP2, &fakeConn{})

	r.RemoveMatch("match-1")

	if _, ok := r.ConnFor("match-1", SlotP1); ok {
		t.Fatalf("expected P1 slot gone after RemoveMatch")
	}
	if _, ok := r.ConnFor("match-1", SlotP2); ok {
		t.Fatalf("expected P2 slot gone after RemoveMatch")
	}
}
