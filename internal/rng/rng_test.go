package rng

import "testing"

func TestDeterministicReplay(t *testing.T) {
	s1 := New(42)
	s2 := New(42)

	var out1, out2 []int
	for i := 0; i < 50; i++ {
		var v int
		v, s1 = s1.NextInt(6)
		out1 = append(out1, v)
		v, s2 = s2.NextInt(6)
		out2 = append(out2, v)
	}
	for i := range out1 {
		if out1[i] != out2[i] {
			t.Fatalf("draw %d diverged: %d vs %d", i, out1[i], out2[i])
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	s1 := New(1)
	s2 := New(2)
	v1, _ := s1.NextInt(1000000)
	v2, _ := s2.NextInt(1000000)
	if v1 == v2 {
		t.Skip("low-probability collision, not a failure by itself")
	}
}

func TestNextIntBoundsRespected(t *testing.T) {
	s := New(7)
	for i := 0; i < 1000; i++ {
		var v int
		v, s = s.NextInt(6)
		if v < 0 || v >= 6 {
			t.Fatalf("draw out of bounds: %d", v)
		}
	}
}

func TestZeroBoundIsNoop(t *testing.T) {
	s := New(9)
	v, s2 := s.NextInt(0)
	if v != 0 {
		t.Fatalf("expected 0, got %d", v)
	}
	if s2 != s {
		t.Fatal("state should be unchanged for zero bound")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	s := New(123)
	_, s = s.NextInt(10)
	_, s = s.NextInt(10)
	reloaded := Load(s.Seed())
	if reloaded != s {
		t.Fatal("Load(Seed()) should reconstruct identical state")
	}
}
