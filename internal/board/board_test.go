package board

import (
	"reflect"
	"testing"
)

func TestInBounds(t *testing.T) {
	cases := []struct {
		p    Position
		want bool
	}{
		{Position{0, 0}, true},
		{Position{4, 4}, true},
		{Position{5, 0}, false},
		{Position{0, -1}, false},
		{Position{2, 2}, true},
	}
	for _, c := range cases {
		if got := InBounds(c.p); got != c.want {
			t.Errorf("InBounds(%v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestDistanceManhattan(t *testing.T) {
	if d := Distance(Position{1, 1}, Position{1, 4}); d != 3 {
		t.Errorf("Distance = %d, want 3", d)
	}
	if d := Distance(Position{1, 1}, Position{2, 2}); d != 2 {
		t.Errorf("diagonal Distance = %d, want 2", d)
	}
}

func TestIsOrthogonal(t *testing.T) {
	if !IsOrthogonal(Position{1, 1}, Position{1, 4}) {
		t.Error("expected orthogonal along shared X")
	}
	if IsOrthogonal(Position{1, 1}, Position{2, 2}) {
		t.Error("diagonal should not be orthogonal")
	}
	if IsOrthogonal(Position{1, 1}, Position{1, 1}) {
		t.Error("identical positions should not be orthogonal")
	}
}

func TestAdjacent(t *testing.T) {
	if !Adjacent(Position{2, 2}, Position{2, 3}) {
		t.Error("expected adjacent")
	}
	if Adjacent(Position{2, 2}, Position{3, 3}) {
		t.Error("diagonal should not be adjacent")
	}
}

func TestLine(t *testing.T) {
	got := Line(Position{0, 0}, Position{0, 3})
	want := []Position{{0, 1}, {0, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Line = %v, want %v", got, want)
	}
	if Line(Position{0, 0}, Position{1, 1}) != nil {
		t.Error("expected nil line for non-orthogonal endpoints")
	}
}

func TestArcherRangeBoundary(t *testing.T) {
	// An ARCHER at (1,1) can legally attack (1,4) at range 3, but not (1,5)
	// (off-board) and not (2,2) (diagonal).
	archer := Position{1, 1}
	inRange := Position{1, 4}
	if !IsOrthogonal(archer, inRange) || Distance(archer, inRange) != 3 {
		t.Fatalf("expected orthogonal distance 3 to %v", inRange)
	}
	offBoard := Position{1, 5}
	if InBounds(offBoard) {
		t.Fatal("(1,5) should be off-board")
	}
	diagonal := Position{2, 2}
	if IsOrthogonal(archer, diagonal) {
		t.Fatal("(2,2) from (1,1) should not be orthogonal")
	}
}
