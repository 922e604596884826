package core

import (
	"errors"
	"testing"
	"time"
)

func testLandmarks() Landmarks {
	return Landmarks{Start: Coord{X: 2, Y: 2}, Goal: Coord{X: 4, Y: 2}, Center: Coord{X: 2, Y: 2}}
}

func TestGridBoundsChecked(t *testing.T) {
	g, err := NewGrid(5, 4, testLandmarks())
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	cases := []Coord{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 5, Y: 0}, {X: 0, Y: 4}}
	for _, c := range cases {
		if _, err := g.Get(c.X, c.Y); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("Get%v: expected ErrOutOfBounds, got %v", c, err)
		}
		if err := g.Set(c.X, c.Y, Wall); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("Set%v: expected ErrOutOfBounds, got %v", c, err)
		}
		if g.Traversable(c) {
			t.Fatalf("out-of-bounds %v must not be traversable", c)
		}
	}
	if err := g.Set(4, 3, StructuralWall); err != nil {
		t.Fatalf("Set in bounds: %v", err)
	}
	if got, _ := g.Get(4, 3); got != StructuralWall {
		t.Fatalf("expected structural wall at (4,3), got %v", got)
	}
	if got := g.Cells()[g.Index(4, 3)]; got != StructuralWall {
		t.Fatalf("row-major index mismatch: %v", got)
	}
	if c := g.Coord(g.Index(3, 2)); c != (Coord{X: 3, Y: 2}) {
		t.Fatalf("Coord(Index(3,2)) = %v", c)
	}
}

func TestNewGridRejectsLandmarksOutside(t *testing.T) {
	lm := testLandmarks()
	lm.Goal = Coord{X: 9, Y: 9}
	if _, err := NewGrid(5, 5, lm); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds for goal outside grid, got %v", err)
	}
	if _, err := NewGrid(0, 5, testLandmarks()); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestCellStateTraversable(t *testing.T) {
	want := map[CellState]bool{Open: true, Meadow: true, Wall: false, StructuralWall: false}
	for s, ok := range want {
		if s.Traversable() != ok {
			t.Fatalf("%v traversable=%v, expected %v", s, s.Traversable(), ok)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g, _ := NewGrid(3, 3, Landmarks{})
	g.Fill(Wall)
	cp := g.Clone()
	_ = cp.Set(1, 1, Open)
	if got, _ := g.Get(1, 1); got != Wall {
		t.Fatal("mutating a clone must not touch the source grid")
	}
	if err := g.CopyFrom(cp); err != nil {
		t.Fatalf("CopyFrom: %v", err)
	}
	if got, _ := g.Get(1, 1); got != Open {
		t.Fatal("CopyFrom did not copy cells")
	}
	if g.Count(Wall) != 8 {
		t.Fatalf("expected 8 walls, got %d", g.Count(Wall))
	}
	if d := g.WallDensity(); d < 0.88 || d > 0.89 {
		t.Fatalf("wall density %f, expected 8/9", d)
	}
}

func TestIntervalDropsMissedPeriods(t *testing.T) {
	iv := NewInterval(2 * time.Second)
	if iv.Advance(1500 * time.Millisecond) {
		t.Fatal("interval fired early")
	}
	if !iv.Advance(500 * time.Millisecond) {
		t.Fatal("interval should fire once the period has elapsed")
	}
	// A long stall fires once and the skew is lost.
	if !iv.Advance(7 * time.Second) {
		t.Fatal("interval should fire after a stall")
	}
	if iv.Advance(1900 * time.Millisecond) {
		t.Fatal("missed periods must not be caught up")
	}
	if !iv.Advance(100 * time.Millisecond) {
		t.Fatal("expected fire one period after the stall")
	}
	if iv.Now() != 11*time.Second {
		t.Fatalf("clock reads %v", iv.Now())
	}
}

func TestRNGDeterministic(t *testing.T) {
	a, b := NewRNG(7), NewRNG(7)
	for i := 0; i < 32; i++ {
		if a.IntN(100) != b.IntN(100) {
			t.Fatal("equal seeds must produce equal streams")
		}
	}
	if a.Chance(0) || !a.Chance(1) {
		t.Fatal("Chance must honour the 0 and 1 limits")
	}
	a.Reseed(7)
	c := NewRNG(7)
	if a.Float64() != c.Float64() {
		t.Fatal("Reseed must restart the stream")
	}
}
