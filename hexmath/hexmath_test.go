package hexmath

import (
	"math"
	"testing"

	"github.com/lixenwraith/arenaview/snapshot"
)

// TestNormalizeAngle checks wrapping into [0, 360)
func TestNormalizeAngle(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{450, 90},
		{-720, 0},
		{359.5, 359.5},
	}
	for _, c := range cases {
		if got := NormalizeAngle(c.in); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("NormalizeAngle(%v): expected %v, got %v", c.in, c.want, got)
		}
	}
}

// TestLerpAngleShortestArc checks wraparound-aware angular blending
func TestLerpAngleShortestArc(t *testing.T) {
	cases := []struct {
		a, b, t, want float64
	}{
		{0, 90, 0.5, 45},
		{350, 10, 0.5, 0},
		{10, 350, 0.5, 0},
		{0, 180, 0.5, 90},
		{90, 90, 0.7, 90},
		{350, 10, 0, 350},
		{350, 10, 1, 10},
	}
	for _, c := range cases {
		if got := LerpAngle(c.a, c.b, c.t); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("LerpAngle(%v, %v, %v): expected %v, got %v", c.a, c.b, c.t, c.want, got)
		}
	}
}

// TestMovementAngleScreenConvention checks the r-axis flip
func TestMovementAngleScreenConvention(t *testing.T) {
	origin := snapshot.AxialCoordinate{}
	cases := []struct {
		to   snapshot.AxialCoordinate
		want float64
	}{
		{snapshot.AxialCoordinate{Q: 1, R: 0}, 0},
		{snapshot.AxialCoordinate{Q: 0, R: -1}, 90},
		{snapshot.AxialCoordinate{Q: -1, R: 0}, 180},
		{snapshot.AxialCoordinate{Q: 0, R: 1}, 270},
	}
	for _, c := range cases {
		if got := MovementAngle(origin, c.to); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("MovementAngle to %+v: expected %v, got %v", c.to, c.want, got)
		}
	}
}

// TestLerpAxial checks component-wise blending and extrapolation
func TestLerpAxial(t *testing.T) {
	a := snapshot.AxialCoordinate{Q: 0, R: 0}
	b := snapshot.AxialCoordinate{Q: 4, R: -2}

	mid := LerpAxial(a, b, 0.5)
	if math.Abs(mid.Q-2) > 1e-9 || math.Abs(mid.R+1) > 1e-9 {
		t.Errorf("Expected midpoint (2,-1), got (%v,%v)", mid.Q, mid.R)
	}

	past := LerpAxial(a, b, 2)
	if math.Abs(past.Q-8) > 1e-9 || math.Abs(past.R+4) > 1e-9 {
		t.Errorf("Expected extrapolation (8,-4), got (%v,%v)", past.Q, past.R)
	}
}

// TestAxialToPixel checks the pointy-top layout conversion
func TestAxialToPixel(t *testing.T) {
	x, y := AxialToPixel(snapshot.AxialCoordinate{Q: 0, R: 0}, 10)
	if x != 0 || y != 0 {
		t.Errorf("Expected origin, got (%v,%v)", x, y)
	}

	x, y = AxialToPixel(snapshot.AxialCoordinate{Q: 1, R: 0}, 10)
	if math.Abs(x-10*sqrt3) > 1e-9 || y != 0 {
		t.Errorf("Expected (%v,0), got (%v,%v)", 10*sqrt3, x, y)
	}

	x, y = AxialToPixel(snapshot.AxialCoordinate{Q: 0, R: 1}, 10)
	if math.Abs(x-10*sqrt3/2) > 1e-9 || math.Abs(y-15) > 1e-9 {
		t.Errorf("Expected (%v,15), got (%v,%v)", 10*sqrt3/2, x, y)
	}
}
