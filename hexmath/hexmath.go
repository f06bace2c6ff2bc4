// Package hexmath provides the axial-coordinate and angle math used by the
// interpolation pipeline. Interpolation is a plain linear blend per axis,
// not a hex-metric path; that matches how the server moves units.
package hexmath

import (
	"math"

	"github.com/lixenwraith/arenaview/snapshot"
)

// PositionEpsilon is the axial distance below which two positions are
// treated as identical
const PositionEpsilon = 1e-6

// Lerp blends a toward b by t. t is intentionally unclamped so callers
// can extrapolate past the last known state.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpAxial blends two axial coordinates component-wise
func LerpAxial(a, b snapshot.AxialCoordinate, t float64) snapshot.AxialCoordinate {
	return snapshot.AxialCoordinate{
		Q: Lerp(a.Q, b.Q, t),
		R: Lerp(a.R, b.R, t),
	}
}

// SamePosition reports whether two axial coordinates are within epsilon
func SamePosition(a, b snapshot.AxialCoordinate) bool {
	return math.Abs(a.Q-b.Q) < PositionEpsilon && math.Abs(a.R-b.R) < PositionEpsilon
}

// NormalizeAngle wraps an angle in degrees into [0, 360)
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// MovementAngle returns the screen-space facing in degrees for travel from
// one axial coordinate to another. The r axis grows downward on screen, so
// it is flipped before the atan2.
func MovementAngle(from, to snapshot.AxialCoordinate) float64 {
	dq := to.Q - from.Q
	dr := to.R - from.R
	return NormalizeAngle(math.Atan2(-dr, dq) * 180 / math.Pi)
}

// LerpAngle blends two angles in degrees along the shortest arc, never the
// long way around the wrap point. Result is normalized to [0, 360).
func LerpAngle(a, b, t float64) float64 {
	delta := math.Mod(b-a+540, 360) - 180
	return NormalizeAngle(a + delta*t)
}

// Pointy-top hex layout constants for axial to pixel conversion
const sqrt3 = 1.7320508075688772

// AxialToPixel converts an axial coordinate to pixel space for a pointy-top
// hex layout with the given cell size
func AxialToPixel(c snapshot.AxialCoordinate, size float64) (x, y float64) {
	x = size * (sqrt3*c.Q + sqrt3/2*c.R)
	y = size * (1.5 * c.R)
	return x, y
}
