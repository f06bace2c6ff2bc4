package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/arenaview/snapshot"
)

func unitAt(id string, q, r float64) snapshot.CombatUnit {
	return snapshot.CombatUnit{
		UnitID:    id,
		Position:  snapshot.AxialCoordinate{Q: q, R: r},
		Health:    100,
		MaxHealth: 100,
		Status:    snapshot.UnitAlive,
	}
}

func snapOf(tick int64, units ...snapshot.CombatUnit) *snapshot.CombatSnapshot {
	return &snapshot.CombatSnapshot{Tick: tick, Units: units}
}

// TestFactorBoundaries verifies factor 0 reproduces prev, factor 1
// reproduces curr, and 0.5 is the arithmetic midpoint
func TestFactorBoundaries(t *testing.T) {
	prev := snapOf(1, unitAt("u1", 0, 0))
	curr := snapOf(2, unitAt("u1", 4, 2))

	at0 := InterpolatePositions(prev, curr, 0)
	require.Len(t, at0, 1)
	assert.InDelta(t, 0.0, at0[0].Position.Q, 1e-9)
	assert.InDelta(t, 0.0, at0[0].Position.R, 1e-9)

	at1 := InterpolatePositions(prev, curr, 1)
	assert.InDelta(t, 4.0, at1[0].Position.Q, 1e-9)
	assert.InDelta(t, 2.0, at1[0].Position.R, 1e-9)

	mid := InterpolatePositions(prev, curr, 0.5)
	assert.InDelta(t, 2.0, mid[0].Position.Q, 1e-9)
	assert.InDelta(t, 1.0, mid[0].Position.R, 1e-9)
	assert.True(t, mid[0].IsMoving)
	assert.False(t, mid[0].IsNewlySpawned)
}

// TestUnclampedFactorExtrapolates verifies factors outside [0,1] project
// past the known states
func TestUnclampedFactorExtrapolates(t *testing.T) {
	prev := snapOf(1, unitAt("u1", 0, 0))
	curr := snapOf(2, unitAt("u1", 2, 0))

	ahead := InterpolatePositions(prev, curr, 1.5)
	assert.InDelta(t, 3.0, ahead[0].Position.Q, 1e-9)

	behind := InterpolatePositions(prev, curr, -0.5)
	assert.InDelta(t, -1.0, behind[0].Position.Q, 1e-9)
}

// TestSpawnEntranceFromDeployment verifies the spawn-to-battle animation
// from deployment origin toward battle position
func TestSpawnEntranceFromDeployment(t *testing.T) {
	u := unitAt("u1", 4, 0)
	u.DeploymentPosition = &snapshot.AxialCoordinate{Q: 0, R: 0}
	curr := snapOf(1, u)

	got := InterpolatePositions(nil, curr, 0.25)
	require.Len(t, got, 1)
	assert.InDelta(t, 1.0, got[0].Position.Q, 1e-9)
	assert.True(t, got[0].IsMoving)
	assert.True(t, got[0].IsNewlySpawned)
	// Travelling along +q is screen-east
	assert.InDelta(t, 0.0, got[0].FacingDirection, 1e-9)
}

// TestSpawnWithoutDeploymentSnaps verifies new units with no meaningful
// deployment offset appear in place
func TestSpawnWithoutDeploymentSnaps(t *testing.T) {
	u := unitAt("u1", 3, 3)
	u.FacingDirection = 90
	curr := snapOf(1, u)

	got := InterpolatePositions(snapOf(0), curr, 0.5)
	require.Len(t, got, 1)
	assert.InDelta(t, 3.0, got[0].Position.Q, 1e-9)
	assert.InDelta(t, 3.0, got[0].Position.R, 1e-9)
	assert.False(t, got[0].IsMoving)
	assert.True(t, got[0].IsNewlySpawned)
	assert.InDelta(t, 90.0, got[0].FacingDirection, 1e-9)
}

// TestDeploymentEqualToPositionSnaps verifies a deployment position equal
// to the battle position is not an entrance
func TestDeploymentEqualToPositionSnaps(t *testing.T) {
	u := unitAt("u1", 2, 2)
	u.DeploymentPosition = &snapshot.AxialCoordinate{Q: 2, R: 2}
	curr := snapOf(1, u)

	got := InterpolatePositions(nil, curr, 0.5)
	require.Len(t, got, 1)
	assert.False(t, got[0].IsMoving)
	assert.True(t, got[0].IsNewlySpawned)
}

// TestStationaryFacingUsesShortestArc verifies angular interpolation never
// goes the long way around the wrap point
func TestStationaryFacingUsesShortestArc(t *testing.T) {
	p := unitAt("u1", 1, 1)
	p.FacingDirection = 350
	c := unitAt("u1", 1, 1)
	c.FacingDirection = 10

	got := InterpolatePositions(snapOf(1, p), snapOf(2, c), 0.5)
	require.Len(t, got, 1)
	assert.False(t, got[0].IsMoving)
	// Midpoint across the wrap is 0, not 180
	assert.InDelta(t, 0.0, got[0].FacingDirection, 1e-9)
}

// TestMovementFacingIsScreenSpace verifies facing comes from the movement
// vector with the r axis flipped to screen convention
func TestMovementFacingIsScreenSpace(t *testing.T) {
	prev := snapOf(1, unitAt("u1", 0, 0))
	// Moving in +r (downward on screen) faces 270
	curr := snapOf(2, unitAt("u1", 0, 1))

	got := InterpolatePositions(prev, curr, 0.5)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsMoving)
	assert.InDelta(t, 270.0, got[0].FacingDirection, 1e-9)
}

// TestDespawnedUnitsDropped verifies units absent from curr do not appear
func TestDespawnedUnitsDropped(t *testing.T) {
	prev := snapOf(1, unitAt("a", 0, 0), unitAt("b", 1, 1))
	curr := snapOf(2, unitAt("a", 0, 0))

	got := InterpolatePositions(prev, curr, 0.5)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].UnitID)
}

// TestNilCurrentSnapshot verifies a nil current snapshot yields no output
func TestNilCurrentSnapshot(t *testing.T) {
	assert.Nil(t, InterpolatePositions(snapOf(1, unitAt("a", 0, 0)), nil, 0.5))
}
