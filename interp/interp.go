// Package interp computes continuously-varying unit transforms between two
// consecutive authoritative snapshots. It is purely functional: positions
// are recomputed from scratch every render tick and never stored.
//
// Despawned units are simply dropped from the result; detecting their
// disappearance is the lifecycle tracker's job, not the interpolator's.
package interp

import (
	"github.com/lixenwraith/arenaview/hexmath"
	"github.com/lixenwraith/arenaview/snapshot"
)

// UnitPosition is one unit's resolved transform for the current render tick
type UnitPosition struct {
	UnitID          string
	Position        snapshot.AxialCoordinate
	FacingDirection float64
	IsMoving        bool
	IsNewlySpawned  bool
}

// InterpolatePositions blends unit transforms between the previous and
// current snapshots by the given factor. The factor is not clamped;
// callers may pass values outside [0,1] and the linear formulas
// extrapolate naturally.
//
// Units absent from the previous snapshot but carrying a deployment
// position distinct from their battle position play a spawn entrance from
// deployment to position; other new units snap directly. prev may be nil,
// in which case every unit is treated as newly seen.
func InterpolatePositions(prev, curr *snapshot.CombatSnapshot, factor float64) []UnitPosition {
	if curr == nil {
		return nil
	}

	result := make([]UnitPosition, 0, len(curr.Units))
	for i := range curr.Units {
		u := &curr.Units[i]
		before, seen := prev.Unit(u.UnitID)
		if !seen {
			result = append(result, enterBattle(u, factor))
			continue
		}
		result = append(result, blend(before, u, factor))
	}
	return result
}

// enterBattle resolves the transform for a unit with no previous state
func enterBattle(u *snapshot.CombatUnit, factor float64) UnitPosition {
	if u.DeploymentPosition != nil && !hexmath.SamePosition(*u.DeploymentPosition, u.Position) {
		from := *u.DeploymentPosition
		return UnitPosition{
			UnitID:          u.UnitID,
			Position:        hexmath.LerpAxial(from, u.Position, factor),
			FacingDirection: hexmath.MovementAngle(from, u.Position),
			IsMoving:        true,
			IsNewlySpawned:  true,
		}
	}

	return UnitPosition{
		UnitID:          u.UnitID,
		Position:        u.Position,
		FacingDirection: hexmath.NormalizeAngle(u.FacingDirection),
		IsMoving:        false,
		IsNewlySpawned:  true,
	}
}

// blend resolves the transform for a unit present in both snapshots
func blend(prev, curr *snapshot.CombatUnit, factor float64) UnitPosition {
	moving := !hexmath.SamePosition(prev.Position, curr.Position)

	var facing float64
	if moving {
		facing = hexmath.MovementAngle(prev.Position, curr.Position)
	} else {
		facing = hexmath.LerpAngle(prev.FacingDirection, curr.FacingDirection, factor)
	}

	return UnitPosition{
		UnitID:          curr.UnitID,
		Position:        hexmath.LerpAxial(prev.Position, curr.Position, factor),
		FacingDirection: facing,
		IsMoving:        moving,
		IsNewlySpawned:  false,
	}
}
