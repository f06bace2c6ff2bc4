package main

import (
	"time"

	"github.com/lixenwraith/arenaview/hexmath"
	"github.com/lixenwraith/arenaview/snapshot"
)

// scriptedMatch builds the built-in demo battle: two player creatures
// deploy against two enemies, close the distance, trade ranged attacks
// and heals, and finish when the second enemy falls.
func scriptedMatch() []*snapshot.CombatSnapshot {
	start := time.Now().UnixMilli()

	type actor struct {
		unit snapshot.CombatUnit
	}
	units := map[string]*actor{
		"p1": {snapshot.CombatUnit{
			UnitID: "p1", CreatureID: "gnasher", OwnerID: "player",
			Position: axial(0, 2), Health: 120, MaxHealth: 120, Status: snapshot.UnitAlive,
		}},
		"p2": {snapshot.CombatUnit{
			UnitID: "p2", CreatureID: "willow", OwnerID: "player",
			Position: axial(-1, 4), Health: 80, MaxHealth: 80, Status: snapshot.UnitAlive,
		}},
		"e1": {snapshot.CombatUnit{
			UnitID: "e1", CreatureID: "raptor", OwnerID: "enemy",
			Position: axial(8, 2), Health: 100, MaxHealth: 100, Status: snapshot.UnitAlive,
		}},
		"e2": {snapshot.CombatUnit{
			UnitID: "e2", CreatureID: "shade", OwnerID: "enemy",
			Position: axial(9, 4), Health: 90, MaxHealth: 90, Status: snapshot.UnitAlive,
		}},
	}

	alive := func(id string) bool { return units[id].unit.Status == snapshot.UnitAlive }

	stepToward := func(id, targetID string, dist float64) {
		u := &units[id].unit
		t := units[targetID].unit.Position
		if hexmath.SamePosition(u.Position, t) {
			return
		}
		u.FacingDirection = hexmath.MovementAngle(u.Position, t)
		u.Position = hexmath.LerpAxial(u.Position, t, dist)
	}

	damage := func(id string, amount float64) {
		u := &units[id].unit
		u.Health -= amount
		if u.Health <= 0 {
			u.Health = 0
			u.Status = snapshot.UnitDead
			u.CurrentTarget = ""
		}
	}

	var frames []*snapshot.CombatSnapshot
	capture := func(tick int64, status snapshot.MatchStatus, projectiles ...snapshot.ProjectileState) {
		s := &snapshot.CombatSnapshot{
			MatchID:     "demo-match",
			Tick:        tick,
			Status:      status,
			Projectiles: projectiles,
			StartTime:   start,
		}
		for _, id := range []string{"p1", "p2", "e1", "e2"} {
			a := units[id]
			u := a.unit
			if u.ActiveBuffs != nil {
				u.ActiveBuffs = append([]snapshot.Buff(nil), u.ActiveBuffs...)
			}
			if u.ActiveDebuffs != nil {
				u.ActiveDebuffs = append([]snapshot.Debuff(nil), u.ActiveDebuffs...)
			}
			s.Units = append(s.Units, u)
			a.unit.DeploymentPosition = nil
		}
		frames = append(frames, s)
	}

	bolt := func(id string, from, to string) snapshot.ProjectileState {
		return snapshot.ProjectileState{
			ProjectileID:   id,
			SourceUnitID:   from,
			TargetUnitID:   to,
			SourcePosition: units[from].unit.Position,
			TargetPosition: units[to].unit.Position,
		}
	}

	// Deployment: every unit enters from off-field
	for _, id := range []string{"p1", "p2", "e1", "e2"} {
		u := &units[id].unit
		dep := axial(u.Position.Q-2, u.Position.R)
		if u.OwnerID == "enemy" {
			dep = axial(u.Position.Q+2, u.Position.R)
		}
		u.DeploymentPosition = &dep
	}
	capture(1, snapshot.MatchActive)

	var tick int64 = 2

	// Approach phase
	for range 6 {
		stepToward("p1", "e1", 0.25)
		stepToward("e1", "p1", 0.25)
		stepToward("e2", "p2", 0.15)
		capture(tick, snapshot.MatchActive)
		tick++
	}

	// Engagement: melee brawl in the middle, shade sniping the healer
	units["p1"].unit.CurrentTarget = "e1"
	units["e1"].unit.CurrentTarget = "p1"
	units["e2"].unit.CurrentTarget = "p2"
	units["p2"].unit.ActiveBuffs = []snapshot.Buff{{BuffID: "regrowth", Name: "Regrowth", Duration: 4}}
	units["p1"].unit.ActiveDebuffs = []snapshot.Debuff{{DebuffID: "rend", Name: "Rend", Duration: 3}}
	capture(tick, snapshot.MatchActive)
	tick++

	for i := 0; i < 10 && alive("e1"); i++ {
		damage("e1", 14)
		damage("p1", 9)
		if i%2 == 0 && alive("p2") {
			damage("p2", 12)
			units["p1"].unit.Health = min(units["p1"].unit.Health+6, units["p1"].unit.MaxHealth)
		}
		projectiles := []snapshot.ProjectileState{}
		if alive("e2") && alive("p2") {
			projectiles = append(projectiles, bolt("shade-bolt-"+string(rune('a'+i)), "e2", "p2"))
		}
		capture(tick, snapshot.MatchActive, projectiles...)
		tick++
	}

	// Raptor is down; regroup on the shade
	units["p1"].unit.CurrentTarget = "e2"
	units["e2"].unit.CurrentTarget = "p1"
	units["p1"].unit.ActiveDebuffs = nil
	for range 4 {
		stepToward("p1", "e2", 0.3)
		capture(tick, snapshot.MatchActive)
		tick++
	}

	for i := 0; alive("e2"); i++ {
		damage("e2", 18)
		damage("p1", 7)
		capture(tick, snapshot.MatchActive)
		tick++
	}

	// Corpse removal, then the final completed frame
	delete(units, "e1")
	s := frames[len(frames)-1]
	last := &snapshot.CombatSnapshot{
		MatchID:    s.MatchID,
		Tick:       tick,
		Status:     snapshot.MatchCompleted,
		StartTime:  start,
		Statistics: snapshot.MatchStatistics{UnitsLost: 2},
	}
	for _, u := range s.Units {
		if u.UnitID == "e1" {
			continue
		}
		last.Units = append(last.Units, u)
	}
	frames = append(frames, last)

	return frames
}
