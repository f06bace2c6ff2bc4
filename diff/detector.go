// Package diff synthesizes semantic combat events by comparing consecutive
// snapshots. Each event kind is a typed struct collected into a ChangeSet,
// so consumers never switch over a polymorphic payload.
//
// The detector retains only the single last-seen snapshot. No category
// re-emits for a condition that has not changed since the previous call.
package diff

import (
	"github.com/lixenwraith/arenaview/snapshot"
)

// Damage records a unit losing health between two snapshots
type Damage struct {
	UnitID       string
	OldHealth    float64
	NewHealth    float64
	DamageAmount float64
	Tick         int64
}

// Heal records a unit gaining health between two snapshots.
// Healing is naturally capped: the server never reports health above max.
type Heal struct {
	UnitID     string
	OldHealth  float64
	NewHealth  float64
	HealAmount float64
	Tick       int64
}

// Death records a unit transitioning into the dead status, or vanishing
// from the roster entirely (Removed true)
type Death struct {
	UnitID  string
	Unit    snapshot.CombatUnit
	Removed bool
	Tick    int64
}

// BuffChange records a buff or debuff id appearing on or leaving a unit.
// Duration changes on an already-present id are not a re-application.
type BuffChange struct {
	UnitID   string
	EffectID string
	Tick     int64
}

// ProjectileSpawn records a projectile id appearing in the snapshot
type ProjectileSpawn struct {
	ProjectileID   string
	SourceUnitID   string
	TargetUnitID   string
	SourcePosition snapshot.AxialCoordinate
	TargetPosition snapshot.AxialCoordinate
	Tick           int64
}

// ChangeSet is everything detected between two consecutive snapshots.
// Categories are independent; a single tick can populate any combination.
type ChangeSet struct {
	Tick               int64
	Damages            []Damage
	Heals              []Heal
	Deaths             []Death
	BuffsApplied       []BuffChange
	BuffsRemoved       []BuffChange
	DebuffsApplied     []BuffChange
	DebuffsRemoved     []BuffChange
	ProjectilesSpawned []ProjectileSpawn
}

// Empty reports whether no category detected anything
func (c ChangeSet) Empty() bool {
	return len(c.Damages) == 0 && len(c.Heals) == 0 && len(c.Deaths) == 0 &&
		len(c.BuffsApplied) == 0 && len(c.BuffsRemoved) == 0 &&
		len(c.DebuffsApplied) == 0 && len(c.DebuffsRemoved) == 0 &&
		len(c.ProjectilesSpawned) == 0
}

// Detector compares each incoming snapshot against the previous one
type Detector struct {
	last *snapshot.CombatSnapshot
}

// NewDetector creates a detector with no prior snapshot
func NewDetector() *Detector {
	return &Detector{}
}

// Reset forgets the last-seen snapshot; the next call detects nothing
func (d *Detector) Reset() {
	d.last = nil
}

// DetectChanges compares the given snapshot to the last-seen one and
// returns the synthesized events. The first call (and any call with a nil
// snapshot) yields an all-empty set. Damage and heal are only registered
// for units present in both snapshots.
func (d *Detector) DetectChanges(s *snapshot.CombatSnapshot) ChangeSet {
	if s == nil {
		return ChangeSet{}
	}

	changes := ChangeSet{Tick: s.Tick}
	prev := d.last
	d.last = s

	if prev == nil {
		return changes
	}

	for i := range s.Units {
		u := &s.Units[i]
		before, ok := prev.Unit(u.UnitID)
		if !ok {
			continue
		}

		if u.Health < before.Health {
			changes.Damages = append(changes.Damages, Damage{
				UnitID:       u.UnitID,
				OldHealth:    before.Health,
				NewHealth:    u.Health,
				DamageAmount: before.Health - u.Health,
				Tick:         s.Tick,
			})
		} else if u.Health > before.Health {
			changes.Heals = append(changes.Heals, Heal{
				UnitID:     u.UnitID,
				OldHealth:  before.Health,
				NewHealth:  u.Health,
				HealAmount: u.Health - before.Health,
				Tick:       s.Tick,
			})
		}

		if u.Status == snapshot.UnitDead && before.Status != snapshot.UnitDead {
			changes.Deaths = append(changes.Deaths, Death{
				UnitID: u.UnitID,
				Unit:   *u,
				Tick:   s.Tick,
			})
		}

		applied, removed := diffBuffIDs(buffIDs(before.ActiveBuffs), buffIDs(u.ActiveBuffs))
		for _, id := range applied {
			changes.BuffsApplied = append(changes.BuffsApplied, BuffChange{UnitID: u.UnitID, EffectID: id, Tick: s.Tick})
		}
		for _, id := range removed {
			changes.BuffsRemoved = append(changes.BuffsRemoved, BuffChange{UnitID: u.UnitID, EffectID: id, Tick: s.Tick})
		}

		applied, removed = diffBuffIDs(debuffIDs(before.ActiveDebuffs), debuffIDs(u.ActiveDebuffs))
		for _, id := range applied {
			changes.DebuffsApplied = append(changes.DebuffsApplied, BuffChange{UnitID: u.UnitID, EffectID: id, Tick: s.Tick})
		}
		for _, id := range removed {
			changes.DebuffsRemoved = append(changes.DebuffsRemoved, BuffChange{UnitID: u.UnitID, EffectID: id, Tick: s.Tick})
		}
	}

	// A unit removed from the roster is an implicit death, unless it was
	// already reported dead while still present
	current := s.UnitIDs()
	for i := range prev.Units {
		before := &prev.Units[i]
		if _, ok := current[before.UnitID]; ok {
			continue
		}
		if before.Status == snapshot.UnitDead {
			continue
		}
		changes.Deaths = append(changes.Deaths, Death{
			UnitID:  before.UnitID,
			Unit:    *before,
			Removed: true,
			Tick:    s.Tick,
		})
	}

	prevProjectiles := prev.ProjectileIDs()
	for i := range s.Projectiles {
		p := &s.Projectiles[i]
		if _, ok := prevProjectiles[p.ProjectileID]; ok {
			continue
		}
		changes.ProjectilesSpawned = append(changes.ProjectilesSpawned, ProjectileSpawn{
			ProjectileID:   p.ProjectileID,
			SourceUnitID:   p.SourceUnitID,
			TargetUnitID:   p.TargetUnitID,
			SourcePosition: p.SourcePosition,
			TargetPosition: p.TargetPosition,
			Tick:           s.Tick,
		})
	}

	return changes
}

func buffIDs(buffs []snapshot.Buff) []string {
	ids := make([]string, 0, len(buffs))
	for _, b := range buffs {
		ids = append(ids, b.BuffID)
	}
	return ids
}

func debuffIDs(debuffs []snapshot.Debuff) []string {
	ids := make([]string, 0, len(debuffs))
	for _, d := range debuffs {
		ids = append(ids, d.DebuffID)
	}
	return ids
}

// diffBuffIDs returns ids present only in next (applied) and ids present
// only in before (removed), preserving list order
func diffBuffIDs(before, next []string) (applied, removed []string) {
	beforeSet := make(map[string]struct{}, len(before))
	for _, id := range before {
		beforeSet[id] = struct{}{}
	}
	nextSet := make(map[string]struct{}, len(next))
	for _, id := range next {
		nextSet[id] = struct{}{}
	}

	for _, id := range next {
		if _, ok := beforeSet[id]; !ok {
			applied = append(applied, id)
		}
	}
	for _, id := range before {
		if _, ok := nextSet[id]; !ok {
			removed = append(removed, id)
		}
	}
	return applied, removed
}
