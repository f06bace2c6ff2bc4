// Package lifecycle tracks unit spawn and despawn across successive
// snapshots. The entity set is periodically replaced wholesale by the
// server, so lifecycle is detected by set-difference over unit ids, not by
// explicit add/remove messages.
package lifecycle

import (
	"github.com/lixenwraith/arenaview/snapshot"
)

// Event carries the full unit snapshot and the tick the change was seen at
type Event struct {
	Unit snapshot.CombatUnit
	Tick int64
}

// Tracker diffs successive entity sets to detect spawns and despawns.
// The first update after construction or Clear establishes a baseline only;
// it never reports spawns, so an initial connect with a full battlefield
// does not fire a mass-spawn.
type Tracker struct {
	hasBaseline bool
	known       map[string]snapshot.CombatUnit
	active      []snapshot.CombatUnit

	spawned   []snapshot.CombatUnit
	despawned []snapshot.CombatUnit

	onSpawn   []func(Event)
	onDespawn []func(Event)
}

// NewTracker creates an empty tracker with no baseline
func NewTracker() *Tracker {
	return &Tracker{
		known: make(map[string]snapshot.CombatUnit),
	}
}

// OnSpawn registers a callback fired synchronously for each spawned unit
func (t *Tracker) OnSpawn(fn func(Event)) {
	t.onSpawn = append(t.onSpawn, fn)
}

// OnDespawn registers a callback fired synchronously for each despawned unit
func (t *Tracker) OnDespawn(fn func(Event)) {
	t.onDespawn = append(t.onDespawn, fn)
}

// UpdateState ingests the next snapshot and recomputes the transient spawn
// and despawn lists. Lists are per-update: each call discards the previous
// call's results. Nil snapshots are tolerated and ignored.
func (t *Tracker) UpdateState(s *snapshot.CombatSnapshot) {
	if s == nil {
		return
	}

	t.spawned = nil
	t.despawned = nil

	next := make(map[string]snapshot.CombatUnit, len(s.Units))
	for _, u := range s.Units {
		next[u.UnitID] = u
	}

	if t.hasBaseline {
		for _, u := range s.Units {
			if _, ok := t.known[u.UnitID]; !ok {
				t.spawned = append(t.spawned, u)
			}
		}
		// Walk the previous ordered roster so despawn order is deterministic
		for _, u := range t.active {
			if _, ok := next[u.UnitID]; !ok {
				t.despawned = append(t.despawned, u)
			}
		}
	}

	t.known = next
	t.active = append(t.active[:0:0], s.Units...)
	t.hasBaseline = true

	for _, u := range t.spawned {
		for _, fn := range t.onSpawn {
			fn(Event{Unit: u, Tick: s.Tick})
		}
	}
	for _, u := range t.despawned {
		for _, fn := range t.onDespawn {
			fn(Event{Unit: u, Tick: s.Tick})
		}
	}
}

// Spawned returns units that appeared in the most recent update
func (t *Tracker) Spawned() []snapshot.CombatUnit {
	return t.spawned
}

// Despawned returns units that disappeared in the most recent update,
// carrying their last known state
func (t *Tracker) Despawned() []snapshot.CombatUnit {
	return t.despawned
}

// ActiveUnits returns the latest snapshot's unit list in snapshot order
func (t *Tracker) ActiveUnits() []snapshot.CombatUnit {
	return t.active
}

// IsActive reports whether a unit id is present in the latest snapshot
func (t *Tracker) IsActive(unitID string) bool {
	_, ok := t.known[unitID]
	return ok
}

// Clear resets the tracker to its pre-first-update state. Registered
// callbacks are kept.
func (t *Tracker) Clear() {
	t.hasBaseline = false
	t.known = make(map[string]snapshot.CombatUnit)
	t.active = nil
	t.spawned = nil
	t.despawned = nil
}
