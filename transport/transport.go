// Package transport delivers authoritative combat snapshots to the view
// pipeline. The pipeline itself only depends on the Source registration
// contract; connection management, reconnect policy and wire formats stay
// on this side of the boundary.
package transport

import (
	"github.com/lixenwraith/arenaview/snapshot"
)

// Source is the subscription surface the view core consumes. Callbacks
// are registered before the source starts delivering; delivery order per
// callback list follows registration order.
type Source interface {
	// OnSnapshot registers a callback for every received combat snapshot
	OnSnapshot(fn func(*snapshot.CombatSnapshot))

	// OnCompleted registers a callback for the terminal combat-completed
	// notification
	OnCompleted(fn func())
}

// callbacks is the shared fan-out used by the source implementations
type callbacks struct {
	onSnapshot  []func(*snapshot.CombatSnapshot)
	onCompleted []func()
}

func (c *callbacks) OnSnapshot(fn func(*snapshot.CombatSnapshot)) {
	c.onSnapshot = append(c.onSnapshot, fn)
}

func (c *callbacks) OnCompleted(fn func()) {
	c.onCompleted = append(c.onCompleted, fn)
}

func (c *callbacks) emitSnapshot(s *snapshot.CombatSnapshot) {
	for _, fn := range c.onSnapshot {
		fn(s)
	}
}

func (c *callbacks) emitCompleted() {
	for _, fn := range c.onCompleted {
		fn()
	}
}
