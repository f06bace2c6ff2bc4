// Package statebuffer reconciles the ~10 Hz authoritative snapshot stream
// with the display-rate render loop. It keeps a short rolling history of
// accepted snapshots and derives the interpolation factor from wall-clock
// time against the observed update cadence.
package statebuffer

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/arenaview/clock"
	"github.com/lixenwraith/arenaview/snapshot"
	"github.com/lixenwraith/arenaview/status"
)

const (
	// DefaultBufferSize is the number of snapshots retained
	DefaultBufferSize = 5

	// DefaultRenderDelay is how far in the past BufferedRenderTime renders,
	// trading a fixed slice of latency for smoothness
	DefaultRenderDelay = 100 * time.Millisecond

	// intervalWindow is how many receive timestamps feed the cadence stats
	intervalWindow = 10
)

// BufferedSnapshot pairs a snapshot with its local receive time
type BufferedSnapshot struct {
	Snapshot  *snapshot.CombatSnapshot
	Timestamp time.Time
}

// Statistics summarizes snapshot intake
type Statistics struct {
	TotalUpdates   int64
	DroppedUpdates int64
	MeanInterval   time.Duration
}

// Config tunes a Buffer. Zero values take defaults.
type Config struct {
	BufferSize  int
	RenderDelay time.Duration
	Clock       clock.TimeProvider
	Metrics     *status.Registry
}

// Buffer accepts snapshots in tick order, evicting the oldest entries once
// over capacity. Out-of-order snapshots are rejected and counted, never
// surfaced as errors; a snapshot with the same tick as the newest entry
// replaces it (same-tick correction).
//
// AddState and the state accessors belong to a single ingesting goroutine;
// only Statistics may be read concurrently.
type Buffer struct {
	size        int
	renderDelay time.Duration
	clock       clock.TimeProvider

	entries    []BufferedSnapshot
	timestamps []time.Time

	total   *atomic.Int64
	dropped *atomic.Int64
	meanMS  *status.AtomicFloat
}

// NewBuffer creates a buffer with the given configuration
func NewBuffer(cfg Config) *Buffer {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.RenderDelay <= 0 {
		cfg.RenderDelay = DefaultRenderDelay
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.NewMonotonicTimeProvider()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = status.NewRegistry()
	}
	return &Buffer{
		size:        cfg.BufferSize,
		renderDelay: cfg.RenderDelay,
		clock:       cfg.Clock,
		total:       cfg.Metrics.Ints.Get("buffer.updates.total"),
		dropped:     cfg.Metrics.Ints.Get("buffer.updates.dropped"),
		meanMS:      cfg.Metrics.Floats.Get("buffer.updates.interval"),
	}
}

// AddState ingests a snapshot. Returns true when the snapshot was accepted
// (appended or replaced), false when rejected as out of order. Nil
// snapshots are rejected without counting.
func (b *Buffer) AddState(s *snapshot.CombatSnapshot) bool {
	if s == nil {
		return false
	}

	now := b.clock.Now()

	if last := b.newest(); last != nil {
		if s.Tick < last.Snapshot.Tick {
			b.dropped.Add(1)
			return false
		}
		if s.Tick == last.Snapshot.Tick {
			// Same-tick correction replaces the payload but keeps the
			// original receive time so cadence stats see one update
			last.Snapshot = s
			return true
		}
	}

	b.entries = append(b.entries, BufferedSnapshot{Snapshot: s, Timestamp: now})

	// Ordering is guaranteed by the rejection rule above; keep it anyway
	if n := len(b.entries); n > 1 && b.entries[n-2].Snapshot.Tick > s.Tick {
		sort.SliceStable(b.entries, func(i, j int) bool {
			return b.entries[i].Snapshot.Tick < b.entries[j].Snapshot.Tick
		})
	}

	for len(b.entries) > b.size {
		b.entries = b.entries[1:]
	}

	b.timestamps = append(b.timestamps, now)
	if len(b.timestamps) > intervalWindow {
		b.timestamps = b.timestamps[1:]
	}
	if n := len(b.timestamps); n >= 2 {
		span := b.timestamps[n-1].Sub(b.timestamps[0])
		mean := span / time.Duration(n-1)
		b.meanMS.Set(float64(mean) / float64(time.Millisecond))
	}

	b.total.Add(1)
	return true
}

// CurrentState returns the newest buffered snapshot, or nil when empty
func (b *Buffer) CurrentState() *snapshot.CombatSnapshot {
	if last := b.newest(); last != nil {
		return last.Snapshot
	}
	return nil
}

// PreviousState returns the snapshot before the newest, or nil when fewer
// than two are buffered
func (b *Buffer) PreviousState() *snapshot.CombatSnapshot {
	return b.StateAtOffset(1)
}

// StateAtOffset returns the snapshot n entries behind the newest.
// Offset 0 is the current state; nil when history is insufficient.
func (b *Buffer) StateAtOffset(n int) *snapshot.CombatSnapshot {
	if n < 0 || n >= len(b.entries) {
		return nil
	}
	return b.entries[len(b.entries)-1-n].Snapshot
}

// Len returns the number of buffered snapshots
func (b *Buffer) Len() int {
	return len(b.entries)
}

// InterpolationFactor maps a wall-clock instant onto [0,1] progress
// between the receive times of the previous and current snapshots.
// Returns 0 with fewer than two buffered states or identical timestamps.
func (b *Buffer) InterpolationFactor(wallClock time.Time) float64 {
	n := len(b.entries)
	if n < 2 {
		return 0
	}

	prevTS := b.entries[n-2].Timestamp
	currTS := b.entries[n-1].Timestamp
	span := currTS.Sub(prevTS)
	if span <= 0 {
		return 0
	}

	factor := float64(wallClock.Sub(prevTS)) / float64(span)
	if factor < 0 {
		return 0
	}
	if factor > 1 {
		return 1
	}
	return factor
}

// BufferedRenderTime shifts the given instant into the past by the
// configured render delay, so interpolation works between two snapshots
// that have both already arrived
func (b *Buffer) BufferedRenderTime(now time.Time) time.Time {
	return now.Add(-b.renderDelay)
}

// Statistics reports intake counts and the mean inter-update interval
// over the recent timestamp window. Unlike the state accessors, which
// belong to the ingesting goroutine, this reads only atomics and is safe
// to call from any goroutine.
func (b *Buffer) Statistics() Statistics {
	return Statistics{
		TotalUpdates:   b.total.Load(),
		DroppedUpdates: b.dropped.Load(),
		MeanInterval:   time.Duration(b.meanMS.Get() * float64(time.Millisecond)),
	}
}

// Clear drops all buffered snapshots and cadence timestamps. Counters are
// cumulative and survive; the cadence estimate resets with its window.
func (b *Buffer) Clear() {
	b.entries = nil
	b.timestamps = nil
	b.meanMS.Set(0)
}

func (b *Buffer) newest() *BufferedSnapshot {
	if len(b.entries) == 0 {
		return nil
	}
	return &b.entries[len(b.entries)-1]
}
