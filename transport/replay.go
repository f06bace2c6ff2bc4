package transport

import (
	"context"
	"time"

	"github.com/lixenwraith/arenaview/snapshot"
)

// ReplaySource plays a scripted snapshot sequence on a fixed cadence.
// Used by the demo binary and anywhere a live server is unavailable.
type ReplaySource struct {
	callbacks

	frames   []*snapshot.CombatSnapshot
	interval time.Duration
}

// NewReplaySource creates a source that emits the given snapshots in
// order, one per interval
func NewReplaySource(frames []*snapshot.CombatSnapshot, interval time.Duration) *ReplaySource {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &ReplaySource{
		frames:   frames,
		interval: interval,
	}
}

// Run emits every frame, then the completed notification. Returns early
// on context cancellation.
func (s *ReplaySource) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for _, frame := range s.frames {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.emitSnapshot(frame)
		}
	}

	s.emitCompleted()
	return nil
}
