package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/arenaview/snapshot"
)

// TestReplayEmitsFramesInOrderThenCompletes verifies the Source contract
// end to end without a server
func TestReplayEmitsFramesInOrderThenCompletes(t *testing.T) {
	frames := []*snapshot.CombatSnapshot{
		{MatchID: "m1", Tick: 1},
		{MatchID: "m1", Tick: 2},
		{MatchID: "m1", Tick: 3},
	}
	src := NewReplaySource(frames, time.Millisecond)

	var ticks []int64
	completed := 0
	src.OnSnapshot(func(s *snapshot.CombatSnapshot) { ticks = append(ticks, s.Tick) })
	src.OnCompleted(func() { completed++ })

	err := src.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, ticks)
	assert.Equal(t, 1, completed)
}

// TestReplayCancellation verifies the context stops delivery before the
// completed notification
func TestReplayCancellation(t *testing.T) {
	frames := []*snapshot.CombatSnapshot{{Tick: 1}, {Tick: 2}}
	src := NewReplaySource(frames, time.Hour)

	completed := 0
	src.OnCompleted(func() { completed++ })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := src.Run(ctx)
	assert.Error(t, err)
	assert.Zero(t, completed)
}

// TestMultipleSnapshotCallbacks verifies registration-order fan-out
func TestMultipleSnapshotCallbacks(t *testing.T) {
	src := NewReplaySource([]*snapshot.CombatSnapshot{{Tick: 1}}, time.Millisecond)

	var order []string
	src.OnSnapshot(func(*snapshot.CombatSnapshot) { order = append(order, "first") })
	src.OnSnapshot(func(*snapshot.CombatSnapshot) { order = append(order, "second") })

	require.NoError(t, src.Run(context.Background()))
	assert.Equal(t, []string{"first", "second"}, order)
}
