package statebuffer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/arenaview/clock"
	"github.com/lixenwraith/arenaview/snapshot"
	"github.com/lixenwraith/arenaview/status"
)

func snapAt(tick int64) *snapshot.CombatSnapshot {
	return &snapshot.CombatSnapshot{MatchID: "m1", Tick: tick}
}

func testBuffer(size int) (*Buffer, *clock.MockTimeProvider) {
	mock := clock.NewMockTimeProvider(time.Unix(1000, 0))
	b := NewBuffer(Config{BufferSize: size, Clock: mock})
	return b, mock
}

// TestMonotonicTickAcceptance verifies old ticks are rejected and counted
// while the current tick never decreases
func TestMonotonicTickAcceptance(t *testing.T) {
	b, _ := testBuffer(5)

	assert.True(t, b.AddState(snapAt(1)))
	assert.True(t, b.AddState(snapAt(3)))
	assert.False(t, b.AddState(snapAt(2)), "stale tick must be rejected")
	assert.True(t, b.AddState(snapAt(4)))
	assert.False(t, b.AddState(snapAt(1)))

	require.NotNil(t, b.CurrentState())
	assert.Equal(t, int64(4), b.CurrentState().Tick)

	stats := b.Statistics()
	assert.Equal(t, int64(3), stats.TotalUpdates)
	assert.Equal(t, int64(2), stats.DroppedUpdates)
}

// TestSameTickReplacesNewest verifies same-tick corrections swap the
// payload without growing the buffer
func TestSameTickReplacesNewest(t *testing.T) {
	b, _ := testBuffer(5)

	first := snapAt(7)
	b.AddState(first)

	corrected := snapAt(7)
	corrected.Statistics.TotalDamage = 42
	assert.True(t, b.AddState(corrected))

	assert.Equal(t, 1, b.Len())
	assert.Same(t, corrected, b.CurrentState())
}

// TestFIFOEviction verifies the oldest entry is evicted past capacity
func TestFIFOEviction(t *testing.T) {
	b, _ := testBuffer(3)

	b.AddState(snapAt(1))
	b.AddState(snapAt(2))
	b.AddState(snapAt(3))
	b.AddState(snapAt(4))

	assert.Equal(t, 3, b.Len())
	assert.Equal(t, int64(4), b.CurrentState().Tick)
	assert.Equal(t, int64(3), b.PreviousState().Tick)
	assert.Equal(t, int64(2), b.StateAtOffset(2).Tick)
	assert.Nil(t, b.StateAtOffset(3), "tick 1 must be evicted")
}

// TestLookupsWithInsufficientHistory verifies nil results, not errors
func TestLookupsWithInsufficientHistory(t *testing.T) {
	b, _ := testBuffer(5)

	assert.Nil(t, b.CurrentState())
	assert.Nil(t, b.PreviousState())
	assert.Nil(t, b.StateAtOffset(0))
	assert.Nil(t, b.StateAtOffset(-1))

	b.AddState(snapAt(1))
	assert.NotNil(t, b.CurrentState())
	assert.Nil(t, b.PreviousState())
}

// TestInterpolationFactor verifies the wall-clock to [0,1] mapping with
// clamping at both ends
func TestInterpolationFactor(t *testing.T) {
	b, mock := testBuffer(5)
	start := mock.Now()

	b.AddState(snapAt(1))
	mock.Advance(100 * time.Millisecond)
	b.AddState(snapAt(2))

	assert.InDelta(t, 0.0, b.InterpolationFactor(start), 1e-9)
	assert.InDelta(t, 0.5, b.InterpolationFactor(start.Add(50*time.Millisecond)), 1e-9)
	assert.InDelta(t, 1.0, b.InterpolationFactor(start.Add(100*time.Millisecond)), 1e-9)

	// Clamped outside the span
	assert.InDelta(t, 0.0, b.InterpolationFactor(start.Add(-20*time.Millisecond)), 1e-9)
	assert.InDelta(t, 1.0, b.InterpolationFactor(start.Add(250*time.Millisecond)), 1e-9)
}

// TestInterpolationFactorDegenerateCases verifies the zero-state and
// identical-timestamp guards
func TestInterpolationFactorDegenerateCases(t *testing.T) {
	b, mock := testBuffer(5)

	assert.Zero(t, b.InterpolationFactor(mock.Now()))

	b.AddState(snapAt(1))
	assert.Zero(t, b.InterpolationFactor(mock.Now()), "single state has no span")

	// Second snapshot at the exact same instant: zero span, factor 0
	b.AddState(snapAt(2))
	assert.Zero(t, b.InterpolationFactor(mock.Now().Add(time.Second)))
}

// TestBufferedRenderTime verifies the deliberate render-in-the-past shift
func TestBufferedRenderTime(t *testing.T) {
	mock := clock.NewMockTimeProvider(time.Unix(1000, 0))
	b := NewBuffer(Config{Clock: mock, RenderDelay: 100 * time.Millisecond})

	now := mock.Now()
	assert.Equal(t, now.Add(-100*time.Millisecond), b.BufferedRenderTime(now))
}

// TestStatisticsMeanInterval verifies cadence estimation over the
// timestamp window
func TestStatisticsMeanInterval(t *testing.T) {
	b, mock := testBuffer(5)

	for tick := int64(1); tick <= 4; tick++ {
		b.AddState(snapAt(tick))
		mock.Advance(100 * time.Millisecond)
	}

	stats := b.Statistics()
	assert.Equal(t, int64(4), stats.TotalUpdates)
	assert.Equal(t, 100*time.Millisecond, stats.MeanInterval)
}

// TestMetricsPublishedToRegistry verifies counters land in the shared
// registry under the documented keys
func TestMetricsPublishedToRegistry(t *testing.T) {
	reg := status.NewRegistry()
	b := NewBuffer(Config{Metrics: reg, Clock: clock.NewMockTimeProvider(time.Unix(0, 0))})

	b.AddState(snapAt(5))
	b.AddState(snapAt(3))

	assert.Equal(t, int64(1), reg.Ints.Get("buffer.updates.total").Load())
	assert.Equal(t, int64(1), reg.Ints.Get("buffer.updates.dropped").Load())
}

// TestNilSnapshotRejectedSilently verifies nil input neither counts as a
// drop nor crashes
func TestNilSnapshotRejectedSilently(t *testing.T) {
	b, _ := testBuffer(5)
	assert.False(t, b.AddState(nil))
	assert.Zero(t, b.Statistics().DroppedUpdates)
}

// TestClearKeepsCounters verifies Clear drops history but keeps intake
// counters cumulative
func TestClearKeepsCounters(t *testing.T) {
	b, _ := testBuffer(5)
	b.AddState(snapAt(1))
	b.AddState(snapAt(2))

	b.Clear()
	assert.Zero(t, b.Len())
	assert.Nil(t, b.CurrentState())
	assert.Equal(t, int64(2), b.Statistics().TotalUpdates)

	// Ticks restart after a clear, e.g. on reconnect to a new match
	assert.True(t, b.AddState(snapAt(1)))
}

// TestClearResetsCadenceEstimate verifies the mean interval resets with
// its window while cumulative counters survive
func TestClearResetsCadenceEstimate(t *testing.T) {
	b, mock := testBuffer(5)

	for tick := int64(1); tick <= 3; tick++ {
		b.AddState(snapAt(tick))
		mock.Advance(100 * time.Millisecond)
	}
	require.Equal(t, 100*time.Millisecond, b.Statistics().MeanInterval)

	b.Clear()

	stats := b.Statistics()
	assert.Zero(t, stats.MeanInterval)
	assert.Equal(t, int64(3), stats.TotalUpdates)
}

// TestStatisticsConcurrentWithAddState polls the statistics surface from
// another goroutine while snapshots stream in; the race detector fails
// this test if Statistics touches unguarded buffer state
func TestStatisticsConcurrentWithAddState(t *testing.T) {
	b, mock := testBuffer(5)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				_ = b.Statistics()
			}
		}
	}()

	for tick := int64(1); tick <= 500; tick++ {
		b.AddState(snapAt(tick))
		mock.Advance(time.Millisecond)
	}

	close(stop)
	wg.Wait()

	assert.Equal(t, int64(500), b.Statistics().TotalUpdates)
}
