// Package clock provides injectable time sources. Runtime code uses the
// monotonic provider; tests drive the mock to make interpolation factors
// and timeout sweeps deterministic.
package clock

import (
	"sync/atomic"
	"time"
)

// TimeProvider supplies the current time
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider returns real system time with monotonic readings
type MonotonicTimeProvider struct{}

// NewMonotonicTimeProvider creates a monotonic time provider
func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

// Now returns the current time with monotonic clock reading
func (p *MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}

// MockTimeProvider is a deterministic clock for tests. Time never moves on
// its own: a test repositions it with SetTime or Advance, or arms a step
// so every Now read walks the clock forward by a fixed amount. The instant
// is held in an atomic, so tests may advance it while the code under test
// reads it from another goroutine.
type MockTimeProvider struct {
	nanos atomic.Int64
	step  atomic.Int64
}

// NewMockTimeProvider creates a mock clock positioned at start
func NewMockTimeProvider(start time.Time) *MockTimeProvider {
	m := &MockTimeProvider{}
	m.nanos.Store(start.UnixNano())
	return m
}

// Now returns the mocked instant, then applies the armed step if any
func (m *MockTimeProvider) Now() time.Time {
	t := time.Unix(0, m.nanos.Load())
	if step := m.step.Load(); step != 0 {
		m.nanos.Add(step)
	}
	return t
}

// SetTime repositions the clock to an absolute instant
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.nanos.Store(t.UnixNano())
}

// Advance moves the clock forward by d
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.nanos.Add(int64(d))
}

// SetStep arms an automatic advance applied after every Now read.
// Zero disarms it.
func (m *MockTimeProvider) SetStep(d time.Duration) {
	m.step.Store(int64(d))
}
