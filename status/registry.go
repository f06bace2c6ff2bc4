package status

import (
	"math"
	"sync/atomic"
)

// Registry is the central metrics facade.
// Well-known keys used by this module:
//
//	buffer.updates.total     accepted snapshots
//	buffer.updates.dropped   out-of-order snapshots rejected
//	buffer.updates.interval  mean inter-update interval, milliseconds
//	pool.damage.acquired     damage numbers taken from the pool
//	pool.damage.reused       acquisitions served by a recycled entry
//	pool.damage.recycled     damage numbers returned to the pool
//	view.frames              render frames executed
//	view.snapshots           snapshot-path executions
//	view.running             loop goroutine is live
//	view.damage.shown        summed damage displayed as numbers
//	view.healing.shown       summed healing displayed as numbers
type Registry struct {
	Bools  *MetricMap[atomic.Bool]
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:  NewMetricMap[atomic.Bool](),
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count()
}

// AtomicFloat provides atomic float64 operations using bit conversion
// Zero value is ready to use (represents 0.0)
type AtomicFloat struct {
	bits atomic.Uint64
}

// Set stores a float64 value atomically
func (f *AtomicFloat) Set(val float64) {
	f.bits.Store(math.Float64bits(val))
}

// Get loads the float64 value atomically
func (f *AtomicFloat) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Add atomically adds delta to the current value and returns the new value
func (f *AtomicFloat) Add(delta float64) float64 {
	for {
		old := f.bits.Load()
		newVal := math.Float64frombits(old) + delta
		if f.bits.CompareAndSwap(old, math.Float64bits(newVal)) {
			return newVal
		}
	}
}
