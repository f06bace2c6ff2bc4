package view

import "sync/atomic"

// damageNumberPool recycles DamageNumber values so a burst-heavy fight
// does not churn allocations. Entries are keyed by availability, not by
// unit; a released entry may be reused for any unit.
type damageNumberPool struct {
	free   []*DamageNumber
	nextID int64

	acquired *atomic.Int64
	reused   *atomic.Int64
	recycled *atomic.Int64
}

// acquire returns a zeroed DamageNumber with a fresh handle id
func (p *damageNumberPool) acquire() *DamageNumber {
	p.acquired.Add(1)

	var dn *DamageNumber
	if n := len(p.free); n > 0 {
		dn = p.free[n-1]
		p.free = p.free[:n-1]
		p.reused.Add(1)
	} else {
		dn = &DamageNumber{}
	}

	p.nextID++
	*dn = DamageNumber{ID: p.nextID, Opacity: 1}
	return dn
}

// release returns a finished DamageNumber to the pool
func (p *damageNumberPool) release(dn *DamageNumber) {
	p.recycled.Add(1)
	p.free = append(p.free, dn)
}

// drain empties the pool
func (p *damageNumberPool) drain() {
	p.free = nil
}
