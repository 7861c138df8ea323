package allocator

import (
	"fmt"
	"sort"
)

// Ledger tracks the remaining capacity of every center and the mutual
// record of (school, center) allocations over the course of a run. It's
// the only long-lived mutable state of a run, is owned by a single
// goroutine, and is constructed fresh for each run (there is no notion
// of resuming from a prior plan).
type Ledger struct {
	capacity  map[string]int
	remaining map[string]int
	allocated map[string]map[string]int
}

// NewLedger initializes a Ledger from the nominal capacities of
// |centers|.
func NewLedger(centers []Center) *Ledger {
	var l = &Ledger{
		capacity:  make(map[string]int, len(centers)),
		remaining: make(map[string]int, len(centers)),
		allocated: make(map[string]map[string]int),
	}
	for _, c := range centers {
		l.capacity[c.Code] = c.Capacity
		l.remaining[c.Code] = c.Capacity
	}
	return l
}

// Capacity returns the nominal capacity of a center.
func (l *Ledger) Capacity(centerCode string) int { return l.capacity[centerCode] }

// Remaining returns the un-assigned capacity of a center. It's negative
// only where stretch borrowing has pushed a center beyond its nominal
// capacity.
func (l *Ledger) Remaining(centerCode string) int { return l.remaining[centerCode] }

// Consume decrements the remaining capacity of a center. Callers must
// validate |amount| against Remaining first; driving remaining capacity
// below zero is an invariant violation and panics.
func (l *Ledger) Consume(centerCode string, amount int) {
	if next := l.remaining[centerCode] - amount; next < 0 {
		panic(fmt.Sprintf("consume of %d overruns center %s (remaining %d)",
			amount, centerCode, l.remaining[centerCode]))
	} else {
		l.remaining[centerCode] = next
	}
}

// ConsumeStretched decrements the remaining capacity of a center under
// stretch borrowing, which may drive it negative by at most |allowance|
// below zero. Exceeding the allowance is an invariant violation and
// panics.
func (l *Ledger) ConsumeStretched(centerCode string, amount, allowance int) {
	if next := l.remaining[centerCode] - amount; next < -allowance {
		panic(fmt.Sprintf("stretched consume of %d overruns center %s (remaining %d, allowance %d)",
			amount, centerCode, l.remaining[centerCode], allowance))
	} else {
		l.remaining[centerCode] = next
	}
}

// Record stores an allocation of |amount| students of a school to a
// center, and returns true. If the pair was already recorded the call is
// ignored and Record returns false: a pair is written at most once per
// run, and re-attempts (eg, an overlapping candidate set during the
// relaxed pass) are idempotent no-ops.
func (l *Ledger) Record(schoolCode, centerCode string, amount int) bool {
	var m, ok = l.allocated[schoolCode]
	if !ok {
		m = make(map[string]int)
		l.allocated[schoolCode] = m
	}
	if _, ok = m[centerCode]; ok {
		return false
	}
	m[centerCode] = amount
	return true
}

// MergeInto folds |amount| additional students into the existing
// allocation of a (school, center) pair. It's the one sanctioned path
// for growing a recorded pair, used by the fragmentation guard to merge
// sliver allocations into a school's primary center.
func (l *Ledger) MergeInto(schoolCode, centerCode string, amount int) {
	var m, ok = l.allocated[schoolCode]
	if !ok {
		m = make(map[string]int)
		l.allocated[schoolCode] = m
	}
	m[centerCode] += amount
}

// IsAllocated returns whether the (school, center) pair has been
// recorded this run.
func (l *Ledger) IsAllocated(schoolCode, centerCode string) bool {
	var _, ok = l.allocated[schoolCode][centerCode]
	return ok
}

// Allocated returns the recorded allocation of the (school, center)
// pair, or zero.
func (l *Ledger) Allocated(schoolCode, centerCode string) int {
	return l.allocated[schoolCode][centerCode]
}

// TotalAllocated returns the sum of a school's recorded allocations.
func (l *Ledger) TotalAllocated(schoolCode string) int {
	var total int
	for _, n := range l.allocated[schoolCode] {
		total += n
	}
	return total
}

// CenterRemaining is a (center, remaining capacity) pair of the
// end-of-run summary.
type CenterRemaining struct {
	CenterCode string
	Remaining  int
}

// RemainingNonZero returns every center with non-zero remaining
// capacity, ordered by remaining capacity and then center code.
func (l *Ledger) RemainingNonZero() []CenterRemaining {
	var out []CenterRemaining
	for code, n := range l.remaining {
		if n != 0 {
			out = append(out, CenterRemaining{CenterCode: code, Remaining: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Remaining != out[j].Remaining {
			return out[i].Remaining < out[j].Remaining
		}
		return out[i].CenterCode < out[j].CenterCode
	})
	return out
}

// TotalRemaining returns the total remaining capacity across all
// centers.
func (l *Ledger) TotalRemaining() int {
	var total int
	for _, n := range l.remaining {
		total += n
	}
	return total
}
