// Package storage implements the slot array backing a sieve instance.
//
// One cell is kept per tracked odd integer: slot j (1-indexed) represents
// 2j+1. Even numbers and the prime 2 are never stored. A cell holds exactly
// one of two values, Candidate or Composite; there is no third state.
package storage

import "fmt"

// Cell values. Candidate is the zero value so a fresh or cleared array is
// all-candidate without further initialization.
const (
	Candidate uint8 = 0
	Composite uint8 = 1
)

// Size returns the number of slots needed to track the odd integers in
// [3, rang], i.e. floor((rang-1)/2). Callers enforce rang >= 3.
func Size(rang uint64) uint64 {
	return (rang - 1) / 2
}

// Array is a fixed-size slot array owned by exactly one sieve instance.
// It is sized once at creation and never resized or shared.
type Array struct {
	slots []uint8
}

// New allocates a zero-initialized (all-candidate) array for the given range.
func New(rang uint64) *Array {
	return &Array{slots: make([]uint8, Size(rang))}
}

// FromSlots wraps an existing slot buffer, taking ownership of it.
// Used when restoring an instance from a snapshot.
func FromSlots(slots []uint8) *Array {
	return &Array{slots: slots}
}

// Len returns the number of slots.
func (a *Array) Len() uint64 {
	return uint64(len(a.slots))
}

// Get returns the cell value at slot j, 1 <= j <= Len().
func (a *Array) Get(j uint64) uint8 {
	a.check(j)
	return a.slots[j-1]
}

// Mark sets slot j to Composite, 1 <= j <= Len().
func (a *Array) Mark(j uint64) {
	a.check(j)
	a.slots[j-1] = Composite
}

// ClearAll returns every slot to Candidate.
func (a *Array) ClearAll() {
	clear(a.slots)
}

// Slots exposes the raw cell buffer for serialization.
// The buffer remains owned by the array.
func (a *Array) Slots() []uint8 {
	return a.slots
}

// check panics on an out-of-range slot index. Index arithmetic errors are
// invariant violations, not recoverable conditions.
func (a *Array) check(j uint64) {
	if j < 1 || j > uint64(len(a.slots)) {
		panic(fmt.Sprintf("storage: slot index %d out of range [1, %d]", j, len(a.slots)))
	}
}
