package testutil

import (
	"math/rand/v2"
	"sync"
)

// SeqRand is a scripted random source. Float64 returns the queued values in
// order and falls back to Fallback once they run out. IntN returns queued
// ints modulo n, then 0.
type SeqRand struct {
	mu       sync.Mutex
	floats   []float64
	ints     []int
	Fallback float64
}

// NewSeqRand returns a SeqRand that yields floats in order, then 0.99
// (no crit, no dodge, no drop).
func NewSeqRand(floats ...float64) *SeqRand {
	return &SeqRand{floats: floats, Fallback: 0.99}
}

// PushFloats queues more Float64 results.
func (r *SeqRand) PushFloats(v ...float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.floats = append(r.floats, v...)
}

// PushInts queues IntN results.
func (r *SeqRand) PushInts(v ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ints = append(r.ints, v...)
}

// Remaining returns how many scripted floats are left.
func (r *SeqRand) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.floats)
}

func (r *SeqRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.floats) == 0 {
		return r.Fallback
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *SeqRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

// NewRand returns a seeded PCG generator for property-style tests.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
