package model

// Rand is the randomness source for crit, dodge and loot rolls.
// *rand.Rand from math/rand/v2 satisfies it; tests pass scripted fakes.
type Rand interface {
	Float64() float64
	IntN(n int) int
}
