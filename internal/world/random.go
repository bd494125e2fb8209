package world

import (
	"hash/fnv"
	"math"
)

const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
)

// DeterministicSeedValue hashes a root seed and a subsystem label into a
// non-zero numeric seed. Two simulations sharing the root seed derive the same
// value for the same label.
func DeterministicSeedValue(rootSeed, label string) uint32 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	folded := uint32(sum) ^ uint32(sum>>32)
	if folded == 0 {
		folded = 1
	}
	return folded
}

// LCG is the 32-bit linear congruential generator every procedural decision
// in a world is drawn from. It is deliberately tiny so remote simulations can
// reproduce the same stream from the same seed.
type LCG struct {
	state uint32
}

// NewLCG seeds a generator.
func NewLCG(seed uint32) *LCG {
	return &LCG{state: seed}
}

// NewDeterministicRNG returns the generator for a labelled subsystem.
func NewDeterministicRNG(rootSeed, label string) *LCG {
	return NewLCG(DeterministicSeedValue(rootSeed, label))
}

// Uint32 advances the generator.
func (g *LCG) Uint32() uint32 {
	g.state = g.state*lcgMultiplier + lcgIncrement
	return g.state
}

// Float64 returns a value in [0, 1).
func (g *LCG) Float64() float64 {
	return float64(g.Uint32()) / 4294967296.0
}

// Range returns a value in [min, max).
func (g *LCG) Range(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + g.Float64()*(max-min)
}

// Intn returns a value in [0, n). n <= 0 yields 0.
func (g *LCG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(g.Float64() * float64(n))
}

// Angle returns a value in [0, 2π).
func (g *LCG) Angle() float64 {
	return g.Float64() * 2 * math.Pi
}

// Chance reports true with probability p.
func (g *LCG) Chance(p float64) bool {
	return g.Float64() < p
}
