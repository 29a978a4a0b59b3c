// Package proptest provides property-based testing utilities with seeded
// random generation for reproducible tests.
//
// Property-based testing generates random inputs and verifies that certain
// invariants (properties) always hold. When a test fails, the seed is logged
// so the failure can be reproduced.
//
// Basic usage:
//
//	func TestMyProperty(t *testing.T) {
//	    proptest.QuickCheck(t, "my property", func(g *proptest.Generator) bool {
//	        n := g.IntRange(1, 100)
//	        return n >= 1 && n <= 100
//	    })
//	}
package proptest

import (
	"math/rand"
	"testing"
	"time"
)

// Generator wraps a seeded random number generator for reproducible
// random value generation. The seed is stored so it can be logged
// on test failure for reproducibility.
type Generator struct {
	rng  *rand.Rand
	seed int64
}

// New creates a new Generator with the given seed.
// If seed is 0, uses the current time as the seed.
func New(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the seed used by this generator.
// This is useful for logging on test failure so the failure can be reproduced.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Intn returns a random int in [0, n).
// Panics if n <= 0.
func (g *Generator) Intn(n int) int {
	return g.rng.Intn(n)
}

// Int63n returns a random int64 in [0, n).
// Panics if n <= 0.
func (g *Generator) Int63n(n int64) int64 {
	return g.rng.Int63n(n)
}

// IntRange returns a random int in [min, max], inclusive on both ends.
// Panics if min > max.
func (g *Generator) IntRange(min, max int) int {
	if min > max {
		panic("proptest: IntRange min > max")
	}
	return min + g.rng.Intn(max-min+1)
}

// Int64Range returns a random int64 in [min, max], inclusive on both ends.
// Panics if min > max.
func (g *Generator) Int64Range(min, max int64) int64 {
	if min > max {
		panic("proptest: Int64Range min > max")
	}
	return min + g.rng.Int63n(max-min+1)
}

// Float64 returns a random float64 in [0.0, 1.0).
func (g *Generator) Float64() float64 {
	return g.rng.Float64()
}

// Bool returns a random boolean with 50% probability for each value.
func (g *Generator) Bool() bool {
	return g.rng.Intn(2) == 1
}

// BoolWithProb returns true with the given probability (0.0 to 1.0).
func (g *Generator) BoolWithProb(prob float64) bool {
	return g.rng.Float64() < prob
}

const printable = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 _-.%"

// String returns a random printable string of length [0, maxLen].
func (g *Generator) String(maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	n := g.rng.Intn(maxLen + 1)
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = printable[g.rng.Intn(len(printable))]
	}
	return string(buf)
}

const identHead = "abcdefghijklmnopqrstuvwxyz"
const identTail = "abcdefghijklmnopqrstuvwxyz0123456789_"

// IdentifierLower returns a random lowercase identifier of length [1, maxLen]:
// a letter followed by letters, digits, and underscores.
func (g *Generator) IdentifierLower(maxLen int) string {
	if maxLen < 1 {
		maxLen = 1
	}
	n := 1 + g.rng.Intn(maxLen)
	buf := make([]byte, n)
	buf[0] = identHead[g.rng.Intn(len(identHead))]
	for i := 1; i < n; i++ {
		buf[i] = identTail[g.rng.Intn(len(identTail))]
	}
	return string(buf)
}

// defaultIterations is how many times QuickCheck exercises a property.
const defaultIterations = 200

// QuickCheck runs the property defaultIterations times as a subtest, failing
// with the generator seed if any run falsifies it.
func QuickCheck(t *testing.T, name string, prop func(*Generator) bool) {
	t.Helper()
	Check(t, name, defaultIterations, prop)
}

// Check is QuickCheck with an explicit iteration count.
func Check(t *testing.T, name string, iterations int, prop func(*Generator) bool) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		seed := time.Now().UnixNano()
		g := New(seed)
		for i := 0; i < iterations; i++ {
			if !prop(g) {
				t.Fatalf("property falsified at iteration %d (seed %d)", i, seed)
			}
		}
	})
}
