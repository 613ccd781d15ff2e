// Package testutil provides deterministic signals and slice assertions
// shared by the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// Impulse returns a signal of the given length with a single 1 at pos.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// DeterministicNoise returns seeded uniform noise in [-amplitude, amplitude).
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// DeterministicSine returns amplitude*sin(2*pi*freqHz*n/sampleRate).
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// Clone returns a copy of x.
func Clone(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)

	return out
}

// SplitBlocks cuts x into consecutive sub-slices of the given sizes,
// cycling through sizes until x is exhausted. The sub-slices share x's
// backing array.
func SplitBlocks(x []float64, sizes ...int) [][]float64 {
	if len(sizes) == 0 {
		return [][]float64{x}
	}

	var blocks [][]float64

	for i, off := 0, 0; off < len(x); i++ {
		n := sizes[i%len(sizes)]
		if n <= 0 {
			n = 1
		}

		end := min(off+n, len(x))
		blocks = append(blocks, x[off:end])
		off = end
	}

	return blocks
}
