package core

import "math"

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [min, max].
// NaN is mapped to min.
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min || math.IsNaN(value) {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps, using a
// relative comparison for large magnitudes.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// CountFromFloat coerces a control value to a non-negative count.
// Fractions are truncated toward zero, negatives and NaN become 0 and
// +Inf saturates at maxCount.
func CountFromFloat(v float64, maxCount int) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}

	if v >= float64(maxCount) {
		return maxCount
	}

	return int(v)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// WrapPhase maps a phase in radians onto (-pi, pi].
func WrapPhase(phi float64) float64 {
	phi = math.Mod(phi+math.Pi, 2*math.Pi)
	if phi <= 0 {
		phi += 2 * math.Pi
	}

	return phi - math.Pi
}

// UnwrapPhase removes 2*pi discontinuities from phase in place.
func UnwrapPhase(phase []float64) {
	offset := 0.0
	for i := 1; i < len(phase); i++ {
		raw := phase[i] + offset
		diff := raw - phase[i-1]
		for diff > math.Pi {
			offset -= 2 * math.Pi
			diff -= 2 * math.Pi
		}

		for diff < -math.Pi {
			offset += 2 * math.Pi
			diff += 2 * math.Pi
		}

		phase[i] = phase[i-1] + diff
	}
}
