package core

// EnsureLen returns a slice of length n, reusing buf's backing array when
// its capacity allows. Contents are not cleared.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}

	if cap(buf) >= n {
		return buf[:n]
	}

	return make([]float64, n)
}

// CopyInto copies the common prefix of src into dst and returns its length.
func CopyInto(dst, src []float64) int {
	return copy(dst, src)
}

// BlockLen returns the number of samples a dst/src pair can process:
// the shorter of the two lengths.
func BlockLen(dst, src []float64) int {
	return min(len(dst), len(src))
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	clear(buf)
}
