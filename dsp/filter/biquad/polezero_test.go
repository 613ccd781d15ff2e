package biquad

import (
	"math/cmplx"
	"testing"
)

func TestCoefficientsPoleZeroPair_SecondOrder(t *testing.T) {
	p1 := complex(0.72, 0.19)
	p2 := cmplx.Conj(p1)
	z1 := complex(0.31, 0.44)
	z2 := cmplx.Conj(z1)

	b0 := 2.3
	c := Coefficients{
		B0: b0,
		B1: -b0 * real(z1+z2),
		B2: b0 * real(z1*z2),
		A1: -real(p1 + p2),
		A2: real(p1 * p2),
	}

	pair := c.PoleZeroPair()
	if !unorderedRootsClose(pair.Poles, p1, p2, 1e-12) {
		t.Fatalf("unexpected poles: got=%v want={%v,%v}", pair.Poles, p1, p2)
	}
	if !unorderedRootsClose(pair.Zeros, z1, z2, 1e-12) {
		t.Fatalf("unexpected zeros: got=%v want={%v,%v}", pair.Zeros, z1, z2)
	}
}

func TestAllpassZerosMirrorPoles(t *testing.T) {
	c := secondOrderAllpass(-1.2, 0.45)
	poles := c.Poles()
	zeros := c.Zeros()

	// Allpass zeros are the conjugate reciprocals of the poles.
	if !unorderedRootsClose(zeros, 1/cmplx.Conj(poles[0]), 1/cmplx.Conj(poles[1]), 1e-10) {
		t.Fatalf("zeros %v are not reciprocal to poles %v", zeros, poles)
	}
}

func TestIsStable(t *testing.T) {
	stable := lowpassLike()
	if !stable.IsStable() {
		t.Fatal("lowpassLike should be stable")
	}

	unstable := Coefficients{B0: 1, A1: -2.5, A2: 1.2}
	if unstable.IsStable() {
		t.Fatal("poles outside unit circle reported stable")
	}
}

func unorderedRootsClose(got [2]complex128, want0, want1 complex128, tol float64) bool {
	direct := cmplx.Abs(got[0]-want0) <= tol && cmplx.Abs(got[1]-want1) <= tol
	swapped := cmplx.Abs(got[0]-want1) <= tol && cmplx.Abs(got[1]-want0) <= tol

	return direct || swapped
}
