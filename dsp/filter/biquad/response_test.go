package biquad

import (
	"math"
	"math/cmplx"
	"testing"
)

const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// lowpassLike is a stable, non-trivial section used across tests.
func lowpassLike() Coefficients {
	return Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
}

// secondOrderAllpass mirrors numerator and denominator.
func secondOrderAllpass(a1, a2 float64) Coefficients {
	return Coefficients{B0: a2, B1: a1, B2: 1, A1: a1, A2: a2}
}

func TestRawNormalize(t *testing.T) {
	r := Raw{A0: 2, A1: -1, A2: 0.5, B0: 0.5, B1: -1, B2: 2}
	got := r.Normalize()
	want := Coefficients{B0: 0.25, B1: -0.5, B2: 1, A1: -0.5, A2: 0.25}
	if got != want {
		t.Fatalf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestMagnitudeSquared_MatchesResponse(t *testing.T) {
	c := lowpassLike()
	sr := 48000.0

	for _, freq := range []float64{100, 500, 1000, 5000, 10000, 20000} {
		h := c.Response(freq, sr)
		fromResponse := real(h)*real(h) + imag(h)*imag(h)
		fromClosed := c.MagnitudeSquared(freq, sr)
		if !almostEqual(fromClosed, fromResponse, 1e-10) {
			t.Errorf("freq=%v: MagnitudeSquared=%.15f, |Response|²=%.15f", freq, fromClosed, fromResponse)
		}
	}
}

func TestMagnitudeDB_MatchesMagnitudeSquared(t *testing.T) {
	c := lowpassLike()
	sr := 48000.0

	for _, freq := range []float64{100, 1000, 10000} {
		db := c.MagnitudeDB(freq, sr)
		fromSq := 10 * math.Log10(c.MagnitudeSquared(freq, sr))
		if !almostEqual(db, fromSq, 1e-12) {
			t.Errorf("freq=%v: MagnitudeDB=%.15f, 10*log10(MagSq)=%.15f", freq, db, fromSq)
		}
	}
}

func TestPhase_MatchesResponse(t *testing.T) {
	c := lowpassLike()
	sr := 48000.0

	for _, freq := range []float64{100, 500, 1000, 5000, 10000} {
		fromResponse := cmplx.Phase(c.Response(freq, sr))
		if got := c.Phase(freq, sr); !almostEqual(got, fromResponse, 1e-12) {
			t.Errorf("freq=%v: Phase=%.15f, arg(Response)=%.15f", freq, got, fromResponse)
		}
	}
}

func TestResponse_Allpass(t *testing.T) {
	c := secondOrderAllpass(-1.2, 0.45)
	sr := 44100.0

	for _, freq := range []float64{20, 100, 1000, 5000, 15000, 22000} {
		if mag := cmplx.Abs(c.Response(freq, sr)); !almostEqual(mag, 1, 1e-10) {
			t.Errorf("freq=%v: |H|=%.15f, want 1", freq, mag)
		}
	}
}

func TestGroupDelay_MatchesPhaseDerivative(t *testing.T) {
	sr := 44100.0

	for _, c := range []Coefficients{lowpassLike(), secondOrderAllpass(-1.6, 0.7)} {
		for _, freq := range []float64{200, 1000, 3000, 9000} {
			const df = 0.01
			p1 := c.Phase(freq-df, sr)
			p2 := c.Phase(freq+df, sr)
			dw := 2 * math.Pi * 2 * df / sr
			numeric := -(p2 - p1) / dw

			if got := c.GroupDelay(freq, sr); !almostEqual(got, numeric, 1e-4) {
				t.Errorf("%+v freq=%v: GroupDelay=%.9f, -dphi/dw=%.9f", c, freq, got, numeric)
			}
		}
	}
}

func TestGroupDelay_PureDelay(t *testing.T) {
	c := Coefficients{B2: 1}
	for _, freq := range []float64{10, 1000, 20000} {
		if got := c.GroupDelay(freq, 48000); !almostEqual(got, 2, eps) {
			t.Fatalf("freq=%v: GroupDelay=%v, want 2", freq, got)
		}
	}
}

func TestCascadeResponse(t *testing.T) {
	sections := []Coefficients{lowpassLike(), secondOrderAllpass(-1.2, 0.45)}
	sr := 48000.0

	for _, freq := range []float64{100, 1000, 10000} {
		ref := sections[0].Response(freq, sr) * sections[1].Response(freq, sr)
		got := CascadeResponse(sections, freq, sr)
		if cmplx.Abs(got-ref) > 1e-12 {
			t.Errorf("freq=%v: cascade=%v, product=%v", freq, got, ref)
		}
	}

	if got := CascadeResponse(nil, 1000, sr); got != 1 {
		t.Fatalf("empty cascade = %v, want 1", got)
	}
}
