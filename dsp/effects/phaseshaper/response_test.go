package phaseshaper

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-phaseshaper/dsp/core"
	"github.com/cwbudde/algo-phaseshaper/dsp/filter/biquad"
	"github.com/cwbudde/algo-phaseshaper/internal/testutil"
)

func TestResponseWetIsAllpass(t *testing.T) {
	c := newTestChain(t, 1000, 10, 1, 6)

	for _, f := range []float64{20, 440, 1000, 5000, 18000} {
		if db := c.MagnitudeDB(f); math.Abs(db) > 1e-9 {
			t.Errorf("MagnitudeDB(%v) = %v, want 0", f, db)
		}
	}
}

func TestResponseHalfMixCancelsAtCenter(t *testing.T) {
	c := newTestChain(t, 1000, 10, 0.5, 1)

	if mag := cmplx.Abs(c.Response(1000)); mag > 1e-9 {
		t.Fatalf("|H(f0)| = %g, want 0", mag)
	}

	// Away from the center the blend stays audible.
	if mag := cmplx.Abs(c.Response(100)); mag < 0.5 {
		t.Fatalf("|H(100)| = %g, expected little attenuation", mag)
	}
}

func TestProcessCancelsSineAtCenter(t *testing.T) {
	c := newTestChain(t, 1000, 10, 0.5, 1)

	buf := testutil.DeterministicSine(1000, testSampleRate, 1, 8192)
	c.ProcessInPlace(buf)

	tail := buf[len(buf)-1024:]

	var peak float64
	for _, v := range tail {
		peak = max(peak, math.Abs(v))
	}

	if peak > 1e-6 {
		t.Fatalf("steady-state peak = %g, want cancellation", peak)
	}
}

func TestResponseNoStages(t *testing.T) {
	c := newTestChain(t, 1000, 10, 0.3, 0)

	if h := c.Response(1234); h != 1 {
		t.Fatalf("Response() = %v, want 1", h)
	}
	if gd := c.GroupDelay(1234); gd != 0 {
		t.Fatalf("GroupDelay() = %v, want 0", gd)
	}
}

func TestPhaseMatchesCascade(t *testing.T) {
	c := newTestChain(t, 2000, 3, 1, 2)
	s := c.Stage(0)

	for _, f := range []float64{300, 2000, 7000} {
		want := cmplx.Phase(s.Response(f) * s.Response(f))
		if got := c.Phase(f); math.Abs(got-want) > 1e-12 {
			t.Errorf("Phase(%v) = %v, want %v", f, got, want)
		}
	}
}

func TestGroupDelayMatchesPhaseDerivative(t *testing.T) {
	tests := []struct {
		name   string
		mix    float64
		stages int
	}{
		{"wet-single", 1, 1},
		{"wet-cascade", 1, 4},
		{"blend", 0.7, 3},
	}

	const df = 0.01

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChain(t, 1500, 2, tt.mix, tt.stages)

			for _, f := range []float64{250, 1000, 1500, 4000} {
				dphi := cmplx.Phase(c.Response(f+df) / c.Response(f-df))
				dw := 2 * math.Pi * 2 * df / testSampleRate
				want := -dphi / dw

				got := c.GroupDelay(f)
				if math.Abs(got-want) > 1e-4*math.Max(1, math.Abs(want)) {
					t.Errorf("GroupDelay(%v) = %v, numeric %v", f, got, want)
				}
			}
		})
	}
}

func TestResponseMatchesSectionCascade(t *testing.T) {
	c := newTestChain(t, 1500, 4, 0.8, 3)

	sections := make([]biquad.Coefficients, c.StageCount())
	for i := range sections {
		sections[i] = c.Stage(i).Coefficients()
	}

	for _, f := range []float64{100, 1500, 9000} {
		want := complex(0.2, 0) + complex(0.8, 0)*biquad.CascadeResponse(sections, f, testSampleRate)
		if got := c.Response(f); cmplx.Abs(got-want) > 1e-12 {
			t.Fatalf("Response(%v) = %v, want %v", f, got, want)
		}

		if got, wantDB := c.MagnitudeDB(f), core.LinearToDB(cmplx.Abs(want)); math.Abs(got-wantDB) > 1e-9 {
			t.Fatalf("MagnitudeDB(%v) = %v, want %v", f, got, wantDB)
		}
	}
}

func TestMagnitudeDBAtCancellation(t *testing.T) {
	c := newTestChain(t, 1000, 10, 0.5, 1)

	if db := c.MagnitudeDB(1000); db > -120 {
		t.Fatalf("MagnitudeDB(f0) = %v, want deep notch", db)
	}
}
