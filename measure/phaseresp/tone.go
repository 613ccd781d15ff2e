package phaseresp

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-phaseshaper/dsp/core"
)

// ToneGain drives p with a sine at freqHz and returns the complex gain
// Y/X at that frequency. The first Size samples let the processor settle;
// the next Size samples are Hann windowed and compared with single-bin
// Goertzel transforms. p is reset before and after.
func (a *Analyzer) ToneGain(p Processor, freqHz float64) (complex128, error) {
	if a.Size < 2 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSize, a.Size)
	}

	if err := core.ValidateSampleRate(a.SampleRate); err != nil {
		return 0, fmt.Errorf("%w: %f", ErrInvalidSampleRate, a.SampleRate)
	}

	if freqHz <= 0 || freqHz >= a.SampleRate/2 || math.IsNaN(freqHz) {
		return 0, fmt.Errorf("%w: %f", ErrInvalidFrequency, freqHz)
	}

	n := a.Size
	w := 2 * math.Pi * freqHz / a.SampleRate

	x := make([]float64, 2*n)
	for i := range x {
		x[i] = math.Sin(w * float64(i))
	}

	y := append([]float64(nil), x...)

	p.Reset()
	p.ProcessInPlace(y)
	p.Reset()

	in := goertzel(x[n:], w)
	if cmplx.Abs(in) == 0 {
		return 0, fmt.Errorf("%w: no energy at %f Hz", ErrInvalidFrequency, freqHz)
	}

	return goertzel(y[n:], w) / in, nil
}

// goertzel returns the Hann-windowed DFT term of x at normalized angular
// frequency w, up to a phase factor common to every call with the same
// length and w.
func goertzel(x []float64, w float64) complex128 {
	coeff := 2 * math.Cos(w)
	denom := float64(len(x) - 1)

	var s1, s2 float64
	for i, v := range x {
		win := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/denom)
		s0 := v*win + coeff*s1 - s2
		s2, s1 = s1, s0
	}

	return complex(s1, 0) - cmplx.Exp(complex(0, -w))*complex(s2, 0)
}
