package phaseshaper

import (
	"math/cmplx"

	"github.com/cwbudde/algo-phaseshaper/dsp/core"
	"github.com/cwbudde/algo-phaseshaper/dsp/filter/biquad"
)

// Response returns the complex response of the whole effect at freqHz,
// including the dry/wet blend: (1-mix) + mix*H^n.
func (c *Chain) Response(freqHz float64) complex128 {
	wet, _ := c.wetResponse(freqHz)

	return complex(1-c.mix, 0) + complex(c.mix, 0)*wet
}

// MagnitudeDB returns the magnitude response in dB at freqHz.
func (c *Chain) MagnitudeDB(freqHz float64) float64 {
	return core.LinearToDB(cmplx.Abs(c.Response(freqHz)))
}

// Phase returns the phase response in radians at freqHz, wrapped to
// [-pi, pi].
func (c *Chain) Phase(freqHz float64) float64 {
	return cmplx.Phase(c.Response(freqHz))
}

// GroupDelay returns the group delay of the blended output in samples.
// It is exact rather than a finite difference; at a perfect cancellation
// (zero response) the result is not finite.
func (c *Chain) GroupDelay(freqHz float64) float64 {
	wet, g := c.wetResponse(freqHz)
	h := complex(1-c.mix, 0) + complex(c.mix, 0)*wet

	return real(complex(c.mix, 0) * wet * g / h)
}

// wetResponse returns the cascade product and the sum of the per-stage
// delay spectra at freqHz.
func (c *Chain) wetResponse(freqHz float64) (h, g complex128) {
	sections := make([]biquad.Coefficients, len(c.stages))
	for i := range c.stages {
		sections[i] = c.stages[i].Coefficients()
		g += sections[i].DelaySpectrum(freqHz, c.sampleRate)
	}

	return biquad.CascadeResponse(sections, freqHz, c.sampleRate), g
}
