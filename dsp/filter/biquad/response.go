package biquad

import (
	"math"
	"math/cmplx"
)

// Response computes the complex frequency response H(e^jw) of a biquad
// at the given frequency (Hz) and sample rate (Hz).
func (c *Coefficients) Response(freqHz, sampleRate float64) complex128 {
	ejw, ej2w := unitDelays(freqHz, sampleRate)

	num := complex(c.B0, 0) + complex(c.B1, 0)*ejw + complex(c.B2, 0)*ej2w
	den := complex(1, 0) + complex(c.A1, 0)*ejw + complex(c.A2, 0)*ej2w

	return num / den
}

// MagnitudeSquared returns |H(f)|^2 using a closed-form expression.
func (c *Coefficients) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	cw := 2 * math.Cos(2*math.Pi*freqHz/sampleRate)
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	num := (b0-b2)*(b0-b2) + b1*b1 + (b1*(b0+b2)+b0*b2*cw)*cw
	den := (1-a2)*(1-a2) + a1*a1 + (a1*(a2+1)+cw*a2)*cw

	return num / den
}

// MagnitudeDB returns 10*log10(|H(f)|^2).
func (c *Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 10 * math.Log10(c.MagnitudeSquared(freqHz, sampleRate))
}

// Phase returns the phase response in radians at the given frequency,
// wrapped to [-pi, pi].
func (c *Coefficients) Phase(freqHz, sampleRate float64) float64 {
	return cmplx.Phase(c.Response(freqHz, sampleRate))
}

// DelaySpectrum returns the complex logarithmic derivative term g(w) of the
// section, defined by dH/dw = -j*g(w)*H(w). Its real part is the group
// delay in samples; cascades add their g terms.
func (c *Coefficients) DelaySpectrum(freqHz, sampleRate float64) complex128 {
	ejw, ej2w := unitDelays(freqHz, sampleRate)

	return polyDelay(complex(c.B0, 0), complex(c.B1, 0), complex(c.B2, 0), ejw, ej2w) -
		polyDelay(1, complex(c.A1, 0), complex(c.A2, 0), ejw, ej2w)
}

// GroupDelay returns the group delay -dphi/dw in samples.
func (c *Coefficients) GroupDelay(freqHz, sampleRate float64) float64 {
	return real(c.DelaySpectrum(freqHz, sampleRate))
}

// CascadeResponse returns the product of the responses of all sections.
// An empty cascade has unity response.
func CascadeResponse(sections []Coefficients, freqHz, sampleRate float64) complex128 {
	h := complex(1, 0)
	for i := range sections {
		h *= sections[i].Response(freqHz, sampleRate)
	}

	return h
}

func unitDelays(freqHz, sampleRate float64) (ejw, ej2w complex128) {
	w := 2 * math.Pi * freqHz / sampleRate
	ejw = cmplx.Exp(complex(0, -w))

	return ejw, ejw * ejw
}

// polyDelay evaluates sum(k*p_k*z^-k) / sum(p_k*z^-k) for k = 0..2.
func polyDelay(p0, p1, p2, ejw, ej2w complex128) complex128 {
	num := p1*ejw + 2*p2*ej2w
	den := p0 + p1*ejw + p2*ej2w

	return num / den
}
