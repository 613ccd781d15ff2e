package phaseresp

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-phaseshaper/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by the analyzer.
var (
	ErrEmptyIR           = errors.New("phaseresp: impulse response is empty")
	ErrInvalidSampleRate = errors.New("phaseresp: sample rate must be > 0 and finite")
	ErrInvalidSize       = errors.New("phaseresp: FFT size must be a power of two >= 2")
	ErrInvalidFrequency  = errors.New("phaseresp: frequency must be in (0, sampleRate/2)")
)

// minBinPower is the squared magnitude below which a bin's group delay is
// reported as NaN.
const minBinPower = 1e-24

// Processor filters a mono buffer in place and can clear its history.
// *phaseshaper.Chain and *allpass.Stage satisfy it.
type Processor interface {
	ProcessInPlace(buf []float64)
	Reset()
}

// Response holds a measured one-sided spectrum with Size/2+1 bins.
type Response struct {
	SampleRate  float64
	Size        int
	Frequencies []float64 // bin center frequencies in Hz
	Magnitude   []float64 // linear
	MagnitudeDB []float64
	Phase       []float64 // unwrapped, radians
	GroupDelay  []float64 // samples; NaN where the bin is silent
}

// Analyzer measures responses at a fixed sample rate and FFT size.
type Analyzer struct {
	SampleRate float64
	// Size is the FFT length. Zero picks the next power of two that holds
	// the impulse response passed to Analyze.
	Size int
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(sampleRate float64, size int) *Analyzer {
	return &Analyzer{SampleRate: sampleRate, Size: size}
}

// Measure resets p, captures Size samples of its impulse response and
// analyzes them. p is reset again afterwards.
func (a *Analyzer) Measure(p Processor) (*Response, error) {
	if a.Size < 2 || !isPowerOfTwo(a.Size) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, a.Size)
	}

	ir := make([]float64, a.Size)
	ir[0] = 1

	p.Reset()
	p.ProcessInPlace(ir)
	p.Reset()

	return a.Analyze(ir)
}

// Analyze computes the spectrum of ir. Samples beyond Size are ignored;
// shorter responses are zero padded.
func (a *Analyzer) Analyze(ir []float64) (*Response, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyIR
	}

	if err := core.ValidateSampleRate(a.SampleRate); err != nil {
		return nil, fmt.Errorf("%w: %f", ErrInvalidSampleRate, a.SampleRate)
	}

	n := a.Size
	if n == 0 {
		n = max(nextPowerOfTwo(len(ir)), 2)
	}

	if n < 2 || !isPowerOfTwo(n) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("phaseresp: fft plan: %w", err)
	}

	in := make([]complex128, n)
	ramped := make([]complex128, n)
	for i, v := range ir[:min(len(ir), n)] {
		in[i] = complex(v, 0)
		ramped[i] = complex(float64(i)*v, 0)
	}

	h := make([]complex128, n)
	if err := plan.Forward(h, in); err != nil {
		return nil, fmt.Errorf("phaseresp: fft: %w", err)
	}

	nh := make([]complex128, n)
	if err := plan.Forward(nh, ramped); err != nil {
		return nil, fmt.Errorf("phaseresp: fft: %w", err)
	}

	bins := n/2 + 1
	r := &Response{
		SampleRate:  a.SampleRate,
		Size:        n,
		Frequencies: make([]float64, bins),
		Magnitude:   make([]float64, bins),
		MagnitudeDB: make([]float64, bins),
		Phase:       make([]float64, bins),
		GroupDelay:  make([]float64, bins),
	}

	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k], im[k] = real(h[k]), imag(h[k])
		r.Frequencies[k] = float64(k) * a.SampleRate / float64(n)
		r.Phase[k] = math.Atan2(im[k], re[k])

		power := re[k]*re[k] + im[k]*im[k]
		if power < minBinPower {
			r.GroupDelay[k] = math.NaN()
		} else {
			r.GroupDelay[k] = real(nh[k]*complex(re[k], -im[k])) / power
		}
	}

	vecmath.Magnitude(r.Magnitude, re, im)
	core.UnwrapPhase(r.Phase)

	for k, m := range r.Magnitude {
		r.MagnitudeDB[k] = core.LinearToDB(m)
	}

	return r, nil
}

// At returns magnitude (linear), unwrapped phase and group delay at freqHz,
// linearly interpolated between neighbouring bins. Frequencies outside
// [0, sampleRate/2] are clamped.
func (r *Response) At(freqHz float64) (magnitude, phase, groupDelay float64) {
	last := len(r.Frequencies) - 1
	if last < 0 {
		return 0, 0, 0
	}

	pos := core.Clamp(freqHz*float64(r.Size)/r.SampleRate, 0, float64(last))
	k := int(pos)
	if k >= last {
		return r.Magnitude[last], r.Phase[last], r.GroupDelay[last]
	}

	t := pos - float64(k)
	lerp := func(v []float64) float64 { return v[k] + t*(v[k+1]-v[k]) }

	return lerp(r.Magnitude), lerp(r.Phase), lerp(r.GroupDelay)
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}

	return 1 << bits.Len(uint(n-1))
}
