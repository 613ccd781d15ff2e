package allpass

import (
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/algo-phaseshaper/dsp/core"
	"github.com/cwbudde/algo-phaseshaper/dsp/filter/allpass/internal/arch/registry"
	"github.com/cwbudde/algo-phaseshaper/dsp/filter/biquad"
	"github.com/cwbudde/algo-vecmath/cpu"

	_ "github.com/cwbudde/algo-phaseshaper/dsp/filter/allpass/internal/arch/generic" // register portable kernels
)

// History is the per-stage filter memory: the previous two inputs and
// outputs.
type History struct {
	LastIn, LastLastIn   float64
	LastOut, LastLastOut float64
}

// Stage is a single biquad allpass with its own coefficients and history.
// The zero value is not usable; construct with NewStage.
type Stage struct {
	sampleRate float64
	f0         float64
	q          float64
	mix        float64

	raw    biquad.Raw
	ratios biquad.Coefficients

	hist History
}

// StageOption configures a Stage at construction.
type StageOption func(*Stage)

// WithMix stores a dry/wet amount on the stage, clamped to [0, 1].
// The stage never applies it; mixing is done by the owning cascade.
func WithMix(mix float64) StageOption {
	return func(s *Stage) { s.mix = core.Clamp(mix, 0, 1) }
}

var (
	processBlockImpl     registry.ProcessBlockFn
	processBlockInitOnce sync.Once
)

// NewStage returns a stage with zeroed history and coefficients derived
// from f0 (Hz), q and sampleRate (Hz). It fails only for a sample rate
// that is not positive and finite.
func NewStage(f0, q, sampleRate float64, opts ...StageOption) (*Stage, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("allpass: %w", err)
	}

	s := &Stage{
		sampleRate: sampleRate,
		f0:         f0,
		q:          q,
		mix:        1,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.RecomputeCoefficients()

	return s, nil
}

// SetFrequency updates the center frequency and recomputes coefficients.
func (s *Stage) SetFrequency(f0 float64) {
	s.f0 = f0
	s.RecomputeCoefficients()
}

// SetQ updates Q and recomputes coefficients.
func (s *Stage) SetQ(q float64) {
	s.q = q
	s.RecomputeCoefficients()
}

// SetSampleRate updates the sample rate and recomputes coefficients.
// An invalid rate is rejected and leaves the stage unchanged.
func (s *Stage) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return fmt.Errorf("allpass: %w", err)
	}

	s.sampleRate = sampleRate
	s.RecomputeCoefficients()

	return nil
}

// SetMix stores the dry/wet amount, clamped to [0, 1].
func (s *Stage) SetMix(mix float64) {
	s.mix = core.Clamp(mix, 0, 1)
}

// RecomputeCoefficients derives the raw coefficients and cached ratios
// from the current frequency, Q and sample rate.
func (s *Stage) RecomputeCoefficients() {
	w0 := 2 * math.Pi * s.f0 / s.sampleRate
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / 2 * s.q

	s.raw = biquad.Raw{
		A0: 1 + alpha,
		A1: -2 * cosW0,
		A2: 1 - alpha,
		B0: 1 - alpha,
		B1: -2 * cosW0,
		B2: 1 + alpha,
	}
	s.ratios = s.raw.Normalize()
}

// ProcessBlock filters src into dst. dst and src may be the same slice.
// The shorter length wins; an empty block is a no-op. Only the history
// is modified.
func (s *Stage) ProcessBlock(dst, src []float64) {
	n := core.BlockLen(dst, src)
	if n == 0 {
		return
	}

	processBlockInitOnce.Do(initProcessBlockKernel)

	s.hist = History(processBlockImpl(s.kernelCoefficients(), registry.History(s.hist), dst[:n], src[:n]))
}

// ProcessInPlace filters buf in place.
func (s *Stage) ProcessInPlace(buf []float64) {
	s.ProcessBlock(buf, buf)
}

// ProcessSample filters one sample.
func (s *Stage) ProcessSample(x float64) float64 {
	c := &s.ratios
	h := &s.hist

	y := float64(c.B0*x) + float64(c.B1*h.LastIn) + float64(c.B2*h.LastLastIn) -
		float64(c.A1*h.LastOut) - float64(c.A2*h.LastLastOut)

	h.LastLastIn, h.LastIn = h.LastIn, x
	h.LastLastOut, h.LastOut = h.LastOut, y

	return y
}

// Reset clears the history.
func (s *Stage) Reset() {
	s.hist = History{}
}

// State returns the current history.
func (s *Stage) State() History { return s.hist }

// SetState restores a previously saved history.
func (s *Stage) SetState(h History) { s.hist = h }

// Frequency returns the center frequency in Hz.
func (s *Stage) Frequency() float64 { return s.f0 }

// Q returns the quality parameter.
func (s *Stage) Q() float64 { return s.q }

// SampleRate returns the sample rate in Hz.
func (s *Stage) SampleRate() float64 { return s.sampleRate }

// Mix returns the stored dry/wet amount.
func (s *Stage) Mix() float64 { return s.mix }

// Raw returns the un-normalized coefficients.
func (s *Stage) Raw() biquad.Raw { return s.raw }

// Coefficients returns the cached a0-normalized ratios.
func (s *Stage) Coefficients() biquad.Coefficients { return s.ratios }

func (s *Stage) kernelCoefficients() registry.Coefficients {
	return registry.Coefficients{
		B0: s.ratios.B0,
		B1: s.ratios.B1,
		B2: s.ratios.B2,
		A1: s.ratios.A1,
		A2: s.ratios.A2,
	}
}

func initProcessBlockKernel() {
	entry := registry.Global.Lookup(cpu.DetectFeatures())
	if entry == nil {
		panic("allpass: no ProcessBlock kernel registered (missing generic fallback?)")
	}

	if entry.ProcessBlock == nil {
		panic("allpass: selected kernel missing ProcessBlock")
	}

	processBlockImpl = entry.ProcessBlock
}
