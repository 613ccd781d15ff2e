package host

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-phaseshaper/dsp/core"
)

// Control names.
const (
	ControlFrequency   = "frequency"
	ControlQ           = "q"
	ControlFilterCount = "filtercount"
	ControlMix         = "mix"

	aliasFreq = "freq"
)

var (
	// ErrUnknownControl reports a control name the instance does not have.
	ErrUnknownControl = errors.New("host: unknown control")
	// ErrInvalidValue reports a control value that cannot be coerced.
	ErrInvalidValue = errors.New("host: invalid value")
	// ErrQueueFull is returned by Post when the control queue is full.
	ErrQueueFull = errors.New("host: control queue full")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("host: instance closed")
	// ErrChannelCount reports a channel layout mismatch.
	ErrChannelCount = errors.New("host: channel count mismatch")
)

// Change is one coerced control update.
type Change struct {
	Control string
	Value   float64
}

// Params is the full set of control values.
type Params struct {
	Frequency   float64
	Q           float64
	FilterCount int
	Mix         float64
}

// DefaultParams returns the values a new instance starts with.
func DefaultParams() Params {
	return Params{
		Frequency:   DefaultFrequency,
		Q:           DefaultQ,
		FilterCount: DefaultFilterCount,
		Mix:         DefaultMix,
	}
}

// Map returns p keyed by control name.
func (p Params) Map() map[string]float64 {
	return map[string]float64{
		ControlFrequency:   p.Frequency,
		ControlQ:           p.Q,
		ControlFilterCount: float64(p.FilterCount),
		ControlMix:         p.Mix,
	}
}

// With returns a copy of p with one coerced change applied.
func (p Params) With(c Change) Params {
	switch c.Control {
	case ControlFrequency:
		p.Frequency = c.Value
	case ControlQ:
		p.Q = c.Value
	case ControlFilterCount:
		p.FilterCount = int(c.Value)
	case ControlMix:
		p.Mix = c.Value
	}

	return p
}

func (p Params) coerce() (Params, error) {
	out := p
	for name, v := range p.Map() {
		c, err := Coerce(name, v)
		if err != nil {
			return Params{}, err
		}

		out = out.With(c)
	}

	return out, nil
}

// CanonicalControl resolves aliases and case to a control name.
func CanonicalControl(name string) (string, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case ControlFrequency, aliasFreq:
		return ControlFrequency, nil
	case ControlQ, ControlFilterCount, ControlMix:
		return n, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownControl, name)
	}
}

// Coerce validates a raw control value and maps it onto the range the
// chain accepts:
//
//   - frequency and q must be > 0 and finite
//   - filtercount rejects NaN, clamps negatives to 0 and truncates fractions
//   - mix rejects NaN and clamps to [0, 1]
func Coerce(name string, value float64) (Change, error) {
	control, err := CanonicalControl(name)
	if err != nil {
		return Change{}, err
	}

	switch control {
	case ControlFrequency, ControlQ:
		if value <= 0 || !core.IsFinite(value) {
			return Change{}, fmt.Errorf("%w: %s must be > 0 and finite: %f", ErrInvalidValue, control, value)
		}
	case ControlFilterCount:
		if math.IsNaN(value) {
			return Change{}, fmt.Errorf("%w: %s is NaN", ErrInvalidValue, control)
		}

		value = float64(core.CountFromFloat(value, MaxFilterCount))
	case ControlMix:
		if math.IsNaN(value) {
			return Change{}, fmt.Errorf("%w: %s is NaN", ErrInvalidValue, control)
		}

		value = core.Clamp(value, 0, 1)
	}

	return Change{Control: control, Value: value}, nil
}
