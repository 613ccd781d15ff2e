package host

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/cwbudde/algo-phaseshaper/dsp/core"
	"github.com/cwbudde/algo-phaseshaper/dsp/effects/phaseshaper"
)

// Instance owns one phaseshaper chain per channel and keeps them in sync.
type Instance struct {
	chains  []*phaseshaper.Chain
	params  Params
	pending chan Change
	closed  atomic.Bool
}

// New builds an instance. Without options it is a stereo phase shaper at
// 44.1 kHz with one stage at 1000 Hz, Q 10, fully wet.
func New(opts ...Option) (*Instance, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	in := &Instance{
		chains:  make([]*phaseshaper.Chain, cfg.channels),
		params:  cfg.params,
		pending: make(chan Change, cfg.queueSize),
	}

	p := cfg.params
	for ch := range in.chains {
		c, err := phaseshaper.New(p.Frequency, p.Q, p.Mix, p.FilterCount, cfg.processor...)
		if err != nil {
			return nil, fmt.Errorf("host: channel %d: %w", ch, err)
		}

		in.chains[ch] = c
	}

	return in, nil
}

// NewMono is New with a single channel.
func NewMono(opts ...Option) (*Instance, error) {
	return New(append([]Option{WithChannels(1)}, opts...)...)
}

// Post queues a control change for the next block. It is safe to call from
// any goroutine and never blocks: a full queue returns ErrQueueFull.
// The value is validated immediately.
func (in *Instance) Post(control string, value float64) error {
	if in.closed.Load() {
		return ErrClosed
	}

	c, err := Coerce(control, value)
	if err != nil {
		return err
	}

	select {
	case in.pending <- c:
		return nil
	default:
		return fmt.Errorf("%w: dropped %s=%g", ErrQueueFull, c.Control, c.Value)
	}
}

// Set applies a control change immediately. It must be called from the
// processing goroutine.
func (in *Instance) Set(control string, value float64) error {
	if in.closed.Load() {
		return ErrClosed
	}

	c, err := Coerce(control, value)
	if err != nil {
		return err
	}

	in.apply(c)

	return nil
}

// Configure applies several controls at once. All names and values are
// checked first; on error nothing is applied.
func (in *Instance) Configure(values map[string]float64) error {
	if in.closed.Load() {
		return ErrClosed
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}

	slices.Sort(names)

	changes := make([]Change, 0, len(names))
	for _, name := range names {
		c, err := Coerce(name, values[name])
		if err != nil {
			return fmt.Errorf("host: configure: %w", err)
		}

		changes = append(changes, c)
	}

	for _, c := range changes {
		in.apply(c)
	}

	return nil
}

// Params returns the control values currently applied to the chains.
// Changes still waiting in the queue are not included.
func (in *Instance) Params() Params { return in.params }

// Channels returns the number of channels.
func (in *Instance) Channels() int { return len(in.chains) }

// SampleRate returns the processing sample rate in Hz.
func (in *Instance) SampleRate() float64 {
	if len(in.chains) == 0 {
		return 0
	}

	return in.chains[0].SampleRate()
}

// SetSampleRate changes the sample rate of every channel.
func (in *Instance) SetSampleRate(sampleRate float64) error {
	if in.closed.Load() {
		return ErrClosed
	}

	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return fmt.Errorf("host: %w", err)
	}

	for _, c := range in.chains {
		if err := c.SetSampleRate(sampleRate); err != nil {
			return fmt.Errorf("host: %w", err)
		}
	}

	return nil
}

// ProcessBlock applies queued control changes and then filters one block
// per channel. dst and src must both hold one slice per channel; dst[ch]
// may alias src[ch].
func (in *Instance) ProcessBlock(dst, src [][]float64) error {
	if in.closed.Load() {
		return ErrClosed
	}

	if len(src) != len(in.chains) || len(dst) != len(in.chains) {
		return fmt.Errorf("%w: want %d, got src=%d dst=%d", ErrChannelCount, len(in.chains), len(src), len(dst))
	}

	in.drain()

	for ch, c := range in.chains {
		c.Process(dst[ch], src[ch])
	}

	return nil
}

// Reset clears the filter history of every channel.
func (in *Instance) Reset() {
	if in.closed.Load() {
		return
	}

	for _, c := range in.chains {
		c.Reset()
	}
}

// Close destroys every chain. Later calls return ErrClosed.
func (in *Instance) Close() error {
	if !in.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	for _, c := range in.chains {
		c.Destroy()
	}

	in.chains = nil

	return nil
}

// drain applies every queued change and returns how many there were.
func (in *Instance) drain() int {
	n := 0
	for {
		select {
		case c := <-in.pending:
			in.apply(c)
			n++
		default:
			return n
		}
	}
}

func (in *Instance) apply(c Change) {
	in.params = in.params.With(c)

	for _, chain := range in.chains {
		switch c.Control {
		case ControlFrequency:
			chain.SetFrequency(c.Value)
		case ControlQ:
			chain.SetQ(c.Value)
		case ControlFilterCount:
			chain.SetStageCount(int(c.Value))
		case ControlMix:
			chain.SetMix(c.Value)
		}
	}
}
