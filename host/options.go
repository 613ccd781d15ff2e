package host

import (
	"fmt"

	"github.com/cwbudde/algo-phaseshaper/dsp/core"
)

const (
	// DefaultFrequency is the center frequency of a new instance in Hz.
	DefaultFrequency = 1000.0
	// DefaultQ is the Q of a new instance.
	DefaultQ = 10.0
	// DefaultFilterCount is the number of stages per channel.
	DefaultFilterCount = 1
	// DefaultMix is fully wet.
	DefaultMix = 1.0
	// DefaultChannels is the stereo layout.
	DefaultChannels = 2
	// DefaultQueueSize bounds the number of pending control changes.
	DefaultQueueSize = 64
	// MaxFilterCount caps the stages a control value can request.
	MaxFilterCount = 4096
)

// Option mutates instance construction parameters.
type Option func(*config) error

type config struct {
	channels  int
	queueSize int
	params    Params
	processor []core.ProcessorOption
}

func defaultConfig() config {
	return config{
		channels:  DefaultChannels,
		queueSize: DefaultQueueSize,
		params:    DefaultParams(),
	}
}

// WithChannels sets the number of independent channels (1 for mono, 2 for
// stereo).
func WithChannels(channels int) Option {
	return func(cfg *config) error {
		if channels < 1 {
			return fmt.Errorf("%w: must be >= 1: %d", ErrChannelCount, channels)
		}

		cfg.channels = channels

		return nil
	}
}

// WithQueueSize sets the capacity of the control queue used by Post.
func WithQueueSize(size int) Option {
	return func(cfg *config) error {
		if size < 1 {
			return fmt.Errorf("%w: queue size must be >= 1: %d", ErrInvalidValue, size)
		}

		cfg.queueSize = size

		return nil
	}
}

// WithDefaults replaces the initial control values. They go through the
// same coercion as runtime changes.
func WithDefaults(p Params) Option {
	return func(cfg *config) error {
		coerced, err := p.coerce()
		if err != nil {
			return err
		}

		cfg.params = coerced

		return nil
	}
}

// WithProcessorOptions forwards sample rate and block size settings to
// every channel's chain.
func WithProcessorOptions(opts ...core.ProcessorOption) Option {
	return func(cfg *config) error {
		cfg.processor = append(cfg.processor, opts...)

		return nil
	}
}
