package phaseshaper

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-phaseshaper/dsp/core"
	"github.com/cwbudde/algo-phaseshaper/dsp/filter/allpass"
)

// ErrDestroyed is the panic value raised when a destroyed chain is used.
var ErrDestroyed = errors.New("phaseshaper: chain used after Destroy")

// Chain is an ordered cascade of allpass stages with shared parameters.
type Chain struct {
	sampleRate float64
	f0         float64
	q          float64
	mix        float64

	stages []allpass.Stage
	dry    []float64

	destroyed bool
}

// New builds a chain of stageCount stages (negative counts become 0).
// The sample rate comes from core.WithSampleRate and defaults to
// core.DefaultSampleRate; core.WithBlockSize pre-sizes the dry buffer.
// An error is returned only for a sample rate that is not positive and
// finite.
func New(f0, q, mix float64, stageCount int, opts ...core.ProcessorOption) (*Chain, error) {
	cfg := core.ApplyProcessorOptions(opts...)

	if err := core.ValidateSampleRate(cfg.SampleRate); err != nil {
		return nil, fmt.Errorf("phaseshaper: %w", err)
	}

	c := &Chain{
		sampleRate: cfg.SampleRate,
		f0:         f0,
		q:          q,
		mix:        core.Clamp(mix, 0, 1),
		dry:        make([]float64, 0, cfg.BlockSize),
	}
	c.stages = c.resized(max(stageCount, 0))

	return c, nil
}

// SetFrequency sets the center frequency of every stage.
func (c *Chain) SetFrequency(f0 float64) {
	c.mustBeReady()

	c.f0 = f0
	for i := range c.stages {
		c.stages[i].SetFrequency(f0)
	}
}

// SetQ sets Q on every stage.
func (c *Chain) SetQ(q float64) {
	c.mustBeReady()

	c.q = q
	for i := range c.stages {
		c.stages[i].SetQ(q)
	}
}

// SetMix sets the dry/wet amount, clamped to [0, 1].
func (c *Chain) SetMix(mix float64) {
	c.mustBeReady()

	c.mix = core.Clamp(mix, 0, 1)
	for i := range c.stages {
		c.stages[i].SetMix(c.mix)
	}
}

// SetSampleRate changes the sample rate of the chain and every stage.
// An invalid rate is rejected and nothing changes.
func (c *Chain) SetSampleRate(sampleRate float64) error {
	c.mustBeReady()

	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return fmt.Errorf("phaseshaper: %w", err)
	}

	c.sampleRate = sampleRate
	for i := range c.stages {
		// Cannot fail: the rate was validated above.
		_ = c.stages[i].SetSampleRate(sampleRate)
	}

	return nil
}

// SetStageCount grows or shrinks the cascade at its tail. Negative values
// become 0. New stages take the current parameters and start silent;
// surviving stages keep their history. Setting the current count is a
// no-op.
//
// The replacement sequence is built completely before it is stored, so
// Process never sees a partially resized chain.
func (c *Chain) SetStageCount(n int) {
	c.mustBeReady()

	n = max(n, 0)
	if n == len(c.stages) {
		return
	}

	c.stages = c.resized(n)
}

// Process filters src into dst. dst and src may be the same slice; the
// shorter length wins and an empty block is a no-op. With no stages the
// input is copied through unchanged.
func (c *Chain) Process(dst, src []float64) {
	c.mustBeReady()

	n := core.BlockLen(dst, src)
	if n == 0 {
		return
	}

	dst, src = dst[:n], src[:n]

	stages := c.stages
	if len(stages) == 0 {
		core.CopyInto(dst, src)
		return
	}

	mix := c.mix
	if mix < 1 {
		c.dry = core.EnsureLen(c.dry, n)
		core.CopyInto(c.dry, src)
	}

	stages[0].ProcessBlock(dst, src)
	for i := 1; i < len(stages); i++ {
		stages[i].ProcessInPlace(dst)
	}

	switch {
	case mix >= 1:
	case mix <= 0:
		core.CopyInto(dst, c.dry)
	default:
		blend(dst, c.dry, mix)
	}
}

// ProcessInPlace filters buf in place.
func (c *Chain) ProcessInPlace(buf []float64) {
	c.Process(buf, buf)
}

// Reset clears the history of every stage and the dry scratch buffer.
func (c *Chain) Reset() {
	c.mustBeReady()

	for i := range c.stages {
		c.stages[i].Reset()
	}

	core.Zero(c.dry)
}

// Destroy releases every stage and moves the chain to its terminal state.
// Any later call other than Destroyed panics with ErrDestroyed.
func (c *Chain) Destroy() {
	c.mustBeReady()

	clear(c.stages)
	c.stages = nil
	c.dry = nil
	c.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (c *Chain) Destroyed() bool { return c.destroyed }

// Frequency returns the shared center frequency in Hz.
func (c *Chain) Frequency() float64 { return c.f0 }

// Q returns the shared Q.
func (c *Chain) Q() float64 { return c.q }

// Mix returns the dry/wet amount in [0, 1].
func (c *Chain) Mix() float64 { return c.mix }

// SampleRate returns the sample rate in Hz.
func (c *Chain) SampleRate() float64 { return c.sampleRate }

// StageCount returns the number of stages.
func (c *Chain) StageCount() int { return len(c.stages) }

// Stage returns a copy of the i-th stage for inspection. Changing the copy
// does not affect the chain.
func (c *Chain) Stage(i int) *allpass.Stage {
	c.mustBeReady()

	s := c.stages[i]

	return &s
}

// resized returns a new stage sequence of length n: the first
// min(n, len(c.stages)) stages copied with their history, the rest fresh.
func (c *Chain) resized(n int) []allpass.Stage {
	next := make([]allpass.Stage, n)
	kept := copy(next, c.stages)

	for i := kept; i < n; i++ {
		next[i] = c.newStage()
	}

	return next
}

func (c *Chain) newStage() allpass.Stage {
	s, err := allpass.NewStage(c.f0, c.q, c.sampleRate, allpass.WithMix(c.mix))
	if err != nil {
		// The sample rate is validated before it is stored.
		panic(err)
	}

	return *s
}

func (c *Chain) mustBeReady() {
	if c.destroyed {
		panic(ErrDestroyed)
	}
}
