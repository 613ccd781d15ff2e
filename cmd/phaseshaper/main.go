// Command phaseshaper runs a WAV file through the phase shaper.
//
// Usage:
//
//	phaseshaper -in input.wav -out output.wav -freq 1000 -q 10 -stages 4 -mix 0.5
//
// Every channel gets its own chain with identical settings. Samples are
// processed in blocks of -block frames, the way a plugin host would call
// the effect.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/cwbudde/algo-phaseshaper/dsp/core"
	"github.com/cwbudde/algo-phaseshaper/host"
)

const (
	// Frames decoded from the input per read.
	chunkFrames = 8192
)

type options struct {
	inputPath  string
	outputPath string
	params     host.Params
	blockSize  int
	verbose    bool
}

type processStats struct {
	frames     int64
	channels   int
	sampleRate int
	bitDepth   int
	elapsed    time.Duration
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	opts, err := parseOptions(args, os.Stderr)
	if err != nil {
		return err
	}

	if opts.verbose {
		log.Printf("Input: %s", opts.inputPath)
		log.Printf("Output: %s", opts.outputPath)
		log.Printf("Frequency: %.1f Hz, Q: %.3f, stages: %d, mix: %.3f",
			opts.params.Frequency, opts.params.Q, opts.params.FilterCount, opts.params.Mix)
	}

	stats, err := processFile(opts)
	if err != nil {
		return err
	}

	if opts.verbose {
		log.Printf("Processed %d frames (%d ch, %d Hz, %d-bit) in %v",
			stats.frames, stats.channels, stats.sampleRate, stats.bitDepth, stats.elapsed.Round(time.Millisecond))
	}

	return nil
}

func parseOptions(args []string, usageOut io.Writer) (options, error) {
	fs := flag.NewFlagSet("phaseshaper", flag.ContinueOnError)
	fs.SetOutput(usageOut)

	in := fs.String("in", "", "Input WAV file")
	out := fs.String("out", "", "Output WAV file")
	freq := fs.Float64("freq", host.DefaultFrequency, "Center frequency in Hz")
	q := fs.Float64("q", host.DefaultQ, "Q of every allpass stage")
	stages := fs.Float64("stages", host.DefaultFilterCount, "Number of allpass stages (fractions truncate)")
	mix := fs.Float64("mix", host.DefaultMix, "Dry/wet mix in [0, 1]")
	block := fs.Int("block", core.DefaultBlockSize, "Processing block size in frames")
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if *in == "" || *out == "" {
		fs.Usage()
		return options{}, errors.New("both -in and -out are required")
	}

	if *block < 1 {
		return options{}, fmt.Errorf("block size must be >= 1: %d", *block)
	}

	params := host.DefaultParams()
	for name, v := range map[string]float64{
		host.ControlFrequency:   *freq,
		host.ControlQ:           *q,
		host.ControlFilterCount: *stages,
		host.ControlMix:         *mix,
	} {
		c, err := host.Coerce(name, v)
		if err != nil {
			return options{}, fmt.Errorf("invalid -%s: %w", flagName(name), err)
		}

		params = params.With(c)
	}

	return options{
		inputPath:  *in,
		outputPath: *out,
		params:     params,
		blockSize:  *block,
		verbose:    *verbose,
	}, nil
}

func flagName(control string) string {
	switch control {
	case host.ControlFrequency:
		return "freq"
	case host.ControlFilterCount:
		return "stages"
	default:
		return control
	}
}

// processFile streams the input through a host instance and writes the
// result with the input's format.
func processFile(opts options) (stats *processStats, err error) {
	start := time.Now()

	input, err := openWAVInput(opts.inputPath, opts.verbose)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	inst, err := host.New(
		host.WithChannels(input.channels),
		host.WithDefaults(opts.params),
		host.WithProcessorOptions(
			core.WithSampleRate(float64(input.rate)),
			core.WithBlockSize(opts.blockSize),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create processor: %w", err)
	}
	defer func() { _ = inst.Close() }()

	output, err := createWAVOutput(opts.outputPath, input.rate, input.bitDepth, input.channels)
	if err != nil {
		return nil, err
	}
	// The header is finalized on Close, so its error matters.
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	buffers := newProcessBuffers(input.channels, input.bitDepth, chunkFrames, input.format)
	stats = &processStats{
		channels:   input.channels,
		sampleRate: input.rate,
		bitDepth:   input.bitDepth,
	}

	for {
		n, readErr := input.decoder.PCMBuffer(buffers.intBuffer)
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", readErr)
		}

		frames := n / input.channels
		if frames == 0 {
			break
		}

		deinterleaveInto(buffers.intBuffer.Data[:frames*input.channels], buffers.channelBufs, frames, buffers.invMaxVal)

		if err := processBlocks(inst, buffers.channelBufs, frames, opts.blockSize); err != nil {
			return nil, err
		}

		samples := interleaveInto(buffers.channelBufs, frames, buffers.outputInt, buffers.scratch, buffers.maxVal)
		if err := output.WriteSamples(samples); err != nil {
			return nil, fmt.Errorf("failed to write audio data: %w", err)
		}

		stats.frames += int64(frames)
	}

	stats.elapsed = time.Since(start)

	return stats, nil
}

// processBlocks runs the first frames samples of every channel through
// inst in place, blockSize frames at a time.
func processBlocks(inst *host.Instance, channels [][]float64, frames, blockSize int) error {
	block := make([][]float64, len(channels))

	for off := 0; off < frames; off += blockSize {
		end := min(off+blockSize, frames)
		for ch := range channels {
			block[ch] = channels[ch][off:end]
		}

		if err := inst.ProcessBlock(block, block); err != nil {
			return fmt.Errorf("failed to process block at frame %d: %w", off, err)
		}
	}

	return nil
}
