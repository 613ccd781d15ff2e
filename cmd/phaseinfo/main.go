// Command phaseinfo prints the phase response of a phase shaper setting.
//
// Usage:
//
//	phaseinfo [flags] [frequency-hz ...]
//
// For every frequency it prints the analytic magnitude, phase and group
// delay next to the values measured from the chain's impulse response.
// Without arguments a default set of frequencies around -freq is used.
//
// Examples:
//
//	phaseinfo -freq 1000 -q 10 -stages 4
//	phaseinfo -mix 0.5 -stages 1 500 1000 2000
//	phaseinfo -rate 48000 -size 16384 -stages 8 440
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"os"
	"slices"
	"strconv"
	"text/tabwriter"

	"github.com/cwbudde/algo-phaseshaper/dsp/core"
	"github.com/cwbudde/algo-phaseshaper/dsp/effects/phaseshaper"
	"github.com/cwbudde/algo-phaseshaper/host"
	"github.com/cwbudde/algo-phaseshaper/measure/phaseresp"
)

const radToDeg = 180 / math.Pi

type settings struct {
	params     host.Params
	sampleRate float64
	size       int
}

func main() {
	freq := flag.Float64("freq", host.DefaultFrequency, "center frequency in Hz")
	q := flag.Float64("q", host.DefaultQ, "Q of every allpass stage")
	stages := flag.Int("stages", host.DefaultFilterCount, "number of allpass stages")
	mix := flag.Float64("mix", host.DefaultMix, "dry/wet mix in [0, 1]")
	rate := flag.Float64("rate", core.DefaultSampleRate, "sample rate in Hz")
	size := flag.Int("size", 8192, "FFT size for the measured columns (power of two)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: phaseinfo [flags] [frequency-hz ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints analytic and measured phase response of a phase shaper chain.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  phaseinfo -freq 1000 -q 10 -stages 4\n")
		fmt.Fprintf(os.Stderr, "  phaseinfo -mix 0.5 -stages 1 500 1000 2000\n")
	}
	flag.Parse()

	s := settings{
		params:     host.Params{Frequency: *freq, Q: *q, FilterCount: *stages, Mix: *mix},
		sampleRate: *rate,
		size:       *size,
	}

	freqs, err := parseFrequencies(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if len(freqs) == 0 {
		freqs = defaultFrequencies(*freq, *rate)
	}

	if err := printAnalysis(os.Stdout, s, freqs); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFrequencies(args []string) ([]float64, error) {
	freqs := make([]float64, 0, len(args))
	for _, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil || f <= 0 || !core.IsFinite(f) {
			return nil, fmt.Errorf("invalid frequency %q", a)
		}

		freqs = append(freqs, f)
	}

	return freqs, nil
}

// defaultFrequencies spans four octaves either side of f0, keeping only
// values below Nyquist.
func defaultFrequencies(f0, sampleRate float64) []float64 {
	var out []float64
	for oct := -4; oct <= 4; oct++ {
		f := f0 * math.Exp2(float64(oct))
		if f > 0 && f < sampleRate/2 {
			out = append(out, f)
		}
	}

	return out
}

func printAnalysis(w io.Writer, s settings, freqs []float64) error {
	chain, err := phaseshaper.New(s.params.Frequency, s.params.Q, s.params.Mix, s.params.FilterCount,
		core.WithSampleRate(s.sampleRate))
	if err != nil {
		return err
	}
	defer chain.Destroy()

	resp, err := phaseresp.NewAnalyzer(s.sampleRate, s.size).Measure(chain)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "f0=%.2f Hz  Q=%.4g  stages=%d  mix=%.3f  rate=%.0f Hz\n",
		chain.Frequency(), chain.Q(), chain.StageCount(), chain.Mix(), chain.SampleRate()); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}

	if chain.StageCount() > 0 {
		coeffs := chain.Stage(0).Coefficients()
		poles := coeffs.Poles()

		if _, err := fmt.Fprintf(w, "stage poles: |p|=%.6f  stable=%t\n\n",
			max(cmplx.Abs(poles[0]), cmplx.Abs(poles[1])), coeffs.IsStable()); err != nil {
			return fmt.Errorf("failed to write output header: %w", err)
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Freq [Hz]\tGain [dB]\tPhase [deg]\tDelay [smp]\tMeas Gain [dB]\tMeas Phase [deg]\tMeas Delay [smp]\n"); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}

	if _, err := fmt.Fprintf(tw, "---------\t---------\t-----------\t-----------\t--------------\t----------------\t----------------\n"); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}

	for _, f := range slices.Sorted(slices.Values(freqs)) {
		mag, phase, delay := resp.At(f)

		if _, err := fmt.Fprintf(tw, "%.2f\t%.3f\t%.2f\t%.3f\t%.3f\t%.2f\t%.3f\n",
			f,
			chain.MagnitudeDB(f),
			chain.Phase(f)*radToDeg,
			chain.GroupDelay(f),
			core.LinearToDB(mag),
			core.WrapPhase(phase)*radToDeg,
			delay,
		); err != nil {
			return fmt.Errorf("failed to write output row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}
