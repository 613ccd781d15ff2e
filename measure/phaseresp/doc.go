// Package phaseresp measures the frequency response of a mono processor
// from its impulse response.
//
// An [Analyzer] feeds a unit impulse through the processor, transforms the
// captured response with an FFT and reports per-bin magnitude, unwrapped
// phase and group delay. Group delay is taken from the time-weighted
// transform, Re(FFT(n*h) / FFT(h)), so it needs no phase differentiation.
//
// [Analyzer.ToneGain] cross-checks a single frequency by driving the
// processor with a sine and comparing Goertzel bins of input and output.
//
// # Usage
//
//	a := phaseresp.NewAnalyzer(44100, 4096)
//	resp, err := a.Measure(chain)
//	mag, phase, delay := resp.At(1000)
package phaseresp
