// Package biquad describes second-order IIR sections by their normalized
// transfer function coefficients and evaluates them analytically.
//
// [Coefficients] use the Direct Form I sign convention with a0 divided out:
//
//	y[n] = B0*x[n] + B1*x[n-1] + B2*x[n-2] - A1*y[n-1] - A2*y[n-2]
//
// Runtime state and block processing live with the filters that own them
// (see dsp/filter/allpass). This package provides frequency, phase and
// group delay responses plus pole/zero inspection.
package biquad
