// Package allpass implements the second-order allpass section used by the
// phase shaper.
//
// A [Stage] derives its coefficients from a center frequency, a Q and a
// sample rate, caches the a0-normalized ratios, and filters blocks with a
// Direct Form I recurrence whose four history values carry over from one
// block to the next. The bandwidth term is alpha = sin(w0)/2*Q, which
// differs from the textbook sin(w0)/(2*Q): larger Q widens the phase
// transition instead of narrowing it.
package allpass
