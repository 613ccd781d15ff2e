// Package phaseshaper provides a runtime-resizable cascade of identical
// second-order allpass stages with a dry/wet blend.
//
// Every stage in a [Chain] shares the chain's frequency, Q, mix and sample
// rate; each keeps its own filter history. Blocks run serially through the
// cascade, and the fully wet result is blended with the unprocessed input:
//
//	out[i] = (1-mix)*in[i] + mix*wet[i]
//
// Mixing the phase-shifted signal back with the dry one produces comb-like
// cancellations around the center frequency.
//
// A Chain is not safe for concurrent use. Parameter updates and Process
// calls must come from one goroutine; hosts that receive control changes
// elsewhere should queue them and apply them between blocks (see package
// host).
package phaseshaper
