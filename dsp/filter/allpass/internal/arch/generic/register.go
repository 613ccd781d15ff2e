// Package generic registers the portable allpass block kernels.
package generic

import (
	"github.com/cwbudde/algo-phaseshaper/dsp/filter/allpass/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:         "scalar",
		SIMDLevel:    cpu.SIMDNone,
		Priority:     0,
		ProcessBlock: ProcessBlockScalar,
	})
	registry.Global.Register(registry.OpEntry{
		Name:         "unrolled2",
		SIMDLevel:    cpu.SIMDNone,
		Priority:     10,
		ProcessBlock: ProcessBlockUnrolled2,
	})
}

// The float64 conversions around each product forbid fused multiply-add,
// so both kernels (and any reference loop written the same way) round
// identically on every architecture.

// ProcessBlockScalar is the one-sample-per-iteration Direct Form I loop.
func ProcessBlockScalar(c registry.Coefficients, h registry.History, dst, src []float64) registry.History {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2
	x1, x2 := h.LastIn, h.LastLastIn
	y1, y2 := h.LastOut, h.LastLastOut

	if len(src) == 0 {
		return h
	}

	_ = dst[len(src)-1] // bounds check hint

	for i, x := range src {
		y := float64(b0*x) + float64(b1*x1) + float64(b2*x2) - float64(a1*y1) - float64(a2*y2)
		dst[i] = y

		x2, x1 = x1, x
		y2, y1 = y1, y
	}

	return registry.History{LastIn: x1, LastLastIn: x2, LastOut: y1, LastLastOut: y2}
}

// ProcessBlockUnrolled2 handles two samples per iteration to cut loop
// overhead. Both inputs are read before either output is stored.
func ProcessBlockUnrolled2(c registry.Coefficients, h registry.History, dst, src []float64) registry.History {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2
	x1, x2 := h.LastIn, h.LastLastIn
	y1, y2 := h.LastOut, h.LastLastOut

	n := len(src)
	if n == 0 {
		return h
	}

	_ = dst[n-1] // bounds check hint

	i := 0
	for ; i+1 < n; i += 2 {
		xa := src[i]
		xb := src[i+1]

		ya := float64(b0*xa) + float64(b1*x1) + float64(b2*x2) - float64(a1*y1) - float64(a2*y2)
		yb := float64(b0*xb) + float64(b1*xa) + float64(b2*x1) - float64(a1*ya) - float64(a2*y1)

		dst[i] = ya
		dst[i+1] = yb

		x2, x1 = xa, xb
		y2, y1 = ya, yb
	}

	if i < n {
		x := src[i]
		y := float64(b0*x) + float64(b1*x1) + float64(b2*x2) - float64(a1*y1) - float64(a2*y2)
		dst[i] = y

		x2, x1 = x1, x
		y2, y1 = y1, y
	}

	return registry.History{LastIn: x1, LastLastIn: x2, LastOut: y1, LastLastOut: y2}
}
