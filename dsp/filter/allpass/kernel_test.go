package allpass

import (
	"testing"

	"github.com/cwbudde/algo-phaseshaper/dsp/filter/allpass/internal/arch/generic"
	"github.com/cwbudde/algo-phaseshaper/dsp/filter/allpass/internal/arch/registry"
	"github.com/cwbudde/algo-phaseshaper/internal/testutil"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func TestKernelsBitIdentical(t *testing.T) {
	s := newFixtureStage(t)
	c := s.kernelCoefficients()
	start := registry.History{LastIn: 0.3, LastLastIn: -0.1, LastOut: 0.05, LastLastOut: 0.2}

	for _, n := range []int{1, 2, 3, 16, 17, 255} {
		input := testutil.DeterministicNoise(int64(n), 1, n)

		scalar := make([]float64, n)
		hs := generic.ProcessBlockScalar(c, start, scalar, input)

		unrolled := make([]float64, n)
		hu := generic.ProcessBlockUnrolled2(c, start, unrolled, input)

		testutil.RequireBitIdentical(t, unrolled, scalar)

		if hs != hu {
			t.Fatalf("n=%d: history mismatch scalar=%+v unrolled=%+v", n, hs, hu)
		}
	}
}

func TestKernelsInPlace(t *testing.T) {
	s := newFixtureStage(t)
	c := s.kernelCoefficients()
	input := testutil.DeterministicNoise(11, 1, 33)

	for _, fn := range []registry.ProcessBlockFn{generic.ProcessBlockScalar, generic.ProcessBlockUnrolled2} {
		want := make([]float64, len(input))
		fn(c, registry.History{}, want, input)

		buf := testutil.Clone(input)
		fn(c, registry.History{}, buf, buf)

		testutil.RequireBitIdentical(t, buf, want)
	}
}

func TestKernelsEmptyBlock(t *testing.T) {
	h := registry.History{LastIn: 1, LastOut: 2}
	if got := generic.ProcessBlockScalar(registry.Coefficients{}, h, nil, nil); got != h {
		t.Fatalf("scalar empty block changed history: %+v", got)
	}
	if got := generic.ProcessBlockUnrolled2(registry.Coefficients{}, h, nil, nil); got != h {
		t.Fatalf("unrolled empty block changed history: %+v", got)
	}
}

func TestKernelDispatch(t *testing.T) {
	// Both generic kernels are portable Go, so priority alone decides and
	// every feature set ends up on the unrolled loop.
	for _, features := range []cpu.Features{
		{},
		{ForceGeneric: true},
		{Architecture: "amd64", HasSSE2: true, HasAVX2: true},
		{Architecture: "arm64", HasNEON: true},
	} {
		entry := registry.Global.Lookup(features)
		if entry == nil || entry.Name != "unrolled2" {
			t.Fatalf("Lookup(%+v) = %#v, want unrolled2", features, entry)
		}

		if entry.SIMDLevel != cpu.SIMDNone {
			t.Fatalf("unrolled2 registered at %v, want portable level", entry.SIMDLevel)
		}
	}

	if registry.Global.ByName("scalar") == nil {
		t.Fatal("scalar kernel not registered")
	}

	if registry.Global.Lookup(cpu.DetectFeatures()) == nil {
		t.Fatal("no kernel available for this CPU")
	}
}
