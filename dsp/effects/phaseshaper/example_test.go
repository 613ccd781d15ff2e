package phaseshaper_test

import (
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-phaseshaper/dsp/core"
	"github.com/cwbudde/algo-phaseshaper/dsp/effects/phaseshaper"
)

func ExampleChain_Process() {
	c, err := phaseshaper.New(1000, 10, 1, 1, core.WithSampleRate(44100))
	if err != nil {
		fmt.Println("error")
		return
	}

	in := []float64{1, 0, 0, 0}
	out := make([]float64, len(in))
	c.Process(out, in)

	fmt.Printf("%.6f %.6f %.6f %.6f\n", out[0], out[1], out[2], out[3])
	// Output:
	// 0.169610 -0.961391 -0.141827 -0.001140
}

func ExampleChain_SetStageCount() {
	c, _ := phaseshaper.New(1000, 10, 0.5, 1)

	fmt.Printf("stages=%d |H(f0)|=%.3f\n", c.StageCount(), cmplx.Abs(c.Response(1000)))

	c.SetStageCount(4)
	c.SetMix(1)
	fmt.Printf("stages=%d |H(f0)|=%.3f\n", c.StageCount(), cmplx.Abs(c.Response(1000)))
	// Output:
	// stages=1 |H(f0)|=0.000
	// stages=4 |H(f0)|=1.000
}
