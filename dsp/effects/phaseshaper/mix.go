package phaseshaper

import "github.com/cwbudde/algo-vecmath"

// blend overwrites wet with (1-mix)*dry + mix*wet. dry is scaled in place.
func blend(wet, dry []float64, mix float64) {
	vecmath.ScaleBlock(dry, dry, 1-mix)
	vecmath.ScaleBlock(wet, wet, mix)
	vecmath.AddBlockInPlace(wet, dry)
}
