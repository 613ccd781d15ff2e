package biquad

// Coefficients holds the transfer function coefficients for a single
// second-order section (biquad). a0 is normalized to 1 and not stored.
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Raw holds un-normalized biquad coefficients as produced by a design
// formula, before division by A0.
type Raw struct {
	A0, A1, A2 float64
	B0, B1, B2 float64
}

// Normalize divides every coefficient by A0.
func (r Raw) Normalize() Coefficients {
	return Coefficients{
		B0: r.B0 / r.A0,
		B1: r.B1 / r.A0,
		B2: r.B2 / r.A0,
		A1: r.A1 / r.A0,
		A2: r.A2 / r.A0,
	}
}
