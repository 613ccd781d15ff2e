package allpass

// ImpulseResponse returns n samples of the stage's impulse response.
// The history is saved and restored, so the stage is left untouched.
func (s *Stage) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return nil
	}

	saved := s.State()
	s.Reset()

	ir := make([]float64, n)
	ir[0] = 1
	s.ProcessInPlace(ir)

	s.SetState(saved)

	return ir
}

// Response returns H(e^jw) of the stage at freqHz.
func (s *Stage) Response(freqHz float64) complex128 {
	return s.ratios.Response(freqHz, s.sampleRate)
}

// Phase returns the phase shift in radians at freqHz, wrapped to [-pi, pi].
func (s *Stage) Phase(freqHz float64) float64 {
	return s.ratios.Phase(freqHz, s.sampleRate)
}

// GroupDelay returns the group delay in samples at freqHz.
func (s *Stage) GroupDelay(freqHz float64) float64 {
	return s.ratios.GroupDelay(freqHz, s.sampleRate)
}
