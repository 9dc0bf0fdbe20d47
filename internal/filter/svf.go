// Package filter implements the resonant low-pass filter applied per voice.
//
// The topology is a trapezoidal-integrated state variable filter: two
// integrator registers per voice and a coefficient set shared by every voice
// that runs at the same cutoff and resonance.
package filter

import (
	"math"

	"golang.org/x/exp/constraints"
)

const (
	MinCutoff = 20.0
	// MaxCutoffRatio bounds the cutoff as a fraction of the sample rate,
	// keeping tan(pi*fc/fs) finite.
	MaxCutoffRatio = 0.45
	MinResonance   = 0.0
	// MaxResonance keeps the damping term k = 2*(1-resonance) at or above 0.1,
	// which bounds the peak gain to 1 + 2/k.
	MaxResonance = 0.95
)

// Coeffs holds the derived filter coefficients for one (cutoff, resonance) pair.
type Coeffs struct {
	Cutoff    float64
	Resonance float64
	k         float64
	a1        float64
	a2        float64
	a3        float64
}

// NewCoeffs derives coefficients for sampleRate, clamping cutoff and resonance
// into their valid ranges.
func NewCoeffs(sampleRate, cutoff, resonance float64) Coeffs {
	cutoff = ClampCutoff(cutoff, sampleRate)
	resonance = ClampResonance(resonance)
	g := math.Tan(math.Pi * cutoff / sampleRate)
	k := 2 * (1 - resonance)
	a1 := 1 / (1 + g*(g+k))
	a2 := g * a1
	return Coeffs{
		Cutoff:    cutoff,
		Resonance: resonance,
		k:         k,
		a1:        a1,
		a2:        a2,
		a3:        g * a2,
	}
}

// PeakGain bounds |output| / max|input| for any input sequence. It is an
// upper bound on the L1 norm of the impulse response.
func (c Coeffs) PeakGain() float64 {
	return 1 + 2/c.k
}

// ClampCutoff limits cutoff to [MinCutoff, MaxCutoffRatio*sampleRate]. The
// upper bound wins at sample rates too low to fit MinCutoff below it.
func ClampCutoff(cutoff, sampleRate float64) float64 {
	hi := MaxCutoffRatio * sampleRate
	return clamp(cutoff, min(MinCutoff, hi), hi)
}

func ClampResonance(resonance float64) float64 {
	return clamp(resonance, MinResonance, MaxResonance)
}

// State is the register set of one filter instance.
type State struct {
	ic1eq float64
	ic2eq float64
}

// Process filters one sample and updates the registers.
func (s *State) Process(x float64, c *Coeffs) float64 {
	v3 := x - s.ic2eq
	v1 := c.a1*s.ic1eq + c.a2*v3
	v2 := s.ic2eq + c.a2*s.ic1eq + c.a3*v3
	s.ic1eq = 2*v1 - s.ic1eq
	s.ic2eq = 2*v2 - s.ic2eq
	return v2
}

func (s *State) Reset() {
	s.ic1eq = 0
	s.ic2eq = 0
}

func clamp[T constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
