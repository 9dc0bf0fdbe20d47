package osc

import "math"

const twoPi = math.Pi * 2

// Waveform selects the oscillator shape. The set is closed; Next cycles through it.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Saw
)

const NumWaveforms = 3

func (w Waveform) Next() Waveform {
	return (w + 1) % NumWaveforms
}

func (w Waveform) Valid() bool {
	return w >= Sine && w < NumWaveforms
}

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Saw:
		return "saw"
	default:
		return "unknown"
	}
}

// Sample returns the waveform value at phase, in [-1, 1].
// phase is the position within one cycle, in [0, 1).
func Sample(phase float64, w Waveform) float64 {
	switch w {
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	case Saw:
		return 2*phase - 1
	default: // Sine
		return math.Sin(twoPi * phase)
	}
}

// Advance moves phase forward by one sample at freq and wraps it into [0, 1).
func Advance(phase, freq, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return phase
	}
	phase += freq / sampleRate
	if phase >= 1 {
		phase -= math.Floor(phase)
	}
	return phase
}
