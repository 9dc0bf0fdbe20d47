package engine

import (
	"github.com/cbegin/keysynth-go/internal/filter"
	"github.com/cbegin/keysynth-go/internal/osc"
	"github.com/cbegin/keysynth-go/internal/pitch"
)

// voice is one held key. Slots live in a fixed arena owned by the Engine.
type voice struct {
	active bool
	note   pitch.Note
	octave int
	freq   float64
	phase  float64
	filter filter.State
}

// start moves the voice to Sounding. A sounding voice is retriggered:
// phase, octave and filter registers all restart.
func (v *voice) start(note pitch.Note, octave int) {
	v.active = true
	v.note = note
	v.octave = octave
	v.freq = pitch.Frequency(note, octave)
	v.phase = 0
	v.filter.Reset()
}

func (v *voice) stop() {
	v.active = false
}

// tick emits the sample at the current phase, then advances the phase.
func (v *voice) tick(w osc.Waveform, c *filter.Coeffs, sampleRate float64) float64 {
	s := osc.Sample(v.phase, w)
	if c != nil {
		s = v.filter.Process(s, c)
	}
	v.phase = osc.Advance(v.phase, v.freq, sampleRate)
	return s
}
