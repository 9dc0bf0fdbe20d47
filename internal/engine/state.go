package engine

import (
	"math"
	"sync/atomic"

	"github.com/cbegin/keysynth-go/internal/osc"
	"github.com/cbegin/keysynth-go/internal/pitch"
)

// State is a point-in-time view of the synth parameters and held notes.
type State struct {
	Octave        int
	Waveform      osc.Waveform
	FilterEnabled bool
	Cutoff        float64
	Resonance     float64
	Sounding      [pitch.NumNotes]bool
}

func (s State) ActiveVoices() int {
	n := 0
	for _, on := range s.Sounding {
		if on {
			n++
		}
	}
	return n
}

// snapshot mirrors State in atomics so readers never contend with Process.
// Fields are published independently; a reader may observe a mix of two
// consecutive commands, never a torn value.
type snapshot struct {
	octave    atomic.Int32
	waveform  atomic.Int32
	filterOn  atomic.Bool
	cutoff    atomic.Uint64
	resonance atomic.Uint64
	sounding  atomic.Uint32 // bit n set when note n is active
}

func (e *Engine) publish() {
	var mask uint32
	for i := range e.voices {
		if e.voices[i].active {
			mask |= 1 << uint(i)
		}
	}
	e.snap.octave.Store(int32(e.octave))
	e.snap.waveform.Store(int32(e.waveform))
	e.snap.filterOn.Store(e.filterOn)
	e.snap.cutoff.Store(math.Float64bits(e.coeffs.Cutoff))
	e.snap.resonance.Store(math.Float64bits(e.coeffs.Resonance))
	e.snap.sounding.Store(mask)
}

// Snapshot returns the most recently published state. Safe from any goroutine.
func (e *Engine) Snapshot() State {
	s := State{
		Octave:        int(e.snap.octave.Load()),
		Waveform:      osc.Waveform(e.snap.waveform.Load()),
		FilterEnabled: e.snap.filterOn.Load(),
		Cutoff:        math.Float64frombits(e.snap.cutoff.Load()),
		Resonance:     math.Float64frombits(e.snap.resonance.Load()),
	}
	mask := e.snap.sounding.Load()
	for i := range s.Sounding {
		s.Sounding[i] = mask&(1<<uint(i)) != 0
	}
	return s
}
