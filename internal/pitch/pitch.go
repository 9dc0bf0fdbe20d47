package pitch

import "math"

// Note is one of the twelve chromatic pitch classes, C through B.
type Note int

const (
	C Note = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

const NumNotes = 12

// Octave range. Octave 4 holds A4 = 440 Hz.
const (
	MinOctave     = 0
	MaxOctave     = 6
	DefaultOctave = 4
)

const (
	referenceFreq   = 440.0
	referenceOctave = 4
	referenceNote   = A
)

var noteNames = [NumNotes]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func (n Note) Valid() bool {
	return n >= C && n <= B
}

func (n Note) String() string {
	if !n.Valid() {
		return "?"
	}
	return noteNames[n]
}

// Sharp reports whether n is one of the five accidentals.
func (n Note) Sharp() bool {
	switch n {
	case CSharp, DSharp, FSharp, GSharp, ASharp:
		return true
	}
	return false
}

// Frequency returns the equal-tempered frequency of note in octave, in Hz.
// Callers supply a valid note and an octave already clamped to range.
func Frequency(note Note, octave int) float64 {
	semis := float64(note - referenceNote)
	return referenceFreq * math.Pow(2, float64(octave-referenceOctave)+semis/12)
}

func ClampOctave(octave int) int {
	if octave < MinOctave {
		return MinOctave
	}
	if octave > MaxOctave {
		return MaxOctave
	}
	return octave
}
