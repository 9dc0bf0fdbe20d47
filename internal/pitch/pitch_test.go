package pitch

import (
	"math"
	"testing"
)

func TestFrequencyA4Is440(t *testing.T) {
	if got := Frequency(A, 4); got != 440 {
		t.Fatalf("Frequency(A, 4) = %v, want 440", got)
	}
}

func TestFrequencyKnownPitches(t *testing.T) {
	cases := []struct {
		note   Note
		octave int
		want   float64
	}{
		{C, 4, 261.6256},
		{A, 3, 220},
		{A, 5, 880},
		{E, 4, 329.6276},
		{B, 6, 1975.5332},
		{C, 0, 16.3516},
	}
	for _, tc := range cases {
		got := Frequency(tc.note, tc.octave)
		if math.Abs(got-tc.want) > 1e-3 {
			t.Errorf("Frequency(%v, %d) = %f, want %f", tc.note, tc.octave, got, tc.want)
		}
	}
}

func TestFrequencyIncreasesWithOctave(t *testing.T) {
	for n := C; n <= B; n++ {
		for o := MinOctave; o < MaxOctave; o++ {
			lo, hi := Frequency(n, o), Frequency(n, o+1)
			if hi <= lo {
				t.Fatalf("%v: octave %d -> %d not increasing (%f, %f)", n, o, o+1, lo, hi)
			}
			if math.Abs(hi/lo-2) > 1e-12 {
				t.Fatalf("%v: octave ratio = %f, want 2", n, hi/lo)
			}
		}
	}
}

func TestFrequencyIncreasesChromatically(t *testing.T) {
	for o := MinOctave; o <= MaxOctave; o++ {
		prev := 0.0
		for n := C; n <= B; n++ {
			f := Frequency(n, o)
			if f <= prev {
				t.Fatalf("octave %d: %v (%f) not above previous (%f)", o, n, f, prev)
			}
			prev = f
		}
		if next := Frequency(C, o+1); next <= prev {
			t.Fatalf("octave %d: B (%f) not below next C (%f)", o, prev, next)
		}
	}
}

func TestClampOctave(t *testing.T) {
	cases := map[int]int{-3: MinOctave, 0: 0, 4: 4, 6: 6, 9: MaxOctave}
	for in, want := range cases {
		if got := ClampOctave(in); got != want {
			t.Errorf("ClampOctave(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestNoteStrings(t *testing.T) {
	if C.String() != "C" || FSharp.String() != "F#" || B.String() != "B" {
		t.Fatalf("unexpected names: %s %s %s", C, FSharp, B)
	}
	if Note(12).Valid() || Note(-1).Valid() {
		t.Fatal("out of range notes reported valid")
	}
	if !ASharp.Sharp() || E.Sharp() {
		t.Fatal("Sharp classification wrong")
	}
}
