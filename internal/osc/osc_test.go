package osc

import (
	"math"
	"testing"
)

func TestSampleBounded(t *testing.T) {
	for w := Sine; w < NumWaveforms; w++ {
		for i := 0; i < 10000; i++ {
			p := float64(i) / 10000
			if v := Sample(p, w); math.Abs(v) > 1 {
				t.Fatalf("%v at phase %f = %f, out of [-1, 1]", w, p, v)
			}
		}
	}
}

func TestSineShape(t *testing.T) {
	if v := Sample(0, Sine); v != 0 {
		t.Errorf("sine at phase 0: got %f, want 0", v)
	}
	if v := Sample(0.25, Sine); math.Abs(v-1) > 1e-12 {
		t.Errorf("sine at phase 0.25: got %f, want 1", v)
	}
	if v := Sample(0.75, Sine); math.Abs(v+1) > 1e-12 {
		t.Errorf("sine at phase 0.75: got %f, want -1", v)
	}
}

func TestSquareDutyCycle(t *testing.T) {
	cases := []struct {
		phase float64
		want  float64
	}{
		{0, 1}, {0.25, 1}, {0.4999, 1}, {0.5, -1}, {0.75, -1}, {0.9999, -1},
	}
	for _, tc := range cases {
		if got := Sample(tc.phase, Square); got != tc.want {
			t.Errorf("square at phase %f: got %f, want %f", tc.phase, got, tc.want)
		}
	}
}

func TestSawRamp(t *testing.T) {
	if v := Sample(0, Saw); v != -1 {
		t.Errorf("saw at phase 0: got %f, want -1", v)
	}
	if v := Sample(0.5, Saw); v != 0 {
		t.Errorf("saw at phase 0.5: got %f, want 0", v)
	}
	if v := Sample(0.75, Saw); v != 0.5 {
		t.Errorf("saw at phase 0.75: got %f, want 0.5", v)
	}
}

func TestNextCyclesThroughAll(t *testing.T) {
	w := Sine
	seen := map[Waveform]bool{}
	for i := 0; i < NumWaveforms; i++ {
		seen[w] = true
		w = w.Next()
	}
	if w != Sine {
		t.Fatalf("after %d steps got %v, want sine", NumWaveforms, w)
	}
	if len(seen) != NumWaveforms {
		t.Fatalf("visited %d waveforms, want %d", len(seen), NumWaveforms)
	}
}

func TestAdvanceWraps(t *testing.T) {
	p := 0.0
	for i := 0; i < 48000; i++ {
		p = Advance(p, 440, 48000)
		if p < 0 || p >= 1 {
			t.Fatalf("phase %f escaped [0, 1) at sample %d", p, i)
		}
	}
	// 440 whole cycles in one second land back near zero.
	if math.Min(p, 1-p) > 1e-6 {
		t.Fatalf("phase after one second = %f, want ~0", p)
	}
	if got := Advance(0.9, 0.2*48000, 48000); math.Abs(got-0.1) > 1e-12 {
		t.Fatalf("wrap: got %f, want 0.1", got)
	}
}
