package main

import (
	"math"
	"testing"

	"github.com/cbegin/keysynth-go"
)

func TestDefaultScriptParses(t *testing.T) {
	sc, err := keysynth.ParseScript(defaultScript)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Duration() == 0 {
		t.Fatal("default script has no waits")
	}
}

func TestLevels(t *testing.T) {
	peak, rms := levels([]float32{0.5, -1, 0.5, 0})
	if peak != 1 {
		t.Fatalf("peak = %f", peak)
	}
	if want := math.Sqrt(1.5 / 4); math.Abs(rms-want) > 1e-9 {
		t.Fatalf("rms = %f, want %f", rms, want)
	}
	if p, r := levels(nil); p != 0 || r != 0 {
		t.Fatal("empty block should be silent")
	}
}

func TestResolveScriptInputPrefersInline(t *testing.T) {
	got, err := resolveScriptInput("/does/not/exist", "+Q 10")
	if err != nil || got != "+Q 10" {
		t.Fatalf("got %q, %v", got, err)
	}
	if got, _ := resolveScriptInput("", ""); got != defaultScript {
		t.Fatal("expected default script")
	}
	if _, err := resolveScriptInput("/does/not/exist", ""); err == nil {
		t.Fatal("expected read error")
	}
}
