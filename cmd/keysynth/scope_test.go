package main

import "testing"

func TestScopeSnapshotReturnsLatest(t *testing.T) {
	var s scope
	s.Tap([]float32{1, 2, 3})
	dst := make([]float32, 5)
	s.Snapshot(dst)
	want := []float32{0, 0, 1, 2, 3}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst = %v, want %v", dst, want)
		}
	}
	big := make([]float32, scopeRingLen+10)
	for i := range big {
		big[i] = float32(i)
	}
	s.Tap(big)
	dst = make([]float32, 4)
	s.Snapshot(dst)
	last := float32(len(big) - 1)
	for i := range dst {
		if dst[i] != last-float32(3-i) {
			t.Fatalf("wrapped dst = %v", dst)
		}
	}
}

func TestFindZeroCrossing(t *testing.T) {
	if got := findZeroCrossing([]float32{0.5, -0.2, -0.1, 0.3, 0.6, 0.7}, 6); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
	if got := findZeroCrossing([]float32{1, 1, 1}, 3); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}
