package main

import (
	"math"
	"sync/atomic"
)

const scopeRingLen = 8192

// scope keeps the most recent output samples for display. Tap runs on the
// audio goroutine and only performs atomic stores.
type scope struct {
	ring     [scopeRingLen]atomic.Uint32
	writePos atomic.Uint64
}

func (s *scope) Tap(samples []float32) {
	pos := s.writePos.Load()
	for _, v := range samples {
		s.ring[pos%scopeRingLen].Store(math.Float32bits(v))
		pos++
	}
	s.writePos.Store(pos)
}

// Snapshot copies the latest len(dst) samples into dst, oldest first.
func (s *scope) Snapshot(dst []float32) {
	n := len(dst)
	if n > scopeRingLen {
		n = scopeRingLen
		dst = dst[:n]
	}
	end := s.writePos.Load()
	start := end - uint64(n)
	if end < uint64(n) {
		start = 0
		clear(dst)
		dst = dst[uint64(n)-end:]
	}
	for i := range dst {
		dst[i] = math.Float32frombits(s.ring[(start+uint64(i))%scopeRingLen].Load())
	}
}

// findZeroCrossing finds a rising zero-crossing in samples to stabilize the waveform display.
func findZeroCrossing(samples []float32, searchLen int) int {
	if searchLen > len(samples)-2 {
		searchLen = len(samples) - 2
	}
	for i := 1; i < searchLen; i++ {
		if samples[i-1] <= 0 && samples[i] > 0 {
			return i
		}
	}
	return 0
}
