package audio

import (
	"encoding/binary"
	"math"
)

// SampleSource renders mono samples on demand. Process is called from the
// device's audio goroutine and must not block.
type SampleSource interface {
	Process(dst []float32)
}

// StreamReader adapts a mono SampleSource to an io.Reader of interleaved
// float32 little-endian frames with the given channel count. The mono signal
// is copied to every channel.
//
// Read is only ever called by one device goroutine, so the reader holds no
// lock. The conversion buffer grows only when a device asks for a larger
// block than any before it.
type StreamReader struct {
	source   SampleSource
	channels int
	buf      []float32
}

func NewStreamReader(source SampleSource, channels, frames int) *StreamReader {
	if channels < 1 {
		channels = 1
	}
	return &StreamReader{
		source:   source,
		channels: channels,
		buf:      make([]float32, frames),
	}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	frameBytes := 4 * r.channels
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}
	r.fill(frames)
	o := 0
	for _, s := range r.buf[:frames] {
		u := math.Float32bits(s)
		for c := 0; c < r.channels; c++ {
			binary.LittleEndian.PutUint32(p[o:], u)
			o += 4
		}
	}
	return frames * frameBytes, nil
}

// fill renders frames mono samples into r.buf.
func (r *StreamReader) fill(frames int) {
	if cap(r.buf) < frames {
		r.buf = make([]float32, frames)
	}
	r.buf = r.buf[:frames]
	r.source.Process(r.buf)
}

func (r *StreamReader) Close() error { return nil }
