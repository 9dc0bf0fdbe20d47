package audio

import (
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

const defaultBeepBuffer = 50 * time.Millisecond

// monoStreamer feeds the mono source to both speaker channels.
type monoStreamer struct {
	source SampleSource
	buf    []float32
}

func (m *monoStreamer) Stream(samples [][2]float64) (int, bool) {
	n := len(samples)
	if cap(m.buf) < n {
		m.buf = make([]float32, n)
	}
	m.buf = m.buf[:n]
	m.source.Process(m.buf)
	for i, s := range m.buf {
		samples[i][0] = float64(s)
		samples[i][1] = float64(s)
	}
	return n, true
}

func (m *monoStreamer) Err() error { return nil }

type beepSink struct {
	ctrl *beep.Ctrl
}

func newBeepSink(cfg Config, source SampleSource) (*beepSink, error) {
	sr := beep.SampleRate(cfg.SampleRate)
	bufferSize := sr.N(cfg.BufferSize)
	if bufferSize <= 0 {
		bufferSize = sr.N(defaultBeepBuffer)
	}
	if err := speaker.Init(sr, bufferSize); err != nil {
		return nil, err
	}
	ms := &monoStreamer{source: source, buf: make([]float32, bufferSize)}
	ctrl := &beep.Ctrl{Streamer: ms, Paused: true}
	speaker.Play(ctrl)
	return &beepSink{ctrl: ctrl}, nil
}

func (s *beepSink) Play()  { s.setPaused(false) }
func (s *beepSink) Pause() { s.setPaused(true) }

func (s *beepSink) setPaused(p bool) {
	speaker.Lock()
	s.ctrl.Paused = p
	speaker.Unlock()
}

func (s *beepSink) Close() error {
	speaker.Clear()
	speaker.Close()
	return nil
}
