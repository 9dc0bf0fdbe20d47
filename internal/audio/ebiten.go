package audio

import (
	"fmt"
	"sync"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioSampleRate  int
)

// sharedAudioContext returns the process-wide ebiten audio context. ebiten
// allows only one, so a second request at a different rate fails.
func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

type ebitenSink struct {
	player *ebitaudio.Player
	reader *StreamReader
}

func newEbitenSink(cfg Config, source SampleSource) (*ebitenSink, error) {
	ctx, err := sharedAudioContext(cfg.SampleRate)
	if err != nil {
		return nil, err
	}
	reader := NewStreamReader(source, 2, cfg.frames())
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, err
	}
	if cfg.BufferSize > 0 {
		pl.SetBufferSize(cfg.BufferSize)
	}
	return &ebitenSink{player: pl, reader: reader}, nil
}

func (s *ebitenSink) Play()  { s.player.Play() }
func (s *ebitenSink) Pause() { s.player.Pause() }

func (s *ebitenSink) Close() error {
	s.player.Pause()
	if err := s.player.Close(); err != nil {
		return err
	}
	return s.reader.Close()
}
