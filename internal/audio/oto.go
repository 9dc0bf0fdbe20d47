package audio

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
)

var (
	otoOnce       sync.Once
	otoContext    *oto.Context
	otoErr        error
	otoSampleRate int
)

func sharedOtoContext(cfg Config) (*oto.Context, error) {
	otoOnce.Do(func() {
		otoSampleRate = cfg.SampleRate
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   cfg.SampleRate,
			ChannelCount: 1,
			Format:       oto.FormatFloat32LE,
			BufferSize:   cfg.BufferSize,
		})
		if err != nil {
			otoErr = err
			return
		}
		<-ready
		otoContext = ctx
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if otoSampleRate != cfg.SampleRate {
		return nil, fmt.Errorf("oto context already initialized at %d Hz (requested %d Hz)", otoSampleRate, cfg.SampleRate)
	}
	return otoContext, nil
}

type otoSink struct {
	player *oto.Player
}

func newOtoSink(cfg Config, source SampleSource) (*otoSink, error) {
	ctx, err := sharedOtoContext(cfg)
	if err != nil {
		return nil, err
	}
	return &otoSink{player: ctx.NewPlayer(NewStreamReader(source, 1, cfg.frames()))}, nil
}

func (s *otoSink) Play()  { s.player.Play() }
func (s *otoSink) Pause() { s.player.Pause() }

func (s *otoSink) Close() error {
	s.player.Pause()
	return s.player.Close()
}
