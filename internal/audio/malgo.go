package audio

import (
	"encoding/binary"
	"log"
	"math"
	"strings"

	"github.com/gen2brain/malgo"
)

type malgoSink struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device
}

func newMalgoSink(cfg Config, source SampleSource) (*malgoSink, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(msg string) {
		log.Print(strings.TrimSpace(msg))
	})
	if err != nil {
		return nil, err
	}
	dcfg := malgo.DefaultDeviceConfig(malgo.Playback)
	dcfg.Playback.Format = malgo.FormatF32
	dcfg.Playback.Channels = 1
	dcfg.SampleRate = uint32(cfg.SampleRate)
	if ms := cfg.BufferSize.Milliseconds(); ms > 0 {
		dcfg.PeriodSizeInMilliseconds = uint32(ms)
	}

	buf := make([]float32, cfg.frames())
	recv := func(out, _ []byte, framecount uint32) {
		n := int(framecount)
		if n == 0 {
			return
		}
		if cap(buf) < n {
			buf = make([]float32, n)
		}
		buf = buf[:n]
		source.Process(buf)
		for i, s := range buf {
			binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(s))
		}
	}
	device, err := malgo.InitDevice(mctx.Context, dcfg, malgo.DeviceCallbacks{Data: recv})
	if err != nil {
		_ = mctx.Uninit()
		mctx.Free()
		return nil, err
	}
	return &malgoSink{ctx: mctx, device: device}, nil
}

func (s *malgoSink) Play() {
	if err := s.device.Start(); err != nil {
		log.Printf("malgo: start: %v", err)
	}
}

func (s *malgoSink) Pause() {
	if err := s.device.Stop(); err != nil {
		log.Printf("malgo: stop: %v", err)
	}
}

func (s *malgoSink) Close() error {
	s.device.Uninit()
	err := s.ctx.Uninit()
	s.ctx.Free()
	return err
}
