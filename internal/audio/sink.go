// Package audio connects a sample source to an output device.
//
// Every backend pulls samples on the device clock: the device asks for a
// block, the source renders exactly that block. Nothing on this path locks
// or allocates once the first block has been served.
package audio

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownBackend = errors.New("audio: unknown backend")

type Backend string

const (
	BackendEbiten Backend = "ebiten"
	BackendOto    Backend = "oto"
	BackendBeep   Backend = "beep"
	BackendMalgo  Backend = "malgo"
	// BackendNone opens no device; the caller drives Process itself.
	BackendNone Backend = "none"
)

func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case BackendEbiten, BackendOto, BackendBeep, BackendMalgo, BackendNone:
		return b, nil
	case "":
		return BackendEbiten, nil
	default:
		return "", fmt.Errorf("%w %q (expected ebiten|oto|beep|malgo|none)", ErrUnknownBackend, name)
	}
}

// Sink is an open output stream.
type Sink interface {
	Play()
	Pause()
	Close() error
}

// Config controls how a sink is opened.
type Config struct {
	SampleRate int
	// BufferSize is the device latency target. Zero keeps the backend default.
	BufferSize time.Duration
}

// frames returns the number of frames BufferSize covers, with a floor that
// fits typical device blocks.
func (c Config) frames() int {
	n := int(c.BufferSize.Seconds() * float64(c.SampleRate))
	if n < 4096 {
		n = 4096
	}
	return n
}

// Open binds source to the device for backend. Failing to bind the device is
// the only error the audio path reports.
func Open(backend Backend, cfg Config, source SampleSource) (Sink, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("audio: invalid sample rate %d", cfg.SampleRate)
	}
	var (
		s   Sink
		err error
	)
	switch backend {
	case BackendEbiten, "":
		s, err = newEbitenSink(cfg, source)
	case BackendOto:
		s, err = newOtoSink(cfg, source)
	case BackendBeep:
		s, err = newBeepSink(cfg, source)
	case BackendMalgo:
		s, err = newMalgoSink(cfg, source)
	case BackendNone:
		s = nullSink{}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownBackend, backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s audio: %w", backend, err)
	}
	return s, nil
}

type nullSink struct{}

func (nullSink) Play()        {}
func (nullSink) Pause()       {}
func (nullSink) Close() error { return nil }
