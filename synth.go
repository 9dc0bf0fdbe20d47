// Package keysynth is a polyphonic keyboard synthesizer: twelve keys mapped to
// one octave of notes, a switchable oscillator waveform and a resonant
// low-pass filter, rendered in real time to an audio device.
//
// A Synth owns one engine. Control methods (NoteOn, OctaveUp, ...) may be
// called from any goroutine; they enqueue commands that the audio path applies
// at the start of the next block, so input handling never contends with
// sample production.
package keysynth

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	intaudio "github.com/cbegin/keysynth-go/internal/audio"
	"github.com/cbegin/keysynth-go/internal/engine"
	"github.com/cbegin/keysynth-go/internal/keymap"
	"github.com/cbegin/keysynth-go/internal/osc"
	"github.com/cbegin/keysynth-go/internal/pitch"
)

type (
	Note     = pitch.Note
	Waveform = osc.Waveform
	State    = engine.State
	Backend  = intaudio.Backend
)

const (
	C      = pitch.C
	CSharp = pitch.CSharp
	D      = pitch.D
	DSharp = pitch.DSharp
	E      = pitch.E
	F      = pitch.F
	FSharp = pitch.FSharp
	G      = pitch.G
	GSharp = pitch.GSharp
	A      = pitch.A
	ASharp = pitch.ASharp
	B      = pitch.B
)

const (
	Sine   = osc.Sine
	Square = osc.Square
	Saw    = osc.Saw
)

const (
	BackendEbiten = intaudio.BackendEbiten
	BackendOto    = intaudio.BackendOto
	BackendBeep   = intaudio.BackendBeep
	BackendMalgo  = intaudio.BackendMalgo
	BackendNone   = intaudio.BackendNone
)

var (
	ErrUnknownBackend    = intaudio.ErrUnknownBackend
	ErrInvalidSampleRate = errors.New("keysynth: sample rate must be positive")
)

// ParseBackend resolves a backend name; the empty string selects ebiten.
func ParseBackend(name string) (Backend, error) {
	return intaudio.ParseBackend(name)
}

type Option func(*config)

type config struct {
	backend    Backend
	params     engine.Params
	sampleTap  func([]float32)
	bufferSize time.Duration
}

func defaultConfig() config {
	return config{backend: BackendEbiten, params: engine.DefaultParams()}
}

func WithBackend(b Backend) Option {
	return func(cfg *config) {
		cfg.backend = b
	}
}

// WithMasterGain scales the summed voices before the output limiter.
func WithMasterGain(gain float64) Option {
	return func(cfg *config) {
		cfg.params.MasterGain = gain
	}
}

// WithSampleTap installs a callback invoked with each rendered mono block.
// The callback runs on the audio goroutine; keep work brief and non-blocking.
func WithSampleTap(tap func([]float32)) Option {
	return func(cfg *config) {
		cfg.sampleTap = tap
	}
}

// WithBufferSize sets the device latency target.
func WithBufferSize(d time.Duration) Option {
	return func(cfg *config) {
		cfg.bufferSize = d
	}
}

// WithFilterSteps sets how far one cutoff or resonance key press moves the
// filter.
func WithFilterSteps(cutoffHz, resonance float64) Option {
	return func(cfg *config) {
		cfg.params.CutoffStep = cutoffHz
		cfg.params.ResonanceStep = resonance
	}
}

// WithQueueCapacity bounds the number of commands that may be pending
// between two audio blocks.
func WithQueueCapacity(n int) Option {
	return func(cfg *config) {
		cfg.params.QueueCapacity = n
	}
}

type Synth struct {
	mu         sync.Mutex // serializes producers; never taken by Process
	engine     *engine.Engine
	queue      *engine.Queue
	sampleRate int
	backend    Backend
	bufferSize time.Duration
	sampleTap  func([]float32)
	sink       intaudio.Sink
	dropped    atomic.Uint64
}

func New(sampleRate int, opts ...Option) (*Synth, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if _, err := intaudio.ParseBackend(string(cfg.backend)); err != nil {
		return nil, err
	}
	eng := engine.New(sampleRate, cfg.params)
	return &Synth{
		engine:     eng,
		queue:      eng.Commands(),
		sampleRate: sampleRate,
		backend:    cfg.backend,
		bufferSize: cfg.bufferSize,
		sampleTap:  cfg.sampleTap,
	}, nil
}

func (s *Synth) SampleRate() int  { return s.sampleRate }
func (s *Synth) Backend() Backend { return s.backend }

// Start binds the synth to its audio device and begins playback. Calling
// Start again resumes a paused sink.
func (s *Synth) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sink == nil {
		sink, err := intaudio.Open(s.backend, intaudio.Config{
			SampleRate: s.sampleRate,
			BufferSize: s.bufferSize,
		}, s)
		if err != nil {
			return err
		}
		s.sink = sink
	}
	s.sink.Play()
	return nil
}

func (s *Synth) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sink != nil {
		s.sink.Pause()
	}
}

// Close tears down the device binding. The synth may be started again.
func (s *Synth) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sink == nil {
		return nil
	}
	err := s.sink.Close()
	s.sink = nil
	return err
}

// Process renders the next len(dst) samples. Devices call it through the
// sink; with BackendNone the caller drives it directly. Only one goroutine
// may call Process. Samples are the voice sum times MasterGain, hard-limited
// to [-1, 1].
func (s *Synth) Process(dst []float32) {
	s.engine.Process(dst)
	if s.sampleTap != nil && len(dst) > 0 {
		s.sampleTap(dst)
	}
}

// State returns the state published by the most recent block.
func (s *Synth) State() State {
	return s.engine.Snapshot()
}

// DroppedCommands counts commands discarded because the queue was full.
func (s *Synth) DroppedCommands() uint64 {
	return s.dropped.Load()
}

// SetMasterGain changes the gain applied before the limiter. It takes effect
// on the next sample; negative values clamp to silence.
func (s *Synth) SetMasterGain(gain float64) {
	s.engine.SetMasterGain(gain)
}

func (s *Synth) MasterGain() float64 { return s.engine.MasterGain() }

// CutoffStep and ResonanceStep are the per-press filter deltas configured by
// WithFilterSteps.
func (s *Synth) CutoffStep() float64    { return s.engine.CutoffStep() }
func (s *Synth) ResonanceStep() float64 { return s.engine.ResonanceStep() }

// MapperOptions returns keymap options carrying the synth's filter steps.
func (s *Synth) MapperOptions(extra ...keymap.Option) []keymap.Option {
	return append([]keymap.Option{
		keymap.WithCutoffStep(s.CutoffStep()),
		keymap.WithResonanceStep(s.ResonanceStep()),
	}, extra...)
}

func (s *Synth) NoteOn(n Note)  { s.send(engine.Command{Op: engine.OpNoteOn, Note: n}) }
func (s *Synth) NoteOff(n Note) { s.send(engine.Command{Op: engine.OpNoteOff, Note: n}) }
func (s *Synth) AllNotesOff()   { s.send(engine.Command{Op: engine.OpAllNotesOff}) }
func (s *Synth) OctaveUp()      { s.send(engine.Command{Op: engine.OpOctaveUp}) }
func (s *Synth) OctaveDown()    { s.send(engine.Command{Op: engine.OpOctaveDown}) }
func (s *Synth) CycleWaveform() { s.send(engine.Command{Op: engine.OpCycleWaveform}) }
func (s *Synth) ToggleFilter()  { s.send(engine.Command{Op: engine.OpToggleFilter}) }

// AdjustCutoff moves the filter cutoff by delta Hz.
func (s *Synth) AdjustCutoff(delta float64) {
	s.send(engine.Command{Op: engine.OpAdjustCutoff, Delta: delta})
}

func (s *Synth) AdjustResonance(delta float64) {
	s.send(engine.Command{Op: engine.OpAdjustResonance, Delta: delta})
}

func (s *Synth) send(c engine.Command) {
	s.mu.Lock()
	ok := s.queue.Push(c)
	s.mu.Unlock()
	if !ok {
		s.dropped.Add(1)
	}
}
