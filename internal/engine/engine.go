package engine

import (
	"math"
	"sync/atomic"

	"golang.org/x/exp/constraints"

	"github.com/cbegin/keysynth-go/internal/filter"
	"github.com/cbegin/keysynth-go/internal/osc"
	"github.com/cbegin/keysynth-go/internal/pitch"
)

// DefaultSampleRate is used when New is given a non-positive rate.
const DefaultSampleRate = 48000

type Params struct {
	MasterGain    float64
	Octave        int
	Waveform      osc.Waveform
	FilterEnabled bool
	Cutoff        float64 // Hz
	Resonance     float64 // 0..filter.MaxResonance
	CutoffStep    float64 // Hz per cutoff up/down command
	ResonanceStep float64
	QueueCapacity int
}

func DefaultParams() Params {
	return Params{
		MasterGain:    0.2,
		Octave:        pitch.DefaultOctave,
		Waveform:      osc.Sine,
		FilterEnabled: false,
		Cutoff:        2000,
		Resonance:     0.2,
		CutoffStep:    500,
		ResonanceStep: 0.1,
		QueueCapacity: 256,
	}
}

// Engine owns every voice and the global synth parameters. All mutation
// happens on the goroutine that calls Process (the audio path); other
// goroutines hand commands over through Commands() and observe state via
// Snapshot().
type Engine struct {
	sampleRate float64
	params     Params
	voices     [pitch.NumNotes]voice
	octave     int
	waveform   osc.Waveform
	filterOn   bool
	coeffs     filter.Coeffs
	masterGain uint64
	queue      *Queue
	snap       snapshot
}

func New(sampleRate int, params Params) *Engine {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if params.QueueCapacity <= 0 {
		params.QueueCapacity = 256
	}
	if !params.Waveform.Valid() {
		params.Waveform = osc.Sine
	}
	e := &Engine{
		sampleRate: float64(sampleRate),
		params:     params,
		octave:     pitch.ClampOctave(params.Octave),
		waveform:   params.Waveform,
		filterOn:   params.FilterEnabled,
		coeffs:     filter.NewCoeffs(float64(sampleRate), params.Cutoff, params.Resonance),
		queue:      NewQueue(params.QueueCapacity),
	}
	e.SetMasterGain(params.MasterGain)
	e.publish()
	return e
}

func (e *Engine) SampleRate() int {
	return int(e.sampleRate)
}

// Commands returns the queue drained at the start of every Process call.
func (e *Engine) Commands() *Queue {
	return e.queue
}

// NoteOn starts (or retriggers) the voice for note at the current octave.
func (e *Engine) NoteOn(note pitch.Note) {
	if !note.Valid() {
		return
	}
	e.voices[note].start(note, e.octave)
	e.publish()
}

// NoteOff silences the voice for note. Releasing an idle note is a no-op.
func (e *Engine) NoteOff(note pitch.Note) {
	if !note.Valid() {
		return
	}
	e.voices[note].stop()
	e.publish()
}

func (e *Engine) AllNotesOff() {
	for i := range e.voices {
		e.voices[i].stop()
	}
	e.publish()
}

// OctaveUp raises the octave used by subsequent note-ons. Sounding voices keep
// the octave they started with.
func (e *Engine) OctaveUp() {
	e.octave = clamp(e.octave+1, pitch.MinOctave, pitch.MaxOctave)
	e.publish()
}

func (e *Engine) OctaveDown() {
	e.octave = clamp(e.octave-1, pitch.MinOctave, pitch.MaxOctave)
	e.publish()
}

func (e *Engine) CycleWaveform() {
	e.waveform = e.waveform.Next()
	e.publish()
}

// ToggleFilter flips the filter. Enabling it starts every voice's filter from
// clear registers.
func (e *Engine) ToggleFilter() {
	e.filterOn = !e.filterOn
	if e.filterOn {
		for i := range e.voices {
			e.voices[i].filter.Reset()
		}
	}
	e.publish()
}

func (e *Engine) AdjustCutoff(delta float64) {
	e.setFilter(e.coeffs.Cutoff+delta, e.coeffs.Resonance)
}

func (e *Engine) AdjustResonance(delta float64) {
	e.setFilter(e.coeffs.Cutoff, e.coeffs.Resonance+delta)
}

func (e *Engine) setFilter(cutoff, resonance float64) {
	cutoff = filter.ClampCutoff(cutoff, e.sampleRate)
	resonance = filter.ClampResonance(resonance)
	if cutoff != e.coeffs.Cutoff || resonance != e.coeffs.Resonance {
		e.coeffs = filter.NewCoeffs(e.sampleRate, cutoff, resonance)
	}
	e.publish()
}

// CutoffStep and ResonanceStep are the deltas used by the up/down commands.
func (e *Engine) CutoffStep() float64    { return e.params.CutoffStep }
func (e *Engine) ResonanceStep() float64 { return e.params.ResonanceStep }

// Apply executes one command.
func (e *Engine) Apply(c Command) {
	switch c.Op {
	case OpNoteOn:
		e.NoteOn(c.Note)
	case OpNoteOff:
		e.NoteOff(c.Note)
	case OpOctaveUp:
		e.OctaveUp()
	case OpOctaveDown:
		e.OctaveDown()
	case OpCycleWaveform:
		e.CycleWaveform()
	case OpToggleFilter:
		e.ToggleFilter()
	case OpAdjustCutoff:
		e.AdjustCutoff(c.Delta)
	case OpAdjustResonance:
		e.AdjustResonance(c.Delta)
	case OpAllNotesOff:
		e.AllNotesOff()
	}
}

// drain applies every queued command in arrival order.
func (e *Engine) drain() {
	for {
		c, ok := e.queue.Pop()
		if !ok {
			return
		}
		e.Apply(c)
	}
}

// RenderFrame produces one mono sample: the sum of all sounding voices,
// scaled by the master gain and hard-limited to [-1, 1].
func (e *Engine) RenderFrame() float32 {
	var c *filter.Coeffs
	if e.filterOn {
		c = &e.coeffs
	}
	var mix float64
	for i := range e.voices {
		v := &e.voices[i]
		if !v.active {
			continue
		}
		mix += v.tick(e.waveform, c, e.sampleRate)
	}
	mix *= e.masterGainValue()
	return float32(clamp(mix, -1, 1))
}

// Process applies pending commands, then fills dst with consecutive samples.
// Each sample is the voice sum scaled by the master gain and then
// hard-limited, so the output equals the plain sum only at unity gain.
// It does not allocate, lock or block.
func (e *Engine) Process(dst []float32) {
	e.drain()
	for i := range dst {
		dst[i] = e.RenderFrame()
	}
}

// ProduceBlock returns the next n samples in a new slice.
func (e *Engine) ProduceBlock(n int) []float32 {
	if n < 0 {
		n = 0
	}
	out := make([]float32, n)
	e.Process(out)
	return out
}

func (e *Engine) SetMasterGain(gain float64) {
	if gain < 0 {
		gain = 0
	}
	atomic.StoreUint64(&e.masterGain, math.Float64bits(gain))
}

// MasterGain returns the gain applied to the voice sum before the limiter.
func (e *Engine) MasterGain() float64 {
	return e.masterGainValue()
}

func (e *Engine) masterGainValue() float64 {
	return math.Float64frombits(atomic.LoadUint64(&e.masterGain))
}

func (e *Engine) ActiveVoiceCount() int {
	n := 0
	for i := range e.voices {
		if e.voices[i].active {
			n++
		}
	}
	return n
}

// Sounding reports whether the voice for note is active.
func (e *Engine) Sounding(note pitch.Note) bool {
	return note.Valid() && e.voices[note].active
}

// VoiceOctave returns the octave captured by the voice for note at note-on.
func (e *Engine) VoiceOctave(note pitch.Note) (int, bool) {
	if !e.Sounding(note) {
		return 0, false
	}
	return e.voices[note].octave, true
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
