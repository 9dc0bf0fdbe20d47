package keymap

import "github.com/cbegin/keysynth-go/internal/pitch"

// Commander receives the commands produced by a Mapper.
type Commander interface {
	NoteOn(note pitch.Note)
	NoteOff(note pitch.Note)
	AllNotesOff()
	OctaveUp()
	OctaveDown()
	CycleWaveform()
	ToggleFilter()
	AdjustCutoff(delta float64)
	AdjustResonance(delta float64)
}

type Action int

const (
	ActionNone Action = iota
	ActionHandled
	ActionQuit
)

type Option func(*Mapper)

// WithLatch makes a second press of a sounding note key release it. Use it
// for input devices that never report key releases.
func WithLatch() Option {
	return func(m *Mapper) { m.latch = true }
}

func WithCutoffStep(hz float64) Option {
	return func(m *Mapper) { m.cutoffStep = hz }
}

func WithResonanceStep(step float64) Option {
	return func(m *Mapper) { m.resonanceStep = step }
}

// Mapper is not safe for concurrent use; feed it from one input goroutine.
type Mapper struct {
	cmd           Commander
	latch         bool
	cutoffStep    float64
	resonanceStep float64
	held          [numKeys]bool
}

func NewMapper(cmd Commander, opts ...Option) *Mapper {
	m := &Mapper{
		cmd:           cmd,
		cutoffStep:    500,
		resonanceStep: 0.1,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Press handles a key-down event. Repeated presses of a held key are ignored
// unless the mapper latches, in which case a held note key is released.
func (m *Mapper) Press(k Key) Action {
	if k <= KeyNone || k >= numKeys {
		return ActionNone
	}
	if note, ok := k.Note(); ok {
		if m.held[k] {
			if m.latch {
				m.held[k] = false
				m.cmd.NoteOff(note)
			}
			return ActionHandled
		}
		m.held[k] = true
		m.cmd.NoteOn(note)
		return ActionHandled
	}
	if k == KeyEscape {
		return ActionQuit
	}
	if m.held[k] {
		return ActionHandled
	}
	// Latching inputs never release command keys, so only track them
	// when releases will arrive.
	m.held[k] = !m.latch
	switch k {
	case KeyF:
		m.cmd.CycleWaveform()
	case KeyF1:
		m.cmd.OctaveDown()
	case KeyF2:
		m.cmd.OctaveUp()
	case KeyF3:
		m.cmd.AdjustCutoff(-m.cutoffStep)
	case KeyF4:
		m.cmd.AdjustCutoff(m.cutoffStep)
	case KeyF5:
		m.cmd.ToggleFilter()
	case KeyF6:
		m.cmd.AdjustResonance(-m.resonanceStep)
	case KeyF7:
		m.cmd.AdjustResonance(m.resonanceStep)
	}
	return ActionHandled
}

// Release handles a key-up event. Only note keys produce a command.
func (m *Mapper) Release(k Key) Action {
	if k <= KeyNone || k >= numKeys || !m.held[k] {
		return ActionNone
	}
	m.held[k] = false
	if note, ok := k.Note(); ok {
		m.cmd.NoteOff(note)
	}
	return ActionHandled
}

// ReleaseAll forgets every held key and silences all notes.
func (m *Mapper) ReleaseAll() {
	m.held = [numKeys]bool{}
	m.cmd.AllNotesOff()
}

// Held reports whether the mapper considers k down.
func (m *Mapper) Held(k Key) bool {
	return k > KeyNone && k < numKeys && m.held[k]
}
