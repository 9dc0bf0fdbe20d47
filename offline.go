package keysynth

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cbegin/keysynth-go/internal/keymap"
)

var ErrScriptSyntax = errors.New("keysynth: script syntax error")

// MaxWait bounds a single script wait.
const MaxWait = time.Hour

type StepKind int

const (
	StepPress StepKind = iota
	StepRelease
	StepWait
)

// Step is one key event or pause in a Script.
type Step struct {
	Kind StepKind
	Key  keymap.Key
	Wait time.Duration
}

func (s Step) String() string {
	switch s.Kind {
	case StepPress:
		return "+" + s.Key.String()
	case StepRelease:
		return "-" + s.Key.String()
	default:
		return fmt.Sprintf("%dms", s.Wait.Milliseconds())
	}
}

// Script is a timed sequence of key events for offline rendering.
type Script []Step

// ParseScript reads whitespace-separated tokens: "+KEY" presses a key, "-KEY"
// releases it, a bare key name is shorthand for "+KEY" and a bare number
// (optionally suffixed "ms") waits that many milliseconds. Text after '#' on
// a line is ignored.
//
//	+Q +E +T 500 -Q -E -T F 250
func ParseScript(text string) (Script, error) {
	var sc Script
	for lineNo, line := range strings.Split(text, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, tok := range strings.Fields(line) {
			step, err := parseStep(tok)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrScriptSyntax, lineNo+1, err)
			}
			sc = append(sc, step)
		}
	}
	return sc, nil
}

func parseStep(tok string) (Step, error) {
	switch tok[0] {
	case '+', '-':
		k, err := keymap.ParseKey(tok[1:])
		if err != nil {
			return Step{}, err
		}
		if tok[0] == '+' {
			return Step{Kind: StepPress, Key: k}, nil
		}
		return Step{Kind: StepRelease, Key: k}, nil
	}
	ms, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(tok), "ms"))
	if err != nil {
		// A bare key name is shorthand for a press.
		k, kerr := keymap.ParseKey(tok)
		if kerr != nil {
			return Step{}, fmt.Errorf("bad token %q", tok)
		}
		return Step{Kind: StepPress, Key: k}, nil
	}
	if ms < 0 || ms > int(MaxWait/time.Millisecond) {
		return Step{}, fmt.Errorf("wait %q out of range [0, %v]", tok, MaxWait)
	}
	return Step{Kind: StepWait, Wait: time.Duration(ms) * time.Millisecond}, nil
}

// Duration is the total wait time of the script.
func (sc Script) Duration() time.Duration {
	var d time.Duration
	for _, st := range sc {
		if st.Kind == StepWait {
			d += st.Wait
		}
	}
	return d
}

// Frames converts d to a whole number of frames at sampleRate.
func Frames(d time.Duration, sampleRate int) int {
	return int(math.Round(d.Seconds() * float64(sampleRate)))
}

// Play drives s through the script using a latching keymap.Mapper, the same
// path the terminal front-end takes: every press of a command key fires, and
// pressing a sounding note again releases it. Each wait renders a block that
// is handed to emit with the index of its step. An Escape press ends the
// script early. s must not be attached to a device.
func (sc Script) Play(s *Synth, emit func(step int, block []float32)) {
	m := keymap.NewMapper(s, s.MapperOptions(keymap.WithLatch())...)
	for i, st := range sc {
		switch st.Kind {
		case StepPress:
			if m.Press(st.Key) == keymap.ActionQuit {
				return
			}
		case StepRelease:
			m.Release(st.Key)
		case StepWait:
			block := make([]float32, Frames(st.Wait, s.SampleRate()))
			s.Process(block)
			if emit != nil {
				emit(i, block)
			}
			continue
		}
		// Apply the command now so a long run of key events cannot
		// overflow the queue before the next wait.
		s.Process(nil)
	}
}

// RenderScript renders sc offline on a synth with no device attached.
func RenderScript(sc Script, sampleRate int, opts ...Option) ([]float32, error) {
	s, err := New(sampleRate, append(opts, WithBackend(BackendNone))...)
	if err != nil {
		return nil, err
	}
	out := make([]float32, 0, Frames(sc.Duration(), sampleRate))
	sc.Play(s, func(_ int, block []float32) {
		out = append(out, block...)
	})
	return out, nil
}

// EncodeWAVFloat32LE wraps samples in a 32-bit float WAV container.
func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}
