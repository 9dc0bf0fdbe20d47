package keymap

import (
	"errors"
	"reflect"
	"testing"

	"github.com/cbegin/keysynth-go/internal/pitch"
)

type recorder struct {
	calls []string
}

func (r *recorder) NoteOn(n pitch.Note)  { r.calls = append(r.calls, "on "+n.String()) }
func (r *recorder) NoteOff(n pitch.Note) { r.calls = append(r.calls, "off "+n.String()) }
func (r *recorder) AllNotesOff()         { r.calls = append(r.calls, "all-off") }
func (r *recorder) OctaveUp()            { r.calls = append(r.calls, "oct+") }
func (r *recorder) OctaveDown()          { r.calls = append(r.calls, "oct-") }
func (r *recorder) CycleWaveform()       { r.calls = append(r.calls, "wave") }
func (r *recorder) ToggleFilter()        { r.calls = append(r.calls, "filter") }
func (r *recorder) AdjustCutoff(d float64) {
	if d > 0 {
		r.calls = append(r.calls, "cutoff+")
	} else {
		r.calls = append(r.calls, "cutoff-")
	}
}
func (r *recorder) AdjustResonance(d float64) {
	if d > 0 {
		r.calls = append(r.calls, "res+")
	} else {
		r.calls = append(r.calls, "res-")
	}
}

func TestNoteRowLayout(t *testing.T) {
	want := []string{"Q", "2", "W", "3", "E", "R", "5", "T", "6", "Y", "7", "U"}
	for i, name := range want {
		k, err := ParseKey(name)
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", name, err)
		}
		n, ok := k.Note()
		if !ok || n != pitch.Note(i) {
			t.Fatalf("%s maps to %v (%v), want %v", name, n, ok, pitch.Note(i))
		}
		if NoteKey(n) != k {
			t.Fatalf("NoteKey(%v) = %v, want %v", n, NoteKey(n), k)
		}
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want Key
	}{
		{"q", KeyQ},
		{"f", KeyF},
		{"F5", KeyF5},
		{" escape ", KeyEscape},
		{"ESC", KeyEscape},
	}
	for _, tt := range tests {
		got, err := ParseKey(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseKey(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseKey("Z"); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if _, err := ParseKey("none"); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("none must not parse, got %v", err)
	}
}

func TestPressReleaseNotes(t *testing.T) {
	r := &recorder{}
	m := NewMapper(r)
	m.Press(KeyQ)
	m.Press(KeyQ) // auto-repeat
	m.Press(Key2)
	m.Release(KeyQ)
	m.Release(KeyQ)
	m.Release(Key2)
	want := []string{"on C", "on C#", "off C", "off C#"}
	if !reflect.DeepEqual(r.calls, want) {
		t.Fatalf("calls = %v, want %v", r.calls, want)
	}
}

func TestCommandKeys(t *testing.T) {
	r := &recorder{}
	m := NewMapper(r)
	for _, k := range []Key{KeyF, KeyF1, KeyF2, KeyF3, KeyF4, KeyF5, KeyF6, KeyF7} {
		if a := m.Press(k); a != ActionHandled {
			t.Fatalf("Press(%v) = %v", k, a)
		}
		m.Press(k)
		m.Release(k)
	}
	want := []string{"wave", "oct-", "oct+", "cutoff-", "cutoff+", "filter", "res-", "res+"}
	if !reflect.DeepEqual(r.calls, want) {
		t.Fatalf("calls = %v, want %v", r.calls, want)
	}
	if a := m.Press(KeyEscape); a != ActionQuit {
		t.Fatalf("Escape = %v, want quit", a)
	}
}

func TestUnmappedKeyIgnored(t *testing.T) {
	r := &recorder{}
	m := NewMapper(r)
	if a := m.Press(KeyNone); a != ActionNone {
		t.Fatalf("Press(KeyNone) = %v", a)
	}
	if a := m.Press(Key(999)); a != ActionNone {
		t.Fatalf("Press(999) = %v", a)
	}
	if a := m.Release(KeyW); a != ActionNone {
		t.Fatalf("Release of unheld key = %v", a)
	}
	if len(r.calls) != 0 {
		t.Fatalf("unexpected calls %v", r.calls)
	}
}

func TestLatchMode(t *testing.T) {
	r := &recorder{}
	m := NewMapper(r, WithLatch())
	m.Press(KeyE)
	m.Press(KeyE)
	m.Press(KeyF2)
	m.Press(KeyF2)
	m.Press(KeyT)
	m.Press(KeyY)
	m.ReleaseAll()
	want := []string{"on E", "off E", "oct+", "oct+", "on G", "on A", "all-off"}
	if !reflect.DeepEqual(r.calls, want) {
		t.Fatalf("calls = %v, want %v", r.calls, want)
	}
	if m.Held(KeyT) || m.Held(KeyY) {
		t.Fatal("ReleaseAll left keys held")
	}
}

func TestStepOptions(t *testing.T) {
	var got []float64
	c := &stepRecorder{deltas: &got}
	m := NewMapper(c, WithCutoffStep(100), WithResonanceStep(0.05))
	m.Press(KeyF4)
	m.Press(KeyF6)
	if !reflect.DeepEqual(got, []float64{100, -0.05}) {
		t.Fatalf("deltas = %v", got)
	}
}

type stepRecorder struct {
	recorder
	deltas *[]float64
}

func (s *stepRecorder) AdjustCutoff(d float64)    { *s.deltas = append(*s.deltas, d) }
func (s *stepRecorder) AdjustResonance(d float64) { *s.deltas = append(*s.deltas, d) }
