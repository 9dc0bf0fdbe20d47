package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cbegin/keysynth-go"
	"github.com/cbegin/keysynth-go/internal/keymap"
)

func newTestModel(t *testing.T) model {
	t.Helper()
	s, err := keysynth.New(48000, keysynth.WithBackend(keysynth.BackendNone))
	if err != nil {
		t.Fatal(err)
	}
	return model{synth: s, mapper: keymap.NewMapper(s, s.MapperOptions(keymap.WithLatch())...), meter: &levelMeter{}}
}

func press(m model, r rune) model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return next.(model)
}

func TestLatchingKeys(t *testing.T) {
	m := newTestModel(t)
	m = press(m, 'q')
	m = press(m, 'y')
	m.synth.Process(nil)
	if st := m.synth.State(); !st.Sounding[keysynth.C] || !st.Sounding[keysynth.A] {
		t.Fatalf("expected C and A sounding: %+v", st.Sounding)
	}
	m = press(m, 'q')
	m.synth.Process(nil)
	if st := m.synth.State(); st.Sounding[keysynth.C] || !st.Sounding[keysynth.A] {
		t.Fatalf("second press should release C only: %+v", st.Sounding)
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = next.(model)
	m.synth.Process(nil)
	if m.synth.State().ActiveVoices() != 0 {
		t.Fatal("space did not silence latched notes")
	}
}

func TestFunctionKeysAndQuit(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyF5})
	m = next.(model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyF2})
	m = next.(model)
	m.synth.Process(nil)
	st := m.synth.State()
	if !st.FilterEnabled || st.Octave != 5 {
		t.Fatalf("unexpected state %+v", st)
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEscape}); cmd == nil {
		t.Fatal("escape should quit")
	}
}

func TestLevelMeterTakesPeak(t *testing.T) {
	var l levelMeter
	l.Tap([]float32{0.1, -0.6, 0.3})
	l.Tap([]float32{0.2})
	if got := l.Take(); got != 0.6 {
		t.Fatalf("peak = %f, want 0.6", got)
	}
	if got := l.Take(); got != 0 {
		t.Fatalf("peak after take = %f, want 0", got)
	}
}
