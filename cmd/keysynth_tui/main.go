package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/cbegin/keysynth-go"
	"github.com/cbegin/keysynth-go/internal/keymap"
)

// levelMeter records the block peak on the audio goroutine for the UI to
// collect.
type levelMeter struct {
	peak atomic.Uint32
}

func (l *levelMeter) Tap(samples []float32) {
	var p float32
	for _, s := range samples {
		if s < 0 {
			s = -s
		}
		p = max(p, s)
	}
	for {
		old := l.peak.Load()
		if math.Float32frombits(old) >= p || l.peak.CompareAndSwap(old, math.Float32bits(p)) {
			return
		}
	}
}

// Take returns the peak since the previous call and resets it.
func (l *levelMeter) Take() float32 {
	return math.Float32frombits(l.peak.Swap(0))
}

type tickMsg time.Time

type model struct {
	synth  *keysynth.Synth
	mapper *keymap.Mapper
	meter  *levelMeter
	level  float64
	width  int
	height int
}

func tick() tea.Cmd {
	return tea.Tick(30*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		m.level = max(float64(m.meter.Take()), m.level*0.82)
		return m, tick()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeySpace:
			m.mapper.ReleaseAll()
			return m, nil
		}
		k, err := keymap.ParseKey(msg.String())
		if err != nil {
			return m, nil
		}
		if m.mapper.Press(k) == keymap.ActionQuit {
			return m, tea.Quit
		}
	}
	return m, nil
}

var (
	panelStyle = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("#444444"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00E6C3"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00E6C3")).
			Background(lipgloss.Color("#111111")).
			Padding(0, 1)

	meterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00E6C3")).
			MarginTop(1).
			MarginBottom(1)

	keyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#AAAAAA")).
			Width(5).
			Height(3).
			Align(lipgloss.Center)

	sharpKeyStyle = keyStyle.
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#222222"))

	activeKeyStyle = keyStyle.
			BorderForeground(lipgloss.Color("#00E6C3")).
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#00E6C3")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)
)

const meterWidth = 48

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	st := m.synth.State()

	filter := "off"
	if st.FilterEnabled {
		filter = "on"
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("KEYSYNTH"),
		"   ",
		statusStyle.Render(fmt.Sprintf("oct %d  %s  filter %s  %.0fHz  res %.2f",
			st.Octave, st.Waveform, filter, st.Cutoff, st.Resonance)),
	)

	bars := int(math.Round(min(m.level, 1) * meterWidth))
	meter := meterStyle.Render(strings.Repeat("█", bars) + strings.Repeat("━", meterWidth-bars))

	keys := make([]string, 0, keysynth.B+1)
	for n := keysynth.C; n <= keysynth.B; n++ {
		style := keyStyle
		switch {
		case st.Sounding[n]:
			style = activeKeyStyle
		case n.Sharp():
			style = sharpKeyStyle
		}
		keys = append(keys, style.Render(fmt.Sprintf("%s\n%s", n, keymap.NoteKey(n))))
	}
	keyboard := lipgloss.JoinHorizontal(lipgloss.Top, keys...)

	help := helpStyle.Render("press a key to latch, again to release  •  SPACE all off\n" +
		"F wave  •  F1/F2 octave  •  F3/F4 cutoff  •  F5 filter  •  F6/F7 res  •  ESC quit")
	if n := m.synth.DroppedCommands(); n > 0 {
		help += helpStyle.Render(fmt.Sprintf("\n%d commands dropped", n))
	}

	ui := lipgloss.JoinVertical(lipgloss.Center, header, meter, keyboard, help)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panelStyle.Render(ui))
}

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 48000, "output sample rate")
		backend    = flag.String("backend", "beep", "audio backend: ebiten|oto|beep|malgo")
		volume     = flag.Float64("volume", 0.2, "master gain applied before the output limiter")
		buffer     = flag.Duration("buffer", 50*time.Millisecond, "device buffer size")
		logPath    = flag.String("log", "", "write diagnostics to this file")
		cutoffStep = flag.Float64("cutoff-step", 500, "cutoff change per F3/F4 press, in Hz")
		resStep    = flag.Float64("res-step", 0.1, "resonance change per F6/F7 press")
	)
	flag.Parse()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		log.Fatal("keysynth_tui needs an interactive terminal")
	}
	if *logPath != "" {
		f, err := tea.LogToFile(*logPath, "keysynth")
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
	}

	b, err := keysynth.ParseBackend(*backend)
	if err != nil {
		log.Fatal(err)
	}
	meter := &levelMeter{}
	s, err := keysynth.New(*sampleRate,
		keysynth.WithBackend(b),
		keysynth.WithMasterGain(*volume),
		keysynth.WithBufferSize(*buffer),
		keysynth.WithSampleTap(meter.Tap),
		keysynth.WithFilterSteps(*cutoffStep, *resStep),
	)
	if err != nil {
		log.Fatal(err)
	}
	if err := s.Start(); err != nil {
		log.Fatal(err)
	}

	if err := run(s, meter); err != nil {
		_ = s.Close()
		log.Fatal(err)
	}
	if err := s.Close(); err != nil {
		log.Printf("close audio: %v", err)
	}
}

func run(s *keysynth.Synth, meter *levelMeter) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	m := model{synth: s, mapper: keymap.NewMapper(s, s.MapperOptions(keymap.WithLatch())...), meter: meter}
	p := tea.NewProgram(m, tea.WithAltScreen())
	g.Go(func() error {
		defer stop()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		p.Quit()
		return nil
	})
	return g.Wait()
}
