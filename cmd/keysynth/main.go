package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/cbegin/keysynth-go"
	"github.com/cbegin/keysynth-go/internal/keymap"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	volumeStep = 0.05
	maxVolume  = 1.0
)

const (
	windowW = 960
	windowH = 600

	textScale = 2
	charW     = 7 * textScale
	lineH     = 14 * textScale

	scopeSamples = 2048
)

var (
	bgColor       = color.RGBA{192, 192, 192, 255}
	panelColor    = color.RGBA{192, 192, 192, 255}
	borderColor   = color.RGBA{128, 128, 128, 255}
	bevelLight    = color.RGBA{255, 255, 255, 255}
	bevelDarker   = color.RGBA{64, 64, 64, 255}
	sunkenBgColor = color.RGBA{24, 24, 32, 255}
	whiteKeyColor = color.RGBA{236, 236, 228, 255}
	blackKeyColor = color.RGBA{32, 32, 40, 255}
	heldKeyColor  = color.RGBA{0, 0, 128, 255}
	waveColor     = color.RGBA{80, 200, 255, 220}
)

var ebitenKeys = map[ebiten.Key]keymap.Key{
	ebiten.KeyQ:      keymap.KeyQ,
	ebiten.KeyDigit2: keymap.Key2,
	ebiten.KeyW:      keymap.KeyW,
	ebiten.KeyDigit3: keymap.Key3,
	ebiten.KeyE:      keymap.KeyE,
	ebiten.KeyR:      keymap.KeyR,
	ebiten.KeyDigit5: keymap.Key5,
	ebiten.KeyT:      keymap.KeyT,
	ebiten.KeyDigit6: keymap.Key6,
	ebiten.KeyY:      keymap.KeyY,
	ebiten.KeyDigit7: keymap.Key7,
	ebiten.KeyU:      keymap.KeyU,
	ebiten.KeyF:      keymap.KeyF,
	ebiten.KeyF1:     keymap.KeyF1,
	ebiten.KeyF2:     keymap.KeyF2,
	ebiten.KeyF3:     keymap.KeyF3,
	ebiten.KeyF4:     keymap.KeyF4,
	ebiten.KeyF5:     keymap.KeyF5,
	ebiten.KeyF6:     keymap.KeyF6,
	ebiten.KeyF7:     keymap.KeyF7,
	ebiten.KeyEscape: keymap.KeyEscape,
}

type game struct {
	synth  *keysynth.Synth
	mapper *keymap.Mapper
	scope  *scope

	keys     []ebiten.Key
	samples  []float32
	wavePeak float64
	focused  bool

	scopeImg  *ebiten.Image
	textCache map[string]*ebiten.Image
}

func newGame(sampleRate int, opts ...keysynth.Option) (*game, error) {
	sc := &scope{}
	s, err := keysynth.New(sampleRate, append(opts, keysynth.WithSampleTap(sc.Tap))...)
	if err != nil {
		return nil, err
	}
	if err := s.Start(); err != nil {
		return nil, err
	}
	return &game{
		synth:     s,
		mapper:    keymap.NewMapper(s, s.MapperOptions()...),
		scope:     sc,
		samples:   make([]float32, scopeSamples),
		focused:   true,
		textCache: make(map[string]*ebiten.Image, 64),
	}, nil
}

func (g *game) Update() error {
	// Releases are lost while the window is unfocused.
	if focused := ebiten.IsFocused(); focused != g.focused {
		g.focused = focused
		if !focused {
			g.mapper.ReleaseAll()
		}
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		g.synth.SetMasterGain(max(g.synth.MasterGain()-volumeStep, 0))
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		g.synth.SetMasterGain(min(g.synth.MasterGain()+volumeStep, maxVolume))
	}
	g.keys = inpututil.AppendJustReleasedKeys(g.keys[:0])
	for _, k := range g.keys {
		if mk, ok := ebitenKeys[k]; ok {
			g.mapper.Release(mk)
		}
	}
	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		mk, ok := ebitenKeys[k]
		if !ok {
			continue
		}
		if g.mapper.Press(mk) == keymap.ActionQuit {
			return ebiten.Termination
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	st := g.synth.State()

	kb := image.Rect(16, 16, windowW-16, 256)
	g.drawSunkenPanel(screen, kb)
	g.drawKeyboard(screen, kb.Inset(8), st)

	sc := image.Rect(16, 272, windowW-16, 456)
	g.drawSunkenPanel(screen, sc)
	g.drawScope(screen, sc.Inset(8))

	status := image.Rect(16, 472, windowW-16, windowH-16)
	g.drawPanel(screen, status)
	filter := "off"
	if st.FilterEnabled {
		filter = "on"
	}
	g.drawText(screen, fmt.Sprintf("Octave %d  Wave %-6s  Filter %-3s  Cutoff %5.0fHz  Res %.2f",
		st.Octave, st.Waveform, filter, st.Cutoff, st.Resonance), status.Min.X+12, status.Min.Y+8)
	g.drawText(screen, fmt.Sprintf("Volume %.2f  Backend %s", g.synth.MasterGain(), g.synth.Backend()),
		status.Min.X+12, status.Min.Y+8+lineH)
	g.drawText(screen, "F wave  F1/F2 oct  F3/F4 cutoff  F5 filter  F6/F7 res  -/= vol  Esc quit",
		status.Min.X+12, status.Min.Y+8+2*lineH)
}

func (g *game) Layout(_, _ int) (int, int) {
	return windowW, windowH
}

func (g *game) Close() {
	if err := g.synth.Close(); err != nil {
		log.Printf("close audio: %v", err)
	}
}

// drawKeyboard draws one octave: seven white keys with the five sharps on top.
func (g *game) drawKeyboard(screen *ebiten.Image, rect image.Rectangle, st keysynth.State) {
	whiteW := rect.Dx() / 7
	blackW := whiteW * 3 / 5
	blackH := rect.Dy() * 3 / 5
	white := 0
	type blackKey struct {
		x    int
		note keysynth.Note
	}
	var blacks []blackKey
	for n := keysynth.C; n <= keysynth.B; n++ {
		if n.Sharp() {
			blacks = append(blacks, blackKey{x: rect.Min.X + white*whiteW - blackW/2, note: n})
			continue
		}
		x := rect.Min.X + white*whiteW
		fill := whiteKeyColor
		if st.Sounding[n] {
			fill = heldKeyColor
		}
		ebitenutil.DrawRect(screen, float64(x+1), float64(rect.Min.Y), float64(whiteW-2), float64(rect.Dy()), fill)
		g.drawText(screen, keymap.NoteKey(n).String(), x+whiteW/2-charW/2, rect.Max.Y-lineH-6)
		white++
	}
	for _, b := range blacks {
		fill := blackKeyColor
		if st.Sounding[b.note] {
			fill = heldKeyColor
		}
		ebitenutil.DrawRect(screen, float64(b.x), float64(rect.Min.Y), float64(blackW), float64(blackH), fill)
		g.drawText(screen, keymap.NoteKey(b.note).String(), b.x+blackW/2-charW/2, rect.Min.Y+blackH-lineH-6)
	}
}

func (g *game) drawScope(screen *ebiten.Image, rect image.Rectangle) {
	width, height := rect.Dx(), rect.Dy()
	if width < 2 || height < 4 {
		return
	}
	if g.scopeImg == nil {
		g.scopeImg = ebiten.NewImage(width, height)
	}
	g.scopeImg.Fill(color.RGBA{14, 16, 22, 255})
	g.scope.Snapshot(g.samples)
	samples := g.samples
	midY := height / 2
	ebitenutil.DrawRect(g.scopeImg, 0, float64(midY), float64(width), 1, color.RGBA{40, 44, 58, 100})

	// Auto-gain: track peak with fast attack, slow release.
	peak := float32(0)
	for _, s := range samples {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	target := max(float64(peak), 0.01)
	if target > g.wavePeak {
		g.wavePeak = g.wavePeak*0.3 + target*0.7
	} else {
		g.wavePeak = g.wavePeak*0.995 + target*0.005
	}
	g.wavePeak = max(g.wavePeak, 0.01)
	gain := float64(midY-2) / g.wavePeak

	triggerOffset := findZeroCrossing(samples, len(samples)/4)
	visible := max(len(samples)-triggerOffset, 2)
	prevX := 0
	prevY := midY - int(float64(samples[triggerOffset])*gain)
	for px := 1; px < width; px++ {
		si := min(triggerOffset+px*visible/width, len(samples)-1)
		y := midY - int(float64(samples[si])*gain)
		ebitenutil.DrawLine(g.scopeImg, float64(prevX), float64(prevY), float64(px), float64(y), waveColor)
		prevX, prevY = px, y
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	screen.DrawImage(g.scopeImg, op)
}

func (g *game) drawPanel(screen *ebiten.Image, rect image.Rectangle) {
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), panelColor)
	drawBorder(screen, rect)
}

func (g *game) drawSunkenPanel(screen *ebiten.Image, rect image.Rectangle) {
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), sunkenBgColor)
	drawSunkenBorder(screen, rect)
}

// drawBorder draws a raised 3D bevel (highlight top/left, shadow bottom/right).
func drawBorder(screen *ebiten.Image, rect image.Rectangle) {
	x, y := float64(rect.Min.X), float64(rect.Min.Y)
	w, h := float64(rect.Dx()), float64(rect.Dy())
	ebitenutil.DrawRect(screen, x, y, w-1, 1, bevelLight)
	ebitenutil.DrawRect(screen, x, y+1, 1, h-2, bevelLight)
	ebitenutil.DrawRect(screen, x, y+h-1, w, 1, bevelDarker)
	ebitenutil.DrawRect(screen, x+w-1, y, 1, h, bevelDarker)
}

func drawSunkenBorder(screen *ebiten.Image, rect image.Rectangle) {
	x, y := float64(rect.Min.X), float64(rect.Min.Y)
	w, h := float64(rect.Dx()), float64(rect.Dy())
	ebitenutil.DrawRect(screen, x, y, w-1, 1, borderColor)
	ebitenutil.DrawRect(screen, x, y+1, 1, h-2, borderColor)
	ebitenutil.DrawRect(screen, x, y+h-1, w, 1, bevelLight)
	ebitenutil.DrawRect(screen, x+w-1, y, 1, h, bevelLight)
}

func (g *game) drawText(screen *ebiten.Image, msg string, x int, y int) {
	if msg == "" {
		return
	}
	img := g.textCache[msg]
	if img == nil {
		img = ebiten.NewImage(max(1, len([]rune(msg))*7), 14)
		ebitenutil.DebugPrintAt(img, msg, 0, 0)
		if len(g.textCache) > 512 {
			g.textCache = make(map[string]*ebiten.Image, 64)
		}
		g.textCache[msg] = img
	}
	opS := &ebiten.DrawImageOptions{}
	opS.GeoM.Scale(textScale, textScale)
	opS.GeoM.Translate(float64(x+2), float64(y+2))
	opS.ColorScale.Scale(0, 0, 0, 1)
	screen.DrawImage(img, opS)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(textScale, textScale)
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(img, op)
}

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 48000, "output sample rate")
		backend    = flag.String("backend", "ebiten", "audio backend: ebiten|oto|beep|malgo")
		volume     = flag.Float64("volume", 0.2, "master gain applied before the output limiter")
		buffer     = flag.Duration("buffer", 0, "device buffer size (0 = backend default)")
		cutoffStep = flag.Float64("cutoff-step", 500, "cutoff change per F3/F4 press, in Hz")
		resStep    = flag.Float64("res-step", 0.1, "resonance change per F6/F7 press")
	)
	flag.Parse()

	b, err := keysynth.ParseBackend(*backend)
	if err != nil {
		log.Fatal(err)
	}
	g, err := newGame(*sampleRate,
		keysynth.WithBackend(b),
		keysynth.WithMasterGain(*volume),
		keysynth.WithBufferSize(*buffer),
		keysynth.WithFilterSteps(*cutoffStep, *resStep),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()

	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowTitle("keysynth")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
