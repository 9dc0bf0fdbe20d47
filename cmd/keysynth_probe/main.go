package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	"github.com/cbegin/keysynth-go"
)

const defaultScript = `# C major triad on each waveform, then a filter sweep
+Q +E +T 400 -Q -E -T 100
F +Q +E +T 400 -Q -E -T 100
F +Q +E +T 400 -Q -E -T 100
F5 F6 F6 +Q 200 F3 F3 F3 200 F7 F7 F7 200 -Q 100`

func main() {
	var (
		sampleRate   = flag.Int("sample-rate", 48000, "render sample rate")
		scriptPath   = flag.String("file", "", "path to a key script")
		scriptInline = flag.String("script", "", "inline key script")
		volume       = flag.Float64("volume", 0.2, "master gain applied before the output limiter")
		outPath      = flag.String("out", "", "write the rendering to this WAV file")
	)
	flag.Parse()

	text, err := resolveScriptInput(*scriptPath, *scriptInline)
	if err != nil {
		log.Fatal(err)
	}
	sc, err := keysynth.ParseScript(text)
	if err != nil {
		log.Fatal(err)
	}
	s, err := keysynth.New(*sampleRate, keysynth.WithBackend(keysynth.BackendNone), keysynth.WithMasterGain(*volume))
	if err != nil {
		log.Fatal(err)
	}

	var all []float32
	next := 0
	sc.Play(s, func(step int, block []float32) {
		events := make([]string, 0, step-next)
		for _, st := range sc[next:step] {
			events = append(events, st.String())
		}
		next = step + 1
		peak, rms := levels(block)
		st := s.State()
		fmt.Printf("%-24s %6dms  voices=%d oct=%d wave=%-6s filter=%-5v cutoff=%5.0f res=%.2f  peak=%.3f rms=%.3f\n",
			strings.Join(events, " "), sc[step].Wait.Milliseconds(), st.ActiveVoices(), st.Octave,
			st.Waveform, st.FilterEnabled, st.Cutoff, st.Resonance, peak, rms)
		all = append(all, block...)
	})

	if *outPath != "" {
		if err := os.WriteFile(*outPath, keysynth.EncodeWAVFloat32LE(all, *sampleRate, 1), 0o644); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("wrote %s (%d samples)\n", *outPath, len(all))
	}
}

func resolveScriptInput(path string, inline string) (string, error) {
	if strings.TrimSpace(inline) != "" {
		return inline, nil
	}
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return defaultScript, nil
}

func levels(block []float32) (peak, rms float64) {
	if len(block) == 0 {
		return 0, 0
	}
	var sum float64
	for _, s := range block {
		v := float64(s)
		peak = max(peak, math.Abs(v))
		sum += v * v
	}
	return peak, math.Sqrt(sum / float64(len(block)))
}
