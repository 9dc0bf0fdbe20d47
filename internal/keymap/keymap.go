// Package keymap translates computer-keyboard events into synth commands.
//
// The note row follows a piano layout across the upper letter row with
// sharps on the number row above it: Q 2 W 3 E R 5 T 6 Y 7 U covers C..B.
package keymap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cbegin/keysynth-go/internal/pitch"
)

var ErrUnknownKey = errors.New("keymap: unknown key")

type Key int

const (
	KeyNone Key = iota
	KeyQ
	Key2
	KeyW
	Key3
	KeyE
	KeyR
	Key5
	KeyT
	Key6
	KeyY
	Key7
	KeyU
	KeyF
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyEscape
	numKeys
)

var keyNames = [numKeys]string{
	KeyNone:   "none",
	KeyQ:      "Q",
	Key2:      "2",
	KeyW:      "W",
	Key3:      "3",
	KeyE:      "E",
	KeyR:      "R",
	Key5:      "5",
	KeyT:      "T",
	Key6:      "6",
	KeyY:      "Y",
	Key7:      "7",
	KeyU:      "U",
	KeyF:      "F",
	KeyF1:     "F1",
	KeyF2:     "F2",
	KeyF3:     "F3",
	KeyF4:     "F4",
	KeyF5:     "F5",
	KeyF6:     "F6",
	KeyF7:     "F7",
	KeyEscape: "Escape",
}

func (k Key) String() string {
	if k < 0 || k >= numKeys {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

// ParseKey resolves a key name case-insensitively. "esc" is accepted for Escape.
func ParseKey(name string) (Key, error) {
	n := strings.TrimSpace(name)
	if strings.EqualFold(n, "esc") {
		return KeyEscape, nil
	}
	for k := KeyQ; k < numKeys; k++ {
		if strings.EqualFold(n, keyNames[k]) {
			return k, nil
		}
	}
	return KeyNone, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

// Note returns the pitch class bound to k, if k is a note key.
func (k Key) Note() (pitch.Note, bool) {
	if k >= KeyQ && k <= KeyU {
		return pitch.Note(k - KeyQ), true
	}
	return 0, false
}

// NoteKey is the inverse of Key.Note.
func NoteKey(n pitch.Note) Key {
	if !n.Valid() {
		return KeyNone
	}
	return KeyQ + Key(n)
}
