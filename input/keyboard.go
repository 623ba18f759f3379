// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package input

import (
	"errors"
	"strings"

	"github.com/gviegas/sglib/internal/bitvec"
)

// Keyboard is the interface that reports whether a key is
// currently held down.
type Keyboard interface {
	Pressed(key Key) bool
}

// State is a Keyboard that tracks key presses and releases.
// It implements the key callback of a window system handler,
// so it can be fed directly by event dispatch.
// The zero value is ready for use.
type State struct {
	keys bitvec.V[uint64]
	mod  Modifier
}

// KeyboardKey records that key was pressed or released.
func (s *State) KeyboardKey(key Key, pressed bool, modMask Modifier) {
	s.mod = modMask
	if key <= KeyUnknown {
		return
	}
	s.keys.Fit(int(key))
	if pressed {
		s.keys.Set(int(key))
	} else {
		s.keys.Unset(int(key))
	}
}

// Press marks key as held down.
func (s *State) Press(key Key) { s.KeyboardKey(key, true, s.mod) }

// Release marks key as not held down.
func (s *State) Release(key Key) { s.KeyboardKey(key, false, s.mod) }

// Pressed returns whether key is held down.
func (s *State) Pressed(key Key) bool { return s.keys.IsSet(int(key)) }

// Modifiers returns the modifier mask of the last event.
func (s *State) Modifiers() Modifier { return s.mod }

// Held returns the keys currently held down, in Key order.
func (s *State) Held() (keys []Key) {
	for i := range s.keys.Ones() {
		keys = append(keys, Key(i))
	}
	return
}

// Reset releases every key.
// It is meant to be called when keyboard focus is lost.
func (s *State) Reset() {
	s.keys.Clear()
	s.mod = 0
}

var keyNames = map[string]Key{
	"up":       KeyUp,
	"down":     KeyDown,
	"left":     KeyLeft,
	"right":    KeyRight,
	"space":    KeySpace,
	"esc":      KeyEsc,
	"return":   KeyReturn,
	"pad0":     KeyPad0,
	"pad1":     KeyPad1,
	"pad2":     KeyPad2,
	"pad3":     KeyPad3,
	"pad4":     KeyPad4,
	"pad5":     KeyPad5,
	"pad6":     KeyPad6,
	"pad7":     KeyPad7,
	"pad8":     KeyPad8,
	"pad9":     KeyPad9,
	"w":        KeyW,
	"a":        KeyA,
	"s":        KeyS,
	"d":        KeyD,
	"pageup":   KeyPageUp,
	"pagedown": KeyPageDown,
}

var errUnknownKey = errors.New("input: unknown key name")

// ParseKey returns the Key identified by name.
// Names are case-insensitive (e.g., "Up", "pad8", "W").
func ParseKey(name string) (Key, error) {
	if k, ok := keyNames[strings.ToLower(name)]; ok {
		return k, nil
	}
	return KeyUnknown, errUnknownKey
}
