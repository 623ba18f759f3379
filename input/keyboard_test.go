// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package input

import (
	"slices"
	"testing"
)

func TestState(t *testing.T) {
	var s State
	if s.Pressed(KeyUp) {
		t.Fatal("State.Pressed: zero State\nhave true\nwant false")
	}
	s.Press(KeyPad8)
	s.Press(KeyUp)
	s.KeyboardKey(KeyF24, true, ModShift)
	for _, k := range [...]Key{KeyPad8, KeyUp, KeyF24} {
		if !s.Pressed(k) {
			t.Fatalf("State.Pressed(%d)\nhave false\nwant true", k)
		}
	}
	if s.Modifiers() != ModShift {
		t.Fatalf("State.Modifiers\nhave %v\nwant %v", s.Modifiers(), ModShift)
	}
	if have, want := s.Held(), []Key{KeyUp, KeyPad8, KeyF24}; !slices.Equal(have, want) {
		t.Fatalf("State.Held\nhave %v\nwant %v", have, want)
	}
	s.Release(KeyUp)
	if s.Pressed(KeyUp) {
		t.Fatal("State.Release\nhave true\nwant false")
	}
	s.KeyboardKey(KeyUnknown, true, 0)
	if s.Pressed(KeyUnknown) {
		t.Fatal("State.KeyboardKey(KeyUnknown)\nhave true\nwant false")
	}
	s.Reset()
	if len(s.Held()) != 0 || s.Modifiers() != 0 {
		t.Fatalf("State.Reset\nhave %v %v\nwant [] 0", s.Held(), s.Modifiers())
	}
}

func TestParseKey(t *testing.T) {
	for name, want := range map[string]Key{"Up": KeyUp, "pad5": KeyPad5, "PAD9": KeyPad9, "w": KeyW} {
		if k, err := ParseKey(name); err != nil || k != want {
			t.Fatalf("ParseKey(%q)\nhave %v, %v\nwant %v, nil", name, k, err, want)
		}
	}
	if _, err := ParseKey("hyper"); err == nil {
		t.Fatal("ParseKey(\"hyper\")\nhave nil error\nwant non-nil")
	}
}
