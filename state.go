// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package sglib

import (
	"github.com/gviegas/sglib/gfx"
)

type indexedLight struct {
	index int
	light gfx.Light
}

// State is a node that overrides render states and
// enables lights for its child subtree.
type State struct {
	Base
	states []gfx.StateValue
	lights []indexedLight
	prev   []gfx.StateValue
}

// NewState creates an empty State.
func NewState(dev gfx.Device) *State { return &State{Base: Base{dev: dev}} }

// Type returns TypeState.
func (s *State) Type() Type { return TypeState }

// AddRenderState adds an override of key.
// Overrides are applied in the order they were added.
func (s *State) AddRenderState(key gfx.RenderState, value uint32) {
	s.states = append(s.states, gfx.StateValue{Key: key, Value: value})
}

// AddLight adds a light to enable at index.
func (s *State) AddLight(index int, l gfx.Light) {
	s.lights = append(s.lights, indexedLight{index, l})
}

// RenderStates returns the overrides of s.
func (s *State) RenderStates() []gfx.StateValue { return s.states }

// Lights returns the number of lights of s.
func (s *State) Lights() int { return len(s.lights) }

// Render applies every override whose value differs from
// the device's, remembering the replaced value, then sets
// and enables the lights.
func (s *State) Render(c *Context) {
	dev := c.Device()
	for _, x := range s.states {
		cur := dev.RenderState(x.Key)
		if cur == x.Value {
			continue
		}
		check(dev.SetRenderState(x.Key, x.Value), "state: SetRenderState", "key", x.Key)
		s.prev = append(s.prev, gfx.StateValue{Key: x.Key, Value: cur})
	}
	for i := range s.lights {
		l := &s.lights[i]
		check(dev.SetLight(l.index, &l.light), "state: SetLight", "index", l.index)
		check(dev.EnableLight(l.index, true), "state: EnableLight", "index", l.index)
	}
}

// PostRender restores the replaced render states and
// disables the lights.
func (s *State) PostRender(c *Context) {
	dev := c.Device()
	// Reverse order, so a key overridden twice ends up
	// with its original value.
	for i := len(s.prev) - 1; i >= 0; i-- {
		check(dev.SetRenderState(s.prev[i].Key, s.prev[i].Value), "state: SetRenderState", "key", s.prev[i].Key)
	}
	s.prev = s.prev[:0]
	for _, l := range s.lights {
		check(dev.EnableLight(l.index, false), "state: EnableLight", "index", l.index)
	}
}
