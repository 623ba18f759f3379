// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package sglib

import (
	"github.com/gviegas/sglib/gfx"
	"github.com/gviegas/sglib/linear"
)

// Context is the state threaded through a traversal.
// It owns the stack of device matrices that nodes replace
// on the way down and restore on the way up.
type Context struct {
	dev   gfx.Device
	saved []savedMatrix
}

type savedMatrix struct {
	slot gfx.Slot
	m    linear.M4
}

// NewContext creates a Context for dev.
func NewContext(dev gfx.Device) *Context { return &Context{dev: dev} }

// Device returns the device of c.
func (c *Context) Device() gfx.Device { return c.dev }

// Matrix returns the current matrix of slot s.
func (c *Context) Matrix(s gfx.Slot) linear.M4 { return c.dev.Matrix(s) }

// PushMatrix saves the current matrix of slot s and
// replaces it with m.
func (c *Context) PushMatrix(s gfx.Slot, m *linear.M4) {
	c.saved = append(c.saved, savedMatrix{s, c.dev.Matrix(s)})
	check(c.dev.SetMatrix(s, m), "PushMatrix", "slot", s)
}

// PopMatrix restores the matrix saved by the last call
// to PushMatrix.
// s must be the slot that was pushed.
func (c *Context) PopMatrix(s gfx.Slot) {
	n := len(c.saved)
	if n == 0 {
		Logger().Warn(prefix+"PopMatrix: empty stack", "slot", s)
		return
	}
	top := &c.saved[n-1]
	if top.slot != s {
		Logger().Warn(prefix+"PopMatrix: slot mismatch", "slot", s, "top", top.slot)
	}
	check(c.dev.SetMatrix(top.slot, &top.m), "PopMatrix", "slot", top.slot)
	c.saved = c.saved[:n-1]
}

// Depth returns the number of saved matrices.
func (c *Context) Depth() int { return len(c.saved) }

// Unwind pops saved matrices until Depth is depth.
func (c *Context) Unwind(depth int) {
	for i := len(c.saved) - 1; i >= depth && i >= 0; i-- {
		check(c.dev.SetMatrix(c.saved[i].slot, &c.saved[i].m), "Unwind", "slot", c.saved[i].slot)
		c.saved = c.saved[:i]
	}
}

func (c *Context) reset(dev gfx.Device) {
	c.Unwind(0)
	c.dev = dev
}
