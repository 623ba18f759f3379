// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package sglib

import (
	"github.com/gviegas/sglib/gfx"
	"github.com/gviegas/sglib/linear"
)

// Transform is a node that transforms its child subtree.
// Its world matrix is the inherited world matrix times
// the local matrix, computed on every Update.
type Transform struct {
	Base
	local linear.M4
	world linear.M4
}

// NewTransform creates a Transform with local matrix m.
// If m is nil, the identity is used.
func NewTransform(dev gfx.Device, m *linear.M4) *Transform {
	t := &Transform{Base: Base{dev: dev}}
	if m != nil {
		t.local = *m
	} else {
		t.local.I()
	}
	t.world.I()
	return t
}

// Type returns TypeTransform.
func (t *Transform) Type() Type { return TypeTransform }

// SetMatrix sets the local matrix.
func (t *Transform) SetMatrix(m *linear.M4) { t.local = *m }

// Matrix returns the local matrix.
func (t *Transform) Matrix() linear.M4 { return t.local }

// MultMatrix applies m after the local matrix.
func (t *Transform) MultMatrix(m *linear.M4) { t.local.Mul(m, &t.local) }

// World returns the world matrix computed by the last
// Update.
func (t *Transform) World() linear.M4 { return t.world }

// Update computes the world matrix and installs it for
// the child subtree.
func (t *Transform) Update(c *Context, _ float32) {
	prev := c.Matrix(gfx.World)
	t.world.Mul(&prev, &t.local)
	c.PushMatrix(gfx.World, &t.world)
}

// PostUpdate restores the inherited world matrix.
func (t *Transform) PostUpdate(c *Context) { c.PopMatrix(gfx.World) }

// Render installs the world matrix.
func (t *Transform) Render(c *Context) { c.PushMatrix(gfx.World, &t.world) }

// PostRender restores the inherited world matrix.
func (t *Transform) PostRender(c *Context) { c.PopMatrix(gfx.World) }
