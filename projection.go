// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package sglib

import (
	"github.com/gviegas/sglib/gfx"
	"github.com/gviegas/sglib/linear"
)

// Projection is a node that sets the projection matrix
// of its child subtree.
type Projection struct {
	Base
	proj linear.M4
}

// NewProjection creates a Projection with matrix m.
func NewProjection(dev gfx.Device, m *linear.M4) *Projection {
	return &Projection{Base: Base{dev: dev}, proj: *m}
}

// NewPerspective creates a Projection with a perspective
// matrix (see linear.M4.Perspective).
func NewPerspective(dev gfx.Device, fovY, aspect, zNear, zFar float32) *Projection {
	p := &Projection{Base: Base{dev: dev}}
	p.proj.Perspective(fovY, aspect, zNear, zFar)
	return p
}

// Type returns TypeProjection.
func (p *Projection) Type() Type { return TypeProjection }

// Matrix returns the projection matrix.
func (p *Projection) Matrix() linear.M4 { return p.proj }

// SetMatrix sets the projection matrix.
func (p *Projection) SetMatrix(m *linear.M4) { p.proj = *m }

// SetPerspective replaces the projection matrix with a
// perspective matrix.
func (p *Projection) SetPerspective(fovY, aspect, zNear, zFar float32) {
	p.proj.Perspective(fovY, aspect, zNear, zFar)
}

// Render installs the projection matrix.
func (p *Projection) Render(c *Context) { c.PushMatrix(gfx.Projection, &p.proj) }

// PostRender restores the previous projection matrix.
func (p *Projection) PostRender(c *Context) { c.PopMatrix(gfx.Projection) }
