// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package sglib

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/sglib/gfx"
	"github.com/gviegas/sglib/input"
	"github.com/gviegas/sglib/linear"
)

// Camera is a node that sets the view matrix of its
// child subtree.
// The view matrix is a left-handed look-at matrix.
type Camera struct {
	Base
	pos  linear.V3
	look linear.V3
	up   linear.V3
	view linear.M4
	keys input.Keyboard
}

// NewCamera creates a Camera at the origin, looking
// down +z with +y up.
func NewCamera(dev gfx.Device) *Camera {
	return NewCameraAt(dev, linear.V3{}, linear.V3{0, 0, 1}, linear.V3{0, 1, 0})
}

// NewCameraAt creates a Camera at pos looking at look.
func NewCameraAt(dev gfx.Device, pos, look, up linear.V3) *Camera {
	c := &Camera{Base: Base{dev: dev}}
	c.SetCamera(pos, look, up)
	return c
}

// Type returns TypeCamera.
func (c *Camera) Type() Type { return TypeCamera }

func (c *Camera) updateView() { c.view.LookAt(&c.pos, &c.look, &c.up) }

// SetCamera sets the position, target and up vector.
func (c *Camera) SetCamera(pos, look, up linear.V3) {
	c.pos, c.look, c.up = pos, look, up
	c.updateView()
}

// SetPos sets the position.
func (c *Camera) SetPos(pos linear.V3) {
	c.pos = pos
	c.updateView()
}

// SetLook sets the point looked at.
func (c *Camera) SetLook(look linear.V3) {
	c.look = look
	c.updateView()
}

// SetUp sets the up vector.
func (c *Camera) SetUp(up linear.V3) {
	c.up = up
	c.updateView()
}

// Pos returns the eye position.
func (c *Camera) Pos() linear.V3 { return c.pos }

// Look returns the point the camera looks at.
func (c *Camera) Look() linear.V3 { return c.look }

// Up returns the up vector.
func (c *Camera) Up() linear.V3 { return c.up }

// View returns the view matrix.
func (c *Camera) View() linear.M4 { return c.view }

// SetSimpleMovement enables keyboard movement, polling
// keys on every Update.
// A nil keys disables it.
//
// Up/Pad8 move forward; Down/Pad2/Pad5 move back;
// Pad7/Pad9 strafe; Left/Pad4 and Right/Pad6 turn.
func (c *Camera) SetSimpleMovement(keys input.Keyboard) { c.keys = keys }

// Render installs the view matrix.
func (c *Camera) Render(ctx *Context) { ctx.PushMatrix(gfx.View, &c.view) }

// PostRender restores the previous view matrix.
func (c *Camera) PostRender(ctx *Context) { ctx.PopMatrix(gfx.View) }

// Update moves the camera if simple movement is enabled.
// The step is proportional to dt.
func (c *Camera) Update(_ *Context, dt float32) {
	if c.keys == nil {
		return
	}
	factor := dt * 100
	var facing, strafe linear.V3
	facing.Sub(&c.look, &c.pos)
	facing.Norm(&facing)
	facing.Scale(factor, &facing)
	strafe.Cross(&facing, &c.up)
	strafe.Norm(&strafe)
	strafe.Scale(factor, &strafe)
	turn := 0.05 * factor

	pressed := func(keys ...input.Key) bool {
		for _, k := range keys {
			if c.keys.Pressed(k) {
				return true
			}
		}
		return false
	}
	move := func(v *linear.V3) {
		c.pos.Add(&c.pos, v)
		c.look.Add(&c.look, v)
	}
	// Turning places the target at the rotated facing
	// vector, in the plane of facing and facing × up.
	rotate := func(angle float32) {
		var fwd, side linear.V3
		fwd.Scale(math32.Cos(angle), &facing)
		fwd.Add(&c.pos, &fwd)
		side.Cross(&facing, &c.up)
		side.Scale(math32.Sin(angle), &side)
		c.look.Add(&fwd, &side)
	}

	if pressed(input.KeyUp, input.KeyPad8) {
		move(&facing)
	}
	if pressed(input.KeyDown, input.KeyPad2, input.KeyPad5) {
		var back linear.V3
		back.Scale(-1, &facing)
		move(&back)
	}
	if pressed(input.KeyPad7) {
		move(&strafe)
	}
	if pressed(input.KeyPad9) {
		var back linear.V3
		back.Scale(-1, &strafe)
		move(&back)
	}
	if pressed(input.KeyRight, input.KeyPad6) {
		rotate(-turn)
	}
	if pressed(input.KeyLeft, input.KeyPad4) {
		rotate(turn)
	}
	c.updateView()
}
