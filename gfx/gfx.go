// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package gfx defines the graphics device boundary used
// by the scene graph.
// Implementations wrap a concrete graphics API. Package
// gfx/record provides one that records calls in memory.
package gfx

import (
	"image"

	"github.com/gviegas/sglib/linear"
)

// Slot identifies one of the device's matrix slots.
type Slot int

// Matrix slots.
const (
	World Slot = iota
	View
	Projection
	NSlot
)

func (s Slot) String() string {
	switch s {
	case World:
		return "World"
	case View:
		return "View"
	case Projection:
		return "Projection"
	}
	return "Slot(?)"
}

// ClearFlags selects which buffers Device.Clear clears.
type ClearFlags int

// Clear flags.
const (
	ClearTarget ClearFlags = 1 << iota
	ClearZBuffer
	ClearStencil
)

// Color is a linear RGBA color.
type Color struct {
	R, G, B, A float32
}

// RGBA8 returns a Color from 8-bit components.
func RGBA8(r, g, b, a uint8) Color {
	return Color{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255}
}

// Device is the interface that a graphics device must
// implement.
// Methods that change device state return an error when
// the device cannot honor the request (e.g., the device
// was lost).
type Device interface {
	// Matrix returns the current matrix of slot s.
	Matrix(s Slot) linear.M4

	// SetMatrix sets the matrix of slot s.
	SetMatrix(s Slot, m *linear.M4) error

	// RenderState returns the current value of key.
	RenderState(key RenderState) uint32

	// SetRenderState sets the value of key.
	SetRenderState(key RenderState, value uint32) error

	// SetLight sets the light at index.
	SetLight(index int, l *Light) error

	// EnableLight enables or disables the light at index.
	EnableLight(index int, enable bool) error

	// Material returns the current material.
	Material() Material

	// SetMaterial sets the current material.
	SetMaterial(m *Material) error

	// Texture returns the texture bound to stage,
	// or nil if none is bound.
	Texture(stage int) Texture

	// SetTexture binds t to stage.
	// A nil t unbinds the stage.
	SetTexture(stage int, t Texture) error

	// Clear clears the buffers selected by flags.
	Clear(flags ClearFlags, c Color, z float32, stencil uint32) error

	// BeginScene and EndScene bracket the draw calls
	// of a frame.
	BeginScene() error
	EndScene() error

	// CreateMesh creates a mesh from data.
	CreateMesh(data *MeshData) (Mesh, error)

	// CreateTexture creates a texture from img.
	CreateTexture(img image.Image) (Texture, error)

	// CreateEffect compiles an effect from desc.
	// Compilation failures are reported as
	// *CompileError.
	CreateEffect(desc *EffectDesc) (Effect, error)

	// DrawPoints draws a list of point sprites using
	// the current world, view and projection matrices.
	DrawPoints(pts []linear.V3, size float32) error
}

// Mesh is the interface of a loaded mesh.
// A mesh is made of one or more subsets, each drawn
// with its own material and texture.
type Mesh interface {
	// Subsets returns the number of subsets.
	Subsets() int

	// DrawSubset draws the subset at index i.
	DrawSubset(i int) error

	// Release releases the mesh.
	Release()
}

// Texture is the interface of a loaded texture.
type Texture interface {
	// Size returns the dimensions of the texture.
	Size() image.Point

	// Release releases the texture.
	Release()
}

// Effect is the interface of a compiled effect.
// An effect has a parameter block, a set of techniques
// and, for each technique, a sequence of passes.
//
// Drawing with an effect follows the protocol:
//
//	n, err := e.Begin()
//	for i := range n {
//		e.BeginPass(i)
//		// draw
//		e.EndPass()
//	}
//	e.End()
type Effect interface {
	// SetTechnique selects the technique used by Begin.
	SetTechnique(name string) error

	// SetMatrix, SetVector, SetFloat and SetTexture set
	// named parameters.
	// Setting a parameter that the effect does not
	// declare is an error.
	SetMatrix(name string, m *linear.M4) error
	SetVector(name string, v *linear.V4) error
	SetFloat(name string, f float32) error
	SetTexture(name string, t Texture) error

	// Begin starts the current technique and returns
	// its number of passes.
	Begin() (passes int, err error)

	// BeginPass starts pass i.
	BeginPass(i int) error

	// EndPass ends the current pass.
	EndPass() error

	// End ends the current technique.
	End() error

	// OnLostDevice and OnResetDevice are called when
	// the device is lost and reset, respectively.
	OnLostDevice()
	OnResetDevice()

	// Release releases the effect.
	Release()
}
