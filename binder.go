// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package sglib

import (
	"errors"

	"github.com/gviegas/sglib/gfx"
	"github.com/gviegas/sglib/linear"
)

// Binder sets the per-draw parameters of an effect.
// A Shader calls Bind before iterating the passes of
// its technique.
type Binder interface {
	Bind(c *Context, fx gfx.Effect) error
}

// BinderFunc is a function that implements Binder.
type BinderFunc func(c *Context, fx gfx.Effect) error

// Bind calls f(c, fx).
func (f BinderFunc) Bind(c *Context, fx gfx.Effect) error { return f(c, fx) }

// Binders is a Binder that calls each of its elements.
// Every element is called even if one fails.
type Binders []Binder

// Bind calls Bind on every element of b.
func (b Binders) Bind(c *Context, fx gfx.Effect) error {
	var errs []error
	for _, x := range b {
		if x != nil {
			errs = append(errs, x.Bind(c, fx))
		}
	}
	return errors.Join(errs...)
}

// MatrixBinder sets the transforms of the draw.
// Each field names the effect parameter that receives
// the matrix. Empty names are skipped.
type MatrixBinder struct {
	WorldViewProj     string
	World             string
	WorldInvTranspose string
}

// DefaultMatrixBinder returns a MatrixBinder with the
// usual parameter names.
func DefaultMatrixBinder() MatrixBinder {
	return MatrixBinder{
		WorldViewProj:     "g_matWorldViewProjection",
		World:             "g_matWorld",
		WorldInvTranspose: "g_matWorldInverseTranspose",
	}
}

// worldViewProj returns projection × view × world.
func worldViewProj(c *Context) linear.M4 {
	w := c.Matrix(gfx.World)
	v := c.Matrix(gfx.View)
	p := c.Matrix(gfx.Projection)
	var m linear.M4
	m.Mul(&p, &v)
	m.Mul(&m, &w)
	return m
}

// Bind sets the matrices named by b.
func (b MatrixBinder) Bind(c *Context, fx gfx.Effect) error {
	var errs []error
	if b.WorldViewProj != "" {
		m := worldViewProj(c)
		errs = append(errs, fx.SetMatrix(b.WorldViewProj, &m))
	}
	if b.World == "" && b.WorldInvTranspose == "" {
		return errors.Join(errs...)
	}
	w := c.Matrix(gfx.World)
	if b.World != "" {
		errs = append(errs, fx.SetMatrix(b.World, &w))
	}
	if b.WorldInvTranspose != "" {
		var m linear.M4
		m.InvertTranspose(&w)
		errs = append(errs, fx.SetMatrix(b.WorldInvTranspose, &m))
	}
	return errors.Join(errs...)
}

// ShadowBinder sets the matrices of a shadow-mapped draw.
// In addition to the Matrices, it sets the light's
// view-projection times the world matrix, which maps
// geometry into the shadow map, and the shadow map
// itself.
type ShadowBinder struct {
	Matrices MatrixBinder

	// LightParam receives LightViewProj × world.
	LightParam    string
	LightViewProj linear.M4

	// MapParam receives Map, unless Map is nil.
	MapParam string
	Map      gfx.Texture
}

// Bind sets the parameters of b.
func (b *ShadowBinder) Bind(c *Context, fx gfx.Effect) error {
	errs := []error{b.Matrices.Bind(c, fx)}
	if b.LightParam != "" {
		w := c.Matrix(gfx.World)
		var m linear.M4
		m.Mul(&b.LightViewProj, &w)
		errs = append(errs, fx.SetMatrix(b.LightParam, &m))
	}
	if b.MapParam != "" && b.Map != nil {
		errs = append(errs, fx.SetTexture(b.MapParam, b.Map))
	}
	return errors.Join(errs...)
}
