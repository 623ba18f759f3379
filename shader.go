// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package sglib

import (
	"github.com/gviegas/sglib/gfx"
	"github.com/gviegas/sglib/linear"
)

// GeometryRenderer is the interface of nodes that render
// the geometry of their child subtree.
// The Renderer routes every Geometry and Articulated
// node through the innermost GeometryRenderer above it.
type GeometryRenderer interface {
	Node
	RenderGeometry(c *Context, d Drawable)
}

type staticParam struct {
	name string
	typ  gfx.ParamType
	f    float32
	v    linear.V4
	m    linear.M4
	t    gfx.Texture
}

func (p *staticParam) apply(fx gfx.Effect) error {
	switch p.typ {
	case gfx.ParamFloat:
		return fx.SetFloat(p.name, p.f)
	case gfx.ParamVector:
		return fx.SetVector(p.name, &p.v)
	case gfx.ParamMatrix:
		return fx.SetMatrix(p.name, &p.m)
	default:
		return fx.SetTexture(p.name, p.t)
	}
}

// Shader is a node that draws the geometry of its child
// subtree with an effect.
type Shader struct {
	Base
	file      string
	technique string
	binder    Binder
	static    []staticParam
	fx        gfx.Effect
	ref       *Shader
	err       error
}

// NewShader creates a Shader using the effect described
// in file.
// technique selects the technique to draw with; if
// empty, the effect's first technique is used. binder
// sets the per-draw parameters and may be nil.
// If the effect cannot be created, geometry is drawn
// without an effect and Err reports the failure.
func NewShader(dev gfx.Device, file, technique string, binder Binder) *Shader {
	s := &Shader{
		Base:      Base{dev: dev},
		file:      file,
		technique: technique,
		binder:    binder,
	}
	s.create()
	return s
}

// NewShaderRef creates a Shader that forwards to ref.
func NewShaderRef(ref *Shader) *Shader {
	return &Shader{
		Base: Base{dev: ref.dev},
		ref:  ref,
	}
}

func (s *Shader) create() {
	if s.file == "" || s.dev == nil {
		return
	}
	s.destroy()
	fx, err := Assets().Effect(s.dev, s.file)
	if err != nil {
		s.err = err
		Logger().Error(prefix+"shader: create failed", "file", s.file, "err", err)
		return
	}
	s.fx = fx
	s.err = nil
	if s.technique != "" {
		check(fx.SetTechnique(s.technique), "shader: SetTechnique", "file", s.file)
	}
	for i := range s.static {
		check(s.static[i].apply(fx), "shader: static parameter", "file", s.file, "param", s.static[i].name)
	}
}

func (s *Shader) destroy() {
	if s.fx != nil {
		s.fx.Release()
		s.fx = nil
	}
}

// Type returns TypeShader.
func (s *Shader) Type() Type { return TypeShader }

// File returns the name of the effect file.
func (s *Shader) File() string { return s.file }

// Err returns the error of the last effect creation,
// which is a *gfx.CompileError, or nil.
func (s *Shader) Err() error { return s.err }

// Effect returns the effect, or nil.
func (s *Shader) Effect() gfx.Effect { return s.fx }

// Reference returns the Shader that s forwards to, or
// nil.
func (s *Shader) Reference() *Shader { return s.ref }

// Technique returns the name of the technique set on s.
func (s *Shader) Technique() string { return s.technique }

// SetTechnique selects the technique to draw with.
// Without an effect, the name is kept for when the
// effect is created.
func (s *Shader) SetTechnique(name string) error {
	if s.fx != nil {
		if err := s.fx.SetTechnique(name); err != nil {
			return err
		}
	}
	s.technique = name
	return nil
}

// Binder returns the per-draw binder.
func (s *Shader) Binder() Binder { return s.binder }

// SetBinder sets the per-draw binder.
func (s *Shader) SetBinder(b Binder) { s.binder = b }

// setStatic applies p to the effect and records it,
// replacing any previous value of the same parameter.
// p is not recorded if the effect rejects it.
func (s *Shader) setStatic(p staticParam) error {
	if s.fx != nil {
		if err := p.apply(s.fx); err != nil {
			return err
		}
	}
	i := 0
	for ; i < len(s.static); i++ {
		if s.static[i].name == p.name {
			break
		}
	}
	if i == len(s.static) {
		s.static = append(s.static, p)
	} else {
		s.static[i] = p
	}
	return nil
}

// SetFloat sets a scalar parameter.
// Values set through SetFloat, SetVector, SetMatrix and
// SetTexture persist across device resets.
func (s *Shader) SetFloat(name string, f float32) error {
	return s.setStatic(staticParam{name: name, typ: gfx.ParamFloat, f: f})
}

// SetVector sets a vector parameter.
func (s *Shader) SetVector(name string, v linear.V4) error {
	return s.setStatic(staticParam{name: name, typ: gfx.ParamVector, v: v})
}

// SetMatrix sets a matrix parameter.
func (s *Shader) SetMatrix(name string, m linear.M4) error {
	return s.setStatic(staticParam{name: name, typ: gfx.ParamMatrix, m: m})
}

// SetTexture sets a texture parameter.
func (s *Shader) SetTexture(name string, t gfx.Texture) error {
	return s.setStatic(staticParam{name: name, typ: gfx.ParamTexture, t: t})
}

// RenderGeometry draws d once per pass of the technique.
// Without an effect, d is drawn once with the
// fixed-function state of the device.
func (s *Shader) RenderGeometry(c *Context, d Drawable) {
	if s.ref != nil {
		s.ref.RenderGeometry(c, d)
		return
	}
	if d == nil {
		return
	}
	if s.fx == nil {
		d.Draw(c)
		return
	}
	drawPasses(c, s.fx, s.binder, d.Draw, "shader", s.file)
}

// drawPasses binds and iterates the passes of fx,
// calling draw within each pass.
func drawPasses(c *Context, fx gfx.Effect, b Binder, draw func(*Context), kind, file string) {
	if b != nil {
		check(b.Bind(c, fx), kind+": Bind", "file", file)
	}
	n, err := fx.Begin()
	if err != nil {
		check(err, kind+": Begin", "file", file)
		return
	}
	for i := range n {
		if err := fx.BeginPass(i); err != nil {
			check(err, kind+": BeginPass", "file", file, "pass", i)
			continue
		}
		draw(c)
		check(fx.EndPass(), kind+": EndPass", "file", file, "pass", i)
	}
	check(fx.End(), kind+": End", "file", file)
}

// OnCreateDevice recreates the effect on dev.
func (s *Shader) OnCreateDevice(dev gfx.Device) {
	s.Base.OnCreateDevice(dev)
	s.create()
}

// OnResetDevice resets the effect.
func (s *Shader) OnResetDevice(dev gfx.Device) {
	s.Base.OnResetDevice(dev)
	if s.fx != nil {
		s.fx.OnResetDevice()
	}
}

// OnLostDevice notifies the effect.
func (s *Shader) OnLostDevice() {
	s.Base.OnLostDevice()
	if s.fx != nil {
		s.fx.OnLostDevice()
	}
}

// OnDestroyDevice releases the effect.
func (s *Shader) OnDestroyDevice() {
	s.Base.OnDestroyDevice()
	s.destroy()
}
