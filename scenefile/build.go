// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package scenefile

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gviegas/sglib"
	"github.com/gviegas/sglib/gfx"
	"github.com/gviegas/sglib/input"
	"github.com/gviegas/sglib/linear"
)

// Scene is a graph built from a File.
type Scene struct {
	// Root is the first node of the root chain.
	Root sglib.Node

	clear *Clear
	flags gfx.ClearFlags
	named map[string]sglib.Node
}

// Node returns the node described as desc, or nil if
// there is none.
func (s *Scene) Node(desc string) sglib.Node { return s.named[desc] }

// Apply sets the clear parameters of r.
func (s *Scene) Apply(r *sglib.Renderer) {
	if s.clear == nil {
		return
	}
	if s.clear.Color != nil {
		r.SetClearColor(color(*s.clear.Color))
	}
	z, stencil := sglib.DefaultClearZ, sglib.DefaultStencil
	if s.clear.Z != nil {
		z = *s.clear.Z
	}
	if s.clear.Stencil != nil {
		stencil = *s.clear.Stencil
	}
	r.SetClearOptions(s.flags, z, stencil)
}

// Release releases the device resources of the graph.
func (s *Scene) Release() {
	if s.Root != nil {
		s.Root.OnDestroyDevice()
	}
}

var clearFlags = map[string]gfx.ClearFlags{
	"target":  gfx.ClearTarget,
	"zbuffer": gfx.ClearZBuffer,
	"stencil": gfx.ClearStencil,
}

var lightTypes = map[string]gfx.LightType{
	"point":       gfx.PointLight,
	"spot":        gfx.SpotLight,
	"directional": gfx.DirectionalLight,
}

func color(c Color) gfx.Color { return gfx.Color{R: c[0], G: c[1], B: c[2], A: c[3]} }

// builder creates the nodes of a File.
type builder struct {
	dev   gfx.Device
	keys  input.Keyboard
	named map[string]sglib.Node
}

// Build creates the graph described by f on dev.
// keys drives the camera nodes that enable movement and
// may be nil.
//
// Errors in the description itself fail the build.
// Assets that cannot be loaded do not: the affected nodes
// are created inert and report the failure through their
// Err methods.
func (f *File) Build(dev gfx.Device, keys input.Keyboard) (*Scene, error) {
	s := &Scene{clear: f.Clear, flags: sglib.DefaultClearFlags}
	if f.Clear != nil && f.Clear.Flags != nil {
		s.flags = 0
		for _, x := range f.Clear.Flags {
			fl, ok := clearFlags[strings.ToLower(x)]
			if !ok {
				return nil, fmt.Errorf("%w: %q", errClear, x)
			}
			s.flags |= fl
		}
	}
	b := builder{dev: dev, keys: keys, named: make(map[string]sglib.Node)}
	root, err := b.chain(f.Nodes)
	if err != nil {
		if root != nil {
			root.OnDestroyDevice()
		}
		return nil, err
	}
	s.Root = root
	s.named = b.named
	if f.Animate != nil {
		if sglib.SetAnimationAll(root, f.Animate.Clip, f.Animate.Loop) == sglib.AnimNotFound {
			sglib.Logger().Warn(prefix+"animation not found", "clip", f.Animate.Clip)
		}
	}
	return s, nil
}

// chain builds list as a sibling chain and returns its
// first node.
// On failure, the nodes built so far are still linked
// under the returned node, so that they can be released.
func (b *builder) chain(list []Node) (first sglib.Node, err error) {
	var prev sglib.Node
	for i := range list {
		var n sglib.Node
		n, err = b.node(&list[i])
		if n != nil {
			if prev == nil {
				first = n
			} else {
				prev.SetSibling(n)
			}
			prev = n
		}
		if err != nil {
			return
		}
	}
	return
}

func (b *builder) node(d *Node) (sglib.Node, error) {
	var (
		n   sglib.Node
		err error
	)
	switch strings.ToLower(d.Kind) {
	case KindTransform:
		n, err = b.transform(d)
	case KindGeometry:
		n, err = b.geometry(d)
	case KindShader:
		n, err = b.shader(d)
	case KindState:
		n, err = b.state(d)
	case KindCamera:
		n = b.camera(d)
	case KindProjection:
		n = b.projection(d)
	case KindArticulated:
		n, err = b.articulated(d)
	case KindParticles:
		n = b.particles(d)
	default:
		err = fmt.Errorf("%w: %q", errKind, d.Kind)
	}
	if err != nil {
		if n != nil {
			n.OnDestroyDevice()
		}
		return nil, b.wrap(d, err)
	}
	if d.Desc != "" {
		if _, dup := b.named[d.Desc]; dup {
			n.OnDestroyDevice()
			return nil, b.wrap(d, errDupeDesc)
		}
		n.SetDescription(d.Desc)
		b.named[d.Desc] = n
	}
	if len(d.Children) > 0 {
		c, err := b.chain(d.Children)
		if c != nil {
			n.SetChild(c)
		}
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func (b *builder) wrap(d *Node, err error) error {
	if d.Desc != "" {
		return fmt.Errorf("%w (%s %q)", err, d.Kind, d.Desc)
	}
	return fmt.Errorf("%w (%s)", err, d.Kind)
}

// lookup returns the node that d references.
func lookup[T sglib.Node](b *builder, d *Node) (T, error) {
	var zero T
	if d.File != "" {
		return zero, errRefFile
	}
	n, ok := b.named[d.Ref]
	if !ok {
		return zero, fmt.Errorf("%w: %q", errRef, d.Ref)
	}
	x, ok := n.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q is a %v", errRefKind, d.Ref, n.Type())
	}
	return x, nil
}

func (b *builder) transform(d *Node) (sglib.Node, error) {
	var m linear.M4
	if d.Matrix != nil {
		if len(d.Matrix) != 16 {
			return nil, errMatrix
		}
		for i := range 16 {
			m[i/4][i%4] = d.Matrix[i]
		}
		return sglib.NewTransform(b.dev, &m), nil
	}
	// T × Ry × Rx × Rz × S.
	m.I()
	var x linear.M4
	if d.Translate != nil {
		x.Translate(d.Translate[0], d.Translate[1], d.Translate[2])
		m.Mul(&m, &x)
	}
	if d.Rotate != nil {
		x.RotateY(d.Rotate[1])
		m.Mul(&m, &x)
		x.RotateX(d.Rotate[0])
		m.Mul(&m, &x)
		x.RotateZ(d.Rotate[2])
		m.Mul(&m, &x)
	}
	if d.Scale != nil {
		x.Scale(d.Scale[0], d.Scale[1], d.Scale[2])
		m.Mul(&m, &x)
	}
	return sglib.NewTransform(b.dev, &m), nil
}

func (b *builder) geometry(d *Node) (sglib.Node, error) {
	var g *sglib.Geometry
	if d.Ref != "" {
		ref, err := lookup[*sglib.Geometry](b, d)
		if err != nil {
			return nil, err
		}
		g = sglib.NewGeometryRef(ref)
	} else {
		g = sglib.NewGeometry(b.dev, d.File)
	}
	g.SetVisible(!d.Hidden)
	return g, nil
}

func (b *builder) shader(d *Node) (sglib.Node, error) {
	if d.Ref != "" {
		ref, err := lookup[*sglib.Shader](b, d)
		if err != nil {
			return nil, err
		}
		return sglib.NewShaderRef(ref), nil
	}
	binder := sglib.DefaultMatrixBinder()
	if d.Matrices != nil {
		binder = sglib.MatrixBinder(*d.Matrices)
	}
	s := sglib.NewShader(b.dev, d.File, d.Technique, binder)
	// Sorted, so that a failure is reproducible.
	for _, name := range slices.Sorted(maps.Keys(d.Params)) {
		v := d.Params[name]
		if err := setParam(s, name, &v); err != nil {
			return s, fmt.Errorf("%w %q: %w", errParam, name, err)
		}
	}
	return s, nil
}

// setParam sets a static parameter of s.
// A scalar is a float, a sequence of 4 elements a vector
// and a sequence of 16 elements a column-major matrix.
func setParam(s *sglib.Shader, name string, v *yaml.Node) error {
	switch v.Kind {
	case yaml.ScalarNode:
		var f float32
		if err := v.Decode(&f); err != nil {
			return err
		}
		return s.SetFloat(name, f)
	case yaml.SequenceNode:
		var fs []float32
		if err := v.Decode(&fs); err != nil {
			return err
		}
		switch len(fs) {
		case 4:
			return s.SetVector(name, linear.V4(fs))
		case 16:
			var m linear.M4
			for i := range 16 {
				m[i/4][i%4] = fs[i]
			}
			return s.SetMatrix(name, m)
		}
		return fmt.Errorf("%d elements", len(fs))
	}
	return fmt.Errorf("line %d: not a number or sequence", v.Line)
}

func (b *builder) state(d *Node) (sglib.Node, error) {
	s := sglib.NewState(b.dev)
	for _, k := range slices.Sorted(maps.Keys(d.States)) {
		key, err := gfx.ParseRenderState(k)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", err, k)
		}
		val, err := gfx.ParseStateValue(d.States[k])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q", err, k, d.States[k])
		}
		s.AddRenderState(key, val)
	}
	for _, l := range d.Lights {
		typ, ok := lightTypes[strings.ToLower(l.Type)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", errLight, l.Type)
		}
		light := gfx.Light{
			Type:        typ,
			Diffuse:     gfx.Color{R: 1, G: 1, B: 1, A: 1},
			Specular:    color(l.Specular),
			Ambient:     color(l.Ambient),
			Position:    l.Position,
			Direction:   l.Direction,
			Range:       l.Range,
			Attenuation: l.Attenuation,
			Theta:       l.Theta,
			Phi:         l.Phi,
		}
		if l.Diffuse != nil {
			light.Diffuse = color(*l.Diffuse)
		}
		s.AddLight(l.Index, light)
	}
	return s, nil
}

func (b *builder) camera(d *Node) sglib.Node {
	c := sglib.NewCamera(b.dev)
	pos, look, up := c.Pos(), c.Look(), c.Up()
	if d.Pos != nil {
		pos = *d.Pos
		// Keep looking down +z from the new position.
		look.Add(&look, &pos)
	}
	if d.Look != nil {
		look = *d.Look
	}
	if d.Up != nil {
		up = *d.Up
	}
	c.SetCamera(pos, look, up)
	if d.Movement && b.keys != nil {
		c.SetSimpleMovement(b.keys)
	}
	return c
}

// Projection defaults.
const (
	DefaultFovY   float32 = 0.7853982
	DefaultAspect float32 = 4.0 / 3.0
	DefaultNear   float32 = 0.1
	DefaultFar    float32 = 1000
)

func (b *builder) projection(d *Node) sglib.Node {
	or := func(x, dfl float32) float32 {
		if x <= 0 {
			return dfl
		}
		return x
	}
	if d.Matrix != nil && len(d.Matrix) == 16 {
		var m linear.M4
		for i := range 16 {
			m[i/4][i%4] = d.Matrix[i]
		}
		return sglib.NewProjection(b.dev, &m)
	}
	return sglib.NewPerspective(b.dev,
		or(d.FovY, DefaultFovY),
		or(d.Aspect, DefaultAspect),
		or(d.Near, DefaultNear),
		or(d.Far, DefaultFar))
}

func keyframes(pairs [][2]float32) []sglib.Key {
	ks := make([]sglib.Key, len(pairs))
	for i, p := range pairs {
		ks[i] = sglib.Key{Time: p[0], Angle: p[1]}
	}
	return ks
}

func (b *builder) articulated(d *Node) (sglib.Node, error) {
	var a *sglib.Articulated
	if d.Ref != "" {
		ref, err := lookup[*sglib.Articulated](b, d)
		if err != nil {
			return nil, err
		}
		a = sglib.NewArticulatedRef(ref)
	} else {
		a = sglib.NewArticulated(b.dev, sglib.Link(d.Link), d.File)
	}
	a.SetVisible(!d.Hidden)
	for _, name := range slices.Sorted(maps.Keys(d.Clips)) {
		c := d.Clips[name]
		if err := a.AddAnimation(name, sglib.Clip{Rot: keyframes(c.Rot), Twist: keyframes(c.Twist)}); err != nil {
			return a, fmt.Errorf("%w: %q", err, name)
		}
	}
	if d.Play != nil {
		if a.SetAnimation(d.Play.Clip, d.Play.Loop) == sglib.AnimNotFound {
			return a, fmt.Errorf("%w: %q", errClip, d.Play.Clip)
		}
	}
	return a, nil
}

func (b *builder) particles(d *Node) sglib.Node {
	cfg := sglib.DefaultParticleConfig()
	cfg.Effect = d.Effect
	cfg.Technique = d.Technique
	cfg.Texture = d.Texture
	if d.Max > 0 {
		cfg.Max = d.Max
	}
	if d.Period != nil {
		cfg.Period = *d.Period
	}
	if d.Accel != nil {
		cfg.Accel = *d.Accel
	}
	if d.Matrices != nil {
		cfg.Matrices = sglib.MatrixBinder(*d.Matrices)
	}
	f := &sglib.Fountain{Speed: 1, Life: 1, Size: 1, Color: gfx.Color{R: 1, G: 1, B: 1, A: 1}}
	if x := d.Fountain; x != nil {
		f.Origin = x.Origin
		f.Speed = x.Speed
		f.Spread = x.Spread
		f.Life = x.Life
		f.Size = x.Size
		if x.Color != nil {
			f.Color = color(*x.Color)
		}
	}
	return sglib.NewParticleSystem(b.dev, cfg, f)
}
