// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package sglib

import (
	"fmt"

	"github.com/gviegas/sglib/gfx"
)

// Default clear parameters of a Renderer.
const (
	DefaultClearFlags         = gfx.ClearTarget | gfx.ClearZBuffer
	DefaultClearZ     float32 = 1
	DefaultStencil    uint32  = 0
)

// DefaultClearColor is opaque black.
var DefaultClearColor = gfx.Color{A: 1}

var errNoDevice = newErr("root node has no device")

// Renderer traverses scene graphs.
//
// Render walks the graph depth first: a node renders,
// then its child subtree, then the node post-renders and
// its sibling subtree follows. Geometry and Articulated
// nodes are drawn by the innermost Shader above them, if
// there is one.
//
// Update walks the graph in the same order, calling
// Update and PostUpdate.
type Renderer struct {
	flags   gfx.ClearFlags
	color   gfx.Color
	z       float32
	stencil uint32

	ctx     Context
	shaders []GeometryRenderer
	states  []*State
}

// NewRenderer creates a Renderer with the default clear
// parameters.
func NewRenderer() *Renderer {
	return &Renderer{
		flags:   DefaultClearFlags,
		color:   DefaultClearColor,
		z:       DefaultClearZ,
		stencil: DefaultStencil,
	}
}

// SetClearColor sets the color that Render clears the
// target to.
func (r *Renderer) SetClearColor(c gfx.Color) { r.color = c }

// SetClearOptions sets which buffers Render clears and
// the depth and stencil values used.
func (r *Renderer) SetClearOptions(flags gfx.ClearFlags, z float32, stencil uint32) {
	r.flags = flags
	r.z = z
	r.stencil = stencil
}

// ShaderDepth returns the number of active shaders.
// It is zero outside of Render.
func (r *Renderer) ShaderDepth() int { return len(r.shaders) }

// StateDepth returns the number of active states.
// It is zero outside of Render.
func (r *Renderer) StateDepth() int { return len(r.states) }

// ActiveShader returns the innermost active shader, or
// nil.
func (r *Renderer) ActiveShader() GeometryRenderer {
	if n := len(r.shaders); n > 0 {
		return r.shaders[n-1]
	}
	return nil
}

// Render clears the target and renders the graph rooted
// at root on the device of root.
// It does nothing if root is nil.
func (r *Renderer) Render(root Node) error {
	if root == nil {
		return nil
	}
	dev := root.Device()
	if dev == nil {
		return errNoDevice
	}
	r.ctx.reset(dev)
	if err := dev.Clear(r.flags, r.color, r.z, r.stencil); err != nil {
		return fmt.Errorf(prefix+"Clear: %w", err)
	}
	if err := dev.BeginScene(); err != nil {
		return fmt.Errorf(prefix+"BeginScene: %w", err)
	}
	r.render(root)
	r.ctx.Unwind(0)
	if err := dev.EndScene(); err != nil {
		return fmt.Errorf(prefix+"EndScene: %w", err)
	}
	return nil
}

// Update updates the graph rooted at root by dt seconds.
// It does nothing if root is nil.
func (r *Renderer) Update(root Node, dt float32) {
	if root == nil {
		return
	}
	dev := root.Device()
	if dev == nil {
		Logger().Error(prefix+"Update", "err", errNoDevice)
		return
	}
	r.ctx.reset(dev)
	r.update(root, dt)
	r.ctx.Unwind(0)
}

// balance unwinds the matrix stack to depth if n left it
// unbalanced.
func (r *Renderer) balance(n Node, op string, depth int) {
	if d := r.ctx.Depth(); d != depth {
		Logger().Warn(prefix+op+": unbalanced matrix stack", "type", n.Type(), "node", n.Description(), "have", d, "want", depth)
		r.ctx.Unwind(depth)
	}
}

// render renders n and its siblings.
// Shaders and states pushed by any of them stay active
// until the end of the sibling chain.
func (r *Renderer) render(n Node) {
	shaders, states := len(r.shaders), len(r.states)
	defer func() {
		clear(r.shaders[shaders:])
		r.shaders = r.shaders[:shaders]
		clear(r.states[states:])
		r.states = r.states[:states]
	}()
	for ; n != nil; n = n.Sibling() {
		depth := r.ctx.Depth()
		switch t := n.Type(); t {
		case TypeGeometry, TypeArticulated:
			s := r.ActiveShader()
			d, ok := n.(Drawable)
			if s == nil || !ok {
				n.Render(&r.ctx)
				break
			}
			if t == TypeArticulated {
				if x, ok := n.(interface{ RenderTransform(*Context) }); ok {
					x.RenderTransform(&r.ctx)
				}
			}
			s.RenderGeometry(&r.ctx, d)
		case TypeShader:
			if s, ok := n.(GeometryRenderer); ok {
				r.shaders = append(r.shaders, s)
			} else {
				Logger().Warn(prefix+"render: shader node cannot render geometry", "node", n.Description())
			}
			n.Render(&r.ctx)
		case TypeState:
			if s, ok := n.(*State); ok {
				r.states = append(r.states, s)
			}
			n.Render(&r.ctx)
		default:
			n.Render(&r.ctx)
		}
		if c := n.Child(); c != nil {
			r.render(c)
		}
		n.PostRender(&r.ctx)
		r.balance(n, "render", depth)
	}
}

// update updates n and its siblings.
func (r *Renderer) update(n Node, dt float32) {
	for ; n != nil; n = n.Sibling() {
		depth := r.ctx.Depth()
		n.Update(&r.ctx, dt)
		if c := n.Child(); c != nil {
			r.update(c, dt)
		}
		n.PostUpdate(&r.ctx)
		r.balance(n, "update", depth)
	}
}

// Run updates and then renders the graph rooted at root.
func (r *Renderer) Run(root Node, dt float32) error {
	r.Update(root, dt)
	return r.Render(root)
}
