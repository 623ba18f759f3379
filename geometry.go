// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package sglib

import (
	"github.com/gviegas/sglib/asset"
	"github.com/gviegas/sglib/gfx"
)

// Drawable is the interface of nodes that a shader can
// draw.
type Drawable interface {
	// Draw issues the draw calls of the node using the
	// state currently set on c's device.
	Draw(c *Context)
}

// Geometry is a node that draws a mesh.
// Each subset of the mesh is drawn with its own material
// and texture.
type Geometry struct {
	Base
	file    string
	model   *asset.Model
	ref     *Geometry
	visible bool
	err     error
}

// NewGeometry creates a Geometry that draws the mesh
// stored in file.
// The mesh is loaded through Assets. If loading fails,
// the node draws nothing and Err reports the failure.
func NewGeometry(dev gfx.Device, file string) *Geometry {
	g := &Geometry{
		Base:    Base{dev: dev},
		file:    file,
		visible: true,
	}
	g.load()
	return g
}

// NewGeometryRef creates a Geometry that draws the mesh
// of ref.
func NewGeometryRef(ref *Geometry) *Geometry {
	return &Geometry{
		Base:    Base{dev: ref.dev},
		ref:     ref,
		visible: true,
	}
}

func (g *Geometry) load() {
	if g.file == "" || g.dev == nil {
		return
	}
	m, err := Assets().Model(g.dev, g.file)
	if err != nil {
		g.err = err
		Logger().Error(prefix+"geometry: load failed", "file", g.file, "err", err)
		return
	}
	g.model = m
	g.err = nil
	Logger().Debug(prefix+"geometry: loaded", "file", g.file, "subsets", m.Mesh.Subsets())
}

func (g *Geometry) release() {
	if g.model != nil {
		g.model.Release()
		g.model = nil
	}
}

// Type returns TypeGeometry.
func (g *Geometry) Type() Type { return TypeGeometry }

// File returns the name of the mesh file.
func (g *Geometry) File() string { return g.file }

// Err returns the error of the last load, if any.
func (g *Geometry) Err() error { return g.err }

// Reference returns the Geometry that g draws the mesh
// of, or nil.
func (g *Geometry) Reference() *Geometry { return g.ref }

// Visible returns whether g is drawn.
func (g *Geometry) Visible() bool { return g.visible }

// SetVisible sets whether g is drawn.
func (g *Geometry) SetVisible(visible bool) { g.visible = visible }

// Subsets returns the number of subsets of the mesh.
// It returns 0 if there is no mesh.
func (g *Geometry) Subsets() int {
	switch {
	case g.ref != nil:
		return g.ref.Subsets()
	case g.model == nil:
		return 0
	}
	return len(g.model.Materials)
}

// Material returns the material of subset i.
// It returns the zero Material if i is not a valid subset.
func (g *Geometry) Material(i int) gfx.Material {
	switch {
	case g.ref != nil:
		return g.ref.Material(i)
	case g.model == nil || i < 0 || i >= len(g.model.Materials):
		return gfx.Material{}
	}
	return g.model.Materials[i]
}

// SetMaterial sets the material of subset i.
// Geometries that reference g are affected as well.
// Invalid subsets are ignored.
func (g *Geometry) SetMaterial(i int, m gfx.Material) {
	switch {
	case g.ref != nil:
		g.ref.SetMaterial(i, m)
	case g.model == nil || i < 0 || i >= len(g.model.Materials):
	default:
		g.model.Materials[i] = m
	}
}

// Render draws the mesh with the fixed-function state of
// the device.
func (g *Geometry) Render(c *Context) { g.Draw(c) }

// Draw draws every subset of the mesh, unless g is not
// visible.
// The device material and stage 0 texture are restored
// after each subset.
func (g *Geometry) Draw(c *Context) {
	if g.visible {
		g.drawModel(c)
	}
}

// drawModel draws the mesh of g or of the Geometry it
// references, regardless of visibility.
func (g *Geometry) drawModel(c *Context) {
	if g.ref != nil {
		g.ref.drawModel(c)
		return
	}
	if g.model == nil {
		return
	}
	dev := c.Device()
	for i := range g.model.Mesh.Subsets() {
		prevMat := dev.Material()
		check(dev.SetMaterial(&g.model.Materials[i]), "geometry: SetMaterial", "file", g.file)
		var prevTex gfx.Texture
		tex := g.model.Textures[i]
		if tex != nil {
			prevTex = dev.Texture(0)
			check(dev.SetTexture(0, tex), "geometry: SetTexture", "file", g.file)
		}
		check(g.model.Mesh.DrawSubset(i), "geometry: DrawSubset", "file", g.file, "subset", i)
		check(dev.SetMaterial(&prevMat), "geometry: SetMaterial", "file", g.file)
		if tex != nil {
			check(dev.SetTexture(0, prevTex), "geometry: SetTexture", "file", g.file)
		}
	}
}

// OnCreateDevice reloads the mesh on dev.
func (g *Geometry) OnCreateDevice(dev gfx.Device) {
	g.Base.OnCreateDevice(dev)
	g.release()
	g.load()
}

// OnDestroyDevice releases the mesh.
func (g *Geometry) OnDestroyDevice() {
	g.Base.OnDestroyDevice()
	g.release()
}
