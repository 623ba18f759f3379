// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"path"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/sglib/gfx"
	"github.com/gviegas/sglib/gltf"
	"github.com/gviegas/sglib/linear"
)

func (l *Loader) loadGLTF(name string) (*gfx.MeshData, error) {
	b, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, err
	}
	var doc *gltf.GLTF
	var bin []byte
	if gltf.IsGLB(bytes.NewReader(b)) {
		doc, bin, err = gltf.ReadGLB(bytes.NewReader(b))
	} else {
		doc, err = gltf.Decode(bytes.NewReader(b))
	}
	if err != nil {
		return nil, err
	}
	if err = doc.Check(); err != nil {
		return nil, err
	}
	dir := path.Dir(name)
	open := func(uri string) ([]byte, error) { return fs.ReadFile(l.fsys, path.Join(dir, uri)) }
	bufs, err := doc.LoadBuffers(bin, open)
	if err != nil {
		return nil, err
	}
	conv := meshConv{
		doc:    doc,
		bufs:   bufs,
		open:   open,
		images: make(map[int]image.Image),
	}
	data := new(gfx.MeshData)
	for _, inst := range doc.Instances() {
		for i := range doc.Meshes[inst.Mesh].Primitives {
			if err := conv.primitive(data, &doc.Meshes[inst.Mesh].Primitives[i], inst.World); err != nil {
				return nil, fmt.Errorf("mesh %d: primitive %d: %w", inst.Mesh, i, err)
			}
		}
	}
	if len(data.Subsets) == 0 {
		return nil, errors.New("no drawable primitive")
	}
	return data, nil
}

type meshConv struct {
	doc    *gltf.GLTF
	bufs   [][]byte
	open   func(string) ([]byte, error)
	images map[int]image.Image
}

// primitive appends p to data as a new subset, with its
// vertices transformed by world.
func (c *meshConv) primitive(data *gfx.MeshData, p *gltf.Primitive, world mgl32.Mat4) error {
	if p.Mode != nil && *p.Mode != gltf.TRIANGLES {
		return errors.New("only triangle lists are supported")
	}
	pos := c.doc.ReadFloats(p.Attributes[gltf.POSITION], c.bufs)
	n := len(pos) / 3
	var nrm, uv []float32
	if i, ok := p.Attributes[gltf.NORMAL]; ok {
		if nrm = c.doc.ReadFloats(i, c.bufs); len(nrm) != n*3 {
			return errors.New("NORMAL count mismatch")
		}
	}
	if i, ok := p.Attributes[gltf.TEXCOORD_0]; ok {
		if uv = c.doc.ReadFloats(i, c.bufs); len(uv) != n*2 {
			return errors.New("TEXCOORD_0 count mismatch")
		}
	}
	normalMat := world.Mat3().Inv().Transpose()
	base := uint32(len(data.Vertices))
	for i := range n {
		wp := world.Mul4x1(mgl32.Vec4{pos[i*3], pos[i*3+1], pos[i*3+2], 1})
		v := gfx.Vertex{Position: linear.V3{wp[0], wp[1], wp[2]}}
		if nrm != nil {
			q := normalMat.Mul3x1(mgl32.Vec3{nrm[i*3], nrm[i*3+1], nrm[i*3+2]})
			if q.Len() != 0 {
				q = q.Normalize()
			}
			v.Normal = linear.V3(q)
		}
		if uv != nil {
			v.UV = [2]float32{uv[i*2], uv[i*2+1]}
		}
		data.Vertices = append(data.Vertices, v)
	}
	first := len(data.Indices)
	if p.Indices != nil {
		for _, x := range c.doc.ReadIndices(*p.Indices, c.bufs) {
			if int(x) >= n {
				return errors.New("index out of bounds")
			}
			data.Indices = append(data.Indices, base+x)
		}
	} else {
		for i := range n {
			data.Indices = append(data.Indices, base+uint32(i))
		}
	}
	sub := gfx.Subset{
		First:    first,
		Count:    len(data.Indices) - first,
		Material: gfx.DefaultMaterial(),
	}
	if p.Material != nil {
		var err error
		if sub.Material, sub.Image, err = c.material(int(*p.Material)); err != nil {
			return err
		}
	}
	data.Subsets = append(data.Subsets, sub)
	return nil
}

// material converts the base color and emissive terms of
// a glTF material.
func (c *meshConv) material(i int) (m gfx.Material, img image.Image, err error) {
	src := &c.doc.Materials[i]
	m = gfx.DefaultMaterial()
	if e := src.EmissiveFactor; e != nil {
		m.Emissive = gfx.Color{R: e[0], G: e[1], B: e[2], A: 1}
	}
	pbr := src.PBRMetallicRoughness
	if pbr == nil {
		return
	}
	if f := pbr.BaseColorFactor; f != nil {
		m.Diffuse = gfx.Color{R: f[0], G: f[1], B: f[2], A: f[3]}
		m.Ambient = m.Diffuse
	}
	if r := pbr.RoughnessFactor; r != nil {
		m.Specular = gfx.Color{R: 1, G: 1, B: 1, A: 1}
		m.Power = (1 - min(max(*r, 0), 1)) * 128
	}
	if t := pbr.BaseColorTexture; t != nil {
		if src := c.doc.Textures[t.Index].Source; src != nil {
			img, err = c.image(int(*src))
		}
	}
	return
}

func (c *meshConv) image(i int) (image.Image, error) {
	if img, ok := c.images[i]; ok {
		return img, nil
	}
	b, ok, err := c.doc.LoadImage(i, c.bufs)
	switch {
	case err != nil:
		return nil, err
	case !ok:
		if b, err = c.open(c.doc.Images[i].URI); err != nil {
			return nil, err
		}
	}
	img, err := decodeImage(b)
	if err != nil {
		return nil, fmt.Errorf("image %d: %w", i, err)
	}
	c.images[i] = img
	return img, nil
}
