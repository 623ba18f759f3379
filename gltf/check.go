// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"errors"
)

func newErr(reason string) error {
	return errors.New("gltf: " + reason)
}

func inRange(i, n int) bool { return i >= 0 && i < n }

// Check checks that f is valid glTF.
// It validates the references between objects, so that
// indexing through them cannot go out of bounds.
func (f *GLTF) Check() error {
	if len(f.ExtensionsRequired) > 0 {
		return newErr("required extension not supported: " + f.ExtensionsRequired[0])
	}
	if s := f.Scene; s != nil && !inRange(int(*s), len(f.Scenes)) {
		return newErr("invalid GLTF.Scene index")
	}
	for _, s := range f.Scenes {
		for _, n := range s.Nodes {
			if !inRange(int(n), len(f.Nodes)) {
				return newErr("invalid Scene.Nodes index")
			}
		}
	}
	for _, n := range f.Nodes {
		if m := n.Mesh; m != nil && !inRange(int(*m), len(f.Meshes)) {
			return newErr("invalid Node.Mesh index")
		}
		for _, c := range n.Children {
			if !inRange(int(c), len(f.Nodes)) {
				return newErr("invalid Node.Children index")
			}
		}
	}
	for _, v := range f.BufferViews {
		switch {
		case !inRange(int(v.Buffer), len(f.Buffers)):
			return newErr("invalid BufferView.Buffer index")
		case v.ByteOffset < 0 || v.ByteLength < 1:
			return newErr("invalid BufferView range")
		case v.ByteOffset+v.ByteLength > f.Buffers[v.Buffer].ByteLength:
			return newErr("BufferView out of Buffer bounds")
		case v.ByteStride != 0 && (v.ByteStride < 4 || v.ByteStride > 252 || v.ByteStride%4 != 0):
			return newErr("invalid BufferView.ByteStride value")
		}
	}
	for i := range f.Accessors {
		if err := f.Accessors[i].Check(f); err != nil {
			return err
		}
	}
	for _, m := range f.Meshes {
		if len(m.Primitives) == 0 {
			return newErr("mesh has no primitives")
		}
		for _, p := range m.Primitives {
			if err := p.check(f); err != nil {
				return err
			}
		}
	}
	for _, m := range f.Materials {
		if pbr := m.PBRMetallicRoughness; pbr != nil && pbr.BaseColorTexture != nil {
			if !inRange(int(pbr.BaseColorTexture.Index), len(f.Textures)) {
				return newErr("invalid BaseColorTexture.Index")
			}
		}
	}
	for _, t := range f.Textures {
		if s := t.Source; s != nil && !inRange(int(*s), len(f.Images)) {
			return newErr("invalid Texture.Source index")
		}
	}
	for _, img := range f.Images {
		if v := img.BufferView; v != nil && !inRange(int(*v), len(f.BufferViews)) {
			return newErr("invalid Image.BufferView index")
		}
	}
	return nil
}

// Check checks that a is valid glTF.accessors' element.
func (a *Accessor) Check(gltf *GLTF) error {
	if a.BufferView != nil && !inRange(int(*a.BufferView), len(gltf.BufferViews)) {
		return newErr("invalid Accessor.BufferView index")
	}
	if a.ByteOffset < 0 {
		return newErr("invalid Accessor.ByteOffset value")
	}
	if a.componentSize() == 0 {
		return newErr("invalid Accessor.ComponentType value")
	}
	if a.Count < 1 {
		return newErr("invalid Accessor.Count value")
	}
	if a.components() == 0 {
		return newErr("invalid Accessor.Type value")
	}
	if a.Sparse != nil {
		return newErr("sparse accessors are not supported")
	}
	if a.BufferView != nil {
		v := &gltf.BufferViews[*a.BufferView]
		stride := a.stride(v)
		need := a.ByteOffset + stride*(a.Count-1) + a.elemSize()
		if need > v.ByteLength {
			return newErr("Accessor out of BufferView bounds")
		}
	}
	return nil
}

func (p *Primitive) check(gltf *GLTF) error {
	pos, ok := p.Attributes[POSITION]
	if !ok {
		return newErr("primitive has no POSITION attribute")
	}
	for _, a := range p.Attributes {
		if !inRange(int(a), len(gltf.Accessors)) {
			return newErr("invalid Primitive.Attributes index")
		}
	}
	if acc := &gltf.Accessors[pos]; acc.Type != VEC3 || acc.ComponentType != FLOAT {
		return newErr("POSITION must be a float VEC3")
	}
	if i := p.Indices; i != nil {
		if !inRange(int(*i), len(gltf.Accessors)) {
			return newErr("invalid Primitive.Indices index")
		}
		switch acc := &gltf.Accessors[*i]; {
		case acc.Type != SCALAR:
			return newErr("Primitive.Indices must be SCALAR")
		case acc.ComponentType != UNSIGNED_BYTE && acc.ComponentType != UNSIGNED_SHORT && acc.ComponentType != UNSIGNED_INT:
			return newErr("invalid Primitive.Indices component type")
		}
	}
	if m := p.Material; m != nil && !inRange(int(*m), len(gltf.Materials)) {
		return newErr("invalid Primitive.Material index")
	}
	return nil
}
