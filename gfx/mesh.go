// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gfx

import (
	"errors"
	"image"

	"github.com/gviegas/sglib/linear"
)

// Vertex is the vertex format of MeshData.
type Vertex struct {
	Position linear.V3
	Normal   linear.V3
	UV       [2]float32
}

// Subset describes a range of triangles of a mesh that
// is drawn with a single material and texture.
type Subset struct {
	// First index and number of indices.
	// Count must be a multiple of 3.
	First, Count int
	Material     Material
	// Image used as the subset's texture.
	// It is nil if the subset is not textured.
	Image image.Image
}

// MeshData describes an indexed triangle list mesh.
type MeshData struct {
	Vertices []Vertex
	Indices  []uint32
	Subsets  []Subset
}

const meshPrefix = "gfx: mesh: "

// Check checks whether data is valid.
func (data *MeshData) Check() error {
	newErr := func(reason string) error { return errors.New(meshPrefix + reason) }

	switch {
	case data == nil:
		return newErr("nil data")
	case len(data.Vertices) == 0:
		return newErr("no vertex data")
	case len(data.Subsets) == 0:
		return newErr("no subset")
	}
	for _, s := range data.Subsets {
		switch {
		case s.First < 0 || s.Count <= 0:
			return newErr("invalid subset range")
		case s.Count%3 != 0:
			return newErr("invalid count for triangle list")
		case s.First+s.Count > len(data.Indices):
			return newErr("subset range out of bounds")
		}
	}
	for _, x := range data.Indices {
		if int64(x) >= int64(len(data.Vertices)) {
			return newErr("index out of bounds")
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounds of data's
// vertices.
// It returns zero vectors if data has no vertices.
func (data *MeshData) Bounds() (lo, hi linear.V3) {
	if len(data.Vertices) == 0 {
		return
	}
	lo = data.Vertices[0].Position
	hi = lo
	for _, v := range data.Vertices[1:] {
		for i := range 3 {
			lo[i] = min(lo[i], v.Position[i])
			hi[i] = max(hi[i], v.Position[i])
		}
	}
	return
}
