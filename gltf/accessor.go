// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"encoding/base64"
	"encoding/binary"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

func (a *Accessor) componentSize() int64 {
	switch a.ComponentType {
	case BYTE, UNSIGNED_BYTE:
		return 1
	case SHORT, UNSIGNED_SHORT:
		return 2
	case UNSIGNED_INT, FLOAT:
		return 4
	}
	return 0
}

func (a *Accessor) components() int64 {
	switch a.Type {
	case SCALAR:
		return 1
	case VEC2:
		return 2
	case VEC3:
		return 3
	case VEC4:
		return 4
	case MAT4:
		return 16
	}
	return 0
}

func (a *Accessor) elemSize() int64 { return a.componentSize() * a.components() }

func (a *Accessor) stride(v *BufferView) int64 {
	if v.ByteStride != 0 {
		return v.ByteStride
	}
	return a.elemSize()
}

// LoadBuffers resolves the contents of every buffer in f.
// bin is the BIN chunk of a GLB blob, used for the first
// buffer when it has no URI. Data URIs are decoded in
// place. Any other URI is handed to open, which may be
// nil if f is known to be self-contained.
func (f *GLTF) LoadBuffers(bin []byte, open func(uri string) ([]byte, error)) ([][]byte, error) {
	bufs := make([][]byte, len(f.Buffers))
	for i, b := range f.Buffers {
		var data []byte
		var err error
		switch {
		case b.URI == "" && i == 0 && bin != nil:
			data = bin
		case b.URI == "":
			return nil, newErr("buffer has no data")
		case strings.HasPrefix(b.URI, "data:"):
			data, err = decodeDataURI(b.URI)
		case open == nil:
			return nil, newErr("external buffer: " + b.URI)
		default:
			data, err = open(b.URI)
		}
		if err != nil {
			return nil, err
		}
		if int64(len(data)) < b.ByteLength {
			return nil, newErr("buffer shorter than Buffer.ByteLength")
		}
		bufs[i] = data
	}
	return bufs, nil
}

// LoadImage returns the encoded bytes of an image stored
// in a buffer view or in a data URI.
// It returns ok == false if the image refers to an
// external file, in which case the caller must load
// Image.URI itself.
func (f *GLTF) LoadImage(i int, bufs [][]byte) (data []byte, ok bool, err error) {
	img := &f.Images[i]
	switch {
	case img.BufferView != nil:
		v := &f.BufferViews[*img.BufferView]
		b := bufs[v.Buffer]
		return b[v.ByteOffset : v.ByteOffset+v.ByteLength], true, nil
	case strings.HasPrefix(img.URI, "data:"):
		data, err = decodeDataURI(img.URI)
		return data, err == nil, err
	}
	return nil, false, nil
}

func decodeDataURI(uri string) ([]byte, error) {
	_, data, ok := strings.Cut(uri, ";base64,")
	if !ok {
		return nil, newErr("unsupported data URI")
	}
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, newErr("invalid base64 in data URI")
	}
	return b, nil
}

// elements calls fn with the bytes of each element of
// accessor i.
// An accessor with no buffer view yields zeroed elements.
func (f *GLTF) elements(i int64, bufs [][]byte, fn func(elem []byte)) {
	a := &f.Accessors[i]
	if a.BufferView == nil {
		zero := make([]byte, a.elemSize())
		for range a.Count {
			fn(zero)
		}
		return
	}
	v := &f.BufferViews[*a.BufferView]
	data := bufs[v.Buffer][v.ByteOffset : v.ByteOffset+v.ByteLength]
	stride, size := a.stride(v), a.elemSize()
	for j := range a.Count {
		off := a.ByteOffset + j*stride
		fn(data[off : off+size])
	}
}

// ReadFloats reads accessor i as float32 values.
// Integer components are converted, and normalized ones
// are mapped to [0, 1] or [-1, 1].
// The result has Count * <number of components> values.
func (f *GLTF) ReadFloats(i int64, bufs [][]byte) []float32 {
	a := &f.Accessors[i]
	n, csz := a.components(), a.componentSize()
	s := make([]float32, 0, a.Count*n)
	le := binary.LittleEndian
	f.elements(i, bufs, func(elem []byte) {
		for c := range n {
			b := elem[c*csz:]
			var x float32
			switch a.ComponentType {
			case FLOAT:
				x = math.Float32frombits(le.Uint32(b))
			case UNSIGNED_BYTE:
				x = float32(b[0])
				if a.Normalized {
					x /= math.MaxUint8
				}
			case BYTE:
				x = float32(int8(b[0]))
				if a.Normalized {
					x = max(x/math.MaxInt8, -1)
				}
			case UNSIGNED_SHORT:
				x = float32(le.Uint16(b))
				if a.Normalized {
					x /= math.MaxUint16
				}
			case SHORT:
				x = float32(int16(le.Uint16(b)))
				if a.Normalized {
					x = max(x/math.MaxInt16, -1)
				}
			case UNSIGNED_INT:
				x = float32(le.Uint32(b))
			}
			s = append(s, x)
		}
	})
	return s
}

// ReadIndices reads accessor i as unsigned indices.
// It is only meaningful for SCALAR accessors of unsigned
// integer type.
func (f *GLTF) ReadIndices(i int64, bufs [][]byte) []uint32 {
	a := &f.Accessors[i]
	s := make([]uint32, 0, a.Count)
	le := binary.LittleEndian
	f.elements(i, bufs, func(elem []byte) {
		switch a.ComponentType {
		case UNSIGNED_BYTE:
			s = append(s, uint32(elem[0]))
		case UNSIGNED_SHORT:
			s = append(s, uint32(le.Uint16(elem)))
		case UNSIGNED_INT:
			s = append(s, le.Uint32(elem))
		}
	})
	return s
}

// LocalMatrix returns the local transform of n.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	if n.Matrix != nil {
		return mgl32.Mat4(*n.Matrix)
	}
	m := mgl32.Ident4()
	if t := n.Translation; t != nil {
		m = mgl32.Translate3D(t[0], t[1], t[2])
	}
	if r := n.Rotation; r != nil {
		q := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
		m = m.Mul4(q.Normalize().Mat4())
	}
	if s := n.Scale; s != nil {
		m = m.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	}
	return m
}

// Instance is a mesh placed in the world by a node.
type Instance struct {
	Mesh  int64
	World mgl32.Mat4
}

// Instances returns the meshes of the default scene with
// their world transforms, in depth-first order.
// If f has no scene, every root node is used. If f has no
// nodes, every mesh is returned with an identity world.
func (f *GLTF) Instances() (inst []Instance) {
	if len(f.Nodes) == 0 {
		for i := range f.Meshes {
			inst = append(inst, Instance{int64(i), mgl32.Ident4()})
		}
		return
	}
	var roots []int64
	switch {
	case f.Scene != nil:
		roots = f.Scenes[*f.Scene].Nodes
	case len(f.Scenes) > 0:
		roots = f.Scenes[0].Nodes
	default:
		child := make([]bool, len(f.Nodes))
		for _, n := range f.Nodes {
			for _, c := range n.Children {
				child[c] = true
			}
		}
		for i, c := range child {
			if !c {
				roots = append(roots, int64(i))
			}
		}
	}
	type item struct {
		node   int64
		parent mgl32.Mat4
	}
	stk := make([]item, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stk = append(stk, item{roots[i], mgl32.Ident4()})
	}
	// Bounded, since a malformed file may contain cycles.
	for visits := 0; len(stk) > 0 && visits < 1<<16; visits++ {
		it := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		n := &f.Nodes[it.node]
		world := it.parent.Mul4(n.LocalMatrix())
		if n.Mesh != nil {
			inst = append(inst, Instance{*n.Mesh, world})
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stk = append(stk, item{n.Children[i], world})
		}
	}
	return
}
