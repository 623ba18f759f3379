// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package asset

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gviegas/sglib/gfx"
	"github.com/gviegas/sglib/gfx/record"
)

func TestMeshData(t *testing.T) {
	l := New(os.DirFS("testdata"))
	for _, name := range []string{"quad.gltf", "quad.glb"} {
		data, err := l.MeshData(name)
		require.NoError(t, err, name)
		require.Len(t, data.Subsets, 2, name)
		// Both primitives share the four vertices of the
		// quad, which are replicated per subset.
		assert.Len(t, data.Vertices, 8, name)
		assert.Equal(t, []uint32{0, 1, 2, 4, 6, 7}, data.Indices, name)

		// The node translates the quad along +z.
		lo, hi := data.Bounds()
		assert.Equal(t, float32(5), lo[2], name)
		assert.Equal(t, float32(5), hi[2], name)
		assert.Equal(t, float32(-1), data.Vertices[0].Normal[2], name)

		red := data.Subsets[0]
		assert.Equal(t, gfx.Color{R: 1, A: 1}, red.Material.Diffuse, name)
		assert.Nil(t, red.Image, name)

		tex := data.Subsets[1]
		require.NotNil(t, tex.Image, name)
		assert.Equal(t, image.Pt(2, 2), tex.Image.Bounds().Size(), name)
		assert.Equal(t, gfx.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}, tex.Material.Emissive, name)

		again, err := l.MeshData(name)
		require.NoError(t, err)
		if again != data {
			t.Fatalf("Loader.MeshData(%q): cache miss", name)
		}
	}
}

func TestMeshDataErrors(t *testing.T) {
	l := New(fstest.MapFS{
		"mesh.obj":  {Data: []byte("v 0 0 0")},
		"bad.gltf":  {Data: []byte(`{"asset":{}}`)},
		"junk.gltf": {Data: []byte(`not json`)},
	})
	for _, name := range []string{"mesh.obj", "bad.gltf", "junk.gltf", "missing.gltf"} {
		_, err := l.MeshData(name)
		assert.Error(t, err, name)
		assert.Contains(t, err.Error(), name)
	}
}

func TestModel(t *testing.T) {
	l := New(os.DirFS("testdata"))
	dev := record.New()
	m, err := l.Model(dev, "quad.gltf")
	require.NoError(t, err)
	assert.Equal(t, 2, m.Mesh.Subsets())
	require.Len(t, m.Textures, 2)
	assert.Nil(t, m.Textures[0])
	require.NotNil(t, m.Textures[1])
	assert.Equal(t, image.Pt(2, 2), m.Textures[1].Size())

	mesh := m.Mesh.(*record.Mesh)
	tex := m.Textures[1].(*record.Texture)
	m.Release()
	assert.True(t, mesh.Released())
	assert.True(t, tex.Released())
	assert.Nil(t, m.Mesh)

	dev.SetLost(true)
	_, err = l.Model(dev, "quad.gltf")
	assert.ErrorIs(t, err, record.ErrLost)
}

func TestImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	src.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	var b, tf bytes.Buffer
	require.NoError(t, bmp.Encode(&b, src))
	require.NoError(t, tiff.Encode(&tf, src, nil))
	l := New(fstest.MapFS{
		"t.bmp":  {Data: b.Bytes()},
		"t.tiff": {Data: tf.Bytes()},
		"t.txt":  {Data: []byte("text")},
	})
	for _, name := range []string{"t.bmp", "t.tiff"} {
		img, err := l.Image(name)
		require.NoError(t, err, name)
		assert.Equal(t, image.Pt(3, 1), img.Bounds().Size(), name)
		r, _, _, _ := img.At(0, 0).RGBA()
		assert.Equal(t, uint32(0xffff), r, name)
	}
	_, err := l.Image("t.txt")
	assert.Error(t, err)
}

func TestEffect(t *testing.T) {
	l := New(os.DirFS("testdata"))
	desc, err := l.EffectDesc("simple.yaml")
	require.NoError(t, err)
	assert.Equal(t, "simple", desc.Name)
	require.Len(t, desc.Techniques, 2)
	assert.Equal(t, []gfx.StateValue{{Key: gfx.CullMode, Value: gfx.CullCCW}, {Key: gfx.Lighting, Value: gfx.False}},
		desc.Techniques[0].Passes[0].States)
	assert.Len(t, desc.Techniques[1].Passes, 2)

	dev := record.New()
	fx, err := l.Effect(dev, "simple.yaml")
	require.NoError(t, err)
	assert.NoError(t, fx.SetFloat("g_fTime", 1))

	for _, name := range []string{"broken.yaml", "missing.yaml"} {
		_, err := l.Effect(dev, name)
		var ce *gfx.CompileError
		require.ErrorAs(t, err, &ce, name)
		assert.Contains(t, err.Error(), "effect compile failed: "+name)
	}
}

func TestParseEffect(t *testing.T) {
	_, err := ParseEffect("x", []byte("params: [1, 2"))
	assert.ErrorContains(t, err, "effect compile failed")
	_, err = ParseEffect("x", []byte("params:\n  - {name: p, type: quaternion}\ntechniques: [{name: T, passes: [{name: P}]}]\n"))
	assert.ErrorContains(t, err, "unknown type")
	desc, err := ParseEffect("fallback.yaml", []byte("techniques: [{name: T, passes: [{name: P}]}]\n"))
	require.NoError(t, err)
	assert.Equal(t, "fallback.yaml", desc.Name)
}
