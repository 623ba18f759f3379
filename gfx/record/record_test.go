// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package record

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/sglib/gfx"
	"github.com/gviegas/sglib/linear"
)

func triangle(subsets int) *gfx.MeshData {
	data := &gfx.MeshData{
		Vertices: []gfx.Vertex{{}, {Position: linear.V3{1}}, {Position: linear.V3{0, 1}}},
	}
	for range subsets {
		data.Indices = append(data.Indices, 0, 1, 2)
		data.Subsets = append(data.Subsets, gfx.Subset{First: len(data.Indices) - 3, Count: 3})
	}
	return data
}

func TestInitialState(t *testing.T) {
	d := New()
	for s := range gfx.NSlot {
		if m := d.Matrix(s); m != linear.Identity() {
			t.Fatalf("Device.Matrix(%v)\nhave %v\nwant identity", s, m)
		}
	}
	if v := d.RenderState(gfx.Lighting); v != gfx.True {
		t.Fatalf("Device.RenderState(Lighting)\nhave %d\nwant %d", v, gfx.True)
	}
	if m := d.Material(); m != gfx.DefaultMaterial() {
		t.Fatalf("Device.Material\nhave %v\nwant %v", m, gfx.DefaultMaterial())
	}
	assert.Nil(t, d.Texture(0))
	assert.Empty(t, d.EnabledLights())
	assert.Empty(t, d.Calls())
}

func TestScene(t *testing.T) {
	d := New()
	mesh, err := d.CreateMesh(triangle(2))
	require.NoError(t, err)
	require.Equal(t, 2, mesh.Subsets())

	assert.Error(t, mesh.DrawSubset(0), "draw outside scene")
	assert.Error(t, d.EndScene())

	require.NoError(t, d.Clear(gfx.ClearTarget|gfx.ClearZBuffer, gfx.Color{}, 1, 0))
	require.NoError(t, d.BeginScene())
	assert.Error(t, d.BeginScene())
	var m linear.M4
	m.Translate(1, 2, 3)
	require.NoError(t, d.SetMatrix(gfx.World, &m))
	tex, err := d.CreateTexture(image.NewRGBA(image.Rect(0, 0, 4, 2)))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(4, 2), tex.Size())
	require.NoError(t, d.SetTexture(0, tex))
	require.NoError(t, mesh.DrawSubset(1))
	assert.Error(t, mesh.DrawSubset(2))
	require.NoError(t, d.EndScene())
	assert.Equal(t, 1, d.Frames())

	draws := d.Filter(OpDrawSubset)
	require.Len(t, draws, 1)
	assert.Equal(t, m, draws[0].Matrix)
	assert.Equal(t, tex.(*Texture).Name(), draws[0].Texture)
	assert.Equal(t, "DrawSubset mesh#1[1]", draws[0].String())

	mesh.Release()
	assert.True(t, mesh.(*Mesh).Released())

	d.Forget()
	assert.Empty(t, d.Calls())
	assert.Equal(t, m, d.Matrix(gfx.World))
}

func TestLightsLost(t *testing.T) {
	d := New()
	l := gfx.Directional(linear.V3{0, -1, 0})
	require.NoError(t, d.SetLight(3, &l))
	require.NoError(t, d.EnableLight(3, true))
	require.NoError(t, d.EnableLight(5, true))
	assert.Equal(t, []int{3, 5}, d.EnabledLights())
	assert.Equal(t, l, d.Light(3))
	require.NoError(t, d.EnableLight(3, false))
	assert.False(t, d.LightEnabled(3))
	assert.Error(t, d.EnableLight(MaxLights, true))

	d.SetLost(true)
	assert.ErrorIs(t, d.SetRenderState(gfx.Lighting, gfx.False), ErrLost)
	assert.ErrorIs(t, d.BeginScene(), ErrLost)
	_, err := d.CreateEffect(&gfx.EffectDesc{})
	var ce *gfx.CompileError
	assert.ErrorAs(t, err, &ce)
	d.SetLost(false)
	assert.NoError(t, d.SetRenderState(gfx.Lighting, gfx.False))
}

func TestEffect(t *testing.T) {
	d := New()
	desc := &gfx.EffectDesc{
		Name:   "fx",
		Params: []gfx.ParamDesc{{Name: "g_matWorld", Type: gfx.ParamMatrix}, {Name: "g_fTime", Type: gfx.ParamFloat}},
		Techniques: []gfx.TechniqueDesc{
			{Name: "Render", Passes: []gfx.PassDesc{
				{Name: "P0", States: []gfx.StateValue{{Key: gfx.CullMode, Value: gfx.CullNone}}},
				{Name: "P1"},
			}},
			{Name: "Shadow", Passes: []gfx.PassDesc{{Name: "P0"}}},
		},
	}
	fx, err := d.CreateEffect(desc)
	require.NoError(t, err)
	e := fx.(*Effect)
	assert.Equal(t, "Render", e.Technique())

	assert.Error(t, fx.SetTechnique("Missing"))
	assert.Error(t, fx.SetFloat("g_matWorld", 1), "type mismatch")
	assert.Error(t, fx.SetFloat("g_missing", 1))
	require.NoError(t, fx.SetFloat("g_fTime", 2.5))
	v, ok := e.Param("g_fTime")
	require.True(t, ok)
	assert.Equal(t, float32(2.5), v)

	require.NoError(t, d.BeginScene())
	n, err := fx.Begin()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.NoError(t, fx.BeginPass(0))
	assert.Equal(t, gfx.CullNone, d.RenderState(gfx.CullMode))
	require.NoError(t, d.DrawPoints(make([]linear.V3, 4), 1))
	require.NoError(t, fx.EndPass())
	assert.Equal(t, gfx.CullCCW, d.RenderState(gfx.CullMode))
	assert.Error(t, fx.EndPass())
	require.NoError(t, fx.End())
	require.NoError(t, d.EndScene())

	pts := d.Filter(OpDrawPoints)
	require.Len(t, pts, 1)
	assert.Equal(t, "fx", pts[0].Effect)
	assert.Equal(t, 4, pts[0].Points)

	fx.OnLostDevice()
	assert.ErrorIs(t, fx.SetFloat("g_fTime", 0), ErrLost)
	fx.OnResetDevice()
	assert.Equal(t, 1, e.Resets())
	require.NoError(t, fx.SetTechnique("Shadow"))
	fx.Release()
	assert.True(t, e.Released())
}
