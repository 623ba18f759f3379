// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package sglib

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/sglib/gfx"
	"github.com/gviegas/sglib/gfx/record"
	"github.com/gviegas/sglib/linear"
)

func ops(calls []record.Call) (s []record.Op) {
	for _, c := range calls {
		s = append(s, c.Op)
	}
	return
}

func param(t *testing.T, fx gfx.Effect, name string) any {
	t.Helper()
	v, ok := fx.(*record.Effect).Param(name)
	if !ok {
		t.Fatalf("effect parameter %q not set", name)
	}
	return v
}

func TestShader(t *testing.T) {
	useTestdata(t)
	dev := begin(t)
	c := NewContext(dev)
	s := NewShader(dev, "simple.yaml", "RenderWireframe", DefaultMatrixBinder())
	require.NoError(t, s.Err())
	require.NotNil(t, s.Effect())
	assert.Equal(t, "RenderWireframe", s.Effect().(*record.Effect).Technique())
	g := NewGeometry(dev, "quad.gltf")

	var w linear.M4
	w.Translate(0, 0, 5)
	c.PushMatrix(gfx.World, &w)
	dev.Forget()
	s.RenderGeometry(c, g)

	want := []record.Op{record.OpBegin, record.OpBeginPass, record.OpEndPass, record.OpBeginPass, record.OpEndPass, record.OpEnd}
	if have := ops(dev.Filter(record.OpBegin, record.OpBeginPass, record.OpEndPass, record.OpEnd)); !assert.ObjectsAreEqual(want, have) {
		t.Fatalf("Shader.RenderGeometry: passes\nhave %v\nwant %v", have, want)
	}
	draws := dev.Filter(record.OpDrawSubset)
	require.Len(t, draws, 4)
	for _, d := range draws {
		assert.Equal(t, "simple", d.Effect)
		assert.Equal(t, w, d.Matrix)
	}
	// Pass states are restored.
	assert.Equal(t, gfx.FillSolid, dev.RenderState(gfx.FillMode))

	assert.Equal(t, w, param(t, s.Effect(), "g_matWorld"))
	assert.Equal(t, w, param(t, s.Effect(), "g_matWorldViewProjection"))
	var wit linear.M4
	wit.InvertTranspose(&w)
	assert.Equal(t, wit, param(t, s.Effect(), "g_matWorldInverseTranspose"))

	dev.Forget()
	s.RenderGeometry(c, nil)
	assert.Empty(t, dev.Calls())
}

func TestShaderStatic(t *testing.T) {
	useTestdata(t)
	dev := begin(t)
	s := NewShader(dev, "simple.yaml", "RenderWireframe", nil)
	require.NoError(t, s.SetFloat("g_fTime", 2))
	assert.Error(t, s.SetFloat("g_fUnknown", 1))
	assert.Error(t, s.SetVector("g_fTime", linear.V4{}))
	tex, err := dev.CreateTexture(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	require.NoError(t, err)
	require.NoError(t, s.SetTexture("g_MeshTexture", tex))
	require.NoError(t, s.SetFloat("g_fTime", 3))

	old := s.Effect().(*record.Effect)
	s.OnDestroyDevice()
	assert.True(t, old.Released())
	assert.Nil(t, s.Effect())

	s.OnCreateDevice(dev)
	require.NoError(t, s.Err())
	fx := s.Effect()
	require.NotNil(t, fx)
	assert.NotSame(t, old, fx)
	assert.Equal(t, float32(3), param(t, fx, "g_fTime"))
	assert.Equal(t, tex, param(t, fx, "g_MeshTexture"))
	assert.Equal(t, "RenderWireframe", fx.(*record.Effect).Technique())

	require.NoError(t, s.SetTechnique("RenderScene"))
	assert.Equal(t, "RenderScene", s.Technique())
	assert.Error(t, s.SetTechnique("Missing"))

	s.OnLostDevice()
	assert.True(t, fx.(*record.Effect).Lost())
	s.OnResetDevice(dev)
	assert.False(t, fx.(*record.Effect).Lost())
	assert.Equal(t, 1, fx.(*record.Effect).Resets())
}

func TestShaderRef(t *testing.T) {
	useTestdata(t)
	dev := begin(t)
	c := NewContext(dev)
	s := NewShader(dev, "simple.yaml", "", DefaultMatrixBinder())
	r := NewShaderRef(s)
	assert.Same(t, s, r.Reference())
	assert.Equal(t, TypeShader, r.Type())
	g := NewGeometry(dev, "quad.gltf")

	s.RenderGeometry(c, g)
	want := dev.Filter(record.OpDrawSubset)
	dev.Forget()
	r.RenderGeometry(c, g)
	have := dev.Filter(record.OpDrawSubset)
	require.Len(t, have, 2)
	assert.Equal(t, want, have)
	assert.Equal(t, "simple", have[0].Effect)
}

func TestShaderCompileError(t *testing.T) {
	useTestdata(t)
	b := captureLog(t)
	dev := begin(t)
	c := NewContext(dev)
	g := NewGeometry(dev, "quad.gltf")
	for _, file := range []string{"broken.yaml", "missing.yaml"} {
		s := NewShader(dev, file, "", DefaultMatrixBinder())
		var ce *gfx.CompileError
		if !errors.As(s.Err(), &ce) {
			t.Fatalf("NewShader(%q).Err\nhave %v\nwant *gfx.CompileError", file, s.Err())
		}
		assert.Nil(t, s.Effect())
		assert.Contains(t, b.String(), file)

		// Geometry is still drawn, without an effect.
		dev.Forget()
		s.RenderGeometry(c, g)
		draws := dev.Filter(record.OpDrawSubset)
		require.Len(t, draws, 2, file)
		assert.Empty(t, draws[0].Effect)
		assert.Empty(t, dev.Filter(record.OpBegin))
	}
}

func TestBinders(t *testing.T) {
	useTestdata(t)
	dev := record.New()
	c := NewContext(dev)
	fx, err := Assets().Effect(dev, "simple.yaml")
	require.NoError(t, err)

	var calls int
	count := BinderFunc(func(*Context, gfx.Effect) error {
		calls++
		return nil
	})
	fail := BinderFunc(func(_ *Context, fx gfx.Effect) error { return fx.SetFloat("g_fMissing", 0) })
	err = Binders{count, nil, fail, count}.Bind(c, fx)
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.NoError(t, Binders{}.Bind(c, fx))

	var v, p, w linear.M4
	v.Translate(0, 0, 3)
	p.Perspective(1, 1, 1, 10)
	w.RotateY(0.25)
	c.PushMatrix(gfx.View, &v)
	c.PushMatrix(gfx.Projection, &p)
	c.PushMatrix(gfx.World, &w)
	require.NoError(t, MatrixBinder{WorldViewProj: "g_matWorldViewProjection"}.Bind(c, fx))
	var want linear.M4
	want.Mul(&p, &v)
	want.Mul(&want, &w)
	assert.Equal(t, want, param(t, fx, "g_matWorldViewProjection"))
	_, ok := fx.(*record.Effect).Param("g_matWorld")
	assert.False(t, ok)
}

func TestShadowBinder(t *testing.T) {
	useTestdata(t)
	dev := begin(t)
	c := NewContext(dev)
	shadowMap, err := dev.CreateTexture(image.NewGray(image.Rect(0, 0, 4, 4)))
	require.NoError(t, err)
	b := &ShadowBinder{
		Matrices:   DefaultMatrixBinder(),
		LightParam: "g_matLightWorldViewProjection",
		MapParam:   "g_texShadowMap",
		Map:        shadowMap,
	}
	b.LightViewProj.LookAt(&linear.V3{0, 10, 0}, &linear.V3{}, &linear.V3{0, 0, 1})
	s := NewShader(dev, "shadow.yaml", "Scene", b)
	require.NoError(t, s.Err())
	g := NewGeometry(dev, "quad.gltf")

	var w linear.M4
	w.Translate(2, 0, 0)
	c.PushMatrix(gfx.World, &w)
	s.RenderGeometry(c, g)
	var want linear.M4
	want.Mul(&b.LightViewProj, &w)
	assert.Equal(t, want, param(t, s.Effect(), "g_matLightWorldViewProjection"))
	assert.Equal(t, shadowMap, param(t, s.Effect(), "g_texShadowMap"))
	assert.Equal(t, w, param(t, s.Effect(), "g_matWorld"))
	assert.Len(t, dev.Filter(record.OpDrawSubset), 2)

	// The depth pass culls front faces.
	require.NoError(t, s.SetTechnique("ShadowMap"))
	dev.Forget()
	s.RenderGeometry(c, g)
	states := dev.Filter(record.OpSetRenderState)
	require.NotEmpty(t, states)
	assert.Equal(t, gfx.CullMode, states[0].Key)
	assert.Equal(t, gfx.CullCW, states[0].Value)
}
