// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package sglib

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/sglib/gfx"
	"github.com/gviegas/sglib/gfx/record"
	"github.com/gviegas/sglib/linear"
)

func TestParticleEmission(t *testing.T) {
	cfg := DefaultParticleConfig()
	cfg.Max = 8
	cfg.Period = 0.125
	s := NewParticleSystem(nil, cfg, &Fountain{Speed: 1, Life: 10, Size: 2})
	assert.Equal(t, TypeParticleSys, s.Type())
	assert.Zero(t, s.Alive())
	assert.Nil(t, s.Particle(0))

	s.Update(nil, 0.25)
	if n := s.Alive(); n != 2 {
		t.Fatalf("ParticleSystem.Update: alive\nhave %d\nwant 2", n)
	}
	assert.Equal(t, float32(0.25), s.Time())
	assert.Equal(t, float32(0.25), s.Particle(0).Born)
	s.Update(nil, 0.125)
	assert.Equal(t, 3, s.Alive())

	// The pool bounds the number of alive particles.
	cfg.Max = 2
	s = NewParticleSystem(nil, cfg, &Fountain{Life: 10})
	s.Update(nil, 1)
	assert.Equal(t, 2, s.Alive())
	assert.False(t, s.Emit())

	// No emission without a period.
	cfg.Period = 0
	s = NewParticleSystem(nil, cfg, &Fountain{Life: 10})
	s.Update(nil, 1)
	assert.Zero(t, s.Alive())

	// Nor without an emitter.
	cfg.Period = 0.125
	s = NewParticleSystem(record.New(), cfg, nil)
	s.Update(nil, 1)
	if n := s.Alive(); n != 0 {
		t.Fatalf("ParticleSystem.Update: nil emitter\nhave %d\nwant 0", n)
	}
	assert.False(t, s.Emit())
	s.Render(NewContext(record.New()))
}

func TestParticleLife(t *testing.T) {
	cfg := DefaultParticleConfig()
	cfg.Max = 4
	cfg.Period = 0
	s := NewParticleSystem(nil, cfg, &Fountain{Life: 1})
	require.True(t, s.Emit())
	s.Update(nil, 0.5)
	assert.Equal(t, 1, s.Alive())
	s.Update(nil, 0.5)
	assert.Equal(t, 1, s.Alive(), "age equal to life")
	s.Update(nil, 0.25)
	assert.Zero(t, s.Alive())

	// Dead particles are reused.
	s.SetTime(10)
	for range 4 {
		require.True(t, s.Emit())
	}
	assert.False(t, s.Emit())
	s.Update(nil, 0)
	assert.Equal(t, 4, s.Alive())
}

func TestFountain(t *testing.T) {
	f := &Fountain{
		Origin: linear.V3{1, 0, 0},
		Speed:  2,
		Life:   3,
		Size:   0.5,
		Color:  gfx.Color{R: 1, A: 1},
	}
	var p Particle
	f.Init(&p, 4)
	want := Particle{
		Pos:   linear.V3{1, 0, 0},
		Vel:   linear.V3{0, 2, 0},
		Size:  0.5,
		Born:  4,
		Life:  3,
		Mass:  1,
		Color: gfx.Color{R: 1, A: 1},
	}
	if p != want {
		t.Fatalf("Fountain.Init\nhave %+v\nwant %+v", p, want)
	}
	accel := linear.V3{0, -2, 0}
	pos := Position(&p, &accel, 5)
	inDeltaV3(t, linear.V3{1, 1, 0}, pos, "Position")

	// Successive particles leave in different directions,
	// always within the cone.
	f.Spread = 0.5
	var q Particle
	f.Init(&q, 0)
	f.Init(&p, 0)
	assert.NotEqual(t, q.Vel, p.Vel)
	for _, x := range []Particle{p, q} {
		assert.InDelta(t, 2, x.Vel.Len(), 1e-4)
		assert.Greater(t, x.Vel[1], float32(1.7))
	}

	// Same sequence, same particles.
	g := &Fountain{Speed: 2, Spread: 0.5}
	g.n = 1
	var r Particle
	g.Init(&r, 0)
	assert.Equal(t, q.Vel, r.Vel)
}

func TestParticleRender(t *testing.T) {
	dev := begin(t)
	c := NewContext(dev)
	cfg := DefaultParticleConfig()
	cfg.Period = 0
	f := &Fountain{Speed: 1, Life: 10, Size: 3}
	s := NewParticleSystem(dev, cfg, f)
	require.NoError(t, s.Err())
	assert.Nil(t, s.Effect())

	s.Render(c)
	assert.Empty(t, dev.Filter(record.OpDrawPoints))

	s.Emit()
	s.Emit()
	s.Update(nil, 1)
	s.Render(c)
	draws := dev.Filter(record.OpDrawPoints)
	require.Len(t, draws, 1)
	assert.Equal(t, 2, draws[0].Points)
	assert.Equal(t, float32(3), draws[0].Size)
	assert.Empty(t, draws[0].Effect)
}

func TestParticleEffect(t *testing.T) {
	useTestdata(t)
	dev := begin(t)
	c := NewContext(dev)
	cfg := DefaultParticleConfig()
	cfg.Effect = "particles.yaml"
	cfg.Technique = "Sprites"
	cfg.Texture = "spark.png"
	cfg.Period = 0
	s := NewParticleSystem(dev, cfg, &Fountain{Speed: 1, Life: 10, Size: 1})
	require.NoError(t, s.Err())
	require.NotNil(t, s.Effect())
	require.NotNil(t, s.Texture())
	assert.Equal(t, image.Pt(2, 2), s.Texture().Size())
	assert.Equal(t, cfg, s.Config())

	s.Emit()
	s.Update(nil, 0.5)
	dev.Forget()
	s.Render(c)
	draws := dev.Filter(record.OpDrawPoints)
	require.Len(t, draws, 1)
	assert.Equal(t, "particles", draws[0].Effect)

	fx := s.Effect()
	assert.Equal(t, float32(0.5), param(t, fx, "g_fTime"))
	assert.Equal(t, linear.V4{0, -9.8, 0, 0}, param(t, fx, "g_vecAccel"))
	assert.Equal(t, s.Texture(), param(t, fx, "g_texParticle"))
	assert.Equal(t, linear.Identity(), param(t, fx, "g_matWorldViewProjection"))
	// Pass states are restored.
	assert.Equal(t, gfx.False, dev.RenderState(gfx.PointSpriteEnable))
	assert.Equal(t, gfx.True, dev.RenderState(gfx.ZWriteEnable))

	e := fx.(*record.Effect)
	tex := s.Texture().(*record.Texture)
	s.OnDestroyDevice()
	assert.True(t, e.Released())
	assert.True(t, tex.Released())
	assert.Nil(t, s.Effect())
	s.OnCreateDevice(dev)
	require.NoError(t, s.Err())
	assert.NotNil(t, s.Effect())
	assert.NotNil(t, s.Texture())
	assert.Equal(t, 1, s.Alive())
}

func TestParticleMissingFiles(t *testing.T) {
	useTestdata(t)
	dev := begin(t)
	cfg := DefaultParticleConfig()
	cfg.Texture = "missing.png"
	s := NewParticleSystem(dev, cfg, &Fountain{})
	assert.Error(t, s.Err())
	assert.Nil(t, s.Texture())

	cfg.Texture = ""
	cfg.Effect = "broken.yaml"
	s = NewParticleSystem(dev, cfg, &Fountain{})
	var ce *gfx.CompileError
	assert.ErrorAs(t, s.Err(), &ce)
}
