// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package sglib

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/sglib/gfx"
	"github.com/gviegas/sglib/linear"
)

// Particle is an element of a ParticleSystem.
type Particle struct {
	Pos   linear.V3
	Vel   linear.V3
	Size  float32
	Born  float32
	Life  float32
	Mass  float32
	Color gfx.Color
}

// Age returns the age of p at time t.
func (p *Particle) Age(t float32) float32 { return t - p.Born }

// Emitter defines how a ParticleSystem creates and draws
// its particles.
type Emitter interface {
	// Init initializes a particle emitted at time t.
	Init(p *Particle, t float32)

	// Draw draws the alive particles of s.
	// It is called once per pass of the system's
	// effect, or once if there is no effect.
	Draw(c *Context, s *ParticleSystem) error
}

// ParticleConfig configures a ParticleSystem.
type ParticleConfig struct {
	// Effect file and technique. An empty Effect draws
	// without an effect.
	Effect    string
	Technique string
	// Texture file, optional.
	Texture string

	// Accel is the acceleration applied to every
	// particle.
	Accel linear.V3
	// Max is the size of the particle pool.
	Max int
	// Period is the time between emissions. A
	// non-positive Period disables emission on Update.
	Period float32

	// Names of the effect parameters that receive the
	// system time, the acceleration and the texture.
	// Empty names are skipped.
	TimeParam    string
	AccelParam   string
	TextureParam string
	// Matrices sets the transforms.
	Matrices MatrixBinder
}

// DefaultParticleConfig returns a ParticleConfig with
// a pool of 256 particles emitted every 0.05 seconds
// under gravity.
func DefaultParticleConfig() ParticleConfig {
	return ParticleConfig{
		Accel:        linear.V3{0, -9.8, 0},
		Max:          256,
		Period:       0.05,
		TimeParam:    "g_fTime",
		AccelParam:   "g_vecAccel",
		TextureParam: "g_texParticle",
		Matrices:     MatrixBinder{WorldViewProj: "g_matWorldViewProjection"},
	}
}

// ParticleSystem is a node that emits, ages and draws
// particles.
type ParticleSystem struct {
	Base
	cfg     ParticleConfig
	emitter Emitter
	fx      gfx.Effect
	tex     gfx.Texture
	err     error

	time  float32
	accum float32
	pool  []Particle
	alive []*Particle
	dead  []*Particle
}

// NewParticleSystem creates a ParticleSystem.
// Every particle starts dead. A nil e never emits nor
// draws.
func NewParticleSystem(dev gfx.Device, cfg ParticleConfig, e Emitter) *ParticleSystem {
	s := &ParticleSystem{
		Base:    Base{dev: dev},
		cfg:     cfg,
		emitter: e,
		pool:    make([]Particle, max(cfg.Max, 0)),
	}
	s.alive = make([]*Particle, 0, len(s.pool))
	s.dead = make([]*Particle, 0, len(s.pool))
	for i := range s.pool {
		s.pool[i].Life = -1
		s.dead = append(s.dead, &s.pool[i])
	}
	s.create()
	return s
}

func (s *ParticleSystem) create() {
	if s.dev == nil {
		return
	}
	s.destroy()
	s.err = nil
	if s.cfg.Effect != "" {
		fx, err := Assets().Effect(s.dev, s.cfg.Effect)
		if err != nil {
			s.err = err
			Logger().Error(prefix+"particles: create failed", "file", s.cfg.Effect, "err", err)
		} else {
			s.fx = fx
			if s.cfg.Technique != "" {
				check(fx.SetTechnique(s.cfg.Technique), "particles: SetTechnique", "file", s.cfg.Effect)
			}
		}
	}
	if s.cfg.Texture != "" {
		img, err := Assets().Image(s.cfg.Texture)
		if err == nil {
			s.tex, err = s.dev.CreateTexture(img)
		}
		if err != nil {
			s.err = err
			Logger().Error(prefix+"particles: texture failed", "file", s.cfg.Texture, "err", err)
		}
	}
}

func (s *ParticleSystem) destroy() {
	if s.fx != nil {
		s.fx.Release()
		s.fx = nil
	}
	if s.tex != nil {
		s.tex.Release()
		s.tex = nil
	}
}

// Type returns TypeParticleSys.
func (s *ParticleSystem) Type() Type { return TypeParticleSys }

// Err returns the error of the last resource creation.
func (s *ParticleSystem) Err() error { return s.err }

// Config returns the configuration of s.
func (s *ParticleSystem) Config() ParticleConfig { return s.cfg }

// Effect returns the effect, or nil.
func (s *ParticleSystem) Effect() gfx.Effect { return s.fx }

// Texture returns the particle texture, or nil.
func (s *ParticleSystem) Texture() gfx.Texture { return s.tex }

// Time returns the time the system has been running.
func (s *ParticleSystem) Time() float32 { return s.time }

// SetTime sets the time the system has been running.
func (s *ParticleSystem) SetTime(t float32) { s.time = t }

// Alive returns the number of alive particles.
func (s *ParticleSystem) Alive() int { return len(s.alive) }

// Particle returns the alive particle at index i, or nil
// if i is out of range.
func (s *ParticleSystem) Particle(i int) *Particle {
	if i < 0 || i >= len(s.alive) {
		return nil
	}
	return s.alive[i]
}

// Emit revives a dead particle, if there is one.
// It returns whether a particle was emitted.
func (s *ParticleSystem) Emit() bool {
	n := len(s.dead)
	if n == 0 || s.emitter == nil {
		return false
	}
	p := s.dead[n-1]
	s.dead = s.dead[:n-1]
	s.emitter.Init(p, s.time)
	s.alive = append(s.alive, p)
	return true
}

// Update advances time, retires particles that outlived
// their life time and emits one particle per elapsed
// period.
func (s *ParticleSystem) Update(_ *Context, dt float32) {
	s.time += dt
	s.alive = s.alive[:0]
	s.dead = s.dead[:0]
	for i := range s.pool {
		p := &s.pool[i]
		if p.Age(s.time) > p.Life {
			s.dead = append(s.dead, p)
		} else {
			s.alive = append(s.alive, p)
		}
	}
	if s.cfg.Period <= 0 {
		return
	}
	s.accum += dt
	for s.accum >= s.cfg.Period {
		s.Emit()
		s.accum -= s.cfg.Period
	}
}

// Bind sets the parameters of the system's effect.
func (s *ParticleSystem) Bind(c *Context, fx gfx.Effect) error {
	errs := Binders{s.cfg.Matrices}
	if s.cfg.TimeParam != "" {
		errs = append(errs, BinderFunc(func(_ *Context, fx gfx.Effect) error {
			return fx.SetFloat(s.cfg.TimeParam, s.time)
		}))
	}
	if s.cfg.AccelParam != "" {
		errs = append(errs, BinderFunc(func(_ *Context, fx gfx.Effect) error {
			v := linear.V4{s.cfg.Accel[0], s.cfg.Accel[1], s.cfg.Accel[2], 0}
			return fx.SetVector(s.cfg.AccelParam, &v)
		}))
	}
	if s.cfg.TextureParam != "" && s.tex != nil {
		errs = append(errs, BinderFunc(func(_ *Context, fx gfx.Effect) error {
			return fx.SetTexture(s.cfg.TextureParam, s.tex)
		}))
	}
	return errs.Bind(c, fx)
}

// Render draws the alive particles.
func (s *ParticleSystem) Render(c *Context) {
	if len(s.alive) == 0 || s.emitter == nil {
		return
	}
	draw := func(c *Context) {
		check(s.emitter.Draw(c, s), "particles: Draw", "file", s.cfg.Effect)
	}
	if s.fx == nil {
		draw(c)
		return
	}
	drawPasses(c, s.fx, s, draw, "particles", s.cfg.Effect)
}

// OnCreateDevice recreates the effect and texture on
// dev.
func (s *ParticleSystem) OnCreateDevice(dev gfx.Device) {
	s.Base.OnCreateDevice(dev)
	s.create()
}

// OnResetDevice resets the effect.
func (s *ParticleSystem) OnResetDevice(dev gfx.Device) {
	s.Base.OnResetDevice(dev)
	if s.fx != nil {
		s.fx.OnResetDevice()
	}
}

// OnLostDevice notifies the effect.
func (s *ParticleSystem) OnLostDevice() {
	s.Base.OnLostDevice()
	if s.fx != nil {
		s.fx.OnLostDevice()
	}
}

// OnDestroyDevice releases the effect and texture.
func (s *ParticleSystem) OnDestroyDevice() {
	s.Base.OnDestroyDevice()
	s.destroy()
}

// goldenAngle spreads successive emissions of a Fountain
// evenly around its axis.
const goldenAngle = 2.399963

// Fountain is an Emitter that shoots particles upward
// from Origin inside a cone.
// Emission is deterministic: the n-th particle leaves
// at n times the golden angle around the y axis.
type Fountain struct {
	Origin linear.V3
	Speed  float32
	// Spread is the half-angle of the cone, in radians.
	Spread float32
	Life   float32
	Size   float32
	Color  gfx.Color

	n int
}

// Init implements Emitter.
func (f *Fountain) Init(p *Particle, t float32) {
	a := float32(f.n) * goldenAngle
	f.n++
	sinS, cosS := math32.Sincos(f.Spread)
	sinA, cosA := math32.Sincos(a)
	*p = Particle{
		Pos:   f.Origin,
		Vel:   linear.V3{cosA * sinS * f.Speed, cosS * f.Speed, sinA * sinS * f.Speed},
		Size:  f.Size,
		Born:  t,
		Life:  f.Life,
		Mass:  1,
		Color: f.Color,
	}
}

// Position returns the position of p at time t under
// acceleration accel.
func Position(p *Particle, accel *linear.V3, t float32) linear.V3 {
	age := p.Age(t)
	var v, a, pos linear.V3
	v.Scale(age, &p.Vel)
	a.Scale(0.5*age*age, accel)
	pos.Add(&p.Pos, &v)
	pos.Add(&pos, &a)
	return pos
}

// Draw implements Emitter.
// It draws the alive particles of s as points.
func (f *Fountain) Draw(c *Context, s *ParticleSystem) error {
	pts := make([]linear.V3, s.Alive())
	for i := range pts {
		pts[i] = Position(s.Particle(i), &s.cfg.Accel, s.time)
	}
	return c.Device().DrawPoints(pts, f.Size)
}
