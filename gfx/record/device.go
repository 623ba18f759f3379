// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package record

import (
	"errors"
	"fmt"
	"image"
	"slices"

	"github.com/gviegas/sglib/gfx"
	"github.com/gviegas/sglib/internal/bitvec"
	"github.com/gviegas/sglib/linear"
)

const prefix = "record: "

var (
	// ErrLost is returned by state-changing calls while
	// the device is lost.
	ErrLost = errors.New(prefix + "device lost")

	errScene    = errors.New(prefix + "draw outside BeginScene/EndScene")
	errNested   = errors.New(prefix + "BeginScene called twice")
	errNoScene  = errors.New(prefix + "EndScene without BeginScene")
	errSlot     = errors.New(prefix + "invalid matrix slot")
	errKey      = errors.New(prefix + "invalid render state")
	errLight    = errors.New(prefix + "invalid light index")
	errStage    = errors.New(prefix + "invalid texture stage")
	errReleased = errors.New(prefix + "resource released")
)

// Limits of the device.
const (
	MaxLights = 8
	MaxStages = 8
)

// Device is a gfx.Device that records calls.
// The zero value is not usable; call New.
type Device struct {
	calls []Call

	mats     [gfx.NSlot]linear.M4
	states   [gfx.NRenderState]uint32
	lights   [MaxLights]gfx.Light
	enabled  bitvec.V[uint8]
	material gfx.Material
	stages   [MaxStages]gfx.Texture
	effect   *Effect

	inScene bool
	lost    bool
	frames  int
	nameID  int
}

// New creates a new Device in its initial state: identity
// matrices, default render states, no lights enabled and
// the default material.
func New() *Device {
	d := &Device{}
	for i := range d.mats {
		d.mats[i].I()
	}
	d.states = gfx.DefaultRenderStates()
	d.material = gfx.DefaultMaterial()
	d.enabled.Grow(1)
	return d
}

func (d *Device) record(c Call) { d.calls = append(d.calls, c) }

func (d *Device) newName(kind string) string {
	d.nameID++
	return fmt.Sprintf("%s#%d", kind, d.nameID)
}

// Calls returns the calls recorded so far.
func (d *Device) Calls() []Call { return d.calls }

// Filter returns the recorded calls whose Op is in ops.
func (d *Device) Filter(ops ...Op) (calls []Call) {
	for _, c := range d.calls {
		if slices.Contains(ops, c.Op) {
			calls = append(calls, c)
		}
	}
	return
}

// Forget discards the recorded calls.
// Device state is not affected.
func (d *Device) Forget() { d.calls = d.calls[:0] }

// Frames returns the number of EndScene calls.
func (d *Device) Frames() int { return d.frames }

// SetLost sets whether the device is lost.
func (d *Device) SetLost(lost bool) { d.lost = lost }

// LightEnabled returns whether light index is enabled.
func (d *Device) LightEnabled(index int) bool { return d.enabled.IsSet(index) }

// EnabledLights returns the indices of enabled lights.
func (d *Device) EnabledLights() (idx []int) {
	for i := range d.enabled.Ones() {
		idx = append(idx, i)
	}
	return
}

// Light returns the light at index.
func (d *Device) Light(index int) gfx.Light { return d.lights[index] }

// Matrix implements gfx.Device.
func (d *Device) Matrix(s gfx.Slot) linear.M4 {
	if s < 0 || s >= gfx.NSlot {
		return linear.Identity()
	}
	return d.mats[s]
}

// SetMatrix implements gfx.Device.
func (d *Device) SetMatrix(s gfx.Slot, m *linear.M4) error {
	switch {
	case d.lost:
		return ErrLost
	case s < 0 || s >= gfx.NSlot:
		return errSlot
	}
	d.mats[s] = *m
	d.record(Call{Op: OpSetMatrix, Slot: s, Matrix: *m})
	return nil
}

// RenderState implements gfx.Device.
func (d *Device) RenderState(key gfx.RenderState) uint32 {
	if key < 0 || key >= gfx.NRenderState {
		return 0
	}
	return d.states[key]
}

// SetRenderState implements gfx.Device.
func (d *Device) SetRenderState(key gfx.RenderState, value uint32) error {
	switch {
	case d.lost:
		return ErrLost
	case key < 0 || key >= gfx.NRenderState:
		return errKey
	}
	d.states[key] = value
	d.record(Call{Op: OpSetRenderState, Key: key, Value: value})
	return nil
}

// SetLight implements gfx.Device.
func (d *Device) SetLight(index int, l *gfx.Light) error {
	switch {
	case d.lost:
		return ErrLost
	case index < 0 || index >= MaxLights:
		return errLight
	}
	d.lights[index] = *l
	d.record(Call{Op: OpSetLight, Index: index})
	return nil
}

// EnableLight implements gfx.Device.
func (d *Device) EnableLight(index int, enable bool) error {
	switch {
	case d.lost:
		return ErrLost
	case index < 0 || index >= MaxLights:
		return errLight
	}
	if enable {
		d.enabled.Set(index)
	} else {
		d.enabled.Unset(index)
	}
	d.record(Call{Op: OpEnableLight, Index: index, Enable: enable})
	return nil
}

// Material implements gfx.Device.
func (d *Device) Material() gfx.Material { return d.material }

// SetMaterial implements gfx.Device.
func (d *Device) SetMaterial(m *gfx.Material) error {
	if d.lost {
		return ErrLost
	}
	d.material = *m
	d.record(Call{Op: OpSetMaterial, Material: *m})
	return nil
}

// Texture implements gfx.Device.
func (d *Device) Texture(stage int) gfx.Texture {
	if stage < 0 || stage >= MaxStages {
		return nil
	}
	return d.stages[stage]
}

// SetTexture implements gfx.Device.
func (d *Device) SetTexture(stage int, t gfx.Texture) error {
	switch {
	case d.lost:
		return ErrLost
	case stage < 0 || stage >= MaxStages:
		return errStage
	}
	d.stages[stage] = t
	d.record(Call{Op: OpSetTexture, Index: stage, Name: texName(t)})
	return nil
}

func texName(t gfx.Texture) string {
	if t, ok := t.(*Texture); ok && t != nil {
		return t.name
	}
	return ""
}

// Clear implements gfx.Device.
func (d *Device) Clear(flags gfx.ClearFlags, c gfx.Color, z float32, stencil uint32) error {
	if d.lost {
		return ErrLost
	}
	d.record(Call{Op: OpClear, Value: uint32(flags), Index: int(stencil), Size: z})
	return nil
}

// BeginScene implements gfx.Device.
func (d *Device) BeginScene() error {
	switch {
	case d.lost:
		return ErrLost
	case d.inScene:
		return errNested
	}
	d.inScene = true
	d.record(Call{Op: OpBeginScene})
	return nil
}

// EndScene implements gfx.Device.
func (d *Device) EndScene() error {
	if !d.inScene {
		return errNoScene
	}
	d.inScene = false
	d.frames++
	d.record(Call{Op: OpEndScene})
	return nil
}

// draw records a draw call with the state that would
// affect it.
func (d *Device) draw(c Call) error {
	switch {
	case d.lost:
		return ErrLost
	case !d.inScene:
		return errScene
	}
	c.Matrix = d.mats[gfx.World]
	c.Material = d.material
	c.Texture = texName(d.stages[0])
	if d.effect != nil && d.effect.pass >= 0 {
		c.Effect = d.effect.desc.Name
	}
	d.record(c)
	return nil
}

// DrawPoints implements gfx.Device.
func (d *Device) DrawPoints(pts []linear.V3, size float32) error {
	return d.draw(Call{Op: OpDrawPoints, Points: len(pts), Size: size})
}

// CreateMesh implements gfx.Device.
func (d *Device) CreateMesh(data *gfx.MeshData) (gfx.Mesh, error) {
	if d.lost {
		return nil, ErrLost
	}
	if err := data.Check(); err != nil {
		return nil, err
	}
	return &Mesh{dev: d, name: d.newName("mesh"), subsets: len(data.Subsets)}, nil
}

// CreateTexture implements gfx.Device.
func (d *Device) CreateTexture(img image.Image) (gfx.Texture, error) {
	if d.lost {
		return nil, ErrLost
	}
	if img == nil {
		return nil, errors.New(prefix + "nil image")
	}
	return &Texture{name: d.newName("texture"), size: img.Bounds().Size()}, nil
}

// CreateEffect implements gfx.Device.
func (d *Device) CreateEffect(desc *gfx.EffectDesc) (gfx.Effect, error) {
	if d.lost {
		return nil, &gfx.CompileError{Effect: desc.Name, Err: ErrLost}
	}
	if err := desc.Check(); err != nil {
		return nil, err
	}
	e := &Effect{
		dev:    d,
		desc:   *desc,
		params: make(map[string]any),
		pass:   -1,
	}
	if e.desc.Name == "" {
		e.desc.Name = d.newName("effect")
	}
	e.tech, _ = e.desc.Technique(desc.Techniques[0].Name)
	return e, nil
}

// Mesh is the gfx.Mesh created by Device.
type Mesh struct {
	dev      *Device
	name     string
	subsets  int
	released bool
}

// Name returns the name given to m on creation.
func (m *Mesh) Name() string { return m.name }

// Subsets implements gfx.Mesh.
func (m *Mesh) Subsets() int { return m.subsets }

// DrawSubset implements gfx.Mesh.
func (m *Mesh) DrawSubset(i int) error {
	switch {
	case m.released:
		return errReleased
	case i < 0 || i >= m.subsets:
		return errors.New(prefix + "subset out of range")
	}
	return m.dev.draw(Call{Op: OpDrawSubset, Name: m.name, Index: i})
}

// Release implements gfx.Mesh.
func (m *Mesh) Release() { m.released = true }

// Released returns whether Release was called.
func (m *Mesh) Released() bool { return m.released }

// Texture is the gfx.Texture created by Device.
type Texture struct {
	name     string
	size     image.Point
	released bool
}

// Name returns the name given to t on creation.
func (t *Texture) Name() string { return t.name }

// Size implements gfx.Texture.
func (t *Texture) Size() image.Point { return t.size }

// Release implements gfx.Texture.
func (t *Texture) Release() { t.released = true }

// Released returns whether Release was called.
func (t *Texture) Released() bool { return t.released }
