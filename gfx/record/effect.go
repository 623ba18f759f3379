// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package record

import (
	"errors"
	"fmt"

	"github.com/gviegas/sglib/gfx"
	"github.com/gviegas/sglib/linear"
)

// Effect is the gfx.Effect created by Device.
// Passes apply their render states in BeginPass and
// restore the replaced values in EndPass.
type Effect struct {
	dev    *Device
	desc   gfx.EffectDesc
	tech   *gfx.TechniqueDesc
	params map[string]any

	begun    bool
	pass     int
	saved    []gfx.StateValue
	lost     bool
	released bool
	resets   int
}

// Name returns the name of the effect.
func (e *Effect) Name() string { return e.desc.Name }

// Technique returns the name of the current technique.
func (e *Effect) Technique() string { return e.tech.Name }

// Param returns the current value of a parameter.
// The value is a float32, linear.V4, linear.M4 or
// gfx.Texture, depending on the parameter type.
func (e *Effect) Param(name string) (any, bool) {
	v, ok := e.params[name]
	return v, ok
}

// Lost returns whether the effect is in the lost state.
func (e *Effect) Lost() bool { return e.lost }

// Resets returns the number of OnResetDevice calls.
func (e *Effect) Resets() int { return e.resets }

// Released returns whether Release was called.
func (e *Effect) Released() bool { return e.released }

func (e *Effect) usable() error {
	switch {
	case e.released:
		return errReleased
	case e.lost:
		return ErrLost
	}
	return nil
}

// SetTechnique implements gfx.Effect.
func (e *Effect) SetTechnique(name string) error {
	if err := e.usable(); err != nil {
		return err
	}
	t, ok := e.desc.Technique(name)
	if !ok {
		return fmt.Errorf(prefix+"effect %s: no technique %q", e.desc.Name, name)
	}
	e.tech = t
	e.dev.record(Call{Op: OpSetTechnique, Name: name, Effect: e.desc.Name})
	return nil
}

func (e *Effect) set(name string, typ gfx.ParamType, v any) error {
	if err := e.usable(); err != nil {
		return err
	}
	p, ok := e.desc.Param(name)
	switch {
	case !ok:
		return fmt.Errorf(prefix+"effect %s: no parameter %q", e.desc.Name, name)
	case p.Type != typ:
		return fmt.Errorf(prefix+"effect %s: parameter %q is of type %s, not %s", e.desc.Name, name, p.Type, typ)
	}
	e.params[name] = v
	e.dev.record(Call{Op: OpSetParam, Name: name, Effect: e.desc.Name})
	return nil
}

// SetMatrix implements gfx.Effect.
func (e *Effect) SetMatrix(name string, m *linear.M4) error {
	return e.set(name, gfx.ParamMatrix, *m)
}

// SetVector implements gfx.Effect.
func (e *Effect) SetVector(name string, v *linear.V4) error {
	return e.set(name, gfx.ParamVector, *v)
}

// SetFloat implements gfx.Effect.
func (e *Effect) SetFloat(name string, f float32) error {
	return e.set(name, gfx.ParamFloat, f)
}

// SetTexture implements gfx.Effect.
func (e *Effect) SetTexture(name string, t gfx.Texture) error {
	return e.set(name, gfx.ParamTexture, t)
}

// Begin implements gfx.Effect.
func (e *Effect) Begin() (int, error) {
	if err := e.usable(); err != nil {
		return 0, err
	}
	if e.begun {
		return 0, errors.New(prefix + "effect Begin called twice")
	}
	e.begun = true
	e.dev.record(Call{Op: OpBegin, Name: e.tech.Name, Effect: e.desc.Name})
	return len(e.tech.Passes), nil
}

// BeginPass implements gfx.Effect.
func (e *Effect) BeginPass(i int) error {
	switch {
	case !e.begun:
		return errors.New(prefix + "BeginPass outside Begin/End")
	case e.pass >= 0:
		return errors.New(prefix + "BeginPass called twice")
	case i < 0 || i >= len(e.tech.Passes):
		return errors.New(prefix + "pass out of range")
	}
	e.pass = i
	e.dev.effect = e
	e.dev.record(Call{Op: OpBeginPass, Index: i, Effect: e.desc.Name})
	e.saved = e.saved[:0]
	for _, s := range e.tech.Passes[i].States {
		e.saved = append(e.saved, gfx.StateValue{Key: s.Key, Value: e.dev.RenderState(s.Key)})
		if err := e.dev.SetRenderState(s.Key, s.Value); err != nil {
			return err
		}
	}
	return nil
}

// EndPass implements gfx.Effect.
func (e *Effect) EndPass() error {
	if e.pass < 0 {
		return errors.New(prefix + "EndPass without BeginPass")
	}
	for i := len(e.saved) - 1; i >= 0; i-- {
		if err := e.dev.SetRenderState(e.saved[i].Key, e.saved[i].Value); err != nil {
			return err
		}
	}
	e.saved = e.saved[:0]
	e.dev.record(Call{Op: OpEndPass, Index: e.pass, Effect: e.desc.Name})
	e.pass = -1
	e.dev.effect = nil
	return nil
}

// End implements gfx.Effect.
func (e *Effect) End() error {
	switch {
	case !e.begun:
		return errors.New(prefix + "End without Begin")
	case e.pass >= 0:
		return errors.New(prefix + "End inside a pass")
	}
	e.begun = false
	e.dev.record(Call{Op: OpEnd, Name: e.tech.Name, Effect: e.desc.Name})
	return nil
}

// OnLostDevice implements gfx.Effect.
func (e *Effect) OnLostDevice() { e.lost = true }

// OnResetDevice implements gfx.Effect.
func (e *Effect) OnResetDevice() {
	e.lost = false
	e.resets++
}

// Release implements gfx.Effect.
func (e *Effect) Release() { e.released = true }
