// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gfx

import (
	"errors"
	"fmt"
)

// ParamType is the type of effect parameters.
type ParamType int

// Parameter types.
const (
	ParamFloat ParamType = iota + 1
	ParamVector
	ParamMatrix
	ParamTexture
)

func (t ParamType) String() string {
	switch t {
	case ParamFloat:
		return "float"
	case ParamVector:
		return "vector"
	case ParamMatrix:
		return "matrix"
	case ParamTexture:
		return "texture"
	}
	return "ParamType(?)"
}

// ParamDesc describes an effect parameter.
type ParamDesc struct {
	Name string
	Type ParamType
}

// StateValue is a render state assignment made by a pass.
type StateValue struct {
	Key   RenderState
	Value uint32
}

// PassDesc describes a pass of a technique.
type PassDesc struct {
	Name   string
	States []StateValue
}

// TechniqueDesc describes a technique of an effect.
type TechniqueDesc struct {
	Name   string
	Passes []PassDesc
}

// EffectDesc describes an effect.
// It is what Device.CreateEffect compiles.
type EffectDesc struct {
	Name       string
	Params     []ParamDesc
	Techniques []TechniqueDesc
}

// Param returns the description of the named parameter.
func (d *EffectDesc) Param(name string) (ParamDesc, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamDesc{}, false
}

// Technique returns the description of the named technique.
func (d *EffectDesc) Technique(name string) (*TechniqueDesc, bool) {
	for i := range d.Techniques {
		if d.Techniques[i].Name == name {
			return &d.Techniques[i], true
		}
	}
	return nil, false
}

// Check validates d.
// It returns a *CompileError describing the first problem
// found.
func (d *EffectDesc) Check() error {
	fail := func(format string, args ...any) error {
		return &CompileError{Effect: d.Name, Msg: fmt.Sprintf(format, args...)}
	}
	if len(d.Techniques) == 0 {
		return fail("no technique")
	}
	params := make(map[string]bool, len(d.Params))
	for _, p := range d.Params {
		switch {
		case p.Name == "":
			return fail("unnamed parameter")
		case params[p.Name]:
			return fail("parameter %q redeclared", p.Name)
		case p.Type < ParamFloat || p.Type > ParamTexture:
			return fail("parameter %q has invalid type", p.Name)
		}
		params[p.Name] = true
	}
	techs := make(map[string]bool, len(d.Techniques))
	for _, t := range d.Techniques {
		switch {
		case t.Name == "":
			return fail("unnamed technique")
		case techs[t.Name]:
			return fail("technique %q redeclared", t.Name)
		case len(t.Passes) == 0:
			return fail("technique %q has no pass", t.Name)
		}
		techs[t.Name] = true
		for _, p := range t.Passes {
			for _, s := range p.States {
				if s.Key < 0 || s.Key >= NRenderState {
					return fail("technique %q: pass %q: invalid render state", t.Name, p.Name)
				}
			}
		}
	}
	return nil
}

// CompileError is the error produced when an effect cannot
// be compiled.
type CompileError struct {
	// Effect is the name of the effect, if known.
	Effect string
	// Msg is the compiler's message.
	// It may be empty.
	Msg string
	// Err is the underlying error, if any.
	Err error
}

func (e *CompileError) Error() string {
	msg := e.Msg
	if msg == "" {
		if e.Err != nil {
			msg = e.Err.Error()
		} else {
			msg = "unknown error"
		}
	}
	if e.Effect != "" {
		return "effect compile failed: " + e.Effect + ": " + msg
	}
	return "effect compile failed: " + msg
}

func (e *CompileError) Unwrap() error { return e.Err }

// AsCompileError returns err as a *CompileError.
// If err is not already one, it is wrapped in a new
// *CompileError for the named effect.
// It returns nil if err is nil.
func AsCompileError(effect string, err error) *CompileError {
	if err == nil {
		return nil
	}
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce
	}
	return &CompileError{Effect: effect, Err: err}
}
