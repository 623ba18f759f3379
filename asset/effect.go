// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package asset

import (
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gviegas/sglib/gfx"
)

// effectFile is the YAML form of an effect description:
//
//	name: simple
//	params:
//	  - {name: g_matWorldViewProjection, type: matrix}
//	  - {name: g_fTime, type: float}
//	techniques:
//	  - name: Render
//	    passes:
//	      - name: P0
//	        states: {CullMode: none, Lighting: false}
type effectFile struct {
	Name   string `yaml:"name"`
	Params []struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	} `yaml:"params"`
	Techniques []struct {
		Name   string `yaml:"name"`
		Passes []struct {
			Name   string            `yaml:"name"`
			States map[string]string `yaml:"states"`
		} `yaml:"passes"`
	} `yaml:"techniques"`
}

var paramTypes = map[string]gfx.ParamType{
	"float":   gfx.ParamFloat,
	"vector":  gfx.ParamVector,
	"matrix":  gfx.ParamMatrix,
	"texture": gfx.ParamTexture,
}

// ParseEffect parses the YAML description of an effect.
// Errors are reported as *gfx.CompileError.
func ParseEffect(name string, b []byte) (*gfx.EffectDesc, error) {
	fail := func(format string, args ...any) error {
		return &gfx.CompileError{Effect: name, Msg: fmt.Sprintf(format, args...)}
	}
	var f effectFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, &gfx.CompileError{Effect: name, Msg: err.Error(), Err: err}
	}
	desc := &gfx.EffectDesc{Name: f.Name}
	if desc.Name == "" {
		desc.Name = name
	}
	for _, p := range f.Params {
		typ, ok := paramTypes[strings.ToLower(p.Type)]
		if !ok {
			return nil, fail("parameter %q: unknown type %q", p.Name, p.Type)
		}
		desc.Params = append(desc.Params, gfx.ParamDesc{Name: p.Name, Type: typ})
	}
	for _, t := range f.Techniques {
		tech := gfx.TechniqueDesc{Name: t.Name}
		for _, p := range t.Passes {
			pass := gfx.PassDesc{Name: p.Name}
			// Map order is random; sort so that passes
			// apply states in a stable order.
			keys := make([]string, 0, len(p.States))
			for k := range p.States {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				key, err := gfx.ParseRenderState(k)
				if err != nil {
					return nil, fail("technique %q: pass %q: %v", t.Name, p.Name, err)
				}
				val, err := gfx.ParseStateValue(p.States[k])
				if err != nil {
					return nil, fail("technique %q: pass %q: %s: %v", t.Name, p.Name, k, err)
				}
				pass.States = append(pass.States, gfx.StateValue{Key: key, Value: val})
			}
			tech.Passes = append(tech.Passes, pass)
		}
		desc.Techniques = append(desc.Techniques, tech)
	}
	if err := desc.Check(); err != nil {
		return nil, err
	}
	return desc, nil
}

// EffectDesc loads the named effect description.
func (l *Loader) EffectDesc(name string) (*gfx.EffectDesc, error) {
	b, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, &gfx.CompileError{Effect: name, Err: err}
	}
	return ParseEffect(name, b)
}
