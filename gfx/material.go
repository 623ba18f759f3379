// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gfx

import (
	"github.com/gviegas/sglib/linear"
)

// Material defines the fixed-function surface properties
// used when drawing a mesh subset.
type Material struct {
	Diffuse  Color
	Ambient  Color
	Specular Color
	Emissive Color
	Power    float32
}

// DefaultMaterial returns an opaque white material.
func DefaultMaterial() Material {
	return Material{
		Diffuse: Color{1, 1, 1, 1},
		Ambient: Color{1, 1, 1, 1},
	}
}

// LightType is the type of light sources.
type LightType int

// Light types.
const (
	PointLight LightType = iota + 1
	SpotLight
	DirectionalLight
)

// Light defines a light source.
// Only the fields that apply to Type are used.
type Light struct {
	Type      LightType
	Diffuse   Color
	Specular  Color
	Ambient   Color
	Position  linear.V3
	Direction linear.V3
	Range     float32
	// Attenuation factors (constant, linear, quadratic).
	Attenuation [3]float32
	// Inner and outer cone angles, in radians.
	Theta, Phi float32
}

// Directional returns a white directional light.
// It does not normalize dir.
func Directional(dir linear.V3) Light {
	return Light{
		Type:      DirectionalLight,
		Diffuse:   Color{1, 1, 1, 1},
		Direction: dir,
	}
}

// Point returns a white point light with constant
// attenuation.
func Point(pos linear.V3, rng float32) Light {
	return Light{
		Type:        PointLight,
		Diffuse:     Color{1, 1, 1, 1},
		Position:    pos,
		Range:       rng,
		Attenuation: [3]float32{1, 0, 0},
	}
}
