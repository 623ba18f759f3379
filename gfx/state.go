// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gfx

import (
	"errors"
	"strconv"
	"strings"
)

// RenderState identifies a fixed-function render state.
type RenderState int

// Render states.
const (
	Lighting RenderState = iota
	ZEnable
	ZWriteEnable
	AlphaBlendEnable
	SrcBlend
	DestBlend
	CullMode
	FillMode
	ShadeMode
	Ambient
	FogEnable
	PointSpriteEnable
	PointScaleEnable
	NRenderState
)

var stateNames = [NRenderState]string{
	Lighting:          "Lighting",
	ZEnable:           "ZEnable",
	ZWriteEnable:      "ZWriteEnable",
	AlphaBlendEnable:  "AlphaBlendEnable",
	SrcBlend:          "SrcBlend",
	DestBlend:         "DestBlend",
	CullMode:          "CullMode",
	FillMode:          "FillMode",
	ShadeMode:         "ShadeMode",
	Ambient:           "Ambient",
	FogEnable:         "FogEnable",
	PointSpriteEnable: "PointSpriteEnable",
	PointScaleEnable:  "PointScaleEnable",
}

func (k RenderState) String() string {
	if k < 0 || k >= NRenderState {
		return "RenderState(?)"
	}
	return stateNames[k]
}

var errUnknownState = errors.New("gfx: unknown render state")

// ParseRenderState returns the RenderState named s.
// The comparison is case-insensitive.
func ParseRenderState(s string) (RenderState, error) {
	for i, n := range stateNames {
		if strings.EqualFold(n, s) {
			return RenderState(i), nil
		}
	}
	return 0, errUnknownState
}

// Boolean render state values.
const (
	False uint32 = 0
	True  uint32 = 1
)

// CullMode values.
const (
	CullNone uint32 = iota + 1
	CullCW
	CullCCW
)

// FillMode values.
const (
	FillPoint uint32 = iota + 1
	FillWireframe
	FillSolid
)

// ShadeMode values.
const (
	ShadeFlat uint32 = iota + 1
	ShadeGouraud
)

// SrcBlend/DestBlend values.
const (
	BlendZero uint32 = iota + 1
	BlendOne
	BlendSrcAlpha
	BlendInvSrcAlpha
)

// DefaultRenderStates returns the initial value of every
// render state.
func DefaultRenderStates() [NRenderState]uint32 {
	return [NRenderState]uint32{
		Lighting:     True,
		ZEnable:      True,
		ZWriteEnable: True,
		SrcBlend:     BlendOne,
		DestBlend:    BlendZero,
		CullMode:     CullCCW,
		FillMode:     FillSolid,
		ShadeMode:    ShadeGouraud,
	}
}

var valueNames = map[string]uint32{
	"false":       False,
	"true":        True,
	"off":         False,
	"on":          True,
	"none":        CullNone,
	"cw":          CullCW,
	"ccw":         CullCCW,
	"point":       FillPoint,
	"wireframe":   FillWireframe,
	"solid":       FillSolid,
	"flat":        ShadeFlat,
	"gouraud":     ShadeGouraud,
	"zero":        BlendZero,
	"one":         BlendOne,
	"srcalpha":    BlendSrcAlpha,
	"invsrcalpha": BlendInvSrcAlpha,
}

var errStateValue = errors.New("gfx: invalid render state value")

// ParseStateValue parses a render state value.
// s is either a decimal or hexadecimal (0x-prefixed)
// number or one of the symbolic names of this package's
// value constants, lowercased and without prefix (e.g.,
// "true", "ccw", "wireframe", "invsrcalpha").
func ParseStateValue(s string) (uint32, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if v, ok := valueNames[s]; ok {
		return v, nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, errStateValue
	}
	return uint32(v), nil
}
