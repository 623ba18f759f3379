// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package record implements a gfx.Device that keeps its
// state in memory and records every call made to it.
//
// It is meant for headless execution and for tests that
// need to assert on what the scene graph did to the
// device:
//
//	dev := record.New()
//	sglib.NewRenderer().Render(root) // root was created on dev
//	for _, c := range dev.Filter(record.OpDrawSubset) {
//		fmt.Println(c)
//	}
package record

import (
	"fmt"

	"github.com/gviegas/sglib/gfx"
	"github.com/gviegas/sglib/linear"
)

// Op identifies the operation of a Call.
type Op uint8

// Operations.
const (
	OpSetMatrix Op = iota
	OpSetRenderState
	OpSetLight
	OpEnableLight
	OpSetMaterial
	OpSetTexture
	OpClear
	OpBeginScene
	OpEndScene
	OpDrawSubset
	OpDrawPoints
	OpSetTechnique
	OpSetParam
	OpBegin
	OpBeginPass
	OpEndPass
	OpEnd
)

var opNames = [...]string{
	OpSetMatrix:      "SetMatrix",
	OpSetRenderState: "SetRenderState",
	OpSetLight:       "SetLight",
	OpEnableLight:    "EnableLight",
	OpSetMaterial:    "SetMaterial",
	OpSetTexture:     "SetTexture",
	OpClear:          "Clear",
	OpBeginScene:     "BeginScene",
	OpEndScene:       "EndScene",
	OpDrawSubset:     "DrawSubset",
	OpDrawPoints:     "DrawPoints",
	OpSetTechnique:   "SetTechnique",
	OpSetParam:       "SetParam",
	OpBegin:          "Begin",
	OpBeginPass:      "BeginPass",
	OpEndPass:        "EndPass",
	OpEnd:            "End",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "Op(?)"
}

// Call is a recorded device or effect call.
// Only the fields relevant to Op are set.
type Call struct {
	Op Op
	// Name of the mesh, effect, texture, technique or
	// parameter involved.
	Name string
	// Matrix slot (OpSetMatrix).
	Slot gfx.Slot
	// Matrix set (OpSetMatrix), or the world matrix in
	// effect when a draw was issued.
	Matrix linear.M4
	// Render state key and value (OpSetRenderState).
	Key   gfx.RenderState
	Value uint32
	// Light index, texture stage, subset or pass.
	Index  int
	Enable bool
	// Material in effect (OpSetMaterial, OpDrawSubset).
	Material gfx.Material
	// Texture bound to stage 0 when a draw was issued.
	Texture string
	// Effect bound when a draw was issued.
	Effect string
	// Number of points and point size (OpDrawPoints).
	Points int
	Size   float32
}

func (c Call) String() string {
	switch c.Op {
	case OpSetMatrix:
		return fmt.Sprintf("%s %s", c.Op, c.Slot)
	case OpSetRenderState:
		return fmt.Sprintf("%s %s=%d", c.Op, c.Key, c.Value)
	case OpSetLight, OpBeginPass:
		return fmt.Sprintf("%s %d", c.Op, c.Index)
	case OpEnableLight:
		return fmt.Sprintf("%s %d %t", c.Op, c.Index, c.Enable)
	case OpSetTexture:
		return fmt.Sprintf("%s %d %q", c.Op, c.Index, c.Name)
	case OpDrawSubset:
		return fmt.Sprintf("%s %s[%d]", c.Op, c.Name, c.Index)
	case OpDrawPoints:
		return fmt.Sprintf("%s %d", c.Op, c.Points)
	case OpSetTechnique, OpSetParam, OpBegin, OpEnd:
		return fmt.Sprintf("%s %s", c.Op, c.Name)
	}
	return c.Op.String()
}
