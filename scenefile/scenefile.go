// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package scenefile describes scene graphs in YAML.
//
// A scene file lists the root chain of a graph. The first
// entry of a children list becomes the child of its parent
// and the remaining entries are linked as siblings of it:
//
//	clear: {color: [0.1, 0.1, 0.2, 1], flags: [target, zbuffer]}
//	nodes:
//	  - kind: camera
//	    desc: eye
//	    pos: [0, 2, -8]
//	    children:
//	      - kind: projection
//	        fov: 0.785
//	        children:
//	          - kind: shader
//	            file: simple.yaml
//	            technique: RenderScene
//	            children:
//	              - kind: transform
//	                translate: [0, 0, 5]
//	                children:
//	                  - {kind: geometry, file: quad.gltf}
//
// Assets named by a scene are loaded through the root
// package's asset loader (sglib.Assets).
package scenefile

import (
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/gviegas/sglib/linear"
)

const prefix = "scenefile: "

func newErr(reason string) error { return errors.New(prefix + reason) }

var (
	errNoNodes  = newErr("scene has no nodes")
	errKind     = newErr("unknown node kind")
	errRef      = newErr("reference not found")
	errRefKind  = newErr("reference to a node of another kind")
	errParam    = newErr("invalid shader parameter")
	errLight    = newErr("unknown light type")
	errClear    = newErr("unknown clear flag")
	errRefFile  = newErr("node has both ref and file")
	errMatrix   = newErr("matrix needs 16 elements")
	errClip     = newErr("animation not found")
	errDupeDesc = newErr("description used twice")
)

// Node kinds.
const (
	KindTransform   = "transform"
	KindGeometry    = "geometry"
	KindShader      = "shader"
	KindState       = "state"
	KindCamera      = "camera"
	KindProjection  = "projection"
	KindArticulated = "articulated"
	KindParticles   = "particles"
)

// Color is an RGBA color.
type Color [4]float32

// Clear describes how the renderer clears the target.
// Zero fields keep the renderer defaults.
type Clear struct {
	Color   *Color   `yaml:"color"`
	Flags   []string `yaml:"flags"`
	Z       *float32 `yaml:"z"`
	Stencil *uint32  `yaml:"stencil"`
}

// Play starts an animation clip.
type Play struct {
	Clip string `yaml:"clip"`
	Loop bool   `yaml:"loop"`
}

// Light describes a light of a state node.
type Light struct {
	Index       int        `yaml:"index"`
	Type        string     `yaml:"type"`
	Diffuse     *Color     `yaml:"diffuse"`
	Specular    Color      `yaml:"specular"`
	Ambient     Color      `yaml:"ambient"`
	Position    linear.V3  `yaml:"position"`
	Direction   linear.V3  `yaml:"direction"`
	Range       float32    `yaml:"range"`
	Attenuation [3]float32 `yaml:"attenuation"`
	Theta       float32    `yaml:"theta"`
	Phi         float32    `yaml:"phi"`
}

// Link is the YAML form of sglib.Link.
type Link struct {
	Length       float32 `yaml:"length"`
	Displacement float32 `yaml:"displacement"`
	Rotation     float32 `yaml:"rotation"`
	RotMin       float32 `yaml:"rotMin"`
	RotMax       float32 `yaml:"rotMax"`
	Twist        float32 `yaml:"twist"`
	TwistMin     float32 `yaml:"twistMin"`
	TwistMax     float32 `yaml:"twistMax"`
}

// Clip holds the keys of an animation clip as
// [time, angle] pairs.
type Clip struct {
	Rot   [][2]float32 `yaml:"rot"`
	Twist [][2]float32 `yaml:"twist"`
}

// Matrices names the matrix parameters of an effect.
type Matrices struct {
	WorldViewProj     string `yaml:"worldViewProj"`
	World             string `yaml:"world"`
	WorldInvTranspose string `yaml:"worldInvTranspose"`
}

// Fountain is the YAML form of sglib.Fountain.
type Fountain struct {
	Origin linear.V3 `yaml:"origin"`
	Speed  float32   `yaml:"speed"`
	Spread float32   `yaml:"spread"`
	Life   float32   `yaml:"life"`
	Size   float32   `yaml:"size"`
	Color  *Color    `yaml:"color"`
}

// Node describes a node and its children.
// Only the fields that apply to Kind are used.
type Node struct {
	Kind     string `yaml:"kind"`
	Desc     string `yaml:"desc"`
	Children []Node `yaml:"children"`

	// Asset file (geometry, shader, articulated).
	File string `yaml:"file"`
	// Ref names an earlier node of the same kind whose
	// resources are shared (geometry, shader,
	// articulated).
	Ref string `yaml:"ref"`

	// transform
	Matrix    []float32  `yaml:"matrix"`
	Translate *linear.V3 `yaml:"translate"`
	Rotate    *linear.V3 `yaml:"rotate"`
	Scale     *linear.V3 `yaml:"scale"`

	// geometry, articulated
	Hidden bool `yaml:"hidden"`

	// shader
	Technique string               `yaml:"technique"`
	Matrices  *Matrices            `yaml:"matrices"`
	Params    map[string]yaml.Node `yaml:"params"`

	// state
	States map[string]string `yaml:"states"`
	Lights []Light           `yaml:"lights"`

	// camera
	Pos      *linear.V3 `yaml:"pos"`
	Look     *linear.V3 `yaml:"look"`
	Up       *linear.V3 `yaml:"up"`
	Movement bool       `yaml:"movement"`

	// projection
	FovY   float32 `yaml:"fov"`
	Aspect float32 `yaml:"aspect"`
	Near   float32 `yaml:"near"`
	Far    float32 `yaml:"far"`

	// articulated
	Link  Link            `yaml:"link"`
	Clips map[string]Clip `yaml:"clips"`
	Play  *Play           `yaml:"play"`

	// particles
	Effect   string     `yaml:"effect"`
	Texture  string     `yaml:"texture"`
	Max      int        `yaml:"max"`
	Period   *float32   `yaml:"period"`
	Accel    *linear.V3 `yaml:"accel"`
	Fountain *Fountain  `yaml:"fountain"`
}

// File is a parsed scene file.
type File struct {
	Clear *Clear `yaml:"clear"`
	// Animate starts a clip on every articulated node
	// that has it.
	Animate *Play  `yaml:"animate"`
	Nodes   []Node `yaml:"nodes"`
}

// Parse parses the YAML form of a scene.
func Parse(b []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf(prefix+"%w", err)
	}
	if len(f.Nodes) == 0 {
		return nil, errNoNodes
	}
	return &f, nil
}

// Open reads and parses the named scene file.
func Open(fsys fs.FS, name string) (*File, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf(prefix+"%w", err)
	}
	f, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, name)
	}
	return f, nil
}
