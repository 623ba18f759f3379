// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package sglib

import (
	"maps"
	"slices"

	"github.com/chewxy/math32"

	"github.com/gviegas/sglib/gfx"
	"github.com/gviegas/sglib/linear"
)

// Link describes a joint of a kinematic chain using
// Denavit-Hartenberg parameters.
// Angles are in radians.
type Link struct {
	// Length is the distance along the local x axis from
	// this joint to the next.
	Length float32
	// Displacement is the offset along the local z axis.
	Displacement float32

	// Rotation about the local z axis: default, minimum
	// and maximum.
	Rotation, RotMin, RotMax float32
	// Twist about the local x axis: default, minimum and
	// maximum.
	Twist, TwistMin, TwistMax float32
}

// Key is a keyframe of an angle curve.
type Key struct {
	Time  float32
	Angle float32
}

// Clip is a named animation of an Articulated node.
// Keys of each curve are ordered by time.
type Clip struct {
	Rot   []Key
	Twist []Key
}

// Length returns the time of the last key of the clip.
func (c *Clip) Length() float32 {
	var n float32
	if len(c.Rot) > 0 {
		n = c.Rot[len(c.Rot)-1].Time
	}
	if len(c.Twist) > 0 {
		n = max(n, c.Twist[len(c.Twist)-1].Time)
	}
	return n
}

// Articulated is a node that is both a joint of a
// kinematic chain and a Geometry drawn at that joint.
// Its children hang from the end of the link.
//
// The joint transform (the DH matrix) is recomputed only
// when the angles change: at creation, on SetDefaults
// and on animation ticks.
type Articulated struct {
	Geometry
	link  Link
	rot   float32
	twist float32
	dh    linear.M4
	world linear.M4

	anims    map[string]Clip
	cur      string
	elapsed  float32
	length   float32
	repeat   bool
	playing  bool
	rotKey   int
	twistKey int
}

// NewArticulated creates an Articulated node for link,
// drawing the mesh stored in file.
// An empty file creates a joint with no mesh.
func NewArticulated(dev gfx.Device, link Link, file string) *Articulated {
	a := &Articulated{
		Geometry: Geometry{Base: Base{dev: dev}, file: file, visible: true},
		link:     link,
		anims:    make(map[string]Clip),
	}
	a.world.I()
	a.load()
	a.SetDefaults()
	return a
}

// NewArticulatedRef creates an Articulated node that
// shares the mesh of ref and starts with a copy of its
// animations.
// Playback state is not shared.
func NewArticulatedRef(ref *Articulated) *Articulated {
	a := &Articulated{
		Geometry: Geometry{Base: Base{dev: ref.dev}, ref: &ref.Geometry, visible: true},
		link:     ref.link,
		anims:    maps.Clone(ref.anims),
	}
	a.world.I()
	a.SetDefaults()
	return a
}

// Type returns TypeArticulated.
func (a *Articulated) Type() Type { return TypeArticulated }

// Link returns the link parameters of a.
func (a *Articulated) Link() Link { return a.link }

// Rotation returns the current rotation angle.
func (a *Articulated) Rotation() float32 { return a.rot }

// Twist returns the current twist angle.
func (a *Articulated) Twist() float32 { return a.twist }

// DH returns the joint transform.
func (a *Articulated) DH() linear.M4 { return a.dh }

// World returns the world matrix of the joint computed
// by the last Update.
func (a *Articulated) World() linear.M4 { return a.world }

func (a *Articulated) calcDH() { a.dh.DH(a.link.Displacement, a.rot, a.twist) }

// Update advances the animation, if any, and installs
// the transform of the end of the link for the child
// subtree.
func (a *Articulated) Update(c *Context, dt float32) {
	if clip, ok := a.anims[a.cur]; a.playing && ok {
		a.elapsed += dt
		if a.elapsed >= a.length {
			if a.repeat {
				if a.length > 0 {
					a.elapsed = math32.Mod(a.elapsed, a.length)
				} else {
					a.elapsed = 0
				}
				a.rotKey, a.twistKey = 0, 0
			} else {
				a.playing = false
			}
		}
		a.rot = clamp(angleAt(clip.Rot, &a.rotKey, a.elapsed), a.link.RotMin, a.link.RotMax)
		a.twist = clamp(angleAt(clip.Twist, &a.twistKey, a.elapsed), a.link.TwistMin, a.link.TwistMax)
		a.calcDH()
	}
	prev := c.Matrix(gfx.World)
	a.world.Mul(&prev, &a.dh)
	var tl, end linear.M4
	tl.Translate(a.link.Length, 0, 0)
	end.Mul(&a.world, &tl)
	c.PushMatrix(gfx.World, &end)
}

// PostUpdate restores the inherited world matrix.
func (a *Articulated) PostUpdate(c *Context) { c.PopMatrix(gfx.World) }

// RenderTransform installs the world matrix of the
// joint, without drawing.
func (a *Articulated) RenderTransform(c *Context) { c.PushMatrix(gfx.World, &a.world) }

// Render installs the world matrix of the joint and
// draws the mesh.
func (a *Articulated) Render(c *Context) {
	a.RenderTransform(c)
	a.Draw(c)
}

// PostRender restores the inherited world matrix.
func (a *Articulated) PostRender(c *Context) { c.PopMatrix(gfx.World) }

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// epsilon is the float32 machine epsilon.
const epsilon = 0x1p-23

// angleAt interpolates keys at time t.
// *cur is the index of the key that starts the current
// segment. It only moves forward.
// Past the last key, the angle of the last key is
// returned. Keys that share a time yield the angle of
// the later key.
func angleAt(keys []Key, cur *int, t float32) float32 {
	i := *cur
	if i+1 >= len(keys) {
		return keys[len(keys)-1].Angle
	}
	for t > keys[i+1].Time {
		i++
		*cur = i
		if i+1 >= len(keys) {
			return keys[i].Angle
		}
	}
	k0, k1 := keys[i], keys[i+1]
	dt := k1.Time - k0.Time
	if math32.Abs(dt) <= epsilon {
		return k1.Angle
	}
	return (k1.Angle-k0.Angle)*((t-k0.Time)/dt) + k0.Angle
}

// AddAnimation adds a clip named name.
// Both curves must have at least one key. The keys are
// copied and sorted by time.
func (a *Articulated) AddAnimation(name string, clip Clip) error {
	if _, ok := a.anims[name]; ok {
		return ErrClipExists
	}
	if len(clip.Rot) == 0 || len(clip.Twist) == 0 {
		return ErrEmptyCurve
	}
	byTime := func(x, y Key) int {
		switch {
		case x.Time < y.Time:
			return -1
		case x.Time > y.Time:
			return 1
		}
		return 0
	}
	clip.Rot = slices.Clone(clip.Rot)
	clip.Twist = slices.Clone(clip.Twist)
	slices.SortStableFunc(clip.Rot, byTime)
	slices.SortStableFunc(clip.Twist, byTime)
	a.anims[name] = clip
	return nil
}

// DeleteAnimation removes the named clip.
// It returns whether the clip existed.
func (a *Articulated) DeleteAnimation(name string) bool {
	if _, ok := a.anims[name]; !ok {
		return false
	}
	delete(a.anims, name)
	return true
}

// Animations returns the names of the clips of a, in
// lexical order.
func (a *Articulated) Animations() []string { return slices.Sorted(maps.Keys(a.anims)) }

// SetAnimation starts playing the named clip from the
// beginning and returns its length.
// If a has no such clip, it stops playing and returns
// AnimNotFound.
func (a *Articulated) SetAnimation(name string, repeat bool) float32 {
	a.playing = false
	a.cur = name
	a.length = AnimNotFound
	a.elapsed = 0
	a.repeat = repeat
	a.rotKey, a.twistKey = 0, 0
	if clip, ok := a.anims[name]; ok {
		a.length = clip.Length()
		a.playing = true
	}
	return a.length
}

// StopAnimation pauses the animation.
// If reset is true, the angles return to their defaults.
func (a *Articulated) StopAnimation(reset bool) {
	a.playing = false
	if reset {
		a.SetDefaults()
	}
}

// ContinueAnimation resumes the current clip, if it
// still exists.
func (a *Articulated) ContinueAnimation() {
	if _, ok := a.anims[a.cur]; ok {
		a.playing = true
	}
}

// SetDefaults sets the angles to their defaults and
// rewinds the current clip.
func (a *Articulated) SetDefaults() {
	a.rot = a.link.Rotation
	a.twist = a.link.Twist
	a.elapsed = 0
	a.rotKey, a.twistKey = 0, 0
	a.calcDH()
}

// CurrentAnimation returns the name given to the last
// SetAnimation call.
func (a *Articulated) CurrentAnimation() string { return a.cur }

// AnimLength returns the length of the current clip.
func (a *Articulated) AnimLength() float32 { return a.length }

// Elapsed returns the playback time of the current clip.
func (a *Articulated) Elapsed() float32 { return a.elapsed }

// Playing returns whether a is animating.
func (a *Articulated) Playing() bool { return a.playing }

// SetAnimationAll calls SetAnimation on every
// Articulated node reachable from root and sets the
// length of the clip on each node that has it to the
// longest one found, so the nodes finish together.
// It returns that length, or AnimNotFound if no node has
// the clip.
func SetAnimationAll(root Node, name string, repeat bool) float32 {
	var found []*Articulated
	n := AnimNotFound
	for _, a := range NodesOf[*Articulated](root) {
		if l := a.SetAnimation(name, repeat); l != AnimNotFound {
			found = append(found, a)
			n = max(n, l)
		}
	}
	for _, a := range found {
		a.length = n
	}
	return n
}

// StopAnimationAll calls StopAnimation on every
// Articulated node reachable from root.
func StopAnimationAll(root Node, reset bool) {
	for _, a := range NodesOf[*Articulated](root) {
		a.StopAnimation(reset)
	}
}

// ContinueAnimationAll calls ContinueAnimation on every
// Articulated node reachable from root.
func ContinueAnimationAll(root Node) {
	for _, a := range NodesOf[*Articulated](root) {
		a.ContinueAnimation()
	}
}

// SetDefaultsAll calls SetDefaults on every Articulated
// node reachable from root.
func SetDefaultsAll(root Node) {
	for _, a := range NodesOf[*Articulated](root) {
		a.SetDefaults()
	}
}

// DeleteAnimationAll calls DeleteAnimation on every
// Articulated node reachable from root.
// It returns whether any node had the clip.
func DeleteAnimationAll(root Node, name string) (found bool) {
	for _, a := range NodesOf[*Articulated](root) {
		if a.DeleteAnimation(name) {
			found = true
		}
	}
	return
}

// SetAnimationAll is SetAnimationAll(a, name, repeat).
func (a *Articulated) SetAnimationAll(name string, repeat bool) float32 {
	return SetAnimationAll(a, name, repeat)
}

// StopAnimationAll is StopAnimationAll(a, reset).
func (a *Articulated) StopAnimationAll(reset bool) { StopAnimationAll(a, reset) }

// ContinueAnimationAll is ContinueAnimationAll(a).
func (a *Articulated) ContinueAnimationAll() { ContinueAnimationAll(a) }

// SetDefaultsAll is SetDefaultsAll(a).
func (a *Articulated) SetDefaultsAll() { SetDefaultsAll(a) }

// DeleteAnimationAll is DeleteAnimationAll(a, name).
func (a *Articulated) DeleteAnimationAll(name string) bool { return DeleteAnimationAll(a, name) }
