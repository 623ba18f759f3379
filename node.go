// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package sglib implements a retained-mode scene graph.
//
// Nodes form a binary tree of child and sibling links.
// A Renderer walks the tree depth first, letting each
// node install device state (matrices, effects, render
// states) for its child subtree and restore it on the
// way back up.
package sglib

import (
	"log/slog"

	"github.com/gviegas/sglib/gfx"
)

// Type is the type of a node.
type Type int

// Node types.
const (
	TypeArticulated Type = iota
	TypeCamera
	TypeGeometry
	TypeParticleSys
	TypeProjection
	TypeShader
	TypeState
	TypeTransform
)

func (t Type) String() string {
	switch t {
	case TypeArticulated:
		return "Articulated"
	case TypeCamera:
		return "Camera"
	case TypeGeometry:
		return "Geometry"
	case TypeParticleSys:
		return "ParticleSystem"
	case TypeProjection:
		return "Projection"
	case TypeShader:
		return "Shader"
	case TypeState:
		return "State"
	case TypeTransform:
		return "Transform"
	}
	return "Type(?)"
}

// Node is the interface implemented by every element of
// the graph.
// Implementations embed Base, which provides the links
// and default (no-op) behavior.
type Node interface {
	// Type returns the type of the node.
	// The Renderer dispatches on this value.
	Type() Type

	Description() string
	SetDescription(desc string)

	// Device returns the device that the node was
	// created on.
	Device() gfx.Device

	Child() Node
	Sibling() Node
	SetChild(n Node) Node
	SetSibling(n Node) Node
	InsertChild(n Node) error
	InsertSibling(n Node) error
	InsertChildHierarchy(n Node) error
	InsertSiblingHierarchy(n Node) error
	RemoveChild() Node
	RemoveSibling() Node

	// Render is called on the way down, PostRender on
	// the way up (after the child subtree rendered).
	Render(c *Context)
	PostRender(c *Context)

	// Update and PostUpdate are the Render/PostRender
	// counterparts of an update traversal.
	Update(c *Context, dt float32)
	PostUpdate(c *Context)

	// Device lifecycle.
	// Each call propagates to the child and then to the
	// sibling of the node.
	OnCreateDevice(dev gfx.Device)
	OnResetDevice(dev gfx.Device)
	OnLostDevice()
	OnDestroyDevice()

	base() *Base
}

// Base holds the links and the description of a node.
type Base struct {
	desc    string
	dev     gfx.Device
	child   Node
	sibling Node
}

func (b *Base) base() *Base { return b }

// Description returns the description of the node.
func (b *Base) Description() string { return b.desc }

// SetDescription sets the description of the node.
// Descriptions need not be unique.
func (b *Base) SetDescription(desc string) { b.desc = desc }

// Device returns the device of the node.
func (b *Base) Device() gfx.Device { return b.dev }

// Child returns the child of the node, or nil.
func (b *Base) Child() Node { return b.child }

// Sibling returns the sibling of the node, or nil.
func (b *Base) Sibling() Node { return b.sibling }

// reaches returns whether target can be reached from n
// by following child and sibling links.
func reaches(n Node, target *Base) bool {
	if n == nil {
		return false
	}
	stk := []Node{n}
	for len(stk) > 0 {
		n = stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		if n.base() == target {
			return true
		}
		if c := n.Child(); c != nil {
			stk = append(stk, c)
		}
		if s := n.Sibling(); s != nil {
			stk = append(stk, s)
		}
	}
	return false
}

func (b *Base) reject(op string, n Node) error {
	Logger().Warn(prefix+op+": link rejected", "node", b.desc, "other", n.Description(), slog.Any("err", ErrCycle))
	return ErrCycle
}

// SetChild replaces the child of the node and returns
// the previous one.
// If n is the node itself or one of its ancestors, the
// link is rejected: nothing changes and nil is returned.
func (b *Base) SetChild(n Node) Node {
	if reaches(n, b) {
		b.reject("SetChild", n)
		return nil
	}
	prev := b.child
	b.child = n
	return prev
}

// SetSibling replaces the sibling of the node and
// returns the previous one.
// Cycles are rejected as in SetChild.
func (b *Base) SetSibling(n Node) Node {
	if reaches(n, b) {
		b.reject("SetSibling", n)
		return nil
	}
	prev := b.sibling
	b.sibling = n
	return prev
}

// InsertChild makes n the child of the node.
// The previous child, if any, becomes the child of n,
// replacing whatever child n had.
func (b *Base) InsertChild(n Node) error {
	if n == nil || n == b.child {
		return nil
	}
	prev := b.child
	if reaches(n, b) || reaches(prev, n.base()) {
		return b.reject("InsertChild", n)
	}
	b.child = n
	if prev != nil {
		n.base().child = prev
	}
	return nil
}

// InsertSibling makes n the sibling of the node.
// The previous sibling, if any, becomes the sibling of
// n, replacing whatever sibling n had.
func (b *Base) InsertSibling(n Node) error {
	if n == nil || n == b.sibling {
		return nil
	}
	prev := b.sibling
	if reaches(n, b) || reaches(prev, n.base()) {
		return b.reject("InsertSibling", n)
	}
	b.sibling = n
	if prev != nil {
		n.base().sibling = prev
	}
	return nil
}

// InsertChildHierarchy makes n the child of the node.
// The previous child is appended to the end of the
// child chain that starts at n.
func (b *Base) InsertChildHierarchy(n Node) error {
	if n == nil || n == b.child {
		return nil
	}
	prev := b.child
	if reaches(n, b) {
		return b.reject("InsertChildHierarchy", n)
	}
	tail := n.base()
	for tail.child != nil {
		tail = tail.child.base()
	}
	// prev is linked to the tail, so it must not reach
	// any node of the chain.
	if reaches(prev, tail) {
		return b.reject("InsertChildHierarchy", n)
	}
	b.child = n
	if prev != nil {
		tail.child = prev
	}
	return nil
}

// InsertSiblingHierarchy makes n the sibling of the
// node.
// The previous sibling is appended to the end of the
// sibling chain that starts at n.
func (b *Base) InsertSiblingHierarchy(n Node) error {
	if n == nil || n == b.sibling {
		return nil
	}
	prev := b.sibling
	if reaches(n, b) {
		return b.reject("InsertSiblingHierarchy", n)
	}
	tail := n.base()
	for tail.sibling != nil {
		tail = tail.sibling.base()
	}
	// prev is linked to the tail, so it must not reach
	// any node of the chain.
	if reaches(prev, tail) {
		return b.reject("InsertSiblingHierarchy", n)
	}
	b.sibling = n
	if prev != nil {
		tail.sibling = prev
	}
	return nil
}

// RemoveChild detaches and returns the child of the
// node, or nil if it has none.
// The child of the removed node takes its place. The
// removed node keeps its sibling chain.
func (b *Base) RemoveChild() Node {
	n := b.child
	if n == nil {
		return nil
	}
	nb := n.base()
	b.child = nb.child
	nb.child = nil
	return n
}

// RemoveSibling detaches and returns the sibling of the
// node, or nil if it has none.
// The sibling of the removed node takes its place. The
// removed node keeps its child subtree.
func (b *Base) RemoveSibling() Node {
	n := b.sibling
	if n == nil {
		return nil
	}
	nb := n.base()
	b.sibling = nb.sibling
	nb.sibling = nil
	return n
}

func (b *Base) Render(*Context)          {}
func (b *Base) PostRender(*Context)      {}
func (b *Base) Update(*Context, float32) {}
func (b *Base) PostUpdate(*Context)      {}

// OnCreateDevice sets the device of the node and
// propagates the call.
func (b *Base) OnCreateDevice(dev gfx.Device) {
	b.dev = dev
	if b.child != nil {
		b.child.OnCreateDevice(dev)
	}
	if b.sibling != nil {
		b.sibling.OnCreateDevice(dev)
	}
}

// OnResetDevice sets the device of the node and
// propagates the call.
func (b *Base) OnResetDevice(dev gfx.Device) {
	b.dev = dev
	if b.child != nil {
		b.child.OnResetDevice(dev)
	}
	if b.sibling != nil {
		b.sibling.OnResetDevice(dev)
	}
}

// OnLostDevice propagates the call.
func (b *Base) OnLostDevice() {
	if b.child != nil {
		b.child.OnLostDevice()
	}
	if b.sibling != nil {
		b.sibling.OnLostDevice()
	}
}

// OnDestroyDevice propagates the call.
func (b *Base) OnDestroyDevice() {
	if b.child != nil {
		b.child.OnDestroyDevice()
	}
	if b.sibling != nil {
		b.sibling.OnDestroyDevice()
	}
}

// NodesOfType returns every node of type t reachable
// from root, root included.
// Nodes are visited with an explicit stack: after a node
// is recorded, its child and then its sibling are
// pushed, so the sibling subtree is visited before the
// child subtree.
func NodesOfType(root Node, t Type) (nodes []Node) {
	if root == nil {
		return
	}
	stk := []Node{root}
	for len(stk) > 0 {
		n := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		if n.Type() == t {
			nodes = append(nodes, n)
		}
		if c := n.Child(); c != nil {
			stk = append(stk, c)
		}
		if s := n.Sibling(); s != nil {
			stk = append(stk, s)
		}
	}
	return
}

// NodesOf is like NodesOfType, but selects by the
// concrete type of the node.
func NodesOf[T Node](root Node) (nodes []T) {
	if root == nil {
		return
	}
	stk := []Node{root}
	for len(stk) > 0 {
		n := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		if x, ok := n.(T); ok {
			nodes = append(nodes, x)
		}
		if c := n.Child(); c != nil {
			stk = append(stk, c)
		}
		if s := n.Sibling(); s != nil {
			stk = append(stk, s)
		}
	}
	return
}

// Walk calls f for every node reachable from root, in
// pre-order: a node, then its child subtree, then its
// sibling subtree.
// depth is the number of child links between root and
// the node. Walk stops when f returns false.
func Walk(root Node, f func(n Node, depth int) bool) {
	if root == nil {
		return
	}
	type item struct {
		n     Node
		depth int
	}
	stk := []item{{root, 0}}
	for len(stk) > 0 {
		it := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		if !f(it.n, it.depth) {
			return
		}
		if s := it.n.Sibling(); s != nil {
			stk = append(stk, item{s, it.depth})
		}
		if c := it.n.Child(); c != nil {
			stk = append(stk, item{c, it.depth + 1})
		}
	}
}

// Find returns the first node reachable from root whose
// description is desc, or nil if there is none.
// The search order is that of Walk.
func Find(root Node, desc string) (found Node) {
	Walk(root, func(n Node, _ int) bool {
		if n.Description() == desc {
			found = n
			return false
		}
		return true
	})
	return
}
