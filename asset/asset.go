// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package asset loads the resources that scene nodes
// refer to by name: meshes (glTF), textures (PNG, JPEG,
// GIF, BMP, TIFF, WebP) and effect descriptions (YAML).
package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/gviegas/sglib/gfx"
)

const prefix = "asset: "

var errFormat = errors.New(prefix + "unknown file format")

// Loader loads assets from a file system.
// Decoded mesh data is cached by name, so loading the
// same mesh for many devices or nodes decodes it once.
// It is safe for concurrent use.
type Loader struct {
	fsys fs.FS

	mu     sync.Mutex
	meshes map[string]*gfx.MeshData
}

// New creates a Loader that reads files from fsys.
func New(fsys fs.FS) *Loader {
	return &Loader{
		fsys:   fsys,
		meshes: make(map[string]*gfx.MeshData),
	}
}

// FS returns the file system of l.
func (l *Loader) FS() fs.FS { return l.fsys }

// Forget drops every cached entry.
func (l *Loader) Forget() {
	l.mu.Lock()
	clear(l.meshes)
	l.mu.Unlock()
}

// Model is a mesh created on a device together with the
// material and texture of each of its subsets.
// Textures[i] is nil if subset i is not textured.
type Model struct {
	Mesh      gfx.Mesh
	Materials []gfx.Material
	Textures  []gfx.Texture
}

// Release releases the mesh and textures of m.
func (m *Model) Release() {
	if m.Mesh != nil {
		m.Mesh.Release()
		m.Mesh = nil
	}
	for i, t := range m.Textures {
		if t != nil {
			t.Release()
			m.Textures[i] = nil
		}
	}
}

// Model loads the named mesh and creates it on dev.
func (l *Loader) Model(dev gfx.Device, name string) (*Model, error) {
	data, err := l.MeshData(name)
	if err != nil {
		return nil, err
	}
	mesh, err := dev.CreateMesh(data)
	if err != nil {
		return nil, fmt.Errorf(prefix+"%s: %w", name, err)
	}
	m := &Model{
		Mesh:      mesh,
		Materials: make([]gfx.Material, len(data.Subsets)),
		Textures:  make([]gfx.Texture, len(data.Subsets)),
	}
	for i, s := range data.Subsets {
		m.Materials[i] = s.Material
		if s.Image == nil {
			continue
		}
		if m.Textures[i], err = dev.CreateTexture(s.Image); err != nil {
			m.Release()
			return nil, fmt.Errorf(prefix+"%s: subset %d: %w", name, i, err)
		}
	}
	return m, nil
}

// MeshData loads the named mesh.
// The format is chosen by file extension: ".gltf" or
// ".glb".
// The returned data is shared and must not be modified.
func (l *Loader) MeshData(name string) (*gfx.MeshData, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if d, ok := l.meshes[name]; ok {
		return d, nil
	}
	var d *gfx.MeshData
	var err error
	switch path.Ext(name) {
	case ".gltf", ".glb":
		d, err = l.loadGLTF(name)
	default:
		err = errFormat
	}
	if err != nil {
		return nil, fmt.Errorf(prefix+"%s: %w", name, err)
	}
	if err = d.Check(); err != nil {
		return nil, fmt.Errorf(prefix+"%s: %w", name, err)
	}
	l.meshes[name] = d
	return d, nil
}

// Effect loads the named effect description and compiles
// it on dev.
// Every failure, including a missing or malformed file,
// is reported as a *gfx.CompileError.
func (l *Loader) Effect(dev gfx.Device, name string) (gfx.Effect, error) {
	desc, err := l.EffectDesc(name)
	if err != nil {
		return nil, gfx.AsCompileError(name, err)
	}
	fx, err := dev.CreateEffect(desc)
	if err != nil {
		return nil, gfx.AsCompileError(name, err)
	}
	return fx, nil
}
