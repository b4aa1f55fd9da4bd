// Package model provides the Model asset: an ordered list of sub-meshes, each
// pairing an uploaded geometry with a material handle.
package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fogleman/fauxgl"

	"github.com/Faultbox/simple-engine/internal/engine/asset"
	"github.com/Faultbox/simple-engine/internal/engine/gpu"
	"github.com/Faultbox/simple-engine/internal/engine/material"
	"github.com/Faultbox/simple-engine/internal/engine/mesh"
	"github.com/Faultbox/simple-engine/internal/engine/shader"
	"github.com/Faultbox/simple-engine/internal/engine/texture"
)

var (
	// ErrUnsupportedFormat is returned for unknown model file extensions.
	ErrUnsupportedFormat = errors.New("unsupported model format")
	// ErrInvalidTextureSource is returned when a texture names a missing image.
	ErrInvalidTextureSource = errors.New("invalid texture source")
	// ErrEmbeddedTexture is returned for images stored inside the model file.
	ErrEmbeddedTexture = errors.New("embedded textures not supported")
)

// Dependencies loads the assets a model refers to. Implementations cache
// by logical key so shared textures and materials are loaded once.
type Dependencies interface {
	Device() gpu.Device
	GeometryOptions() mesh.Options
	LoadShader(path string) (asset.Handle[*shader.Shader], error)
	LoadTexture(path string) (asset.Handle[*texture.Texture], error)
	Material(name string, spec material.Spec) (asset.Handle[*material.Material], error)
}

// SubMesh is one drawable part of a model.
type SubMesh struct {
	Geometry *mesh.Geometry
	Material asset.Handle[*material.Material]
}

// Model is an imported mesh file. Its sub-meshes never change after Load.
type Model struct {
	path      string
	subMeshes []SubMesh
}

// Load imports the model at path. Every material it creates uses the shader
// at shaderPath. The format is picked from the file extension.
func Load(deps Dependencies, path, shaderPath string) (*Model, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return loadGLTF(deps, path, shaderPath)
	case ".obj":
		return loadMeshFile(deps, path, shaderPath, fauxgl.LoadOBJ)
	case ".stl":
		return loadMeshFile(deps, path, shaderPath, fauxgl.LoadSTL)
	case ".ply":
		return loadMeshFile(deps, path, shaderPath, fauxgl.LoadPLY)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// New assembles a model from already uploaded sub-meshes.
func New(path string, subMeshes []SubMesh) *Model {
	return &Model{path: path, subMeshes: subMeshes}
}

// Path returns the source file path.
func (m *Model) Path() string { return m.path }

// SubMeshes returns the sub-meshes in import order.
func (m *Model) SubMeshes() []SubMesh { return m.subMeshes }

// Bounds returns the union of the sub-mesh bounds.
func (m *Model) Bounds() mesh.AABB {
	b := mesh.EmptyAABB()
	for _, sm := range m.subMeshes {
		gb := sm.Geometry.Bounds()
		b.Extend(gb.Min)
		b.Extend(gb.Max)
	}
	return b
}

// Release frees the geometries. Materials belong to the registry.
func (m *Model) Release() {
	for _, sm := range m.subMeshes {
		sm.Geometry.Release()
	}
	m.subMeshes = nil
}

// primitive is importer output before upload.
type primitive struct {
	vertices   []mesh.Vertex
	indices    []uint32
	bounds     *mesh.AABB
	hasNormals bool
}

// upload fills in missing data and creates the geometry. Indexed primitives
// without normals get smoothed face normals.
func (p *primitive) upload(deps Dependencies) (*mesh.Geometry, error) {
	if p.indices == nil {
		p.indices = make([]uint32, len(p.vertices))
		for i := range p.indices {
			p.indices[i] = uint32(i)
		}
	} else if !p.hasNormals {
		mesh.SmoothNormals(p.vertices, p.indices)
	}
	return mesh.New(deps.Device(), mesh.Interleave(p.vertices), p.indices, p.bounds, deps.GeometryOptions())
}
