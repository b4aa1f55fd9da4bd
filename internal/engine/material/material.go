// Package material defines the Material asset: a shader, its textures,
// scalar factors and the fixed-function state used to draw it.
package material

import (
	"github.com/Faultbox/simple-engine/internal/engine/asset"
	"github.com/Faultbox/simple-engine/internal/engine/shader"
	"github.com/Faultbox/simple-engine/internal/engine/texture"
)

// RenderState is the pipeline state applied before drawing a material.
type RenderState struct {
	Blend      bool
	DepthWrite bool
	Cull       bool
}

// DefaultRenderState is opaque, depth-writing and back-face culled.
func DefaultRenderState() RenderState {
	return RenderState{Blend: false, DepthWrite: true, Cull: true}
}

// Textures references the material's texture set. Zero handles mean unset.
type Textures struct {
	BaseColor         asset.Handle[*texture.Texture]
	MetallicRoughness asset.Handle[*texture.Texture]
	Normal            asset.Handle[*texture.Texture]
	Emissive          asset.Handle[*texture.Texture]
	Occlusion         asset.Handle[*texture.Texture]
}

// Params holds the scalar factors.
type Params struct {
	BaseColorFactor [4]float32
	MetallicFactor  float32
	RoughnessFactor float32
	EmissiveFactor  [3]float32
	AlphaCutoff     float32
}

// DefaultParams returns white, fully metallic and rough, cutoff 0.5.
func DefaultParams() Params {
	return Params{
		BaseColorFactor: [4]float32{1, 1, 1, 1},
		MetallicFactor:  1,
		RoughnessFactor: 1,
		AlphaCutoff:     0.5,
	}
}

// Spec is everything needed to build a material.
type Spec struct {
	Shader   asset.Handle[*shader.Shader]
	Textures Textures
	Params   Params
	State    RenderState
}

// DefaultSpec uses the given shader with default params and state.
func DefaultSpec(sh asset.Handle[*shader.Shader]) Spec {
	return Spec{Shader: sh, Params: DefaultParams(), State: DefaultRenderState()}
}

// Material is immutable after New.
type Material struct {
	name string
	spec Spec
}

// New creates a material.
func New(name string, spec Spec) *Material {
	return &Material{name: name, spec: spec}
}

// Name returns the material name.
func (m *Material) Name() string { return m.name }

// Shader returns the shader handle.
func (m *Material) Shader() asset.Handle[*shader.Shader] { return m.spec.Shader }

// Textures returns the texture set.
func (m *Material) Textures() Textures { return m.spec.Textures }

// BaseColor returns the base color texture handle, possibly invalid.
func (m *Material) BaseColor() asset.Handle[*texture.Texture] { return m.spec.Textures.BaseColor }

// Params returns the scalar factors.
func (m *Material) Params() Params { return m.spec.Params }

// State returns the render state.
func (m *Material) State() RenderState { return m.spec.State }
