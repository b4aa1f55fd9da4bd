// Package gpu defines the render context that every GPU-touching component
// receives explicitly. Backends live in subpackages.
package gpu

import (
	"errors"
	"image"
)

// ErrReleased is returned when a released resource is used.
var ErrReleased = errors.New("gpu resource released")

// Vertex layout shared by every backend: position, normal, uv.
const (
	VertexFloats = 8
	VertexStride = VertexFloats * 4
)

// Per-instance layout: model matrix (mat4) then normal matrix (mat3).
const (
	InstanceFloats = 16 + 9
	InstanceStride = InstanceFloats * 4
)

// Attribute locations used by shaders.
const (
	AttribPosition     = 0
	AttribNormal       = 1
	AttribTexCoord     = 2
	AttribModelMatrix  = 3 // 4 consecutive vec4 slots
	AttribNormalMatrix = 7 // 3 consecutive vec3 slots
)

// Device creates GPU resources and owns pipeline state.
type Device interface {
	NewGeometry(vertices []float32, indices []uint32) (GeometryBuffer, error)
	NewProgram(vertexSrc, fragmentSrc string) (Program, error)
	NewTexture(img *image.RGBA) (Texture, error)
	NewUniformBuffer(size int, binding uint32) (UniformBuffer, error)

	SetBlend(enabled bool)
	SetDepthWrite(enabled bool)
	SetCull(enabled bool)
	SetWireframe(enabled bool)
	SetClearColor(r, g, b float32)
	Clear()
	Viewport(width, height int)
}

// GeometryBuffer holds immutable vertex/index data plus a mutable
// per-instance buffer.
type GeometryBuffer interface {
	// AllocateInstances reallocates the instance buffer to capBytes.
	AllocateInstances(capBytes int)
	// UpdateInstances writes data at the start of the instance buffer.
	UpdateInstances(data []byte)
	DrawInstanced(indexCount, instances int)
	Release()
}

// Program is a linked shader program.
type Program interface {
	Use()
	// UniformLocation returns -1 for unknown or inactive names.
	UniformLocation(name string) int32
	// UniformBlockIndex reports false for unknown block names.
	UniformBlockIndex(name string) (uint32, bool)
	BindUniformBlock(index, binding uint32)

	SetInt(loc int32, v int32)
	SetFloat(loc int32, v float32)
	SetVec3(loc int32, v [3]float32)
	SetVec4(loc int32, v [4]float32)
	SetMat4(loc int32, m [16]float32)
	Release()
}

// Texture is an uploaded 2D texture.
type Texture interface {
	Bind(slot uint32)
	Release()
}

// UniformBuffer is a uniform buffer bound to a fixed binding point.
type UniformBuffer interface {
	Update(offset int, data []byte)
	Release()
}
