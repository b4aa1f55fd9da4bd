// Package glgpu implements the gpu interfaces on OpenGL 4.1 core.
// Every call must happen on the thread that owns the GL context.
package glgpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/simple-engine/internal/engine/gpu"
	"github.com/Faultbox/simple-engine/internal/logger"
)

// Device is the OpenGL render context.
type Device struct {
	log *zap.Logger
}

var _ gpu.Device = (*Device)(nil)

// New initializes the GL function pointers and sets the default pipeline state.
// It must be called after the GL context is created and made current.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	d := &Device{log: logger.Named("gpu")}
	d.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.Enable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(0.5, 1.0)
	gl.Enable(gl.LINE_SMOOTH)

	gl.ClearColor(0.2, 0.3, 0.8, 1.0)
	return d, nil
}

// NewGeometry uploads interleaved vertices (gpu.VertexFloats per vertex) and
// triangle indices, and prepares an empty per-instance buffer.
func (d *Device) NewGeometry(vertices []float32, indices []uint32) (gpu.GeometryBuffer, error) {
	if len(vertices) == 0 || len(vertices)%gpu.VertexFloats != 0 {
		return nil, fmt.Errorf("vertex data length %d is not a positive multiple of %d", len(vertices), gpu.VertexFloats)
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("geometry has no indices")
	}
	return newGeometry(vertices, indices), nil
}

// NewProgram compiles and links a vertex/fragment program.
func (d *Device) NewProgram(vertexSrc, fragmentSrc string) (gpu.Program, error) {
	id, err := compileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &Program{id: id}, nil
}

// NewTexture uploads an RGBA image with mipmaps.
func (d *Device) NewTexture(img *image.RGBA) (gpu.Texture, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("empty texture image")
	}
	return uploadTexture(img), nil
}

// NewUniformBuffer allocates a uniform buffer of size bytes bound to binding.
func (d *Device) NewUniformBuffer(size int, binding uint32) (gpu.UniformBuffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("uniform buffer size %d must be positive", size)
	}
	ub := &UniformBuffer{binding: binding}
	gl.GenBuffers(1, &ub.id)
	gl.BindBuffer(gl.UNIFORM_BUFFER, ub.id)
	gl.BufferData(gl.UNIFORM_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, binding, ub.id)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	return ub, nil
}

// SetBlend toggles alpha blending.
func (d *Device) SetBlend(enabled bool) {
	toggle(gl.BLEND, enabled)
}

// SetDepthWrite sets the depth mask.
func (d *Device) SetDepthWrite(enabled bool) {
	gl.DepthMask(enabled)
}

// SetCull toggles back-face culling.
func (d *Device) SetCull(enabled bool) {
	toggle(gl.CULL_FACE, enabled)
}

// SetWireframe switches between line and fill rasterization.
func (d *Device) SetWireframe(enabled bool) {
	if enabled {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		return
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

// SetClearColor sets the color used by Clear.
func (d *Device) SetClearColor(r, g, b float32) {
	gl.ClearColor(r, g, b, 1.0)
}

// Clear clears the color and depth buffers.
func (d *Device) Clear() {
	// Depth clears honour the depth mask.
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Viewport sets the viewport to the full drawable size.
func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	d.log.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

func toggle(capability uint32, enabled bool) {
	if enabled {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

// UniformBuffer is a GL uniform buffer object.
type UniformBuffer struct {
	id      uint32
	binding uint32
}

// Update writes data at offset.
func (u *UniformBuffer) Update(offset int, data []byte) {
	if u.id == 0 || len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, u.id)
	gl.BufferSubData(gl.UNIFORM_BUFFER, offset, len(data), unsafe.Pointer(&data[0]))
	gl.BindBufferBase(gl.UNIFORM_BUFFER, u.binding, u.id)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

// Release deletes the buffer.
func (u *UniformBuffer) Release() {
	if u.id != 0 {
		gl.DeleteBuffers(1, &u.id)
		u.id = 0
	}
}
