// Package render draws renderables as instanced batches.
//
// Submit culls each renderable against the camera frustum and appends its
// instance record to the batch of its (geometry, material) pair. Flush uploads
// the frame uniforms and issues one instanced draw per non-empty batch. Batches
// are drawn in map order, so blended materials are not sorted back to front.
package render

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/simple-engine/internal/engine/asset"
	"github.com/Faultbox/simple-engine/internal/engine/gpu"
	"github.com/Faultbox/simple-engine/internal/engine/lighting"
	"github.com/Faultbox/simple-engine/internal/engine/material"
	"github.com/Faultbox/simple-engine/internal/engine/mesh"
	"github.com/Faultbox/simple-engine/internal/engine/scene"
	"github.com/Faultbox/simple-engine/internal/engine/shader"
	"github.com/Faultbox/simple-engine/internal/engine/texture"
	"github.com/Faultbox/simple-engine/internal/logger"
	"github.com/Faultbox/simple-engine/pkg/math"
)

var (
	// ErrNoCamera is returned by Submit and Flush before SetCamera.
	ErrNoCamera = errors.New("render: no camera set")
	// ErrMissingGeometry is returned for a nil or released geometry.
	ErrMissingGeometry = errors.New("render: renderable has no geometry")
	// ErrMissingMaterial is returned when the material handle does not resolve.
	ErrMissingMaterial = errors.New("render: renderable material does not resolve")
	// ErrMissingShader is returned when a batch's material shader does not resolve.
	ErrMissingShader = errors.New("render: material shader does not resolve")
)

// Material uniforms set for every batch.
const (
	UniformTexture         = "u_Texture"
	UniformHasTexture      = "u_HasTexture"
	UniformBaseColorFactor = "u_BaseColorFactor"
	UniformAlphaCutoff     = "u_AlphaCutoff"
)

// Camera supplies the view-projection matrix.
type Camera interface {
	ViewProjection() math.Mat4
}

// Stats counts the work of one frame.
type Stats struct {
	DrawCalls int
	Triangles int
	Instances int
	Submitted int
	Culled    int
}

// Options configures a Renderer.
type Options struct {
	MaxBatchSize int
	ClearColor   [3]float32
}

// DefaultOptions returns the default renderer options.
func DefaultOptions() Options {
	return Options{MaxBatchSize: 1000, ClearColor: [3]float32{0.2, 0.3, 0.8}}
}

// Renderer batches renderables and submits them to a device.
type Renderer struct {
	device   gpu.Device
	registry *asset.Registry
	log      *zap.Logger

	camera   Camera
	lights   lighting.LightSet
	frameUBO gpu.UniformBuffer

	frustum      Frustum
	frustumValid bool
	frameReady   bool

	batches  map[BatchKey]*batch
	spare    []*batch
	maxBatch int

	clearColor [3]float32
	wireframe  bool

	current Stats
	last    Stats
}

// New creates a renderer drawing assets from registry on dev.
func New(dev gpu.Device, registry *asset.Registry, opts Options) (*Renderer, error) {
	if opts.MaxBatchSize <= 0 {
		return nil, fmt.Errorf("render: max batch size %d must be positive", opts.MaxBatchSize)
	}

	ubo, err := dev.NewUniformBuffer(FrameUniformsSize, FrameBinding)
	if err != nil {
		return nil, fmt.Errorf("create frame uniform buffer: %w", err)
	}

	r := &Renderer{
		device:     dev,
		registry:   registry,
		log:        logger.Named("render"),
		lights:     *lighting.NewLightSet(),
		frameUBO:   ubo,
		batches:    make(map[BatchKey]*batch),
		maxBatch:   opts.MaxBatchSize,
		clearColor: opts.ClearColor,
	}
	r.restoreState()

	r.log.Debug("renderer created", zap.Int("max_batch", r.maxBatch))
	return r, nil
}

// SetCamera sets the camera used by the next Submit and Flush calls.
func (r *Renderer) SetCamera(c Camera) {
	r.camera = c
	r.frustumValid = false
	r.frameReady = false
}

// SetLights copies the frame lights. Point lights beyond MaxPointLights are dropped.
func (r *Renderer) SetLights(lights *lighting.LightSet) {
	r.lights.Sun = lights.Sun
	r.lights.Sky = lights.Sky
	r.lights.SetPointLights(lights.PointLights())
	r.frameReady = false
}

// Lights returns the lights uploaded with the next frame.
func (r *Renderer) Lights() *lighting.LightSet {
	return &r.lights
}

// SetBatchSize changes the instance count at which a batch is flushed early.
// Non-positive sizes are ignored.
func (r *Renderer) SetBatchSize(n int) {
	if n <= 0 {
		return
	}
	r.maxBatch = n
	r.log.Debug("batch size changed", zap.Int("max_batch", n))
}

// BatchSize returns the early-flush threshold.
func (r *Renderer) BatchSize() int {
	return r.maxBatch
}

// GeometryOptions returns geometry options sized for one full batch.
func (r *Renderer) GeometryOptions() mesh.Options {
	return mesh.OptionsForBatch(r.maxBatch)
}

// Clear clears the color and depth buffers.
func (r *Renderer) Clear() {
	c := r.clearColor
	r.device.SetClearColor(c[0], c[1], c[2])
	r.device.Clear()
}

// ToggleWireframe flips polygon mode and reports the new setting.
func (r *Renderer) ToggleWireframe() bool {
	r.wireframe = !r.wireframe
	r.device.SetWireframe(r.wireframe)
	return r.wireframe
}

// Wireframe reports whether polygons are drawn as lines.
func (r *Renderer) Wireframe() bool {
	return r.wireframe
}

func (r *Renderer) viewFrustum() *Frustum {
	if !r.frustumValid {
		r.frustum = ExtractFrustum(r.camera.ViewProjection())
		r.frustumValid = true
	}
	return &r.frustum
}

// Submit queues a renderable for this frame. Renderables outside the camera
// frustum are dropped without error. A batch that reaches the batch size is
// drawn immediately. Geometry released with its model is reported as missing.
func (r *Renderer) Submit(rd scene.Renderable) error {
	if rd.Geometry == nil || rd.Geometry.Released() {
		return ErrMissingGeometry
	}
	mat, ok := asset.Resolve(r.registry, rd.Material)
	if !ok {
		return ErrMissingMaterial
	}
	if r.camera == nil {
		return ErrNoCamera
	}

	r.current.Submitted++
	model := rd.Transform.Matrix()
	if !r.viewFrustum().Intersects(rd.Geometry.Bounds(), model) {
		r.current.Culled++
		return nil
	}

	key := BatchKey{Geometry: rd.Geometry, Material: mat}
	b, ok := r.batches[key]
	if !ok {
		b = r.newBatch()
		r.batches[key] = b
	}
	b.add(NewInstance(model))

	if b.count >= r.maxBatch {
		defer r.restoreState()
		err := r.flushBatch(key, b)
		b.reset()
		return err
	}
	return nil
}

// SubmitScene submits every renderable of s, stopping at the first error.
func (r *Renderer) SubmitScene(s *scene.Scene) error {
	for i, rd := range s.Renderables() {
		if err := r.Submit(rd); err != nil {
			return fmt.Errorf("renderable %d: %w", i, err)
		}
	}
	return nil
}

// Flush draws every pending batch and ends the frame. Batches are discarded
// and default state restored even when a draw fails.
func (r *Renderer) Flush() error {
	if r.camera == nil {
		return ErrNoCamera
	}
	defer r.endFrame()

	if err := r.uploadFrame(); err != nil {
		return err
	}
	for key, b := range r.batches {
		if b.count == 0 {
			continue
		}
		if err := r.flushBatch(key, b); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns the counters of the last completed frame.
func (r *Renderer) Stats() Stats {
	return r.last
}

// Reset drops pending batches and all statistics.
func (r *Renderer) Reset() {
	r.recycleBatches()
	r.current = Stats{}
	r.last = Stats{}
}

// Close releases the frame uniform buffer.
func (r *Renderer) Close() {
	if r.frameUBO != nil {
		r.frameUBO.Release()
		r.frameUBO = nil
	}
}

func (r *Renderer) newBatch() *batch {
	if n := len(r.spare); n > 0 {
		b := r.spare[n-1]
		r.spare = r.spare[:n-1]
		return b
	}
	return newBatch(r.maxBatch)
}

func (r *Renderer) recycleBatches() {
	for key, b := range r.batches {
		b.reset()
		r.spare = append(r.spare, b)
		delete(r.batches, key)
	}
}

func (r *Renderer) endFrame() {
	r.recycleBatches()
	r.restoreState()
	r.last = r.current
	r.current = Stats{}
	r.frustumValid = false
	r.frameReady = false
}

// restoreState resets the toggles materials change.
func (r *Renderer) restoreState() {
	r.device.SetBlend(true)
	r.device.SetDepthWrite(true)
	r.device.SetCull(true)
}

func (r *Renderer) uploadFrame() error {
	if r.frameReady {
		return nil
	}
	if r.frameUBO == nil {
		return gpu.ErrReleased
	}
	u := NewFrameUniforms(r.camera.ViewProjection(), &r.lights)
	r.frameUBO.Update(0, u.Encode())
	r.frameReady = true
	return nil
}

func (r *Renderer) flushBatch(key BatchKey, b *batch) error {
	if b.count == 0 {
		return nil
	}
	if key.Geometry.Released() {
		return fmt.Errorf("%w: released before flush", ErrMissingGeometry)
	}
	if err := r.uploadFrame(); err != nil {
		return err
	}

	mat := key.Material
	sh, ok := asset.Resolve(r.registry, mat.Shader())
	if !ok {
		return fmt.Errorf("%w: material %q", ErrMissingShader, mat.Name())
	}

	applyState(r.device, mat.State())

	sh.Bind()
	if err := sh.BindUniformBlock(FrameBlockName, FrameBinding); err != nil {
		return fmt.Errorf("material %q: %w", mat.Name(), err)
	}
	bindMaterial(r.registry, sh, mat)

	key.Geometry.UploadInstances(b.data)
	key.Geometry.Draw(b.count)

	r.current.DrawCalls++
	r.current.Instances += b.count
	r.current.Triangles += key.Geometry.IndexCount() / 3 * b.count
	return nil
}

func applyState(dev gpu.Device, st material.RenderState) {
	dev.SetBlend(st.Blend)
	dev.SetDepthWrite(st.DepthWrite)
	dev.SetCull(st.Cull)
}

func bindMaterial(reg *asset.Registry, sh *shader.Shader, mat *material.Material) {
	if tex, ok := asset.Resolve[*texture.Texture](reg, mat.BaseColor()); ok {
		tex.Bind(0)
		sh.SetInt(UniformTexture, 0)
		sh.SetBool(UniformHasTexture, true)
	} else {
		sh.SetBool(UniformHasTexture, false)
	}

	params := mat.Params()
	sh.SetVec4(UniformBaseColorFactor, params.BaseColorFactor)
	sh.SetFloat(UniformAlphaCutoff, params.AlphaCutoff)
}
