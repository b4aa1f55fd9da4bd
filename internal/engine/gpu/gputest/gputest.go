// Package gputest provides a recording gpu.Device for tests that run without
// a GL context.
package gputest

import (
	"fmt"
	"image"

	"github.com/Faultbox/simple-engine/internal/engine/gpu"
)

// State is a snapshot of the pipeline toggles.
type State struct {
	Blend      bool
	DepthWrite bool
	Cull       bool
	Wireframe  bool
}

// DefaultState matches the state a fresh GL device starts in.
var DefaultState = State{Blend: true, DepthWrite: true, Cull: true}

// Draw records one instanced draw call.
type Draw struct {
	Geometry   *Geometry
	Program    *Program
	IndexCount int
	Instances  int

	// Data is the instance data uploaded right before the draw.
	Data  []byte
	State State

	// Texture is the texture bound to slot 0 at draw time, or nil.
	Texture *Texture
}

// Device records every call made through the gpu interfaces.
type Device struct {
	State      State
	ClearColor [3]float32
	Clears     int
	Draws      []Draw
	Geometries []*Geometry
	Programs   []*Program
	Textures   []*Texture
	Uniforms   []*UniformBuffer

	// KnownUniforms are resolved by every new program; others report -1.
	KnownUniforms []string

	// KnownBlocks are exposed by every new program.
	KnownBlocks []string

	// FailPrograms makes NewProgram fail.
	FailPrograms bool

	current *Program
	bound   *Texture
}

var _ gpu.Device = (*Device)(nil)

// NewDevice returns a recorder whose programs expose the uniforms and the
// FrameData block used by the renderer.
func NewDevice() *Device {
	return &Device{
		State: DefaultState,
		KnownUniforms: []string{
			"u_Texture", "u_HasTexture", "u_BaseColorFactor", "u_AlphaCutoff",
		},
		KnownBlocks: []string{"FrameData"},
	}
}

// Reset forgets recorded draws and clears.
func (d *Device) Reset() {
	d.Draws = nil
	d.Clears = 0
}

func (d *Device) NewGeometry(vertices []float32, indices []uint32) (gpu.GeometryBuffer, error) {
	if len(vertices) == 0 || len(vertices)%gpu.VertexFloats != 0 {
		return nil, fmt.Errorf("vertex data length %d is not a positive multiple of %d", len(vertices), gpu.VertexFloats)
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("geometry has no indices")
	}
	g := &Geometry{
		device:   d,
		Vertices: append([]float32(nil), vertices...),
		Indices:  append([]uint32(nil), indices...),
	}
	d.Geometries = append(d.Geometries, g)
	return g, nil
}

func (d *Device) NewProgram(vertexSrc, fragmentSrc string) (gpu.Program, error) {
	if d.FailPrograms {
		return nil, fmt.Errorf("link: forced failure")
	}
	p := &Program{
		device:       d,
		VertexSrc:    vertexSrc,
		FragmentSrc:  fragmentSrc,
		locations:    make(map[string]int32),
		blocks:       make(map[string]uint32),
		Values:       make(map[string]any),
		BlockBinding: make(map[string]uint32),
	}
	for i, name := range d.KnownUniforms {
		p.locations[name] = int32(i)
	}
	for i, name := range d.KnownBlocks {
		p.blocks[name] = uint32(i)
	}
	d.Programs = append(d.Programs, p)
	return p, nil
}

func (d *Device) NewTexture(img *image.RGBA) (gpu.Texture, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("empty texture image")
	}
	t := &Texture{device: d, Width: img.Bounds().Dx(), Height: img.Bounds().Dy(), Pix: append([]byte(nil), img.Pix...)}
	d.Textures = append(d.Textures, t)
	return t, nil
}

func (d *Device) NewUniformBuffer(size int, binding uint32) (gpu.UniformBuffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("uniform buffer size %d must be positive", size)
	}
	u := &UniformBuffer{Binding: binding, Data: make([]byte, size)}
	d.Uniforms = append(d.Uniforms, u)
	return u, nil
}

func (d *Device) SetBlend(enabled bool) { d.State.Blend = enabled }
func (d *Device) SetDepthWrite(enabled bool) { d.State.DepthWrite = enabled }
func (d *Device) SetCull(enabled bool) { d.State.Cull = enabled }
func (d *Device) SetWireframe(enabled bool) { d.State.Wireframe = enabled }

func (d *Device) SetClearColor(r, g, b float32) { d.ClearColor = [3]float32{r, g, b} }

func (d *Device) Clear() { d.Clears++ }

func (d *Device) Viewport(width, height int) {}

// Geometry records instance buffer traffic.
type Geometry struct {
	device   *Device
	Vertices []float32
	Indices  []uint32

	// Capacity is the instance buffer size in bytes.
	Capacity    int
	Allocations int
	Data        []byte
	Released    bool
}

func (g *Geometry) AllocateInstances(capBytes int) {
	g.Capacity = capBytes
	g.Allocations++
}

func (g *Geometry) UpdateInstances(data []byte) {
	if len(data) > g.Capacity {
		panic(fmt.Sprintf("gputest: instance upload of %d bytes exceeds capacity %d", len(data), g.Capacity))
	}
	g.Data = append(g.Data[:0], data...)
}

func (g *Geometry) DrawInstanced(indexCount, instances int) {
	g.device.Draws = append(g.device.Draws, Draw{
		Geometry:   g,
		Program:    g.device.current,
		IndexCount: indexCount,
		Instances:  instances,
		Data:       append([]byte(nil), g.Data...),
		State:      g.device.State,
		Texture:    g.device.bound,
	})
}

func (g *Geometry) Release() { g.Released = true }

// Program records uniform writes by name.
type Program struct {
	device      *Device
	VertexSrc   string
	FragmentSrc string

	locations map[string]int32
	blocks    map[string]uint32

	// Values holds the last value written to each uniform.
	Values map[string]any

	// BlockBinding maps block names to their bound binding point.
	BlockBinding map[string]uint32
	Released     bool
}

func (p *Program) Use() {
	p.device.current = p
	p.device.bound = nil
}

func (p *Program) UniformLocation(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	return -1
}

func (p *Program) UniformBlockIndex(name string) (uint32, bool) {
	idx, ok := p.blocks[name]
	return idx, ok
}

func (p *Program) BindUniformBlock(index, binding uint32) {
	for name, idx := range p.blocks {
		if idx == index {
			p.BlockBinding[name] = binding
		}
	}
}

func (p *Program) nameOf(loc int32) (string, bool) {
	for name, l := range p.locations {
		if l == loc {
			return name, true
		}
	}
	return "", false
}

func (p *Program) set(loc int32, v any) {
	if name, ok := p.nameOf(loc); ok {
		p.Values[name] = v
	}
}

func (p *Program) SetInt(loc int32, v int32) { p.set(loc, v) }
func (p *Program) SetFloat(loc int32, v float32) { p.set(loc, v) }
func (p *Program) SetVec3(loc int32, v [3]float32) { p.set(loc, v) }
func (p *Program) SetVec4(loc int32, v [4]float32) { p.set(loc, v) }
func (p *Program) SetMat4(loc int32, m [16]float32) { p.set(loc, m) }
func (p *Program) Release() { p.Released = true }

// Texture records binds.
type Texture struct {
	device   *Device
	Width    int
	Height   int
	Pix      []byte
	Released bool
}

func (t *Texture) Bind(slot uint32) {
	if slot == 0 {
		t.device.bound = t
	}
}

func (t *Texture) Release() { t.Released = true }

// UniformBuffer keeps the full buffer contents.
type UniformBuffer struct {
	Binding  uint32
	Data     []byte
	Updates  int
	Released bool
}

func (u *UniformBuffer) Update(offset int, data []byte) {
	copy(u.Data[offset:], data)
	u.Updates++
}

func (u *UniformBuffer) Release() { u.Released = true }
