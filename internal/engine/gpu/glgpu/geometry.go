package glgpu

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/simple-engine/internal/engine/gpu"
)

// Geometry is a VAO with static vertex/index buffers and a dynamic instance buffer.
type Geometry struct {
	vao, vbo, ebo, ibo uint32
}

func newGeometry(vertices []float32, indices []uint32) *Geometry {
	g := &Geometry{}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(gpu.AttribPosition, 3, gl.FLOAT, false, gpu.VertexStride, 0)
	gl.EnableVertexAttribArray(gpu.AttribPosition)
	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(gpu.AttribNormal, 3, gl.FLOAT, false, gpu.VertexStride, 3*4)
	gl.EnableVertexAttribArray(gpu.AttribNormal)
	// TexCoord (location 2)
	gl.VertexAttribPointerWithOffset(gpu.AttribTexCoord, 2, gl.FLOAT, false, gpu.VertexStride, 6*4)
	gl.EnableVertexAttribArray(gpu.AttribTexCoord)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	// Instance buffer: model matrix as four vec4 columns, normal matrix as three vec3 columns.
	gl.GenBuffers(1, &g.ibo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.ibo)
	gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.DYNAMIC_DRAW)
	for i := uint32(0); i < 4; i++ {
		loc := uint32(gpu.AttribModelMatrix) + i
		gl.VertexAttribPointerWithOffset(loc, 4, gl.FLOAT, false, gpu.InstanceStride, uintptr(i*16))
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribDivisor(loc, 1)
	}
	for i := uint32(0); i < 3; i++ {
		loc := uint32(gpu.AttribNormalMatrix) + i
		gl.VertexAttribPointerWithOffset(loc, 3, gl.FLOAT, false, gpu.InstanceStride, uintptr(64+i*12))
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribDivisor(loc, 1)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return g
}

// AllocateInstances orphans the instance buffer and reallocates it to capBytes.
func (g *Geometry) AllocateInstances(capBytes int) {
	gl.BindBuffer(gl.ARRAY_BUFFER, g.ibo)
	gl.BufferData(gl.ARRAY_BUFFER, capBytes, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// UpdateInstances writes data at the start of the instance buffer.
func (g *Geometry) UpdateInstances(data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, g.ibo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data), unsafe.Pointer(&data[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// DrawInstanced draws indexCount indices for each of instances instances.
func (g *Geometry) DrawInstanced(indexCount, instances int) {
	gl.BindVertexArray(g.vao)
	gl.DrawElementsInstanced(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_INT, nil, int32(instances))
	gl.BindVertexArray(0)
}

// Release deletes the VAO and its buffers.
func (g *Geometry) Release() {
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
		g.vao = 0
	}
	for _, buf := range []*uint32{&g.vbo, &g.ebo, &g.ibo} {
		if *buf != 0 {
			gl.DeleteBuffers(1, buf)
			*buf = 0
		}
	}
}
