// Package mesh holds GPU geometry: immutable vertex and index data, its
// bounding box, and a per-instance buffer that only grows.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/simple-engine/internal/engine/gpu"
)

const floatsPerVertex = gpu.VertexFloats

// ErrInvalidData is returned for malformed vertex or index data.
var ErrInvalidData = errors.New("invalid geometry data")

// Options configures geometry construction.
type Options struct {
	// InstanceCapacity is the initial instance buffer size in bytes.
	InstanceCapacity int
}

// OptionsForBatch sizes the initial instance buffer for maxBatch instances.
func OptionsForBatch(maxBatch int) Options {
	return Options{InstanceCapacity: maxBatch * gpu.InstanceStride}
}

// Geometry is an uploaded mesh. Vertex data, index count and bounds never
// change after New.
type Geometry struct {
	buf         gpu.GeometryBuffer
	vertexCount int
	indexCount  int
	bounds      AABB
	capacity    int
}

// New validates and uploads interleaved vertices (position, normal, uv) and
// triangle indices. If bounds is nil it is computed from the positions.
func New(dev gpu.Device, vertices []float32, indices []uint32, bounds *AABB, opts Options) (*Geometry, error) {
	if len(vertices) == 0 || len(vertices)%floatsPerVertex != 0 {
		return nil, fmt.Errorf("%w: %d floats is not a whole number of vertices", ErrInvalidData, len(vertices))
	}
	if len(indices) == 0 || len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices is not a whole number of triangles", ErrInvalidData, len(indices))
	}
	vertexCount := len(vertices) / floatsPerVertex
	for i, idx := range indices {
		if int(idx) >= vertexCount {
			return nil, fmt.Errorf("%w: index %d at %d out of range (%d vertices)", ErrInvalidData, idx, i, vertexCount)
		}
	}

	buf, err := dev.NewGeometry(vertices, indices)
	if err != nil {
		return nil, fmt.Errorf("uploading geometry: %w", err)
	}

	g := &Geometry{
		buf:         buf,
		vertexCount: vertexCount,
		indexCount:  len(indices),
	}
	if bounds != nil {
		g.bounds = *bounds
	} else {
		g.bounds = BoundsOf(vertices)
	}
	if opts.InstanceCapacity > 0 {
		g.capacity = opts.InstanceCapacity
		buf.AllocateInstances(g.capacity)
	}
	return g, nil
}

// IndexCount returns the number of indices drawn per instance.
func (g *Geometry) IndexCount() int { return g.indexCount }

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int { return g.vertexCount }

// Bounds returns the local-space bounding box.
func (g *Geometry) Bounds() AABB { return g.bounds }

// InstanceCapacity returns the instance buffer size in bytes.
func (g *Geometry) InstanceCapacity() int { return g.capacity }

// Released reports whether Release has freed the GPU buffers.
func (g *Geometry) Released() bool { return g.buf == nil }

// UploadInstances writes instance data, doubling the buffer until it fits.
// The buffer never shrinks. Released geometry ignores the call.
func (g *Geometry) UploadInstances(data []byte) {
	if len(data) == 0 || g.buf == nil {
		return
	}
	if len(data) > g.capacity {
		newCap := g.capacity
		if newCap == 0 {
			newCap = gpu.InstanceStride
		}
		for newCap < len(data) {
			newCap *= 2
		}
		g.capacity = newCap
		g.buf.AllocateInstances(newCap)
	}
	g.buf.UpdateInstances(data)
}

// Draw issues one instanced draw of the full index range.
// Released geometry draws nothing.
func (g *Geometry) Draw(instances int) {
	if instances <= 0 || g.buf == nil {
		return
	}
	g.buf.DrawInstanced(g.indexCount, instances)
}

// Release frees the GPU buffers.
func (g *Geometry) Release() {
	if g.buf != nil {
		g.buf.Release()
		g.buf = nil
	}
}
