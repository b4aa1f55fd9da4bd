package render

import (
	"github.com/Faultbox/simple-engine/internal/engine/gpu"
	"github.com/Faultbox/simple-engine/internal/engine/material"
	"github.com/Faultbox/simple-engine/internal/engine/mesh"
)

// BatchKey identifies a batch. Two renderables share a batch only when they
// refer to the same geometry and material objects.
type BatchKey struct {
	Geometry *mesh.Geometry
	Material *material.Material
}

// batch accumulates encoded instance records for one key.
type batch struct {
	data  []byte
	count int
}

func newBatch(maxInstances int) *batch {
	return &batch{data: make([]byte, 0, maxInstances*gpu.InstanceStride)}
}

func (b *batch) add(in Instance) {
	b.data = in.AppendTo(b.data)
	b.count++
}

func (b *batch) reset() {
	b.data = b.data[:0]
	b.count = 0
}
