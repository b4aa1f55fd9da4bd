package render

import (
	"encoding/binary"
	gomath "math"

	"github.com/Faultbox/simple-engine/internal/engine/gpu"
	"github.com/Faultbox/simple-engine/pkg/math"
)

// Instance is the per-instance payload of an instanced draw.
type Instance struct {
	Model  math.Mat4
	Normal math.Mat3 // transpose(inverse(upper 3x3 of Model))
}

// NewInstance derives the instance record for a model matrix.
func NewInstance(model math.Mat4) Instance {
	return Instance{Model: model, Normal: math.NormalMatrix(model)}
}

// AppendTo appends the record in the GPU instance layout, little-endian.
func (in *Instance) AppendTo(buf []byte) []byte {
	for _, v := range in.Model {
		buf = binary.LittleEndian.AppendUint32(buf, gomath.Float32bits(v))
	}
	for _, v := range in.Normal {
		buf = binary.LittleEndian.AppendUint32(buf, gomath.Float32bits(v))
	}
	return buf
}

// DecodeInstance reads the record at index i of an instance buffer.
func DecodeInstance(data []byte, i int) Instance {
	var in Instance
	off := i * gpu.InstanceStride
	for j := range in.Model {
		in.Model[j] = gomath.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		off += 4
	}
	for j := range in.Normal {
		in.Normal[j] = gomath.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		off += 4
	}
	return in
}
