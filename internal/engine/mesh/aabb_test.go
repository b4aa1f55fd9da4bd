package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/simple-engine/pkg/math"
)

func TestAABBTransform(t *testing.T) {
	box := AABB{Min: math.V3(-1, -1, -1), Max: math.V3(1, 2, 3)}

	moved := box.Transform(math.Translate(math.V3(10, 0, 0)))
	assert.Equal(t, math.V3(9, -1, -1), moved.Min)
	assert.Equal(t, math.V3(11, 2, 3), moved.Max)

	// Negative scale swaps the corners; the result must stay ordered.
	mirrored := box.Transform(math.Scale(math.V3(-2, 1, 1)))
	assert.Equal(t, math.V3(-2, -1, -1), mirrored.Min)
	assert.Equal(t, math.V3(2, 2, 3), mirrored.Max)
}

func TestAABBExtend(t *testing.T) {
	b := EmptyAABB()
	assert.True(t, b.IsEmpty())

	b.Extend(math.V3(1, 2, 3))
	b.Extend(math.V3(-1, 5, 0))
	assert.False(t, b.IsEmpty())
	assert.Equal(t, math.V3(-1, 2, 0), b.Min)
	assert.Equal(t, math.V3(1, 5, 3), b.Max)
	assert.Equal(t, math.V3(0, 3.5, 1.5), b.Center())
}

func TestSmoothNormals(t *testing.T) {
	// Two triangles folded along the X axis: one in the XZ plane facing +Y,
	// one in the XY plane facing +Z. The shared edge gets the averaged normal.
	verts := []Vertex{
		{Position: math.V3(0, 0, 0)},
		{Position: math.V3(1, 0, 0)},
		{Position: math.V3(0, 0, -1)},
		{Position: math.V3(0, 1, 0)},
		{Position: math.V3(5, 5, 5)}, // unreferenced
	}
	indices := []uint32{0, 1, 2, 0, 1, 3}

	SmoothNormals(verts, indices)

	assert.InDelta(t, 0, verts[2].Normal.X, 1e-5)
	assert.InDelta(t, 1, verts[2].Normal.Y, 1e-5)
	assert.InDelta(t, 1, verts[3].Normal.Z, 1e-5)

	shared := verts[0].Normal
	assert.InDelta(t, 0, shared.X, 1e-5)
	assert.InDelta(t, shared.Y, shared.Z, 1e-5)
	assert.InDelta(t, 1, shared.Length(), 1e-5)

	assert.Equal(t, math.V3(0, 1, 0), verts[4].Normal)
}
