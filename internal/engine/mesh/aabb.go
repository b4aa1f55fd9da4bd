package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/simple-engine/pkg/math"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// EmptyAABB returns an inverted box that any Extend call replaces.
func EmptyAABB() AABB {
	inf := math32.Inf(1)
	return AABB{
		Min: math.V3(inf, inf, inf),
		Max: math.V3(-inf, -inf, -inf),
	}
}

// Extend grows the box to contain p.
func (b *AABB) Extend(p math.Vec3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// IsEmpty reports whether the box contains no points.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Center returns the box midpoint.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Transform moves the min and max corners by m and re-orders them per axis.
// Only two corners are transformed, so rotated boxes are approximate.
func (b AABB) Transform(m math.Mat4) AABB {
	p0 := m.TransformPoint(b.Min)
	p1 := m.TransformPoint(b.Max)
	return AABB{Min: p0.Min(p1), Max: p0.Max(p1)}
}

// BoundsOf scans interleaved vertex data for the box of its positions.
func BoundsOf(vertices []float32) AABB {
	b := EmptyAABB()
	for i := 0; i+2 < len(vertices); i += floatsPerVertex {
		b.Extend(math.V3(vertices[i], vertices[i+1], vertices[i+2]))
	}
	return b
}
