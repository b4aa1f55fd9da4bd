package render

import (
	"github.com/Faultbox/simple-engine/internal/engine/mesh"
	"github.com/Faultbox/simple-engine/pkg/math"
)

// Plane is a plane equation (nx, ny, nz, d). Points with dot(n, p) + d >= 0
// are on the visible side.
type Plane math.Vec4

// Normal returns the plane normal.
func (p Plane) Normal() math.Vec3 {
	return math.V3(p[0], p[1], p[2])
}

// Distance returns the signed distance of pt. It is exact only for normalized planes.
func (p Plane) Distance(pt math.Vec3) float32 {
	return p.Normal().Dot(pt) + p[3]
}

// Frustum plane indices.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

// Frustum holds the six clip planes of a view-projection matrix.
type Frustum [6]Plane

// ExtractFrustum derives the clip planes of vp with the Gribb-Hartmann method.
// Each plane is normalized unless its normal has zero length.
func ExtractFrustum(vp math.Mat4) Frustum {
	w := vp.Row(3)
	x, y, z := vp.Row(0), vp.Row(1), vp.Row(2)

	f := Frustum{
		PlaneLeft:   Plane(w.Add(x)),
		PlaneRight:  Plane(w.Sub(x)),
		PlaneBottom: Plane(w.Add(y)),
		PlaneTop:    Plane(w.Sub(y)),
		PlaneNear:   Plane(w.Add(z)),
		PlaneFar:    Plane(w.Sub(z)),
	}
	for i, p := range f {
		if l := p.Normal().Length(); l > 0 {
			f[i] = Plane(math.Vec4(p).Scale(1 / l))
		}
	}
	return f
}

// Intersects reports whether box, placed in the world by model, may be visible.
// Only the min and max corners are transformed, and the test can accept boxes
// just outside a frustum corner. It never rejects a visible box.
func (f *Frustum) Intersects(box mesh.AABB, model math.Mat4) bool {
	world := box.Transform(model)
	return f.IntersectsWorld(world)
}

// IntersectsWorld tests a box already in world space.
func (f *Frustum) IntersectsWorld(box mesh.AABB) bool {
	for _, p := range f {
		n := p.Normal()

		// most positive corner along n
		v := box.Min
		if n.X >= 0 {
			v.X = box.Max.X
		}
		if n.Y >= 0 {
			v.Y = box.Max.Y
		}
		if n.Z >= 0 {
			v.Z = box.Max.Z
		}
		if n.Dot(v)+p[3] < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether pt is inside all six planes.
func (f *Frustum) ContainsPoint(pt math.Vec3) bool {
	for _, p := range f {
		if p.Distance(pt) < 0 {
			return false
		}
	}
	return true
}
