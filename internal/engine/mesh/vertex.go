package mesh

import "github.com/Faultbox/simple-engine/pkg/math"

// Vertex is one mesh vertex before interleaving.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	TexCoord [2]float32
}

// Interleave packs vertices into the position, normal, uv layout.
func Interleave(vertices []Vertex) []float32 {
	out := make([]float32, 0, len(vertices)*floatsPerVertex)
	for _, v := range vertices {
		out = append(out,
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Normal.X, v.Normal.Y, v.Normal.Z,
			v.TexCoord[0], v.TexCoord[1],
		)
	}
	return out
}

// SmoothNormals replaces vertex normals with the area-weighted average of the
// face normals around each position. Vertices closer than a small epsilon
// share a normal, so split seams stay smooth.
func SmoothNormals(vertices []Vertex, indices []uint32) {
	const epsilon float32 = 0.001

	quantize := func(p math.Vec3) [3]int32 {
		return [3]int32{int32(p.X / epsilon), int32(p.Y / epsilon), int32(p.Z / epsilon)}
	}

	sums := make(map[[3]int32]math.Vec3)
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if int(a) >= len(vertices) || int(b) >= len(vertices) || int(c) >= len(vertices) {
			continue
		}
		p0, p1, p2 := vertices[a].Position, vertices[b].Position, vertices[c].Position
		// Unnormalized cross product weights by triangle area.
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		for _, p := range []math.Vec3{p0, p1, p2} {
			key := quantize(p)
			sums[key] = sums[key].Add(n)
		}
	}

	for i := range vertices {
		n, ok := sums[quantize(vertices[i].Position)]
		if !ok || n.Length() < 1e-12 {
			vertices[i].Normal = math.V3(0, 1, 0)
			continue
		}
		vertices[i].Normal = n.Normalize()
	}
}
