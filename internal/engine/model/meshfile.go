package model

import (
	"fmt"

	"github.com/fogleman/fauxgl"

	"github.com/Faultbox/simple-engine/internal/engine/material"
	"github.com/Faultbox/simple-engine/internal/engine/mesh"
	"github.com/Faultbox/simple-engine/pkg/math"
)

// loadMeshFile imports a triangle soup format (OBJ, STL, PLY) as a single
// sub-mesh with the default material.
func loadMeshFile(deps Dependencies, path, shaderPath string, read func(string) (*fauxgl.Mesh, error)) (*Model, error) {
	src, err := read(path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(src.Triangles) == 0 {
		return nil, fmt.Errorf("%w: %s has no triangles", mesh.ErrInvalidData, path)
	}

	sh, err := deps.LoadShader(shaderPath)
	if err != nil {
		return nil, err
	}
	mat, err := deps.Material(path+"#default", material.DefaultSpec(sh))
	if err != nil {
		return nil, err
	}

	geom, err := indexTriangles(src.Triangles).upload(deps)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Model{
		path:      path,
		subMeshes: []SubMesh{{Geometry: geom, Material: mat}},
	}, nil
}

// indexTriangles merges identical corners into shared vertices.
func indexTriangles(tris []*fauxgl.Triangle) *primitive {
	type key struct {
		pos, normal, uv fauxgl.Vector
	}

	p := &primitive{indices: make([]uint32, 0, len(tris)*3)}
	seen := make(map[key]uint32)
	bounds := mesh.EmptyAABB()

	for _, t := range tris {
		for _, v := range [3]fauxgl.Vertex{t.V1, t.V2, t.V3} {
			k := key{pos: v.Position, normal: v.Normal, uv: v.Texture}
			idx, ok := seen[k]
			if !ok {
				idx = uint32(len(p.vertices))
				seen[k] = idx
				mv := mesh.Vertex{
					Position: vec3(v.Position),
					Normal:   vec3(v.Normal),
					TexCoord: [2]float32{float32(v.Texture.X), float32(v.Texture.Y)},
				}
				if mv.Normal.Length() > 0 {
					p.hasNormals = true
				}
				p.vertices = append(p.vertices, mv)
				bounds.Extend(mv.Position)
			}
			p.indices = append(p.indices, idx)
		}
	}
	p.bounds = &bounds
	return p
}

func vec3(v fauxgl.Vector) math.Vec3 {
	return math.V3(float32(v.X), float32(v.Y), float32(v.Z))
}
