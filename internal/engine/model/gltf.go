package model

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/simple-engine/internal/engine/asset"
	"github.com/Faultbox/simple-engine/internal/engine/material"
	"github.com/Faultbox/simple-engine/internal/engine/mesh"
	"github.com/Faultbox/simple-engine/internal/engine/texture"
	"github.com/Faultbox/simple-engine/pkg/math"
)

type textureHandle = asset.Handle[*texture.Texture]

func loadGLTF(deps Dependencies, path, shaderPath string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parsing glTF %s: %w", path, err)
	}

	textures, err := gltfTextures(deps, doc, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	sh, err := deps.LoadShader(shaderPath)
	if err != nil {
		return nil, err
	}
	fallback, err := deps.Material(path+"#default", material.DefaultSpec(sh))
	if err != nil {
		return nil, err
	}
	materials, err := gltfMaterials(deps, doc, material.DefaultSpec(sh), textures)
	if err != nil {
		return nil, err
	}

	m := &Model{path: path}
	for _, gm := range doc.Meshes {
		for _, prim := range gm.Primitives {
			p, ok, err := gltfPrimitive(doc, prim)
			if err != nil {
				m.Release()
				return nil, fmt.Errorf("mesh %q: %w", gm.Name, err)
			}
			if !ok {
				continue
			}
			geom, err := p.upload(deps)
			if err != nil {
				m.Release()
				return nil, fmt.Errorf("mesh %q: %w", gm.Name, err)
			}

			mat := fallback
			if prim.Material != nil && int(*prim.Material) < len(materials) {
				mat = materials[*prim.Material]
			}
			m.subMeshes = append(m.subMeshes, SubMesh{Geometry: geom, Material: mat})
		}
	}
	return m, nil
}

// gltfTextures loads every texture in document order. Images must be
// external files next to the model.
func gltfTextures(deps Dependencies, doc *gltf.Document, dir string) ([]textureHandle, error) {
	handles := make([]textureHandle, 0, len(doc.Textures))
	for i, tex := range doc.Textures {
		if tex.Source == nil || int(*tex.Source) >= len(doc.Images) {
			return nil, fmt.Errorf("%w: texture %d", ErrInvalidTextureSource, i)
		}
		img := doc.Images[*tex.Source]
		if img.URI == "" || strings.HasPrefix(img.URI, "data:") {
			return nil, fmt.Errorf("%w: texture %d", ErrEmbeddedTexture, i)
		}
		h, err := deps.LoadTexture(filepath.Join(dir, filepath.FromSlash(img.URI)))
		if err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

func gltfMaterials(deps Dependencies, doc *gltf.Document, base material.Spec, textures []textureHandle) ([]asset.Handle[*material.Material], error) {
	pick := func(idx int) textureHandle {
		if idx >= 0 && idx < len(textures) {
			return textures[idx]
		}
		return textureHandle{}
	}

	handles := make([]asset.Handle[*material.Material], 0, len(doc.Materials))
	for i, gm := range doc.Materials {
		spec := base

		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorTexture != nil {
				spec.Textures.BaseColor = pick(int(pbr.BaseColorTexture.Index))
			}
			if pbr.MetallicRoughnessTexture != nil {
				spec.Textures.MetallicRoughness = pick(int(pbr.MetallicRoughnessTexture.Index))
			}
			if f := pbr.BaseColorFactor; f != nil {
				spec.Params.BaseColorFactor = [4]float32{float32(f[0]), float32(f[1]), float32(f[2]), float32(f[3])}
			}
			if pbr.MetallicFactor != nil {
				spec.Params.MetallicFactor = float32(*pbr.MetallicFactor)
			}
			if pbr.RoughnessFactor != nil {
				spec.Params.RoughnessFactor = float32(*pbr.RoughnessFactor)
			}
		}
		if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
			spec.Textures.Normal = pick(int(*gm.NormalTexture.Index))
		}
		if gm.OcclusionTexture != nil && gm.OcclusionTexture.Index != nil {
			spec.Textures.Occlusion = pick(int(*gm.OcclusionTexture.Index))
		}
		if gm.EmissiveTexture != nil {
			spec.Textures.Emissive = pick(int(gm.EmissiveTexture.Index))
		}
		e := gm.EmissiveFactor
		spec.Params.EmissiveFactor = [3]float32{float32(e[0]), float32(e[1]), float32(e[2])}

		mode := material.AlphaOpaque
		switch gm.AlphaMode {
		case gltf.AlphaMask:
			mode = material.AlphaMask
		case gltf.AlphaBlend:
			mode = material.AlphaBlend
		}
		cutoff := float32(0.5)
		if gm.AlphaCutoff != nil {
			cutoff = float32(*gm.AlphaCutoff)
		}
		spec.Params.AlphaCutoff = material.CutoffFor(mode, cutoff)
		spec.State = material.StateFor(mode, gm.DoubleSided)

		name := gm.Name
		if name == "" {
			name = fmt.Sprintf("material_%d", i)
		}
		h, err := deps.Material(name, spec)
		if err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// gltfPrimitive reads one primitive. It reports false for primitives without
// float vec3 positions, which are skipped.
func gltfPrimitive(doc *gltf.Document, prim *gltf.Primitive) (*primitive, bool, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok || int(posIdx) >= len(doc.Accessors) {
		return nil, false, nil
	}
	posAcc := doc.Accessors[posIdx]
	if posAcc.ComponentType != gltf.ComponentFloat || posAcc.Type != gltf.AccessorVec3 {
		return nil, false, nil
	}

	positions, err := modeler.ReadPosition(doc, posAcc, nil)
	if err != nil {
		return nil, false, fmt.Errorf("reading positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok && int(idx) < len(doc.Accessors) {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return nil, false, fmt.Errorf("reading normals: %w", err)
		}
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok && int(idx) < len(doc.Accessors) {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return nil, false, fmt.Errorf("reading texture coordinates: %w", err)
		}
	}

	p := &primitive{
		vertices:   make([]mesh.Vertex, len(positions)),
		hasNormals: len(normals) > 0,
	}
	for i, pos := range positions {
		v := mesh.Vertex{
			Position: math.V3(pos[0], pos[1], pos[2]),
			Normal:   math.V3(0, 1, 0),
		}
		if i < len(normals) {
			n := normals[i]
			v.Normal = math.V3(n[0], n[1], n[2])
		}
		if i < len(uvs) {
			v.TexCoord = [2]float32{uvs[i][0], 1 - uvs[i][1]}
		}
		p.vertices[i] = v
	}

	if prim.Indices != nil {
		if int(*prim.Indices) >= len(doc.Accessors) {
			return nil, false, fmt.Errorf("index accessor %d out of range", *prim.Indices)
		}
		if p.indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return nil, false, fmt.Errorf("reading indices: %w", err)
		}
	}

	if len(posAcc.Min) == 3 && len(posAcc.Max) == 3 {
		p.bounds = &mesh.AABB{
			Min: math.V3(float32(posAcc.Min[0]), float32(posAcc.Min[1]), float32(posAcc.Min[2])),
			Max: math.V3(float32(posAcc.Max[0]), float32(posAcc.Max[1]), float32(posAcc.Max[2])),
		}
	}
	return p, true, nil
}
