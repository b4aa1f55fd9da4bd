// Package scene holds the renderables and lights of a loaded world.
package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/simple-engine/internal/engine/asset"
	"github.com/Faultbox/simple-engine/internal/engine/lighting"
	"github.com/Faultbox/simple-engine/internal/engine/material"
	"github.com/Faultbox/simple-engine/internal/engine/mesh"
	"github.com/Faultbox/simple-engine/internal/engine/model"
)

// ErrInvalidModel is returned when a model handle does not resolve.
var ErrInvalidModel = errors.New("scene: invalid model handle")

// ErrMissingMesh is returned for a sub-mesh without geometry.
var ErrMissingMesh = errors.New("scene: sub-mesh has no geometry")

// Renderable is one draw request. Geometry is borrowed from its model.
type Renderable struct {
	Geometry  *mesh.Geometry
	Material  asset.Handle[*material.Material]
	Transform Transform
}

// Scene is the list of renderables and the lights that illuminate them.
type Scene struct {
	renderables []Renderable
	lights      *lighting.LightSet
}

// New creates an empty scene with default lighting.
func New() *Scene {
	return &Scene{lights: lighting.NewLightSet()}
}

// Add appends a renderable.
func (s *Scene) Add(r Renderable) {
	s.renderables = append(s.renderables, r)
}

// Renderables returns the renderables in insertion order.
func (s *Scene) Renderables() []Renderable {
	return s.renderables
}

// Lights returns the scene lights.
func (s *Scene) Lights() *lighting.LightSet {
	return s.lights
}

// Len returns the number of renderables.
func (s *Scene) Len() int {
	return len(s.renderables)
}

// AddModelInstance places a model in the scene, adding one renderable per sub-mesh.
// Nothing is added on error.
func (s *Scene) AddModelInstance(reg *asset.Registry, h asset.Handle[*model.Model], t Transform) error {
	m, ok := asset.Resolve(reg, h)
	if !ok {
		return ErrInvalidModel
	}

	subs := m.SubMeshes()
	for i, sm := range subs {
		if sm.Geometry == nil {
			return fmt.Errorf("%w: %s sub-mesh %d", ErrMissingMesh, m.Path(), i)
		}
	}
	for _, sm := range subs {
		s.Add(Renderable{Geometry: sm.Geometry, Material: sm.Material, Transform: t})
	}
	return nil
}

// Bounds returns the world-space box around every renderable.
func (s *Scene) Bounds() mesh.AABB {
	b := mesh.EmptyAABB()
	for _, r := range s.renderables {
		if r.Geometry.Bounds().IsEmpty() {
			continue
		}
		wb := r.Geometry.Bounds().Transform(r.Transform.Matrix())
		b.Extend(wb.Min)
		b.Extend(wb.Max)
	}
	return b
}
