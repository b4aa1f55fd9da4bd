// Package lighting provides the light sources uploaded with every frame.
package lighting

import "github.com/Faultbox/simple-engine/pkg/math"

// MaxPointLights is the number of point lights the frame uniform block holds.
const MaxPointLights = 4

// PointLight is a point light source.
type PointLight struct {
	Position  math.Vec3
	Color     math.Vec3 // RGB color (0-1 range)
	Intensity float32
	Range     float32 // falloff distance
}

// DefaultPointLight returns a warm white light five units above the origin.
func DefaultPointLight() PointLight {
	return PointLight{
		Position:  math.V3(0, 5, 0),
		Color:     math.V3(1, 0.95, 0.9),
		Intensity: 1,
		Range:     25,
	}
}

// Sun is the directional light.
type Sun struct {
	Direction math.Vec3 // direction the light travels, not necessarily normalized
	Color     math.Vec3
	Intensity float32
}

// DefaultSun returns the default sun.
func DefaultSun() Sun {
	return Sun{
		Direction: math.V3(-0.3, -1, -0.2),
		Color:     math.V3(1, 0.95, 0.9),
		Intensity: 1.2,
	}
}

// Radiance returns the sun color scaled by its intensity.
func (s Sun) Radiance() math.Vec3 {
	return s.Color.Scale(s.Intensity)
}

// Sky is the ambient term.
type Sky struct {
	Ambient  math.Vec3
	Strength float32
}

// DefaultSky returns a white ambient term.
func DefaultSky() Sky {
	return Sky{Ambient: math.V3(1, 1, 1), Strength: 0.7}
}

// LightSet holds the lights of one frame. Point lights past MaxPointLights are dropped.
type LightSet struct {
	Sun    Sun
	Sky    Sky
	points [MaxPointLights]PointLight
	count  int
}

// NewLightSet creates a light set with the default sun and sky and no point lights.
func NewLightSet() *LightSet {
	return &LightSet{Sun: DefaultSun(), Sky: DefaultSky()}
}

// Clear removes all point lights.
func (s *LightSet) Clear() {
	s.count = 0
}

// AddPointLight adds a point light.
// Returns false if the set is full.
func (s *LightSet) AddPointLight(light PointLight) bool {
	if s.count >= MaxPointLights {
		return false
	}
	s.points[s.count] = light
	s.count++
	return true
}

// SetPointLights replaces all point lights, keeping the first MaxPointLights.
// It returns the number of lights dropped.
func (s *LightSet) SetPointLights(lights []PointLight) int {
	s.Clear()
	n := copy(s.points[:], lights)
	s.count = n
	return len(lights) - n
}

// PointLights returns the active point lights.
func (s *LightSet) PointLights() []PointLight {
	return s.points[:s.count]
}

// Count returns the number of active point lights.
func (s *LightSet) Count() int {
	return s.count
}
