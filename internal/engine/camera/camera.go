// Package camera provides camera implementations for 3D rendering.
package camera

import "github.com/Faultbox/simple-engine/pkg/math"

// Camera is anything that can produce a view-projection matrix.
type Camera interface {
	ViewProjection() math.Mat4
	SetAspect(aspect float32)
}

var worldUp = math.V3(0, 1, 0)

// Projection holds perspective parameters shared by the cameras.
type Projection struct {
	FOV    float32 // vertical field of view, degrees
	Aspect float32
	Near   float32
	Far    float32
}

// DefaultProjection returns a 60 degree projection with the given aspect ratio.
func DefaultProjection(aspect float32) Projection {
	return Projection{FOV: 60, Aspect: aspect, Near: 0.1, Far: 1000}
}

// Matrix returns the perspective matrix.
func (p Projection) Matrix() math.Mat4 {
	return math.Perspective(math.Radians(p.FOV), p.Aspect, p.Near, p.Far)
}

// SetFOV changes the field of view. Values outside (1, 179) are ignored.
func (p *Projection) SetFOV(degrees float32) {
	if degrees > 1 && degrees < 179 {
		p.FOV = degrees
	}
}

// SetClipPlanes changes the clip planes. Ignored unless 0 < near < far.
func (p *Projection) SetClipPlanes(near, far float32) {
	if near > 0 && far > near {
		p.Near = near
		p.Far = far
	}
}

// SetAspect changes the aspect ratio. Non-positive values are ignored.
func (p *Projection) SetAspect(aspect float32) {
	if aspect > 0 {
		p.Aspect = aspect
	}
}
