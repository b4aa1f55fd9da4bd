package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/simple-engine/pkg/math"
)

// MaxPitch bounds the fly camera pitch in degrees.
const MaxPitch = 89

// Settings configures a FlyCamera.
type Settings struct {
	Position         math.Vec3
	Yaw, Pitch       float32 // degrees
	MoveSpeed        float32
	MouseSensitivity float32
	FOV              float32
	Near, Far        float32
}

// Movement is the set of movement keys held during one step.
type Movement struct {
	Forward, Backward bool
	Left, Right       bool
	Up, Down          bool
}

// FlyCamera is a first-person camera that moves on the XZ plane.
type FlyCamera struct {
	Projection

	position    math.Vec3
	front       math.Vec3
	right       math.Vec3
	up          math.Vec3
	yaw         float32 // degrees
	pitch       float32 // degrees
	speed       float32
	sensitivity float32
}

// NewFlyCamera creates a fly camera with default settings.
func NewFlyCamera(aspect float32) *FlyCamera {
	c := &FlyCamera{
		Projection:  DefaultProjection(aspect),
		position:    math.V3(-5, 5, 5),
		speed:       10,
		sensitivity: 0.1,
	}
	c.updateVectors()
	return c
}

// ApplySettings applies settings, ignoring invalid values.
func (c *FlyCamera) ApplySettings(s Settings) {
	c.position = s.Position
	c.yaw = s.Yaw
	c.pitch = clampPitch(s.Pitch)
	c.SetMoveSpeed(s.MoveSpeed)
	c.SetMouseSensitivity(s.MouseSensitivity)
	c.SetFOV(s.FOV)
	c.SetClipPlanes(s.Near, s.Far)
	c.updateVectors()
}

func (c *FlyCamera) updateVectors() {
	yaw := math.Radians(c.yaw)
	pitch := math.Radians(c.pitch)
	front := math.V3(
		math32.Cos(yaw)*math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw)*math32.Cos(pitch),
	)
	c.front = front.Normalize()
	c.right = c.front.Cross(worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

func clampPitch(p float32) float32 {
	if p > MaxPitch {
		return MaxPitch
	}
	if p < -MaxPitch {
		return -MaxPitch
	}
	return p
}

// ProcessMouse turns the camera by a mouse offset scaled by the sensitivity.
func (c *FlyCamera) ProcessMouse(dx, dy float32) {
	c.yaw += dx * c.sensitivity
	c.pitch = clampPitch(c.pitch + dy*c.sensitivity)
	c.updateVectors()
}

// ProcessKeyboard moves the camera for dt seconds.
// Horizontal movement ignores pitch; Up and Down move along the world Y axis.
func (c *FlyCamera) ProcessKeyboard(m Movement, dt float32) {
	velocity := c.speed * dt

	forward := flat(c.front)
	right := flat(c.right)

	if m.Forward {
		c.position = c.position.Add(forward.Scale(velocity))
	}
	if m.Backward {
		c.position = c.position.Sub(forward.Scale(velocity))
	}
	if m.Left {
		c.position = c.position.Sub(right.Scale(velocity))
	}
	if m.Right {
		c.position = c.position.Add(right.Scale(velocity))
	}
	if m.Up {
		c.position.Y += velocity
	}
	if m.Down {
		c.position.Y -= velocity
	}
}

// flat projects v onto the XZ plane, normalizing it when long enough.
func flat(v math.Vec3) math.Vec3 {
	v.Y = 0
	if l := v.Length(); l > 0.001 {
		return v.Scale(1 / l)
	}
	return v
}

// SetMoveSpeed changes the speed in units per second. Non-positive values are ignored.
func (c *FlyCamera) SetMoveSpeed(speed float32) {
	if speed > 0 {
		c.speed = speed
	}
}

// SetMouseSensitivity changes the degrees turned per mouse unit. Non-positive values are ignored.
func (c *FlyCamera) SetMouseSensitivity(sensitivity float32) {
	if sensitivity > 0 {
		c.sensitivity = sensitivity
	}
}

// SetPosition moves the camera.
func (c *FlyCamera) SetPosition(p math.Vec3) {
	c.position = p
}

// Position returns the camera position.
func (c *FlyCamera) Position() math.Vec3 { return c.position }

// Front returns the unit view direction.
func (c *FlyCamera) Front() math.Vec3 { return c.front }

// Right returns the unit right vector.
func (c *FlyCamera) Right() math.Vec3 { return c.right }

// Up returns the unit up vector.
func (c *FlyCamera) Up() math.Vec3 { return c.up }

// Yaw returns the yaw in degrees.
func (c *FlyCamera) Yaw() float32 { return c.yaw }

// Pitch returns the pitch in degrees.
func (c *FlyCamera) Pitch() float32 { return c.pitch }

// MoveSpeed returns the movement speed.
func (c *FlyCamera) MoveSpeed() float32 { return c.speed }

// MouseSensitivity returns the mouse sensitivity.
func (c *FlyCamera) MouseSensitivity() float32 { return c.sensitivity }

// ViewMatrix returns the view matrix.
func (c *FlyCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.position, c.position.Add(c.front), c.up)
}

// ViewProjection returns projection * view.
func (c *FlyCamera) ViewProjection() math.Mat4 {
	return c.Projection.Matrix().Mul(c.ViewMatrix())
}
