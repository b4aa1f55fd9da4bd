package camera

// maxStepsPerUpdate bounds the fixed steps taken in one Update.
const maxStepsPerUpdate = 4

// Controls is the input sampled for one frame.
type Controls struct {
	MouseDX, MouseDY float32 // raw relative motion; positive DY is downward
	Movement
}

// Player drives a FlyCamera from sampled input.
// Mouse motion is smoothed exponentially and movement advances in fixed steps.
type Player struct {
	camera      *FlyCamera
	smoothing   float32
	fixedStep   float32
	smoothedDX  float32
	smoothedDY  float32
	accumulator float32
}

// NewPlayer creates a player around a camera.
func NewPlayer(camera *FlyCamera) *Player {
	return &Player{
		camera:    camera,
		smoothing: 0.5,
		fixedStep: 1.0 / 120.0,
	}
}

// Camera returns the driven camera.
func (p *Player) Camera() *FlyCamera {
	return p.camera
}

// SetMouseSmoothing sets the smoothing factor, clamped to [0, 1]. 1 disables smoothing.
func (p *Player) SetMouseSmoothing(alpha float32) {
	switch {
	case alpha < 0:
		alpha = 0
	case alpha > 1:
		alpha = 1
	}
	p.smoothing = alpha
}

// SetFixedStep sets the movement step in seconds. Non-positive values are ignored.
func (p *Player) SetFixedStep(seconds float32) {
	if seconds > 0 {
		p.fixedStep = seconds
	}
}

// Update applies one frame of input.
func (p *Player) Update(dt float32, in Controls) {
	p.updateMouseLook(in)
	p.updateMovement(dt, in.Movement)
}

func (p *Player) updateMouseLook(in Controls) {
	rawDX := in.MouseDX
	rawDY := -in.MouseDY
	p.smoothedDX += (rawDX - p.smoothedDX) * p.smoothing
	p.smoothedDY += (rawDY - p.smoothedDY) * p.smoothing
	p.camera.ProcessMouse(p.smoothedDX, p.smoothedDY)
}

func (p *Player) updateMovement(dt float32, m Movement) {
	p.accumulator += dt
	steps := 0
	for p.accumulator >= p.fixedStep && steps < maxStepsPerUpdate {
		p.camera.ProcessKeyboard(m, p.fixedStep)
		p.accumulator -= p.fixedStep
		steps++
	}

	if steps == 0 {
		p.camera.ProcessKeyboard(m, dt)
		p.accumulator = 0
	}
}
