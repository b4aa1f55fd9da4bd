// Package input tracks keyboard and mouse state between frames.
// It has no windowing dependency; the window package feeds it events.
package input

// Key identifies a keyboard key.
type Key int

// Keys the engine reacts to.
const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyLeftCtrl
	KeyLeftShift
	KeyEscape
	KeyF1
	KeyF3
	KeyF12
	keyCount
)

// MouseButton identifies a mouse button.
type MouseButton int

// Mouse buttons.
const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
	buttonCount
)

// ButtonState is the state of a key or button within a frame.
type ButtonState uint8

// Button states.
const (
	Up ButtonState = iota
	Pressed
	Down
	Released
)

func (s ButtonState) advance() ButtonState {
	switch s {
	case Pressed:
		return Down
	case Released:
		return Up
	}
	return s
}

func (s ButtonState) held() bool {
	return s == Pressed || s == Down
}

// Input holds the state accumulated since the last BeginFrame.
type Input struct {
	keys    [keyCount]ButtonState
	buttons [buttonCount]ButtonState

	mouseX, mouseY   float32
	deltaX, deltaY   float32
	scrollX, scrollY float32
	mouseInit        bool

	quit          bool
	resized       bool
	width, height int
}

// New creates an input tracker with everything released.
func New() *Input {
	return &Input{}
}

// BeginFrame clears per-frame deltas and moves Pressed to Down and Released to Up.
func (in *Input) BeginFrame() {
	in.deltaX, in.deltaY = 0, 0
	in.scrollX, in.scrollY = 0, 0
	in.resized = false
	for i := range in.keys {
		in.keys[i] = in.keys[i].advance()
	}
	for i := range in.buttons {
		in.buttons[i] = in.buttons[i].advance()
	}
}

// OnKey records a key press or release. Repeats are ignored.
func (in *Input) OnKey(k Key, down, repeat bool) {
	if k <= KeyUnknown || k >= keyCount || repeat {
		return
	}
	if down {
		in.keys[k] = Pressed
	} else {
		in.keys[k] = Released
	}
}

// OnMouseButton records a button press or release.
func (in *Input) OnMouseButton(b MouseButton, down bool) {
	if b < 0 || b >= buttonCount {
		return
	}
	if down {
		in.buttons[b] = Pressed
	} else {
		in.buttons[b] = Released
	}
}

// OnMouseMove records an absolute cursor position. The first position after
// a reset only initializes the cursor.
func (in *Input) OnMouseMove(x, y float32) {
	if !in.mouseInit {
		in.mouseX, in.mouseY = x, y
		in.mouseInit = true
		return
	}
	in.deltaX += x - in.mouseX
	in.deltaY += y - in.mouseY
	in.mouseX, in.mouseY = x, y
}

// OnMouseMotion records relative motion, as reported in relative mouse mode.
func (in *Input) OnMouseMotion(dx, dy float32) {
	in.deltaX += dx
	in.deltaY += dy
}

// OnScroll records wheel motion.
func (in *Input) OnScroll(x, y float32) {
	in.scrollX += x
	in.scrollY += y
}

// OnFocus handles focus changes. Losing focus releases everything so keys do
// not stick; gaining it resets the cursor.
func (in *Input) OnFocus(focused bool) {
	in.deltaX, in.deltaY = 0, 0
	if focused {
		in.mouseInit = false
		return
	}
	in.keys = [keyCount]ButtonState{}
	in.buttons = [buttonCount]ButtonState{}
	in.scrollX, in.scrollY = 0, 0
}

// OnResize records a new drawable size.
func (in *Input) OnResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	in.resized = true
	in.width, in.height = width, height
}

// OnQuit records a close request.
func (in *Input) OnQuit() {
	in.quit = true
}

// ResetMouse forgets deltas and re-initializes the cursor at x, y.
func (in *Input) ResetMouse(x, y float32) {
	in.mouseX, in.mouseY = x, y
	in.deltaX, in.deltaY = 0, 0
	in.mouseInit = true
}

// KeyDown reports whether k is held.
func (in *Input) KeyDown(k Key) bool {
	return k > KeyUnknown && k < keyCount && in.keys[k].held()
}

// KeyPressed reports whether k went down this frame.
func (in *Input) KeyPressed(k Key) bool {
	return k > KeyUnknown && k < keyCount && in.keys[k] == Pressed
}

// KeyReleased reports whether k went up this frame.
func (in *Input) KeyReleased(k Key) bool {
	return k > KeyUnknown && k < keyCount && in.keys[k] == Released
}

// ButtonDown reports whether b is held.
func (in *Input) ButtonDown(b MouseButton) bool {
	return b >= 0 && b < buttonCount && in.buttons[b].held()
}

// ButtonPressed reports whether b went down this frame.
func (in *Input) ButtonPressed(b MouseButton) bool {
	return b >= 0 && b < buttonCount && in.buttons[b] == Pressed
}

// ButtonReleased reports whether b went up this frame.
func (in *Input) ButtonReleased(b MouseButton) bool {
	return b >= 0 && b < buttonCount && in.buttons[b] == Released
}

// MousePosition returns the last cursor position.
func (in *Input) MousePosition() (x, y float32) { return in.mouseX, in.mouseY }

// MouseDelta returns the cursor motion this frame.
func (in *Input) MouseDelta() (dx, dy float32) { return in.deltaX, in.deltaY }

// Scroll returns the wheel motion this frame.
func (in *Input) Scroll() (x, y float32) { return in.scrollX, in.scrollY }

// Resized returns the new drawable size if it changed this frame.
func (in *Input) Resized() (width, height int, ok bool) {
	return in.width, in.height, in.resized
}

// QuitRequested reports whether the window was asked to close.
func (in *Input) QuitRequested() bool { return in.quit }
