package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLifecycle(t *testing.T) {
	in := New()

	in.OnKey(KeyW, true, false)
	assert.True(t, in.KeyPressed(KeyW))
	assert.True(t, in.KeyDown(KeyW))

	in.BeginFrame()
	assert.False(t, in.KeyPressed(KeyW))
	assert.True(t, in.KeyDown(KeyW))

	in.OnKey(KeyW, true, true) // repeat
	assert.False(t, in.KeyPressed(KeyW))

	in.OnKey(KeyW, false, false)
	assert.True(t, in.KeyReleased(KeyW))
	assert.False(t, in.KeyDown(KeyW))

	in.BeginFrame()
	assert.False(t, in.KeyReleased(KeyW))
}

func TestInvalidKeysIgnored(t *testing.T) {
	in := New()
	in.OnKey(KeyUnknown, true, false)
	in.OnKey(Key(-3), true, false)
	in.OnKey(keyCount+5, true, false)
	in.OnMouseButton(MouseButton(99), true)

	assert.False(t, in.KeyDown(KeyUnknown))
	assert.False(t, in.KeyDown(keyCount+5))
	assert.False(t, in.ButtonDown(MouseButton(99)))
}

func TestMouseButtons(t *testing.T) {
	in := New()
	in.OnMouseButton(MouseRight, true)
	assert.True(t, in.ButtonPressed(MouseRight))

	in.BeginFrame()
	assert.True(t, in.ButtonDown(MouseRight))
	assert.False(t, in.ButtonPressed(MouseRight))

	in.OnMouseButton(MouseRight, false)
	assert.True(t, in.ButtonReleased(MouseRight))
}

func TestMouseDelta(t *testing.T) {
	in := New()

	in.OnMouseMove(100, 100) // initializes only
	dx, dy := in.MouseDelta()
	assert.Equal(t, float32(0), dx)
	assert.Equal(t, float32(0), dy)

	in.OnMouseMove(110, 95)
	in.OnMouseMove(115, 90)
	in.OnMouseMotion(1, 1)
	dx, dy = in.MouseDelta()
	assert.Equal(t, float32(16), dx)
	assert.Equal(t, float32(-9), dy)

	in.BeginFrame()
	dx, dy = in.MouseDelta()
	assert.Equal(t, float32(0), dx)
	assert.Equal(t, float32(0), dy)
}

func TestScroll(t *testing.T) {
	in := New()
	in.OnScroll(0, 1)
	in.OnScroll(0, 2)
	_, y := in.Scroll()
	assert.Equal(t, float32(3), y)

	in.BeginFrame()
	_, y = in.Scroll()
	assert.Equal(t, float32(0), y)
}

func TestFocusLossReleasesKeys(t *testing.T) {
	in := New()
	in.OnKey(KeyD, true, false)
	in.OnMouseButton(MouseLeft, true)
	in.OnMouseMove(0, 0)
	in.OnMouseMove(10, 0)

	in.OnFocus(false)
	assert.False(t, in.KeyDown(KeyD))
	assert.False(t, in.ButtonDown(MouseLeft))
	dx, _ := in.MouseDelta()
	assert.Equal(t, float32(0), dx)

	// Regaining focus re-initializes the cursor instead of jumping.
	in.OnFocus(true)
	in.OnMouseMove(500, 500)
	dx, _ = in.MouseDelta()
	assert.Equal(t, float32(0), dx)
}

func TestResizeAndQuit(t *testing.T) {
	in := New()
	in.OnResize(0, 10)
	_, _, ok := in.Resized()
	assert.False(t, ok)

	in.OnResize(800, 600)
	w, h, ok := in.Resized()
	assert.True(t, ok)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	in.BeginFrame()
	_, _, ok = in.Resized()
	assert.False(t, ok)

	assert.False(t, in.QuitRequested())
	in.OnQuit()
	assert.True(t, in.QuitRequested())
}

func TestResetMouse(t *testing.T) {
	in := New()
	in.OnMouseMove(0, 0)
	in.OnMouseMove(5, 5)

	in.ResetMouse(50, 60)
	dx, dy := in.MouseDelta()
	assert.Equal(t, float32(0), dx)
	assert.Equal(t, float32(0), dy)

	in.OnMouseMove(51, 60)
	dx, _ = in.MouseDelta()
	assert.Equal(t, float32(1), dx)
	x, y := in.MousePosition()
	assert.Equal(t, float32(51), x)
	assert.Equal(t, float32(60), y)
}
