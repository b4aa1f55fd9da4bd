// Package app implements the viewer main loop.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/simple-engine/internal/assets"
	"github.com/Faultbox/simple-engine/internal/config"
	"github.com/Faultbox/simple-engine/internal/engine/camera"
	"github.com/Faultbox/simple-engine/internal/engine/gpu/glgpu"
	"github.com/Faultbox/simple-engine/internal/engine/input"
	"github.com/Faultbox/simple-engine/internal/engine/render"
	"github.com/Faultbox/simple-engine/internal/engine/scene"
	"github.com/Faultbox/simple-engine/internal/engine/texture"
	"github.com/Faultbox/simple-engine/internal/engine/window"
	"github.com/Faultbox/simple-engine/internal/logger"
	"github.com/Faultbox/simple-engine/pkg/math"
)

// maxDelta caps the frame time fed to the simulation, in seconds.
const maxDelta = 0.1

// App is the viewer instance.
type App struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	device   *glgpu.Device
	assets   *assets.Manager
	renderer *render.Renderer
	scene    *scene.Scene
	input    *input.Input

	camera camera.Camera
	player *camera.Player      // fly mode
	orbit  *camera.OrbitCamera // orbit mode

	stats *statsCounter
}

// New opens the window, loads the scene and prepares the renderer.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:   cfg,
		log:   logger.Named("app"),
		input: input.New(),
		stats: newStatsCounter(cfg.Stats.Interval),
	}

	a.log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.String("camera", cfg.Camera.Mode),
	)

	var err error
	// Create window (this also creates the OpenGL context)
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if err := a.init(); err != nil {
		a.Close()
		return nil, err
	}

	a.log.Info("viewer initialized", zap.Int("renderables", a.scene.Len()))
	return a, nil
}

func (a *App) init() error {
	var err error
	a.device, err = glgpu.New()
	if err != nil {
		return fmt.Errorf("failed to create GPU device: %w", err)
	}
	a.device.Viewport(a.window.DrawableSize())

	a.assets = assets.NewManager(a.device, assets.Options{
		MaxBatchSize: a.cfg.Render.MaxBatchSize,
		Textures:     texture.DefaultOptions(),
	})
	for _, root := range a.cfg.Render.AssetRoots {
		if err := a.assets.AddRoot(root); err != nil {
			a.log.Warn("skipping asset root", zap.String("root", root), zap.Error(err))
		}
	}

	a.renderer, err = render.New(a.device, a.assets.Registry(), render.Options{
		MaxBatchSize: a.cfg.Render.MaxBatchSize,
		ClearColor:   a.cfg.Render.ClearColor,
	})
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	if a.cfg.Render.Wireframe {
		a.renderer.ToggleWireframe()
	}

	a.scene, err = scene.Build(a.assets, a.cfg.Scene, a.cfg.Render.Ambient)
	if err != nil {
		return fmt.Errorf("failed to build scene: %w", err)
	}
	a.renderer.SetLights(a.scene.Lights())

	a.setupCamera()
	a.renderer.SetCamera(a.camera)
	return nil
}

func (a *App) setupCamera() {
	aspect := a.window.Aspect()
	cc := a.cfg.Camera

	switch cc.Mode {
	case config.CameraOrbit:
		a.orbit = camera.NewOrbitCamera(aspect)
		a.orbit.SetFOV(cc.FOV)
		a.orbit.SetClipPlanes(cc.Near, cc.Far)
		if b := a.scene.Bounds(); !b.IsEmpty() {
			a.orbit.FitToBounds(b.Min, b.Max)
		}
		a.window.SetRelativeMouse(false)
		a.camera = a.orbit

	default:
		fly := camera.NewFlyCamera(aspect)
		fly.ApplySettings(camera.Settings{
			Position:         math.V3(cc.Position[0], cc.Position[1], cc.Position[2]),
			Yaw:              cc.Yaw,
			Pitch:            cc.Pitch,
			MoveSpeed:        cc.MoveSpeed,
			MouseSensitivity: a.cfg.Input.MouseSensitivity,
			FOV:              cc.FOV,
			Near:             cc.Near,
			Far:              cc.Far,
		})
		a.player = camera.NewPlayer(fly)
		a.player.SetMouseSmoothing(a.cfg.Input.MouseSmoothing)
		a.player.SetFixedStep(a.cfg.Input.FixedStep)
		a.window.SetRelativeMouse(true)
		a.camera = fly
	}
}

// Run starts the main loop. It returns when the window is closed or Escape is pressed.
func (a *App) Run() error {
	lastTime := time.Now()

	a.log.Info("starting main loop")

	for {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		if dt > maxDelta {
			dt = maxDelta
		}
		lastTime = now

		// 1. Process input
		a.input.BeginFrame()
		a.window.PollEvents(a.input)
		if a.input.QuitRequested() || a.input.KeyDown(input.KeyEscape) {
			break
		}
		a.handleShortcuts()

		// 2. Update camera
		a.updateCamera(dt)

		// 3. Render
		if err := a.renderFrame(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		// 4. Present
		a.window.SwapBuffers()
		a.reportStats(dt)
	}

	a.log.Info("main loop finished")
	return nil
}

func (a *App) handleShortcuts() {
	if w, h, ok := a.input.Resized(); ok {
		a.device.Viewport(w, h)
		a.camera.SetAspect(float32(w) / float32(h))
	}
	if a.input.KeyPressed(input.KeyF1) {
		a.cfg.Stats.Enabled = !a.cfg.Stats.Enabled
		if !a.cfg.Stats.Enabled {
			a.window.SetTitle(a.window.BaseTitle())
		}
	}
	if a.input.KeyPressed(input.KeyF3) {
		on := a.renderer.ToggleWireframe()
		a.log.Debug("wireframe toggled", zap.Bool("enabled", on))
	}
	if a.input.KeyPressed(input.KeyF12) {
		a.window.ToggleFullscreen()
		a.input.ResetMouse(a.input.MousePosition())
	}
}

func (a *App) updateCamera(dt float32) {
	if a.player != nil {
		dx, dy := a.input.MouseDelta()
		a.player.Update(dt, camera.Controls{
			MouseDX:  dx,
			MouseDY:  dy,
			Movement: a.movement(),
		})
		return
	}

	if a.input.ButtonDown(input.MouseLeft) {
		a.orbit.HandleDrag(a.input.MouseDelta())
	}
	if _, y := a.input.Scroll(); y != 0 {
		a.orbit.HandleZoom(y)
	}

	m := a.movement()
	a.orbit.HandleMovement(axis(m.Forward, m.Backward), axis(m.Right, m.Left), axis(m.Up, m.Down))
}

func (a *App) movement() camera.Movement {
	return camera.Movement{
		Forward:  a.input.KeyDown(input.KeyW),
		Backward: a.input.KeyDown(input.KeyS),
		Left:     a.input.KeyDown(input.KeyA),
		Right:    a.input.KeyDown(input.KeyD),
		Up:       a.input.KeyDown(input.KeySpace),
		Down:     a.input.KeyDown(input.KeyLeftCtrl),
	}
}

func axis(pos, neg bool) float32 {
	var v float32
	if pos {
		v++
	}
	if neg {
		v--
	}
	return v
}

func (a *App) renderFrame() error {
	a.renderer.Clear()
	if err := a.renderer.SubmitScene(a.scene); err != nil {
		return err
	}
	return a.renderer.Flush()
}

func (a *App) reportStats(dt float32) {
	if !a.cfg.Stats.Enabled {
		return
	}
	fps, ok := a.stats.tick(dt)
	if !ok {
		return
	}

	st := a.renderer.Stats()
	a.window.SetTitle(formatTitle(a.window.BaseTitle(), fps, st))
	a.log.Debug("frame stats",
		zap.Int("fps", int(fps)),
		zap.Int("draw_calls", st.DrawCalls),
		zap.Int("triangles", st.Triangles),
		zap.Int("instances", st.Instances),
		zap.Int("culled", st.Culled),
	)
}

// Close releases everything in reverse creation order.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.renderer != nil {
		a.renderer.Reset()
		a.renderer.Close()
	}
	if a.assets != nil {
		a.assets.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
