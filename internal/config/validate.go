package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d must be positive", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Input.MouseSmoothing < 0 || c.Input.MouseSmoothing > 1:
		return fmt.Errorf("%w: mouse_smoothing %g not in [0,1]", ErrInvalid, c.Input.MouseSmoothing)
	case c.Input.MouseSensitivity <= 0:
		return fmt.Errorf("%w: mouse_sensitivity must be positive", ErrInvalid)
	case c.Input.FixedStep <= 0:
		return fmt.Errorf("%w: fixed_step must be positive", ErrInvalid)
	case c.Camera.Mode != CameraFly && c.Camera.Mode != CameraOrbit:
		return fmt.Errorf("%w: camera mode %q must be %q or %q", ErrInvalid, c.Camera.Mode, CameraFly, CameraOrbit)
	case c.Camera.MoveSpeed <= 0:
		return fmt.Errorf("%w: move_speed must be positive", ErrInvalid)
	case c.Camera.FOV <= 1 || c.Camera.FOV >= 179:
		return fmt.Errorf("%w: fov %g not in (1,179)", ErrInvalid, c.Camera.FOV)
	case c.Camera.Near <= 0:
		return fmt.Errorf("%w: near plane must be positive", ErrInvalid)
	case c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: far plane %g must exceed near plane %g", ErrInvalid, c.Camera.Far, c.Camera.Near)
	case c.Stats.Interval <= 0:
		return fmt.Errorf("%w: stats interval must be positive", ErrInvalid)
	case c.Render.MaxBatchSize <= 0:
		return fmt.Errorf("%w: max_batch_size must be positive", ErrInvalid)
	}
	for i, m := range c.Scene.Models {
		if m.Path == "" {
			return fmt.Errorf("%w: scene model %d has no path", ErrInvalid, i)
		}
	}
	return nil
}
