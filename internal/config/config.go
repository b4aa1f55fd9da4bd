// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window" toml:"window"`
	Input   InputConfig   `yaml:"input" toml:"input"`
	Camera  CameraConfig  `yaml:"camera" toml:"camera"`
	Render  RenderConfig  `yaml:"render" toml:"render"`
	Stats   StatsConfig   `yaml:"stats" toml:"stats"`
	Scene   SceneConfig   `yaml:"scene" toml:"scene"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title" toml:"title"`
	Width      int    `yaml:"width" toml:"width"`
	Height     int    `yaml:"height" toml:"height"`
	Fullscreen bool   `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool   `yaml:"vsync" toml:"vsync"`
}

// InputConfig holds mouse and timing settings.
type InputConfig struct {
	MouseSensitivity float32 `yaml:"mouse_sensitivity" toml:"mouse_sensitivity"`
	MouseSmoothing   float32 `yaml:"mouse_smoothing" toml:"mouse_smoothing"` // 0 = raw, 1 = frozen
	FixedStep        float32 `yaml:"fixed_step" toml:"fixed_step"`           // seconds per input tick
}

// Camera modes.
const (
	CameraFly   = "fly"
	CameraOrbit = "orbit"
)

// CameraConfig holds the camera settings. Position, yaw and pitch apply to the fly camera.
type CameraConfig struct {
	Mode      string     `yaml:"mode" toml:"mode"` // fly or orbit
	Position  [3]float32 `yaml:"position" toml:"position"`
	Yaw       float32    `yaml:"yaw" toml:"yaw"`     // degrees
	Pitch     float32    `yaml:"pitch" toml:"pitch"` // degrees
	MoveSpeed float32    `yaml:"move_speed" toml:"move_speed"`
	FOV       float32    `yaml:"fov" toml:"fov"` // degrees
	Near      float32    `yaml:"near" toml:"near"`
	Far       float32    `yaml:"far" toml:"far"`
}

// RenderConfig holds renderer settings.
type RenderConfig struct {
	MaxBatchSize int          `yaml:"max_batch_size" toml:"max_batch_size"`
	Wireframe    bool         `yaml:"wireframe" toml:"wireframe"`
	AssetRoots   []string     `yaml:"asset_roots" toml:"asset_roots"`
	ClearColor   [3]float32   `yaml:"clear_color" toml:"clear_color"`
	Ambient      AmbientLight `yaml:"ambient" toml:"ambient"`
}

// AmbientLight is the constant ambient term.
type AmbientLight struct {
	Color    [3]float32 `yaml:"color" toml:"color"`
	Strength float32    `yaml:"strength" toml:"strength"`
}

// StatsConfig holds frame statistics reporting settings.
type StatsConfig struct {
	Enabled  bool    `yaml:"enabled" toml:"enabled"`
	Interval float32 `yaml:"interval" toml:"interval"` // seconds between reports
}

// SceneConfig describes what the viewer loads at startup.
type SceneConfig struct {
	Models      []ModelConfig      `yaml:"models" toml:"models"`
	PointLights []PointLightConfig `yaml:"point_lights" toml:"point_lights"`
	Sun         SunConfig          `yaml:"sun" toml:"sun"`
}

// ModelConfig places one model instance in the scene.
type ModelConfig struct {
	Path     string     `yaml:"path" toml:"path"`
	Shader   string     `yaml:"shader" toml:"shader"`
	Position [3]float32 `yaml:"position" toml:"position"`
	Rotation [3]float32 `yaml:"rotation" toml:"rotation"` // Euler degrees
	Scale    [3]float32 `yaml:"scale" toml:"scale"`
}

// PointLightConfig describes a point light.
type PointLightConfig struct {
	Position  [3]float32 `yaml:"position" toml:"position"`
	Color     [3]float32 `yaml:"color" toml:"color"`
	Intensity float32    `yaml:"intensity" toml:"intensity"`
	Range     float32    `yaml:"range" toml:"range"`
}

// SunConfig describes the directional light.
type SunConfig struct {
	Direction [3]float32 `yaml:"direction" toml:"direction"`
	Color     [3]float32 `yaml:"color" toml:"color"`
	Intensity float32    `yaml:"intensity" toml:"intensity"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Simple Engine",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Input: InputConfig{
			MouseSensitivity: 0.1,
			MouseSmoothing:   0.5,
			FixedStep:        1.0 / 120.0,
		},
		Camera: CameraConfig{
			Mode:      CameraFly,
			Position:  [3]float32{-5, 5, 5},
			Yaw:       0,
			Pitch:     0,
			MoveSpeed: 5,
			FOV:       60,
			Near:      0.1,
			Far:       1000,
		},
		Render: RenderConfig{
			MaxBatchSize: 1000,
			AssetRoots:   []string{"assets"},
			ClearColor:   [3]float32{0.2, 0.3, 0.8},
			Ambient: AmbientLight{
				Color:    [3]float32{1, 1, 1},
				Strength: 0.7,
			},
		},
		Stats: StatsConfig{
			Enabled:  true,
			Interval: 0.25,
		},
		Scene: SceneConfig{
			Sun: SunConfig{
				Direction: [3]float32{-0.3, -1, -0.2},
				Color:     [3]float32{1, 0.95, 0.9},
				Intensity: 1.2,
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
