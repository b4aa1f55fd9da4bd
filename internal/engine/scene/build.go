package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/simple-engine/internal/config"
	"github.com/Faultbox/simple-engine/internal/engine/asset"
	"github.com/Faultbox/simple-engine/internal/engine/lighting"
	"github.com/Faultbox/simple-engine/internal/engine/model"
	"github.com/Faultbox/simple-engine/internal/logger"
	"github.com/Faultbox/simple-engine/pkg/math"
)

// DefaultShader is used by models that name no shader.
const DefaultShader = "shaders/basic"

// ModelLoader loads models into a registry.
type ModelLoader interface {
	Registry() *asset.Registry
	LoadModel(path, shaderPath string) (asset.Handle[*model.Model], error)
}

// Build creates a scene from configuration. Any model that fails to load aborts the build.
func Build(loader ModelLoader, cfg config.SceneConfig, ambient config.AmbientLight) (*Scene, error) {
	log := logger.Named("scene")
	s := New()

	for i, mc := range cfg.Models {
		shaderPath := mc.Shader
		if shaderPath == "" {
			shaderPath = DefaultShader
		}

		h, err := loader.LoadModel(mc.Path, shaderPath)
		if err != nil {
			return nil, fmt.Errorf("scene model %d: %w", i, err)
		}
		if err := s.AddModelInstance(loader.Registry(), h, modelTransform(mc)); err != nil {
			return nil, fmt.Errorf("scene model %d: %w", i, err)
		}
	}

	lights := s.Lights()
	lights.Sun = lighting.Sun{
		Direction: vec3(cfg.Sun.Direction),
		Color:     vec3(cfg.Sun.Color),
		Intensity: cfg.Sun.Intensity,
	}
	lights.Sky = lighting.Sky{Ambient: vec3(ambient.Color), Strength: ambient.Strength}

	points := make([]lighting.PointLight, 0, len(cfg.PointLights))
	for _, pc := range cfg.PointLights {
		points = append(points, lighting.PointLight{
			Position:  vec3(pc.Position),
			Color:     vec3(pc.Color),
			Intensity: pc.Intensity,
			Range:     pc.Range,
		})
	}
	if dropped := lights.SetPointLights(points); dropped > 0 {
		log.Warn("too many point lights",
			zap.Int("max", lighting.MaxPointLights),
			zap.Int("dropped", dropped))
	}

	log.Info("scene built",
		zap.Int("models", len(cfg.Models)),
		zap.Int("renderables", s.Len()),
		zap.Int("point_lights", lights.Count()))
	return s, nil
}

func modelTransform(mc config.ModelConfig) Transform {
	scale := vec3(mc.Scale)
	if scale == (math.Vec3{}) {
		scale = math.V3(1, 1, 1)
	}
	return FromEuler(vec3(mc.Position), vec3(mc.Rotation), scale)
}

func vec3(a [3]float32) math.Vec3 {
	return math.V3(a[0], a[1], a[2])
}
