// Package assets loads engine assets from disk and caches them by logical key.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/simple-engine/internal/engine/asset"
	"github.com/Faultbox/simple-engine/internal/engine/gpu"
	"github.com/Faultbox/simple-engine/internal/engine/material"
	"github.com/Faultbox/simple-engine/internal/engine/mesh"
	"github.com/Faultbox/simple-engine/internal/engine/model"
	"github.com/Faultbox/simple-engine/internal/engine/shader"
	"github.com/Faultbox/simple-engine/internal/engine/texture"
	"github.com/Faultbox/simple-engine/internal/logger"
)

// Logical key prefixes, one per asset kind.
const (
	TexturePrefix  = "texture_"
	ShaderPrefix   = "shader_"
	ModelPrefix    = "model_"
	MaterialPrefix = "material_"
)

// Options configures a Manager.
type Options struct {
	// MaxBatchSize sizes the initial instance buffer of every geometry.
	MaxBatchSize int
	// Textures controls image decoding.
	Textures texture.Options
}

// Manager loads assets through a registry. Relative paths are searched in
// the roots, last added first, and fall back to the path itself.
type Manager struct {
	registry *asset.Registry
	device   gpu.Device
	opts     Options
	log      *zap.Logger

	roots []string
	mu    sync.RWMutex
}

var _ model.Dependencies = (*Manager)(nil)

// NewManager creates a manager that uploads through dev.
func NewManager(dev gpu.Device, opts Options) *Manager {
	return &Manager{
		registry: asset.NewRegistry(),
		device:   dev,
		opts:     opts,
		log:      logger.Named("assets"),
	}
}

// AddRoot adds a search directory. Roots are searched in reverse order
// (last added = highest priority).
func (m *Manager) AddRoot(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("adding asset root %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("asset root %s is not a directory", dir)
	}

	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()
	return nil
}

// resolve maps a relative path to the first root containing it. probe is
// appended to the candidate before the existence check, which lets shader
// base names resolve through their ".vert" file.
func (m *Manager) resolve(path, probe string) string {
	if filepath.IsAbs(path) {
		return path
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		candidate := filepath.Join(m.roots[i], path)
		if _, err := os.Stat(candidate + probe); err == nil {
			return candidate
		}
	}
	return path
}

// Registry returns the underlying registry.
func (m *Manager) Registry() *asset.Registry { return m.registry }

// Device returns the render context assets are uploaded through.
func (m *Manager) Device() gpu.Device { return m.device }

// GeometryOptions returns the geometry construction options.
func (m *Manager) GeometryOptions() mesh.Options {
	return mesh.OptionsForBatch(m.opts.MaxBatchSize)
}

// LoadTexture returns the texture at path, loading it on first use.
func (m *Manager) LoadTexture(path string) (asset.Handle[*texture.Texture], error) {
	resolved := m.resolve(path, "")
	return getOrLoad(m, TexturePrefix+resolved, func() (*texture.Texture, error) {
		return texture.Load(m.device, resolved, m.opts.Textures)
	})
}

// TextureHandle returns the cached texture for path without loading it.
func (m *Manager) TextureHandle(path string) (asset.Handle[*texture.Texture], bool) {
	return asset.Lookup[*texture.Texture](m.registry, TexturePrefix+m.resolve(path, ""))
}

// LoadShader returns the program built from path+".vert" and path+".frag".
func (m *Manager) LoadShader(path string) (asset.Handle[*shader.Shader], error) {
	resolved := m.resolve(path, shader.VertexExt)
	return getOrLoad(m, ShaderPrefix+resolved, func() (*shader.Shader, error) {
		return shader.Load(m.device, resolved)
	})
}

// LoadModel imports the model at path, drawing it with the shader at shaderPath.
func (m *Manager) LoadModel(path, shaderPath string) (asset.Handle[*model.Model], error) {
	resolved := m.resolve(path, "")
	return getOrLoad(m, ModelPrefix+resolved, func() (*model.Model, error) {
		mdl, err := model.Load(m, resolved, shaderPath)
		if err != nil {
			return nil, err
		}
		m.log.Info("model loaded",
			zap.String("path", resolved),
			zap.Int("subMeshes", len(mdl.SubMeshes())),
		)
		return mdl, nil
	})
}

// Material returns the material called name, creating it from spec on first
// use. Later calls with the same name return the first material unchanged.
func (m *Manager) Material(name string, spec material.Spec) (asset.Handle[*material.Material], error) {
	return getOrLoad(m, MaterialPrefix+name, func() (*material.Material, error) {
		return material.New(name, spec), nil
	})
}

// Remove drops the asset under key. Handles to it stop resolving.
func (m *Manager) Remove(key string) bool {
	return m.registry.Remove(key)
}

// Clear drops every asset.
func (m *Manager) Clear() {
	m.registry.Clear()
}

// Stats returns the registry load counters.
func (m *Manager) Stats() asset.Stats {
	return m.registry.Stats()
}

// Close releases all assets.
func (m *Manager) Close() {
	stats := m.registry.Stats()
	m.log.Debug("closing asset manager",
		zap.Int("assets", m.registry.Len()),
		zap.Int("hits", stats.Hits),
		zap.Int("misses", stats.Misses),
	)
	m.registry.Clear()
}

func getOrLoad[T any](m *Manager, key string, load func() (T, error)) (asset.Handle[T], error) {
	h, err := asset.GetOrLoad(m.registry, key, load)
	if err != nil {
		return h, err
	}
	m.log.Debug("asset ready", zap.String("key", key), zap.Uint64("id", h.ID()))
	return h, nil
}
