// Package shader provides the Shader asset: a compiled program with cached
// uniform lookups.
//
// Scalar uniform setters tolerate unknown names, which are common when the
// GLSL compiler strips unused uniforms. Uniform blocks are strict: a missing
// block is an error because the frame data would silently never arrive.
package shader

import (
	"errors"
	"fmt"
	"os"

	"github.com/Faultbox/simple-engine/internal/engine/gpu"
)

// ErrUniformBlockNotFound is returned when a program has no block of the given name.
var ErrUniformBlockNotFound = errors.New("uniform block not found")

// File extensions of the two stages.
const (
	VertexExt   = ".vert"
	FragmentExt = ".frag"
)

// Shader is a linked program plus uniform location and block caches.
type Shader struct {
	name      string
	program   gpu.Program
	locations map[string]int32
	blocks    map[string]uint32
}

// New compiles a shader from source.
func New(dev gpu.Device, name, vertexSrc, fragmentSrc string) (*Shader, error) {
	prog, err := dev.NewProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("compiling shader %s: %w", name, err)
	}
	return &Shader{
		name:      name,
		program:   prog,
		locations: make(map[string]int32),
		blocks:    make(map[string]uint32),
	}, nil
}

// Load compiles the program stored in base+".vert" and base+".frag".
func Load(dev gpu.Device, base string) (*Shader, error) {
	vs, err := os.ReadFile(base + VertexExt)
	if err != nil {
		return nil, fmt.Errorf("reading vertex shader: %w", err)
	}
	fs, err := os.ReadFile(base + FragmentExt)
	if err != nil {
		return nil, fmt.Errorf("reading fragment shader: %w", err)
	}
	return New(dev, base, string(vs), string(fs))
}

// Name returns the shader's source path or name.
func (s *Shader) Name() string { return s.name }

// Bind makes the program current.
func (s *Shader) Bind() {
	s.program.Use()
}

// location returns the cached uniform location, -1 if absent.
func (s *Shader) location(name string) int32 {
	if loc, ok := s.locations[name]; ok {
		return loc
	}
	loc := s.program.UniformLocation(name)
	s.locations[name] = loc
	return loc
}

// Has reports whether the program has an active uniform called name.
func (s *Shader) Has(name string) bool {
	return s.location(name) >= 0
}

// SetInt sets an int or sampler uniform. Unknown names are ignored.
func (s *Shader) SetInt(name string, v int32) {
	if loc := s.location(name); loc >= 0 {
		s.program.SetInt(loc, v)
	}
}

// SetBool sets a bool uniform as the int 0 or 1.
func (s *Shader) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	s.SetInt(name, i)
}

// SetFloat sets a float uniform. Unknown names are ignored.
func (s *Shader) SetFloat(name string, v float32) {
	if loc := s.location(name); loc >= 0 {
		s.program.SetFloat(loc, v)
	}
}

// SetVec3 sets a vec3 uniform. Unknown names are ignored.
func (s *Shader) SetVec3(name string, v [3]float32) {
	if loc := s.location(name); loc >= 0 {
		s.program.SetVec3(loc, v)
	}
}

// SetVec4 sets a vec4 uniform. Unknown names are ignored.
func (s *Shader) SetVec4(name string, v [4]float32) {
	if loc := s.location(name); loc >= 0 {
		s.program.SetVec4(loc, v)
	}
}

// SetMat4 sets a column-major mat4 uniform. Unknown names are ignored.
func (s *Shader) SetMat4(name string, m [16]float32) {
	if loc := s.location(name); loc >= 0 {
		s.program.SetMat4(loc, m)
	}
}

// BindUniformBlock attaches the named block to a uniform buffer binding point.
func (s *Shader) BindUniformBlock(name string, binding uint32) error {
	idx, ok := s.blocks[name]
	if !ok {
		idx, ok = s.program.UniformBlockIndex(name)
		if !ok {
			return fmt.Errorf("%w: %q in shader %s", ErrUniformBlockNotFound, name, s.name)
		}
		s.blocks[name] = idx
	}
	s.program.BindUniformBlock(idx, binding)
	return nil
}

// Release deletes the program.
func (s *Shader) Release() {
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
}
