package asset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTexture struct {
	path     string
	released int
}

func (t *fakeTexture) Release() { t.released++ }

type fakeShader struct{ name string }

func TestGetOrLoadReturnsSameAsset(t *testing.T) {
	r := NewRegistry()
	calls := 0
	load := func() (*fakeTexture, error) {
		calls++
		return &fakeTexture{path: "grass.png"}, nil
	}

	h1, err := GetOrLoad(r, "texture_grass.png", load)
	require.NoError(t, err)
	h2, err := GetOrLoad(r, "texture_grass.png", load)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Equal(t, 1, calls, "cache hit must not run the loader")

	a, ok := Resolve(r, h1)
	require.True(t, ok)
	b, ok := Resolve(r, h2)
	require.True(t, ok)
	assert.Same(t, a, b)

	assert.Equal(t, Stats{Hits: 1, Misses: 1}, r.Stats())
}

func TestIDsStartAtOne(t *testing.T) {
	r := NewRegistry()
	h, err := GetOrLoad(r, "a", func() (*fakeShader, error) { return &fakeShader{}, nil })
	require.NoError(t, err)
	assert.Equal(t, uint64(1), h.ID())

	h2, err := GetOrLoad(r, "b", func() (*fakeShader, error) { return &fakeShader{}, nil })
	require.NoError(t, err)
	assert.Equal(t, uint64(2), h2.ID())
}

func TestZeroHandleIsInvalid(t *testing.T) {
	r := NewRegistry()
	var h Handle[*fakeTexture]
	assert.False(t, h.Valid())

	_, ok := Resolve(r, h)
	assert.False(t, ok)

	_, err := Get(r, h)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveAfterRemove(t *testing.T) {
	r := NewRegistry()
	tex := &fakeTexture{path: "stone.png"}
	h, err := GetOrLoad(r, "texture_stone.png", func() (*fakeTexture, error) { return tex, nil })
	require.NoError(t, err)

	assert.True(t, r.Remove("texture_stone.png"))
	assert.False(t, r.Remove("texture_stone.png"))
	assert.Equal(t, 1, tex.released)

	_, ok := Resolve(r, h)
	assert.False(t, ok, "removed asset must not resolve")
	assert.True(t, h.Valid(), "handle itself is unchanged")

	// Reloading issues a new id; the old handle keeps dangling.
	h2, err := GetOrLoad(r, "texture_stone.png", func() (*fakeTexture, error) { return &fakeTexture{}, nil })
	require.NoError(t, err)
	assert.NotEqual(t, h.ID(), h2.ID())
	_, ok = Resolve(r, h)
	assert.False(t, ok)
}

func TestResolveWrongKind(t *testing.T) {
	r := NewRegistry()
	h, err := GetOrLoad(r, "shader_basic", func() (*fakeShader, error) { return &fakeShader{name: "basic"}, nil })
	require.NoError(t, err)

	wrong := Handle[*fakeTexture]{registry: h.registry, id: h.id}
	_, ok := Resolve(r, wrong)
	assert.False(t, ok)

	_, err = Get(r, wrong)
	assert.ErrorIs(t, err, ErrWrongKind)

	_, err = GetOrLoad(r, "shader_basic", func() (*fakeTexture, error) { return &fakeTexture{}, nil })
	assert.ErrorIs(t, err, ErrWrongKind)

	_, ok = Lookup[*fakeTexture](r, "shader_basic")
	assert.False(t, ok)
}

func TestResolveForeignRegistry(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()
	h, err := GetOrLoad(a, "k", func() (*fakeShader, error) { return &fakeShader{}, nil })
	require.NoError(t, err)
	_, err = GetOrLoad(b, "k", func() (*fakeShader, error) { return &fakeShader{}, nil })
	require.NoError(t, err)

	_, ok := Resolve(b, h)
	assert.False(t, ok, "a handle only resolves in the registry that issued it")
}

func TestFailedLoadLeavesRegistryUnmodified(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("file not found")

	_, err := GetOrLoad(r, "model_missing.gltf", func() (*fakeShader, error) { return nil, boom })
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "model_missing.gltf", le.Key)

	assert.Equal(t, 0, r.Len())
	_, ok := Lookup[*fakeShader](r, "model_missing.gltf")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Stats().Failures)

	// A later load of the same key runs the loader again.
	h, err := GetOrLoad(r, "model_missing.gltf", func() (*fakeShader, error) { return &fakeShader{}, nil })
	require.NoError(t, err)
	assert.True(t, h.Valid())
}

func TestRecursiveLoad(t *testing.T) {
	r := NewRegistry()

	type model struct {
		shader Handle[*fakeShader]
	}

	h, err := GetOrLoad(r, "model_crate", func() (*model, error) {
		sh, err := GetOrLoad(r, "shader_basic", func() (*fakeShader, error) {
			return &fakeShader{name: "basic"}, nil
		})
		if err != nil {
			return nil, err
		}
		return &model{shader: sh}, nil
	})
	require.NoError(t, err)

	m, ok := Resolve(r, h)
	require.True(t, ok)
	sh, ok := Resolve(r, m.shader)
	require.True(t, ok)
	assert.Equal(t, "basic", sh.name)
	assert.Equal(t, 2, r.Len())
}

func TestLoadCycle(t *testing.T) {
	r := NewRegistry()

	var load func() (*fakeShader, error)
	load = func() (*fakeShader, error) {
		if _, err := GetOrLoad(r, "shader_loop", load); err != nil {
			return nil, err
		}
		return &fakeShader{}, nil
	}

	_, err := GetOrLoad(r, "shader_loop", load)
	assert.ErrorIs(t, err, ErrLoadCycle)
	assert.Equal(t, 0, r.Len())
}

func TestRequestDuringLoadFromAnotherGoroutine(t *testing.T) {
	r := NewRegistry()

	done := make(chan error)
	h, err := GetOrLoad(r, "shader_a", func() (*fakeShader, error) {
		go func() {
			_, err := GetOrLoad(r, "shader_a", func() (*fakeShader, error) { return &fakeShader{}, nil })
			done <- err
		}()
		assert.ErrorIs(t, <-done, ErrLoadCycle)
		return &fakeShader{}, nil
	})
	require.NoError(t, err)

	_, ok := Resolve(r, h)
	assert.True(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestClearReleasesAssets(t *testing.T) {
	r := NewRegistry()
	tex := &fakeTexture{}
	h, err := GetOrLoad(r, "texture_a", func() (*fakeTexture, error) { return tex, nil })
	require.NoError(t, err)
	_, err = GetOrLoad(r, "shader_a", func() (*fakeShader, error) { return &fakeShader{}, nil })
	require.NoError(t, err)

	r.Clear()

	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 1, tex.released)
	_, ok := Resolve(r, h)
	assert.False(t, ok)

	h2, err := GetOrLoad(r, "texture_a", func() (*fakeTexture, error) { return &fakeTexture{}, nil })
	require.NoError(t, err)
	assert.Greater(t, h2.ID(), h.ID(), "ids are never reused")
}

func TestLookup(t *testing.T) {
	r := NewRegistry()
	_, ok := Lookup[*fakeTexture](r, "texture_x")
	assert.False(t, ok)

	h, err := GetOrLoad(r, "texture_x", func() (*fakeTexture, error) { return &fakeTexture{}, nil })
	require.NoError(t, err)

	got, ok := Lookup[*fakeTexture](r, "texture_x")
	require.True(t, ok)
	assert.Equal(t, h, got)
}
