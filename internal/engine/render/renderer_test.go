package render

import (
	"encoding/binary"
	"image"
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Faultbox/simple-engine/internal/engine/asset"
	"github.com/Faultbox/simple-engine/internal/engine/gpu"
	"github.com/Faultbox/simple-engine/internal/engine/gpu/gputest"
	"github.com/Faultbox/simple-engine/internal/engine/lighting"
	"github.com/Faultbox/simple-engine/internal/engine/material"
	"github.com/Faultbox/simple-engine/internal/engine/mesh"
	"github.com/Faultbox/simple-engine/internal/engine/model"
	"github.com/Faultbox/simple-engine/internal/engine/scene"
	"github.com/Faultbox/simple-engine/internal/engine/shader"
	"github.com/Faultbox/simple-engine/internal/engine/texture"
	"github.com/Faultbox/simple-engine/pkg/math"
)

// fixedCamera returns a constant matrix and counts how often it is asked.
type fixedCamera struct {
	vp    math.Mat4
	calls int
}

func (c *fixedCamera) ViewProjection() math.Mat4 {
	c.calls++
	return c.vp
}

type fixture struct {
	t        *testing.T
	dev      *gputest.Device
	registry *asset.Registry
	renderer *Renderer
	camera   *fixedCamera
	shader   asset.Handle[*shader.Shader]
}

func newFixture(t *testing.T, maxBatch int) *fixture {
	t.Helper()
	f := &fixture{t: t, dev: gputest.NewDevice(), registry: asset.NewRegistry()}

	var err error
	f.shader, err = asset.GetOrLoad(f.registry, "shader_basic", func() (*shader.Shader, error) {
		return shader.New(f.dev, "basic", "vs", "fs")
	})
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.MaxBatchSize = maxBatch
	f.renderer, err = New(f.dev, f.registry, opts)
	require.NoError(t, err)

	f.camera = &fixedCamera{vp: math.Identity()}
	f.renderer.SetCamera(f.camera)
	return f
}

// quad returns a two-triangle geometry inside [-0.5, 0.5].
func (f *fixture) quad(capacity int) *mesh.Geometry {
	f.t.Helper()
	verts := mesh.Interleave([]mesh.Vertex{
		{Position: math.V3(-0.5, -0.5, 0), Normal: math.V3(0, 0, 1)},
		{Position: math.V3(0.5, -0.5, 0), Normal: math.V3(0, 0, 1)},
		{Position: math.V3(0.5, 0.5, 0), Normal: math.V3(0, 0, 1)},
		{Position: math.V3(-0.5, 0.5, 0), Normal: math.V3(0, 0, 1)},
	})
	g, err := mesh.New(f.dev, verts, []uint32{0, 1, 2, 2, 3, 0}, nil, mesh.Options{InstanceCapacity: capacity})
	require.NoError(f.t, err)
	return g
}

func (f *fixture) material(name string, spec material.Spec) asset.Handle[*material.Material] {
	f.t.Helper()
	h, err := asset.GetOrLoad(f.registry, "material_"+name, func() (*material.Material, error) {
		return material.New(name, spec), nil
	})
	require.NoError(f.t, err)
	return h
}

func (f *fixture) defaultMaterial(name string) asset.Handle[*material.Material] {
	return f.material(name, material.DefaultSpec(f.shader))
}

func at(g *mesh.Geometry, m asset.Handle[*material.Material], pos math.Vec3) scene.Renderable {
	tr := scene.Identity()
	tr.Position = pos
	return scene.Renderable{Geometry: g, Material: m, Transform: tr}
}

func (f *fixture) submit(rs ...scene.Renderable) {
	f.t.Helper()
	for _, r := range rs {
		require.NoError(f.t, f.renderer.Submit(r))
	}
}

func instanceCounts(draws []gputest.Draw) []int {
	counts := make([]int, len(draws))
	for i, d := range draws {
		counts[i] = d.Instances
	}
	return counts
}

func TestSameKeyBatchesIntoOneDraw(t *testing.T) {
	f := newFixture(t, 1000)
	g := f.quad(0)
	m := f.defaultMaterial("a")

	f.submit(at(g, m, math.Vec3{}), at(g, m, math.V3(0.2, 0, 0)))
	require.NoError(t, f.renderer.Flush())

	require.Len(t, f.dev.Draws, 1)
	assert.Equal(t, 2, f.dev.Draws[0].Instances)
	assert.Equal(t, 6, f.dev.Draws[0].IndexCount)
}

func TestDistinctKeysSplit(t *testing.T) {
	f := newFixture(t, 1000)
	g1, g2 := f.quad(0), f.quad(0)
	m1, m2 := f.defaultMaterial("a"), f.defaultMaterial("b")

	tests := []struct {
		name  string
		items []scene.Renderable
	}{
		{"different material", []scene.Renderable{at(g1, m1, math.Vec3{}), at(g1, m2, math.Vec3{})}},
		{"different geometry", []scene.Renderable{at(g1, m1, math.Vec3{}), at(g2, m1, math.Vec3{})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.dev.Reset()
			f.submit(tt.items...)
			require.NoError(t, f.renderer.Flush())

			require.Len(t, f.dev.Draws, 2)
			assert.Equal(t, []int{1, 1}, instanceCounts(f.dev.Draws))
		})
	}
}

func TestEqualValuedMaterialsDoNotBatch(t *testing.T) {
	f := newFixture(t, 1000)
	g := f.quad(0)
	spec := material.DefaultSpec(f.shader)

	f.submit(at(g, f.material("x", spec), math.Vec3{}), at(g, f.material("y", spec), math.Vec3{}))
	require.NoError(t, f.renderer.Flush())
	assert.Len(t, f.dev.Draws, 2)
}

func TestBatchCapacityFlushesEarly(t *testing.T) {
	const maxBatch = 4
	f := newFixture(t, maxBatch)
	g := f.quad(0)
	m := f.defaultMaterial("a")

	for i := 0; i < maxBatch; i++ {
		f.submit(at(g, m, math.Vec3{}))
	}
	require.Len(t, f.dev.Draws, 1, "full batch is drawn during Submit")

	f.submit(at(g, m, math.Vec3{}))
	require.NoError(t, f.renderer.Flush())

	assert.Equal(t, []int{maxBatch, 1}, instanceCounts(f.dev.Draws))
	assert.Equal(t, 2, f.renderer.Stats().DrawCalls)
	assert.Equal(t, (maxBatch+1)*2, f.renderer.Stats().Triangles)
}

func TestExactlyFullBatchLeavesNothingForFlush(t *testing.T) {
	f := newFixture(t, 2)
	g := f.quad(0)
	m := f.defaultMaterial("a")

	f.submit(at(g, m, math.Vec3{}), at(g, m, math.Vec3{}))
	require.NoError(t, f.renderer.Flush())
	assert.Equal(t, []int{2}, instanceCounts(f.dev.Draws))
}

func TestInstanceBufferGrowsByDoubling(t *testing.T) {
	f := newFixture(t, 1000)
	g := f.quad(2 * gpu.InstanceStride)
	m := f.defaultMaterial("a")

	for i := 0; i < 5; i++ {
		f.submit(at(g, m, math.Vec3{}))
	}
	require.NoError(t, f.renderer.Flush())
	assert.Equal(t, 8*gpu.InstanceStride, g.InstanceCapacity())
	assert.Len(t, f.dev.Draws[0].Data, 5*gpu.InstanceStride)

	f.submit(at(g, m, math.Vec3{}))
	require.NoError(t, f.renderer.Flush())
	assert.Equal(t, 8*gpu.InstanceStride, g.InstanceCapacity(), "capacity never shrinks")
}

func TestInstanceDataNormalMatrix(t *testing.T) {
	f := newFixture(t, 1000)
	g := f.quad(0)
	m := f.defaultMaterial("a")

	tr := scene.FromEuler(math.V3(0.1, 0.2, 0), math.V3(0, 0, 45), math.V3(0.2, 0.8, 0.5))
	f.submit(scene.Renderable{Geometry: g, Material: m, Transform: tr})
	require.NoError(t, f.renderer.Flush())
	require.Len(t, f.dev.Draws, 1)

	got := DecodeInstance(f.dev.Draws[0].Data, 0)
	model := tr.Matrix()
	assert.Equal(t, model, got.Model)

	// transpose(inverse(upper 3x3)) computed independently
	upper := mat.NewDense(3, 3, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			upper.Set(r, c, float64(model.At(r, c)))
		}
	}
	var inv mat.Dense
	require.NoError(t, inv.Inverse(upper))
	want := mat.DenseCopyOf(inv.T())

	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			assert.InDelta(t, want.At(r, c), float64(got.Normal.At(r, c)), 1e-5, "normal matrix (%d,%d)", r, c)
		}
	}

	// A surface tangent stays perpendicular to the transformed normal.
	normal := math.V3(1, 1, 0).Normalize()
	tangent := math.V3(1, -1, 0)
	worldTangent := model.TransformDirection(tangent)

	correct := got.Normal.MulVec3(normal)
	naive := model.Upper3x3().MulVec3(normal)
	assert.InDelta(t, 0, correct.Dot(worldTangent), 1e-5)
	assert.Greater(t, gomath.Abs(float64(naive.Normalize().Dot(worldTangent.Normalize()))), 0.1)
}

func TestCulledRenderablesAreNotDrawn(t *testing.T) {
	f := newFixture(t, 1000)
	g := f.quad(0)
	m := f.defaultMaterial("a")

	f.submit(at(g, m, math.V3(10, 0, 0)), at(g, m, math.Vec3{}))
	require.NoError(t, f.renderer.Flush())

	require.Len(t, f.dev.Draws, 1)
	assert.Equal(t, 1, f.dev.Draws[0].Instances)
	stats := f.renderer.Stats()
	assert.Equal(t, 2, stats.Submitted)
	assert.Equal(t, 1, stats.Culled)
}

func TestFrustumComputedOncePerFrame(t *testing.T) {
	f := newFixture(t, 1000)
	g := f.quad(0)
	m := f.defaultMaterial("a")

	f.submit(at(g, m, math.Vec3{}), at(g, m, math.Vec3{}), at(g, m, math.Vec3{}))
	assert.Equal(t, 1, f.camera.calls)

	require.NoError(t, f.renderer.Flush())
	f.submit(at(g, m, math.Vec3{}))
	assert.Equal(t, 3, f.camera.calls, "one for uniforms, one for the next frame's frustum")
}

func TestStatsResetOnEmptyFlush(t *testing.T) {
	f := newFixture(t, 1000)
	g := f.quad(0)
	m := f.defaultMaterial("a")

	f.submit(at(g, m, math.Vec3{}), at(g, m, math.Vec3{}))
	require.NoError(t, f.renderer.Flush())
	assert.Equal(t, Stats{DrawCalls: 1, Triangles: 4, Instances: 2, Submitted: 2}, f.renderer.Stats())

	require.NoError(t, f.renderer.Flush())
	assert.Equal(t, Stats{}, f.renderer.Stats())
}

func TestReset(t *testing.T) {
	f := newFixture(t, 1000)
	g := f.quad(0)
	m := f.defaultMaterial("a")

	f.submit(at(g, m, math.Vec3{}))
	require.NoError(t, f.renderer.Flush())
	f.submit(at(g, m, math.Vec3{}))

	f.renderer.Reset()
	assert.Equal(t, Stats{}, f.renderer.Stats())

	f.dev.Reset()
	require.NoError(t, f.renderer.Flush())
	assert.Empty(t, f.dev.Draws)
}

func TestSubmitErrors(t *testing.T) {
	f := newFixture(t, 1000)
	g := f.quad(0)
	m := f.defaultMaterial("a")
	removed := f.defaultMaterial("gone")
	f.registry.Remove("material_gone")

	tests := []struct {
		name string
		item scene.Renderable
		want error
	}{
		{"no geometry", scene.Renderable{Material: m}, ErrMissingGeometry},
		{"zero material", scene.Renderable{Geometry: g}, ErrMissingMaterial},
		{"removed material", scene.Renderable{Geometry: g, Material: removed}, ErrMissingMaterial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, f.renderer.Submit(tt.item), tt.want)
		})
	}
}

func TestNoCamera(t *testing.T) {
	f := newFixture(t, 1000)
	g := f.quad(0)
	m := f.defaultMaterial("a")
	f.renderer.SetCamera(nil)

	assert.ErrorIs(t, f.renderer.Submit(at(g, m, math.Vec3{})), ErrNoCamera)
	assert.ErrorIs(t, f.renderer.Flush(), ErrNoCamera)
}

func TestMissingShader(t *testing.T) {
	f := newFixture(t, 1000)
	g := f.quad(0)
	m := f.defaultMaterial("a")
	f.registry.Remove("shader_basic")

	f.submit(at(g, m, math.Vec3{}))
	assert.ErrorIs(t, f.renderer.Flush(), ErrMissingShader)
	assert.Empty(t, f.dev.Draws)
	assert.Equal(t, gputest.DefaultState, f.dev.State)

	// The failed frame's batches are gone.
	require.NoError(t, f.renderer.Flush())
}

func TestMissingUniformBlock(t *testing.T) {
	f := newFixture(t, 1000)
	f.dev.KnownBlocks = nil
	sh, err := asset.GetOrLoad(f.registry, "shader_noblock", func() (*shader.Shader, error) {
		return shader.New(f.dev, "noblock", "vs", "fs")
	})
	require.NoError(t, err)

	g := f.quad(0)
	m := f.material("a", material.DefaultSpec(sh))

	f.submit(at(g, m, math.Vec3{}))
	assert.ErrorIs(t, f.renderer.Flush(), shader.ErrUniformBlockNotFound)
}

func TestRenderStatePerBatchAndRestore(t *testing.T) {
	f := newFixture(t, 1000)
	g := f.quad(0)

	spec := material.DefaultSpec(f.shader)
	spec.State = material.StateFor(material.AlphaBlend, true)
	m := f.material("glass", spec)

	f.submit(at(g, m, math.Vec3{}))
	require.NoError(t, f.renderer.Flush())

	require.Len(t, f.dev.Draws, 1)
	assert.Equal(t, gputest.State{Blend: true, DepthWrite: false, Cull: false}, f.dev.Draws[0].State)
	assert.Equal(t, gputest.DefaultState, f.dev.State)
}

func TestStateRestoredAfterCapacityFlush(t *testing.T) {
	f := newFixture(t, 1)
	g := f.quad(0)

	spec := material.DefaultSpec(f.shader)
	spec.State = material.RenderState{}
	f.submit(at(g, f.material("flat", spec), math.Vec3{}))

	require.Len(t, f.dev.Draws, 1)
	assert.Equal(t, gputest.State{}, f.dev.Draws[0].State)
	assert.Equal(t, gputest.DefaultState, f.dev.State)
}

func TestMaterialUniforms(t *testing.T) {
	f := newFixture(t, 1000)
	g := f.quad(0)

	tex, err := asset.GetOrLoad(f.registry, "texture_white.png", func() (*texture.Texture, error) {
		return texture.New(f.dev, "white.png", image.NewRGBA(image.Rect(0, 0, 2, 2)))
	})
	require.NoError(t, err)

	spec := material.DefaultSpec(f.shader)
	spec.Textures.BaseColor = tex
	spec.Params.BaseColorFactor = [4]float32{1, 0.5, 0.25, 1}
	spec.Params.AlphaCutoff = 0.3
	textured := f.material("textured", spec)
	plain := f.defaultMaterial("plain")

	f.submit(at(g, textured, math.Vec3{}))
	require.NoError(t, f.renderer.Flush())
	require.Len(t, f.dev.Draws, 1)

	draw := f.dev.Draws[0]
	require.NotNil(t, draw.Texture)
	assert.Same(t, f.dev.Textures[0], draw.Texture)
	assert.Equal(t, int32(1), draw.Program.Values[UniformHasTexture])
	assert.Equal(t, int32(0), draw.Program.Values[UniformTexture])
	assert.Equal(t, [4]float32{1, 0.5, 0.25, 1}, draw.Program.Values[UniformBaseColorFactor])
	assert.Equal(t, float32(0.3), draw.Program.Values[UniformAlphaCutoff])
	assert.Equal(t, uint32(FrameBinding), draw.Program.BlockBinding[FrameBlockName])

	f.dev.Reset()
	f.submit(at(g, plain, math.Vec3{}))
	require.NoError(t, f.renderer.Flush())
	require.Len(t, f.dev.Draws, 1)
	assert.Nil(t, f.dev.Draws[0].Texture)
	assert.Equal(t, int32(0), f.dev.Draws[0].Program.Values[UniformHasTexture])
	assert.Equal(t, float32(0.5), f.dev.Draws[0].Program.Values[UniformAlphaCutoff])
}

func readFloats(data []byte, offset, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = gomath.Float32frombits(binary.LittleEndian.Uint32(data[offset+i*4:]))
	}
	return out
}

func TestFrameUniformUpload(t *testing.T) {
	f := newFixture(t, 1000)
	f.camera.vp = math.Translate(math.V3(1, 2, 3))

	lights := lighting.NewLightSet()
	lights.Sun = lighting.Sun{Direction: math.V3(0, -2, 0), Color: math.V3(1, 0.5, 0.5), Intensity: 2}
	lights.Sky = lighting.Sky{Ambient: math.V3(0.1, 0.2, 0.3), Strength: 0.4}
	six := make([]lighting.PointLight, 6)
	for i := range six {
		six[i] = lighting.PointLight{Position: math.V3(float32(i), 0, 0), Color: math.V3(1, 1, 1), Intensity: 1, Range: 10}
	}
	lights.SetPointLights(six)
	f.renderer.SetLights(lights)

	require.NoError(t, f.renderer.Flush())

	require.Len(t, f.dev.Uniforms, 1)
	ubo := f.dev.Uniforms[0]
	require.Len(t, ubo.Data, FrameUniformsSize)
	assert.Equal(t, 256, FrameUniformsSize)
	assert.Equal(t, uint32(FrameBinding), ubo.Binding)

	vp := f.camera.vp
	assert.Equal(t, vp[:], readFloats(ubo.Data, 0, 16))
	assert.Equal(t, []float32{0, -1, 0, 0}, readFloats(ubo.Data, 64, 4))
	assert.Equal(t, []float32{2, 1, 1, 0}, readFloats(ubo.Data, 80, 4))
	assert.Equal(t, []float32{0.1, 0.2, 0.3, 0.4}, readFloats(ubo.Data, 96, 4))
	assert.Equal(t, float32(4), readFloats(ubo.Data, 112, 1)[0])
	assert.Equal(t, []float32{3, 0, 0, 10}, readFloats(ubo.Data, 128+3*32, 4))
	assert.Equal(t, []float32{1, 1, 1, 1}, readFloats(ubo.Data, 128+3*32+16, 4))
}

func TestPointLightClamp(t *testing.T) {
	six := make([]lighting.PointLight, 6)
	for i := range six {
		six[i] = lighting.DefaultPointLight()
	}

	// Both the light set and the uniform builder refuse more than four.
	set := lighting.NewLightSet()
	assert.Equal(t, 2, set.SetPointLights(six))

	u := NewFrameUniforms(math.Identity(), set)
	assert.Equal(t, lighting.MaxPointLights, u.PointLightCount())
}

func TestSubmitScene(t *testing.T) {
	f := newFixture(t, 1000)
	g := f.quad(0)
	m := f.defaultMaterial("a")

	s := scene.New()
	s.Add(at(g, m, math.Vec3{}))
	s.Add(at(g, m, math.Vec3{}))
	require.NoError(t, f.renderer.SubmitScene(s))
	require.NoError(t, f.renderer.Flush())
	assert.Equal(t, []int{2}, instanceCounts(f.dev.Draws))

	s.Add(scene.Renderable{Material: m})
	assert.ErrorIs(t, f.renderer.SubmitScene(s), ErrMissingGeometry)
}

func (f *fixture) modelScene(key string) *scene.Scene {
	f.t.Helper()
	g := f.quad(0)
	m := f.defaultMaterial("a")
	h, err := asset.GetOrLoad(f.registry, key, func() (*model.Model, error) {
		return model.New("quad.gltf", []model.SubMesh{{Geometry: g, Material: m}}), nil
	})
	require.NoError(f.t, err)

	s := scene.New()
	require.NoError(f.t, s.AddModelInstance(f.registry, h, scene.Identity()))
	return s
}

func TestRemovedModelReportsMissingGeometry(t *testing.T) {
	f := newFixture(t, 1000)
	s := f.modelScene("model_quad")

	require.True(t, f.registry.Remove("model_quad"))
	assert.ErrorIs(t, f.renderer.SubmitScene(s), ErrMissingGeometry)
	require.NoError(t, f.renderer.Flush())
	assert.Empty(t, f.dev.Draws)
}

func TestModelRemovedBeforeFlush(t *testing.T) {
	f := newFixture(t, 1000)
	s := f.modelScene("model_quad")

	require.NoError(t, f.renderer.SubmitScene(s))
	f.registry.Clear()
	assert.ErrorIs(t, f.renderer.Flush(), ErrMissingGeometry)
	assert.Empty(t, f.dev.Draws)

	// The failed frame still discards its batches.
	require.NoError(t, f.renderer.Flush())
	assert.Zero(t, f.renderer.Stats().DrawCalls)
}

func TestClearAndWireframe(t *testing.T) {
	f := newFixture(t, 1000)

	f.renderer.Clear()
	assert.Equal(t, 1, f.dev.Clears)
	assert.Equal(t, [3]float32{0.2, 0.3, 0.8}, f.dev.ClearColor)

	assert.True(t, f.renderer.ToggleWireframe())
	assert.True(t, f.dev.State.Wireframe)
	assert.False(t, f.renderer.ToggleWireframe())
	assert.False(t, f.dev.State.Wireframe)
}

func TestSetBatchSize(t *testing.T) {
	f := newFixture(t, 1000)
	f.renderer.SetBatchSize(0)
	assert.Equal(t, 1000, f.renderer.BatchSize())

	f.renderer.SetBatchSize(8)
	assert.Equal(t, 8, f.renderer.BatchSize())
	assert.Equal(t, 8*gpu.InstanceStride, f.renderer.GeometryOptions().InstanceCapacity)
}

func TestNewRejectsBadBatchSize(t *testing.T) {
	_, err := New(gputest.NewDevice(), asset.NewRegistry(), Options{})
	assert.Error(t, err)
}
