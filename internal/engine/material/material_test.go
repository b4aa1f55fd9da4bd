package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateFor(t *testing.T) {
	tests := []struct {
		mode        AlphaMode
		doubleSided bool
		want        RenderState
	}{
		{AlphaOpaque, false, RenderState{Blend: false, DepthWrite: true, Cull: true}},
		{AlphaMask, false, RenderState{Blend: false, DepthWrite: true, Cull: true}},
		{AlphaBlend, false, RenderState{Blend: true, DepthWrite: false, Cull: true}},
		{AlphaBlend, true, RenderState{Blend: true, DepthWrite: false, Cull: false}},
		{AlphaOpaque, true, RenderState{Blend: false, DepthWrite: true, Cull: false}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, StateFor(tt.mode, tt.doubleSided))
		})
	}
}

func TestCutoffFor(t *testing.T) {
	assert.Equal(t, float32(0.3), CutoffFor(AlphaMask, 0.3))
	assert.Equal(t, float32(0), CutoffFor(AlphaOpaque, 0.3))
	assert.Equal(t, float32(0), CutoffFor(AlphaBlend, 0.3))
}

func TestParseAlphaMode(t *testing.T) {
	assert.Equal(t, AlphaMask, ParseAlphaMode("MASK"))
	assert.Equal(t, AlphaBlend, ParseAlphaMode("blend"))
	assert.Equal(t, AlphaOpaque, ParseAlphaMode(""))
	assert.Equal(t, AlphaOpaque, ParseAlphaMode("OPAQUE"))
}

func TestDefaultSpec(t *testing.T) {
	m := New("crate#default", DefaultSpec(Spec{}.Shader))

	assert.Equal(t, "crate#default", m.Name())
	assert.Equal(t, DefaultRenderState(), m.State())
	assert.Equal(t, [4]float32{1, 1, 1, 1}, m.Params().BaseColorFactor)
	assert.Equal(t, float32(0.5), m.Params().AlphaCutoff)
	assert.False(t, m.BaseColor().Valid())
}
