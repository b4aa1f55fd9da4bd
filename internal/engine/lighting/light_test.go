package lighting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/simple-engine/pkg/math"
)

func TestSetPointLightsClamps(t *testing.T) {
	set := NewLightSet()

	lights := make([]PointLight, 6)
	for i := range lights {
		lights[i] = DefaultPointLight()
		lights[i].Position = math.V3(float32(i), 0, 0)
	}

	dropped := set.SetPointLights(lights)
	assert.Equal(t, 2, dropped)
	assert.Equal(t, MaxPointLights, set.Count())
	got := set.PointLights()
	assert.Len(t, got, MaxPointLights)
	assert.Equal(t, float32(3), got[3].Position.X)
}

func TestAddPointLight(t *testing.T) {
	set := NewLightSet()
	for i := 0; i < MaxPointLights; i++ {
		assert.True(t, set.AddPointLight(DefaultPointLight()))
	}
	assert.False(t, set.AddPointLight(DefaultPointLight()))

	set.Clear()
	assert.Equal(t, 0, set.Count())
	assert.Empty(t, set.PointLights())
}

func TestSetPointLightsReplaces(t *testing.T) {
	set := NewLightSet()
	set.SetPointLights(make([]PointLight, 3))
	assert.Equal(t, 0, set.SetPointLights([]PointLight{DefaultPointLight()}))
	assert.Equal(t, 1, set.Count())
}

func TestSunRadiance(t *testing.T) {
	sun := Sun{Color: math.V3(1, 0.5, 0), Intensity: 2}
	assert.Equal(t, math.V3(2, 1, 0), sun.Radiance())
}

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float32
		want     math.Vec3
	}{
		{"zenith", 0, 90, math.V3(0, -1, 0)},
		{"horizon south", 0, 0, math.V3(0, 0, -1)},
		{"horizon east", 90, 0, math.V3(-1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.lon, tt.lat)
			assert.InDelta(t, tt.want.X, got.X, 1e-5)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-5)
			assert.InDelta(t, tt.want.Z, got.Z, 1e-5)
			assert.InDelta(t, 1, got.Length(), 1e-5)
		})
	}
}
