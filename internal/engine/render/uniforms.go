package render

import (
	"encoding/binary"
	gomath "math"

	"github.com/Faultbox/simple-engine/internal/engine/lighting"
	"github.com/Faultbox/simple-engine/pkg/math"
)

// Frame uniform block binding.
const (
	FrameBlockName = "FrameData"
	FrameBinding   = 0
)

// FrameUniformsSize is the std140 size of the FrameData block in bytes.
const FrameUniformsSize = 64 + 4*16 + lighting.MaxPointLights*32

// PointLightUniform is one point light in the frame block.
type PointLightUniform struct {
	PositionRange  math.Vec4
	ColorIntensity math.Vec4
}

// FrameUniforms mirrors the FrameData block:
//
//	layout(std140) uniform FrameData {
//	    mat4 u_ViewProj;
//	    vec4 u_SunDir;
//	    vec4 u_SunColor;
//	    vec4 u_Ambient;      // rgb, strength
//	    vec4 u_LightCounts;  // x = point lights
//	    PointLight u_PointLights[4];
//	};
type FrameUniforms struct {
	ViewProj    math.Mat4
	SunDir      math.Vec4
	SunColor    math.Vec4
	Ambient     math.Vec4
	LightCounts math.Vec4
	PointLights [lighting.MaxPointLights]PointLightUniform
}

// NewFrameUniforms fills the block from a view-projection matrix and lights.
func NewFrameUniforms(viewProj math.Mat4, lights *lighting.LightSet) FrameUniforms {
	u := FrameUniforms{
		ViewProj: viewProj,
		SunDir:   math.V4(lights.Sun.Direction.Normalize(), 0),
		SunColor: math.V4(lights.Sun.Radiance(), 0),
		Ambient:  math.V4(lights.Sky.Ambient, lights.Sky.Strength),
	}

	points := lights.PointLights()
	if len(points) > lighting.MaxPointLights {
		points = points[:lighting.MaxPointLights]
	}
	u.LightCounts[0] = float32(len(points))
	for i, p := range points {
		u.PointLights[i] = PointLightUniform{
			PositionRange:  math.V4(p.Position, p.Range),
			ColorIntensity: math.V4(p.Color, p.Intensity),
		}
	}
	return u
}

// PointLightCount returns the number of lights the block carries.
func (u *FrameUniforms) PointLightCount() int {
	return int(u.LightCounts[0])
}

// Encode writes the block in std140 layout.
func (u *FrameUniforms) Encode() []byte {
	buf := make([]byte, 0, FrameUniformsSize)
	put := func(vals ...float32) {
		for _, v := range vals {
			buf = binary.LittleEndian.AppendUint32(buf, gomath.Float32bits(v))
		}
	}

	put(u.ViewProj[:]...)
	put(u.SunDir[:]...)
	put(u.SunColor[:]...)
	put(u.Ambient[:]...)
	put(u.LightCounts[:]...)
	for _, p := range u.PointLights {
		put(p.PositionRange[:]...)
		put(p.ColorIntensity[:]...)
	}
	return buf
}
