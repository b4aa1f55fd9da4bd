package material

import "strings"

// AlphaMode is the glTF alpha mode.
type AlphaMode int

const (
	AlphaOpaque AlphaMode = iota
	AlphaMask
	AlphaBlend
)

// ParseAlphaMode maps "OPAQUE", "MASK" and "BLEND". Anything else is opaque.
func ParseAlphaMode(s string) AlphaMode {
	switch strings.ToUpper(s) {
	case "MASK":
		return AlphaMask
	case "BLEND":
		return AlphaBlend
	default:
		return AlphaOpaque
	}
}

func (a AlphaMode) String() string {
	switch a {
	case AlphaMask:
		return "MASK"
	case AlphaBlend:
		return "BLEND"
	default:
		return "OPAQUE"
	}
}

// StateFor derives the render state of an imported material. Blended
// materials do not write depth; double-sided ones are not culled.
func StateFor(mode AlphaMode, doubleSided bool) RenderState {
	blend := mode == AlphaBlend
	return RenderState{
		Blend:      blend,
		DepthWrite: !blend,
		Cull:       !doubleSided,
	}
}

// CutoffFor keeps the cutoff only for masked materials.
func CutoffFor(mode AlphaMode, cutoff float32) float32 {
	if mode == AlphaMask {
		return cutoff
	}
	return 0
}
