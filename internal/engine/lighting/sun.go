package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/simple-engine/pkg/math"
)

// SunDirection converts longitude/latitude angles in degrees to a light direction.
// Longitude rotates around the Y axis, latitude is the elevation above the horizon.
// The result points from the sun towards the scene.
func SunDirection(longitude, latitude float32) math.Vec3 {
	lon := math.Radians(longitude)
	lat := math.Radians(latitude)

	toSun := math.V3(
		math32.Cos(lat)*math32.Sin(lon),
		math32.Sin(lat),
		math32.Cos(lat)*math32.Cos(lon),
	)
	return toSun.Scale(-1)
}
