package trace

import (
	"render-core/core"
	remath "render-core/math"
)

// PointLight is a position and a color (§3).
type PointLight struct {
	Position remath.Vec3
	Color    core.Color
}

// SpotLight is a PointLight plus a normalized direction and a cutoff
// half-angle in degrees (§3).
type SpotLight struct {
	PointLight
	Direction remath.Vec3
	CutoffDeg float64
}

// NewSpotLight normalizes direction, matching the invariant that cone axes
// are always unit vectors.
func NewSpotLight(position remath.Vec3, color core.Color, direction remath.Vec3, cutoffDeg float64) SpotLight {
	return SpotLight{
		PointLight: PointLight{Position: position, Color: color},
		Direction:  direction.Normalize(),
		CutoffDeg:  cutoffDeg,
	}
}
