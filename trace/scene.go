package trace

import (
	remath "render-core/math"
)

// Scene collects everything the ray caster needs: the recursion budget, the
// square output resolution, the primitive list (index 0 is conventionally
// the floor, per the collaborator's scene-loading responsibility), the
// lights, the clip range, the vertical field of view, and the camera (§3).
type Scene struct {
	RecursionDepth int
	ImageSize      int
	Primitives     []Primitive
	PointLights    []PointLight
	SpotLights     []SpotLight
	ZNear          float64
	ZFar           float64
	FovYDeg        float64
	Camera         Camera
}

// Nearest scans every primitive linearly and returns the closest
// intersection whose t lies within (0, maxT], per §4.6's resolution that
// clipping uses the original camera-relative range rather than a
// per-bounce range.
func (s *Scene) Nearest(r Ray, maxT float64) (Hit, bool) {
	best := Hit{T: maxT}
	found := false
	for i := range s.Primitives {
		prim := &s.Primitives[i]
		t, ok := prim.Intersect(r)
		if !ok || t <= 0 || t > best.T {
			continue
		}
		point := r.At(t)
		best = Hit{
			T:         t,
			Primitive: prim,
			Point:     point,
			Normal:    prim.Normal(point),
			Color:     prim.SurfaceColor(point),
		}
		found = true
	}
	return best, found
}

// unitVecOrZero normalizes v, returning the zero vector when v has zero
// length so callers never divide by zero.
func unitVecOrZero(v remath.Vec3) remath.Vec3 {
	if v.LengthSqr() == 0 {
		return v
	}
	return v.Normalize()
}
