package trace

import (
	"render-core/core"
	remath "render-core/math"
)

// Ray is an origin and a (caller-normalized) direction.
type Ray struct {
	Origin    remath.Vec3
	Direction remath.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) remath.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Hit is the result of a nearest-primitive intersection test.
type Hit struct {
	T         float64
	Primitive *Primitive
	Point     remath.Vec3
	Normal    remath.Vec3
	Color     core.Color
}
