package raster

import (
	"render-core/grerr"
	remath "render-core/math"
)

// View runs stage 2 (§4.2): build the look-at matrix from eye/look/up and
// transform every stage-1 vertex into camera space.
func View(triangles []Triangle, eye, look, up remath.Vec3) ([]Triangle, error) {
	v := remath.Mat4LookAt(eye, look, up)

	out := make([]Triangle, len(triangles))
	for i, tri := range triangles {
		out[i] = Triangle{Color: tri.Color}
		for j, vert := range tri.V {
			out[i].V[j] = v.ApplyPoint(vert)
		}
		if err := checkFiniteTriangle(out[i]); err != nil {
			return nil, grerr.Wrap(grerr.DegenerateTransform,
				"stage 2 produced a non-finite vertex", err)
		}
	}
	return out, nil
}
