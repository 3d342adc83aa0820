package raster

import (
	"render-core/grerr"
	remath "render-core/math"
)

// Projection runs stage 3 (§4.3): build the perspective matrix from vertical
// FOV/aspect/near/far and apply it to every stage-2 vertex with perspective
// divide.
func Projection(triangles []Triangle, fovYDeg, aspect, zNear, zFar float64) ([]Triangle, error) {
	if zNear >= zFar || zNear <= 0 {
		return nil, grerr.New(grerr.InvalidConfig, "zNear must be positive and less than zFar")
	}
	if fovYDeg <= -180 || fovYDeg >= 180 {
		return nil, grerr.New(grerr.InvalidConfig, "fovY must satisfy |fovY| < 180")
	}

	p := remath.Mat4Perspective(fovYDeg, aspect, zNear, zFar)

	out := make([]Triangle, len(triangles))
	for i, tri := range triangles {
		out[i] = Triangle{Color: tri.Color}
		for j, vert := range tri.V {
			proj, w := p.ApplyPointW(vert)
			if w != 0 {
				proj = remath.NewVec3(proj.X/w, proj.Y/w, proj.Z/w)
			}
			out[i].V[j] = proj
		}
		if err := checkFiniteTriangle(out[i]); err != nil {
			return nil, grerr.Wrap(grerr.DegenerateTransform,
				"stage 3 produced a non-finite vertex", err)
		}
	}
	return out, nil
}
