package trace

import (
	"math"

	"render-core/core"
	remath "render-core/math"
	"render-core/rlog"
)

// shadeEpsilon offsets shadow/reflection ray origins off the surface and is
// also the shadow-ray near-miss tolerance (grounded on original_source's
// Config::EPSILON usage in Object::isInShadow and Object::computeReflection).
const shadeEpsilon = 1e-6

// reflectDirection mirrors incident about normal: the standard
// incident - 2*(incident.normal)*normal reflection, matching
// Object::getReflectionDirection.
func reflectDirection(incident, normal remath.Vec3) remath.Vec3 {
	return incident.Sub(normal.Mul(2 * incident.Dot(normal)))
}

// isInShadow casts a ray from lightPos toward point and reports whether any
// primitive occludes it strictly before lightDistance, matching the
// light-to-point shadow ray direction used by the source (rather than
// point-to-light) so the epsilon tolerance applies at the receiving end.
func (s *Scene) isInShadow(point, lightPos remath.Vec3, lightDistance float64) bool {
	dir := unitVecOrZero(point.Sub(lightPos))
	shadowRay := Ray{Origin: lightPos, Direction: dir}
	for i := range s.Primitives {
		t, ok := s.Primitives[i].Intersect(shadowRay)
		if ok && t > 0 && t+shadeEpsilon < lightDistance {
			return true
		}
	}
	return false
}

// isPointVisible reports whether point lies within [zNear, zFar] measured
// along the original (non-reflected) camera look direction from the
// original camera position — the resolved semantics for reflection-ray
// clipping (§9).
func (s *Scene) isPointVisible(point, cameraPos, cameraLook remath.Vec3, zNear, zFar float64) bool {
	t := point.Sub(cameraPos).Dot(cameraLook)
	return t >= zNear && t <= zFar
}

// Shade computes the Phong-illuminated, recursively-reflected color seen
// along ray, given it struck hit, at recursion level (0 = primary ray).
// cameraPos/cameraLook are always the *original* camera's position and look
// direction, used only for reflection-ray visibility clipping.
func (s *Scene) Shade(ray Ray, hit Hit, level int, cameraPos, cameraLook remath.Vec3) core.Color {
	mat := hit.Primitive.Material
	result := hit.Color.Mul(mat.Coeffs.Ambient)

	normal := hit.Normal
	for _, pl := range s.PointLights {
		result = result.Add(s.lightContribution(hit, ray, pl.Position, pl.Color, normal))
	}
	for _, sl := range s.SpotLights {
		toPoint := unitVecOrZero(hit.Point.Sub(sl.Position))
		betaDeg := radToDeg(math.Acos(clampUnit(toPoint.Dot(sl.Direction))))
		if math.Abs(betaDeg) > sl.CutoffDeg {
			continue
		}
		result = result.Add(s.lightContribution(hit, ray, sl.Position, sl.Color, normal))
	}

	if level < s.RecursionDepth {
		reflectedDir := unitVecOrZero(reflectDirection(ray.Direction, normal))
		reflectedOrigin := hit.Point.Add(reflectedDir.Mul(shadeEpsilon))
		reflectedRay := Ray{Origin: reflectedOrigin, Direction: reflectedDir}

		if rh, ok := s.Nearest(reflectedRay, math.MaxFloat64); ok {
			if s.isPointVisible(rh.Point, cameraPos, cameraLook, s.ZNear, s.ZFar) {
				reflected := s.Shade(reflectedRay, rh, level+1, cameraPos, cameraLook)
				result = result.Add(reflected.Mul(mat.Coeffs.Reflection))
			}
		}
	} else {
		rlog.Logger().Debug("reflection recursion bottomed out", "level", level, "recursionDepth", s.RecursionDepth)
	}

	return result.Clamp()
}

// lightContribution adds one light's diffuse+specular term, or zero if the
// point is in shadow of that light.
func (s *Scene) lightContribution(hit Hit, observer Ray, lightPos remath.Vec3, lightColor core.Color, normal remath.Vec3) core.Color {
	toLight := lightPos.Sub(hit.Point)
	distance := toLight.Length()
	if distance < shadeEpsilon {
		return core.ColorBlack
	}

	if s.isInShadow(hit.Point, lightPos, distance) {
		return core.ColorBlack
	}

	incident := unitVecOrZero(hit.Point.Sub(lightPos))
	reflected := unitVecOrZero(reflectDirection(incident, normal))

	diffuse := math.Max(-incident.Dot(normal), 0)
	specular := math.Max(-reflected.Dot(observer.Direction), 0)

	mat := hit.Primitive.Material
	diffuseTerm := mat.Coeffs.Diffuse * diffuse
	specularTerm := mat.Coeffs.Specular * math.Pow(specular, float64(mat.Shininess))

	perChannel := lightColor.MulColor(hit.Color).Mul(diffuseTerm + specularTerm)
	return perChannel
}

func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

func radToDeg(rad float64) float64 { return rad * 180 / math.Pi }
