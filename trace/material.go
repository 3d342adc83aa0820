package trace

import "render-core/core"

// Coefficients holds the four Phong response weights, each nominally in
// [0,1] (§3). Reflection contribution is scaled by this value without
// renormalization (§3 invariant).
type Coefficients struct {
	Ambient    float64
	Diffuse    float64
	Specular   float64
	Reflection float64
}

// Material is the per-primitive appearance and shading response (§3).
type Material struct {
	Base      core.Color
	Coeffs    Coefficients
	Shininess int
}
