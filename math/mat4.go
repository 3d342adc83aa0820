package math

import "math"

// Mat4 is a row-major 4x4 matrix used with the column-vector convention:
// transforming a point is M.ApplyPoint(p), equivalent to M*p for p as a
// column vector.
type Mat4 [4][4]float64

func Mat4Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func Mat4Zero() Mat4 {
	return Mat4{}
}

// Mul returns m*other.
func (m Mat4) Mul(other Mat4) Mat4 {
	result := Mat4Zero()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += m[i][k] * other[k][j]
			}
			result[i][j] = sum
		}
	}
	return result
}

// ApplyPoint treats p as the homogeneous column (x,y,z,1), multiplies by m,
// and divides xyz by the resulting w when w is neither 0 nor 1.
func (m Mat4) ApplyPoint(p Vec3) Vec3 {
	x := m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3]
	y := m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3]
	z := m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3]
	w := m[3][0]*p.X + m[3][1]*p.Y + m[3][2]*p.Z + m[3][3]
	if w != 0 && w != 1 {
		return Vec3{X: x / w, Y: y / w, Z: z / w}
	}
	return Vec3{X: x, Y: y, Z: z}
}

// ApplyPointW behaves like ApplyPoint but also returns the raw w before
// division, for callers (stage 3) that need it for the perspective divide.
func (m Mat4) ApplyPointW(p Vec3) (Vec3, float64) {
	x := m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3]
	y := m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3]
	z := m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3]
	w := m[3][0]*p.X + m[3][1]*p.Y + m[3][2]*p.Z + m[3][3]
	return Vec3{X: x, Y: y, Z: z}, w
}

// ApplyVector treats v as the homogeneous column (x,y,z,0); no perspective
// divide is ever performed.
func (m Mat4) ApplyVector(v Vec3) Vec3 {
	x := m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z
	y := m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z
	z := m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z
	return Vec3{X: x, Y: y, Z: z}
}

func Mat4Translation(t Vec3) Mat4 {
	m := Mat4Identity()
	m[0][3] = t.X
	m[1][3] = t.Y
	m[2][3] = t.Z
	return m
}

func Mat4Scale(s Vec3) Mat4 {
	m := Mat4Identity()
	m[0][0] = s.X
	m[1][1] = s.Y
	m[2][2] = s.Z
	return m
}

// Mat4Rotation builds the rotation matrix for §4.1: normalize axis, rotate
// each standard basis vector by degrees about it via Rodrigues' formula, and
// place the results as the first three columns.
func Mat4Rotation(axis Vec3, degrees float64) Mat4 {
	ex := Vec3{X: 1, Y: 0, Z: 0}.Rotate(axis, degrees)
	ey := Vec3{X: 0, Y: 1, Z: 0}.Rotate(axis, degrees)
	ez := Vec3{X: 0, Y: 0, Z: 1}.Rotate(axis, degrees)
	return Mat4{
		{ex.X, ey.X, ez.X, 0},
		{ex.Y, ey.Y, ez.Y, 0},
		{ex.Z, ey.Z, ez.Z, 0},
		{0, 0, 0, 1},
	}
}

// Mat4LookAt builds the §4.2 view matrix V = R*T from eye/look-target/up.
func Mat4LookAt(eye, target, up Vec3) Mat4 {
	l := target.Sub(eye).Normalize()
	r := l.Cross(up).Normalize()
	u := r.Cross(l)

	rot := Mat4{
		{r.X, r.Y, r.Z, 0},
		{u.X, u.Y, u.Z, 0},
		{-l.X, -l.Y, -l.Z, 0},
		{0, 0, 0, 1},
	}
	trans := Mat4Translation(eye.Negate())
	return rot.Mul(trans)
}

// Mat4Perspective builds the §4.3 right-handed OpenGL-style perspective
// matrix from vertical FOV (degrees), aspect ratio, and near/far planes.
func Mat4Perspective(fovYDeg, aspect, near, far float64) Mat4 {
	fovYRad := fovYDeg * math.Pi / 180.0
	fovXRad := fovYRad * aspect
	t := near * math.Tan(fovYRad/2)
	r := near * math.Tan(fovXRad/2)

	m := Mat4Zero()
	m[0][0] = near / r
	m[1][1] = near / t
	m[2][2] = -(far + near) / (far - near)
	m[2][3] = -(2 * far * near) / (far - near)
	m[3][2] = -1
	return m
}
