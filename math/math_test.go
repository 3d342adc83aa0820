package math

import (
	"math"
	"testing"
)

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	result := v1.Add(v2)
	expected := NewVec3(5, 7, 9)
	if result != expected {
		t.Errorf("Add: expected %v, got %v", expected, result)
	}

	result = v2.Sub(v1)
	expected = NewVec3(3, 3, 3)
	if result != expected {
		t.Errorf("Sub: expected %v, got %v", expected, result)
	}

	result = v1.Mul(2)
	expected = NewVec3(2, 4, 6)
	if result != expected {
		t.Errorf("Mul: expected %v, got %v", expected, result)
	}

	dot := v1.Dot(v2)
	expectedDot := 32.0 // 1*4 + 2*5 + 3*6
	if dot != expectedDot {
		t.Errorf("Dot: expected %v, got %v", expectedDot, dot)
	}

	cross := NewVec3(1, 0, 0).Cross(Vec3Up)
	expectedCross := NewVec3(0, 0, 1)
	if cross != expectedCross {
		t.Errorf("Cross: expected %v, got %v", expectedCross, cross)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 0, 0)
	normalized := v.Normalize()
	expected := NewVec3(1, 0, 0)

	if normalized != expected {
		t.Errorf("Normalize: expected %v, got %v", expected, normalized)
	}

	length := normalized.Length()
	if math.Abs(length-1) > 0.0001 {
		t.Errorf("Normalize: expected length 1, got %v", length)
	}
}

func TestVec3NormalizeZeroIsNoOp(t *testing.T) {
	if got := Vec3Zero.Normalize(); got != Vec3Zero {
		t.Errorf("Normalize of zero vector: expected no-op, got %v", got)
	}
}

func TestVec3RotateRoundTrip(t *testing.T) {
	axis := NewVec3(0.2, 1, -0.4)
	v := NewVec3(1.5, -2, 3)

	got := v.Rotate(axis, 37).Rotate(axis, -37)
	if got.Distance(v) > 1e-9 {
		t.Errorf("Rotate round-trip: expected %v, got %v", v, got)
	}
}

func TestVec3RotateZeroAxisIsIdentity(t *testing.T) {
	v := NewVec3(1, 2, 3)
	if got := v.Rotate(Vec3Zero, 90); got != v {
		t.Errorf("Rotate about zero axis: expected %v, got %v", v, got)
	}
}

func TestMat4Identity(t *testing.T) {
	m := Mat4Identity()

	for i := 0; i < 4; i++ {
		if m[i][i] != 1 {
			t.Errorf("Identity: expected diagonal to be 1, got %v", m[i][i])
		}
	}

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i != j && m[i][j] != 0 {
				t.Errorf("Identity: expected non-diagonal to be 0, got %v", m[i][j])
			}
		}
	}
}

func TestMat4Multiplication(t *testing.T) {
	m1 := Mat4Identity()
	m2 := Mat4Identity()

	result := m1.Mul(m2)

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			expected := 0.0
			if i == j {
				expected = 1
			}
			if result[i][j] != expected {
				t.Errorf("Mul: expected [%d][%d] = %v, got %v", i, j, expected, result[i][j])
			}
		}
	}
}

func TestMat4Translation(t *testing.T) {
	translation := NewVec3(1, 2, 3)
	m := Mat4Translation(translation)

	if m[0][3] != 1 || m[1][3] != 2 || m[2][3] != 3 {
		t.Errorf("Translation: expected (1,2,3), got (%v,%v,%v)", m[0][3], m[1][3], m[2][3])
	}

	result := m.ApplyPoint(Vec3Zero)
	if result != translation {
		t.Errorf("Translation: expected %v, got %v", translation, result)
	}
}

func TestMat4Perspective(t *testing.T) {
	m := Mat4Perspective(45, 16.0/9.0, 0.1, 100.0)

	if m[0][0] == 0 {
		t.Error("Perspective: expected non-zero X scale")
	}
	if m[1][1] == 0 {
		t.Error("Perspective: expected non-zero Y scale")
	}
}

func TestMat4LookAtTransformsEyeToOrigin(t *testing.T) {
	eye := NewVec3(0, 0, 5)
	target := Vec3Zero
	up := Vec3Up

	m := Mat4LookAt(eye, target, up)
	result := m.ApplyPoint(eye)

	const tolerance = 1e-9
	if math.Abs(result.X) > tolerance || math.Abs(result.Y) > tolerance || math.Abs(result.Z) > tolerance {
		t.Errorf("LookAt: expected eye to transform to origin, got %v", result)
	}
}

func TestMat4LookAtLookDirectionIsNegativeZ(t *testing.T) {
	eye := NewVec3(3, 4, 5)
	target := NewVec3(1, 1, 1)
	up := Vec3Up

	m := Mat4LookAt(eye, target, up)
	lookDir := target.Sub(eye).Normalize()
	transformed := m.ApplyVector(lookDir)

	expected := NewVec3(0, 0, -1)
	if transformed.Distance(expected) > 1e-9 {
		t.Errorf("LookAt: expected transformed look direction %v, got %v", expected, transformed)
	}
}

func BenchmarkVec3Add(b *testing.B) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	for i := 0; i < b.N; i++ {
		_ = v1.Add(v2)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Mat4Identity()
	m2 := Mat4Identity()

	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}
