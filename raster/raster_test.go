package raster

import (
	"bytes"
	"strings"
	"testing"

	remath "render-core/math"
)

func TestModelIdentityRoundTrip(t *testing.T) {
	v1 := remath.NewVec3(0, 0, 0)
	v2 := remath.NewVec3(1, 0, 0)
	v3 := remath.NewVec3(0, 1, 0)

	tris, err := Model([]Command{TriangleCmd(v1, v2, v3)})
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	if len(tris) != 1 {
		t.Fatalf("expected 1 triangle, got %d", len(tris))
	}
	got := tris[0].V
	want := [3]remath.Vec3{v1, v2, v3}
	for i := range want {
		if got[i].Distance(want[i]) > 1e-9 {
			t.Errorf("vertex %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestModelStackNeverEmpties(t *testing.T) {
	s := newStack()
	for i := 0; i < 5; i++ {
		s.pop()
	}
	if len(s.frames) != 1 {
		t.Fatalf("expected stack to retain 1 frame, got %d", len(s.frames))
	}
}

func TestModelPushTranslatePop(t *testing.T) {
	unit := remath.NewVec3(0, 0, 0)
	unit2 := remath.NewVec3(1, 0, 0)
	unit3 := remath.NewVec3(0, 1, 0)

	cmds := []Command{
		Push(),
		Translate(1, 0, 0),
		Push(),
		Translate(1, 0, 0),
		TriangleCmd(unit, unit2, unit3),
		Pop(),
		TriangleCmd(unit, unit2, unit3),
		Pop(),
		TriangleCmd(unit, unit2, unit3),
	}

	tris, err := Model(cmds)
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	if len(tris) != 3 {
		t.Fatalf("expected 3 triangles, got %d", len(tris))
	}
	wantX := []float64{2, 1, 0}
	for i, tri := range tris {
		if tri.V[0].X != wantX[i] {
			t.Errorf("triangle %d: expected x offset %v, got %v", i, wantX[i], tri.V[0].X)
		}
	}
}

func TestLCGColorsDeterministic(t *testing.T) {
	a := lcgColors(5)
	b := lcgColors(5)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("color %d differs across runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestRasterizeUnitSquare(t *testing.T) {
	// Two triangles covering the NDC square [-1,1]^2 at z=0, split along the
	// diagonal from (-1,-1) to (1,1).
	lower := Triangle{V: [3]remath.Vec3{
		remath.NewVec3(-1, -1, 0),
		remath.NewVec3(1, -1, 0),
		remath.NewVec3(1, 1, 0),
	}}
	upper := Triangle{V: [3]remath.Vec3{
		remath.NewVec3(-1, -1, 0),
		remath.NewVec3(1, 1, 0),
		remath.NewVec3(-1, 1, 0),
	}}

	cfg := Config{W: 4, H: 4, XLeft: -1, YBottom: -1, ZFront: -10, ZRear: 10}
	fb, err := Rasterize([]Triangle{lower, upper}, cfg)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}

	covered := 0
	for row := 0; row < fb.H; row++ {
		for col := 0; col < fb.W; col++ {
			if fb.Depth[row][col] < cfg.ZRear {
				covered++
			}
		}
	}
	if covered != 16 {
		t.Errorf("expected all 16 pixels covered, got %d", covered)
	}
}

func TestRasterizeParallelMatchesSequential(t *testing.T) {
	lower := Triangle{V: [3]remath.Vec3{
		remath.NewVec3(-1, -1, 0),
		remath.NewVec3(1, -1, 0),
		remath.NewVec3(1, 1, 0),
	}}
	upper := Triangle{V: [3]remath.Vec3{
		remath.NewVec3(-1, -1, 0),
		remath.NewVec3(1, 1, 0),
		remath.NewVec3(-1, 1, 0),
	}}
	cfg := Config{W: 16, H: 16, XLeft: -1, YBottom: -1, ZFront: -10, ZRear: 10}
	triangles := []Triangle{lower, upper}

	seq, err := Rasterize(triangles, cfg)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	par, err := RasterizeParallel(triangles, cfg, 4)
	if err != nil {
		t.Fatalf("RasterizeParallel: %v", err)
	}

	for row := 0; row < cfg.H; row++ {
		for col := 0; col < cfg.W; col++ {
			if seq.Pixels[row][col] != par.Pixels[row][col] {
				t.Fatalf("pixel (%d,%d) differs: seq=%v par=%v", row, col, seq.Pixels[row][col], par.Pixels[row][col])
			}
			if seq.Depth[row][col] != par.Depth[row][col] {
				t.Fatalf("depth (%d,%d) differs: seq=%v par=%v", row, col, seq.Depth[row][col], par.Depth[row][col])
			}
		}
	}
}

func TestDepthNeverExceedsRearOrFront(t *testing.T) {
	tri := Triangle{V: [3]remath.Vec3{
		remath.NewVec3(-0.5, -0.5, 0.25),
		remath.NewVec3(0.5, -0.5, 0.25),
		remath.NewVec3(0, 0.5, 0.25),
	}}
	cfg := Config{W: 8, H: 8, XLeft: -1, YBottom: -1, ZFront: -1, ZRear: 1}
	fb, err := Rasterize([]Triangle{tri}, cfg)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	for row := 0; row < fb.H; row++ {
		for col := 0; col < fb.W; col++ {
			d := fb.Depth[row][col]
			if d < cfg.ZFront || d > cfg.ZRear {
				t.Fatalf("depth (%d,%d)=%v outside [%v,%v]", row, col, d, cfg.ZFront, cfg.ZRear)
			}
		}
	}
}

func TestWriteStageDumpFormat(t *testing.T) {
	tris := []Triangle{{V: [3]remath.Vec3{
		remath.NewVec3(1, 2, 3),
		remath.NewVec3(4, 5, 6),
		remath.NewVec3(7, 8, 9),
	}}}
	var buf bytes.Buffer
	if err := WriteStageDump(&buf, tris); err != nil {
		t.Fatalf("WriteStageDump: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (no trailing blank after trim), got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "1.0000000 2.0000000 3.0000000" {
		t.Errorf("unexpected first line: %q", lines[0])
	}
}

func TestDegenerateTriangleSkippedWithoutFailure(t *testing.T) {
	// Collinear vertices: zero area, should rasterize to nothing but not error.
	tri := Triangle{V: [3]remath.Vec3{
		remath.NewVec3(-1, 0, 0),
		remath.NewVec3(0, 0, 0),
		remath.NewVec3(1, 0, 0),
	}}
	cfg := Config{W: 4, H: 4, XLeft: -1, YBottom: -1, ZFront: -10, ZRear: 10}
	fb, err := Rasterize([]Triangle{tri}, cfg)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	for row := 0; row < fb.H; row++ {
		for col := 0; col < fb.W; col++ {
			if fb.Depth[row][col] != cfg.ZRear {
				t.Errorf("expected untouched depth at (%d,%d)", row, col)
			}
		}
	}
}
