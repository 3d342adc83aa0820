package trace

import (
	"math"

	"render-core/core"
	remath "render-core/math"
	"render-core/rlog"
)

// Kind tags which variant a Primitive holds (§3, §9: a closed sum type
// rather than a base-class pointer).
type Kind int

const (
	KindSphere Kind = iota
	KindTriangle
	KindQuadric
	KindPlane
)

const (
	epsParallel = 1e-8
	epsHit      = 1e-8
)

// Primitive is the tagged union over Sphere/Triangle/Quadric/Plane (§3).
// Every variant carries Material; only the fields relevant to Kind are
// populated.
type Primitive struct {
	Kind     Kind
	Material Material

	// Sphere
	Center remath.Vec3
	Radius float64

	// Triangle
	V1, V2, V3 remath.Vec3

	// Quadric: A x^2 + B y^2 + C z^2 + D xy + E xz + F yz + G x + H y + I z + J = 0
	A, B, C, D, E, F, G, H, I, J float64
	BoxRef                       remath.Vec3 // reference corner
	BoxExtent                    remath.Vec3 // length(x), width(y), height(z); 0 = unbounded

	// Plane (Floor)
	TileCount             int
	TileSize              float64
	Height                float64
	TileColor1, TileColor2 core.Color
	Texture                *Texture
}

func NewSphere(center remath.Vec3, radius float64, mat Material) Primitive {
	return Primitive{Kind: KindSphere, Center: center, Radius: radius, Material: mat}
}

func NewTriangle(v1, v2, v3 remath.Vec3, mat Material) Primitive {
	return Primitive{Kind: KindTriangle, V1: v1, V2: v2, V3: v3, Material: mat}
}

// NewQuadric builds a general quadric with an axis-aligned bounding box
// given by a reference corner and per-axis extents (length,width,height for
// x,y,z); an extent of 0 means unbounded on that axis.
func NewQuadric(a, b, c, d, e, f, g, h, i, j float64, boxRef, boxExtent remath.Vec3, mat Material) Primitive {
	return Primitive{
		Kind: KindQuadric,
		A: a, B: b, C: c, D: d, E: e, F: f, G: g, H: h, I: i, J: j,
		BoxRef: boxRef, BoxExtent: boxExtent, Material: mat,
	}
}

// NewFloor builds the checkered finite-tile floor at z=height, a
// tileCount x tileCount grid of tileSize-sided square tiles centered at the
// origin, with tile (0,0) colored color1.
func NewFloor(tileCount int, tileSize, height float64, color1, color2 core.Color, texture *Texture, mat Material) Primitive {
	return Primitive{
		Kind: KindPlane, TileCount: tileCount, TileSize: tileSize, Height: height,
		TileColor1: color1, TileColor2: color2, Texture: texture, Material: mat,
	}
}

func (p *Primitive) floorRef() (refX, refY, width float64) {
	width = float64(p.TileCount) * p.TileSize
	return -width / 2, -width / 2, width
}

// Intersect returns the ray parameter t>0 of the nearest valid hit, per the
// per-variant rules of §4.5.
func (p *Primitive) Intersect(r Ray) (float64, bool) {
	switch p.Kind {
	case KindSphere:
		return p.intersectSphere(r)
	case KindTriangle:
		return p.intersectTriangle(r)
	case KindQuadric:
		return p.intersectQuadric(r)
	case KindPlane:
		return p.intersectPlane(r)
	}
	return 0, false
}

func (p *Primitive) intersectSphere(r Ray) (float64, bool) {
	oc := r.Origin.Sub(p.Center)
	b := 2 * oc.Dot(r.Direction)
	c := oc.LengthSqr() - p.Radius*p.Radius
	disc := b*b - 4*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / 2
	t2 := (-b + sq) / 2
	if t1 > 0 {
		return t1, true
	}
	if t2 > 0 {
		return t2, true
	}
	return 0, false
}

// intersectTriangle implements Möller-Trumbore (grounded on
// editor/raycast.go's mollerTrumbore in the teacher repo).
func (p *Primitive) intersectTriangle(r Ray) (float64, bool) {
	edge1 := p.V2.Sub(p.V1)
	edge2 := p.V3.Sub(p.V1)
	h := r.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsParallel && a < epsParallel {
		return 0, false
	}
	f := 1.0 / a
	s := r.Origin.Sub(p.V1)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(edge1)
	v := f * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := f * edge2.Dot(q)
	if t <= epsHit {
		return 0, false
	}
	return t, true
}

func (p *Primitive) quadricCoeffs(r Ray) (at, bt, ct float64) {
	o, d := r.Origin, r.Direction
	at = p.A*d.X*d.X + p.B*d.Y*d.Y + p.C*d.Z*d.Z +
		p.D*d.X*d.Y + p.E*d.X*d.Z + p.F*d.Y*d.Z
	bt = 2*p.A*o.X*d.X + 2*p.B*o.Y*d.Y + 2*p.C*o.Z*d.Z +
		p.D*(o.X*d.Y+o.Y*d.X) + p.E*(o.X*d.Z+o.Z*d.X) + p.F*(o.Y*d.Z+o.Z*d.Y) +
		p.G*d.X + p.H*d.Y + p.I*d.Z
	ct = p.A*o.X*o.X + p.B*o.Y*o.Y + p.C*o.Z*o.Z +
		p.D*o.X*o.Y + p.E*o.X*o.Z + p.F*o.Y*o.Z +
		p.G*o.X + p.H*o.Y + p.I*o.Z + p.J
	return
}

func (p *Primitive) withinBox(point remath.Vec3) bool {
	if p.BoxExtent.X != 0 {
		if point.X < p.BoxRef.X || point.X > p.BoxRef.X+p.BoxExtent.X {
			return false
		}
	}
	if p.BoxExtent.Y != 0 {
		if point.Y < p.BoxRef.Y || point.Y > p.BoxRef.Y+p.BoxExtent.Y {
			return false
		}
	}
	if p.BoxExtent.Z != 0 {
		if point.Z < p.BoxRef.Z || point.Z > p.BoxRef.Z+p.BoxExtent.Z {
			return false
		}
	}
	return true
}

func (p *Primitive) intersectQuadric(r Ray) (float64, bool) {
	at, bt, ct := p.quadricCoeffs(r)

	var roots []float64
	if math.Abs(at) < 1e-12 {
		if math.Abs(bt) < 1e-12 {
			return 0, false
		}
		roots = []float64{-ct / bt}
	} else {
		disc := bt*bt - 4*at*ct
		if disc < 0 {
			return 0, false
		}
		sq := math.Sqrt(disc)
		t1 := (-bt - sq) / (2 * at)
		t2 := (-bt + sq) / (2 * at)
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 <= epsHit {
			// smaller root behind the origin: only the larger root qualifies.
			roots = []float64{t2}
		} else {
			roots = []float64{t1, t2}
		}
	}

	for _, t := range roots {
		if t <= epsHit {
			continue
		}
		hitPoint := r.At(t)
		if p.withinBox(hitPoint) {
			return t, true
		}
	}
	return 0, false
}

func (p *Primitive) intersectPlane(r Ray) (float64, bool) {
	if r.Direction.Z == 0 {
		return 0, false
	}
	t := (p.Height - r.Origin.Z) / r.Direction.Z
	if t <= 0 {
		return 0, false
	}
	hit := r.At(t)
	refX, refY, width := p.floorRef()
	if hit.X < refX || hit.X > refX+width || hit.Y < refY || hit.Y > refY+width {
		return 0, false
	}
	return t, true
}

// Normal returns the surface normal at point (§4.5).
func (p *Primitive) Normal(point remath.Vec3) remath.Vec3 {
	switch p.Kind {
	case KindSphere:
		return point.Sub(p.Center).Normalize()
	case KindTriangle:
		return p.V2.Sub(p.V1).Cross(p.V3.Sub(p.V1)).Normalize()
	case KindQuadric:
		dx := 2*p.A*point.X + p.D*point.Y + p.E*point.Z + p.G
		dy := 2*p.B*point.Y + p.D*point.X + p.F*point.Z + p.H
		dz := 2*p.C*point.Z + p.E*point.X + p.F*point.Y + p.I
		gradient := remath.NewVec3(dx, dy, dz)
		if gradient.LengthSqr() == 0 {
			rlog.Logger().Warn("quadric gradient is zero-length at intersection point, normal undefined",
				"point", point)
			return remath.Vec3Zero
		}
		return gradient.Normalize()
	case KindPlane:
		return remath.NewVec3(0, 0, 1)
	}
	return remath.Vec3Zero
}

// SurfaceColor returns the (possibly textured/checkered) color at point
// (§4.5).
func (p *Primitive) SurfaceColor(point remath.Vec3) core.Color {
	if p.Kind != KindPlane {
		return p.Material.Base
	}

	refX, refY, _ := p.floorRef()
	localX := point.X - refX
	localY := point.Y - refY
	tileX := int(math.Floor(localX / p.TileSize))
	tileY := int(math.Floor(localY / p.TileSize))

	if p.Texture != nil {
		u := (localX - float64(tileX)*p.TileSize) / p.TileSize
		v := (localY - float64(tileY)*p.TileSize) / p.TileSize
		if u < 0 {
			u = 0
		}
		if u > 1 {
			u = 1
		}
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return p.Texture.Sample(u, v)
	}

	if (tileX+tileY)%2 == 0 {
		return p.TileColor1
	}
	return p.TileColor2
}
