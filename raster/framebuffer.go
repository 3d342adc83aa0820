package raster

import (
	"sort"

	"render-core/core"
	"render-core/grerr"
	remath "render-core/math"
	"render-core/rlog"

	"golang.org/x/sync/errgroup"
)

// Config is the stage-4 rasterizer configuration (§4.4, §6). xRight = -xLeft
// and yTop = -yBottom are derived, not stored independently.
type Config struct {
	W, H    int
	XLeft   float64
	YBottom float64
	ZFront  float64
	ZRear   float64
}

func (c Config) xRight() float64 { return -c.XLeft }
func (c Config) yTop() float64   { return -c.YBottom }

func (c Config) validate() error {
	if c.W <= 0 || c.H <= 0 {
		return grerr.New(grerr.InvalidConfig, "W and H must be positive")
	}
	return nil
}

// Framebuffer holds the W×H pixel buffer and depth buffer produced by
// Rasterize. Pixel (0,0) is the top-left of the output image (§4.4).
type Framebuffer struct {
	W, H   int
	Pixels [][]core.Color
	Depth  [][]float64
}

func newFramebuffer(cfg Config) *Framebuffer {
	fb := &Framebuffer{W: cfg.W, H: cfg.H}
	fb.Pixels = make([][]core.Color, cfg.H)
	fb.Depth = make([][]float64, cfg.H)
	for i := 0; i < cfg.H; i++ {
		fb.Pixels[i] = make([]core.Color, cfg.W)
		fb.Depth[i] = make([]float64, cfg.W)
		for j := 0; j < cfg.W; j++ {
			fb.Depth[i][j] = cfg.ZRear
		}
	}
	return fb
}

// lcgColors assigns one flat RGB color per triangle from the fixed linear
// congruential generator specified in §4.4 and §9: seed 1,
// s <- 214013*s + 2531011, bits 16-30 of s mod 256, drawn R,G,B in order,
// one triangle after another. This must run up front, in input order,
// regardless of whether rasterization itself is parallelized (§5).
func lcgColors(n int) []core.Color {
	colors := make([]core.Color, n)
	seed := uint32(1)
	next := func() uint32 {
		seed = 214013*seed + 2531011
		return (seed >> 16) & 0xFF
	}
	for i := 0; i < n; i++ {
		r := float64(next()%256) / 255.0
		g := float64(next()%256) / 255.0
		b := float64(next()%256) / 255.0
		colors[i] = core.Color{R: r, G: g, B: b}
	}
	return colors
}

type edgeHit struct {
	x, z float64
}

// scanlineIntersections gathers all valid (non-horizontal, y-bracketing)
// edge intersections of the triangle with the horizontal line y=ys, per the
// "gather all, then take the two extreme x" interpretation mandated by §9's
// open question.
func scanlineIntersections(tri Triangle, ys float64) []edgeHit {
	edges := [3][2]remath.Vec3{
		{tri.V[0], tri.V[1]},
		{tri.V[0], tri.V[2]},
		{tri.V[1], tri.V[2]},
	}

	var hits []edgeHit
	for _, e := range edges {
		a, b := e[0], e[1]
		dy := a.Y - b.Y
		if dy > -1e-9 && dy < 1e-9 {
			continue // horizontal edge, excluded
		}
		lo, hi := a.Y, b.Y
		if lo > hi {
			lo, hi = hi, lo
		}
		if ys < lo || ys > hi {
			continue
		}
		t := (ys - a.Y) / (b.Y - a.Y)
		x := a.X + t*(b.X-a.X)
		z := a.Z + t*(b.Z-a.Z)
		hits = append(hits, edgeHit{x: x, z: z})
	}
	return hits
}

func round(f float64) int {
	if f >= 0 {
		return int(f + 0.5)
	}
	return int(f - 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// rasterizeRowRange fills framebuffer rows [rowLo,rowHi) with the
// contribution of every triangle, processed in input order so the z-buffer
// tie-break (keep the smaller input index on exact depth equality) and the
// single-threaded visibility result are reproduced exactly regardless of how
// many row bands run concurrently (§5).
func rasterizeRowRange(fb *Framebuffer, cfg Config, triangles []Triangle, colors []core.Color, rowLo, rowHi int) {
	dx := (cfg.xRight() - cfg.XLeft) / float64(cfg.W)
	dy := (cfg.yTop() - cfg.YBottom) / float64(cfg.H)

	for idx, tri := range triangles {
		v := tri.V
		order := []int{0, 1, 2}
		sort.Slice(order, func(i, j int) bool { return v[order[i]].Y > v[order[j]].Y })
		top := v[order[0]].Y
		bot := v[order[2]].Y

		yTopClamped := top
		if yTopClamped > cfg.yTop() {
			yTopClamped = cfg.yTop()
		}
		yBotClamped := bot
		if yBotClamped < cfg.YBottom {
			yBotClamped = cfg.YBottom
		}

		iTop := clampInt(round((yTopClamped-cfg.YBottom)/dy), 0, cfg.H-1)
		iBot := clampInt(round((yBotClamped-cfg.YBottom)/dy), 0, cfg.H-1)

		for i := iTop; i >= iBot; i-- {
			row := cfg.H - 1 - i
			if row < rowLo || row >= rowHi {
				continue
			}
			ys := cfg.YBottom + float64(i)*dy
			hits := scanlineIntersections(tri, ys)
			if len(hits) < 2 {
				continue
			}
			left, right := hits[0], hits[1]
			for _, h := range hits[2:] {
				if h.x < left.x {
					left = h
				}
				if h.x > right.x {
					right = h
				}
			}
			if left.x > right.x {
				left, right = right, left
			}

			cL := clampInt(round((left.x-cfg.XLeft)/dx), 0, cfg.W-1)
			cR := clampInt(round((right.x-cfg.XLeft)/dx), 0, cfg.W-1)

			for j := cL; j <= cR; j++ {
				var zp float64
				if right.x == left.x {
					zp = left.z
				} else {
					xp := cfg.XLeft + float64(j)*dx
					t := (xp - left.x) / (right.x - left.x)
					zp = left.z + t*(right.z-left.z)
				}
				if zp >= cfg.ZFront && zp < fb.Depth[row][j] {
					fb.Depth[row][j] = zp
					fb.Pixels[row][j] = colors[idx]
				}
			}
		}
	}
}

// Rasterize runs stage 4 (§4.4) single-threaded.
func Rasterize(triangles []Triangle, cfg Config) (*Framebuffer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	fb := newFramebuffer(cfg)
	colors := lcgColors(len(triangles))
	rasterizeRowRange(fb, cfg, triangles, colors, 0, cfg.H)
	rlog.Logger().Debug("rasterize complete", "triangles", len(triangles))
	return fb, nil
}

// RasterizeParallel runs stage 4 with the per-row-band parallelism §5
// allows: colors are assigned from the LCG up front in input order, then
// disjoint row bands are filled concurrently. Each band only ever writes
// pixels that belong to it and processes triangles in their original order,
// so the result is bit-for-bit identical to Rasterize.
func RasterizeParallel(triangles []Triangle, cfg Config, workers int) (*Framebuffer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	fb := newFramebuffer(cfg)
	colors := lcgColors(len(triangles))

	band := (cfg.H + workers - 1) / workers
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		rowLo := w * band
		rowHi := rowLo + band
		if rowHi > cfg.H {
			rowHi = cfg.H
		}
		if rowLo >= rowHi {
			continue
		}
		g.Go(func() error {
			rasterizeRowRange(fb, cfg, triangles, colors, rowLo, rowHi)
			return nil
		})
	}
	_ = g.Wait()
	rlog.Logger().Debug("parallel rasterize complete", "triangles", len(triangles), "workers", workers)
	return fb, nil
}
