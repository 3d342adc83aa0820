package trace

import "render-core/core"

// Texture is a pre-decoded RGB pixel grid addressed in [0,1]^2, v=0
// corresponding to the bitmap's bottom row (§6). Decoding an actual image
// file is an external collaborator's concern (§1); the core only ever
// consumes this already-decoded form.
type Texture struct {
	W, H   int
	Pixels [][]core.Color // Pixels[row][col], row 0 = top of the bitmap
}

// Sample looks up the nearest texel for (u,v) in [0,1]^2, flipping v so that
// v=1 addresses the bitmap's top row and v=0 its bottom row, per §4.5.
func (t *Texture) Sample(u, v float64) core.Color {
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

	col := int(u * float64(t.W))
	if col >= t.W {
		col = t.W - 1
	}
	// v=1 is the bitmap's top row (row 0); v=0 is the bottom row.
	row := int((1 - v) * float64(t.H))
	if row >= t.H {
		row = t.H - 1
	}
	return t.Pixels[row][col]
}
