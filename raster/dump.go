package raster

import (
	"fmt"
	"io"
)

// WriteStageDump writes the §6 stage dump format: each triangle as three
// lines of x y z formatted with 7 fractional digits, followed by a blank
// line between triangles.
func WriteStageDump(w io.Writer, triangles []Triangle) error {
	for _, tri := range triangles {
		for _, v := range tri.V {
			if _, err := fmt.Fprintf(w, "%.7f %.7f %.7f\n", v.X, v.Y, v.Z); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// WriteDepthFile writes the §4.4 depth dump: one line per row, tab-separated
// depth values of the pixels in that row whose depth was updated from
// cfg.ZRear, in column order, each row terminated with a newline whether or
// not any pixel in it was updated.
func WriteDepthFile(w io.Writer, fb *Framebuffer, zRear float64) error {
	for row := 0; row < fb.H; row++ {
		first := true
		for col := 0; col < fb.W; col++ {
			d := fb.Depth[row][col]
			if d >= zRear {
				continue
			}
			if !first {
				if _, err := fmt.Fprint(w, "\t"); err != nil {
					return err
				}
			}
			first = false
			if _, err := fmt.Fprintf(w, "%v", d); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// RGBImage returns the W×H array of 8-bit RGB triples, pixel (0,0) top-left,
// ready for an external encoder (§6).
func (fb *Framebuffer) RGBImage() [][][3]uint8 {
	out := make([][][3]uint8, fb.H)
	for row := 0; row < fb.H; row++ {
		out[row] = make([][3]uint8, fb.W)
		for col := 0; col < fb.W; col++ {
			r, g, b := fb.Pixels[row][col].RGB8()
			out[row][col] = [3]uint8{r, g, b}
		}
	}
	return out
}
