// Command trace is a thin collaborator around render-core/trace: it parses
// the §6 ray-tracing scene-document text format, prepends the implicit
// floor primitive, casts the image, and PNG-encodes the result. Parsing and
// encoding are collaborator concerns, not core ones.
package main

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"

	"golang.org/x/image/bmp"

	"render-core/core"
	remath "render-core/math"
	"render-core/rlog"
	"render-core/trace"
)

func main() {
	rlog.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: trace <scene-file> <output-png> [floor-texture.bmp]")
		os.Exit(2)
	}
	texturePath := ""
	if len(os.Args) >= 4 {
		texturePath = os.Args[3]
	}
	if err := run(os.Args[1], os.Args[2], texturePath); err != nil {
		fmt.Fprintln(os.Stderr, "trace:", err)
		os.Exit(1)
	}
}

func run(scenePath, outPath, texturePath string) error {
	var floorTexture *trace.Texture
	if texturePath != "" {
		tex, err := loadBMPTexture(texturePath)
		if err != nil {
			return err
		}
		floorTexture = tex
	}

	f, err := os.Open(scenePath)
	if err != nil {
		return err
	}
	defer f.Close()

	scene, windowWidth, windowHeight, err := parseScene(f, floorTexture)
	if err != nil {
		return err
	}

	img, err := trace.Cast(scene, windowWidth, windowHeight)
	if err != nil {
		return err
	}
	return writePNG(outPath, img)
}

// loadBMPTexture decodes a BMP file into a trace.Texture, addressed the way
// §6 specifies: Pixels[0] is the bitmap's top row, so a standard (already
// top-first) decoded image.Image maps row-for-row with no flip.
func loadBMPTexture(path string) (*trace.Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := bmp.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode bmp %q: %w", path, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([][]core.Color, h)
	for row := 0; row < h; row++ {
		pixels[row] = make([]core.Color, w)
		for col := 0; col < w; col++ {
			r, g, b, _ := img.At(bounds.Min.X+col, bounds.Min.Y+row).RGBA()
			pixels[row][col] = core.Color{R: float64(r) / 0xffff, G: float64(g) / 0xffff, B: float64(b) / 0xffff}
		}
	}
	return &trace.Texture{W: w, H: h, Pixels: pixels}, nil
}

type scanner struct {
	sc *bufio.Scanner
}

func newScanner(f *os.File) *scanner {
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1<<20), 1<<20)
	sc.Split(bufio.ScanWords)
	return &scanner{sc: sc}
}

func (s *scanner) float() (float64, error) {
	if !s.sc.Scan() {
		return 0, fmt.Errorf("unexpected end of scene file")
	}
	var v float64
	_, err := fmt.Sscanf(s.sc.Text(), "%g", &v)
	return v, err
}

func (s *scanner) int() (int, error) {
	if !s.sc.Scan() {
		return 0, fmt.Errorf("unexpected end of scene file")
	}
	var v int
	_, err := fmt.Sscanf(s.sc.Text(), "%d", &v)
	return v, err
}

func (s *scanner) vec3() (remath.Vec3, error) {
	x, err := s.float()
	if err != nil {
		return remath.Vec3Zero, err
	}
	y, err := s.float()
	if err != nil {
		return remath.Vec3Zero, err
	}
	z, err := s.float()
	if err != nil {
		return remath.Vec3Zero, err
	}
	return remath.NewVec3(x, y, z), nil
}

func (s *scanner) color() (core.Color, error) {
	v, err := s.vec3()
	return core.Color{R: v.X, G: v.Y, B: v.Z}, err
}

func (s *scanner) coeffs() (trace.Coefficients, int, error) {
	a, err := s.float()
	if err != nil {
		return trace.Coefficients{}, 0, err
	}
	d, err := s.float()
	if err != nil {
		return trace.Coefficients{}, 0, err
	}
	sp, err := s.float()
	if err != nil {
		return trace.Coefficients{}, 0, err
	}
	r, err := s.float()
	if err != nil {
		return trace.Coefficients{}, 0, err
	}
	shine, err := s.int()
	if err != nil {
		return trace.Coefficients{}, 0, err
	}
	return trace.Coefficients{Ambient: a, Diffuse: d, Specular: sp, Reflection: r}, shine, nil
}

// parseScene reads the §6 ray-tracer scene document. The floor primitive is
// implicitly prepended, per §6's note that it is the collaborator's
// responsibility, matching the canonical primitive-ordering choice of §9.
// floorTexture, if non-nil, replaces the floor's checker pattern (§4.5).
func parseScene(f *os.File, floorTexture *trace.Texture) (*trace.Scene, float64, float64, error) {
	s := newScanner(f)

	recursionLevel, err := s.int()
	if err != nil {
		return nil, 0, 0, err
	}
	dimension, err := s.int()
	if err != nil {
		return nil, 0, 0, err
	}

	nObjects, err := s.int()
	if err != nil {
		return nil, 0, 0, err
	}

	primitives := []trace.Primitive{trace.NewFloor(40, 20, 0,
		core.ColorWhite, core.ColorBlack, floorTexture,
		trace.Material{Base: core.ColorWhite, Coeffs: trace.Coefficients{Ambient: 0.4, Diffuse: 0.2, Specular: 0.1, Reflection: 0.3}, Shininess: 1})}

	for i := 0; i < nObjects; i++ {
		if !s.sc.Scan() {
			return nil, 0, 0, fmt.Errorf("unexpected end of scene file reading object %d", i)
		}
		switch s.sc.Text() {
		case "sphere":
			center, err := s.vec3()
			if err != nil {
				return nil, 0, 0, err
			}
			radius, err := s.float()
			if err != nil {
				return nil, 0, 0, err
			}
			base, err := s.color()
			if err != nil {
				return nil, 0, 0, err
			}
			coeffs, shine, err := s.coeffs()
			if err != nil {
				return nil, 0, 0, err
			}
			primitives = append(primitives, trace.NewSphere(center, radius,
				trace.Material{Base: base, Coeffs: coeffs, Shininess: shine}))
		case "triangle":
			v1, err := s.vec3()
			if err != nil {
				return nil, 0, 0, err
			}
			v2, err := s.vec3()
			if err != nil {
				return nil, 0, 0, err
			}
			v3, err := s.vec3()
			if err != nil {
				return nil, 0, 0, err
			}
			base, err := s.color()
			if err != nil {
				return nil, 0, 0, err
			}
			coeffs, shine, err := s.coeffs()
			if err != nil {
				return nil, 0, 0, err
			}
			primitives = append(primitives, trace.NewTriangle(v1, v2, v3,
				trace.Material{Base: base, Coeffs: coeffs, Shininess: shine}))
		case "general":
			coeffVals := make([]float64, 10)
			for i := range coeffVals {
				coeffVals[i], err = s.float()
				if err != nil {
					return nil, 0, 0, err
				}
			}
			boxRef, err := s.vec3()
			if err != nil {
				return nil, 0, 0, err
			}
			boxExtent, err := s.vec3()
			if err != nil {
				return nil, 0, 0, err
			}
			base, err := s.color()
			if err != nil {
				return nil, 0, 0, err
			}
			coeffs, shine, err := s.coeffs()
			if err != nil {
				return nil, 0, 0, err
			}
			primitives = append(primitives, trace.NewQuadric(
				coeffVals[0], coeffVals[1], coeffVals[2], coeffVals[3], coeffVals[4],
				coeffVals[5], coeffVals[6], coeffVals[7], coeffVals[8], coeffVals[9],
				boxRef, boxExtent, trace.Material{Base: base, Coeffs: coeffs, Shininess: shine}))
		default:
			return nil, 0, 0, fmt.Errorf("unrecognized primitive %q", s.sc.Text())
		}
	}

	nPointLights, err := s.int()
	if err != nil {
		return nil, 0, 0, err
	}
	pointLights := make([]trace.PointLight, nPointLights)
	for i := range pointLights {
		pos, err := s.vec3()
		if err != nil {
			return nil, 0, 0, err
		}
		col, err := s.color()
		if err != nil {
			return nil, 0, 0, err
		}
		pointLights[i] = trace.PointLight{Position: pos, Color: col}
	}

	nSpotLights, err := s.int()
	if err != nil {
		return nil, 0, 0, err
	}
	spotLights := make([]trace.SpotLight, nSpotLights)
	for i := range spotLights {
		pos, err := s.vec3()
		if err != nil {
			return nil, 0, 0, err
		}
		col, err := s.color()
		if err != nil {
			return nil, 0, 0, err
		}
		dir, err := s.vec3()
		if err != nil {
			return nil, 0, 0, err
		}
		cutoff, err := s.float()
		if err != nil {
			return nil, 0, 0, err
		}
		spotLights[i] = trace.NewSpotLight(pos, col, dir, cutoff)
	}

	camera := trace.NewCamera(remath.NewVec3(0, 0, 200), remath.NewVec3(0, 0, -1), remath.Vec3Up)

	scene := &trace.Scene{
		RecursionDepth: recursionLevel,
		ImageSize:      dimension,
		Primitives:     primitives,
		PointLights:    pointLights,
		SpotLights:     spotLights,
		ZNear:          1,
		ZFar:           1000,
		FovYDeg:        80,
		Camera:         camera,
	}

	// windowWidth == windowHeight == dimension in world units is the
	// original tool's default (dimension reused for both the pixel and
	// world-space square), per original_source's main.cpp.
	windowSize := float64(dimension)
	return scene, windowSize, windowSize, nil
}

func writePNG(path string, img *trace.Image) error {
	out := image.NewRGBA(image.Rect(0, 0, img.Size, img.Size))
	for row := 0; row < img.Size; row++ {
		for col := 0; col < img.Size; col++ {
			r, g, b := img.Pixels[row][col].RGB8()
			out.Set(col, row, colorRGBA{r, g, b, 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, out)
}

type colorRGBA struct {
	r, g, b, a uint8
}

func (c colorRGBA) RGBA() (uint32, uint32, uint32, uint32) {
	r := uint32(c.r)
	r |= r << 8
	g := uint32(c.g)
	g |= g << 8
	b := uint32(c.b)
	b |= b << 8
	a := uint32(c.a)
	a |= a << 8
	return r, g, b, a
}
