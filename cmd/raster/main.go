// Command raster is a thin collaborator around the render-core/raster
// package: it parses the §6 scene-document and configuration text formats,
// drives the four pipeline stages, and writes the stage dumps, the image,
// and the depth file. Parsing and image encoding live here, outside the
// core, per the core's library-only contract.
package main

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"

	"render-core/raster"

	remath "render-core/math"
	"render-core/rlog"
)

func main() {
	rlog.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if len(os.Args) < 4 {
		fmt.Fprintln(os.Stderr, "usage: raster <scene-file> <config-file> <output-dir>")
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2], os.Args[3]); err != nil {
		fmt.Fprintln(os.Stderr, "raster:", err)
		os.Exit(1)
	}
}

func run(scenePath, configPath, outDir string) error {
	sceneFile, err := os.Open(scenePath)
	if err != nil {
		return err
	}
	defer sceneFile.Close()

	eye, look, up, fovY, aspect, zNear, zFar, commands, err := parseScene(sceneFile)
	if err != nil {
		return err
	}

	stage1, err := raster.Model(commands)
	if err != nil {
		return err
	}
	if err := dumpStage(outDir, "stage1.txt", stage1); err != nil {
		return err
	}

	stage2, err := raster.View(stage1, eye, look, up)
	if err != nil {
		return err
	}
	if err := dumpStage(outDir, "stage2.txt", stage2); err != nil {
		return err
	}

	stage3, err := raster.Projection(stage2, fovY, aspect, zNear, zFar)
	if err != nil {
		return err
	}
	if err := dumpStage(outDir, "stage3.txt", stage3); err != nil {
		return err
	}

	configFile, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer configFile.Close()
	cfg, err := parseConfig(configFile)
	if err != nil {
		return err
	}

	fb, err := raster.RasterizeParallel(stage3, cfg, 4)
	if err != nil {
		return err
	}

	if err := writePNG(outDir+"/out.png", fb); err != nil {
		return err
	}

	depthFile, err := os.Create(outDir + "/depth.txt")
	if err != nil {
		return err
	}
	defer depthFile.Close()
	return raster.WriteDepthFile(depthFile, fb, cfg.ZRear)
}

func dumpStage(outDir, name string, triangles []raster.Triangle) error {
	f, err := os.Create(outDir + "/" + name)
	if err != nil {
		return err
	}
	defer f.Close()
	return raster.WriteStageDump(f, triangles)
}

func parseScene(f *os.File) (eye, look, up remath.Vec3, fovY, aspect, zNear, zFar float64, commands []raster.Command, err error) {
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	readFloat := func() (float64, error) {
		if !sc.Scan() {
			return 0, fmt.Errorf("unexpected end of scene file")
		}
		var v float64
		_, scanErr := fmt.Sscanf(sc.Text(), "%g", &v)
		return v, scanErr
	}
	readVec3 := func() (remath.Vec3, error) {
		x, err := readFloat()
		if err != nil {
			return remath.Vec3Zero, err
		}
		y, err := readFloat()
		if err != nil {
			return remath.Vec3Zero, err
		}
		z, err := readFloat()
		if err != nil {
			return remath.Vec3Zero, err
		}
		return remath.NewVec3(x, y, z), nil
	}

	if eye, err = readVec3(); err != nil {
		return
	}
	if look, err = readVec3(); err != nil {
		return
	}
	if up, err = readVec3(); err != nil {
		return
	}
	if fovY, err = readFloat(); err != nil {
		return
	}
	if aspect, err = readFloat(); err != nil {
		return
	}
	if zNear, err = readFloat(); err != nil {
		return
	}
	if zFar, err = readFloat(); err != nil {
		return
	}

	for sc.Scan() {
		switch sc.Text() {
		case "triangle":
			v1, e := readVec3()
			if e != nil {
				err = e
				return
			}
			v2, e := readVec3()
			if e != nil {
				err = e
				return
			}
			v3, e := readVec3()
			if e != nil {
				err = e
				return
			}
			commands = append(commands, raster.TriangleCmd(v1, v2, v3))
		case "translate":
			v, e := readVec3()
			if e != nil {
				err = e
				return
			}
			commands = append(commands, raster.Translate(v.X, v.Y, v.Z))
		case "scale":
			v, e := readVec3()
			if e != nil {
				err = e
				return
			}
			commands = append(commands, raster.Scale(v.X, v.Y, v.Z))
		case "rotate":
			deg, e := readFloat()
			if e != nil {
				err = e
				return
			}
			axis, e := readVec3()
			if e != nil {
				err = e
				return
			}
			commands = append(commands, raster.Rotate(deg, axis.X, axis.Y, axis.Z))
		case "push":
			commands = append(commands, raster.Push())
		case "pop":
			commands = append(commands, raster.Pop())
		case "end":
			return
		default:
			err = fmt.Errorf("unrecognized command %q", sc.Text())
			return
		}
	}
	return
}

func parseConfig(f *os.File) (raster.Config, error) {
	sc := bufio.NewScanner(f)
	sc.Split(bufio.ScanWords)
	readFloat := func() (float64, error) {
		if !sc.Scan() {
			return 0, fmt.Errorf("unexpected end of config file")
		}
		var v float64
		_, err := fmt.Sscanf(sc.Text(), "%g", &v)
		return v, err
	}
	readInt := func() (int, error) {
		if !sc.Scan() {
			return 0, fmt.Errorf("unexpected end of config file")
		}
		var v int
		_, err := fmt.Sscanf(sc.Text(), "%d", &v)
		return v, err
	}

	w, err := readInt()
	if err != nil {
		return raster.Config{}, err
	}
	h, err := readInt()
	if err != nil {
		return raster.Config{}, err
	}
	xLeft, err := readFloat()
	if err != nil {
		return raster.Config{}, err
	}
	yBottom, err := readFloat()
	if err != nil {
		return raster.Config{}, err
	}
	zFront, err := readFloat()
	if err != nil {
		return raster.Config{}, err
	}
	zRear, err := readFloat()
	if err != nil {
		return raster.Config{}, err
	}

	return raster.Config{W: w, H: h, XLeft: xLeft, YBottom: yBottom, ZFront: zFront, ZRear: zRear}, nil
}

func writePNG(path string, fb *raster.Framebuffer) error {
	rgb := fb.RGBImage()
	img := image.NewRGBA(image.Rect(0, 0, fb.W, fb.H))
	for row := 0; row < fb.H; row++ {
		for col := 0; col < fb.W; col++ {
			px := rgb[row][col]
			img.Set(col, row, rgbaColor(px[0], px[1], px[2]))
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func rgbaColor(r, g, b uint8) (c colorRGBA) {
	return colorRGBA{r, g, b, 255}
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
