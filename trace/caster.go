package trace

import (
	"math"

	"golang.org/x/sync/errgroup"

	"render-core/core"
	"render-core/grerr"
	remath "render-core/math"
)

// Image is a square grid of final pixel colors, row-major, row 0 at the
// top of the frame (matching the source's i=column, j=row capture loop).
type Image struct {
	Size   int
	Pixels [][]core.Color
}

func newImage(size int) *Image {
	pixels := make([][]core.Color, size)
	for i := range pixels {
		pixels[i] = make([]core.Color, size)
	}
	return &Image{Size: size, Pixels: pixels}
}

// Cast renders scene into a Size x Size image by constructing the
// image-plane window from the camera basis and vertical field of view,
// generating one primary ray per pixel, and tracing it to the configured
// recursion depth (§4.6).
//
// windowWidth and windowHeight are the world-space dimensions of the image
// plane; they are independent of the image's pixel resolution, matching the
// source's separate windowWidth/windowHeight and imageWidth/imageHeight
// quantities.
func Cast(scene *Scene, windowWidth, windowHeight float64) (*Image, error) {
	if scene.ImageSize <= 0 {
		return nil, grerr.New(grerr.InvalidConfig, "image size must be positive")
	}

	img := newImage(scene.ImageSize)
	size := float64(scene.ImageSize)

	planeDistance := (windowHeight / 2.0) / math.Tan(degToRad(scene.FovYDeg/2.0))

	cam := scene.Camera
	topLeft := cam.Position.
		Add(cam.Look.Mul(planeDistance)).
		Add(cam.Up.Mul(windowHeight / 2.0)).
		Sub(cam.Right.Mul(windowWidth / 2.0))

	pixelWidth := windowWidth / size
	pixelHeight := windowHeight / size

	topLeft = topLeft.
		Add(cam.Right.Mul(pixelWidth * 0.5)).
		Sub(cam.Up.Mul(pixelHeight * 0.5))

	cameraPos := cam.Position
	cameraLook := cam.Look

	var g errgroup.Group
	for col := 0; col < scene.ImageSize; col++ {
		col := col
		g.Go(func() error {
			for row := 0; row < scene.ImageSize; row++ {
				pixelPoint := topLeft.
					Add(cam.Right.Mul(float64(col) * pixelWidth)).
					Sub(cam.Up.Mul(float64(row) * pixelHeight))

				dir := unitVecOrZero(pixelPoint.Sub(cameraPos))
				ray := Ray{Origin: cameraPos, Direction: dir}

				img.Pixels[row][col] = castPrimary(scene, ray, cameraPos, cameraLook)
			}
			return nil
		})
	}
	_ = g.Wait()

	return img, nil
}

// castPrimary traces a single primary ray, applying the original camera
// clip range before shading, per §4.6/§9.
func castPrimary(scene *Scene, ray Ray, cameraPos, cameraLook remath.Vec3) core.Color {
	hit, ok := scene.Nearest(ray, math.MaxFloat64)
	if !ok {
		return core.ColorBlack
	}

	depthAlongLook := hit.Point.Sub(cameraPos).Dot(cameraLook)
	if depthAlongLook > scene.ZFar || depthAlongLook < scene.ZNear {
		return core.ColorBlack
	}

	return scene.Shade(ray, hit, 0, cameraPos, cameraLook)
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }
