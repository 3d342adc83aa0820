package raster

import (
	"render-core/core"
	"render-core/math"
)

// Triangle is three vertices plus one flat color, per spec §3. It is
// produced by stage 1; stages 2 and 3 each return transformed copies.
type Triangle struct {
	V     [3]math.Vec3
	Color core.Color
}
