// Package gltfimport loads flat triangle geometry out of a .glb/.gltf file
// for feeding into raster.TriangleCmd sequences. It deliberately stops at
// positions and per-node transforms: materials, textures, and the node
// hierarchy's animation data are outside the rasterizer's scope (§1).
package gltfimport

import (
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"render-core/grerr"
	remath "render-core/math"
)

// Mesh is one glTF primitive's triangle soup, already baked into world
// space by its node's local transform (translation/rotation/scale only; no
// skinning).
type Mesh struct {
	Name      string
	Triangles [][3]remath.Vec3
}

// Load opens a .glb or .gltf file and returns one Mesh per mesh primitive
// reachable from the default scene (or every parentless node if the file
// has no default scene), flattened into world-space triangles.
func Load(path string) ([]Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, grerr.Wrap(grerr.MalformedScene, fmt.Sprintf("gltf open %q", path), err)
	}

	nodeWorld := make([]remath.Mat4, len(doc.Nodes))
	for i := range doc.Nodes {
		nodeWorld[i] = remath.Mat4Identity()
	}

	roots := sceneRoots(doc)
	var meshes []Mesh
	for _, rootIdx := range roots {
		walkNode(doc, rootIdx, remath.Mat4Identity(), &meshes)
	}
	return meshes, nil
}

func sceneRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		roots := make([]int, 0, len(doc.Scenes[*doc.Scene].Nodes))
		for _, idx := range doc.Scenes[*doc.Scene].Nodes {
			roots = append(roots, int(idx))
		}
		return roots
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			hasParent[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func walkNode(doc *gltf.Document, nodeIdx int, parentWorld remath.Mat4, meshes *[]Mesh) {
	if nodeIdx < 0 || nodeIdx >= len(doc.Nodes) {
		return
	}
	gn := doc.Nodes[nodeIdx]

	t := gn.TranslationOrDefault()
	q := gn.RotationOrDefault() // unit quaternion (x, y, z, w)
	s := gn.ScaleOrDefault()
	angleDeg := 2 * math.Acos(math.Max(-1, math.Min(1, q[3]))) * 180 / math.Pi
	local := remath.Mat4Translation(remath.NewVec3(t[0], t[1], t[2])).
		Mul(remath.Mat4Rotation(remath.NewVec3(q[0], q[1], q[2]), angleDeg)).
		Mul(remath.Mat4Scale(remath.NewVec3(s[0], s[1], s[2])))
	world := parentWorld.Mul(local)

	if gn.Mesh != nil && int(*gn.Mesh) < len(doc.Meshes) {
		gm := doc.Meshes[*gn.Mesh]
		for pi, prim := range gm.Primitives {
			name := gm.Name
			if name == "" {
				name = fmt.Sprintf("mesh_%d", *gn.Mesh)
			}
			name = fmt.Sprintf("%s_p%d", name, pi)

			tris, err := loadPrimitiveTriangles(doc, *prim, world)
			if err != nil {
				continue
			}
			*meshes = append(*meshes, Mesh{Name: name, Triangles: tris})
		}
	}

	for _, childIdx := range gn.Children {
		walkNode(doc, int(childIdx), world, meshes)
	}
}

func loadPrimitiveTriangles(doc *gltf.Document, prim gltf.Primitive, world remath.Mat4) ([][3]remath.Vec3, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	verts := make([]remath.Vec3, len(positions))
	for i, p := range positions {
		local := remath.NewVec3(float64(p[0]), float64(p[1]), float64(p[2]))
		verts[i] = world.ApplyPoint(local)
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(verts))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	var triangles [][3]remath.Vec3
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if int(a) >= len(verts) || int(b) >= len(verts) || int(c) >= len(verts) {
			continue
		}
		triangles = append(triangles, [3]remath.Vec3{verts[a], verts[b], verts[c]})
	}
	return triangles, nil
}
